// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ngucho/scoop-afrique-sub000/internal/article"
	"github.com/ngucho/scoop-afrique-sub000/internal/models"
	"github.com/ngucho/scoop-afrique-sub000/internal/session"
)

func publishedArticle(t *testing.T, env *testEnv, sess *session.Data, title string) *models.Article {
	t.Helper()
	a := testArticle(t, env, sess, title)
	if _, err := env.Locks.Acquire(context.Background(), a.ID, principalOf(sess)); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	published, err := env.Service.Publish(context.Background(), a.ID, article.Patch{}, principalOf(sess))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	return published
}

func TestPublicArticleAndViewCount(t *testing.T) {
	env := newTestEnv(t)
	editor := testUser(t, env, "p-editor@test.local", models.RoleEditor)
	a := publishedArticle(t, env, editor, "Public Read Path")

	get := func(slug string) *httptest.ResponseRecorder {
		r := withChiURLParam(httptest.NewRequest(http.MethodGet, "/api/feed/"+slug, nil), "slug", slug)
		w := httptest.NewRecorder()
		env.PublicH.Article(w, r)
		return w
	}

	w := get(a.Slug)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	get(a.Slug)

	fresh, err := env.Articles.FindByID(a.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if fresh.ViewCount != 2 {
		t.Errorf("view count = %d, want 2", fresh.ViewCount)
	}

	if w := get("no-such-slug"); w.Code != http.StatusNotFound {
		t.Errorf("missing slug status = %d, want 404", w.Code)
	}
}

func TestPublicFeedIsCached(t *testing.T) {
	env := newTestEnv(t)
	editor := testUser(t, env, "p-feed@test.local", models.RoleEditor)
	publishedArticle(t, env, editor, "Feed Fixture One")

	w := httptest.NewRecorder()
	env.PublicH.Feed(w, httptest.NewRequest(http.MethodGet, "/api/feed", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Articles []models.Article `json:"articles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, item := range resp.Articles {
		if item.Slug == "feed-fixture-one" {
			found = true
		}
	}
	if !found {
		t.Error("published article missing from feed")
	}

	// Second hit is served from cache with identical payload.
	w2 := httptest.NewRecorder()
	env.PublicH.Feed(w2, httptest.NewRequest(http.MethodGet, "/api/feed", nil))
	if w2.Body.String() != w.Body.String() {
		t.Error("cached payload differs from fresh payload")
	}
}

func TestPublicSubmitComment(t *testing.T) {
	env := newTestEnv(t)
	editor := testUser(t, env, "p-comment@test.local", models.RoleEditor)
	a := publishedArticle(t, env, editor, "Commentable Story")

	post := func(slug, body string) *httptest.ResponseRecorder {
		r := withChiURLParam(
			httptest.NewRequest(http.MethodPost, "/api/feed/"+slug+"/comments", strings.NewReader(body)),
			"slug", slug)
		w := httptest.NewRecorder()
		env.PublicH.SubmitComment(w, r)
		return w
	}

	w := post(a.Slug, `{"author_name":"Reader","body":"Loved the analysis"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var c models.ReaderComment
	json.Unmarshal(w.Body.Bytes(), &c)
	if c.Status != models.ModerationPending {
		t.Errorf("status = %s, want pending", c.Status)
	}

	if w := post(a.Slug, `{"author_name":"Reader","body":""}`); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("empty body status = %d, want 422", w.Code)
	}
	if w := post("no-such-slug", `{"body":"hi"}`); w.Code != http.StatusNotFound {
		t.Errorf("missing slug status = %d, want 404", w.Code)
	}
}
