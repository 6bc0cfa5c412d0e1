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

	"github.com/ngucho/scoop-afrique-sub000/internal/models"
	"github.com/ngucho/scoop-afrique-sub000/internal/session"
)

func articleRequestJSON(t *testing.T, env *testEnv, sess *session.Data, method, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, "/api/articles/"+id, strings.NewReader(body))
	r = withSession(r, sess)
	if id != "" {
		r = withChiURLParam(r, "id", id)
	}
	w := httptest.NewRecorder()
	switch method {
	case http.MethodPost:
		env.ArticlesH.Create(w, r)
	case http.MethodPut:
		env.ArticlesH.Save(w, r)
	}
	return w
}

func TestArticleCreate(t *testing.T) {
	env := newTestEnv(t)
	sess := testUser(t, env, "h-create@test.local", models.RoleAuthor)

	body := `{"title":"Handler Created Story","tags":["economy","nigeria"]}`
	w := articleRequestJSON(t, env, sess, http.MethodPost, "", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var a models.Article
	if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM articles WHERE id = $1", a.ID) })

	if a.Slug != "handler-created-story" {
		t.Errorf("slug = %q", a.Slug)
	}
	if a.AuthorID != sess.UserID {
		t.Errorf("author = %s, want %s", a.AuthorID, sess.UserID)
	}
}

func TestArticleCreateRejectsOversizedTitle(t *testing.T) {
	env := newTestEnv(t)
	sess := testUser(t, env, "h-oversize@test.local", models.RoleAuthor)

	body := `{"title":"` + strings.Repeat("x", 400) + `"}`
	w := articleRequestJSON(t, env, sess, http.MethodPost, "", body)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestArticleSaveWithoutLeaseIsLocked(t *testing.T) {
	env := newTestEnv(t)
	sess := testUser(t, env, "h-nolock@test.local", models.RoleAuthor)
	a := testArticle(t, env, sess, "Lease Enforcement Over HTTP")

	w := articleRequestJSON(t, env, sess, http.MethodPut, a.ID.String(), `{"title":"Renamed","intent":"autosave"}`)
	if w.Code != http.StatusLocked {
		t.Fatalf("status = %d, want 423; body = %s", w.Code, w.Body.String())
	}
}

func TestArticleSaveIntents(t *testing.T) {
	env := newTestEnv(t)
	sess := testUser(t, env, "h-intents@test.local", models.RoleAuthor)
	a := testArticle(t, env, sess, "Intent Wiring")

	if _, err := env.Locks.Acquire(context.Background(), a.ID, principalOf(sess)); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	// Autosave: no new version.
	w := articleRequestJSON(t, env, sess, http.MethodPut, a.ID.String(), `{"title":"Intent Wiring v2","intent":"autosave"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("autosave status = %d, body = %s", w.Code, w.Body.String())
	}
	var saved models.Article
	json.Unmarshal(w.Body.Bytes(), &saved)
	if saved.Version != 0 {
		t.Errorf("version after autosave = %d, want 0", saved.Version)
	}

	// Manual save: snapshots.
	w = articleRequestJSON(t, env, sess, http.MethodPut, a.ID.String(), `{"title":"Intent Wiring v3","intent":"manual_save"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("manual status = %d, body = %s", w.Code, w.Body.String())
	}
	json.Unmarshal(w.Body.Bytes(), &saved)
	if saved.Version != 1 {
		t.Errorf("version after manual save = %d, want 1", saved.Version)
	}

	// Omitted intent counts as a manual save: snapshots.
	w = articleRequestJSON(t, env, sess, http.MethodPut, a.ID.String(), `{"title":"Intent Wiring v4"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("no-intent status = %d, body = %s", w.Code, w.Body.String())
	}
	json.Unmarshal(w.Body.Bytes(), &saved)
	if saved.Version != 2 {
		t.Errorf("version after intent-less save = %d, want 2", saved.Version)
	}

	// Unknown intent: 400.
	w = articleRequestJSON(t, env, sess, http.MethodPut, a.ID.String(), `{"title":"x","intent":"yolo"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown intent status = %d, want 400", w.Code)
	}
}

func TestArticlePublishForbiddenForAuthor(t *testing.T) {
	env := newTestEnv(t)
	sess := testUser(t, env, "h-pubauthor@test.local", models.RoleAuthor)
	a := testArticle(t, env, sess, "Author Cannot Publish")

	if _, err := env.Locks.Acquire(context.Background(), a.ID, principalOf(sess)); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	r := withChiURLParam(withSession(
		httptest.NewRequest(http.MethodPost, "/api/articles/"+a.ID.String()+"/publish", nil), sess),
		"id", a.ID.String())
	w := httptest.NewRecorder()
	env.ArticlesH.Publish(w, r)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestArticleGetAndRevisions(t *testing.T) {
	env := newTestEnv(t)
	sess := testUser(t, env, "h-get@test.local", models.RoleEditor)
	a := testArticle(t, env, sess, "Get With History")

	if _, err := env.Locks.Acquire(context.Background(), a.ID, principalOf(sess)); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	articleRequestJSON(t, env, sess, http.MethodPut, a.ID.String(), `{"title":"Get With History v2","intent":"manual_save"}`)

	r := withChiURLParam(withSession(
		httptest.NewRequest(http.MethodGet, "/api/articles/"+a.ID.String(), nil), sess),
		"id", a.ID.String())
	w := httptest.NewRecorder()
	env.ArticlesH.Get(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	r = withChiURLParam(withSession(
		httptest.NewRequest(http.MethodGet, "/api/articles/"+a.ID.String()+"/revisions", nil), sess),
		"id", a.ID.String())
	w = httptest.NewRecorder()
	env.ArticlesH.Revisions(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("revisions status = %d", w.Code)
	}
	var resp struct {
		Total int `json:"total"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Total)
	}

	// Unknown article: 404.
	missing := "00000000-0000-0000-0000-000000000001"
	r = withChiURLParam(withSession(
		httptest.NewRequest(http.MethodGet, "/api/articles/"+missing, nil), sess),
		"id", missing)
	w = httptest.NewRecorder()
	env.ArticlesH.Get(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing article status = %d, want 404", w.Code)
	}

	// Malformed ID: 400.
	r = withChiURLParam(withSession(
		httptest.NewRequest(http.MethodGet, "/api/articles/nope", nil), sess),
		"id", "nope")
	w = httptest.NewRecorder()
	env.ArticlesH.Get(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed id status = %d, want 400", w.Code)
	}
}

func TestArticleDeleteRequiresManager(t *testing.T) {
	env := newTestEnv(t)
	author := testUser(t, env, "h-delauthor@test.local", models.RoleAuthor)
	manager := testUser(t, env, "h-delmanager@test.local", models.RoleManager)
	a := testArticle(t, env, author, "Delete Tier Check")

	del := func(sess *session.Data) *httptest.ResponseRecorder {
		r := withChiURLParam(withSession(
			httptest.NewRequest(http.MethodDelete, "/api/articles/"+a.ID.String(), nil), sess),
			"id", a.ID.String())
		w := httptest.NewRecorder()
		env.ArticlesH.Delete(w, r)
		return w
	}

	if w := del(author); w.Code != http.StatusForbidden {
		t.Errorf("author delete status = %d, want 403", w.Code)
	}
	if w := del(manager); w.Code != http.StatusOK {
		t.Errorf("manager delete status = %d, want 200", w.Code)
	}
}
