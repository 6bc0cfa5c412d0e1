// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ngucho/scoop-afrique-sub000/internal/article"
	"github.com/ngucho/scoop-afrique-sub000/internal/cache"
	"github.com/ngucho/scoop-afrique-sub000/internal/models"
	"github.com/ngucho/scoop-afrique-sub000/internal/store"
)

// Public serves the reader-facing feed. No session required.
type Public struct {
	svc        *article.Service
	articles   *store.ArticleStore
	categories *store.CategoryStore
	comments   *store.CommentStore
	feed       *cache.FeedCache
}

// NewPublic creates the public handler group.
func NewPublic(svc *article.Service, articles *store.ArticleStore, categories *store.CategoryStore, comments *store.CommentStore, feed *cache.FeedCache) *Public {
	return &Public{svc: svc, articles: articles, categories: categories, comments: comments, feed: feed}
}

// Feed returns the published-article listing, cached in Valkey.
func (h *Public) Feed(w http.ResponseWriter, r *http.Request) {
	if payload, ok := h.feed.Get(r.Context(), cache.IndexKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
		return
	}

	items, err := h.articles.ListPublished()
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []models.Article{}
	}

	payload, err := json.Marshal(map[string]any{"articles": items})
	if err != nil {
		writeError(w, err)
		return
	}
	h.feed.Set(r.Context(), cache.IndexKey, payload)
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// Article serves one published article with its approved reader
// comments. Served fresh on every hit so the view counter stays honest.
func (h *Public) Article(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	a, err := h.svc.View(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}

	comments, err := h.comments.ApprovedReaderByArticle(a.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if comments == nil {
		comments = []models.ReaderComment{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"article":  a,
		"comments": comments,
	})
}

// Categories returns the category list with published-article counts.
func (h *Public) Categories(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List()
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": items})
}

type readerCommentRequest struct {
	AuthorName string `json:"author_name"`
	Body       string `json:"body"`
}

// SubmitComment files a reader comment into the moderation queue.
func (h *Public) SubmitComment(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req readerCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateComment(req.AuthorName, req.Body); msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: msg})
		return
	}
	if req.AuthorName == "" {
		req.AuthorName = "Anonymous"
	}

	a, err := h.articles.FindPublishedBySlug(slug)
	if err != nil {
		writeError(w, err)
		return
	}
	if a == nil {
		writeError(w, article.ErrNotFound)
		return
	}

	c, err := h.svc.SubmitReaderComment(r.Context(), a.ID, req.AuthorName, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, c)
}
