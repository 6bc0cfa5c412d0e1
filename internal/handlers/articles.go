// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ngucho/scoop-afrique-sub000/internal/article"
	"github.com/ngucho/scoop-afrique-sub000/internal/cache"
	"github.com/ngucho/scoop-afrique-sub000/internal/middleware"
	"github.com/ngucho/scoop-afrique-sub000/internal/models"
)

// Articles groups the editorial workspace handlers around the save
// pipeline.
type Articles struct {
	svc  *article.Service
	feed *cache.FeedCache
}

// NewArticles creates the article handler group.
func NewArticles(svc *article.Service, feed *cache.FeedCache) *Articles {
	return &Articles{svc: svc, feed: feed}
}

type articleRequest struct {
	Title       *string             `json:"title"`
	Excerpt     *string             `json:"excerpt"`
	Content     json.RawMessage     `json:"content"`
	CategoryID  *uuid.UUID          `json:"category_id"`
	Tags        []string            `json:"tags"`
	Slug        *string             `json:"slug"`
	Status      *string             `json:"status"`
	ScheduledAt *time.Time          `json:"scheduled_at"`
	Intent      string              `json:"intent"`
}

// validate checks the request's text fields, returning the first problem.
func (req *articleRequest) validate() string {
	title, slug := "", ""
	if req.Title != nil {
		title = *req.Title
	}
	if req.Slug != nil {
		slug = *req.Slug
	}
	if msg := validateArticleFields(title, slug, req.Content); msg != "" {
		return msg
	}
	if req.Excerpt != nil {
		if msg := validateExcerpt(*req.Excerpt); msg != "" {
			return msg
		}
	}
	return validateTags(req.Tags)
}

// patch converts the request body into a pipeline patch.
func (req *articleRequest) patch() article.Patch {
	p := article.Patch{
		Title:       req.Title,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
		Slug:        req.Slug,
		ScheduledAt: req.ScheduledAt,
	}
	if req.Status != nil {
		status := models.ArticleStatus(*req.Status)
		p.Status = &status
	}
	return p
}

// List returns all articles in the workspace.
func (h *Articles) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []models.Article{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": items})
}

// Create starts a new article owned by the caller.
func (h *Articles) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromCtx(r.Context())

	var req articleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: msg})
		return
	}

	in := article.CreateInput{
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
		ScheduledAt: req.ScheduledAt,
	}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Slug != nil {
		in.Slug = *req.Slug
	}
	if req.Status != nil {
		in.Status = models.ArticleStatus(*req.Status)
	}

	created, err := h.svc.Create(r.Context(), in, p)
	if err != nil {
		writeError(w, err)
		return
	}
	if created.IsPublished() {
		h.feed.Invalidate(r.Context(), created.Slug)
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get returns one article with its collaborator list.
func (h *Articles) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	a, collabs, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if collabs == nil {
		collabs = []models.Collaborator{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"article":       a,
		"collaborators": collabs,
	})
}

// Save runs a save through the pipeline. The body's intent field
// distinguishes autosaves from deliberate saves; when omitted the save
// is treated as deliberate.
func (h *Articles) Save(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromCtx(r.Context())
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req articleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: msg})
		return
	}
	intent, ok := article.ParseIntent(req.Intent)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "unknown intent"})
		return
	}

	before, _, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	saved, err := h.svc.Save(r.Context(), id, req.patch(), p, intent)
	if err != nil {
		writeError(w, err)
		return
	}
	// A save can rename or unpublish a live article; drop both slugs.
	if before.IsPublished() {
		h.feed.Invalidate(r.Context(), before.Slug)
	}
	if saved.IsPublished() {
		h.feed.Invalidate(r.Context(), saved.Slug)
	}
	writeJSON(w, http.StatusOK, saved)
}

// Publish moves an article into the published state through the pipeline.
func (h *Articles) Publish(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromCtx(r.Context())
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	published, err := h.svc.Publish(r.Context(), id, article.Patch{}, p)
	if err != nil {
		writeError(w, err)
		return
	}
	h.feed.Invalidate(r.Context(), published.Slug)
	writeJSON(w, http.StatusOK, published)
}

// Delete removes an article.
func (h *Articles) Delete(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromCtx(r.Context())
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	a, _, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id, p); err != nil {
		writeError(w, err)
		return
	}
	if a.IsPublished() {
		h.feed.Invalidate(r.Context(), a.Slug)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Revisions returns one page of an article's version history.
func (h *Articles) Revisions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	revs, total, err := h.svc.ListRevisions(r.Context(), id, page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}
	if revs == nil {
		revs = []models.Revision{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"revisions": revs,
		"total":     total,
		"page":      page,
		"per_page":  perPage,
	})
}

// Restore replays a revision's fields through a fresh save.
func (h *Articles) Restore(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromCtx(r.Context())
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil || version < 1 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed version"})
		return
	}

	rev, err := h.svc.RestoreRevision(r.Context(), id, version)
	if err != nil {
		writeError(w, err)
		return
	}

	restored, err := h.svc.Save(r.Context(), id, article.Patch{
		Title:   &rev.Title,
		Excerpt: rev.Excerpt,
		Content: rev.Content,
	}, p, article.IntentRestore)
	if err != nil {
		writeError(w, err)
		return
	}
	if restored.IsPublished() {
		h.feed.Invalidate(r.Context(), restored.Slug)
	}
	writeJSON(w, http.StatusOK, restored)
}
