// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ngucho/scoop-afrique-sub000/internal/article"
	"github.com/ngucho/scoop-afrique-sub000/internal/markdown"
	"github.com/ngucho/scoop-afrique-sub000/internal/middleware"
	"github.com/ngucho/scoop-afrique-sub000/internal/models"
)

// Comments handles internal editorial discussion and the reader comment
// moderation queue.
type Comments struct {
	svc *article.Service
}

// NewComments creates the comment handler group.
func NewComments(svc *article.Service) *Comments {
	return &Comments{svc: svc}
}

type commentRequest struct {
	Body string `json:"body"`
}

type moderateRequest struct {
	Status string `json:"status"` // "approved" or "rejected"
}

// editorialResponse pairs a comment with its rendered body.
type editorialResponse struct {
	models.EditorialComment
	BodyHTML string `json:"body_html"`
}

func renderEditorial(c models.EditorialComment) editorialResponse {
	html, err := markdown.ToHTML(c.Body)
	if err != nil {
		html = ""
	}
	return editorialResponse{EditorialComment: c, BodyHTML: html}
}

// ListEditorial returns an article's internal discussion thread.
func (h *Comments) ListEditorial(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromCtx(r.Context())
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	items, err := h.svc.ListEditorialComments(r.Context(), id, p)
	if err != nil {
		writeError(w, err)
		return
	}
	rendered := make([]editorialResponse, 0, len(items))
	for _, c := range items {
		rendered = append(rendered, renderEditorial(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": rendered})
}

// AddEditorial attaches a new discussion comment to an article.
func (h *Comments) AddEditorial(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromCtx(r.Context())
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req commentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateComment("", req.Body); msg != "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: msg})
		return
	}

	c, err := h.svc.AddEditorialComment(r.Context(), id, req.Body, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, renderEditorial(*c))
}

// ResolveEditorial closes a discussion comment.
func (h *Comments) ResolveEditorial(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromCtx(r.Context())
	commentID, ok := pathUUID(w, chi.URLParam(r, "commentID"))
	if !ok {
		return
	}

	if err := h.svc.ResolveEditorialComment(r.Context(), commentID, p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}

// Moderate approves or rejects a pending reader comment.
func (h *Comments) Moderate(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromCtx(r.Context())
	commentID, ok := pathUUID(w, chi.URLParam(r, "commentID"))
	if !ok {
		return
	}

	var req moderateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.svc.ModerateReaderComment(r.Context(), commentID, models.ModerationStatus(req.Status), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}
