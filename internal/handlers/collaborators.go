// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ngucho/scoop-afrique-sub000/internal/article"
	"github.com/ngucho/scoop-afrique-sub000/internal/middleware"
	"github.com/ngucho/scoop-afrique-sub000/internal/models"
)

// Collaborators manages per-article edit grants.
type Collaborators struct {
	svc *article.Service
}

// NewCollaborators creates the collaborator handler group.
func NewCollaborators(svc *article.Service) *Collaborators {
	return &Collaborators{svc: svc}
}

type collaboratorRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// Add grants a user edit access to an article.
func (h *Collaborators) Add(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromCtx(r.Context())
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req collaboratorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	collab, err := h.svc.AddCollaborator(r.Context(), id, req.UserID, models.CollaboratorRole(req.Role), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, collab)
}

// Remove revokes a user's edit access. Idempotent.
func (h *Collaborators) Remove(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromCtx(r.Context())
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	userID, ok := pathUUID(w, chi.URLParam(r, "userID"))
	if !ok {
		return
	}

	if err := h.svc.RemoveCollaborator(r.Context(), id, userID, p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
