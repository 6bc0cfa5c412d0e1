// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ngucho/scoop-afrique-sub000/internal/editlock"
	"github.com/ngucho/scoop-afrique-sub000/internal/middleware"
)

// Locks exposes the edit lease over HTTP.
type Locks struct {
	locks *editlock.Manager
}

// NewLocks creates the lock handler group.
func NewLocks(locks *editlock.Manager) *Locks {
	return &Locks{locks: locks}
}

// Acquire takes the edit lease on an article. A denied grant returns 409
// with the competing holder so the editor opens read-only.
func (h *Locks) Acquire(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromCtx(r.Context())
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	grant, err := h.locks.Acquire(r.Context(), id, p)
	if err != nil {
		writeError(w, err)
		return
	}
	if !grant.Granted {
		writeJSON(w, http.StatusConflict, grant)
		return
	}
	writeJSON(w, http.StatusOK, grant)
}

// Renew extends the caller's lease. Always 200: a lost lease surfaces on
// the next save, not here.
func (h *Locks) Renew(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromCtx(r.Context())
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.locks.Renew(r.Context(), id, p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "renewed"})
}

// Release drops the caller's lease. Idempotent.
func (h *Locks) Release(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromCtx(r.Context())
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.locks.Release(r.Context(), id, p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "released"})
}

// Status reports the current lease holder, if any.
func (h *Locks) Status(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	lock, err := h.locks.Holder(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"locked": lock != nil, "lock": lock})
}
