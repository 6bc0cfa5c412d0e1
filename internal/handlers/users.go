// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/ngucho/scoop-afrique-sub000/internal/store"
)

// Users lists staff accounts for the collaborator picker.
type Users struct {
	users *store.UserStore
}

// NewUsers creates the user handler group.
func NewUsers(users *store.UserStore) *Users {
	return &Users{users: users}
}

// List returns all staff accounts.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.users.List()
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]userResponse, 0, len(items))
	for _, u := range items {
		out = append(out, userResponse{
			ID:          u.ID.String(),
			Email:       u.Email,
			DisplayName: u.DisplayName,
			Role:        string(u.Role),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}
