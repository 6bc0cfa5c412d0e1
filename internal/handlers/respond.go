// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API of the editorial workspace
// and the public feed.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ngucho/scoop-afrique-sub000/internal/article"
)

// errorBody is the uniform error payload. Lock conflicts carry the
// competing holder so the editor can show who has the pen.
type errorBody struct {
	Error      string     `json:"error"`
	Field      string     `json:"field,omitempty"`
	HolderID   *uuid.UUID `json:"holder_id,omitempty"`
	HolderName string     `json:"holder_name,omitempty"`
}

// writeJSON serializes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeError maps a pipeline error to its HTTP status and payload.
func writeError(w http.ResponseWriter, err error) {
	var lerr *article.LockedError
	var verr *article.ValidationError

	switch {
	case errors.Is(err, article.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, article.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
	case errors.As(err, &lerr):
		body := errorBody{Error: lerr.Error(), HolderName: lerr.HolderName}
		if lerr.HolderID != uuid.Nil {
			body.HolderID = &lerr.HolderID
		}
		writeJSON(w, http.StatusLocked, body)
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: verr.Error(), Field: verr.Field})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

// decodeBody parses a JSON request body into dst. A false return means
// the 400 response has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed JSON body"})
		return false
	}
	return true
}

// pathUUID parses a UUID path parameter. A false return means the 400
// response has already been written.
func pathUUID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed id"})
		return uuid.Nil, false
	}
	return id, true
}
