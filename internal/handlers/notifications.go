// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/ngucho/scoop-afrique-sub000/internal/middleware"
	"github.com/ngucho/scoop-afrique-sub000/internal/notify"
)

// Notifications serves the workspace notification summary.
type Notifications struct {
	agg *notify.Aggregator
}

// NewNotifications creates the notification handler group.
func NewNotifications(agg *notify.Aggregator) *Notifications {
	return &Notifications{agg: agg}
}

// Summary returns the caller's notification payload: unresolved
// editorial threads on their articles, plus the moderation queue for
// editor tier and above.
func (h *Notifications) Summary(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFromCtx(r.Context())

	summary, err := h.agg.Summarize(p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
