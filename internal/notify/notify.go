// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify builds the per-user notification summary shown in the
// editorial workspace header. The summary is computed from the comment
// tables on demand; nothing is queued or pushed.
package notify

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ngucho/scoop-afrique-sub000/internal/access"
	"github.com/ngucho/scoop-afrique-sub000/internal/markdown"
	"github.com/ngucho/scoop-afrique-sub000/internal/models"
	"github.com/ngucho/scoop-afrique-sub000/internal/store"
)

// EditorialAlert is one article's unresolved discussion thread, with the
// latest comment body rendered for display.
type EditorialAlert struct {
	ArticleID       uuid.UUID `json:"article_id"`
	ArticleTitle    string    `json:"article_title"`
	UnresolvedCount int       `json:"unresolved_count"`
	LatestHTML      string    `json:"latest_html"`
	LatestAt        time.Time `json:"latest_at"`
}

// Summary is the full notification payload for one user.
type Summary struct {
	Editorial     []EditorialAlert             `json:"editorial"`
	ReaderPending []models.ModerationQueueItem `json:"reader_pending"`
}

// Aggregator assembles notification summaries from the comment store.
type Aggregator struct {
	comments *store.CommentStore
}

// NewAggregator creates a notification aggregator.
func NewAggregator(comments *store.CommentStore) *Aggregator {
	return &Aggregator{comments: comments}
}

// Summarize builds the notification summary for a principal. Everyone
// sees the unresolved editorial threads on their own articles; the
// reader-comment moderation queue is shown to editor tier and above.
func (a *Aggregator) Summarize(p access.Principal) (*Summary, error) {
	threads, err := a.comments.UnresolvedEditorialSummaries(p.ID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Editorial:     make([]EditorialAlert, 0, len(threads)),
		ReaderPending: []models.ModerationQueueItem{},
	}

	for _, th := range threads {
		html, err := markdown.ToHTML(th.LatestBody)
		if err != nil {
			// A malformed body must not sink the whole summary.
			slog.Warn("render comment preview", "article_id", th.ArticleID, "error", err)
			html = ""
		}
		summary.Editorial = append(summary.Editorial, EditorialAlert{
			ArticleID:       th.ArticleID,
			ArticleTitle:    th.ArticleTitle,
			UnresolvedCount: th.UnresolvedCount,
			LatestHTML:      html,
			LatestAt:        th.LatestAt,
		})
	}

	if access.CanModerate(p) {
		pending, err := a.comments.PendingReaderSummaries()
		if err != nil {
			return nil, err
		}
		if pending != nil {
			summary.ReaderPending = pending
		}
	}

	return summary, nil
}
