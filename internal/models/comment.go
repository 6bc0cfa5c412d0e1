// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// EditorialComment is an internal discussion note attached to an article.
// It never affects article state directly; unresolved comments surface in
// the notification summary of the article's author and collaborators.
type EditorialComment struct {
	ID        uuid.UUID `json:"id"`
	ArticleID uuid.UUID `json:"article_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"` // Markdown source
	Resolved  bool      `json:"resolved"`
	CreatedAt time.Time `json:"created_at"`
}

// ModerationStatus represents the moderation state of a reader comment.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// ReaderComment is a public comment left on a published article. Comments
// start in pending status and are held for editorial moderation.
type ReaderComment struct {
	ID         uuid.UUID        `json:"id"`
	ArticleID  uuid.UUID        `json:"article_id"`
	AuthorName string           `json:"author_name"`
	Body       string           `json:"body"`
	Status     ModerationStatus `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
}

// EditorialThreadSummary aggregates the unresolved editorial discussion
// on one article, for notification badges.
type EditorialThreadSummary struct {
	ArticleID       uuid.UUID `json:"article_id"`
	ArticleTitle    string    `json:"article_title"`
	UnresolvedCount int       `json:"unresolved_count"`
	LatestBody      string    `json:"latest_body"`
	LatestAt        time.Time `json:"latest_at"`
}

// ModerationQueueItem aggregates pending reader comments per article,
// for the moderation badge shown to editorial staff.
type ModerationQueueItem struct {
	ArticleID    uuid.UUID `json:"article_id"`
	ArticleTitle string    `json:"article_title"`
	PendingCount int       `json:"pending_count"`
	OldestAt     time.Time `json:"oldest_at"`
}
