// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ArticleStatus represents the editorial state of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusReview    ArticleStatus = "review"
	StatusScheduled ArticleStatus = "scheduled"
	StatusPublished ArticleStatus = "published"
)

// Valid reports whether the status is one of the known editorial states.
func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusReview, StatusScheduled, StatusPublished:
		return true
	default:
		return false
	}
}

// Article is the unit of collaboration: one editorial piece worked on by
// its author, registered collaborators, and editorial staff. Content is
// an opaque rich-text tree produced by the editor; WordCount, ReadingTime
// and Version are derived server-side and never accepted from clients.
type Article struct {
	ID          uuid.UUID       `json:"id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Excerpt     *string         `json:"excerpt,omitempty"`
	Content     json.RawMessage `json:"content,omitempty"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	AuthorID    uuid.UUID       `json:"author_id"`
	Tags        []string        `json:"tags,omitempty"`
	Status      ArticleStatus   `json:"status"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
	ScheduledAt *time.Time      `json:"scheduled_at,omitempty"`
	WordCount   int             `json:"word_count"`
	ReadingTime int             `json:"reading_time_minutes"`
	Version     int             `json:"version"`
	ViewCount   int             `json:"view_count"`
	LastSavedBy *uuid.UUID      `json:"last_saved_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsPublished returns true if the article is in published status.
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// Revision is an immutable snapshot of an article's editable fields at a
// save point. Revisions are append-only; Version matches the article's
// version counter at the moment the snapshot was taken.
type Revision struct {
	ArticleID uuid.UUID       `json:"article_id"`
	Version   int             `json:"version"`
	Title     string          `json:"title"`
	Excerpt   *string         `json:"excerpt,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	AuthorID  uuid.UUID       `json:"author_id"`
	CreatedAt time.Time       `json:"created_at"`
}
