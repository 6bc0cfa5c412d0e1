// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CollaboratorRole distinguishes how a collaborator participates in an
// article. Both roles grant edit access; the distinction is editorial.
type CollaboratorRole string

const (
	CollaboratorCoAuthor    CollaboratorRole = "co_author"
	CollaboratorContributor CollaboratorRole = "contributor"
)

// Valid reports whether the collaborator role is known.
func (r CollaboratorRole) Valid() bool {
	return r == CollaboratorCoAuthor || r == CollaboratorContributor
}

// Collaborator grants a non-owning user explicit edit access to one
// article. It is a weak reference: removing it never deletes the article
// or the user.
type Collaborator struct {
	ArticleID uuid.UUID        `json:"article_id"`
	UserID    uuid.UUID        `json:"user_id"`
	Role      CollaboratorRole `json:"role"`
	AddedAt   time.Time        `json:"added_at"`

	// Virtual fields populated by store joins.
	DisplayName string `json:"display_name,omitempty"`
}
