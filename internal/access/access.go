// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package access decides what an authenticated principal may do to an
// article. Edit access combines the role hierarchy with authorship and
// per-article collaborator grants; publish and delete are pure role
// gates so that the editorial review process cannot be bypassed by
// authors on their own pieces.
package access

import (
	"github.com/google/uuid"

	"github.com/ngucho/scoop-afrique-sub000/internal/models"
)

// Principal is the authenticated identity performing an operation.
type Principal struct {
	ID          uuid.UUID
	DisplayName string
	Role        models.Role
}

// CanEdit reports whether the principal may edit the article. Editors and
// above may edit anything; otherwise the principal must be the author or
// appear in the article's collaborator set (either collaborator role).
func CanEdit(p Principal, article *models.Article, collaborators []models.Collaborator) bool {
	if p.Role.AtLeast(models.RoleEditor) {
		return true
	}
	if p.ID == article.AuthorID {
		return true
	}
	for _, c := range collaborators {
		if c.UserID == p.ID {
			return true
		}
	}
	return false
}

// CanPublish reports whether the principal may move an article into the
// published state. Authorship alone is insufficient: publishing is the
// editorial review gate.
func CanPublish(p Principal) bool {
	return p.Role.AtLeast(models.RoleEditor)
}

// CanDelete reports whether the principal may delete an article,
// regardless of authorship.
func CanDelete(p Principal) bool {
	return p.Role.AtLeast(models.RoleManager)
}

// CanModerate reports whether the principal may act on pending reader
// comments.
func CanModerate(p Principal) bool {
	return p.Role.AtLeast(models.RoleEditor)
}

// CanManageCollaborators reports whether the principal may add or remove
// collaborators on the article: the author, or editor-tier and above.
func CanManageCollaborators(p Principal, article *models.Article) bool {
	return p.ID == article.AuthorID || p.Role.AtLeast(models.RoleEditor)
}
