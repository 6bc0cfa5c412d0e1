// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ngucho/scoop-afrique-sub000/internal/models"
)

// CollaboratorStore manages the article/user collaboration relation.
type CollaboratorStore struct {
	db *sql.DB
}

// NewCollaboratorStore returns a new CollaboratorStore.
func NewCollaboratorStore(db *sql.DB) *CollaboratorStore {
	return &CollaboratorStore{db: db}
}

// Add grants a user collaborator access to an article. Adding an
// existing collaborator updates their role in place.
func (s *CollaboratorStore) Add(articleID, userID uuid.UUID, role models.CollaboratorRole) (*models.Collaborator, error) {
	c := &models.Collaborator{}
	err := s.db.QueryRow(`
		INSERT INTO collaborators (article_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (article_id, user_id) DO UPDATE SET role = EXCLUDED.role
		RETURNING article_id, user_id, role, added_at
	`, articleID, userID, role).Scan(&c.ArticleID, &c.UserID, &c.Role, &c.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("add collaborator: %w", err)
	}
	return c, nil
}

// Remove revokes a user's collaborator access. Removing an absent
// collaborator is a no-op.
func (s *CollaboratorStore) Remove(articleID, userID uuid.UUID) error {
	_, err := s.db.Exec(`
		DELETE FROM collaborators WHERE article_id = $1 AND user_id = $2
	`, articleID, userID)
	if err != nil {
		return fmt.Errorf("remove collaborator: %w", err)
	}
	return nil
}

// ListByArticle returns all collaborators on an article with their
// display names, oldest grant first.
func (s *CollaboratorStore) ListByArticle(articleID uuid.UUID) ([]models.Collaborator, error) {
	rows, err := s.db.Query(`
		SELECT c.article_id, c.user_id, c.role, c.added_at, u.display_name
		FROM collaborators c
		JOIN users u ON u.id = c.user_id
		WHERE c.article_id = $1
		ORDER BY c.added_at ASC
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("list collaborators: %w", err)
	}
	defer rows.Close()

	var items []models.Collaborator
	for rows.Next() {
		var c models.Collaborator
		if err := rows.Scan(&c.ArticleID, &c.UserID, &c.Role, &c.AddedAt, &c.DisplayName); err != nil {
			return nil, fmt.Errorf("scan collaborator: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
