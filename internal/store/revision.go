// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ngucho/scoop-afrique-sub000/internal/models"
)

// revisionColumns lists all columns for revisions SELECTs.
const revisionColumns = `article_id, version, title, excerpt, content, author_id, created_at`

// RevisionStore provides access to article revision snapshots. Revisions
// are append-only: there is no update or single-row delete path.
type RevisionStore struct {
	db *sql.DB
}

// NewRevisionStore creates a new RevisionStore backed by the given database.
func NewRevisionStore(db *sql.DB) *RevisionStore {
	return &RevisionStore{db: db}
}

// scanRevision scans a single revisions row into a Revision.
func scanRevision(scanner interface{ Scan(...any) error }) (*models.Revision, error) {
	var r models.Revision
	err := scanner.Scan(
		&r.ArticleID, &r.Version, &r.Title, &r.Excerpt, &r.Content,
		&r.AuthorID, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Snapshot bumps the article's version counter and writes one revision
// row carrying the new version number, in a single transaction. The row
// update serializes concurrent snapshots of the same article, so version
// numbers come out contiguous with no duplicates. Returns the new
// version, or sql.ErrNoRows when the article does not exist.
func (s *RevisionStore) Snapshot(articleID uuid.UUID, title string, excerpt *string, content json.RawMessage, authorID uuid.UUID) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback()

	var version int
	err = tx.QueryRow(`
		UPDATE articles SET version = version + 1 WHERE id = $1 RETURNING version
	`, articleID).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("snapshot version bump: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO revisions (article_id, version, title, excerpt, content, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, articleID, version, title, excerpt, content, authorID)
	if err != nil {
		return 0, fmt.Errorf("snapshot insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("snapshot commit: %w", err)
	}
	return version, nil
}

// ListByArticle returns one page of revisions, newest version first,
// along with the total revision count for the article.
func (s *RevisionStore) ListByArticle(articleID uuid.UUID, page, perPage int) ([]models.Revision, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	var total int
	if err := s.db.QueryRow(`
		SELECT COUNT(*) FROM revisions WHERE article_id = $1
	`, articleID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count revisions: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT `+revisionColumns+`
		FROM revisions
		WHERE article_id = $1
		ORDER BY version DESC
		LIMIT $2 OFFSET $3
	`, articleID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []models.Revision
	for rows.Next() {
		r, err := scanRevision(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, *r)
	}
	return revisions, total, rows.Err()
}

// FindByVersion returns a single revision. Returns nil if not found.
func (s *RevisionStore) FindByVersion(articleID uuid.UUID, version int) (*models.Revision, error) {
	row := s.db.QueryRow(`
		SELECT `+revisionColumns+`
		FROM revisions
		WHERE article_id = $1 AND version = $2
	`, articleID, version)
	r, err := scanRevision(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find revision: %w", err)
	}
	return r, nil
}
