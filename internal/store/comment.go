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

// CommentStore manages editorial discussion threads and the reader
// comment moderation queue.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// CreateEditorial attaches an internal discussion comment to an article.
func (s *CommentStore) CreateEditorial(articleID, authorID uuid.UUID, body string) (*models.EditorialComment, error) {
	c := &models.EditorialComment{}
	err := s.db.QueryRow(`
		INSERT INTO editorial_comments (article_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, article_id, author_id, body, resolved, created_at
	`, articleID, authorID, body).Scan(
		&c.ID, &c.ArticleID, &c.AuthorID, &c.Body, &c.Resolved, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create editorial comment: %w", err)
	}
	return c, nil
}

// FindEditorialByID retrieves an editorial comment. Returns nil if not found.
func (s *CommentStore) FindEditorialByID(id uuid.UUID) (*models.EditorialComment, error) {
	c := &models.EditorialComment{}
	err := s.db.QueryRow(`
		SELECT id, article_id, author_id, body, resolved, created_at
		FROM editorial_comments WHERE id = $1
	`, id).Scan(&c.ID, &c.ArticleID, &c.AuthorID, &c.Body, &c.Resolved, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find editorial comment: %w", err)
	}
	return c, nil
}

// ResolveEditorial marks an editorial comment as resolved.
func (s *CommentStore) ResolveEditorial(id uuid.UUID) error {
	if _, err := s.db.Exec(`
		UPDATE editorial_comments SET resolved = TRUE WHERE id = $1
	`, id); err != nil {
		return fmt.Errorf("resolve editorial comment: %w", err)
	}
	return nil
}

// ListEditorialByArticle returns all editorial comments on an article,
// oldest first.
func (s *CommentStore) ListEditorialByArticle(articleID uuid.UUID) ([]models.EditorialComment, error) {
	rows, err := s.db.Query(`
		SELECT id, article_id, author_id, body, resolved, created_at
		FROM editorial_comments
		WHERE article_id = $1
		ORDER BY created_at ASC
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("list editorial comments: %w", err)
	}
	defer rows.Close()

	var items []models.EditorialComment
	for rows.Next() {
		var c models.EditorialComment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.AuthorID, &c.Body, &c.Resolved, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan editorial comment: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// UnresolvedEditorialSummaries aggregates unresolved editorial comments
// per article for every article the user authors or collaborates on.
func (s *CommentStore) UnresolvedEditorialSummaries(userID uuid.UUID) ([]models.EditorialThreadSummary, error) {
	rows, err := s.db.Query(`
		SELECT a.id, a.title, COUNT(ec.id),
		       (SELECT body FROM editorial_comments
		        WHERE article_id = a.id AND NOT resolved
		        ORDER BY created_at DESC LIMIT 1),
		       MAX(ec.created_at)
		FROM articles a
		JOIN editorial_comments ec ON ec.article_id = a.id AND NOT ec.resolved
		WHERE a.author_id = $1
		   OR EXISTS (SELECT 1 FROM collaborators c
		              WHERE c.article_id = a.id AND c.user_id = $1)
		GROUP BY a.id, a.title
		ORDER BY MAX(ec.created_at) DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("unresolved editorial summaries: %w", err)
	}
	defer rows.Close()

	var items []models.EditorialThreadSummary
	for rows.Next() {
		var t models.EditorialThreadSummary
		if err := rows.Scan(&t.ArticleID, &t.ArticleTitle, &t.UnresolvedCount, &t.LatestBody, &t.LatestAt); err != nil {
			return nil, fmt.Errorf("scan editorial summary: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// CreateReader inserts a public reader comment in pending status.
func (s *CommentStore) CreateReader(articleID uuid.UUID, authorName, body string) (*models.ReaderComment, error) {
	c := &models.ReaderComment{}
	err := s.db.QueryRow(`
		INSERT INTO reader_comments (article_id, author_name, body)
		VALUES ($1, $2, $3)
		RETURNING id, article_id, author_name, body, status, created_at
	`, articleID, authorName, body).Scan(
		&c.ID, &c.ArticleID, &c.AuthorName, &c.Body, &c.Status, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create reader comment: %w", err)
	}
	return c, nil
}

// FindReaderByID retrieves a reader comment. Returns nil if not found.
func (s *CommentStore) FindReaderByID(id uuid.UUID) (*models.ReaderComment, error) {
	c := &models.ReaderComment{}
	err := s.db.QueryRow(`
		SELECT id, article_id, author_name, body, status, created_at
		FROM reader_comments WHERE id = $1
	`, id).Scan(&c.ID, &c.ArticleID, &c.AuthorName, &c.Body, &c.Status, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find reader comment: %w", err)
	}
	return c, nil
}

// ApprovedReaderByArticle returns the approved reader comments on an
// article, oldest first. Used by the public feed.
func (s *CommentStore) ApprovedReaderByArticle(articleID uuid.UUID) ([]models.ReaderComment, error) {
	rows, err := s.db.Query(`
		SELECT id, article_id, author_name, body, status, created_at
		FROM reader_comments
		WHERE article_id = $1 AND status = 'approved'
		ORDER BY created_at ASC
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("approved reader comments: %w", err)
	}
	defer rows.Close()

	var items []models.ReaderComment
	for rows.Next() {
		var c models.ReaderComment
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.AuthorName, &c.Body, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reader comment: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Moderate sets the moderation status of a reader comment.
func (s *CommentStore) Moderate(id uuid.UUID, status models.ModerationStatus) error {
	if _, err := s.db.Exec(`
		UPDATE reader_comments SET status = $1 WHERE id = $2
	`, status, id); err != nil {
		return fmt.Errorf("moderate reader comment: %w", err)
	}
	return nil
}

// PendingReaderSummaries aggregates the moderation queue per article,
// oldest pending comment first.
func (s *CommentStore) PendingReaderSummaries() ([]models.ModerationQueueItem, error) {
	rows, err := s.db.Query(`
		SELECT a.id, a.title, COUNT(rc.id), MIN(rc.created_at)
		FROM articles a
		JOIN reader_comments rc ON rc.article_id = a.id AND rc.status = 'pending'
		GROUP BY a.id, a.title
		ORDER BY MIN(rc.created_at) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("pending reader summaries: %w", err)
	}
	defer rows.Close()

	var items []models.ModerationQueueItem
	for rows.Next() {
		var q models.ModerationQueueItem
		if err := rows.Scan(&q.ArticleID, &q.ArticleTitle, &q.PendingCount, &q.OldestAt); err != nil {
			return nil, fmt.Errorf("scan moderation item: %w", err)
		}
		items = append(items, q)
	}
	return items, rows.Err()
}
