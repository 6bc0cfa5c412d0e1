// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ngucho/scoop-afrique-sub000/internal/models"
)

// articleColumns lists all columns for articles SELECTs.
const articleColumns = `id, slug, title, excerpt, content, category_id, author_id, tags,
	status, published_at, scheduled_at, word_count, reading_time, version,
	view_count, last_saved_by, created_at, updated_at`

// ArticleStore handles all article-related database operations.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// scanArticle scans a single articles row into an Article.
func scanArticle(scanner interface{ Scan(...any) error }) (*models.Article, error) {
	var a models.Article
	var tags []byte
	err := scanner.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Excerpt, &a.Content, &a.CategoryID,
		&a.AuthorID, &tags, &a.Status, &a.PublishedAt, &a.ScheduledAt,
		&a.WordCount, &a.ReadingTime, &a.Version, &a.ViewCount,
		&a.LastSavedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &a.Tags); err != nil {
			return nil, fmt.Errorf("decode article tags: %w", err)
		}
	}
	return &a, nil
}

// encodeTags marshals the tag list for the jsonb column. Nil stays nil so
// the column defaults apply.
func encodeTags(tags []string) (any, error) {
	if tags == nil {
		return nil, nil
	}
	payload, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode article tags: %w", err)
	}
	return payload, nil
}

// Create inserts a new article and returns it with generated fields.
func (s *ArticleStore) Create(a *models.Article) (*models.Article, error) {
	tags, err := encodeTags(a.Tags)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(`
		INSERT INTO articles (slug, title, excerpt, content, category_id, author_id,
		                      tags, status, published_at, scheduled_at,
		                      word_count, reading_time, last_saved_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+articleColumns,
		a.Slug, a.Title, a.Excerpt, a.Content, a.CategoryID, a.AuthorID,
		tags, a.Status, a.PublishedAt, a.ScheduledAt,
		a.WordCount, a.ReadingTime, a.LastSavedBy,
	)
	created, err := scanArticle(row)
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return created, nil
}

// FindByID retrieves an article by its UUID. Returns nil if not found.
func (s *ArticleStore) FindByID(id uuid.UUID) (*models.Article, error) {
	row := s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return a, nil
}

// FindPublishedBySlug retrieves a published article by its slug. Used for
// the public feed. Returns nil if not found.
func (s *ArticleStore) FindPublishedBySlug(slug string) (*models.Article, error) {
	row := s.db.QueryRow(`
		SELECT `+articleColumns+` FROM articles WHERE slug = $1 AND status = 'published'
	`, slug)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by slug: %w", err)
	}
	return a, nil
}

// SlugExists reports whether a slug is already used by another live
// article. Pass uuid.Nil as excludeID when creating a new article.
func (s *ArticleStore) SlugExists(slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM articles WHERE slug = $1 AND id <> $2)
	`, slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return exists, nil
}

// Update commits every mutable field of the article in one statement.
// The caller is responsible for having set derived metrics and
// last_saved_by to their final values. The version counter is never
// written here: RevisionStore.Snapshot is its sole writer, so a save
// carrying a stale read can never roll the counter back under a
// concurrent snapshot.
func (s *ArticleStore) Update(a *models.Article) error {
	tags, err := encodeTags(a.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE articles SET
			slug = $1, title = $2, excerpt = $3, content = $4, category_id = $5,
			tags = $6, status = $7, published_at = $8, scheduled_at = $9,
			word_count = $10, reading_time = $11,
			last_saved_by = $12, updated_at = NOW()
		WHERE id = $13
	`, a.Slug, a.Title, a.Excerpt, a.Content, a.CategoryID,
		tags, a.Status, a.PublishedAt, a.ScheduledAt,
		a.WordCount, a.ReadingTime,
		a.LastSavedBy, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

// Delete removes an article by ID. Revisions, collaborators and comments
// go with it via foreign-key cascade.
func (s *ArticleStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM articles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// List returns all articles ordered by last update descending.
func (s *ArticleStore) List() ([]models.Article, error) {
	rows, err := s.db.Query(`SELECT ` + articleColumns + ` FROM articles ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()
	return collectArticles(rows)
}

// ListPublished returns published articles, newest publication first.
func (s *ArticleStore) ListPublished() ([]models.Article, error) {
	rows, err := s.db.Query(`
		SELECT ` + articleColumns + ` FROM articles
		WHERE status = 'published'
		ORDER BY published_at DESC NULLS LAST
	`)
	if err != nil {
		return nil, fmt.Errorf("list published articles: %w", err)
	}
	defer rows.Close()
	return collectArticles(rows)
}

func collectArticles(rows *sql.Rows) ([]models.Article, error) {
	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// IncrementViewCount bumps the view counter atomically. View counting is
// non-critical: failures are logged and swallowed so they never abort the
// read path.
func (s *ArticleStore) IncrementViewCount(id uuid.UUID) {
	if _, err := s.db.Exec(`UPDATE articles SET view_count = view_count + 1 WHERE id = $1`, id); err != nil {
		slog.Warn("view count increment failed", "article_id", id, "error", err)
	}
}
