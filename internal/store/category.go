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

// CategoryStore manages editorial desks in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, sort_order, created_at, updated_at`

// List returns all categories ordered by sort_order, with article counts.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.sort_order,
		       c.created_at, c.updated_at,
		       COUNT(a.id) AS article_count
		FROM categories c
		LEFT JOIN articles a ON a.category_id = c.id
		GROUP BY c.id
		ORDER BY c.sort_order, c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.SortOrder,
			&c.CreatedAt, &c.UpdatedAt, &c.ArticleCount,
		); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by its UUID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	c := &models.Category{}
	err := s.db.QueryRow(`
		SELECT `+categoryColumns+` FROM categories WHERE id = $1
	`, id).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.SortOrder,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category.
func (s *CategoryStore) Create(name, slug, description string, sortOrder int) (*models.Category, error) {
	c := &models.Category{}
	err := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		name, slug, description, sortOrder,
	).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.SortOrder,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}
