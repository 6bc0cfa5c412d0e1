package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: one user
// per role tier and a couple of editorial desks. No-op when users exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	users := []struct {
		email, name, role string
	}{
		{"admin@scoopafrique.local", "Admin", "admin"},
		{"manager@scoopafrique.local", "Desk Manager", "manager"},
		{"editor@scoopafrique.local", "Senior Editor", "editor"},
		{"author@scoopafrique.local", "Staff Writer", "author"},
	}

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed bcrypt: %w", err)
		}
		if _, err := db.Exec(`
			INSERT INTO users (email, password_hash, display_name, role)
			VALUES ($1, $2, $3, $4)
		`, u.email, string(hash), u.name, u.role); err != nil {
			return fmt.Errorf("seed insert user %s: %w", u.email, err)
		}
	}

	categories := []struct {
		name, slug string
		order      int
	}{
		{"Politics", "politics", 1},
		{"Economy", "economy", 2},
		{"Culture", "culture", 3},
	}
	for _, c := range categories {
		if _, err := db.Exec(`
			INSERT INTO categories (name, slug, sort_order)
			VALUES ($1, $2, $3)
		`, c.name, c.slug, c.order); err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.slug, err)
		}
	}

	slog.Info("database seeded with default users", "password", "changeme")
	return nil
}
