// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary
// strings, including accented titles, and best-effort uniqueness
// resolution against existing articles.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is used when a title slugifies to nothing (empty or
// punctuation-only titles). A slug is never empty.
const Fallback = "untitled"

var (
	// nonAlphanumeric matches runs of anything that isn't a lowercase
	// letter or digit.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

	// deaccent decomposes characters and drops combining marks, so that
	// "Élections" folds to "Elections".
	deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Côte d'Ivoire Élections 2026" → "cote-divoire-elections-2026"
func Generate(s string) string {
	result := strings.TrimSpace(s)
	if folded, _, err := transform.String(deaccent, result); err == nil {
		result = folded
	}
	result = strings.ToLower(result)
	// Apostrophes join their neighbours rather than splitting words.
	result = strings.ReplaceAll(result, "'", "")
	result = strings.ReplaceAll(result, "’", "")
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if result == "" {
		return Fallback
	}
	return result
}

// ExistsFunc reports whether a candidate slug is already taken.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Unique resolves slug collisions by appending -2, -3, … until the
// exists check clears. It reduces collision probability only; the unique
// index on articles.slug remains the final arbiter under concurrent
// creation.
func Unique(ctx context.Context, candidate string, exists ExistsFunc) (string, error) {
	taken, err := exists(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("slug uniqueness check: %w", err)
	}
	if !taken {
		return candidate, nil
	}

	for i := 2; ; i++ {
		next := fmt.Sprintf("%s-%d", candidate, i)
		taken, err := exists(ctx, next)
		if err != nil {
			return "", fmt.Errorf("slug uniqueness check: %w", err)
		}
		if !taken {
			return next, nil
		}
	}
}
