package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for article and comment fields.
const (
	maxTitleLen      = 300
	maxSlugLen       = 300
	maxContentLen    = 500_000
	maxExcerptLen    = 1_000
	maxTagCount      = 20
	maxTagLen        = 50
	maxCommentLen    = 10_000
	maxAuthorNameLen = 100
)

// validateArticleFields checks article text inputs and returns the first
// error found, or "".
func validateArticleFields(title, slug string, content []byte) string {
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	if len(content) > maxContentLen {
		return "Content is too large (max 500,000 bytes)."
	}
	return ""
}

// validateExcerpt checks the optional excerpt field.
func validateExcerpt(excerpt string) string {
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return "Excerpt is too long (max 1,000 characters)."
	}
	return ""
}

// validateTags checks the tag list.
func validateTags(tags []string) string {
	if len(tags) > maxTagCount {
		return "Too many tags (max 20)."
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return "Tags must not be empty."
		}
		if utf8.RuneCountInString(tag) > maxTagLen {
			return "Tag is too long (max 50 characters)."
		}
	}
	return ""
}

// validateComment checks a comment submission.
func validateComment(authorName, body string) string {
	if utf8.RuneCountInString(authorName) > maxAuthorNameLen {
		return "Name is too long (max 100 characters)."
	}
	if strings.TrimSpace(body) == "" {
		return "Comment body is required."
	}
	if utf8.RuneCountInString(body) > maxCommentLen {
		return "Comment is too long (max 10,000 characters)."
	}
	return ""
}
