// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package richtext derives word counts and reading-time estimates from
// the editor's rich-text document tree. The tree is a JSON document of
// nodes {type, text?, content?: [...]}; the schema itself is treated as
// opaque — only leaf text nodes matter here.
package richtext

import (
	"encoding/json"
	"strings"
)

// wordsPerMinute is the assumed reading speed for the estimate.
const wordsPerMinute = 200

// node is the minimal shape needed to walk the editor document tree.
// Unknown fields (attrs, marks) are ignored.
type node struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Content []node `json:"content"`
}

// WordCount walks the rich-text tree, concatenates all leaf text and
// counts whitespace-separated tokens. Nil, empty and malformed documents
// count as zero words.
func WordCount(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var root node
	if err := json.Unmarshal(raw, &root); err != nil {
		return 0
	}

	var b strings.Builder
	collectText(&root, &b)
	return len(strings.Fields(b.String()))
}

// collectText appends the text of every leaf node, separated by spaces so
// that adjacent blocks do not merge into one token.
func collectText(n *node, b *strings.Builder) {
	if n.Text != "" {
		b.WriteString(n.Text)
		b.WriteByte(' ')
	}
	for i := range n.Content {
		collectText(&n.Content[i], b)
	}
}

// ReadingTime estimates reading time in whole minutes at 200 words per
// minute, never reporting less than one minute.
func ReadingTime(words int) int {
	if words <= 0 {
		return 1
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
