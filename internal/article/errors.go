// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package article

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors surfaced to the transport layer. None of these are
// retriable without a state change: a missing article stays missing, and
// a forbidden principal needs a role change.
var (
	ErrNotFound  = errors.New("article not found")
	ErrForbidden = errors.New("forbidden")
)

// LockedError rejects a save or acquire because another principal holds
// the edit lease. It carries the holder's identity so the UI can tell
// the user who has the pen. Retriable after lease expiry.
type LockedError struct {
	HolderID   uuid.UUID
	HolderName string
}

func (e *LockedError) Error() string {
	if e.HolderName == "" {
		return "article is not locked by caller"
	}
	return fmt.Sprintf("article locked by %s", e.HolderName)
}

// ValidationError rejects malformed input with field-level detail.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
