// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system. Roles form a
// linear hierarchy; use AtLeast for privilege comparisons instead of
// enumerating role names at call sites.
type Role string

const (
	RoleContributor Role = "contributor"
	RoleAuthor      Role = "author"
	RoleEditor      Role = "editor"
	RoleManager     Role = "manager"
	RoleAdmin       Role = "admin"
)

// roleRank orders roles into the privilege hierarchy. Unknown roles rank
// below contributor.
var roleRank = map[Role]int{
	RoleContributor: 1,
	RoleAuthor:      2,
	RoleEditor:      3,
	RoleManager:     4,
	RoleAdmin:       5,
}

// AtLeast reports whether the role carries at least the privileges of min.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// User represents a staff member of the editorial platform.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
