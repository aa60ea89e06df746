// Package models defines the persisted record types for the LDA backend.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin represents a staff account authorized to manage notices and
// contact messages. Admins are created by the seed tool, never through
// the API.
type Admin struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// AdminProfile is the public subset of an admin account returned by the
// login endpoint. The password hash never leaves the repository layer.
type AdminProfile struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
}

// Profile returns the public projection of the admin.
func (a *Admin) Profile() AdminProfile {
	return AdminProfile{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
		Role:  a.Role,
	}
}
