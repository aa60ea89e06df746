// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/margoul1Malin/lda/internal/models"
)

// AdminRepository defines the interface for admin account operations.
// Admin accounts are read-only at runtime; creation happens through the
// seed tool only.
type AdminRepository interface {
	// GetByEmail retrieves an admin by email, or nil when none exists.
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)

	// Create inserts a new admin account.
	Create(ctx context.Context, admin *models.Admin) error

	// Count returns the total number of admin accounts.
	Count(ctx context.Context) (int, error)
}

type adminRepo struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new admin repository.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepo{pool: pool}
}

// GetByEmail retrieves an admin by email, or nil when none exists.
func (r *adminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `
		SELECT id, email, password_hash, name, role, is_active, created_at
		FROM admins
		WHERE email = $1`

	var a models.Admin
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.Name,
		&a.Role,
		&a.IsActive,
		&a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new admin account.
func (r *adminRepo) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (email, password_hash, name, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		admin.Email,
		admin.PasswordHash,
		admin.Name,
		admin.Role,
		admin.IsActive,
	).Scan(&admin.ID, &admin.CreatedAt)
}

// Count returns the total number of admin accounts.
func (r *adminRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}

// Compile-time check to ensure adminRepo implements AdminRepository.
var _ AdminRepository = (*adminRepo)(nil)
