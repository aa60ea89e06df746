package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/margoul1Malin/lda/internal/models"
)

// ContactRepository defines the interface for contact message operations.
type ContactRepository interface {
	// Create inserts a new contact message.
	Create(ctx context.Context, contact *models.ContactQuery) error

	// List returns a page of contact messages, newest first, optionally
	// filtered by status, along with the total row count for the filter.
	List(ctx context.Context, status *models.ContactStatus, page, limit int) ([]*models.ContactQuery, int64, error)

	// UpdateStatus sets a message's triage status and returns the
	// updated record, or nil when the id does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) (*models.ContactQuery, error)

	// Delete removes a message. Returns false when the id does not exist.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type contactRepo struct {
	pool *pgxpool.Pool
}

// NewContactRepository creates a new contact message repository.
func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &contactRepo{pool: pool}
}

// Create inserts a new contact message.
func (r *contactRepo) Create(ctx context.Context, contact *models.ContactQuery) error {
	query := `
		INSERT INTO contact_queries (name, email, subject, message, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		contact.Name,
		contact.Email,
		contact.Subject,
		contact.Message,
		contact.Status,
	).Scan(&contact.ID, &contact.CreatedAt)
}

// List returns a page of contact messages, newest first.
func (r *contactRepo) List(ctx context.Context, status *models.ContactStatus, page, limit int) ([]*models.ContactQuery, int64, error) {
	offset := (page - 1) * limit

	countQuery := `SELECT COUNT(*) FROM contact_queries WHERE ($1::text IS NULL OR status = $1)`
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, status).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, name, email, subject, message, status, created_at
		FROM contact_queries
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var contacts []*models.ContactQuery
	for rows.Next() {
		var c models.ContactQuery
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Email,
			&c.Subject,
			&c.Message,
			&c.Status,
			&c.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, &c)
	}
	return contacts, total, rows.Err()
}

// UpdateStatus sets a message's triage status.
func (r *contactRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) (*models.ContactQuery, error) {
	query := `
		UPDATE contact_queries
		SET status = $2
		WHERE id = $1
		RETURNING id, name, email, subject, message, status, created_at`

	var c models.ContactQuery
	err := r.pool.QueryRow(ctx, query, id, status).Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Subject,
		&c.Message,
		&c.Status,
		&c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes a message.
func (r *contactRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contact_queries WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Compile-time check to ensure contactRepo implements ContactRepository.
var _ ContactRepository = (*contactRepo)(nil)
