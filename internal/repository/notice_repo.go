package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/margoul1Malin/lda/internal/models"
)

// NoticeRepository defines the interface for missing-person notice
// operations.
type NoticeRepository interface {
	// Create inserts a new notice.
	Create(ctx context.Context, notice *models.Notice) error

	// GetByID retrieves one notice, or nil when the id does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notice, error)

	// ListByStatus returns up to limit notices with the given status,
	// newest first. Used by the public listing.
	ListByStatus(ctx context.Context, status models.NoticeStatus, limit int) ([]*models.Notice, error)

	// List returns a page of notices, newest first, optionally filtered
	// by status, along with the total row count for the filter.
	List(ctx context.Context, status *models.NoticeStatus, page, limit int) ([]*models.Notice, int64, error)

	// Update applies a partial update and returns the updated record,
	// or nil when the id does not exist.
	Update(ctx context.Context, id uuid.UUID, update models.NoticeUpdate) (*models.Notice, error)

	// Delete removes a notice. Returns false when the id does not exist.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type noticeRepo struct {
	pool *pgxpool.Pool
}

// NewNoticeRepository creates a new notice repository.
func NewNoticeRepository(pool *pgxpool.Pool) NoticeRepository {
	return &noticeRepo{pool: pool}
}

const noticeColumns = `id, name, lastname, age, height, weight, last_seen_at, department, city, phone, image_url, status, created_at`

func scanNotice(row pgx.Row) (*models.Notice, error) {
	var n models.Notice
	err := row.Scan(
		&n.ID,
		&n.Name,
		&n.Lastname,
		&n.Age,
		&n.Height,
		&n.Weight,
		&n.LastSeenAt,
		&n.Department,
		&n.City,
		&n.Phone,
		&n.ImageURL,
		&n.Status,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a new notice.
func (r *noticeRepo) Create(ctx context.Context, notice *models.Notice) error {
	query := `
		INSERT INTO notices (name, lastname, age, height, weight, last_seen_at, department, city, phone, image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		notice.Name,
		notice.Lastname,
		notice.Age,
		notice.Height,
		notice.Weight,
		notice.LastSeenAt,
		notice.Department,
		notice.City,
		notice.Phone,
		notice.ImageURL,
		notice.Status,
	).Scan(&notice.ID, &notice.CreatedAt)
}

// GetByID retrieves one notice, or nil when the id does not exist.
func (r *noticeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices WHERE id = $1`

	n, err := scanNotice(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ListByStatus returns up to limit notices with the given status.
func (r *noticeRepo) ListByStatus(ctx context.Context, status models.NoticeStatus, limit int) ([]*models.Notice, error) {
	query := `
		SELECT ` + noticeColumns + `
		FROM notices
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notices []*models.Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		notices = append(notices, n)
	}
	return notices, rows.Err()
}

// List returns a page of notices, newest first.
func (r *noticeRepo) List(ctx context.Context, status *models.NoticeStatus, page, limit int) ([]*models.Notice, int64, error) {
	offset := (page - 1) * limit

	countQuery := `SELECT COUNT(*) FROM notices WHERE ($1::text IS NULL OR status = $1)`
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, status).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + noticeColumns + `
		FROM notices
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notices []*models.Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, 0, err
		}
		notices = append(notices, n)
	}
	return notices, total, rows.Err()
}

// Update applies a partial update. The SET clause is built from the
// fields actually present on the update; absent fields never touch the
// stored values.
func (r *noticeRepo) Update(ctx context.Context, id uuid.UUID, update models.NoticeUpdate) (*models.Notice, error) {
	if update.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	set := make([]string, 0, 11)
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Lastname != nil {
		add("lastname", *update.Lastname)
	}
	if update.Age != nil {
		add("age", *update.Age)
	}
	if update.Height != nil {
		add("height", *update.Height)
	}
	if update.Weight != nil {
		add("weight", *update.Weight)
	}
	if update.LastSeenAt != nil {
		add("last_seen_at", *update.LastSeenAt)
	}
	if update.Department != nil {
		add("department", *update.Department)
	}
	if update.City != nil {
		add("city", *update.City)
	}
	if update.Phone != nil {
		add("phone", *update.Phone)
	}
	if update.ImageURL != nil {
		add("image_url", *update.ImageURL)
	}
	if update.Status != nil {
		add("status", *update.Status)
	}

	query := fmt.Sprintf(
		`UPDATE notices SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(set, ", "), noticeColumns,
	)

	n, err := scanNotice(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Delete removes a notice.
func (r *noticeRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Compile-time check to ensure noticeRepo implements NoticeRepository.
var _ NoticeRepository = (*noticeRepo)(nil)
