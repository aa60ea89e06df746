package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/margoul1Malin/lda/internal/models"
)

// DonationRepository defines the interface for donation operations.
type DonationRepository interface {
	// CreateIfAbsent inserts a donation keyed by its checkout session
	// id. Returns false without error when a row for the session
	// already exists: a redelivered webhook event is a benign
	// duplicate, whether it loses the race at read time or at insert
	// time against the unique index.
	CreateIfAbsent(ctx context.Context, donation *models.Donation) (bool, error)

	// GetBySessionID retrieves a donation by checkout session id, or
	// nil when none exists.
	GetBySessionID(ctx context.Context, sessionID string) (*models.Donation, error)

	// MarkFailed sets the status of any donation matching the session
	// id to failed. Missing rows are not an error.
	MarkFailed(ctx context.Context, sessionID string) error

	// ListCompleted returns up to limit completed donations, newest
	// first.
	ListCompleted(ctx context.Context, limit int) ([]*models.Donation, error)

	// UpdatePreferences sets the anonymity flag and optionally the
	// message of the donation matching the session id. Returns nil
	// when no donation matches.
	UpdatePreferences(ctx context.Context, sessionID string, isAnonymous bool, message *string, setMessage bool) (*models.Donation, error)
}

type donationRepo struct {
	pool *pgxpool.Pool
}

// NewDonationRepository creates a new donation repository.
func NewDonationRepository(pool *pgxpool.Pool) DonationRepository {
	return &donationRepo{pool: pool}
}

const donationColumns = `id, stripe_session_id, amount, currency, donor_name, donor_email, is_anonymous, message, status, created_at`

func scanDonation(row pgx.Row) (*models.Donation, error) {
	var d models.Donation
	err := row.Scan(
		&d.ID,
		&d.StripeSessionID,
		&d.Amount,
		&d.Currency,
		&d.DonorName,
		&d.DonorEmail,
		&d.IsAnonymous,
		&d.Message,
		&d.Status,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateIfAbsent inserts a donation keyed by its checkout session id.
func (r *donationRepo) CreateIfAbsent(ctx context.Context, donation *models.Donation) (bool, error) {
	query := `
		INSERT INTO donations (stripe_session_id, amount, currency, donor_name, donor_email, is_anonymous, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		donation.StripeSessionID,
		donation.Amount,
		donation.Currency,
		donation.DonorName,
		donation.DonorEmail,
		donation.IsAnonymous,
		donation.Message,
		donation.Status,
	).Scan(&donation.ID, &donation.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Unique violation on stripe_session_id: concurrent
			// redelivery already inserted the row.
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetBySessionID retrieves a donation by checkout session id.
func (r *donationRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE stripe_session_id = $1`

	d, err := scanDonation(r.pool.QueryRow(ctx, query, sessionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// MarkFailed sets the status of any donation matching the session id.
func (r *donationRepo) MarkFailed(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE donations SET status = $2 WHERE stripe_session_id = $1`,
		sessionID, models.DonationStatusFailed,
	)
	return err
}

// ListCompleted returns up to limit completed donations, newest first.
func (r *donationRepo) ListCompleted(ctx context.Context, limit int) ([]*models.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, models.DonationStatusCompleted, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []*models.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// UpdatePreferences sets the anonymity flag and optionally the message.
func (r *donationRepo) UpdatePreferences(ctx context.Context, sessionID string, isAnonymous bool, message *string, setMessage bool) (*models.Donation, error) {
	var (
		d   *models.Donation
		err error
	)
	if setMessage {
		query := `
			UPDATE donations
			SET is_anonymous = $2, message = $3
			WHERE stripe_session_id = $1
			RETURNING ` + donationColumns
		d, err = scanDonation(r.pool.QueryRow(ctx, query, sessionID, isAnonymous, message))
	} else {
		query := `
			UPDATE donations
			SET is_anonymous = $2
			WHERE stripe_session_id = $1
			RETURNING ` + donationColumns
		d, err = scanDonation(r.pool.QueryRow(ctx, query, sessionID, isAnonymous))
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Compile-time check to ensure donationRepo implements DonationRepository.
var _ DonationRepository = (*donationRepo)(nil)
