package models

import (
	"time"

	"github.com/google/uuid"
)

// DonationStatus is the settlement state of a donation.
type DonationStatus string

const (
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusFailed    DonationStatus = "failed"
)

// Donation records a settled (or expired) Stripe checkout session.
// Rows are created only by the webhook handler, keyed by the checkout
// session id, which is unique: redelivered webhook events must not
// produce duplicates. Amounts are integer minor units (cents).
type Donation struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	StripeSessionID string         `json:"stripeSessionId" db:"stripe_session_id"`
	Amount          int64          `json:"amount" db:"amount"`
	Currency        string         `json:"currency" db:"currency"`
	DonorName       *string        `json:"donorName,omitempty" db:"donor_name"`
	DonorEmail      string         `json:"donorEmail" db:"donor_email"`
	IsAnonymous     bool           `json:"isAnonymous" db:"is_anonymous"`
	Message         *string        `json:"message,omitempty" db:"message"`
	Status          DonationStatus `json:"status" db:"status"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
}

// PublicDonation is the redacted projection served on the public donor
// wall. The raw donor name stays in storage for records; redaction
// happens here, at the read boundary.
type PublicDonation struct {
	ID        uuid.UUID `json:"id"`
	Amount    int64     `json:"amount"`
	DonorName string    `json:"donorName"`
	Message   *string   `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the donor-wall projection, substituting "Anonyme" when
// the donor asked for anonymity or left no name.
func (d *Donation) Public() PublicDonation {
	name := "Anonyme"
	if !d.IsAnonymous && d.DonorName != nil && *d.DonorName != "" {
		name = *d.DonorName
	}
	return PublicDonation{
		ID:        d.ID,
		Amount:    d.Amount,
		DonorName: name,
		Message:   d.Message,
		CreatedAt: d.CreatedAt,
	}
}
