package models

import (
	"time"

	"github.com/google/uuid"
)

// NoticeStatus is the lifecycle state of a missing-person notice.
// The two states are freely togglable by an admin in either direction
// so that a mistaken "found" mark can be corrected.
type NoticeStatus string

const (
	NoticeStatusLost  NoticeStatus = "lost"
	NoticeStatusFound NoticeStatus = "found"
)

// ValidNoticeStatus reports whether s is lost or found.
func ValidNoticeStatus(s NoticeStatus) bool {
	return s == NoticeStatusLost || s == NoticeStatusFound
}

// Notice is a missing-person notice (avis de disparition). All fields are
// public once created by staff; there is no redacted projection.
type Notice struct {
	ID         uuid.UUID    `json:"id" db:"id"`
	Name       string       `json:"name" db:"name"`
	Lastname   *string      `json:"lastname,omitempty" db:"lastname"`
	Age        int          `json:"age" db:"age"`
	Height     *string      `json:"taille,omitempty" db:"height"`
	Weight     *string      `json:"poids,omitempty" db:"weight"`
	LastSeenAt time.Time    `json:"disparitionDate" db:"last_seen_at"`
	Department int          `json:"departement" db:"department"`
	City       string       `json:"city" db:"city"`
	Phone      *string      `json:"phone,omitempty" db:"phone"`
	ImageURL   *string      `json:"image,omitempty" db:"image_url"`
	Status     NoticeStatus `json:"status" db:"status"`
	CreatedAt  time.Time    `json:"createdAt" db:"created_at"`
}

// NoticeUpdate carries a partial update for a notice. Only non-nil fields
// are applied; a nil pointer means "leave the stored value untouched".
type NoticeUpdate struct {
	Name       *string
	Lastname   *string
	Age        *int
	Height     *string
	Weight     *string
	LastSeenAt *time.Time
	Department *int
	City       *string
	Phone      *string
	ImageURL   *string
	Status     *NoticeStatus
}

// IsEmpty reports whether the update carries no fields at all.
func (u NoticeUpdate) IsEmpty() bool {
	return u.Name == nil && u.Lastname == nil && u.Age == nil &&
		u.Height == nil && u.Weight == nil && u.LastSeenAt == nil &&
		u.Department == nil && u.City == nil && u.Phone == nil &&
		u.ImageURL == nil && u.Status == nil
}
