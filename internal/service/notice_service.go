package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/margoul1Malin/lda/internal/models"
	apierrors "github.com/margoul1Malin/lda/internal/pkg/errors"
	"github.com/margoul1Malin/lda/internal/repository"
)

// NoticeService defines the interface for missing-person notice
// operations.
type NoticeService interface {
	// ListPublic returns up to limit notices with the given status,
	// newest first.
	ListPublic(ctx context.Context, status models.NoticeStatus, limit int) ([]*models.Notice, error)

	// Get retrieves one notice by id.
	Get(ctx context.Context, id uuid.UUID) (*models.Notice, error)

	// List returns a page of notices plus the total count.
	List(ctx context.Context, status *models.NoticeStatus, page, limit int) ([]*models.Notice, int64, error)

	// Create stores a new notice.
	Create(ctx context.Context, req CreateNoticeRequest) (*models.Notice, error)

	// Update applies a partial update to a notice.
	Update(ctx context.Context, id uuid.UUID, update models.NoticeUpdate) (*models.Notice, error)

	// Delete removes a notice.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateNoticeRequest carries the fields for a new notice. Required
// fields are validated at the HTTP boundary; defaults are applied here.
type CreateNoticeRequest struct {
	Name       string
	Lastname   *string
	Age        int
	Height     *string
	Weight     *string
	LastSeenAt *time.Time
	Department int
	City       string
	Phone      *string
	ImageURL   *string
	Status     models.NoticeStatus
}

type noticeService struct {
	noticeRepo repository.NoticeRepository
}

// NewNoticeService creates a new notice service.
func NewNoticeService(noticeRepo repository.NoticeRepository) NoticeService {
	return &noticeService{noticeRepo: noticeRepo}
}

// ListPublic returns up to limit notices with the given status.
func (s *noticeService) ListPublic(ctx context.Context, status models.NoticeStatus, limit int) ([]*models.Notice, error) {
	return s.noticeRepo.ListByStatus(ctx, status, limit)
}

// Get retrieves one notice by id.
func (s *noticeService) Get(ctx context.Context, id uuid.UUID) (*models.Notice, error) {
	notice, err := s.noticeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notice == nil {
		return nil, apierrors.NewNotFoundError("Avis de disparition")
	}
	return notice, nil
}

// List returns a page of notices plus the total count.
func (s *noticeService) List(ctx context.Context, status *models.NoticeStatus, page, limit int) ([]*models.Notice, int64, error) {
	return s.noticeRepo.List(ctx, status, page, limit)
}

// Create stores a new notice. The last-seen date defaults to now and
// the status defaults to lost when omitted.
func (s *noticeService) Create(ctx context.Context, req CreateNoticeRequest) (*models.Notice, error) {
	lastSeen := time.Now()
	if req.LastSeenAt != nil {
		lastSeen = *req.LastSeenAt
	}

	status := req.Status
	if status == "" {
		status = models.NoticeStatusLost
	}
	if !models.ValidNoticeStatus(status) {
		return nil, apierrors.NewValidationError("status", "Statut invalide")
	}

	notice := &models.Notice{
		Name:       req.Name,
		Lastname:   req.Lastname,
		Age:        req.Age,
		Height:     req.Height,
		Weight:     req.Weight,
		LastSeenAt: lastSeen,
		Department: req.Department,
		City:       req.City,
		Phone:      req.Phone,
		ImageURL:   req.ImageURL,
		Status:     status,
	}
	if err := s.noticeRepo.Create(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

// Update applies a partial update to a notice.
func (s *noticeService) Update(ctx context.Context, id uuid.UUID, update models.NoticeUpdate) (*models.Notice, error) {
	if update.Status != nil && !models.ValidNoticeStatus(*update.Status) {
		return nil, apierrors.NewValidationError("status", "Statut invalide")
	}

	notice, err := s.noticeRepo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if notice == nil {
		return nil, apierrors.NewNotFoundError("Avis de disparition")
	}
	return notice, nil
}

// Delete removes a notice.
func (s *noticeService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.noticeRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apierrors.NewNotFoundError("Avis de disparition")
	}
	return nil
}

// Compile-time check to ensure noticeService implements NoticeService.
var _ NoticeService = (*noticeService)(nil)
