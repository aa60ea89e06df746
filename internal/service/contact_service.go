package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/margoul1Malin/lda/internal/models"
	apierrors "github.com/margoul1Malin/lda/internal/pkg/errors"
	"github.com/margoul1Malin/lda/internal/repository"
)

// ContactService defines the interface for contact message operations.
type ContactService interface {
	// Submit stores a new contact message with status "new".
	Submit(ctx context.Context, name, email, subject, message string) (*models.ContactQuery, error)

	// List returns a page of messages plus the total count.
	List(ctx context.Context, status *models.ContactStatus, page, limit int) ([]*models.ContactQuery, int64, error)

	// UpdateStatus changes a message's triage status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) (*models.ContactQuery, error)

	// Delete removes a message.
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactService struct {
	contactRepo repository.ContactRepository
}

// NewContactService creates a new contact service.
func NewContactService(contactRepo repository.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

// Submit stores a new contact message. Status is always forced to
// "new"; visitors cannot choose a triage state.
func (s *contactService) Submit(ctx context.Context, name, email, subject, message string) (*models.ContactQuery, error) {
	contact := &models.ContactQuery{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
		Status:  models.ContactStatusNew,
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// List returns a page of messages plus the total count.
func (s *contactService) List(ctx context.Context, status *models.ContactStatus, page, limit int) ([]*models.ContactQuery, int64, error) {
	return s.contactRepo.List(ctx, status, page, limit)
}

// UpdateStatus changes a message's triage status.
func (s *contactService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ContactStatus) (*models.ContactQuery, error) {
	if !models.ValidContactStatus(status) {
		return nil, apierrors.NewValidationError("status", "Statut invalide")
	}

	contact, err := s.contactRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, apierrors.NewNotFoundError("Message")
	}
	return contact, nil
}

// Delete removes a message.
func (s *contactService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.contactRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apierrors.NewNotFoundError("Message")
	}
	return nil
}

// Compile-time check to ensure contactService implements ContactService.
var _ ContactService = (*contactService)(nil)
