// Package service provides business logic for the LDA API.
package service

import (
	"context"

	"github.com/margoul1Malin/lda/internal/auth"
	"github.com/margoul1Malin/lda/internal/models"
	apierrors "github.com/margoul1Malin/lda/internal/pkg/errors"
	"github.com/margoul1Malin/lda/internal/repository"
)

// AuthService defines the interface for admin authentication.
type AuthService interface {
	// Login verifies credentials and returns a signed token plus the
	// admin's public profile. Every failure mode (unknown email,
	// inactive account, wrong password) yields the same generic
	// invalid-credentials error to prevent user enumeration.
	Login(ctx context.Context, email, password string) (string, *models.AdminProfile, error)
}

type authService struct {
	adminRepo repository.AdminRepository
	issuer    *auth.TokenIssuer
}

// NewAuthService creates a new auth service.
func NewAuthService(adminRepo repository.AdminRepository, issuer *auth.TokenIssuer) AuthService {
	return &authService{adminRepo: adminRepo, issuer: issuer}
}

// Login verifies credentials and issues a signed token.
func (s *authService) Login(ctx context.Context, email, password string) (string, *models.AdminProfile, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if admin == nil || !admin.IsActive {
		return "", nil, apierrors.ErrInvalidCredentials
	}

	if !auth.ComparePassword(password, admin.PasswordHash) {
		return "", nil, apierrors.ErrInvalidCredentials
	}

	token, err := s.issuer.Generate(admin.ID, admin.Email, admin.Role)
	if err != nil {
		return "", nil, err
	}

	profile := admin.Profile()
	return token, &profile, nil
}

// Compile-time check to ensure authService implements AuthService.
var _ AuthService = (*authService)(nil)
