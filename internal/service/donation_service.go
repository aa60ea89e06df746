package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/margoul1Malin/lda/internal/config"
	"github.com/margoul1Malin/lda/internal/middleware"
	"github.com/margoul1Malin/lda/internal/models"
	apierrors "github.com/margoul1Malin/lda/internal/pkg/errors"
	"github.com/margoul1Malin/lda/internal/repository"
)

// publicDonationLimit caps the public donor wall at the most recent
// completed donations.
const publicDonationLimit = 20

// DonationService defines the interface for donation operations.
type DonationService interface {
	// CreateCheckoutSession creates a hosted Stripe checkout session
	// for a donation. No donation row is written here; persistence
	// happens only in the webhook, so an abandoned checkout never
	// leaves a stray record.
	CreateCheckoutSession(ctx context.Context, req CreateDonationRequest) (*CheckoutSessionInfo, error)

	// GetCheckoutStatus proxies the provider's session lookup so the
	// success page can confirm payment before the webhook lands.
	GetCheckoutStatus(ctx context.Context, sessionID string) (*CheckoutStatusInfo, error)

	// ListPublic returns the redacted donor wall.
	ListPublic(ctx context.Context) ([]models.PublicDonation, error)

	// UpdatePreferences sets a donation's anonymity flag and message,
	// keyed by checkout session id. Possession of the session id is
	// the only ownership proof; the id is delivered only to the
	// paying browser.
	UpdatePreferences(ctx context.Context, req DonationPreferencesRequest) (*models.Donation, error)

	// HandleWebhook verifies and processes a Stripe webhook delivery.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// CreateDonationRequest carries the inputs for a new checkout session.
// Amount is in minor currency units (cents).
type CreateDonationRequest struct {
	Amount int64
	Email  string
	Name   string
}

// CheckoutSessionInfo is returned to the browser, which performs the
// redirect to the hosted checkout page.
type CheckoutSessionInfo struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CheckoutStatusInfo mirrors the provider's view of a session.
type CheckoutStatusInfo struct {
	Status        string            `json:"status"`
	Amount        int64             `json:"amount"`
	CustomerEmail string            `json:"customer_email"`
	Metadata      map[string]string `json:"metadata"`
}

// DonationPreferencesRequest carries a donor's anonymity update.
type DonationPreferencesRequest struct {
	SessionID   string
	IsAnonymous bool
	Message     *string
}

type donationService struct {
	donationRepo repository.DonationRepository
	config       *config.StripeConfig
	baseURL      string
}

// NewDonationService creates a new donation service.
func NewDonationService(donationRepo repository.DonationRepository, cfg *config.StripeConfig, publicBaseURL string) DonationService {
	stripe.Key = cfg.SecretKey
	return &donationService{
		donationRepo: donationRepo,
		config:       cfg,
		baseURL:      strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// CreateCheckoutSession creates a hosted Stripe checkout session.
func (s *donationService) CreateCheckoutSession(ctx context.Context, req CreateDonationRequest) (*CheckoutSessionInfo, error) {
	donorName := req.Name
	if donorName == "" {
		donorName = "Anonyme"
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: []*string{stripe.String("card")},
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyEUR)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("Don pour la Ligue des Disparus Anonymes"),
						Description: stripe.String("Votre don nous aide à retrouver les personnes disparues"),
					},
					UnitAmount: stripe.Int64(req.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:    stripe.String(s.baseURL + "/don-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(s.baseURL + "/#dons"),
		CustomerEmail: stripe.String(req.Email),
		Metadata: map[string]string{
			"donor_name": donorName,
			"purpose":    "donation",
		},
	}

	session, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session creation failed: %w", err)
	}

	return &CheckoutSessionInfo{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

// GetCheckoutStatus proxies the provider's session lookup.
func (s *donationService) GetCheckoutStatus(ctx context.Context, sessionID string) (*CheckoutStatusInfo, error) {
	session, err := checkoutsession.Get(sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	return &CheckoutStatusInfo{
		Status:        string(session.PaymentStatus),
		Amount:        session.AmountTotal,
		CustomerEmail: sessionEmail(session),
		Metadata:      session.Metadata,
	}, nil
}

// ListPublic returns the redacted donor wall.
func (s *donationService) ListPublic(ctx context.Context) ([]models.PublicDonation, error) {
	donations, err := s.donationRepo.ListCompleted(ctx, publicDonationLimit)
	if err != nil {
		return nil, err
	}

	public := make([]models.PublicDonation, len(donations))
	for i, d := range donations {
		public[i] = d.Public()
	}
	return public, nil
}

// UpdatePreferences sets a donation's anonymity flag and message.
// Applying the same preferences twice is a no-op.
func (s *donationService) UpdatePreferences(ctx context.Context, req DonationPreferencesRequest) (*models.Donation, error) {
	var (
		message    *string
		setMessage bool
	)
	if req.Message != nil {
		setMessage = true
		if trimmed := strings.TrimSpace(*req.Message); trimmed != "" {
			message = &trimmed
		}
	}

	donation, err := s.donationRepo.UpdatePreferences(ctx, req.SessionID, req.IsAnonymous, message, setMessage)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, apierrors.NewNotFoundError("Don")
	}
	return donation, nil
}

// HandleWebhook verifies and processes a Stripe webhook delivery.
// Unrecognized event types are acknowledged without action so the
// provider stops retrying them.
func (s *donationService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.config.WebhookSecret)
	if err != nil {
		return apierrors.ErrBadRequest.WithMessage("Signature invalide")
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fmt.Errorf("failed to unmarshal checkout session: %w", err)
		}
		return s.handleSessionCompleted(ctx, &session)

	case "checkout.session.expired":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fmt.Errorf("failed to unmarshal checkout session: %w", err)
		}
		return s.donationRepo.MarkFailed(ctx, session.ID)
	}

	return nil
}

// handleSessionCompleted records a completed checkout session exactly
// once. Webhook delivery is at-least-once: an existing row for the
// session id means a redelivery, not an error.
func (s *donationService) handleSessionCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	existing, err := s.donationRepo.GetBySessionID(ctx, session.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	var donorName *string
	if name := session.Metadata["donor_name"]; name != "" {
		donorName = &name
	}

	currency := string(session.Currency)
	if currency == "" {
		currency = "eur"
	}

	donation := &models.Donation{
		StripeSessionID: session.ID,
		Amount:          session.AmountTotal,
		Currency:        currency,
		DonorName:       donorName,
		DonorEmail:      sessionEmail(session),
		IsAnonymous:     false,
		Status:          models.DonationStatusCompleted,
	}

	created, err := s.donationRepo.CreateIfAbsent(ctx, donation)
	if err != nil {
		return err
	}
	if created {
		middleware.IncrementDonationsRecorded()
	}
	return nil
}

// sessionEmail returns the best available donor email for a session.
func sessionEmail(session *stripe.CheckoutSession) string {
	if session.CustomerEmail != "" {
		return session.CustomerEmail
	}
	if session.CustomerDetails != nil {
		return session.CustomerDetails.Email
	}
	return ""
}

// Compile-time check to ensure donationService implements DonationService.
var _ DonationService = (*donationService)(nil)
