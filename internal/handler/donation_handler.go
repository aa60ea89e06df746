package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/margoul1Malin/lda/internal/models"
	apierrors "github.com/margoul1Malin/lda/internal/pkg/errors"
	"github.com/margoul1Malin/lda/internal/pkg/response"
	"github.com/margoul1Malin/lda/internal/service"
)

// minDonationAmount is the smallest accepted donation in cents (1 EUR).
const minDonationAmount = 100

// maxWebhookBody bounds the webhook payload size.
const maxWebhookBody = 64 * 1024

// DonationHandler handles donation and payment webhook requests.
type DonationHandler struct {
	donationService service.DonationService
	validate        *validator.Validate
}

// NewDonationHandler creates a new donation handler.
func NewDonationHandler(donationService service.DonationService) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
		validate:        validator.New(),
	}
}

// Routes returns a chi router with the public donation routes. The
// write routes go through writeLimit; the read-only session lookup
// and donor wall do not.
func (h *DonationHandler) Routes(writeLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.With(writeLimit).Post("/", h.Create)
	r.Get("/", h.Get)
	r.With(writeLimit).Patch("/anonymity", h.UpdatePreferences)
	return r
}

// CreateDonationHTTPRequest is the HTTP request body for starting a
// donation checkout. Amount is in cents.
type CreateDonationHTTPRequest struct {
	Amount int64  `json:"amount"`
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name"`
}

// Create handles POST /api/donations
func (h *DonationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDonationHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Corps de requête invalide"))
		return
	}

	if req.Amount < minDonationAmount {
		response.Error(w, apierrors.NewValidationError("amount", "Le montant minimum est de 1€"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, apierrors.NewValidationError("email", "Email invalide"))
		return
	}

	session, err := h.donationService.CreateCheckoutSession(r.Context(), service.CreateDonationRequest{
		Amount: req.Amount,
		Email:  req.Email,
		Name:   req.Name,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, session)
}

// Get handles GET /api/donations. With ?session_id it proxies the
// provider's session status; with ?public=true it serves the donor
// wall.
func (h *DonationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if sessionID := r.URL.Query().Get("session_id"); sessionID != "" {
		status, err := h.donationService.GetCheckoutStatus(r.Context(), sessionID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.OK(w, status)
		return
	}

	if r.URL.Query().Get("public") == "true" {
		donations, err := h.donationService.ListPublic(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}
		if donations == nil {
			donations = []models.PublicDonation{}
		}
		response.OK(w, map[string]any{"donations": donations})
		return
	}

	response.Error(w, apierrors.ErrBadRequest.WithMessage("Paramètre session_id ou public requis"))
}

// UpdatePreferencesHTTPRequest is the HTTP request body for a donor's
// anonymity update.
type UpdatePreferencesHTTPRequest struct {
	SessionID   string  `json:"sessionId"`
	IsAnonymous *bool   `json:"isAnonymous"`
	Message     *string `json:"message"`
}

// UpdatePreferences handles PATCH /api/donations/anonymity
func (h *DonationHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req UpdatePreferencesHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Corps de requête invalide"))
		return
	}

	if req.SessionID == "" {
		response.Error(w, apierrors.NewValidationError("sessionId", "Identifiant de session requis"))
		return
	}
	if req.IsAnonymous == nil {
		response.Error(w, apierrors.NewValidationError("isAnonymous", "isAnonymous requis"))
		return
	}

	donation, err := h.donationService.UpdatePreferences(r.Context(), service.DonationPreferencesRequest{
		SessionID:   req.SessionID,
		IsAnonymous: *req.IsAnonymous,
		Message:     req.Message,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]any{
		"message":  "Préférences mises à jour",
		"donation": donation.Public(),
	})
}

// Webhook handles POST /api/webhooks/stripe
func (h *DonationHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Corps de requête illisible"))
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if err := h.donationService.HandleWebhook(r.Context(), payload, signature); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]bool{"received": true})
}
