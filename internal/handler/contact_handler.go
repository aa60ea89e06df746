package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/margoul1Malin/lda/internal/middleware"
	"github.com/margoul1Malin/lda/internal/models"
	apierrors "github.com/margoul1Malin/lda/internal/pkg/errors"
	"github.com/margoul1Malin/lda/internal/pkg/response"
	"github.com/margoul1Malin/lda/internal/service"
)

// ContactHandler handles contact form and triage requests.
type ContactHandler struct {
	contactService service.ContactService
	validate       *validator.Validate
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		validate:       validator.New(),
	}
}

// AdminRoutes returns a chi router with the triage routes. Callers
// mount it behind the admin auth middleware.
func (h *ContactHandler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Patch("/{id}", h.UpdateStatus)
	r.Delete("/{id}", h.Delete)
	return r
}

// SubmitContactHTTPRequest is the HTTP request body for the public
// contact form.
type SubmitContactHTTPRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitContactHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Corps de requête invalide"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage(contactValidationMessage(err)))
		return
	}

	contact, err := h.contactService.Submit(r.Context(), req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		response.Error(w, err)
		return
	}

	middleware.IncrementContactMessages()
	response.Created(w, map[string]any{
		"message": "Message envoyé avec succès",
		"id":      contact.ID,
	})
}

// contactValidationMessage maps a validation failure to the form's
// error copy. Missing fields take precedence over a malformed email.
func contactValidationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Tag() == "required" {
				return "Tous les champs sont requis"
			}
		}
		for _, fe := range fieldErrs {
			if fe.Tag() == "email" {
				return "Format d'email invalide"
			}
		}
	}
	return "Tous les champs sont requis"
}

// List handles GET /api/admin/contact
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *models.ContactStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := models.ContactStatus(v)
		if !models.ValidContactStatus(s) {
			response.Error(w, apierrors.NewValidationError("status", "Statut invalide"))
			return
		}
		status = &s
	}

	page, limit := parsePagination(r)

	contacts, total, err := h.contactService.List(r.Context(), status, page, limit)
	if err != nil {
		response.Error(w, err)
		return
	}
	if contacts == nil {
		contacts = []*models.ContactQuery{}
	}

	response.OK(w, map[string]any{
		"contacts":   contacts,
		"pagination": response.NewPagination(page, limit, total),
	})
}

// UpdateContactHTTPRequest is the HTTP request body for a triage
// status change.
type UpdateContactHTTPRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/admin/contact/{id}
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Identifiant invalide"))
		return
	}

	var req UpdateContactHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Corps de requête invalide"))
		return
	}

	if req.Status == "" {
		response.Error(w, apierrors.NewValidationError("status", "Statut requis"))
		return
	}

	contact, err := h.contactService.UpdateStatus(r.Context(), id, models.ContactStatus(req.Status))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, contact)
}

// Delete handles DELETE /api/admin/contact/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Identifiant invalide"))
		return
	}

	if err := h.contactService.Delete(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "Message supprimé"})
}
