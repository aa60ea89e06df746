package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/margoul1Malin/lda/internal/pkg/errors"
	"github.com/margoul1Malin/lda/internal/pkg/response"
	"github.com/margoul1Malin/lda/internal/service"
)

// AuthHandler handles admin authentication requests.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Routes returns a chi router with auth routes.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	return r
}

// LoginHTTPRequest is the HTTP request body for admin login.
type LoginHTTPRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Corps de requête invalide"))
		return
	}

	if req.Email == "" || req.Password == "" {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Email et mot de passe requis"))
		return
	}

	token, admin, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]any{
		"token": token,
		"admin": admin,
	})
}
