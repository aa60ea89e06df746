package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/margoul1Malin/lda/internal/middleware"
	"github.com/margoul1Malin/lda/internal/models"
	apierrors "github.com/margoul1Malin/lda/internal/pkg/errors"
	"github.com/margoul1Malin/lda/internal/pkg/response"
	"github.com/margoul1Malin/lda/internal/service"
)

// publicNoticeLimit is the default page size for the public listing.
const publicNoticeLimit = 10

// NoticeHandler handles missing-person notice requests.
type NoticeHandler struct {
	noticeService service.NoticeService
}

// NewNoticeHandler creates a new notice handler.
func NewNoticeHandler(noticeService service.NoticeService) *NoticeHandler {
	return &NoticeHandler{noticeService: noticeService}
}

// PublicRoutes returns a chi router with the read-only public routes.
func (h *NoticeHandler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListPublic)
	r.Get("/{id}", h.Get)
	return r
}

// AdminRoutes returns a chi router with the management routes. Callers
// mount it behind the admin auth middleware.
func (h *NoticeHandler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

// ListPublic handles GET /api/notices
func (h *NoticeHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	status := models.NoticeStatusLost
	if v := r.URL.Query().Get("status"); v != "" {
		s := models.NoticeStatus(v)
		if !models.ValidNoticeStatus(s) {
			response.Error(w, apierrors.NewValidationError("status", "Statut invalide"))
			return
		}
		status = s
	}

	limit := publicNoticeLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	notices, err := h.noticeService.ListPublic(r.Context(), status, limit)
	if err != nil {
		response.Error(w, err)
		return
	}
	if notices == nil {
		notices = []*models.Notice{}
	}

	response.OK(w, notices)
}

// Get handles GET /api/notices/{id}
func (h *NoticeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Identifiant invalide"))
		return
	}

	notice, err := h.noticeService.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, notice)
}

// List handles GET /api/admin/notices
func (h *NoticeHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *models.NoticeStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := models.NoticeStatus(v)
		if !models.ValidNoticeStatus(s) {
			response.Error(w, apierrors.NewValidationError("status", "Statut invalide"))
			return
		}
		status = &s
	}

	page, limit := parsePagination(r)

	notices, total, err := h.noticeService.List(r.Context(), status, page, limit)
	if err != nil {
		response.Error(w, err)
		return
	}
	if notices == nil {
		notices = []*models.Notice{}
	}

	response.OK(w, map[string]any{
		"notices":    notices,
		"pagination": response.NewPagination(page, limit, total),
	})
}

// CreateNoticeHTTPRequest is the HTTP request body for creating a
// notice. The admin form sends age and department as strings.
type CreateNoticeHTTPRequest struct {
	Name       string   `json:"name"`
	Lastname   *string  `json:"lastname"`
	Age        flexInt  `json:"age"`
	Height     *string  `json:"taille"`
	Weight     *string  `json:"poids"`
	LastSeenAt *string  `json:"disparitionDate"`
	Department flexInt  `json:"departement"`
	City       string   `json:"city"`
	Phone      *string  `json:"phone"`
	ImageURL   *string  `json:"image"`
	Status     string   `json:"status"`
}

// Create handles POST /api/admin/notices
func (h *NoticeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNoticeHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Corps de requête invalide"))
		return
	}

	if req.Name == "" {
		response.Error(w, apierrors.NewValidationError("name", "Nom requis"))
		return
	}
	if req.City == "" {
		response.Error(w, apierrors.NewValidationError("city", "Ville requise"))
		return
	}
	if req.Age <= 0 {
		response.Error(w, apierrors.NewValidationError("age", "Âge invalide"))
		return
	}
	if req.Department <= 0 {
		response.Error(w, apierrors.NewValidationError("departement", "Département invalide"))
		return
	}

	var lastSeen *time.Time
	if req.LastSeenAt != nil && *req.LastSeenAt != "" {
		t, err := parseDate(*req.LastSeenAt)
		if err != nil {
			response.Error(w, apierrors.NewValidationError("disparitionDate", "Date invalide"))
			return
		}
		lastSeen = &t
	}

	notice, err := h.noticeService.Create(r.Context(), service.CreateNoticeRequest{
		Name:       req.Name,
		Lastname:   req.Lastname,
		Age:        int(req.Age),
		Height:     req.Height,
		Weight:     req.Weight,
		LastSeenAt: lastSeen,
		Department: int(req.Department),
		City:       req.City,
		Phone:      req.Phone,
		ImageURL:   req.ImageURL,
		Status:     models.NoticeStatus(req.Status),
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	middleware.IncrementNoticesCreated()
	response.Created(w, notice)
}

// UpdateNoticeHTTPRequest is the HTTP request body for a partial
// notice update. Absent fields leave the stored values untouched.
type UpdateNoticeHTTPRequest struct {
	Name       *string  `json:"name"`
	Lastname   *string  `json:"lastname"`
	Age        *flexInt `json:"age"`
	Height     *string  `json:"taille"`
	Weight     *string  `json:"poids"`
	LastSeenAt *string  `json:"disparitionDate"`
	Department *flexInt `json:"departement"`
	City       *string  `json:"city"`
	Phone      *string  `json:"phone"`
	ImageURL   *string  `json:"image"`
	Status     *string  `json:"status"`
}

// Update handles PATCH /api/admin/notices/{id}
func (h *NoticeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Identifiant invalide"))
		return
	}

	var req UpdateNoticeHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Corps de requête invalide"))
		return
	}

	update := models.NoticeUpdate{
		Lastname: req.Lastname,
		Height:   req.Height,
		Weight:   req.Weight,
		Phone:    req.Phone,
		ImageURL: req.ImageURL,
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			response.Error(w, apierrors.NewValidationError("name", "Nom requis"))
			return
		}
		update.Name = req.Name
	}
	if req.City != nil {
		if strings.TrimSpace(*req.City) == "" {
			response.Error(w, apierrors.NewValidationError("city", "Ville requise"))
			return
		}
		update.City = req.City
	}
	if req.Age != nil {
		if *req.Age <= 0 {
			response.Error(w, apierrors.NewValidationError("age", "Âge invalide"))
			return
		}
		age := int(*req.Age)
		update.Age = &age
	}
	if req.Department != nil {
		if *req.Department <= 0 {
			response.Error(w, apierrors.NewValidationError("departement", "Département invalide"))
			return
		}
		dept := int(*req.Department)
		update.Department = &dept
	}
	if req.LastSeenAt != nil {
		t, err := parseDate(*req.LastSeenAt)
		if err != nil {
			response.Error(w, apierrors.NewValidationError("disparitionDate", "Date invalide"))
			return
		}
		update.LastSeenAt = &t
	}
	if req.Status != nil {
		status := models.NoticeStatus(*req.Status)
		update.Status = &status
	}

	if update.IsEmpty() {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Aucun champ à mettre à jour"))
		return
	}

	notice, err := h.noticeService.Update(r.Context(), id, update)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, notice)
}

// Delete handles DELETE /api/admin/notices/{id}
func (h *NoticeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Identifiant invalide"))
		return
	}

	if err := h.noticeService.Delete(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "Avis supprimé"})
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
