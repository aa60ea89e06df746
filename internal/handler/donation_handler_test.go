package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/margoul1Malin/lda/internal/models"
	apierrors "github.com/margoul1Malin/lda/internal/pkg/errors"
	"github.com/margoul1Malin/lda/internal/service"
)

// mockDonationService is a mock implementation of DonationService for testing.
type mockDonationService struct {
	createCheckoutFunc    func(ctx context.Context, req service.CreateDonationRequest) (*service.CheckoutSessionInfo, error)
	getCheckoutStatusFunc func(ctx context.Context, sessionID string) (*service.CheckoutStatusInfo, error)
	listPublicFunc        func(ctx context.Context) ([]models.PublicDonation, error)
	updatePrefsFunc       func(ctx context.Context, req service.DonationPreferencesRequest) (*models.Donation, error)
	handleWebhookFunc     func(ctx context.Context, payload []byte, signature string) error
}

func (m *mockDonationService) CreateCheckoutSession(ctx context.Context, req service.CreateDonationRequest) (*service.CheckoutSessionInfo, error) {
	if m.createCheckoutFunc != nil {
		return m.createCheckoutFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockDonationService) GetCheckoutStatus(ctx context.Context, sessionID string) (*service.CheckoutStatusInfo, error) {
	if m.getCheckoutStatusFunc != nil {
		return m.getCheckoutStatusFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockDonationService) ListPublic(ctx context.Context) ([]models.PublicDonation, error) {
	if m.listPublicFunc != nil {
		return m.listPublicFunc(ctx)
	}
	return nil, nil
}

func (m *mockDonationService) UpdatePreferences(ctx context.Context, req service.DonationPreferencesRequest) (*models.Donation, error) {
	if m.updatePrefsFunc != nil {
		return m.updatePrefsFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockDonationService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if m.handleWebhookFunc != nil {
		return m.handleWebhookFunc(ctx, payload, signature)
	}
	return nil
}

func TestDonationHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		mockService    *mockDonationService
		expectedStatus int
		checkResponse  func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "creates checkout session",
			body: CreateDonationHTTPRequest{Amount: 2500, Email: "donor@example.com", Name: "Jeanne"},
			mockService: &mockDonationService{
				createCheckoutFunc: func(ctx context.Context, req service.CreateDonationRequest) (*service.CheckoutSessionInfo, error) {
					if req.Amount != 2500 {
						t.Errorf("Amount = %d, want 2500", req.Amount)
					}
					return &service.CheckoutSessionInfo{
						SessionID: "cs_test_123",
						URL:       "https://checkout.stripe.com/pay/cs_test_123",
					}, nil
				},
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp service.CheckoutSessionInfo
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("Failed to unmarshal response: %v", err)
				}
				if resp.SessionID != "cs_test_123" {
					t.Errorf("SessionID = %v, want cs_test_123", resp.SessionID)
				}
			},
		},
		{
			name:           "rejects amount below one euro",
			body:           CreateDonationHTTPRequest{Amount: 99, Email: "donor@example.com"},
			mockService:    &mockDonationService{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "rejects invalid email",
			body:           CreateDonationHTTPRequest{Amount: 2500, Email: "nope"},
			mockService:    &mockDonationService{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "rejects invalid JSON",
			body:           "not json",
			mockService:    &mockDonationService{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewDonationHandler(tt.mockService)

			var reqBody []byte
			if str, ok := tt.body.(string); ok {
				reqBody = []byte(str)
			} else {
				reqBody, _ = json.Marshal(tt.body)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/donations", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			handler.Create(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("Status = %d, want %d. Body: %s", rec.Code, tt.expectedStatus, rec.Body.String())
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, rec)
			}
		})
	}
}

func TestDonationHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		mockService    *mockDonationService
		expectedStatus int
		checkResponse  func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:  "proxies session status",
			query: "?session_id=cs_test_123",
			mockService: &mockDonationService{
				getCheckoutStatusFunc: func(ctx context.Context, sessionID string) (*service.CheckoutStatusInfo, error) {
					if sessionID != "cs_test_123" {
						t.Errorf("sessionID = %v, want cs_test_123", sessionID)
					}
					return &service.CheckoutStatusInfo{Status: "paid", Amount: 2500}, nil
				},
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp service.CheckoutStatusInfo
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("Failed to unmarshal response: %v", err)
				}
				if resp.Status != "paid" {
					t.Errorf("Status = %v, want paid", resp.Status)
				}
			},
		},
		{
			name:  "serves donor wall with redacted names",
			query: "?public=true",
			mockService: &mockDonationService{
				listPublicFunc: func(ctx context.Context) ([]models.PublicDonation, error) {
					return []models.PublicDonation{
						{ID: uuid.New(), Amount: 2500, DonorName: "Anonyme", CreatedAt: time.Now()},
					}, nil
				},
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp struct {
					Donations []models.PublicDonation `json:"donations"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("Failed to unmarshal response: %v", err)
				}
				if len(resp.Donations) != 1 || resp.Donations[0].DonorName != "Anonyme" {
					t.Errorf("unexpected donations: %+v", resp.Donations)
				}
			},
		},
		{
			name:  "serves empty donor wall as empty array",
			query: "?public=true",
			mockService: &mockDonationService{
				listPublicFunc: func(ctx context.Context) ([]models.PublicDonation, error) {
					return nil, nil
				},
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				if !bytes.Contains(rec.Body.Bytes(), []byte(`"donations":[]`)) {
					t.Errorf("expected empty donations array, got %s", rec.Body.String())
				}
			},
		},
		{
			name:           "rejects request with neither parameter",
			query:          "",
			mockService:    &mockDonationService{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewDonationHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/donations"+tt.query, nil)
			rec := httptest.NewRecorder()
			handler.Get(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("Status = %d, want %d. Body: %s", rec.Code, tt.expectedStatus, rec.Body.String())
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, rec)
			}
		})
	}
}

func TestDonationHandler_UpdatePreferences(t *testing.T) {
	donorName := "Jeanne"

	tests := []struct {
		name           string
		body           string
		mockService    *mockDonationService
		expectedStatus int
	}{
		{
			name: "updates anonymity",
			body: `{"sessionId":"cs_test_123","isAnonymous":true,"message":"Courage"}`,
			mockService: &mockDonationService{
				updatePrefsFunc: func(ctx context.Context, req service.DonationPreferencesRequest) (*models.Donation, error) {
					if req.SessionID != "cs_test_123" || !req.IsAnonymous {
						t.Errorf("unexpected request: %+v", req)
					}
					if req.Message == nil || *req.Message != "Courage" {
						t.Errorf("Message = %v, want Courage", req.Message)
					}
					return &models.Donation{
						ID:              uuid.New(),
						StripeSessionID: req.SessionID,
						Amount:          2500,
						DonorName:       &donorName,
						IsAnonymous:     req.IsAnonymous,
						Message:         req.Message,
						Status:          models.DonationStatusCompleted,
					}, nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "accepts isAnonymous false",
			body: `{"sessionId":"cs_test_123","isAnonymous":false}`,
			mockService: &mockDonationService{
				updatePrefsFunc: func(ctx context.Context, req service.DonationPreferencesRequest) (*models.Donation, error) {
					if req.IsAnonymous {
						t.Error("IsAnonymous = true, want false")
					}
					return &models.Donation{StripeSessionID: req.SessionID}, nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "returns 404 when no donation matches",
			body: `{"sessionId":"cs_unknown","isAnonymous":true}`,
			mockService: &mockDonationService{
				updatePrefsFunc: func(ctx context.Context, req service.DonationPreferencesRequest) (*models.Donation, error) {
					return nil, apierrors.NewNotFoundError("Don")
				},
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "rejects missing sessionId",
			body:           `{"isAnonymous":true}`,
			mockService:    &mockDonationService{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "rejects missing isAnonymous",
			body:           `{"sessionId":"cs_test_123"}`,
			mockService:    &mockDonationService{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewDonationHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodPatch, "/api/donations/anonymity", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			handler.UpdatePreferences(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("Status = %d, want %d. Body: %s", rec.Code, tt.expectedStatus, rec.Body.String())
			}
		})
	}
}

func TestDonationHandler_Routes_LimitsWritesOnly(t *testing.T) {
	var limited []string
	writeLimit := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limited = append(limited, r.Method)
			next.ServeHTTP(w, r)
		})
	}

	handler := NewDonationHandler(&mockDonationService{
		createCheckoutFunc: func(ctx context.Context, req service.CreateDonationRequest) (*service.CheckoutSessionInfo, error) {
			return &service.CheckoutSessionInfo{SessionID: "cs_test_123"}, nil
		},
		updatePrefsFunc: func(ctx context.Context, req service.DonationPreferencesRequest) (*models.Donation, error) {
			return &models.Donation{StripeSessionID: req.SessionID}, nil
		},
	})
	router := handler.Routes(writeLimit)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?public=true", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200. Body: %s", rec.Code, rec.Body.String())
	}
	if len(limited) != 0 {
		t.Errorf("read route went through the limiter: %v", limited)
	}

	rec = httptest.NewRecorder()
	body := bytes.NewReader([]byte(`{"amount":2500,"email":"donor@example.com"}`))
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("POST status = %d, want 200. Body: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	body = bytes.NewReader([]byte(`{"sessionId":"cs_test_123","isAnonymous":true}`))
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/anonymity", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH status = %d, want 200. Body: %s", rec.Code, rec.Body.String())
	}

	if len(limited) != 2 {
		t.Errorf("limited = %v, want the two write requests", limited)
	}
}

func TestDonationHandler_Webhook(t *testing.T) {
	tests := []struct {
		name           string
		mockService    *mockDonationService
		expectedStatus int
	}{
		{
			name: "acknowledges processed event",
			mockService: &mockDonationService{
				handleWebhookFunc: func(ctx context.Context, payload []byte, signature string) error {
					if signature != "t=1,v1=sig" {
						t.Errorf("signature = %v, want forwarded header", signature)
					}
					return nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "rejects bad signature",
			mockService: &mockDonationService{
				handleWebhookFunc: func(ctx context.Context, payload []byte, signature string) error {
					return apierrors.ErrBadRequest.WithMessage("Signature invalide")
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "returns 500 on processing failure",
			mockService: &mockDonationService{
				handleWebhookFunc: func(ctx context.Context, payload []byte, signature string) error {
					return context.DeadlineExceeded
				},
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewDonationHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader([]byte(`{"type":"checkout.session.completed"}`)))
			req.Header.Set("Stripe-Signature", "t=1,v1=sig")

			rec := httptest.NewRecorder()
			handler.Webhook(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("Status = %d, want %d. Body: %s", rec.Code, tt.expectedStatus, rec.Body.String())
			}
		})
	}
}
