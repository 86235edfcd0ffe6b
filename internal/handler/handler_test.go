package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"onboarding-portal/internal/domain"
	"onboarding-portal/internal/handler"
	"onboarding-portal/internal/middleware"
	"onboarding-portal/internal/mocks"
	"onboarding-portal/internal/service"
	"onboarding-portal/internal/service/auth"
	"onboarding-portal/internal/service/dashboard"
)

type testApp struct {
	app       *fiber.App
	auth      *mocks.AuthService
	documents *mocks.DocumentService
	dashboard *mocks.DashboardService
	notifs    *mocks.NotificationService
	employee  *domain.User
	admin     *domain.User
}

type denyAll struct{}

func (denyAll) Allow(ctx context.Context, key string) bool { return false }

func newTestApp(t *testing.T, opts handler.RouteOptions) *testApp {
	t.Helper()

	ta := &testApp{
		auth:      new(mocks.AuthService),
		documents: new(mocks.DocumentService),
		dashboard: new(mocks.DashboardService),
		notifs:    new(mocks.NotificationService),
		employee:  &domain.User{ID: uuid.New(), Email: "asha@example.com", Role: domain.RoleUser},
		admin:     &domain.User{ID: uuid.New(), Email: "hr@example.com", Role: domain.RoleAdmin},
	}

	for token, u := range map[string]*domain.User{"employee-token": ta.employee, "admin-token": ta.admin} {
		ta.auth.On("ValidateAccessToken", token).Return(&auth.Claims{UserID: u.ID, Email: u.Email}, nil).Maybe()
		ta.auth.On("GetUserByID", mock.Anything, u.ID).Return(u, nil).Maybe()
	}
	ta.auth.On("ValidateAccessToken", mock.Anything).Return(nil, auth.ErrInvalidToken).Maybe()

	services := &service.Services{
		Auth:         ta.auth,
		Document:     ta.documents,
		Dashboard:    ta.dashboard,
		Notification: ta.notifs,
		Audit:        new(mocks.AuditService),
	}

	ta.app = fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil))),
	})
	handler.SetupRoutes(ta.app, handler.NewHandlers(services), ta.auth, opts)
	return ta
}

func (ta *testApp) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) middleware.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	ta := newTestApp(t, handler.RouteOptions{})

	resp := ta.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	ta := newTestApp(t, handler.RouteOptions{})

	t.Run("Missing Header", func(t *testing.T) {
		resp := ta.do(t, http.MethodGet, "/api/v1/documents", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "UNAUTHORIZED", body.Code)
		assert.NotEmpty(t, body.TraceID)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		resp := ta.do(t, http.MethodGet, "/api/v1/documents", "forged", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Employee On Admin Route", func(t *testing.T) {
		resp := ta.do(t, http.MethodGet, "/api/v1/admin/documents", "employee-token", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		ta.documents.AssertNotCalled(t, "ListAll", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInitiateUpload(t *testing.T) {
	ta := newTestApp(t, handler.RouteOptions{})
	input := domain.UploadInput{DocumentType: domain.DocPANCard, FileName: "pan.pdf", FileSize: 100, FileType: "application/pdf"}
	result := &domain.InitiateUploadResult{
		Document:  &domain.Document{ID: uuid.New(), UserID: ta.employee.ID, DocumentType: domain.DocPANCard, Status: domain.DocumentPending},
		UploadURL: "https://storage.example.com/upload",
		ExpiresIn: 900,
	}
	ta.documents.On("InitiateUpload", mock.Anything, ta.employee.ID, input).Return(result, nil).Once()

	resp := ta.do(t, http.MethodPost, "/api/v1/documents/initiate", "employee-token", input)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var got domain.InitiateUploadResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, result.UploadURL, got.UploadURL)
	assert.Equal(t, domain.DocumentPending, got.Document.Status)
	ta.documents.AssertExpectations(t)
}

func TestMultipartUpload(t *testing.T) {
	ta := newTestApp(t, handler.RouteOptions{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("document_type", "OFFER_LETTER"))
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="offer.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("offer letter"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	doc := &domain.Document{ID: uuid.New(), UserID: ta.employee.ID, DocumentType: domain.DocOfferLetter, Status: domain.DocumentPending}
	ta.documents.On("Upload", mock.Anything, ta.employee.ID, mock.MatchedBy(func(in domain.UploadInput) bool {
		return in.DocumentType == domain.DocOfferLetter && in.FileName == "offer.pdf" &&
			in.FileSize == int64(len("offer letter")) && in.FileType == "application/pdf"
	}), mock.Anything).Return(doc, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer employee-token")
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	ta.documents.AssertExpectations(t)
}

func TestGetDocumentErrors(t *testing.T) {
	ta := newTestApp(t, handler.RouteOptions{})

	t.Run("Invalid ID", func(t *testing.T) {
		resp := ta.do(t, http.MethodGet, "/api/v1/documents/not-a-uuid", "employee-token", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "BAD_REQUEST", decodeError(t, resp).Code)
	})

	t.Run("Forbidden", func(t *testing.T) {
		id := uuid.New()
		ta.documents.On("Get", mock.Anything, id, ta.employee.ID).
			Return(nil, domain.Forbidden("cannot access this document")).Once()

		resp := ta.do(t, http.MethodGet, "/api/v1/documents/"+id.String(), "employee-token", nil)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "FORBIDDEN", body.Code)
		assert.Equal(t, "cannot access this document", body.Message)
	})

	t.Run("Not Found", func(t *testing.T) {
		id := uuid.New()
		ta.documents.On("Get", mock.Anything, id, ta.employee.ID).Return(nil, domain.NotFound("document")).Once()

		resp := ta.do(t, http.MethodGet, "/api/v1/documents/"+id.String(), "employee-token", nil)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Dependency Failure Is Opaque", func(t *testing.T) {
		id := uuid.New()
		ta.documents.On("Get", mock.Anything, id, ta.employee.ID).
			Return(nil, domain.DependencyFailure("presign download", errors.New("dial tcp 10.0.0.5:9000: refused"))).Once()

		resp := ta.do(t, http.MethodGet, "/api/v1/documents/"+id.String(), "employee-token", nil)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "INTERNAL_ERROR", body.Code)
		assert.NotContains(t, body.Message, "10.0.0.5")
	})

	t.Run("Dependency Failure Wrapping A Domain Kind Stays Opaque", func(t *testing.T) {
		id := uuid.New()
		ta.documents.On("Get", mock.Anything, id, ta.employee.ID).
			Return(nil, domain.DependencyFailure("replace document", domain.NotFound("user"))).Once()

		resp := ta.do(t, http.MethodGet, "/api/v1/documents/"+id.String(), "employee-token", nil)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "INTERNAL_ERROR", body.Code)
		assert.Equal(t, "Internal server error", body.Message)
	})
}

func TestDashboardStats(t *testing.T) {
	stats := &dashboard.Stats{
		TotalEmployees: 3,
		PendingReviews: 1,
		DocumentsByType: []dashboard.TypeStats{
			{DocumentType: domain.DocPANCard, Label: "PAN Card", Pending: 1},
			{DocumentType: domain.DocAadharCard, Label: "Aadhar Card", Approved: 2},
		},
	}

	t.Run("Refresh Invalidates Before Reading", func(t *testing.T) {
		ta := newTestApp(t, handler.RouteOptions{})
		ta.dashboard.On("Invalidate", mock.Anything).Return(nil).Once()
		ta.dashboard.On("GetStats", mock.Anything).Return(stats, nil).Once()

		resp := ta.do(t, http.MethodGet, "/api/v1/admin/dashboard?refresh=true", "admin-token", nil)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		ta.dashboard.AssertExpectations(t)
	})

	t.Run("Narrows To One Document Type", func(t *testing.T) {
		ta := newTestApp(t, handler.RouteOptions{})
		ta.dashboard.On("GetStats", mock.Anything).Return(stats, nil).Once()

		resp := ta.do(t, http.MethodGet, "/api/v1/admin/dashboard?document_type=AADHAR_CARD", "admin-token", nil)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body dashboard.Stats
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.DocumentsByType, 1)
		assert.Equal(t, domain.DocAadharCard, body.DocumentsByType[0].DocumentType)
		assert.Len(t, stats.DocumentsByType, 2)
		ta.dashboard.AssertNotCalled(t, "Invalidate", mock.Anything)
	})

	t.Run("Unknown Document Type", func(t *testing.T) {
		ta := newTestApp(t, handler.RouteOptions{})
		ta.dashboard.On("GetStats", mock.Anything).Return(stats, nil).Once()

		resp := ta.do(t, http.MethodGet, "/api/v1/admin/dashboard?document_type=PASSPORT", "admin-token", nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAdminReviewRoutes(t *testing.T) {
	ta := newTestApp(t, handler.RouteOptions{})
	id := uuid.New()

	t.Run("Reject Passes Notes", func(t *testing.T) {
		notes := "blurry photo"
		rejected := &domain.Document{ID: id, Status: domain.DocumentRejected, Notes: &notes}
		ta.documents.On("Review", mock.Anything, id, ta.admin.ID, mock.MatchedBy(func(in domain.ReviewInput) bool {
			return in.Status == domain.DocumentRejected && in.Notes != nil && *in.Notes == "blurry photo"
		}), mock.Anything).Return(rejected, nil).Once()

		resp := ta.do(t, http.MethodPost, "/api/v1/admin/documents/"+id.String()+"/reject", "admin-token", map[string]string{"notes": "blurry photo"})

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Approve", func(t *testing.T) {
		ta.documents.On("Review", mock.Anything, id, ta.admin.ID, domain.ReviewInput{Status: domain.DocumentApproved}, mock.Anything).
			Return(&domain.Document{ID: id, Status: domain.DocumentApproved}, nil).Once()

		resp := ta.do(t, http.MethodPost, "/api/v1/admin/documents/"+id.String()+"/approve", "admin-token", nil)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Validation Error", func(t *testing.T) {
		ta.documents.On("Review", mock.Anything, id, ta.admin.ID, mock.MatchedBy(func(in domain.ReviewInput) bool {
			return in.Status == domain.DocumentRejected && in.Notes == nil
		}), mock.Anything).Return(nil, domain.ValidationError("notes are required when rejecting a document")).Once()

		resp := ta.do(t, http.MethodPost, "/api/v1/admin/documents/"+id.String()+"/review", "admin-token", map[string]string{"status": "REJECTED"})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
		assert.Equal(t, "notes are required when rejecting a document", body.Message)
	})

	ta.documents.AssertExpectations(t)
}

func TestAdminListDocumentsFilters(t *testing.T) {
	ta := newTestApp(t, handler.RouteOptions{})
	owner := uuid.New()

	ta.documents.On("ListAll", mock.Anything, ta.admin.ID, mock.MatchedBy(func(f domain.DocumentFilter) bool {
		return f.Status != nil && *f.Status == domain.DocumentPending &&
			f.DocumentType != nil && *f.DocumentType == domain.DocAadharCard &&
			f.UserID != nil && *f.UserID == owner &&
			f.Pagination.Page == 2 && f.Pagination.PageSize == 5
	})).Return(domain.NewPaginatedResponse([]domain.Document{}, domain.PaginationParams{Page: 2, PageSize: 5}, 0), nil).Once()

	resp := ta.do(t, http.MethodGet, "/api/v1/admin/documents?status=PENDING&document_type=AADHAR_CARD&user_id="+owner.String()+"&page=2&page_size=5", "admin-token", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	ta.documents.AssertExpectations(t)

	resp = ta.do(t, http.MethodGet, "/api/v1/admin/documents?user_id=nope", "admin-token", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNotificationRoutes(t *testing.T) {
	ta := newTestApp(t, handler.RouteOptions{})
	id := uuid.New()

	ta.notifs.On("MarkAsRead", mock.Anything, id, ta.employee.ID).Return(domain.NotFound("notification")).Once()
	ta.notifs.On("MarkAllAsRead", mock.Anything, ta.employee.ID).Return(int64(4), nil).Once()

	resp := ta.do(t, http.MethodPatch, "/api/v1/notifications/"+id.String()+"/read", "employee-token", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ta.do(t, http.MethodPost, "/api/v1/notifications/mark-all-read", "employee-token", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `"updated":4`))
}

func TestAuthRateLimit(t *testing.T) {
	ta := newTestApp(t, handler.RouteOptions{AuthLimiter: denyAll{}, AuthRetryAfterSeconds: 60})

	resp := ta.do(t, http.MethodPost, "/api/v1/auth/login", "", domain.LoginInput{Email: "a@example.com", Password: "password123"})

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
	ta.auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginMapsInvalidCredentials(t *testing.T) {
	ta := newTestApp(t, handler.RouteOptions{})
	input := domain.LoginInput{Email: "a@example.com", Password: "wrong"}
	ta.auth.On("Login", mock.Anything, input, mock.Anything).Return(nil, nil, auth.ErrInvalidCredentials).Once()

	resp := ta.do(t, http.MethodPost, "/api/v1/auth/login", "", input)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid email or password", decodeError(t, resp).Message)
}
