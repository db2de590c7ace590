package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"threatlens/internal/models"
	apperrors "threatlens/pkg/errors"
)

type MockScanService struct {
	mock.Mock
}

func (m *MockScanService) ExecuteScan(ctx context.Context, target, owner string) (*models.ScanRecord, error) {
	args := m.Called(target, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScanRecord), args.Error(1)
}

func (m *MockScanService) ScanFileHash(ctx context.Context, hash, owner string) (*models.ScanRecord, error) {
	args := m.Called(hash, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScanRecord), args.Error(1)
}

func (m *MockScanService) History(owner string) ([]models.ScanRecord, error) {
	args := m.Called(owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScanRecord), args.Error(1)
}

func (m *MockScanService) Report(id string) (*models.ScanRecord, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScanRecord), args.Error(1)
}

type fakeUserDAO struct {
	tokens map[string]*models.User
}

func (d *fakeUserDAO) FindByToken(token string) (*models.User, error) {
	if user, ok := d.tokens[token]; ok {
		return user, nil
	}
	return nil, apperrors.ErrNotFound
}

func newScanRouter(svc *MockScanService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	users := &fakeUserDAO{tokens: map[string]*models.User{
		"valid-token": {ID: "user-1", Email: "analyst@example.com"},
	}}

	h := NewScanHandler(svc)
	router := gin.New()
	api := router.Group("/api")
	api.Use(AuthRequired(users))
	api.POST("/scan", h.SubmitScan)
	api.GET("/scan/history", h.History)
	api.GET("/scan/report/:id", h.Report)
	return router
}

func doRequest(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitScan(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		setupMock      func(*MockScanService)
		expectedStatus int
		expectedBody   string
		validateMock   func(*testing.T, *MockScanService)
	}{
		{
			name:        "Valid Request - Completed Scan",
			requestBody: `{"url":"https://example.com"}`,
			setupMock: func(m *MockScanService) {
				m.On("ExecuteScan", "https://example.com", "user-1").Return(&models.ScanRecord{
					ID:     "123e4567-e89b-12d3-a456-426614174000",
					Target: "https://example.com",
					Kind:   models.ScanKindURL,
					Owner:  "user-1",
					Status: "completed",
					Stats:  map[string]int{"malicious": 0, "harmless": 70},
				}, nil)
			},
			expectedStatus: 200,
			expectedBody:   `"success":true`,
			validateMock: func(t *testing.T, m *MockScanService) {
				m.AssertNumberOfCalls(t, "ExecuteScan", 1)
			},
		},
		{
			name:        "Valid Request - Still In Progress",
			requestBody: `{"url":"https://slow.example.com"}`,
			setupMock: func(m *MockScanService) {
				m.On("ExecuteScan", "https://slow.example.com", "user-1").Return(&models.ScanRecord{
					ID:     "223e4567-e89b-12d3-a456-426614174000",
					Target: "https://slow.example.com",
					Status: "in-progress",
				}, nil)
			},
			expectedStatus: 200,
			expectedBody:   `"status":"in-progress"`,
		},
		{
			name:           "Invalid JSON - Malformed",
			requestBody:    `{"url":}`,
			setupMock:      func(m *MockScanService) {},
			expectedStatus: 400,
			expectedBody:   `"error":"Invalid request payload"`,
			validateMock: func(t *testing.T, m *MockScanService) {
				m.AssertNumberOfCalls(t, "ExecuteScan", 0)
			},
		},
		{
			name:           "Missing Required Field - url",
			requestBody:    `{}`,
			setupMock:      func(m *MockScanService) {},
			expectedStatus: 400,
			expectedBody:   `"error":"Invalid request payload"`,
		},
		{
			name:        "Service Rejects Target",
			requestBody: `{"url":"http://"}`,
			setupMock: func(m *MockScanService) {
				m.On("ExecuteScan", "http://", "user-1").
					Return(nil, apperrors.NewInputError("url", "must be an absolute URL with scheme and host"))
			},
			expectedStatus: 400,
		},
		{
			name:        "Provider Unavailable",
			requestBody: `{"url":"https://example.com"}`,
			setupMock: func(m *MockScanService) {
				m.On("ExecuteScan", "https://example.com", "user-1").
					Return(nil, apperrors.NewProviderError("reputation", "submit", fmt.Errorf("connection refused")))
			},
			expectedStatus: 500,
			expectedBody:   `"error":"scan provider unavailable"`,
		},
		{
			name:        "Storage Fault",
			requestBody: `{"url":"https://example.com"}`,
			setupMock: func(m *MockScanService) {
				m.On("ExecuteScan", "https://example.com", "user-1").
					Return(nil, apperrors.NewStorageError("insert scan record", fmt.Errorf("connection reset")))
			},
			expectedStatus: 500,
			expectedBody:   `"error":"internal error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockScanService)
			tt.setupMock(svc)
			router := newScanRouter(svc)

			w := doRequest(router, http.MethodPost, "/api/scan", tt.requestBody, "valid-token")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			if tt.validateMock != nil {
				tt.validateMock(t, svc)
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	svc := new(MockScanService)
	router := newScanRouter(svc)

	w := doRequest(router, http.MethodPost, "/api/scan", `{"url":"https://example.com"}`, "")
	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "missing bearer token")

	w = doRequest(router, http.MethodPost, "/api/scan", `{"url":"https://example.com"}`, "wrong-token")
	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")

	svc.AssertNumberOfCalls(t, "ExecuteScan", 0)
}

func TestHistory(t *testing.T) {
	svc := new(MockScanService)
	svc.On("History", "user-1").Return([]models.ScanRecord{
		{ID: "b", Target: "https://second.example", Status: "completed"},
		{ID: "a", Target: "https://first.example", Status: "completed"},
	}, nil)
	router := newScanRouter(svc)

	w := doRequest(router, http.MethodGet, "/api/scan/history", "", "valid-token")

	assert.Equal(t, 200, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"scans"`)
	assert.Less(t, strings.Index(body, "second.example"), strings.Index(body, "first.example"))
}

func TestReport(t *testing.T) {
	svc := new(MockScanService)
	svc.On("Report", "known-id").Return(&models.ScanRecord{ID: "known-id", Status: "completed"}, nil)
	svc.On("Report", "missing-id").Return(nil, apperrors.ErrNotFound)
	router := newScanRouter(svc)

	w := doRequest(router, http.MethodGet, "/api/scan/report/known-id", "", "valid-token")
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "known-id")

	w = doRequest(router, http.MethodGet, "/api/scan/report/missing-id", "", "valid-token")
	assert.Equal(t, 404, w.Code)
}
