package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/levkinivan/finance-guard/internal/models"
)

// MockTokenValidator реализует интерфейс TokenValidator
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) ValidateToken(ctx context.Context, token string) (*models.Caller, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Caller), args.Error(1)
}

func TestJWTMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(*MockTokenValidator)
		expectedStatus int
		expectCaller   bool
	}{
		{
			name:       "валидный токен",
			authHeader: "Bearer good-token",
			setupMock: func(m *MockTokenValidator) {
				m.On("ValidateToken", mock.Anything, "good-token").
					Return(&models.Caller{UID: "user-1", Username: "ivan", Email: "ivan@example.com"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectCaller:   true,
		},
		{
			name:           "заголовок отсутствует",
			authHeader:     "",
			setupMock:      func(_ *MockTokenValidator) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "заголовок без префикса Bearer",
			authHeader:     "Basic abc",
			setupMock:      func(_ *MockTokenValidator) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "просроченный токен",
			authHeader: "Bearer stale-token",
			setupMock: func(m *MockTokenValidator) {
				m.On("ValidateToken", mock.Anything, "stale-token").
					Return(nil, errors.New("token is expired"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockValidator := new(MockTokenValidator)
			tt.setupMock(mockValidator)

			var gotCaller *models.Caller
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotCaller, _ = CallerFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			handler := JWTMiddleware(mockValidator, logger)(next)

			req := httptest.NewRequest(http.MethodGet, "/entitlement", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectCaller {
				assert.NotNil(t, gotCaller)
				assert.Equal(t, "user-1", gotCaller.UID)
			}

			mockValidator.AssertExpectations(t)
		})
	}
}

// MockEntitlementChecker реализует интерфейс EntitlementChecker
type MockEntitlementChecker struct {
	mock.Mock
}

func (m *MockEntitlementChecker) CanPerform(ctx context.Context, userUID string, action models.ActionKind) bool {
	args := m.Called(ctx, userUID, action)
	return args.Bool(0)
}

func TestEntitlementMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		caller         *models.Caller
		setupMock      func(*MockEntitlementChecker)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "действие доступно",
			caller: &models.Caller{UID: "user-1"},
			setupMock: func(m *MockEntitlementChecker) {
				m.On("CanPerform", mock.Anything, "user-1", models.ActionCreateTransaction).Return(true)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "доступ истёк",
			caller: &models.Caller{UID: "user-2"},
			setupMock: func(m *MockEntitlementChecker) {
				m.On("CanPerform", mock.Anything, "user-2", models.ActionCreateTransaction).Return(false)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   "trial expired, upgrade to continue",
		},
		{
			name:           "личность отсутствует в контексте",
			caller:         nil,
			setupMock:      func(_ *MockEntitlementChecker) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "user identification missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockChecker := new(MockEntitlementChecker)
			tt.setupMock(mockChecker)

			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := EntitlementMiddleware(logger, mockChecker, models.ActionCreateTransaction)(next)

			req := httptest.NewRequest(http.MethodPost, "/transactions", nil)
			if tt.caller != nil {
				ctx := context.WithValue(req.Context(), CallerKey, tt.caller)
				req = req.WithContext(ctx)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
					"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			}

			mockChecker.AssertExpectations(t)
		})
	}
}
