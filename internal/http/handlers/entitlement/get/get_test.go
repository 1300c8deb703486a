package get

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/levkinivan/finance-guard/internal/http/middlewarectx"
	"github.com/levkinivan/finance-guard/internal/models"
)

// MockService реализует интерфейс get.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Resolve(ctx context.Context, userUID string) models.EntitlementStatus {
	args := m.Called(ctx, userUID)
	return args.Get(0).(models.EntitlementStatus)
}

func TestGetEntitlementHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		caller         *models.Caller
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "пробный период",
			caller: &models.Caller{UID: "user-1", Email: "user@example.com"},
			setupMock: func(m *MockService) {
				m.On("Resolve", mock.Anything, "user-1").Return(models.EntitlementStatus{
					Tier:               models.TierTrial,
					TrialDaysRemaining: 12,
					TrialEnd:           time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC),
					TransactionLimit:   models.LimitUnlimited,
					CategoryLimit:      models.LimitUnlimited,
					CardLimit:          models.LimitUnlimited,
				})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"tier":"trial","trial_days_remaining":12`,
		},
		{
			name:   "доступ истёк",
			caller: &models.Caller{UID: "user-2", Email: "old@example.com"},
			setupMock: func(m *MockService) {
				m.On("Resolve", mock.Anything, "user-2").Return(models.EntitlementStatus{
					Tier: models.TierExpired,
				})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"tier":"expired"`,
		},
		{
			name:           "личность отсутствует в контексте",
			caller:         nil,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/entitlement", nil)
			if tt.caller != nil {
				ctx := context.WithValue(req.Context(), middlewarectx.CallerKey, tt.caller)
				req = req.WithContext(ctx)
			}

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
