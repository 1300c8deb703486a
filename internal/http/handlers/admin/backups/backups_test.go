package backups

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/levkinivan/finance-guard/internal/http/middlewarectx"
	"github.com/levkinivan/finance-guard/internal/models"
	"github.com/levkinivan/finance-guard/internal/services/authz"
)

// MockService реализует интерфейс backups.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListBackups(ctx context.Context, caller *models.Caller, targetUserUID string) ([]*models.BackupSnapshot, error) {
	args := m.Called(ctx, caller, targetUserUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BackupSnapshot), args.Error(1)
}

func TestListBackupsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	admin := &models.Caller{UID: "admin-uid", Email: "admin@example.com"}
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		targetID       string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешный список копий",
			targetID: "user-1",
			setupMock: func(m *MockService) {
				m.On("ListBackups", mock.Anything, admin, "user-1").Return([]*models.BackupSnapshot{
					{UID: "b1", TargetUserUID: "user-1", AdminEmail: "admin@example.com",
						RecordCount: 3, CreatedAt: now, RetentionUntil: now.AddDate(0, 0, 30)},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":1`,
		},
		{
			name:     "пустой список",
			targetID: "user-2",
			setupMock: func(m *MockService) {
				m.On("ListBackups", mock.Anything, admin, "user-2").Return([]*models.BackupSnapshot{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":0`,
		},
		{
			name:     "недостаточно прав",
			targetID: "user-1",
			setupMock: func(m *MockService) {
				m.On("ListBackups", mock.Anything, admin, "user-1").Return(nil, authz.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"forbidden"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/admin/users/"+tt.targetID+"/backups", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.targetID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.CallerKey, admin)
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
