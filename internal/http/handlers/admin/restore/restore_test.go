package restore

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/levkinivan/finance-guard/internal/http/middlewarectx"
	"github.com/levkinivan/finance-guard/internal/models"
	"github.com/levkinivan/finance-guard/internal/services/authz"
	"github.com/levkinivan/finance-guard/internal/services/guardian"
)

// MockService реализует интерфейс restore.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Restore(ctx context.Context, caller *models.Caller, backupUID string) (*guardian.RestoreResult, error) {
	args := m.Called(ctx, caller, backupUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*guardian.RestoreResult), args.Error(1)
}

func TestRestoreHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	admin := &models.Caller{UID: "admin-uid", Email: "admin@example.com"}

	tests := []struct {
		name           string
		backupID       string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешное восстановление",
			backupID: "backup-1",
			setupMock: func(m *MockService) {
				m.On("Restore", mock.Anything, admin, "backup-1").
					Return(&guardian.RestoreResult{RestoredCount: 7}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"restored_count":7`,
		},
		{
			name:     "копия не найдена",
			backupID: "missing",
			setupMock: func(m *MockService) {
				m.On("Restore", mock.Anything, admin, "missing").
					Return(nil, guardian.ErrBackupNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"backup not found"}`,
		},
		{
			name:     "срок восстановления истёк",
			backupID: "backup-old",
			setupMock: func(m *MockService) {
				m.On("Restore", mock.Anything, admin, "backup-old").
					Return(nil, guardian.ErrBackupExpired)
			},
			expectedStatus: http.StatusGone,
			expectedBody:   `{"status":"Error","error":"backup past retention deadline"}`,
		},
		{
			name:     "недостаточно прав",
			backupID: "backup-1",
			setupMock: func(m *MockService) {
				m.On("Restore", mock.Anything, admin, "backup-1").
					Return(nil, authz.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"forbidden"}`,
		},
		{
			name:     "ошибка хранилища",
			backupID: "backup-1",
			setupMock: func(m *MockService) {
				m.On("Restore", mock.Anything, admin, "backup-1").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"restore failed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost,
				"/admin/backups/"+tt.backupID+"/restore", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("backupId", tt.backupID)
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
