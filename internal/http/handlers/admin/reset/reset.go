// Package reset реализует HTTP-обработчик администраторского сброса
// всех транзакций целевого пользователя.
//
// Ответ об ошибке всегда даёт администратору понять, были ли данные удалены:
// сбой резервной копии означает, что удаление не начиналось.
package reset

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/levkinivan/finance-guard/internal/http/middlewarectx"
	"github.com/levkinivan/finance-guard/internal/http/response"
	"github.com/levkinivan/finance-guard/internal/lib/sl"
	"github.com/levkinivan/finance-guard/internal/models"
	"github.com/levkinivan/finance-guard/internal/services/authz"
	"github.com/levkinivan/finance-guard/internal/services/guardian"
)

// Request — входные данные операции сброса. Тело запроса опционально:
// отсутствие with_backup означает true, отключение копии настоятельно
// не рекомендуется.
type Request struct {
	WithBackup *bool `json:"with_backup,omitempty"`
}

// Service описывает интерфейс гардиана деструктивных операций.
type Service interface {
	Reset(ctx context.Context, caller *models.Caller, targetUserUID string, withBackup bool) (*guardian.ResetResult, error)
}

// Handler управляет HTTP-запросами на сброс транзакций.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сбросить все транзакции пользователя
// @Description Удаляет все транзакции целевого пользователя с обязательной резервной копией (если не отключена явно). Только для администратора.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "UID целевого пользователя"
// @Param request body Request false "Параметры сброса"
// @Success 200 {object} guardian.ResetResult "Результат сброса"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав или операция над собой"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Сбой резервной копии или хранилища"
// @Router /admin/users/{id}/reset [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.reset"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	targetUserUID := chi.URLParam(r, "id")
	if targetUserUID == "" {
		log.Error("target user id missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	withBackup := true
	if req.WithBackup != nil {
		withBackup = *req.WithBackup
	}

	caller, _ := middlewarectx.CallerFromContext(r.Context())

	result, err := h.service.Reset(r.Context(), caller, targetUserUID, withBackup)
	if err != nil {
		switch {
		case errors.Is(err, authz.ErrUnauthenticated):
			log.Error("unauthenticated reset attempt", sl.Err(err))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
		case errors.Is(err, authz.ErrForbidden):
			log.Error("forbidden reset attempt", sl.Err(err))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		case errors.Is(err, guardian.ErrUserNotFound):
			log.Error("reset target not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, guardian.ErrBackupFailed):
			log.Error("reset aborted, backup failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("backup failed, no transactions were deleted"))
		default:
			log.Error("reset failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("reset failed"))
		}
		return
	}

	log.Info("reset completed",
		slog.String("target_user_uid", targetUserUID),
		slog.Int("deleted_count", result.DeletedCount))
	render.JSON(w, r, response.OKWithData(result))
}
