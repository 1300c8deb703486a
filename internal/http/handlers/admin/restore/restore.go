// Package restore реализует HTTP-обработчик восстановления транзакций
// пользователя из резервной копии. Восстановление добавляет записи,
// не затрагивая созданные после копии.
package restore

import (
	"context"
	"errors"
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

// Service описывает интерфейс гардиана деструктивных операций.
type Service interface {
	Restore(ctx context.Context, caller *models.Caller, backupUID string) (*guardian.RestoreResult, error)
}

// Handler управляет HTTP-запросами на восстановление из резервной копии.
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
// @Summary Восстановить транзакции из резервной копии
// @Description Добавляет записи из копии как новые транзакции целевого пользователя. Только для администратора.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param backupId path string true "UID резервной копии"
// @Success 200 {object} guardian.RestoreResult "Результат восстановления"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Копия не найдена"
// @Failure 410 {object} response.ErrorResponse "Срок восстановления истёк"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /admin/backups/{backupId}/restore [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.restore"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	backupUID := chi.URLParam(r, "backupId")
	if backupUID == "" {
		log.Error("backup id missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	caller, _ := middlewarectx.CallerFromContext(r.Context())

	result, err := h.service.Restore(r.Context(), caller, backupUID)
	if err != nil {
		switch {
		case errors.Is(err, authz.ErrUnauthenticated):
			log.Error("unauthenticated restore attempt", sl.Err(err))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
		case errors.Is(err, authz.ErrForbidden):
			log.Error("forbidden restore attempt", sl.Err(err))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		case errors.Is(err, guardian.ErrBackupNotFound):
			log.Error("backup not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("backup not found"))
		case errors.Is(err, guardian.ErrBackupExpired):
			log.Error("backup past retention deadline", sl.Err(err))
			w.WriteHeader(http.StatusGone)
			render.JSON(w, r, response.Error("backup past retention deadline"))
		default:
			log.Error("restore failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("restore failed"))
		}
		return
	}

	log.Info("restore completed",
		slog.String("backup_uid", backupUID),
		slog.Int("restored_count", result.RestoredCount))
	render.JSON(w, r, response.OKWithData(result))
}
