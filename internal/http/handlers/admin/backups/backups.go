// Package backups реализует HTTP-обработчик просмотра резервных копий
// пользователя. Только чтение, для видимости оператору.
package backups

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
)

// Service описывает интерфейс гардиана деструктивных операций.
type Service interface {
	ListBackups(ctx context.Context, caller *models.Caller, targetUserUID string) ([]*models.BackupSnapshot, error)
}

// Handler управляет HTTP-запросами на просмотр резервных копий.
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
// @Summary Получить список резервных копий пользователя
// @Description Возвращает метаданные резервных копий, новые первыми. Только для администратора.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Param id path string true "UID целевого пользователя"
// @Success 200 {object} map[string]any "Список копий"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /admin/users/{id}/backups [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.backups"
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

	caller, _ := middlewarectx.CallerFromContext(r.Context())

	snapshots, err := h.service.ListBackups(r.Context(), caller, targetUserUID)
	if err != nil {
		switch {
		case errors.Is(err, authz.ErrUnauthenticated):
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
		case errors.Is(err, authz.ErrForbidden):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		default:
			log.Error("failed to list backups", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not list backups"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"backups": snapshots,
		"count":   len(snapshots),
	}))
}
