// Package get реализует HTTP-обработчик получения текущего статуса доступа.
//
// Статус вычисляется на каждый запрос; обработчик никогда не возвращает
// ошибку хранилища — резолвер деградирует до консервативного trial-статуса.
package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/levkinivan/finance-guard/internal/http/middlewarectx"
	"github.com/levkinivan/finance-guard/internal/http/response"
	"github.com/levkinivan/finance-guard/internal/models"
)

// Service описывает интерфейс резолвера статуса доступа.
type Service interface {
	Resolve(ctx context.Context, userUID string) models.EntitlementStatus
}

// Handler управляет HTTP-запросами на получение статуса доступа.
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
// @Summary Получить текущий статус доступа
// @Description Возвращает уровень доступа, остаток пробного периода и лимиты ресурсов.
// @Tags Entitlement
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.EntitlementStatus "Статус доступа"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /entitlement [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entitlement.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.CallerFromContext(r.Context())
	if !ok || caller.UID == "" {
		log.Error("caller not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	status := h.service.Resolve(r.Context(), caller.UID)

	log.Info("entitlement resolved",
		slog.String("user_uid", caller.UID),
		slog.String("tier", string(status.Tier)))
	render.JSON(w, r, response.OKWithData(status))
}
