package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/levkinivan/finance-guard/internal/http/response"
	"github.com/levkinivan/finance-guard/internal/models"
)

// EntitlementChecker определяет проверку доступности действия для пользователя.
type EntitlementChecker interface {
	CanPerform(ctx context.Context, userUID string, action models.ActionKind) bool
}

// EntitlementMiddleware создает middleware, блокирующий действие при
// истёкшем уровне доступа. Отказ — мягкий: 403 с приглашением к апгрейду,
// а не жёсткая ошибка.
func EntitlementMiddleware(log *slog.Logger, checker EntitlementChecker, action models.ActionKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok || caller.UID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			if !checker.CanPerform(r.Context(), caller.UID, action) {
				log.Info("action denied for expired tier",
					slog.String("user_uid", caller.UID),
					slog.String("action", string(action)))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("trial expired, upgrade to continue"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
