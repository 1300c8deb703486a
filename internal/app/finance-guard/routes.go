// Package financeguard предоставляет маршруты приложения.
package financeguard

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	adminbackups "github.com/levkinivan/finance-guard/internal/http/handlers/admin/backups"
	adminreset "github.com/levkinivan/finance-guard/internal/http/handlers/admin/reset"
	adminrestore "github.com/levkinivan/finance-guard/internal/http/handlers/admin/restore"
	"github.com/levkinivan/finance-guard/internal/http/handlers/auth/login"
	"github.com/levkinivan/finance-guard/internal/http/handlers/auth/register"
	entitlementget "github.com/levkinivan/finance-guard/internal/http/handlers/entitlement/get"
	transactioncreate "github.com/levkinivan/finance-guard/internal/http/handlers/transaction/create"
	transactionlist "github.com/levkinivan/finance-guard/internal/http/handlers/transaction/list"
	"github.com/levkinivan/finance-guard/internal/http/middlewarectx"
	"github.com/levkinivan/finance-guard/internal/models"
	authservice "github.com/levkinivan/finance-guard/internal/services/auth"
	entitlementservice "github.com/levkinivan/finance-guard/internal/services/entitlement"
	guardianservice "github.com/levkinivan/finance-guard/internal/services/guardian"
	transactionservice "github.com/levkinivan/finance-guard/internal/services/transaction"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.Service,
	entitlementService *entitlementservice.Service,
	transactionService *transactionservice.Service,
	guardianService *guardianservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/entitlement", entitlementget.New(logger, entitlementService).ServeHTTP)
			r.Get("/transactions/list", transactionlist.New(logger, transactionService).ServeHTTP)

			// Мутирующие действия пользователя блокируются при истёкшем уровне
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.EntitlementMiddleware(logger, entitlementService, models.ActionCreateTransaction))
				r.Post("/transactions", transactioncreate.New(logger, transactionService).ServeHTTP)
			})

			// Администраторские операции: авторизацию проверяет сам гардиан
			r.Post("/admin/users/{id}/reset", adminreset.New(logger, guardianService).ServeHTTP)
			r.Post("/admin/backups/{backupId}/restore", adminrestore.New(logger, guardianService).ServeHTTP)
			r.Get("/admin/users/{id}/backups", adminbackups.New(logger, guardianService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
