// Package financeguard собирает приложение: хранилище, кеш, брокер алертов,
// сервисы и HTTP-сервер с корректным завершением по сигналу.
package financeguard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/levkinivan/finance-guard/internal/cache"
	"github.com/levkinivan/finance-guard/internal/config"
	"github.com/levkinivan/finance-guard/internal/lib/jwt"
	"github.com/levkinivan/finance-guard/internal/lib/rabbitmq"
	"github.com/levkinivan/finance-guard/internal/lib/sl"
	"github.com/levkinivan/finance-guard/internal/migrations"
	authservice "github.com/levkinivan/finance-guard/internal/services/auth"
	"github.com/levkinivan/finance-guard/internal/services/authz"
	entitlementservice "github.com/levkinivan/finance-guard/internal/services/entitlement"
	guardianservice "github.com/levkinivan/finance-guard/internal/services/guardian"
	transactionservice "github.com/levkinivan/finance-guard/internal/services/transaction"
	"github.com/levkinivan/finance-guard/internal/storage/repository"
)

// App агрегирует ресурсы приложения на время его работы.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New инициализирует зависимости и собирает HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var alerter guardianservice.Alerter
	if cfg.AddressRabbit != "" {
		conn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.RetriesRabbit, cfg.DelayRabbit)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetAlertQueues())
		if err != nil {
			return nil, err
		}
		alerter = rabbitmq.NewAlertPublisher(ch)
	} else {
		logger.Warn("rabbitmq address is empty, operational alerts limited to logs and metrics")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.New(db, jwtMaker)
	authzService := authz.New(cfg.AdminEmail)
	entitlementService := entitlementservice.New(db, cacheRedis, logger)
	transactionService := transactionservice.New(db, logger)
	guardianService := guardianservice.New(db, db, db, db, authzService, alerter, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, entitlementService, transactionService, guardianService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает сервер и блокируется до остановки контекста или ошибки.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		return err
	}
}
