package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/paz-dev-com/catalog-backend/internal/adapter/postgres"
	"github.com/paz-dev-com/catalog-backend/internal/auth"
	"github.com/paz-dev-com/catalog-backend/internal/config"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
	"github.com/paz-dev-com/catalog-backend/internal/service/catalog"
	"github.com/paz-dev-com/catalog-backend/internal/transport/middleware"
	"github.com/paz-dev-com/catalog-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// dispatch pipeline over a connection pool, and serves the REST API until
// ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	dispatcher := mediator.NewDispatcher(logger, postgres.NewUnitOfWorkFactory(pool), cfg.Pipeline.SlowRequestThreshold)
	catalog.NewHandlers(logger, cfg.Catalog).Register(dispatcher)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	chain := middleware.Chain(
		middleware.RequestID(),
		middleware.CORS(cfg.CORS),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.Auth(jwtManager),
	)

	handler := rest.Routes(
		rest.NewCatalogHandler(dispatcher, logger),
		rest.NewHealthHandler(pool, BuildVersion()),
		chain,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("stopped")
	return nil
}
