// Command cleanup hard-deletes products that were soft-deleted before the
// configured retention cutoff. It is intended to be invoked by an external
// cron job, not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/paz-dev-com/catalog-backend/internal/adapter/postgres"
	"github.com/paz-dev-com/catalog-backend/internal/app"
	"github.com/paz-dev-com/catalog-backend/internal/config"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
	"github.com/paz-dev-com/catalog-backend/internal/service/catalog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// The purge goes through the same pipeline as the API so the write is
	// transactional and audited identically.
	dispatcher := mediator.NewDispatcher(logger, postgres.NewUnitOfWorkFactory(pool), cfg.Pipeline.SlowRequestThreshold)
	catalog.NewHandlers(logger, cfg.Catalog).Register(dispatcher)

	res, err := mediator.Send[int](ctx, dispatcher, catalog.PurgeDeletedProducts{})
	if err != nil {
		logger.Error("purge failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !res.IsSuccess() {
		logger.Error("purge rejected", slog.String("reason", res.Error()))
		os.Exit(1)
	}

	logger.Info("purge completed",
		slog.Int("purged", res.Data()),
		slog.Int("retention_days", cfg.Catalog.HardDeleteRetentionDays),
	)
}
