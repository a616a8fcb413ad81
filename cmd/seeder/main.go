// Command seeder populates the catalog with demo data: a handful of
// categories, each carrying a few products. Rows go through the same staged
// write path as the API, so audit columns and row versions come out the way
// production writes them.
//
// Flags:
//
//	--wipe  delete existing catalog rows first
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paz-dev-com/catalog-backend/internal/adapter/postgres"
	"github.com/paz-dev-com/catalog-backend/internal/app"
	"github.com/paz-dev-com/catalog-backend/internal/config"
	"github.com/paz-dev-com/catalog-backend/internal/domain"
)

const actor = "seeder"

type demoProduct struct {
	sku        string
	name       string
	priceCents int64
	stock      int
}

type demoCategory struct {
	name        string
	description string
	products    []demoProduct
}

var demo = []demoCategory{
	{
		name:        "Electronics",
		description: "Phones, laptops and accessories",
		products: []demoProduct{
			{"ELEC-0001", "Noise Cancelling Headphones", 19900, 40},
			{"ELEC-0002", "Mechanical Keyboard", 8900, 25},
			{"ELEC-0003", "27-inch 4K Monitor", 32900, 12},
		},
	},
	{
		name:        "Books",
		description: "Technical and general reading",
		products: []demoProduct{
			{"BOOK-0001", "The Go Programming Language", 4500, 80},
			{"BOOK-0002", "Designing Data-Intensive Applications", 5200, 35},
		},
	},
	{
		name: "Home & Kitchen",
		products: []demoProduct{
			{"HOME-0001", "Pour-Over Coffee Kit", 3400, 50},
			{"HOME-0002", "Cast Iron Skillet 26cm", 2900, 18},
		},
	},
}

func main() {
	wipe := flag.Bool("wipe", false, "delete existing catalog rows first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if *wipe {
		if err := wipeCatalog(ctx, pool); err != nil {
			logger.Error("wipe catalog", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("existing catalog rows removed")
	}

	inserted, err := seed(ctx, pool)
	if err != nil {
		logger.Error("seed catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seed completed", slog.Int("rows", inserted))
}

// seed stages every demo row in one unit of work and flushes them in a
// single transaction: either the whole demo catalog lands or none of it.
func seed(ctx context.Context, db postgres.DB) (int, error) {
	u := postgres.NewUnitOfWork(db)
	defer u.Close(ctx)

	if err := u.Begin(ctx); err != nil {
		return 0, err
	}

	var products []*domain.Product
	for _, dc := range demo {
		category := domain.NewCategory(dc.name, optional(dc.description), actor)
		u.Categories().Add(category)

		for _, dp := range dc.products {
			products = append(products, domain.NewProduct(
				dp.sku, dp.name, nil, dp.priceCents, dp.stock, category.ID, actor,
			))
		}
	}
	u.Products().AddRange(products)

	n, err := u.SaveChanges(ctx)
	if err != nil {
		if rbErr := u.Rollback(ctx); rbErr != nil {
			return 0, fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return 0, err
	}
	if err := u.Commit(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

func wipeCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("delete products: %w", err)
	}
	if _, err := pool.Exec(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("delete categories: %w", err)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
