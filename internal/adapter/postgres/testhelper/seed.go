package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
)

const seedActor = "seed"

// SeedCategory inserts a live category row and returns the domain value.
func SeedCategory(t *testing.T, pool *pgxpool.Pool, name string) *domain.Category {
	t.Helper()

	c := domain.NewCategory(name, nil, seedActor)
	c.RowVersion = 1

	insertCategory(t, pool, c)
	return c
}

// SeedProduct inserts a live product row in the given category.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, categoryID uuid.UUID, sku, name string) *domain.Product {
	t.Helper()

	p := domain.NewProduct(sku, name, nil, 1990, 10, categoryID, seedActor)
	p.RowVersion = 1

	insertProduct(t, pool, p)
	return p
}

// SeedDeletedProduct inserts a product already soft-deleted at deletedAt.
// The purge tests use it to age rows past the retention cutoff.
func SeedDeletedProduct(t *testing.T, pool *pgxpool.Pool, categoryID uuid.UUID, sku string, deletedAt time.Time) *domain.Product {
	t.Helper()

	p := domain.NewProduct(sku, "Deleted "+sku, nil, 1990, 0, categoryID, seedActor)
	p.RowVersion = 1
	p.MarkDeleted(deletedAt.UTC().Truncate(time.Microsecond), seedActor)

	insertProduct(t, pool, p)
	return p
}

func insertCategory(t *testing.T, pool *pgxpool.Pool, c *domain.Category) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO categories (id, created_at, created_by, updated_at, updated_by,
		                         is_deleted, deleted_at, deleted_by, row_version, name, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.CreatedAt, c.CreatedBy, c.UpdatedAt, c.UpdatedBy,
		c.IsDeleted, c.DeletedAt, c.DeletedBy, c.RowVersion, c.Name, c.Description,
	)
	if err != nil {
		t.Fatalf("testhelper: insert category: %v", err)
	}
}

func insertProduct(t *testing.T, pool *pgxpool.Pool, p *domain.Product) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO products (id, created_at, created_by, updated_at, updated_by,
		                       is_deleted, deleted_at, deleted_by, row_version,
		                       sku, name, description, price_cents, stock, category_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		p.ID, p.CreatedAt, p.CreatedBy, p.UpdatedAt, p.UpdatedBy,
		p.IsDeleted, p.DeletedAt, p.DeletedBy, p.RowVersion,
		p.SKU, p.Name, p.Description, p.PriceCents, p.Stock, p.CategoryID,
	)
	if err != nil {
		t.Fatalf("testhelper: insert product: %v", err)
	}
}
