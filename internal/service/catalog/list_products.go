package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/paz-dev-com/catalog-backend/internal/adapter/postgres"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
)

// psql builds the raw read-model query; repository calls build their own SQL.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ProductRow is the product list read model: one row per live product with
// the category name joined in. RowVersion rides along so a client can turn
// a listed row into an UpdateProduct without a second read.
type ProductRow struct {
	ID           uuid.UUID `db:"id"`
	SKU          string    `db:"sku"`
	Name         string    `db:"name"`
	Description  *string   `db:"description"`
	PriceCents   int64     `db:"price_cents"`
	Stock        int       `db:"stock"`
	CategoryID   uuid.UUID `db:"category_id"`
	CategoryName string    `db:"category_name"`
	UpdatedAt    time.Time `db:"updated_at"`
	RowVersion   int64     `db:"row_version"`
}

// ListProducts returns one page of live products, name-ordered. Search
// matches name or SKU case-insensitively; CategoryID narrows to one
// category. Zero paging fields select the configured defaults.
type ListProducts struct {
	mediator.Query

	Page       int
	PageSize   int
	Search     string
	CategoryID uuid.UUID
}

func (ListProducts) RequestName() string { return "catalog.ListProducts" }

func validateListProducts(_ context.Context, req ListProducts) (mediator.FieldErrors, error) {
	fe := mediator.FieldErrors{}
	if req.Page < 0 {
		fe.Add("page", "must not be negative")
	}
	if req.PageSize < 0 {
		fe.Add("page_size", "must not be negative")
	}
	return fe, nil
}

func (h *Handlers) listProducts(ctx context.Context, req ListProducts) (mediator.Result[mediator.Paginated[ProductRow]], error) {
	u, err := uow(ctx)
	if err != nil {
		return mediator.Result[mediator.Paginated[ProductRow]]{}, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size == 0 {
		size = h.cfg.DefaultPageSize
	}
	if size > h.cfg.MaxPageSize {
		size = h.cfg.MaxPageSize
	}

	qb := psql.Select(
		"p.id", "p.sku", "p.name", "p.description", "p.price_cents", "p.stock",
		"p.category_id", "c.name AS category_name", "p.updated_at", "p.row_version",
	).
		From("products p").
		Join("categories c ON c.id = p.category_id").
		Where(squirrel.Eq{"p.is_deleted": false}).
		OrderBy("p.name", "p.id").
		Limit(uint64(size)).
		Offset(uint64(page-1) * uint64(size))

	// The count goes through the repository, which adds the soft-delete
	// filter itself, so its predicate carries only the caller's filters.
	var countPred squirrel.And
	if search := strings.TrimSpace(req.Search); search != "" {
		pattern := "%" + search + "%"
		qb = qb.Where(squirrel.Or{
			squirrel.ILike{"p.name": pattern},
			squirrel.ILike{"p.sku": pattern},
		})
		countPred = append(countPred, squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sku": pattern},
		})
	}
	if req.CategoryID != uuid.Nil {
		qb = qb.Where(squirrel.Eq{"p.category_id": req.CategoryID})
		countPred = append(countPred, squirrel.Eq{"category_id": req.CategoryID})
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return mediator.Result[mediator.Paginated[ProductRow]]{}, fmt.Errorf("build product list: %w", err)
	}
	var pred squirrel.Sqlizer
	if len(countPred) > 0 {
		pred = countPred
	}

	products := u.Products()
	var (
		rows  []ProductRow
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = postgres.ExecuteQuery[ProductRow](gctx, u, sql, args...)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = products.Count(gctx, pred)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return mediator.Result[mediator.Paginated[ProductRow]]{}, err
	}

	return mediator.Success(mediator.NewPaginated(rows, page, size, total)), nil
}
