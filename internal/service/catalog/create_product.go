package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
	"github.com/paz-dev-com/catalog-backend/pkg/ctxutil"
)

// CreateProduct adds a product to an existing category. SKU must be unique
// among live products.
type CreateProduct struct {
	mediator.Command

	SKU         string
	Name        string
	Description *string
	PriceCents  int64
	Stock       int
	CategoryID  uuid.UUID
}

func (CreateProduct) RequestName() string { return "catalog.CreateProduct" }

func validateCreateProduct(_ context.Context, req CreateProduct) (mediator.FieldErrors, error) {
	fe := mediator.FieldErrors{}

	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		fe.Add("sku", "required")
	}
	if len(sku) > 64 {
		fe.Add("sku", "max 64 characters")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		fe.Add("name", "required")
	}
	if len(name) > 200 {
		fe.Add("name", "max 200 characters")
	}
	if req.Description != nil && len(strings.TrimSpace(*req.Description)) > 2000 {
		fe.Add("description", "max 2000 characters")
	}
	if req.PriceCents < 0 {
		fe.Add("price_cents", "must not be negative")
	}
	if req.Stock < 0 {
		fe.Add("stock", "must not be negative")
	}
	if req.CategoryID == uuid.Nil {
		fe.Add("category_id", "required")
	}
	return fe, nil
}

func (h *Handlers) createProduct(ctx context.Context, req CreateProduct) (mediator.Result[uuid.UUID], error) {
	u, err := uow(ctx)
	if err != nil {
		return mediator.Result[uuid.UUID]{}, err
	}

	sku := strings.TrimSpace(req.SKU)

	exists, err := u.Categories().Any(ctx, squirrel.Eq{"id": req.CategoryID})
	if err != nil {
		return mediator.Result[uuid.UUID]{}, fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return mediator.Failure[uuid.UUID]("category not found"), nil
	}

	taken, err := u.Products().Any(ctx, squirrel.Eq{"sku": sku})
	if err != nil {
		return mediator.Result[uuid.UUID]{}, fmt.Errorf("check product sku: %w", err)
	}
	if taken {
		return mediator.Failure[uuid.UUID](fmt.Sprintf("product with SKU %s already exists", sku)), nil
	}

	product := domain.NewProduct(
		sku,
		strings.TrimSpace(req.Name),
		trimOrNil(req.Description),
		req.PriceCents,
		req.Stock,
		req.CategoryID,
		ctxutil.Actor(ctx),
	)
	u.Products().Add(product)

	if _, err := u.SaveChanges(ctx); err != nil {
		return mediator.Result[uuid.UUID]{}, fmt.Errorf("save product: %w", err)
	}

	h.log.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID.String()),
		slog.String("sku", sku),
	)
	return mediator.Success(product.ID), nil
}
