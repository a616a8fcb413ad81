package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
	"github.com/paz-dev-com/catalog-backend/pkg/ctxutil"
)

// UpdateProduct replaces the mutable fields of a product. SKU is a natural
// key and never changes after creation. RowVersion is the version the client
// last read: a stale value makes the save fail with a concurrency conflict
// instead of silently overwriting someone else's write.
type UpdateProduct struct {
	mediator.Command

	ID          uuid.UUID
	Name        string
	Description *string
	PriceCents  int64
	Stock       int
	CategoryID  uuid.UUID
	RowVersion  int64
}

func (UpdateProduct) RequestName() string { return "catalog.UpdateProduct" }

func validateUpdateProduct(_ context.Context, req UpdateProduct) (mediator.FieldErrors, error) {
	fe := mediator.FieldErrors{}

	if req.ID == uuid.Nil {
		fe.Add("id", "required")
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
	if req.RowVersion <= 0 {
		fe.Add("row_version", "required")
	}
	return fe, nil
}

func (h *Handlers) updateProduct(ctx context.Context, req UpdateProduct) (mediator.Result[mediator.None], error) {
	u, err := uow(ctx)
	if err != nil {
		return mediator.Result[mediator.None]{}, err
	}

	product, err := u.Products().GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return mediator.Failure[mediator.None]("product not found"), nil
		}
		return mediator.Result[mediator.None]{}, fmt.Errorf("load product: %w", err)
	}

	if req.CategoryID != product.CategoryID {
		exists, err := u.Categories().Any(ctx, squirrel.Eq{"id": req.CategoryID})
		if err != nil {
			return mediator.Result[mediator.None]{}, fmt.Errorf("check category: %w", err)
		}
		if !exists {
			return mediator.Failure[mediator.None]("category not found"), nil
		}
	}

	product.Name = strings.TrimSpace(req.Name)
	product.Description = trimOrNil(req.Description)
	product.PriceCents = req.PriceCents
	product.Stock = req.Stock
	product.CategoryID = req.CategoryID
	product.Touch(domain.Now(), ctxutil.Actor(ctx))

	// Guard the save with the version the client read, not the one just
	// loaded: a row changed since the client's read must conflict even
	// though this transaction sees the newer version.
	product.RowVersion = req.RowVersion
	u.Products().Update(product)

	if _, err := u.SaveChanges(ctx); err != nil {
		return mediator.Result[mediator.None]{}, fmt.Errorf("save product: %w", err)
	}

	h.log.InfoContext(ctx, "product updated",
		slog.String("product_id", req.ID.String()),
		slog.String("sku", product.SKU),
	)
	return mediator.Success(mediator.None{}), nil
}
