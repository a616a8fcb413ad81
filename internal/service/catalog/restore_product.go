package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
	"github.com/paz-dev-com/catalog-backend/pkg/ctxutil"
)

// RestoreProduct brings a soft-deleted product back. Refused when another
// live product has taken the SKU in the meantime: restoring would break the
// live-uniqueness of the natural key.
type RestoreProduct struct {
	mediator.Command

	ID uuid.UUID
}

func (RestoreProduct) RequestName() string { return "catalog.RestoreProduct" }

func validateRestoreProduct(_ context.Context, req RestoreProduct) (mediator.FieldErrors, error) {
	fe := mediator.FieldErrors{}
	if req.ID == uuid.Nil {
		fe.Add("id", "required")
	}
	return fe, nil
}

func (h *Handlers) restoreProduct(ctx context.Context, req RestoreProduct) (mediator.Result[mediator.None], error) {
	u, err := uow(ctx)
	if err != nil {
		return mediator.Result[mediator.None]{}, err
	}

	product, err := u.Products().GetByIDIncludeDeleted(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return mediator.Failure[mediator.None]("product not found"), nil
		}
		return mediator.Result[mediator.None]{}, fmt.Errorf("load product: %w", err)
	}
	if !product.IsDeleted {
		return mediator.Failure[mediator.None]("product is not deleted"), nil
	}

	taken, err := u.Products().Any(ctx, squirrel.Eq{"sku": product.SKU})
	if err != nil {
		return mediator.Result[mediator.None]{}, fmt.Errorf("check product sku: %w", err)
	}
	if taken {
		return mediator.Failure[mediator.None](fmt.Sprintf("product with SKU %s already exists", product.SKU)), nil
	}

	product.Restore(domain.Now(), ctxutil.Actor(ctx))
	u.Products().Update(product)

	if _, err := u.SaveChanges(ctx); err != nil {
		return mediator.Result[mediator.None]{}, fmt.Errorf("save product: %w", err)
	}

	h.log.InfoContext(ctx, "product restored",
		slog.String("product_id", req.ID.String()),
		slog.String("sku", product.SKU),
	)
	return mediator.Success(mediator.None{}), nil
}
