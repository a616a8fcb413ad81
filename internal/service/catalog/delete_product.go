package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
	"github.com/paz-dev-com/catalog-backend/pkg/ctxutil"
)

// DeleteProduct soft-deletes a product. The row stays in place with the
// deletion triple set; only the purge job removes it for good.
type DeleteProduct struct {
	mediator.Command

	ID uuid.UUID
}

func (DeleteProduct) RequestName() string { return "catalog.DeleteProduct" }

func validateDeleteProduct(_ context.Context, req DeleteProduct) (mediator.FieldErrors, error) {
	fe := mediator.FieldErrors{}
	if req.ID == uuid.Nil {
		fe.Add("id", "required")
	}
	return fe, nil
}

func (h *Handlers) deleteProduct(ctx context.Context, req DeleteProduct) (mediator.Result[mediator.None], error) {
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

	product.MarkDeleted(domain.Now(), ctxutil.Actor(ctx))
	u.Products().Update(product)

	if _, err := u.SaveChanges(ctx); err != nil {
		return mediator.Result[mediator.None]{}, fmt.Errorf("save product: %w", err)
	}

	h.log.InfoContext(ctx, "product deleted",
		slog.String("product_id", req.ID.String()),
		slog.String("sku", product.SKU),
	)
	return mediator.Success(mediator.None{}), nil
}
