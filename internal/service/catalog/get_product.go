package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
)

// GetProduct returns one live product by id. Soft-deleted products read as
// missing here; RestoreProduct is the only operation that sees them.
type GetProduct struct {
	mediator.Query

	ID uuid.UUID
}

func (GetProduct) RequestName() string { return "catalog.GetProduct" }

func validateGetProduct(_ context.Context, req GetProduct) (mediator.FieldErrors, error) {
	fe := mediator.FieldErrors{}
	if req.ID == uuid.Nil {
		fe.Add("id", "required")
	}
	return fe, nil
}

func (h *Handlers) getProduct(ctx context.Context, req GetProduct) (mediator.Result[*domain.Product], error) {
	u, err := uow(ctx)
	if err != nil {
		return mediator.Result[*domain.Product]{}, err
	}

	product, err := u.Products().GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return mediator.Failure[*domain.Product]("product not found"), nil
		}
		return mediator.Result[*domain.Product]{}, fmt.Errorf("load product: %w", err)
	}
	return mediator.Success(product), nil
}
