package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
)

// GetCategory returns one live category by id.
type GetCategory struct {
	mediator.Query

	ID uuid.UUID
}

func (GetCategory) RequestName() string { return "catalog.GetCategory" }

func validateGetCategory(_ context.Context, req GetCategory) (mediator.FieldErrors, error) {
	fe := mediator.FieldErrors{}
	if req.ID == uuid.Nil {
		fe.Add("id", "required")
	}
	return fe, nil
}

func (h *Handlers) getCategory(ctx context.Context, req GetCategory) (mediator.Result[*domain.Category], error) {
	u, err := uow(ctx)
	if err != nil {
		return mediator.Result[*domain.Category]{}, err
	}

	category, err := u.Categories().GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return mediator.Failure[*domain.Category]("category not found"), nil
		}
		return mediator.Result[*domain.Category]{}, fmt.Errorf("load category: %w", err)
	}
	return mediator.Success(category), nil
}
