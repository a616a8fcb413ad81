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

// DeleteCategory soft-deletes a category. A category that still has live
// products keeps them reachable, so the delete is refused until they are
// moved or deleted.
type DeleteCategory struct {
	mediator.Command

	ID uuid.UUID
}

func (DeleteCategory) RequestName() string { return "catalog.DeleteCategory" }

func validateDeleteCategory(_ context.Context, req DeleteCategory) (mediator.FieldErrors, error) {
	fe := mediator.FieldErrors{}
	if req.ID == uuid.Nil {
		fe.Add("id", "required")
	}
	return fe, nil
}

func (h *Handlers) deleteCategory(ctx context.Context, req DeleteCategory) (mediator.Result[mediator.None], error) {
	u, err := uow(ctx)
	if err != nil {
		return mediator.Result[mediator.None]{}, err
	}

	category, err := u.Categories().GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return mediator.Failure[mediator.None]("category not found"), nil
		}
		return mediator.Result[mediator.None]{}, fmt.Errorf("load category: %w", err)
	}

	inUse, err := u.Products().Count(ctx, squirrel.Eq{"category_id": req.ID})
	if err != nil {
		return mediator.Result[mediator.None]{}, fmt.Errorf("count category products: %w", err)
	}
	if inUse > 0 {
		return mediator.Failure[mediator.None](fmt.Sprintf("category %s still has %d products", category.Name, inUse)), nil
	}

	category.MarkDeleted(domain.Now(), ctxutil.Actor(ctx))
	u.Categories().Update(category)

	if _, err := u.SaveChanges(ctx); err != nil {
		return mediator.Result[mediator.None]{}, fmt.Errorf("save category: %w", err)
	}

	h.log.InfoContext(ctx, "category deleted",
		slog.String("category_id", req.ID.String()),
		slog.String("name", category.Name),
	)
	return mediator.Success(mediator.None{}), nil
}
