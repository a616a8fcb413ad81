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

// UpdateCategory renames a category or replaces its description.
type UpdateCategory struct {
	mediator.Command

	ID          uuid.UUID
	Name        string
	Description *string
}

func (UpdateCategory) RequestName() string { return "catalog.UpdateCategory" }

func validateUpdateCategory(_ context.Context, req UpdateCategory) (mediator.FieldErrors, error) {
	fe := mediator.FieldErrors{}

	if req.ID == uuid.Nil {
		fe.Add("id", "required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		fe.Add("name", "required")
	}
	if len(name) > 100 {
		fe.Add("name", "max 100 characters")
	}
	if req.Description != nil && len(strings.TrimSpace(*req.Description)) > 500 {
		fe.Add("description", "max 500 characters")
	}
	return fe, nil
}

func (h *Handlers) updateCategory(ctx context.Context, req UpdateCategory) (mediator.Result[mediator.None], error) {
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

	name := strings.TrimSpace(req.Name)

	if name != category.Name {
		taken, err := u.Categories().Any(ctx, squirrel.And{
			squirrel.Eq{"name": name},
			squirrel.NotEq{"id": req.ID},
		})
		if err != nil {
			return mediator.Result[mediator.None]{}, fmt.Errorf("check category name: %w", err)
		}
		if taken {
			return mediator.Failure[mediator.None](fmt.Sprintf("category %s already exists", name)), nil
		}
	}

	category.Name = name
	category.Description = trimOrNil(req.Description)
	category.Touch(domain.Now(), ctxutil.Actor(ctx))
	u.Categories().Update(category)

	if _, err := u.SaveChanges(ctx); err != nil {
		return mediator.Result[mediator.None]{}, fmt.Errorf("save category: %w", err)
	}

	h.log.InfoContext(ctx, "category updated",
		slog.String("category_id", req.ID.String()),
		slog.String("name", name),
	)
	return mediator.Success(mediator.None{}), nil
}
