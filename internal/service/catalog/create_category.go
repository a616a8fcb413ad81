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

// CreateCategory adds a category. Name must be unique among live categories.
type CreateCategory struct {
	mediator.Command

	Name        string
	Description *string
}

func (CreateCategory) RequestName() string { return "catalog.CreateCategory" }

func validateCreateCategory(_ context.Context, req CreateCategory) (mediator.FieldErrors, error) {
	fe := mediator.FieldErrors{}

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

func (h *Handlers) createCategory(ctx context.Context, req CreateCategory) (mediator.Result[uuid.UUID], error) {
	u, err := uow(ctx)
	if err != nil {
		return mediator.Result[uuid.UUID]{}, err
	}

	name := strings.TrimSpace(req.Name)

	taken, err := u.Categories().Any(ctx, squirrel.Eq{"name": name})
	if err != nil {
		return mediator.Result[uuid.UUID]{}, fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return mediator.Failure[uuid.UUID](fmt.Sprintf("category %s already exists", name)), nil
	}

	category := domain.NewCategory(name, trimOrNil(req.Description), ctxutil.Actor(ctx))
	u.Categories().Add(category)

	if _, err := u.SaveChanges(ctx); err != nil {
		return mediator.Result[uuid.UUID]{}, fmt.Errorf("save category: %w", err)
	}

	h.log.InfoContext(ctx, "category created",
		slog.String("category_id", category.ID.String()),
		slog.String("name", name),
	)
	return mediator.Success(category.ID), nil
}
