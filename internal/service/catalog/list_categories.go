package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
)

// ListCategories returns all live categories ordered by name. Search, when
// set, narrows to names containing the term (case-insensitive).
type ListCategories struct {
	mediator.Query

	Search string
}

func (ListCategories) RequestName() string { return "catalog.ListCategories" }

func (h *Handlers) listCategories(ctx context.Context, req ListCategories) (mediator.Result[[]*domain.Category], error) {
	u, err := uow(ctx)
	if err != nil {
		return mediator.Result[[]*domain.Category]{}, err
	}

	var pred squirrel.Sqlizer
	if search := strings.TrimSpace(req.Search); search != "" {
		pred = squirrel.ILike{"name": "%" + search + "%"}
	}

	categories, err := u.Categories().Find(ctx, pred, "name")
	if err != nil {
		return mediator.Result[[]*domain.Category]{}, fmt.Errorf("list categories: %w", err)
	}
	return mediator.Success(categories), nil
}
