package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
	"github.com/paz-dev-com/catalog-backend/pkg/ctxutil"
)

// ApplyCategoryDiscount cuts the price of every live product in a category
// by a percentage. All rows change in one transaction or none do. Returns
// the number of products repriced.
type ApplyCategoryDiscount struct {
	mediator.Command

	CategoryID uuid.UUID
	Percent    int
}

func (ApplyCategoryDiscount) RequestName() string { return "catalog.ApplyCategoryDiscount" }

func validateApplyCategoryDiscount(_ context.Context, req ApplyCategoryDiscount) (mediator.FieldErrors, error) {
	fe := mediator.FieldErrors{}
	if req.CategoryID == uuid.Nil {
		fe.Add("category_id", "required")
	}
	if req.Percent < 1 || req.Percent > 99 {
		fe.Add("percent", "must be between 1 and 99")
	}
	return fe, nil
}

func (h *Handlers) applyCategoryDiscount(ctx context.Context, req ApplyCategoryDiscount) (mediator.Result[int], error) {
	u, err := uow(ctx)
	if err != nil {
		return mediator.Result[int]{}, err
	}

	exists, err := u.Categories().Any(ctx, squirrel.Eq{"id": req.CategoryID})
	if err != nil {
		return mediator.Result[int]{}, fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return mediator.Failure[int]("category not found"), nil
	}

	products, err := u.Products().Find(ctx, squirrel.Eq{"category_id": req.CategoryID})
	if err != nil {
		return mediator.Result[int]{}, fmt.Errorf("load category products: %w", err)
	}

	now := domain.Now()
	actor := ctxutil.Actor(ctx)
	for _, p := range products {
		p.PriceCents = p.PriceCents * int64(100-req.Percent) / 100
		p.Touch(now, actor)
	}
	u.Products().UpdateRange(products)

	repriced, err := u.SaveChanges(ctx)
	if err != nil {
		return mediator.Result[int]{}, fmt.Errorf("save products: %w", err)
	}

	h.log.InfoContext(ctx, "category discount applied",
		slog.String("category_id", req.CategoryID.String()),
		slog.Int("percent", req.Percent),
		slog.Int("products", repriced),
	)
	return mediator.Success(repriced), nil
}
