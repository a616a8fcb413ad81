// Package catalog implements the product catalog operations: category and
// product lifecycle commands plus the read-side queries. Each operation is a
// request type with a validator and a handler, registered on the dispatcher;
// handlers reach storage through the unit of work the pipeline planted in the
// context.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/paz-dev-com/catalog-backend/internal/adapter/postgres"
	"github.com/paz-dev-com/catalog-backend/internal/config"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
)

// Handlers bundles the catalog operation handlers. State is limited to
// configuration and logging: per-request storage access comes from the
// context, so one Handlers value serves every dispatch.
type Handlers struct {
	log *slog.Logger
	cfg config.CatalogConfig
}

// NewHandlers creates the catalog handlers.
func NewHandlers(log *slog.Logger, cfg config.CatalogConfig) *Handlers {
	return &Handlers{
		log: log.With("service", "catalog"),
		cfg: cfg,
	}
}

// Register wires every catalog operation into the dispatcher. Call once
// during startup.
func (h *Handlers) Register(d *mediator.Dispatcher) {
	mediator.RegisterCommand(d, h.createCategory, validateCreateCategory)
	mediator.RegisterCommand(d, h.updateCategory, validateUpdateCategory)
	mediator.RegisterCommand(d, h.deleteCategory, validateDeleteCategory)

	mediator.RegisterCommand(d, h.createProduct, validateCreateProduct)
	mediator.RegisterCommand(d, h.updateProduct, validateUpdateProduct)
	mediator.RegisterCommand(d, h.deleteProduct, validateDeleteProduct)
	mediator.RegisterCommand(d, h.restoreProduct, validateRestoreProduct)
	mediator.RegisterCommand(d, h.applyCategoryDiscount, validateApplyCategoryDiscount)
	mediator.RegisterCommand(d, h.purgeDeletedProducts)

	mediator.RegisterQuery(d, h.getCategory, validateGetCategory)
	mediator.RegisterQuery(d, h.getProduct, validateGetProduct)
	mediator.RegisterQuery(d, h.listCategories)
	mediator.RegisterQuery(d, h.listProducts, validateListProducts)
}

// uow returns the unit of work the pipeline planted in the context. A missing
// unit of work means the handler ran outside the dispatcher, which is a
// wiring fault, not a request problem.
func uow(ctx context.Context) (*postgres.UnitOfWork, error) {
	u, ok := postgres.UnitOfWorkFromCtx(ctx)
	if !ok {
		return nil, fmt.Errorf("catalog: no unit of work in context")
	}
	return u, nil
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
