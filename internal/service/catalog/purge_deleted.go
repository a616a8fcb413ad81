package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
)

// PurgeDeletedProducts hard-deletes products that were soft-deleted before
// the cutoff. A zero Before falls back to the configured retention window.
// Returns the number of rows removed. The cleanup binary dispatches this on
// a schedule; it is the only path that physically deletes catalog rows.
type PurgeDeletedProducts struct {
	mediator.Command

	Before time.Time
}

func (PurgeDeletedProducts) RequestName() string { return "catalog.PurgeDeletedProducts" }

func (h *Handlers) purgeDeletedProducts(ctx context.Context, req PurgeDeletedProducts) (mediator.Result[int], error) {
	u, err := uow(ctx)
	if err != nil {
		return mediator.Result[int]{}, err
	}

	cutoff := req.Before
	if cutoff.IsZero() {
		cutoff = domain.Now().AddDate(0, 0, -h.cfg.HardDeleteRetentionDays)
	}

	expired, err := u.Products().FindIncludeDeleted(ctx, squirrel.And{
		squirrel.Eq{"is_deleted": true},
		squirrel.Lt{"deleted_at": cutoff},
	})
	if err != nil {
		return mediator.Result[int]{}, fmt.Errorf("load expired products: %w", err)
	}
	u.Products().RemoveRange(expired)

	purged, err := u.SaveChanges(ctx)
	if err != nil {
		return mediator.Result[int]{}, fmt.Errorf("purge products: %w", err)
	}

	h.log.InfoContext(ctx, "deleted products purged",
		slog.Time("cutoff", cutoff),
		slog.Int("products", purged),
	)
	return mediator.Success(purged), nil
}
