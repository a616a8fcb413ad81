package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
)

// PostgreSQL error codes the adapter translates.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// mapError translates driver errors into domain sentinels, tagged with the
// table and row they concern. Context cancellation and deadline errors pass
// through untranslated so callers can tell a timeout from a missing row.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	wrap := func(cause error) error {
		return fmt.Errorf("%s %s: %w", entity, id, cause)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return wrap(err)
	}
	if errors.Is(err, pgx.ErrNoRows) || pgxscan.NotFound(err) {
		return wrap(domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return wrap(domain.ErrAlreadyExists)
		case codeForeignKeyViolation:
			// The row pointed at is what's missing.
			return wrap(domain.ErrNotFound)
		case codeCheckViolation:
			return wrap(domain.ErrValidation)
		}
	}

	return wrap(err)
}
