package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the common interface implemented by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// DB is the session source a UnitOfWork drives: *pgxpool.Pool in production,
// a pgxmock pool in tests.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// unexported context key type for storing the per-request unit of work
type uowCtxKey struct{}

// WithUnitOfWork puts a unit of work into the context. The dispatch pipeline
// calls it once per request; handlers read it back with UnitOfWorkFromCtx.
func WithUnitOfWork(ctx context.Context, u *UnitOfWork) context.Context {
	return context.WithValue(ctx, uowCtxKey{}, u)
}

// UnitOfWorkFromCtx returns the unit of work scoped to this request, if any.
func UnitOfWorkFromCtx(ctx context.Context) (*UnitOfWork, bool) {
	u, ok := ctx.Value(uowCtxKey{}).(*UnitOfWork)
	return u, ok
}
