package mediator

import (
	"context"
	"fmt"
)

// UnitOfWork is the transactional session the pipeline drives. The storage
// adapter implements it; handlers reach the concrete session through the
// context the Scope returned.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	// Close disposes the session: a no-op when idle, an implicit rollback
	// when a transaction was left open.
	Close(ctx context.Context)
}

// Scope opens one UnitOfWork per dispatch and injects it into the returned
// context so the handler and the transaction stage share the same session.
type Scope interface {
	New(ctx context.Context) (context.Context, UnitOfWork, error)
}

// newTransactionBehavior gives every dispatch its own UnitOfWork and disposes
// it afterward. Queries never reach the begin branch. For commands it opens a
// transaction around the handler, commits on a normal return (a Result
// carrying a domain failure still commits; pre-checked failures wrote
// nothing), and on error or panic rolls back and re-raises unchanged.
func newTransactionBehavior[T any](scope Scope, command bool) Behavior[T] {
	return func(next Pipeline[T]) Pipeline[T] {
		return func(ctx context.Context, req Request) (res Result[T], err error) {
			uowCtx, uow, err := scope.New(ctx)
			if err != nil {
				return Result[T]{}, fmt.Errorf("open unit of work: %w", err)
			}
			defer uow.Close(uowCtx)

			if !command {
				return next(uowCtx, req)
			}

			if err := uow.Begin(uowCtx); err != nil {
				return Result[T]{}, fmt.Errorf("begin %s: %w", req.RequestName(), err)
			}

			defer func() {
				if r := recover(); r != nil {
					_ = uow.Rollback(uowCtx)
					panic(r)
				}
			}()

			res, err = next(uowCtx, req)
			if err != nil {
				if rbErr := uow.Rollback(uowCtx); rbErr != nil {
					return res, fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
				}
				return res, err
			}

			if err := uow.Commit(uowCtx); err != nil {
				return res, fmt.Errorf("commit %s: %w", req.RequestName(), err)
			}
			return res, nil
		}
	}
}
