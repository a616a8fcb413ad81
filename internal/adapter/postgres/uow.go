package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/paz-dev-com/catalog-backend/internal/mediator"
)

var (
	// ErrTxAlreadyOpen is returned by Begin when a transaction is open.
	// Transactions do not nest.
	ErrTxAlreadyOpen = errors.New("transaction already open")

	// ErrNoTransaction is returned by Commit and Rollback outside a transaction.
	ErrNoTransaction = errors.New("no open transaction")

	// ErrUnitOfWorkClosed is returned when a closed unit of work is reused.
	ErrUnitOfWorkClosed = errors.New("unit of work is closed")
)

type changeKind int

const (
	changeInsert changeKind = iota
	changeUpdate
	changeDelete
)

// change is one staged write: it queues its statement onto a batch at flush
// time, verifies the command tag, and applies in-memory bookkeeping after a
// successful save.
type change struct {
	kind    changeKind
	entity  string
	id      uuid.UUID
	skipped bool
	queue   func(b *pgx.Batch) error
	verify  func(ct pgconn.CommandTag) error
	applied func()
}

// UnitOfWork is one storage session: a lazy registry of repositories, a stage
// of pending writes, and at most one open transaction. The dispatch pipeline
// creates one per request; commands run inside Begin/Commit, and SaveChanges
// flushes every staged write in a single batch round trip.
//
// Not safe for concurrent use.
type UnitOfWork struct {
	db     DB
	tx     pgx.Tx
	closed bool
	repos  map[string]any
	staged []*change
	index  map[uuid.UUID]*change
}

// NewUnitOfWork returns a unit of work over db. The caller owns its lifetime
// and must Close it when the request is done.
func NewUnitOfWork(db DB) *UnitOfWork {
	return &UnitOfWork{
		db:    db,
		repos: make(map[string]any),
		index: make(map[uuid.UUID]*change),
	}
}

// Querier returns the open transaction if there is one, the pool otherwise.
// Repository reads and ExecuteQuery go through it so that reads inside a
// transaction see its uncommitted writes.
func (u *UnitOfWork) Querier() Querier {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// RepositoryFor returns the unit of work's repository for a mapping, creating
// it on first use. Repeated calls with the same mapping return the same
// instance.
func RepositoryFor[T any](u *UnitOfWork, m Mapping[T]) *Repository[T] {
	if u.repos == nil {
		u.repos = make(map[string]any)
	}
	if r, ok := u.repos[m.Table]; ok {
		return r.(*Repository[T])
	}
	r := &Repository[T]{uow: u, m: m}
	u.repos[m.Table] = r
	return r
}

// ExecuteQuery runs a raw parameterized query through the unit of work's
// querier and scans the rows into a slice of T.
func ExecuteQuery[T any](ctx context.Context, u *UnitOfWork, sql string, args ...any) ([]T, error) {
	var out []T
	if err := pgxscan.Select(ctx, u.Querier(), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	return out, nil
}

// stage records a pending write, collapsing redundant changes to the same
// row: an update of an already-staged row is a no-op (the pending statement
// reads current field values at flush time), and a delete cancels a staged
// insert outright.
func (u *UnitOfWork) stage(c *change) {
	if u.index == nil {
		u.index = make(map[uuid.UUID]*change)
	}
	if prev, ok := u.index[c.id]; ok && !prev.skipped {
		switch {
		case c.kind == changeUpdate:
			return
		case c.kind == changeDelete && prev.kind == changeInsert:
			prev.skipped = true
			delete(u.index, c.id)
			return
		case c.kind == changeDelete && prev.kind == changeDelete:
			return
		case c.kind == changeDelete && prev.kind == changeUpdate:
			prev.skipped = true
		}
	}
	u.staged = append(u.staged, c)
	u.index[c.id] = c
}

// SaveChanges flushes every staged write in staging order as one batch and
// returns the number of affected rows. With no open transaction the batch
// runs in its own short transaction; otherwise it executes inside the open
// one and the caller decides its fate with Commit or Rollback.
//
// A row whose version guard matches nothing makes the whole save fail with
// domain.ErrConcurrency. On success the stage is cleared and in-memory row
// versions advance; a later rollback of the surrounding transaction leaves
// those entities ahead of the store, so callers must reload after rolling
// back a flushed save.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int, error) {
	if u.closed {
		return 0, ErrUnitOfWorkClosed
	}

	pending := 0
	for _, c := range u.staged {
		if !c.skipped {
			pending++
		}
	}
	if pending == 0 {
		u.applyStaged()
		return 0, nil
	}

	if u.tx != nil {
		n, err := u.flush(ctx, u.tx)
		if err != nil {
			return 0, fmt.Errorf("save changes: %w", err)
		}
		u.applyStaged()
		return n, nil
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin save: %w", err)
	}
	n, err := u.flush(ctx, tx)
	if err != nil {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			return 0, fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return 0, fmt.Errorf("save changes: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit save: %w", err)
	}
	u.applyStaged()
	return n, nil
}

// flush queues every pending statement onto one batch, sends it, and checks
// each result in order. The first failure wins; remaining results are drained
// by closing the batch.
func (u *UnitOfWork) flush(ctx context.Context, q Querier) (int, error) {
	batch := &pgx.Batch{}
	queued := make([]*change, 0, len(u.staged))
	for _, c := range u.staged {
		if c.skipped {
			continue
		}
		if err := c.queue(batch); err != nil {
			return 0, err
		}
		queued = append(queued, c)
	}

	br := q.SendBatch(ctx, batch)
	var count int
	var execErr error
	for _, c := range queued {
		ct, err := br.Exec()
		if err != nil {
			execErr = mapError(err, c.entity, c.id)
			break
		}
		if err := c.verify(ct); err != nil {
			execErr = err
			break
		}
		count += int(ct.RowsAffected())
	}
	if closeErr := br.Close(); closeErr != nil && execErr == nil {
		execErr = fmt.Errorf("close batch: %w", closeErr)
	}
	if execErr != nil {
		return 0, execErr
	}
	return count, nil
}

// applyStaged runs post-save bookkeeping and clears the stage.
func (u *UnitOfWork) applyStaged() {
	for _, c := range u.staged {
		if !c.skipped && c.applied != nil {
			c.applied()
		}
	}
	u.staged = nil
	clear(u.index)
}

// Begin opens a transaction. Until Commit or Rollback, every read and save
// goes through it.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.closed {
		return ErrUnitOfWorkClosed
	}
	if u.tx != nil {
		return ErrTxAlreadyOpen
	}
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	u.tx = tx
	return nil
}

// Commit commits the open transaction and returns the unit of work to its
// idle state, successfully or not.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.closed {
		return ErrUnitOfWorkClosed
	}
	if u.tx == nil {
		return ErrNoTransaction
	}
	err := u.tx.Commit(ctx)
	u.tx = nil
	if err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Rollback aborts the open transaction. It runs even when ctx is already
// canceled so that a failed request never leaks an open transaction.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.closed {
		return ErrUnitOfWorkClosed
	}
	if u.tx == nil {
		return ErrNoTransaction
	}
	err := u.tx.Rollback(context.WithoutCancel(ctx))
	u.tx = nil
	if err != nil {
		return fmt.Errorf("rollback tx: %w", err)
	}
	return nil
}

// Close releases the session. An open transaction is rolled back; the pool
// itself stays up, it is owned by the application. Close is idempotent and a
// closed unit of work must not be reused.
func (u *UnitOfWork) Close(ctx context.Context) {
	if u.closed {
		return
	}
	u.closed = true
	if u.tx != nil {
		_ = u.tx.Rollback(context.WithoutCancel(ctx))
		u.tx = nil
	}
	u.staged = nil
	u.index = nil
}

// UnitOfWorkFactory creates one unit of work per dispatched request and
// plants it in the context for handlers to pick up.
type UnitOfWorkFactory struct {
	db DB
}

// NewUnitOfWorkFactory returns a factory over db.
func NewUnitOfWorkFactory(db DB) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db}
}

// New implements mediator.Scope.
func (f *UnitOfWorkFactory) New(ctx context.Context) (context.Context, mediator.UnitOfWork, error) {
	u := NewUnitOfWork(f.db)
	return WithUnitOfWork(ctx, u), u, nil
}

var (
	_ mediator.UnitOfWork = (*UnitOfWork)(nil)
	_ mediator.Scope      = (*UnitOfWorkFactory)(nil)
)
