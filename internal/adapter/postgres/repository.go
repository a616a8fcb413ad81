package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
)

// insertRowVersion is the version a row carries right after insert.
const insertRowVersion int64 = 1

// Repository reads and stages writes for one mapped type. Reads filter out
// soft-deleted rows unless the IncludeDeleted variant is used; writes are
// staged on the owning unit of work and flushed by SaveChanges.
//
// Instances are obtained from a UnitOfWork and share its lifetime. They are
// not safe for concurrent use, same as the unit of work itself.
type Repository[T any] struct {
	uow *UnitOfWork
	m   Mapping[T]
}

// GetByID returns the live entity with the given id.
// Returns domain.ErrNotFound for missing and soft-deleted rows alike.
func (r *Repository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.get(ctx, id, false)
}

// GetByIDIncludeDeleted returns the entity with the given id even if it is
// soft-deleted.
func (r *Repository[T]) GetByIDIncludeDeleted(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.get(ctx, id, true)
}

func (r *Repository[T]) get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*T, error) {
	pred := squirrel.Sqlizer(squirrel.Eq{"id": id})
	if !includeDeleted {
		pred = notDeleted(pred)
	}

	sql, args, err := builder.
		Select(r.m.allColumns()...).
		From(r.m.Table).
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", r.m.Table, err)
	}

	var out T
	if err := pgxscan.Get(ctx, r.uow.Querier(), &out, sql, args...); err != nil {
		return nil, mapError(err, r.m.Table, id)
	}
	return &out, nil
}

// Find returns all live entities matching the predicate. A nil predicate
// matches everything. Results are ordered by created_at then id unless
// orderBy clauses are given.
func (r *Repository[T]) Find(ctx context.Context, pred squirrel.Sqlizer, orderBy ...string) ([]*T, error) {
	return r.find(ctx, notDeleted(pred), orderBy)
}

// FindIncludeDeleted is Find without the soft-delete filter.
func (r *Repository[T]) FindIncludeDeleted(ctx context.Context, pred squirrel.Sqlizer, orderBy ...string) ([]*T, error) {
	return r.find(ctx, pred, orderBy)
}

func (r *Repository[T]) find(ctx context.Context, pred squirrel.Sqlizer, orderBy []string) ([]*T, error) {
	qb := builder.
		Select(r.m.allColumns()...).
		From(r.m.Table)
	if pred != nil {
		qb = qb.Where(pred)
	}
	if len(orderBy) == 0 {
		orderBy = []string{"created_at", "id"}
	}
	qb = qb.OrderBy(orderBy...)

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", r.m.Table, err)
	}

	var out []*T
	if err := pgxscan.Select(ctx, r.uow.Querier(), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("%s: find: %w", r.m.Table, err)
	}
	return out, nil
}

// Any reports whether at least one live entity matches the predicate.
func (r *Repository[T]) Any(ctx context.Context, pred squirrel.Sqlizer) (bool, error) {
	sub, args, err := builder.
		Select("1").
		From(r.m.Table).
		Where(notDeleted(pred)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: build query: %w", r.m.Table, err)
	}

	var exists bool
	row := r.uow.Querier().QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: exists: %w", r.m.Table, err)
	}
	return exists, nil
}

// Count returns the number of live entities matching the predicate.
func (r *Repository[T]) Count(ctx context.Context, pred squirrel.Sqlizer) (int64, error) {
	sql, args, err := builder.
		Select("COUNT(*)").
		From(r.m.Table).
		Where(notDeleted(pred)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: build query: %w", r.m.Table, err)
	}

	var count int64
	if err := r.uow.Querier().QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: count: %w", r.m.Table, err)
	}
	return count, nil
}

// Add stages an insert. Nothing is written until SaveChanges.
func (r *Repository[T]) Add(e *T) {
	ent := r.m.Ref(e)
	r.uow.stage(&change{
		kind:   changeInsert,
		entity: r.m.Table,
		id:     ent.ID,
		queue: func(b *pgx.Batch) error {
			vals := r.m.Values(e)
			row := make([]any, 0, len(entityColumns)+len(r.m.Columns))
			row = append(row,
				ent.ID,
				ent.CreatedAt, ent.CreatedBy,
				ent.UpdatedAt, ent.UpdatedBy,
				ent.IsDeleted, ent.DeletedAt, ent.DeletedBy,
				insertRowVersion,
			)
			for _, c := range r.m.Columns {
				v, ok := vals[c]
				if !ok {
					return fmt.Errorf("%s: mapping returned no value for column %q", r.m.Table, c)
				}
				row = append(row, v)
			}

			sql, args, err := builder.
				Insert(r.m.Table).
				Columns(r.m.allColumns()...).
				Values(row...).
				ToSql()
			if err != nil {
				return fmt.Errorf("%s: build insert: %w", r.m.Table, err)
			}
			b.Queue(sql, args...)
			return nil
		},
		verify: func(ct pgconn.CommandTag) error {
			if n := ct.RowsAffected(); n != 1 {
				return fmt.Errorf("insert %s %s: affected %d rows", r.m.Table, ent.ID, n)
			}
			return nil
		},
		applied: func() {
			ent.RowVersion = insertRowVersion
		},
	})
}

// AddRange stages an insert for every entity in order.
func (r *Repository[T]) AddRange(es []*T) {
	for _, e := range es {
		r.Add(e)
	}
}

// Update stages an update of every mapped column, guarded by the row version
// the entity carried when it was staged. A concurrent change of the same row
// surfaces as domain.ErrConcurrency from SaveChanges.
func (r *Repository[T]) Update(e *T) {
	ent := r.m.Ref(e)
	expected := ent.RowVersion
	r.uow.stage(&change{
		kind:   changeUpdate,
		entity: r.m.Table,
		id:     ent.ID,
		queue: func(b *pgx.Batch) error {
			vals := r.m.Values(e)
			set := map[string]any{
				"updated_at":  ent.UpdatedAt,
				"updated_by":  ent.UpdatedBy,
				"is_deleted":  ent.IsDeleted,
				"deleted_at":  ent.DeletedAt,
				"deleted_by":  ent.DeletedBy,
				"row_version": expected + 1,
			}
			for _, c := range r.m.Columns {
				v, ok := vals[c]
				if !ok {
					return fmt.Errorf("%s: mapping returned no value for column %q", r.m.Table, c)
				}
				set[c] = v
			}

			sql, args, err := builder.
				Update(r.m.Table).
				SetMap(set).
				Where(squirrel.Eq{"id": ent.ID, "row_version": expected}).
				ToSql()
			if err != nil {
				return fmt.Errorf("%s: build update: %w", r.m.Table, err)
			}
			b.Queue(sql, args...)
			return nil
		},
		verify: func(ct pgconn.CommandTag) error {
			if ct.RowsAffected() == 0 {
				return fmt.Errorf("update %s %s: %w", r.m.Table, ent.ID, domain.ErrConcurrency)
			}
			return nil
		},
		applied: func() {
			ent.RowVersion = expected + 1
		},
	})
}

// UpdateRange stages an update for every entity in order.
func (r *Repository[T]) UpdateRange(es []*T) {
	for _, e := range es {
		r.Update(e)
	}
}

// Remove stages a hard delete, guarded by the current row version. Removing
// an entity whose insert is still staged cancels the insert instead.
func (r *Repository[T]) Remove(e *T) {
	ent := r.m.Ref(e)
	expected := ent.RowVersion
	r.uow.stage(&change{
		kind:   changeDelete,
		entity: r.m.Table,
		id:     ent.ID,
		queue: func(b *pgx.Batch) error {
			sql, args, err := builder.
				Delete(r.m.Table).
				Where(squirrel.Eq{"id": ent.ID, "row_version": expected}).
				ToSql()
			if err != nil {
				return fmt.Errorf("%s: build delete: %w", r.m.Table, err)
			}
			b.Queue(sql, args...)
			return nil
		},
		verify: func(ct pgconn.CommandTag) error {
			if ct.RowsAffected() == 0 {
				return fmt.Errorf("delete %s %s: %w", r.m.Table, ent.ID, domain.ErrConcurrency)
			}
			return nil
		},
	})
}

// RemoveRange stages a delete for every entity in order.
func (r *Repository[T]) RemoveRange(es []*T) {
	for _, e := range es {
		r.Remove(e)
	}
}
