package postgres

import (
	"fmt"
	"slices"

	"github.com/Masterminds/squirrel"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
)

// builder is the shared squirrel builder with PostgreSQL placeholders.
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// entityColumns are the audit/version columns every mapped table carries,
// in the same order as the fields of domain.Entity.
var entityColumns = []string{
	"id",
	"created_at",
	"created_by",
	"updated_at",
	"updated_by",
	"is_deleted",
	"deleted_at",
	"deleted_by",
	"row_version",
}

// Mapping describes how one domain type is stored: its table, its columns
// beyond the shared entity block, and how to read values out of an instance.
type Mapping[T any] struct {
	// Table is the table name. It also keys the repository registry.
	Table string

	// Columns lists the type's own columns, excluding the entity block.
	Columns []string

	// Values returns column→value for exactly the columns in Columns.
	Values func(*T) map[string]any

	// Ref returns the embedded entity block of an instance.
	Ref func(*T) *domain.Entity
}

// MustMapping validates a mapping at startup and panics on misconfiguration.
func MustMapping[T any](m Mapping[T]) Mapping[T] {
	if m.Table == "" {
		panic("postgres: mapping without table name")
	}
	if len(m.Columns) == 0 {
		panic(fmt.Sprintf("postgres: mapping %q without columns", m.Table))
	}
	if m.Values == nil || m.Ref == nil {
		panic(fmt.Sprintf("postgres: mapping %q missing accessors", m.Table))
	}
	for _, c := range m.Columns {
		if slices.Contains(entityColumns, c) {
			panic(fmt.Sprintf("postgres: mapping %q redeclares entity column %q", m.Table, c))
		}
	}
	return m
}

// allColumns returns the full select list: entity block first, then the
// type's own columns.
func (m Mapping[T]) allColumns() []string {
	cols := make([]string, 0, len(entityColumns)+len(m.Columns))
	cols = append(cols, entityColumns...)
	cols = append(cols, m.Columns...)
	return cols
}

// notDeleted combines a caller predicate with the soft-delete filter.
// A nil predicate selects all live rows.
func notDeleted(pred squirrel.Sqlizer) squirrel.Sqlizer {
	live := squirrel.Eq{"is_deleted": false}
	if pred == nil {
		return live
	}
	return squirrel.And{pred, live}
}
