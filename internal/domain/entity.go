package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity carries the audit, soft-delete and concurrency columns shared by
// every persisted type. Embed it as the first field of a domain struct.
type Entity struct {
	ID         uuid.UUID  `db:"id"`
	CreatedAt  time.Time  `db:"created_at"`
	CreatedBy  string     `db:"created_by"`
	UpdatedAt  time.Time  `db:"updated_at"`
	UpdatedBy  string     `db:"updated_by"`
	IsDeleted  bool       `db:"is_deleted"`
	DeletedAt  *time.Time `db:"deleted_at"`
	DeletedBy  *string    `db:"deleted_by"`
	RowVersion int64      `db:"row_version"`
}

// Ref returns the embedded Entity. Generic storage code uses it to reach the
// shared columns of any persisted type without reflection.
func (e *Entity) Ref() *Entity { return e }

// Stamp initializes the audit fields of a freshly created entity.
// The ID must already be set by the constructor.
func (e *Entity) Stamp(now time.Time, actor string) {
	e.CreatedAt = now
	e.CreatedBy = actor
	e.UpdatedAt = now
	e.UpdatedBy = actor
}

// Touch records a mutation. Call it before staging an update.
func (e *Entity) Touch(now time.Time, actor string) {
	e.UpdatedAt = now
	e.UpdatedBy = actor
}

// MarkDeleted soft-deletes the entity: IsDeleted, DeletedAt and DeletedBy are
// set together so the soft-delete triple can never be half-populated.
func (e *Entity) MarkDeleted(now time.Time, actor string) {
	e.IsDeleted = true
	e.DeletedAt = &now
	e.DeletedBy = &actor
	e.Touch(now, actor)
}

// Restore clears the soft-delete triple and records the mutation.
func (e *Entity) Restore(now time.Time, actor string) {
	e.IsDeleted = false
	e.DeletedAt = nil
	e.DeletedBy = nil
	e.Touch(now, actor)
}

// Now returns the timestamp used for audit fields: UTC, truncated to
// microseconds to match the precision of a Postgres timestamptz.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
