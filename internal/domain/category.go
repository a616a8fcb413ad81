package domain

import (
	"github.com/google/uuid"
)

// Category groups products. Name is a natural key: unique among live rows.
type Category struct {
	Entity

	Name        string  `db:"name"`
	Description *string `db:"description"`
}

// NewCategory creates a category with a fresh ID and stamped audit fields.
func NewCategory(name string, description *string, actor string) *Category {
	c := &Category{
		Name:        name,
		Description: description,
	}
	c.ID = uuid.New()
	c.Stamp(Now(), actor)
	return c
}
