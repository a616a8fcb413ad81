package domain

import (
	"github.com/google/uuid"
)

// Product is a sellable catalog item. SKU is a natural key: unique among
// live rows. Prices are stored in cents to keep arithmetic exact.
type Product struct {
	Entity

	SKU         string    `db:"sku"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	PriceCents  int64     `db:"price_cents"`
	Stock       int       `db:"stock"`
	CategoryID  uuid.UUID `db:"category_id"`
}

// NewProduct creates a product with a fresh ID and stamped audit fields.
func NewProduct(sku, name string, description *string, priceCents int64, stock int, categoryID uuid.UUID, actor string) *Product {
	p := &Product{
		SKU:         sku,
		Name:        name,
		Description: description,
		PriceCents:  priceCents,
		Stock:       stock,
		CategoryID:  categoryID,
	}
	p.ID = uuid.New()
	p.Stamp(Now(), actor)
	return p
}
