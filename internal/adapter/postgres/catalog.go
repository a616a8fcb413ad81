package postgres

import (
	"github.com/paz-dev-com/catalog-backend/internal/domain"
)

var categoryMapping = MustMapping(Mapping[domain.Category]{
	Table:   "categories",
	Columns: []string{"name", "description"},
	Values: func(c *domain.Category) map[string]any {
		return map[string]any{
			"name":        c.Name,
			"description": c.Description,
		}
	},
	Ref: (*domain.Category).Ref,
})

var productMapping = MustMapping(Mapping[domain.Product]{
	Table:   "products",
	Columns: []string{"sku", "name", "description", "price_cents", "stock", "category_id"},
	Values: func(p *domain.Product) map[string]any {
		return map[string]any{
			"sku":         p.SKU,
			"name":        p.Name,
			"description": p.Description,
			"price_cents": p.PriceCents,
			"stock":       p.Stock,
			"category_id": p.CategoryID,
		}
	},
	Ref: (*domain.Product).Ref,
})

// Categories returns the categories repository for this unit of work.
func (u *UnitOfWork) Categories() *Repository[domain.Category] {
	return RepositoryFor(u, categoryMapping)
}

// Products returns the products repository for this unit of work.
func (u *UnitOfWork) Products() *Repository[domain.Product] {
	return RepositoryFor(u, productMapping)
}
