package rest

import (
	"net/http"

	"github.com/paz-dev-com/catalog-backend/internal/transport/middleware"
)

// Routes assembles the root handler: health probes mounted bare, the
// versioned catalog API behind the middleware chain.
func Routes(h *CatalogHandler, health *HealthHandler, chain middleware.Middleware) http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("POST /api/v1/categories", h.CreateCategory)
	api.HandleFunc("GET /api/v1/categories", h.ListCategories)
	api.HandleFunc("GET /api/v1/categories/{id}", h.GetCategory)
	api.HandleFunc("PUT /api/v1/categories/{id}", h.UpdateCategory)
	api.HandleFunc("DELETE /api/v1/categories/{id}", h.DeleteCategory)
	api.HandleFunc("POST /api/v1/categories/{id}/discount", h.ApplyDiscount)

	api.HandleFunc("POST /api/v1/products", h.CreateProduct)
	api.HandleFunc("GET /api/v1/products", h.ListProducts)
	api.HandleFunc("GET /api/v1/products/{id}", h.GetProduct)
	api.HandleFunc("PUT /api/v1/products/{id}", h.UpdateProduct)
	api.HandleFunc("DELETE /api/v1/products/{id}", h.DeleteProduct)
	api.HandleFunc("POST /api/v1/products/{id}/restore", h.RestoreProduct)

	root := http.NewServeMux()
	root.HandleFunc("GET /live", health.Live)
	root.HandleFunc("GET /ready", health.Ready)
	root.HandleFunc("GET /health", health.Health)
	root.Handle("/api/v1/", chain(api))

	return root
}
