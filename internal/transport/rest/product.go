package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
	"github.com/paz-dev-com/catalog-backend/internal/service/catalog"
)

type createProductRequest struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PriceCents  int64   `json:"priceCents"`
	Stock       int     `json:"stock"`
	CategoryID  string  `json:"categoryId"`
}

type updateProductRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PriceCents  int64   `json:"priceCents"`
	Stock       int     `json:"stock"`
	CategoryID  string  `json:"categoryId"`
	RowVersion  int64   `json:"rowVersion"`
}

// CreateProduct handles POST /api/v1/products.
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	categoryID, err := parseOptionalID(req.CategoryID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid categoryId")
		return
	}

	res, err := mediator.Send[uuid.UUID](r.Context(), h.d, catalog.CreateProduct{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		CategoryID:  categoryID,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if !res.IsSuccess() {
		writeFailure(w, res.Error(), res.Errors())
		return
	}

	writeJSON(w, http.StatusCreated, idResponse{ID: res.Data().String()})
}

// ListProducts handles GET /api/v1/products?page=&pageSize=&search=&categoryId=.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid page")
		return
	}
	pageSize, err := queryInt(r, "pageSize")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid pageSize")
		return
	}
	categoryID, err := parseOptionalID(r.URL.Query().Get("categoryId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid categoryId")
		return
	}

	res, err := mediator.Send[mediator.Paginated[catalog.ProductRow]](r.Context(), h.d, catalog.ListProducts{
		Page:       page,
		PageSize:   pageSize,
		Search:     r.URL.Query().Get("search"),
		CategoryID: categoryID,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if !res.IsSuccess() {
		writeFailure(w, res.Error(), res.Errors())
		return
	}

	writeJSON(w, http.StatusOK, toProductPageResponse(res.Data()))
}

// GetProduct handles GET /api/v1/products/{id}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := mediator.Send[*domain.Product](r.Context(), h.d, catalog.GetProduct{ID: id})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if !res.IsSuccess() {
		writeFailure(w, res.Error(), res.Errors())
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(res.Data()))
}

// UpdateProduct handles PUT /api/v1/products/{id}.
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	categoryID, err := parseOptionalID(req.CategoryID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid categoryId")
		return
	}

	res, err := mediator.Send[mediator.None](r.Context(), h.d, catalog.UpdateProduct{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		CategoryID:  categoryID,
		RowVersion:  req.RowVersion,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if !res.IsSuccess() {
		writeFailure(w, res.Error(), res.Errors())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteProduct handles DELETE /api/v1/products/{id}. The product is
// soft-deleted and can be brought back with RestoreProduct.
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := mediator.Send[mediator.None](r.Context(), h.d, catalog.DeleteProduct{ID: id})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if !res.IsSuccess() {
		writeFailure(w, res.Error(), res.Errors())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RestoreProduct handles POST /api/v1/products/{id}/restore.
func (h *CatalogHandler) RestoreProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := mediator.Send[mediator.None](r.Context(), h.d, catalog.RestoreProduct{ID: id})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if !res.IsSuccess() {
		writeFailure(w, res.Error(), res.Errors())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func parseOptionalID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}
