package rest

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
	"github.com/paz-dev-com/catalog-backend/internal/service/catalog"
)

type createCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type updateCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type discountRequest struct {
	Percent int `json:"percent"`
}

type repricedResponse struct {
	Repriced int `json:"repriced"`
}

// CreateCategory handles POST /api/v1/categories.
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := mediator.Send[uuid.UUID](r.Context(), h.d, catalog.CreateCategory{
		Name:        req.Name,
		Description: req.Description,
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

// ListCategories handles GET /api/v1/categories?search=.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	res, err := mediator.Send[[]*domain.Category](r.Context(), h.d, catalog.ListCategories{
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if !res.IsSuccess() {
		writeFailure(w, res.Error(), res.Errors())
		return
	}

	categories := make([]categoryResponse, 0, len(res.Data()))
	for _, c := range res.Data() {
		categories = append(categories, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, categories)
}

// GetCategory handles GET /api/v1/categories/{id}.
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := mediator.Send[*domain.Category](r.Context(), h.d, catalog.GetCategory{ID: id})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if !res.IsSuccess() {
		writeFailure(w, res.Error(), res.Errors())
		return
	}

	writeJSON(w, http.StatusOK, toCategoryResponse(res.Data()))
}

// UpdateCategory handles PUT /api/v1/categories/{id}.
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := mediator.Send[mediator.None](r.Context(), h.d, catalog.UpdateCategory{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
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

// DeleteCategory handles DELETE /api/v1/categories/{id}.
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := mediator.Send[mediator.None](r.Context(), h.d, catalog.DeleteCategory{ID: id})
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

// ApplyDiscount handles POST /api/v1/categories/{id}/discount.
func (h *CatalogHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req discountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := mediator.Send[int](r.Context(), h.d, catalog.ApplyCategoryDiscount{
		CategoryID: id,
		Percent:    req.Percent,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if !res.IsSuccess() {
		writeFailure(w, res.Error(), res.Errors())
		return
	}

	writeJSON(w, http.StatusOK, repricedResponse{Repriced: res.Data()})
}
