package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/paz-dev-com/catalog-backend/internal/domain"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
	"github.com/paz-dev-com/catalog-backend/internal/service/catalog"
	"github.com/paz-dev-com/catalog-backend/pkg/ctxutil"
)

// CatalogHandler serves the catalog REST endpoints. Every route decodes a
// request DTO, dispatches it through the pipeline and maps the outcome onto
// HTTP status codes.
type CatalogHandler struct {
	d   *mediator.Dispatcher
	log *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(d *mediator.Dispatcher, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{d: d, log: logger.With("handler", "catalog")}
}

// respondError maps infrastructure errors. A lost optimistic-concurrency
// race is the caller's problem and comes back as 409; everything else is
// logged and hidden behind a 500 carrying the request id for correlation.
func (h *CatalogHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrConcurrency) {
		writeError(w, http.StatusConflict, "the record was changed by another request, retry with fresh data")
		return
	}

	h.log.ErrorContext(r.Context(), "request failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:     "internal server error",
		RequestID: ctxutil.RequestIDFromCtx(r.Context()),
	})
}

type idResponse struct {
	ID string `json:"id"`
}

type categoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	RowVersion  int64     `json:"rowVersion"`
}

type productResponse struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	PriceCents  int64     `json:"priceCents"`
	Stock       int       `json:"stock"`
	CategoryID  string    `json:"categoryId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	RowVersion  int64     `json:"rowVersion"`
}

type productRowResponse struct {
	ID           string    `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	PriceCents   int64     `json:"priceCents"`
	Stock        int       `json:"stock"`
	CategoryID   string    `json:"categoryId"`
	CategoryName string    `json:"categoryName"`
	UpdatedAt    time.Time `json:"updatedAt"`
	RowVersion   int64     `json:"rowVersion"`
}

type productPageResponse struct {
	Items           []productRowResponse `json:"items"`
	PageNumber      int                  `json:"pageNumber"`
	PageSize        int                  `json:"pageSize"`
	TotalCount      int64                `json:"totalCount"`
	TotalPages      int                  `json:"totalPages"`
	HasPreviousPage bool                 `json:"hasPreviousPage"`
	HasNextPage     bool                 `json:"hasNextPage"`
}

func toCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		RowVersion:  c.RowVersion,
	}
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID.String(),
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID.String(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		RowVersion:  p.RowVersion,
	}
}

func toProductPageResponse(page mediator.Paginated[catalog.ProductRow]) productPageResponse {
	items := make([]productRowResponse, 0, len(page.Items))
	for _, row := range page.Items {
		items = append(items, productRowResponse{
			ID:           row.ID.String(),
			SKU:          row.SKU,
			Name:         row.Name,
			Description:  row.Description,
			PriceCents:   row.PriceCents,
			Stock:        row.Stock,
			CategoryID:   row.CategoryID.String(),
			CategoryName: row.CategoryName,
			UpdatedAt:    row.UpdatedAt,
			RowVersion:   row.RowVersion,
		})
	}

	return productPageResponse{
		Items:           items,
		PageNumber:      page.PageNumber,
		PageSize:        page.PageSize,
		TotalCount:      page.TotalCount,
		TotalPages:      page.TotalPages(),
		HasPreviousPage: page.HasPreviousPage(),
		HasNextPage:     page.HasNextPage(),
	}
}
