package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paz-dev-com/catalog-backend/internal/adapter/postgres"
	"github.com/paz-dev-com/catalog-backend/internal/config"
	"github.com/paz-dev-com/catalog-backend/internal/domain"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
	"github.com/paz-dev-com/catalog-backend/internal/service/catalog"
	"github.com/paz-dev-com/catalog-backend/internal/transport/middleware"
)

var categoryColumns = []string{
	"id", "created_at", "created_by", "updated_at", "updated_by",
	"is_deleted", "deleted_at", "deleted_by", "row_version",
	"name", "description",
}

var productColumns = []string{
	"id", "created_at", "created_by", "updated_at", "updated_by",
	"is_deleted", "deleted_at", "deleted_by", "row_version",
	"sku", "name", "description", "price_cents", "stock", "category_id",
}

// newTestServer mounts the real routes, pipeline and handlers onto a mock
// pool. Command success paths flush through a batch the mock cannot serve;
// those are covered by the e2e tests. What is covered here is the HTTP
// mapping: decoding, status codes and error bodies.
func newTestServer(t *testing.T) (http.Handler, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	d := mediator.NewDispatcher(log, postgres.NewUnitOfWorkFactory(mock), time.Hour)
	catalog.NewHandlers(log, config.CatalogConfig{
		DefaultPageSize:         20,
		MaxPageSize:             100,
		HardDeleteRetentionDays: 30,
	}).Register(d)

	handler := NewCatalogHandler(d, log)
	health := NewHealthHandler(mock, "test-version")
	return Routes(handler, health, middleware.Chain(middleware.RequestID())), mock
}

func doJSON(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func categoryRow(c *domain.Category) *pgxmock.Rows {
	return pgxmock.NewRows(categoryColumns).AddRow(
		c.ID, c.CreatedAt, c.CreatedBy, c.UpdatedAt, c.UpdatedBy,
		c.IsDeleted, c.DeletedAt, c.DeletedBy, c.RowVersion,
		c.Name, c.Description,
	)
}

func TestFailureStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		message string
		want    int
	}{
		{"category not found", http.StatusNotFound},
		{"product not found", http.StatusNotFound},
		{"product with SKU SKU-1 already exists", http.StatusConflict},
		{"category Electronics already exists", http.StatusConflict},
		{"category Electronics still has 3 products", http.StatusBadRequest},
		{"product is not deleted", http.StatusBadRequest},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, failureStatus(tc.message), tc.message)
	}
}

func TestCreateCategory_InvalidBody(t *testing.T) {
	t.Parallel()

	srv, mock := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/categories", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decodeError(t, rec).Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategory_ValidationFieldMap(t *testing.T) {
	t.Parallel()

	srv, mock := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/categories", `{"name":"   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "validation failed", resp.Error)
	assert.NotEmpty(t, resp.Fields["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategory_DuplicateName_Conflict(t *testing.T) {
	t.Parallel()

	srv, mock := newTestServer(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM categories WHERE \(name = \$1 AND is_deleted = \$2\)\)`).
		WithArgs("Electronics", false).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectCommit()

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/categories", `{"name":"Electronics"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "category Electronics already exists", decodeError(t, rec).Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCategory_OK(t *testing.T) {
	t.Parallel()

	srv, mock := newTestServer(t)

	c := domain.NewCategory("Electronics", nil, "tester")
	c.RowVersion = 1
	mock.ExpectQuery(`SELECT .+ FROM categories WHERE \(id = \$1 AND is_deleted = \$2\)`).
		WithArgs(c.ID, false).
		WillReturnRows(categoryRow(c))

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/categories/"+c.ID.String(), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp categoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, c.ID.String(), resp.ID)
	assert.Equal(t, "Electronics", resp.Name)
	assert.EqualValues(t, 1, resp.RowVersion)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCategory_NotFound(t *testing.T) {
	t.Parallel()

	srv, mock := newTestServer(t)

	mock.ExpectQuery(`SELECT .+ FROM categories WHERE \(id = \$1 AND is_deleted = \$2\)`).
		WithArgs(pgxmock.AnyArg(), false).
		WillReturnRows(pgxmock.NewRows(categoryColumns))

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/categories/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "category not found", decodeError(t, rec).Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCategory_BadID(t *testing.T) {
	t.Parallel()

	srv, mock := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/categories/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid id", decodeError(t, rec).Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCategories_OK(t *testing.T) {
	t.Parallel()

	srv, mock := newTestServer(t)

	a := domain.NewCategory("Audio", nil, "tester")
	b := domain.NewCategory("Books", nil, "tester")
	rows := pgxmock.NewRows(categoryColumns).
		AddRow(a.ID, a.CreatedAt, a.CreatedBy, a.UpdatedAt, a.UpdatedBy,
			a.IsDeleted, a.DeletedAt, a.DeletedBy, a.RowVersion, a.Name, a.Description).
		AddRow(b.ID, b.CreatedAt, b.CreatedBy, b.UpdatedAt, b.UpdatedBy,
			b.IsDeleted, b.DeletedAt, b.DeletedBy, b.RowVersion, b.Name, b.Description)
	mock.ExpectQuery(`SELECT .+ FROM categories WHERE is_deleted = \$1 ORDER BY name`).
		WithArgs(false).
		WillReturnRows(rows)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/categories", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []categoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Audio", resp[0].Name)
	assert.Equal(t, "Books", resp[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProduct_MissingRowVersion(t *testing.T) {
	t.Parallel()

	srv, mock := newTestServer(t)

	body := `{"name":"Laptop","priceCents":99900,"stock":3,"categoryId":"` + uuid.NewString() + `"}`
	rec := doJSON(t, srv, http.MethodPut, "/api/v1/products/"+uuid.NewString(), body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "validation failed", resp.Error)
	assert.NotEmpty(t, resp.Fields["row_version"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProduct_NotFound(t *testing.T) {
	t.Parallel()

	srv, mock := newTestServer(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM products WHERE \(id = \$1 AND is_deleted = \$2\)`).
		WithArgs(pgxmock.AnyArg(), false).
		WillReturnRows(pgxmock.NewRows(productColumns))
	mock.ExpectCommit()

	rec := doJSON(t, srv, http.MethodDelete, "/api/v1/products/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product not found", decodeError(t, rec).Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProducts_BadPage(t *testing.T) {
	t.Parallel()

	srv, mock := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/products?page=abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid page", decodeError(t, rec).Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProducts_QueryError_500WithRequestID(t *testing.T) {
	t.Parallel()

	srv, mock := newTestServer(t)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`SELECT .+ FROM products p JOIN categories c`).
		WillReturnError(errors.New("boom"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products`).
		WillReturnError(errors.New("boom"))

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/products", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "internal server error", resp.Error)
	assert.NotEmpty(t, resp.RequestID)
}

func TestRoutes_HealthBypassesChain(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/live", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}
