//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/paz-dev-com/catalog-backend/internal/adapter/postgres"
	"github.com/paz-dev-com/catalog-backend/internal/adapter/postgres/testhelper"
	"github.com/paz-dev-com/catalog-backend/internal/auth"
	"github.com/paz-dev-com/catalog-backend/internal/config"
	"github.com/paz-dev-com/catalog-backend/internal/mediator"
	"github.com/paz-dev-com/catalog-backend/internal/service/catalog"
	"github.com/paz-dev-com/catalog-backend/internal/transport/middleware"
	"github.com/paz-dev-com/catalog-backend/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL        string
	Client     *http.Client
	Pool       *pgxpool.Pool
	Dispatcher *mediator.Dispatcher
	jwt        *auth.JWTManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// ---------------------------------------------------------------------------
// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
// ---------------------------------------------------------------------------

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	// 1. Get pool from testcontainers-backed helper.
	pool := testhelper.SetupTestDB(t)

	// 2. Infrastructure.
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	// 3. Dispatch pipeline + catalog handlers.
	dispatcher := mediator.NewDispatcher(logger, postgres.NewUnitOfWorkFactory(pool), 500*time.Millisecond)
	catalog.NewHandlers(logger, config.CatalogConfig{
		DefaultPageSize:         20,
		MaxPageSize:             100,
		HardDeleteRetentionDays: 30,
	}).Register(dispatcher)

	// 4. JWT manager with a test secret (>= 32 chars).
	jwtMgr := auth.NewJWTManager("test-secret-at-least-32-chars-long!!", "test-issuer", 15*time.Minute)

	// 5. Middleware chain, same order as the application.
	chain := middleware.Chain(
		middleware.RequestID(),
		middleware.CORS(config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,PUT,DELETE,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type",
			AllowCredentials: true,
			MaxAge:           86400,
		}),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.Auth(jwtMgr),
	)

	// 6. Routes + httptest server.
	handler := rest.Routes(
		rest.NewCatalogHandler(dispatcher, logger),
		rest.NewHealthHandler(pool, "test-version"),
		chain,
	)
	srv := httptest.NewServer(handler)
	t.Cleanup(func() { srv.Close() })

	return &testServer{
		URL:        srv.URL,
		Client:     srv.Client(),
		Pool:       pool,
		Dispatcher: dispatcher,
		jwt:        jwtMgr,
	}
}

// ---------------------------------------------------------------------------
// doJSON sends a JSON request and decodes the response into out (if non-nil).
// ---------------------------------------------------------------------------

func (ts *testServer) doJSON(t *testing.T, method, path string, body any, token string, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

// actorToken returns a valid access token whose subject is the given actor.
func (ts *testServer) actorToken(t *testing.T, actor string) string {
	t.Helper()
	tok, err := ts.jwt.GenerateAccessToken(actor)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

// ---------------------------------------------------------------------------
// Response shapes the tests care about.
// ---------------------------------------------------------------------------

type idResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error     string              `json:"error"`
	RequestID string              `json:"requestId"`
	Fields    map[string][]string `json:"fields"`
}

type categoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	RowVersion  int64   `json:"rowVersion"`
}

type productResponse struct {
	ID          string  `json:"id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	PriceCents  int64   `json:"priceCents"`
	Stock       int     `json:"stock"`
	CategoryID  string  `json:"categoryId"`
	RowVersion  int64   `json:"rowVersion"`
}

type productRowResponse struct {
	ID           string `json:"id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	PriceCents   int64  `json:"priceCents"`
	CategoryName string `json:"categoryName"`
	RowVersion   int64  `json:"rowVersion"`
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

// ---------------------------------------------------------------------------
// Seed helpers: everything goes through the public API.
// ---------------------------------------------------------------------------

// createCategory creates a category over HTTP and returns its id.
func createCategory(t *testing.T, ts *testServer, name string) string {
	t.Helper()

	var created idResponse
	status := ts.doJSON(t, http.MethodPost, "/api/v1/categories",
		map[string]any{"name": name}, "", &created)
	require.Equal(t, http.StatusCreated, status, "create category %q", name)
	require.NotEmpty(t, created.ID)
	return created.ID
}

// createProduct creates a product over HTTP and returns its id.
func createProduct(t *testing.T, ts *testServer, categoryID, sku, name string, priceCents int64, stock int) string {
	t.Helper()

	var created idResponse
	status := ts.doJSON(t, http.MethodPost, "/api/v1/products", map[string]any{
		"sku":        sku,
		"name":       name,
		"priceCents": priceCents,
		"stock":      stock,
		"categoryId": categoryID,
	}, "", &created)
	require.Equal(t, http.StatusCreated, status, "create product %q", sku)
	require.NotEmpty(t, created.ID)
	return created.ID
}

// uniqueSuffix returns a short random suffix so parallel tests sharing one
// database never collide on live-unique names and SKUs.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// listProductsPath builds a product list URL scoped to one category.
func listProductsPath(categoryID string, page, pageSize int) string {
	return fmt.Sprintf("/api/v1/products?categoryId=%s&page=%d&pageSize=%d", categoryID, page, pageSize)
}
