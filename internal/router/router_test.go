package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"storefront/internal/document"
	"storefront/internal/handler"
	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/view"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	handler http.Handler
	path    string
	metrics *metrics.Metrics
}

func newTestApp(t *testing.T, development bool, opts Options) *testApp {
	t.Helper()
	logger := zerolog.Nop()

	path := filepath.Join(t.TempDir(), "data", "products.json")
	repo := repository.NewProductRepository(document.NewFileSource(path, logger), logger)
	svc := service.NewProductService(repo, opts.Metrics, logger)

	tmpl, err := view.New()
	require.NoError(t, err)
	pages := handler.NewPages(tmpl, development, logger)

	return &testApp{
		handler: New(pages, handler.NewProductHandler(svc, pages, logger), opts, logger),
		path:    path,
		metrics: opts.Metrics,
	}
}

func (a *testApp) do(method, target string, body url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func (a *testApp) readFile(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(a.path)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return data
}

func TestRouter_Home(t *testing.T) {
	app := newTestApp(t, false, Options{})

	w := app.do(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome to the Online Store")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Health(t *testing.T) {
	app := newTestApp(t, false, Options{})

	w := app.do(http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestRouter_Static(t *testing.T) {
	app := newTestApp(t, false, Options{})

	w := app.do(http.MethodGet, "/static/styles.css", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/css")
}

func TestRouter_StaticDirectoryIsNotListed(t *testing.T) {
	app := newTestApp(t, false, Options{})

	w := app.do(http.MethodGet, "/static/", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page Not Found")
	assert.NotContains(t, w.Body.String(), `href="styles.css"`)
}

func TestRouter_NotFound(t *testing.T) {
	app := newTestApp(t, false, Options{})

	for _, target := range []string{"/nowhere", "/products/add", "/api/products/7"} {
		t.Run(target, func(t *testing.T) {
			w := app.do(http.MethodGet, target, nil)

			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Contains(t, w.Body.String(), "Page Not Found")
			assert.Contains(t, w.Body.String(), target)
		})
	}
}

func TestRouter_AddProduct_EmptyNameLeavesCollectionUnchanged(t *testing.T) {
	app := newTestApp(t, false, Options{})

	w := app.do(http.MethodPost, "/products/add", url.Values{
		"name": {"Existing"}, "description": {"Already here"}, "price": {"1"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	before := app.readFile(t)
	require.NotEmpty(t, before)

	w = app.do(http.MethodPost, "/products/add", url.Values{
		"name": {""}, "description": {"A widget"}, "price": {"9.99"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "All fields are required", w.Body.String())
	assert.Equal(t, before, app.readFile(t))
}

func TestRouter_AddProduct_InvalidPriceOnEmptyStore(t *testing.T) {
	app := newTestApp(t, false, Options{})

	w := app.do(http.MethodPost, "/products/add", url.Values{
		"name": {"Widget"}, "description": {"A widget"}, "price": {"cheap"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, app.readFile(t))
}

func TestRouter_AddProduct_Widget(t *testing.T) {
	app := newTestApp(t, false, Options{})
	before := time.Now().UTC().Add(-time.Second)

	w := app.do(http.MethodPost, "/products/add", url.Values{
		"name": {"Widget"}, "description": {"A widget"}, "price": {"9.99"},
	})

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/products", w.Header().Get("Location"))

	var stored []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(app.readFile(t), &stored))
	require.Len(t, stored, 1)
	assert.JSONEq(t, `1`, string(stored[0]["id"]))
	assert.JSONEq(t, `"Widget"`, string(stored[0]["name"]))
	assert.JSONEq(t, `"A widget"`, string(stored[0]["description"]))
	assert.JSONEq(t, `9.99`, string(stored[0]["price"]))

	var createdAt time.Time
	require.NoError(t, json.Unmarshal(stored[0]["createdAt"], &createdAt))
	assert.True(t, createdAt.After(before))

	w = app.do(http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Widget")
	assert.Contains(t, w.Body.String(), "$9.99")
}

func TestRouter_AddProduct_JSONBody(t *testing.T) {
	app := newTestApp(t, false, Options{})

	req := httptest.NewRequest(http.MethodPost, "/products/add",
		strings.NewReader(`{"name":"Widget","description":"A widget","price":"9.99"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	app.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/products", w.Header().Get("Location"))

	w = app.do(http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Widget", resp.Products[0].Name)
	assert.Equal(t, 9.99, resp.Products[0].Price)
}

func TestRouter_APIProducts(t *testing.T) {
	app := newTestApp(t, false, Options{})

	w := app.do(http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"count":0,"products":[]}`, w.Body.String())

	for _, name := range []string{"First", "Second"} {
		w = app.do(http.MethodPost, "/products/add", url.Values{
			"name": {name}, "description": {name + " product"}, "price": {"2.50"},
		})
		require.Equal(t, http.StatusFound, w.Code)
	}

	w = app.do(http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp model.ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "First", resp.Products[0].Name)
	assert.Equal(t, int64(1), resp.Products[0].ID)
	assert.Equal(t, "Second", resp.Products[1].Name)
	assert.Equal(t, int64(2), resp.Products[1].ID)
}

func TestRouter_CorruptFile(t *testing.T) {
	tests := []struct {
		name         string
		development  bool
		target       string
		expectDetail bool
	}{
		{name: "Listing in production", development: false, target: "/products", expectDetail: false},
		{name: "Listing in development", development: true, target: "/products", expectDetail: true},
		{name: "API in production", development: false, target: "/api/products", expectDetail: false},
		{name: "API in development", development: true, target: "/api/products", expectDetail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, tt.development, Options{})
			require.NoError(t, os.MkdirAll(filepath.Dir(app.path), 0o755))
			require.NoError(t, os.WriteFile(app.path, []byte(`[{"id": 1, "name": `), 0o644))

			w := app.do(http.MethodGet, tt.target, nil)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, w.Body.String(), "Server Error")
			if tt.expectDetail {
				assert.Contains(t, w.Body.String(), "corrupt product document")
			} else {
				assert.NotContains(t, w.Body.String(), "corrupt product document")
			}
		})
	}
}

func TestRouter_AddProduct_RateLimited(t *testing.T) {
	app := newTestApp(t, false, Options{RateLimitRPS: 0.001, RateLimitBurst: 1})
	form := url.Values{"name": {"Widget"}, "description": {"A widget"}, "price": {"1"}}

	assert.Equal(t, http.StatusFound, app.do(http.MethodPost, "/products/add", form).Code)
	assert.Equal(t, http.StatusTooManyRequests, app.do(http.MethodPost, "/products/add", form).Code)

	// Reads are not limited.
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/products", nil).Code)
}

func TestRouter_Metrics(t *testing.T) {
	app := newTestApp(t, false, Options{Metrics: metrics.New()})

	app.do(http.MethodGet, "/products", nil)
	app.do(http.MethodPost, "/products/add", url.Values{"name": {"A"}, "description": {"B"}, "price": {"1"}})

	w := app.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `storefront_http_requests_total{method="GET",route="GET /products",status="200"} 1`)
	assert.Contains(t, body, `storefront_http_requests_total{method="POST",route="POST /products/add",status="302"} 1`)
	assert.Contains(t, body, "storefront_products_created_total 1")
}

func TestRouter_MetricsDisabled(t *testing.T) {
	app := newTestApp(t, false, Options{})

	w := app.do(http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

type panickingService struct{}

func (panickingService) List(ctx context.Context) ([]model.Product, error) {
	panic("listing exploded")
}

func (panickingService) Create(ctx context.Context, form model.ProductForm) (*model.Product, error) {
	panic("create exploded")
}

func TestRouter_PanicRendersErrorPage(t *testing.T) {
	logger := zerolog.Nop()
	tmpl, err := view.New()
	require.NoError(t, err)
	pages := handler.NewPages(tmpl, true, logger)
	h := New(pages, handler.NewProductHandler(panickingService{}, pages, logger), Options{}, logger)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Server Error")
	assert.Contains(t, w.Body.String(), "listing exploded")
}
