package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vitrine-commerce/vitrine-backend/internal/orders"
	"github.com/vitrine-commerce/vitrine-backend/internal/products"
	"github.com/vitrine-commerce/vitrine-backend/internal/shipping"
	"github.com/vitrine-commerce/vitrine-backend/internal/zones"
	"github.com/vitrine-commerce/vitrine-backend/pkg/config"
	"github.com/vitrine-commerce/vitrine-backend/pkg/logger"
	"github.com/vitrine-commerce/vitrine-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubLocator struct{}

func (stubLocator) Locate(_ context.Context, cep shipping.CEP) (*shipping.Location, error) {
	if cep == "30140071" {
		return &shipping.Location{State: "MG", City: "Belo Horizonte"}, nil
	}
	return nil, nil
}

type gormTx struct {
	db *gorm.DB
}

func (g *gormTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(g.db)
}

func setupRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:router_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  price TEXT NOT NULL DEFAULT '0',
  free_shipping INTEGER NOT NULL DEFAULT 0,
  free_from_qty INTEGER,
  lead_time_days INTEGER,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS delivery_zones (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  state TEXT NOT NULL,
  all_cities INTEGER NOT NULL DEFAULT 0,
  cities TEXT,
  is_free INTEGER NOT NULL DEFAULT 0,
  price TEXT NOT NULL DEFAULT '0',
  lead_time_days INTEGER,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cep_ranges (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  cep_start TEXT NOT NULL,
  cep_end TEXT NOT NULL,
  price TEXT NOT NULL DEFAULT '0',
  lead_time_days INTEGER,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  cep TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  subtotal TEXT NOT NULL,
  shipping_price TEXT NOT NULL,
  shipping_is_free INTEGER NOT NULL DEFAULT 0,
  shipping_lead_time_days INTEGER,
  shipping_rule TEXT NOT NULL,
  shipping_free_items TEXT,
  delivery_zone_id INTEGER,
  total TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  subtotal TEXT NOT NULL,
  created_at DATETIME
);`,
	}
	for _, statement := range statements {
		if err := db.Exec(statement).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}

	seed := []string{
		`INSERT INTO products (sku, name, price, free_shipping, lead_time_days, is_active)
		 VALUES ('SKU-1', 'Caneca', '39.90', 0, 3, 1)`,
		`INSERT INTO delivery_zones (name, state, all_cities, cities, price, lead_time_days, is_active)
		 VALUES ('bh-capital', 'MG', 0, '{"belo horizonte"}', '12', 2, 1)`,
	}
	for _, statement := range seed {
		if err := db.Exec(statement).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return db
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db := setupRouterTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	cfg := &config.Config{}
	cfg.App.Env = "test"

	catalog := products.NewRepository(db)
	quoteService, err := shipping.NewService(
		catalog,
		shipping.NewRepository(db),
		shipping.NewRepository(db),
		stubLocator{},
		metrics.NewQuoteMetrics(nil),
	)
	if err != nil {
		t.Fatalf("quote service: %v", err)
	}

	checkoutService, err := orders.NewService(
		quoteService,
		catalog,
		orders.NewRepository(db),
		&gormTx{db: db},
		logg,
	)
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}

	adminService := zones.NewService(zones.NewRepository(db), logg)

	return NewRouter(cfg, logg, stubPinger{}, nil, quoteService, checkoutService, adminService, nil)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s returned %d", path, w.Code)
		}
		if got := w.Header().Get("X-Vitrine-Env"); got != "test" {
			t.Fatalf("%s env header %q", path, got)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics returned %d", w.Code)
	}
}

func TestQuoteEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body := `{"cep":"30140-071","items":[{"productId":1,"qty":2}]}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/shipping/quote", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("quote returned %d: %s", w.Code, w.Body.String())
	}
	payload := w.Body.String()
	if !strings.Contains(payload, `"applied_rule":"ZONE"`) {
		t.Fatalf("expected zone quote, got %s", payload)
	}
	if !strings.Contains(payload, `"lead_time_days":3`) {
		t.Fatalf("expected product lead time, got %s", payload)
	}
}

func TestQuoteEndpointAcceptsStringEncodedCart(t *testing.T) {
	router := newTestRouter(t)

	// Legacy storefronts send the cart as a JSON-encoded string field.
	body := `{"cep":"30140-071","items":"[{\"id\":1,\"quantity\":2}]"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/shipping/quote", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("quote returned %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"applied_rule":"ZONE"`) {
		t.Fatalf("expected zone quote, got %s", w.Body.String())
	}
}

func TestQuoteEndpointUnknownCEP(t *testing.T) {
	router := newTestRouter(t)

	body := `{"cep":"99999999","items":[{"product_id":1,"quantity":1}]}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/shipping/quote", strings.NewReader(body)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCheckoutEndpointIgnoresClientShipping(t *testing.T) {
	router := newTestRouter(t)

	body := `{
  "customer_name": "Ana Souza",
  "customer_email": "ana@example.com",
  "cep": "30140071",
  "items": [{"product_id": 1, "quantity": 2}],
  "shipping_price": "0",
  "shipping_is_free": true
}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	payload := w.Body.String()
	if !strings.Contains(payload, `"shipping_price":"12"`) {
		t.Fatalf("expected engine shipping price, got %s", payload)
	}
	if !strings.Contains(payload, `"shipping_is_free":false`) {
		t.Fatalf("client free-shipping claim must be discarded, got %s", payload)
	}
}

func TestAdminZoneLifecycle(t *testing.T) {
	router := newTestRouter(t)

	createBody := `{"name":"sp-all","state":"SP","all_cities":true,"price":"20","lead_time_days":5}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/v1/zones/", strings.NewReader(createBody)))
	if w.Code != http.StatusCreated {
		t.Fatalf("create zone returned %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/v1/zones/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list zones returned %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"sp-all"`) {
		t.Fatalf("expected created zone in list, got %s", w.Body.String())
	}
}

func TestAdminRangeValidation(t *testing.T) {
	router := newTestRouter(t)

	body := `{"name":"inverted","cep_start":"32000000","cep_end":"30000000"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/v1/cep-ranges/", strings.NewReader(body)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
