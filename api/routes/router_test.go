package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartstore "github.com/promayouf/storefront-backend/internal/cart"
	"github.com/promayouf/storefront-backend/internal/pricing"
	"github.com/promayouf/storefront-backend/internal/products"
	"github.com/promayouf/storefront-backend/internal/recentlyviewed"
	"github.com/promayouf/storefront-backend/pkg/config"
	pkgerrors "github.com/promayouf/storefront-backend/pkg/errors"
	"github.com/promayouf/storefront-backend/pkg/metrics"
	"github.com/promayouf/storefront-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubCartStorage struct {
	states map[string]*cartstore.State
}

func (s *stubCartStorage) Load(ctx context.Context, sessionID string) (*cartstore.State, error) {
	if state, ok := s.states[sessionID]; ok {
		return state, nil
	}
	return cartstore.NewState("PayPal"), nil
}

func (s *stubCartStorage) Save(ctx context.Context, sessionID string, state *cartstore.State) error {
	s.states[sessionID] = state
	return nil
}

func (s *stubCartStorage) Delete(ctx context.Context, sessionID string) error {
	delete(s.states, sessionID)
	return nil
}

type stubProducts struct {
	lines map[uuid.UUID]types.LineItem
}

func (s *stubProducts) ResolveLine(ctx context.Context, input products.ResolveLineInput) (*types.LineItem, error) {
	line, ok := s.lines[input.ProductID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	line.Quantity = input.Quantity
	line.SelectedSize = input.SelectedSize
	return &line, nil
}

type stubCoupons struct{}

func (stubCoupons) Resolve(ctx context.Context, code string) (*types.Coupon, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
}

type stubListStore struct {
	blobs map[string]string
}

func (s *stubListStore) Get(ctx context.Context, key string) (string, error) {
	if raw, ok := s.blobs[key]; ok {
		return raw, nil
	}
	return "[]", nil
}

func (s *stubListStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.blobs[key] = value.(string)
	return nil
}

func (s *stubListStore) Del(ctx context.Context, keys ...string) error { return nil }

func (s *stubListStore) RecentlyViewedKey(sessionID string) string {
	return "sf:recently_viewed:" + sessionID
}

func newTestRouter(t *testing.T) (http.Handler, *stubProducts) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.Cart.SessionTTL = time.Hour
	cfg.Cart.DefaultPaymentMethod = "PayPal"
	cfg.Pricing = config.PricingConfig{FreeShippingThreshold: 100, FlatShippingFee: 10, TaxRate: 0.15}

	registry := prometheus.NewRegistry()
	engine := pricing.NewEngine(cfg.Pricing)
	store, err := cartstore.NewStore(
		&stubCartStorage{states: map[string]*cartstore.State{}},
		engine,
		metrics.NewCartMetrics(registry),
		nil,
		cfg.Cart.DefaultPaymentMethod,
	)
	require.NoError(t, err)

	productsSvc := &stubProducts{lines: map[uuid.UUID]types.LineItem{}}
	recentSvc, err := recentlyviewed.NewService(&stubListStore{blobs: map[string]string{}}, 5, time.Hour, nil)
	require.NoError(t, err)

	router, err := NewRouter(Deps{
		Config:         cfg,
		DB:             stubPinger{},
		Redis:          stubPinger{},
		CartStore:      store,
		Products:       productsSvc,
		Coupons:        stubCoupons{},
		RecentlyViewed: recentSvc,
		Registry:       registry,
	})
	require.NoError(t, err)
	return router, productsSvc
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetCartMintsSession(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Cart-Session"))

	var envelope struct {
		Data cartstore.State `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "PayPal", envelope.Data.PaymentMethod)
	assert.Equal(t, "0.00", envelope.Data.TotalPrice)
}

func TestAddItemFlow(t *testing.T) {
	t.Parallel()

	router, productsSvc := newTestRouter(t)
	productID := uuid.New()
	productsSvc.lines[productID] = types.LineItem{
		ProductID: productID,
		Name:      "Navy Suit",
		UnitPrice: 40,
	}

	body, err := json.Marshal(map[string]any{
		"productId":    productID,
		"qty":          2,
		"selectedSize": "40R",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Cart-Session", "sess-router")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Data cartstore.State `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Items, 1)
	assert.Equal(t, 2, envelope.Data.Items[0].Quantity)
	assert.Equal(t, "80.00", envelope.Data.ItemsPrice)
	// 80 is under the free shipping threshold.
	assert.Equal(t, "10.00", envelope.Data.ShippingPrice)
}

func TestAddItemUnknownProductIs404(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	body, err := json.Marshal(map[string]any{"productId": uuid.New(), "qty": 1})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Cart-Session", "sess-router")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecentlyViewedFlow(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	body, err := json.Marshal(map[string]any{
		"productId": uuid.New(),
		"name":      "Grey Blazer",
		"price":     180,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recently-viewed", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Cart-Session", "sess-rv")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/recently-viewed", nil)
	listReq.Header.Set("X-Cart-Session", "sess-rv")
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, listReq)
	require.Equal(t, http.StatusOK, listRec.Code)

	var envelope struct {
		Data []recentlyviewed.Entry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Grey Blazer", envelope.Data[0].Name)
}
