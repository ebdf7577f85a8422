package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/checkout"
	"github.com/fjod/storefront/internal/store"
	"github.com/fjod/storefront/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCheckout struct {
	receipt *checkout.Receipt
	err     error
	calls   int
}

func (m *mockCheckout) Checkout(context.Context) (*checkout.Receipt, error) {
	m.calls++
	return m.receipt, m.err
}

func newTestServer(t *testing.T, c Checkouter) (*store.Store, http.Handler) {
	t.Helper()
	s := store.New(catalog.DefaultCatalog())
	if c == nil {
		c = &mockCheckout{}
	}
	h := NewRouter(s, c, logger.Nop(), RouterConfig{
		RequestTimeout:     5 * time.Second,
		MaxRequestBodySize: 1 << 20,
	})
	return s, h
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func intPtr(n int) *int { return &n }

func TestHealth(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	_, h := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{name: "known product", body: AddItemRequestDTO{ProductID: "1"}, wantStatus: http.StatusCreated},
		{name: "unknown product", body: AddItemRequestDTO{ProductID: "999"}, wantStatus: http.StatusNotFound, wantCode: "product_not_found"},
		{name: "missing product id", body: AddItemRequestDTO{}, wantStatus: http.StatusBadRequest, wantCode: "invalid_product_id"},
		{name: "invalid json", body: `{"product_id":`, wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, h := newTestServer(t, nil)

			rec := do(t, h, http.MethodPost, "/api/v1/cart/items", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decode[ErrorResponse](t, rec).Code)
			}
		})
	}
}

func TestCartFlow(t *testing.T) {
	s, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "2"})
	require.Equal(t, http.StatusCreated, rec.Code)

	cart := decode[CartResponseDTO](t, rec)
	assert.Equal(t, 2, cart.LineCount)
	assert.Equal(t, 3, cart.ItemCount)
	assert.True(t, decimal.RequireFromString("69.97").Equal(cart.Subtotal), cart.Subtotal.String())
	assert.True(t, decimal.RequireFromString("49.98").Equal(cart.Items[0].LineTotal))

	rec = do(t, h, http.MethodPut, "/api/v1/cart/items/1", map[string]int{"quantity": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[CartResponseDTO](t, rec)
	assert.Equal(t, 6, cart.ItemCount)

	rec = do(t, h, http.MethodDelete, "/api/v1/cart/items/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[CartResponseDTO](t, rec)
	assert.Equal(t, 1, cart.LineCount)

	rec = do(t, h, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[CartResponseDTO](t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "1", cart.Items[0].Product.ID)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	rec = do(t, h, http.MethodDelete, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[CartResponseDTO](t, rec)
	assert.Empty(t, cart.Items)
	assert.False(t, s.State().HasItems())
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantLines  int
	}{
		{name: "set quantity", body: map[string]int{"quantity": 3}, wantStatus: http.StatusOK, wantLines: 1},
		{name: "zero removes", body: map[string]int{"quantity": 0}, wantStatus: http.StatusOK, wantLines: 0},
		{name: "negative removes", body: map[string]int{"quantity": -2}, wantStatus: http.StatusOK, wantLines: 0},
		{name: "above limit", body: map[string]int{"quantity": 100}, wantStatus: http.StatusBadRequest, wantLines: 1},
		{name: "missing quantity", body: map[string]string{}, wantStatus: http.StatusBadRequest, wantLines: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, h := newTestServer(t, nil)
			require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "3"}).Code)

			rec := do(t, h, http.MethodPut, "/api/v1/cart/items/3", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantLines, s.State().LineCount())
		})
	}
}

func TestUpdateQuantity_UnknownLineIsNoop(t *testing.T) {
	s, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPut, "/api/v1/cart/items/404", map[string]int{"quantity": 2})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, s.State().LineCount())
}

func TestListProducts(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantIDs    []string
	}{
		{name: "all", query: "", wantStatus: http.StatusOK, wantIDs: []string{"1", "2", "3", "4", "5"}},
		{name: "usb only", query: "?type=usb", wantStatus: http.StatusOK, wantIDs: []string{"2", "4"}},
		{name: "search sorted by price", query: "?search=glitch&sort=price", wantStatus: http.StatusOK, wantIDs: []string{"5", "2"}},
		{name: "sort by name", query: "?sort=name", wantStatus: http.StatusOK, wantIDs: []string{"4", "2", "1", "5", "3"}},
		{name: "chaos sort rejected", query: "?sort=chaos", wantStatus: http.StatusBadRequest},
		{name: "unknown type rejected", query: "?type=vinyl", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, h := newTestServer(t, nil)

			rec := do(t, h, http.MethodGet, "/api/v1/products"+tt.query, nil)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			resp := decode[ProductsResponse](t, rec)
			ids := make([]string, len(resp.Products))
			for i, p := range resp.Products {
				ids[i] = p.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, len(tt.wantIDs), resp.Total)
		})
	}
}

func TestListArtworks(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodGet, "/api/v1/artworks?category=mixed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ArtworksResponse](t, rec)
	require.Len(t, resp.Artworks, 1)
	assert.Equal(t, "Neon Garden", resp.Artworks[0].Title)

	rec = do(t, h, http.MethodGet, "/api/v1/artworks?search=LUNA", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[ArtworksResponse](t, rec).Total)

	rec = do(t, h, http.MethodGet, "/api/v1/artworks?category=traditional", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleFavorite(t *testing.T) {
	s, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/v1/favorites/3/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[FavoriteResponseDTO](t, rec)
	assert.True(t, resp.Favorite)
	assert.Equal(t, 1, resp.FavoriteCount)
	assert.Equal(t, []string{"3"}, resp.Favorites)

	rec = do(t, h, http.MethodPost, "/api/v1/favorites/3/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[FavoriteResponseDTO](t, rec).Favorite)
	assert.False(t, s.State().IsFavorite("3"))

	rec = do(t, h, http.MethodPost, "/api/v1/favorites/nope/toggle", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "artwork_not_found", decode[ErrorResponse](t, rec).Code)
}

func TestSetViewAndGetState(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodGet, "/api/v1/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decode[store.Snapshot](t, rec)
	assert.Equal(t, "home", string(snap.View))
	assert.Equal(t, uint64(0), snap.Version)
	assert.NotNil(t, snap.Cart)

	rec = do(t, h, http.MethodPut, "/api/v1/view", SetViewRequestDTO{View: "gallery"})
	require.Equal(t, http.StatusOK, rec.Code)
	snap = decode[store.Snapshot](t, rec)
	assert.Equal(t, "gallery", string(snap.View))
	assert.Equal(t, uint64(1), snap.Version)

	rec = do(t, h, http.MethodPut, "/api/v1/view", SetViewRequestDTO{View: "checkout"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_view", decode[ErrorResponse](t, rec).Code)
}

func TestCheckout(t *testing.T) {
	tests := []struct {
		name       string
		mock       *mockCheckout
		wantStatus int
		wantCode   string
	}{
		{
			name: "placed",
			mock: &mockCheckout{receipt: &checkout.Receipt{
				ID: "order-1", ItemCount: 1, Total: decimal.RequireFromString("24.99"), Currency: checkout.Currency,
			}},
			wantStatus: http.StatusCreated,
		},
		{name: "empty cart", mock: &mockCheckout{err: checkout.ErrEmptyCart}, wantStatus: http.StatusConflict, wantCode: "empty_cart"},
		{name: "publish failure", mock: &mockCheckout{err: errors.New("broker down")}, wantStatus: http.StatusServiceUnavailable, wantCode: "checkout_unavailable"},
		{name: "timeout", mock: &mockCheckout{err: context.DeadlineExceeded}, wantStatus: http.StatusGatewayTimeout, wantCode: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, h := newTestServer(t, tt.mock)

			rec := do(t, h, http.MethodPost, "/api/v1/checkout", nil)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, 1, tt.mock.calls)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decode[ErrorResponse](t, rec).Code)
				return
			}
			receipt := decode[checkout.Receipt](t, rec)
			assert.Equal(t, "order-1", receipt.ID)
			assert.Equal(t, "EUR", receipt.Currency)
		})
	}
}

func TestCheckout_WithRealService(t *testing.T) {
	s := store.New(catalog.DefaultCatalog())
	svc := checkout.NewService(s, nil, logger.Nop())
	h := NewRouter(s, svc, logger.Nop(), RouterConfig{RequestTimeout: time.Second})

	rec := do(t, h, http.MethodPost, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "5"}).Code)

	rec = do(t, h, http.MethodPost, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	receipt := decode[checkout.Receipt](t, rec)
	assert.True(t, decimal.RequireFromString("14.99").Equal(receipt.Total))
	assert.False(t, s.State().HasItems())
}

func TestAddItem_QuantityCap(t *testing.T) {
	s, h := newTestServer(t, nil)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "1"}).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/api/v1/cart/items/1", UpdateQuantityRequestDTO{Quantity: intPtr(99)}).Code)
	version := s.State().Version()

	rec := do(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_quantity", decode[ErrorResponse](t, rec).Code)
	assert.Equal(t, version, s.State().Version(), "a rejected add is not a transition")
}

func TestAddItem_ConcurrentAddsNeverExceedCap(t *testing.T) {
	s, h := newTestServer(t, nil)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "1"}).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPut, "/api/v1/cart/items/1", UpdateQuantityRequestDTO{Quantity: intPtr(95)}).Code)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = map[int]int{}
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := do(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: "1"})
			mu.Lock()
			statuses[rec.Code]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, statuses[http.StatusCreated])
	assert.Equal(t, 16, statuses[http.StatusBadRequest])
	item, ok := s.State().CartItem("1")
	require.True(t, ok)
	assert.Equal(t, 99, item.Quantity)
}

func TestUnknownRoute(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := do(t, h, http.MethodGet, "/api/v1/nothing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
