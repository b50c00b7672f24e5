package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Sameer-A01/restaurant-api/internal/catalog"
	"github.com/Sameer-A01/restaurant-api/internal/checkout"
	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"github.com/Sameer-A01/restaurant-api/internal/journal"
	"github.com/Sameer-A01/restaurant-api/internal/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]domain.SessionState
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]domain.SessionState)}
}

func (r *memSessionRepo) GetSession(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.sessions[sessionID]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	out := state
	return &out, nil
}

func (r *memSessionRepo) UpsertSession(ctx context.Context, state *domain.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[state.SessionID] = *state
	return nil
}

func (r *memSessionRepo) DeleteSession(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return session.ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	return nil
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	return nil, session.ErrCacheMiss
}
func (noopCache) Set(ctx context.Context, sessionID string, state *domain.SessionState) error {
	return nil
}
func (noopCache) Delete(ctx context.Context, sessionID string) error { return nil }

type staticSnapshots struct {
	mu       sync.Mutex
	snapshot *catalog.Snapshot
}

func (s *staticSnapshots) Current() *catalog.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

func (s *staticSnapshots) Refresh(ctx context.Context) (*catalog.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return nil, catalog.ErrCatalogUnavailable
	}
	return s.snapshot, nil
}

type stubSubmitter struct {
	mu     sync.Mutex
	err    error
	nextID int
}

func (s *stubSubmitter) Submit(ctx context.Context, submission *domain.OrderSubmission) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.nextID++
	return fmt.Sprintf("ord-%d", s.nextID), nil
}

type memJournal struct {
	mu     sync.Mutex
	orders []*domain.Order
}

func (j *memJournal) RecordOrder(ctx context.Context, order *domain.Order) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.orders = append(j.orders, order)
	return nil
}

func (j *memJournal) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, order := range j.orders {
		if order.ID == id {
			return order, nil
		}
	}
	return nil, journal.ErrOrderNotFound
}

func (j *memJournal) ListRecent(ctx context.Context, limit int) ([]*domain.Order, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]*domain.Order, 0, limit)
	for i := len(j.orders) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.orders[i])
	}
	return out, nil
}

type memPolicyBackend struct {
	mu     sync.Mutex
	policy domain.PricingPolicy
	puts   int
}

func (b *memPolicyBackend) GetPolicy(ctx context.Context) (domain.PricingPolicy, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.policy, nil
}

func (b *memPolicyBackend) PutPolicy(ctx context.Context, policy domain.PricingPolicy) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.policy = policy
	b.puts++
	return nil
}

type testEnv struct {
	server    *httptest.Server
	snapshots *staticSnapshots
	submitter *stubSubmitter
	journal   *memJournal
	backend   *memPolicyBackend
}

func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot([]domain.CatalogItem{
		{ID: "espresso", Name: "Espresso", UnitPrice: decimal.NewFromInt(3), AvailableStock: 10, CategoryID: "drinks"},
		{ID: "cake", Name: "Cheesecake", UnitPrice: decimal.RequireFromString("5.5"), AvailableStock: 2, CategoryID: "desserts"},
		{ID: "truffle", Name: "Truffle Plate", UnitPrice: decimal.NewFromInt(40), AvailableStock: 1, CategoryID: "mains"},
	}, time.Now())
}

func newTestEnv(t *testing.T, requireTable bool, snapshot *catalog.Snapshot) *testEnv {
	t.Helper()

	snapshots := &staticSnapshots{snapshot: snapshot}
	submitter := &stubSubmitter{}
	orderLog := &memJournal{}
	backend := &memPolicyBackend{policy: domain.PricingPolicy{DiscountRatePercent: 0, TaxRatePercent: 10}}

	sessions := session.NewService(newMemSessionRepo(), noopCache{}, domain.PricingPolicy{DiscountRatePercent: 10, TaxRatePercent: 5})
	checkoutSvc := checkout.NewService(sessions, snapshots, submitter, orderLog, requireTable)

	timeout := 5 * time.Second
	router := NewRouter(RouterConfig{
		Cart:           NewCartHandler(sessions, snapshots, timeout),
		Catalog:        NewCatalogHandler(snapshots, timeout),
		Policy:         NewPolicyHandler(sessions, backend, timeout),
		Checkout:       NewCheckoutHandler(checkoutSvc, timeout),
		Orders:         NewOrdersHandler(orderLog, timeout),
		RequestTimeout: timeout,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{
		server:    server,
		snapshots: snapshots,
		submitter: submitter,
		journal:   orderLog,
		backend:   backend,
	}
}

func (e *testEnv) do(t *testing.T, method, path, sessionID string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestCartEndpoints_MissingSession(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())

	resp := env.do(t, http.MethodGet, "/api/v1/cart/", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAddItem(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())

	resp := env.do(t, http.MethodPost, "/api/v1/cart/items", "tbl-1", AddItemRequestDTO{ItemID: "espresso"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var cart CartResponseDTO
	decodeBody(t, resp, &cart)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "espresso", cart.Lines[0].ItemID)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
	// default policy: 10% discount, 5% tax on 3.00
	assert.True(t, cart.Totals.Subtotal.Equal(decimal.NewFromInt(3)), "subtotal %s", cart.Totals.Subtotal)
	assert.True(t, cart.Totals.GrandTotal.Equal(decimal.RequireFromString("2.84")), "grand total %s", cart.Totals.GrandTotal)
}

func TestAddItem_UnknownItem(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())

	resp := env.do(t, http.MethodPost, "/api/v1/cart/items", "tbl-1", AddItemRequestDTO{ItemID: "ghost"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddItem_OutOfStock(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())

	resp := env.do(t, http.MethodPost, "/api/v1/cart/items", "tbl-1", AddItemRequestDTO{ItemID: "truffle"})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/v1/cart/items", "tbl-1", AddItemRequestDTO{ItemID: "truffle"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "out_of_stock", body.Code)

	// the rejected add must leave the line unchanged
	resp = env.do(t, http.MethodGet, "/api/v1/cart/", "tbl-1", nil)
	var cart CartResponseDTO
	decodeBody(t, resp, &cart)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
}

func TestAddItem_NoCatalog(t *testing.T) {
	env := newTestEnv(t, false, nil)

	resp := env.do(t, http.MethodPost, "/api/v1/cart/items", "tbl-1", AddItemRequestDTO{ItemID: "espresso"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())

	resp := env.do(t, http.MethodPost, "/api/v1/cart/items", "tbl-1", AddItemRequestDTO{ItemID: "espresso"})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/v1/cart/items/espresso", "tbl-1", UpdateQuantityRequestDTO{Quantity: 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cart CartResponseDTO
	decodeBody(t, resp, &cart)
	assert.Empty(t, cart.Lines)
	assert.True(t, cart.Totals.GrandTotal.IsZero())
}

func TestUpdateQuantity_ExceedsStock(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())

	resp := env.do(t, http.MethodPost, "/api/v1/cart/items", "tbl-1", AddItemRequestDTO{ItemID: "cake"})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/v1/cart/items/cake", "tbl-1", UpdateQuantityRequestDTO{Quantity: 3})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/v1/cart/", "tbl-1", nil)
	var cart CartResponseDTO
	decodeBody(t, resp, &cart)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())

	resp := env.do(t, http.MethodPost, "/api/v1/cart/items", "tbl-1", AddItemRequestDTO{ItemID: "espresso"})
	resp.Body.Close()
	resp = env.do(t, http.MethodDelete, "/api/v1/cart/", "tbl-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cart CartResponseDTO
	decodeBody(t, resp, &cart)
	assert.Empty(t, cart.Lines)
}

func TestReservation_BindAndClear(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())

	resp := env.do(t, http.MethodPut, "/api/v1/cart/reservation", "tbl-1", BindReservationRequestDTO{RoomID: "terrace", TableID: "t-12"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cart CartResponseDTO
	decodeBody(t, resp, &cart)
	assert.Equal(t, "terrace", cart.Reservation.RoomID())
	assert.Equal(t, "t-12", cart.Reservation.TableID())

	resp = env.do(t, http.MethodDelete, "/api/v1/cart/reservation", "tbl-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.False(t, cart.Reservation.IsComplete())
}

func TestReservation_RejectsHalfBound(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())

	resp := env.do(t, http.MethodPut, "/api/v1/cart/reservation", "tbl-1", BindReservationRequestDTO{RoomID: "terrace"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "half_bound_reservation", body.Code)
}

func TestPricingPolicy_PutAndGet(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())

	resp := env.do(t, http.MethodPut, "/api/v1/pricing-policy/", "tbl-1",
		domain.PricingPolicy{DiscountRatePercent: 10, TaxRatePercent: 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, 1, env.backend.puts)

	resp = env.do(t, http.MethodGet, "/api/v1/pricing-policy/", "tbl-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var policy domain.PricingPolicy
	decodeBody(t, resp, &policy)
	assert.Equal(t, 10.0, policy.DiscountRatePercent)
	assert.Equal(t, 5.0, policy.TaxRatePercent)
}

func TestPricingPolicy_RejectsInvalidRates(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())

	resp := env.do(t, http.MethodPut, "/api/v1/pricing-policy/", "tbl-1",
		domain.PricingPolicy{DiscountRatePercent: 150, TaxRatePercent: 5})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, env.backend.puts)
}

func TestCheckout_Success(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())

	resp := env.do(t, http.MethodPost, "/api/v1/cart/items", "tbl-1", AddItemRequestDTO{ItemID: "espresso"})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/v1/checkout", "tbl-1", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order domain.Order
	decodeBody(t, resp, &order)
	assert.Equal(t, "ord-1", order.ID)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, "Espresso", order.Lines[0].Name)

	// cart cleared only after the backend confirmed
	resp = env.do(t, http.MethodGet, "/api/v1/cart/", "tbl-1", nil)
	var cart CartResponseDTO
	decodeBody(t, resp, &cart)
	assert.Empty(t, cart.Lines)

	// the order is queryable from the journal
	resp = env.do(t, http.MethodGet, "/api/v1/orders/ord-1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestCheckout_FailurePreservesCart(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())
	env.submitter.err = errors.New("backend down")

	resp := env.do(t, http.MethodPost, "/api/v1/cart/items", "tbl-1", AddItemRequestDTO{ItemID: "espresso"})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/v1/checkout", "tbl-1", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/v1/cart/", "tbl-1", nil)
	var cart CartResponseDTO
	decodeBody(t, resp, &cart)
	assert.Len(t, cart.Lines, 1)
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())

	resp := env.do(t, http.MethodPost, "/api/v1/checkout", "tbl-1", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckout_RequiresReservation(t *testing.T) {
	env := newTestEnv(t, true, testSnapshot())

	resp := env.do(t, http.MethodPost, "/api/v1/cart/items", "tbl-1", AddItemRequestDTO{ItemID: "espresso"})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/v1/checkout", "tbl-1", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/v1/cart/reservation", "tbl-1", BindReservationRequestDTO{RoomID: "terrace", TableID: "t-12"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/v1/checkout", "tbl-1", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestGetCatalog(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())

	resp := env.do(t, http.MethodGet, "/api/v1/catalog/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body CatalogResponseDTO
	decodeBody(t, resp, &body)
	assert.Len(t, body.Items, 3)
}

func TestGetCatalog_Unavailable(t *testing.T) {
	env := newTestEnv(t, false, nil)

	resp := env.do(t, http.MethodGet, "/api/v1/catalog/", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestListOrders(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())

	for _, sessionID := range []string{"tbl-1", "tbl-2"} {
		resp := env.do(t, http.MethodPost, "/api/v1/cart/items", sessionID, AddItemRequestDTO{ItemID: "espresso"})
		resp.Body.Close()
		resp = env.do(t, http.MethodPost, "/api/v1/checkout", sessionID, nil)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := env.do(t, http.MethodGet, "/api/v1/orders/?limit=1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var orders []*domain.Order
	decodeBody(t, resp, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, "ord-2", orders[0].ID)
}

func TestGetOrder_NotFound(t *testing.T) {
	env := newTestEnv(t, false, testSnapshot())

	resp := env.do(t, http.MethodGet, "/api/v1/orders/ghost", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
