package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tableserve/internal/backup"
	"tableserve/internal/common/logger"
	"tableserve/internal/domain"
	"tableserve/internal/menu"
	"tableserve/internal/metrics"
	"tableserve/internal/orders"
)

type fakeOrders struct {
	placeResp  domain.PlaceOrderResponse
	placeErr   error
	verifyResp []domain.TrackedOrder
	verifyErr  error
	stats      []domain.SheetStats
}

func (f *fakeOrders) PlaceOrder(context.Context, domain.PlaceOrderRequest) (domain.PlaceOrderResponse, error) {
	return f.placeResp, f.placeErr
}

func (f *fakeOrders) VerifyOrder(context.Context, domain.VerifyOrderRequest) ([]domain.TrackedOrder, error) {
	return f.verifyResp, f.verifyErr
}

func (f *fakeOrders) SheetStats(context.Context) ([]domain.SheetStats, error) {
	return f.stats, nil
}

type fakeBackup struct {
	orders map[string]domain.Order
}

func (f *fakeBackup) Get(orderID string) (domain.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return domain.Order{}, backup.ErrNotFound
	}
	return o, nil
}

func (f *fakeBackup) List() ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeBackup) Save(o domain.Order) error {
	if f.orders == nil {
		f.orders = map[string]domain.Order{}
	}
	f.orders[o.OrderID] = o
	return nil
}

type staticRows struct{ rows [][]string }

func (s staticRows) Read(context.Context, string) ([][]string, error) { return s.rows, nil }

func newTestRouter(t *testing.T, svc orders.ServiceInterface, bak OrderBackup) http.Handler {
	t.Helper()
	lg := logger.New("test")
	menuSvc := menu.NewService(staticRows{rows: [][]string{
		{"id", "name", "description", "price", "category"},
		{"1", "Pizza", "cheesy", "199", "Mains"},
	}}, nil, "menu1", time.Minute, lg)
	h := NewHandler(svc, menuSvc, bak, nil, nil, metrics.NewRegistry(),
		RestaurantInfo{Name: "Spice Garden", Tagline: "Great Food"}, "memory", lg)
	return Router(h, nil, []string{"*"}, lg)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRestaurantInfo(t *testing.T) {
	router := newTestRouter(t, &fakeOrders{}, &fakeBackup{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/restaurant-info", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	if data["name"] != "Spice Garden" || data["tagline"] != "Great Food" {
		t.Errorf("unexpected info: %v", data)
	}
}

func TestMenuEndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeOrders{}, &fakeBackup{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/menu", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["count"].(float64) != 1 || body["source"] != "sheet-menu1" {
		t.Errorf("count/source wrong: %v", body)
	}
}

func TestPlaceOrderAcceptsTextPlainBody(t *testing.T) {
	svc := &fakeOrders{placeResp: domain.PlaceOrderResponse{OrderID: "ORD-1", Total: 398}}
	router := newTestRouter(t, svc, &fakeBackup{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders",
		strings.NewReader(`{"tableNumber":"7","customerName":"Asha","mobile":"9876543210","items":[{"id":"1","name":"Pizza","price":199,"quantity":2}],"total":398}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	data := body["data"].(map[string]any)
	if data["orderId"] != "ORD-1" {
		t.Errorf("orderId = %v", data["orderId"])
	}
}

func TestPlaceOrderValidationMapsTo400(t *testing.T) {
	svc := &fakeOrders{placeErr: &orders.ValidationError{Msg: "table number is required"}}
	router := newTestRouter(t, svc, &fakeBackup{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"items":[]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false || body["error"] != "table number is required" {
		t.Errorf("body = %v", body)
	}
}

func TestPlaceOrderEmptyBody(t *testing.T) {
	router := newTestRouter(t, &fakeOrders{}, &fakeBackup{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestVerifyOrderNotFoundMapsTo404(t *testing.T) {
	svc := &fakeOrders{verifyErr: orders.ErrNoRecentOrders}
	router := newTestRouter(t, svc, &fakeBackup{})

	req := httptest.NewRequest(http.MethodPost, "/api/verify-order", strings.NewReader(`{"mobile":"9876543210"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetOrderFromBackup(t *testing.T) {
	bak := &fakeBackup{orders: map[string]domain.Order{
		"ORD-1": {OrderID: "ORD-1", TableNumber: "3", Total: 150},
	}}
	router := newTestRouter(t, &fakeOrders{}, bak)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/ORD-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/ORD-404", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing order status = %d", rec.Code)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	bak := &fakeBackup{orders: map[string]domain.Order{
		"ORD-1": {OrderID: "ORD-1", TableNumber: "3", Total: 150},
	}}
	router := newTestRouter(t, &fakeOrders{}, bak)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/orders/ORD-1",
		strings.NewReader(`{"status":"delivered"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	if data["status"] != "delivered" {
		t.Errorf("status = %v", data["status"])
	}
	if bak.orders["ORD-1"].Status != "delivered" {
		t.Errorf("status not persisted: %+v", bak.orders["ORD-1"])
	}
}

func TestUpdateOrderStatusValidation(t *testing.T) {
	bak := &fakeBackup{orders: map[string]domain.Order{
		"ORD-1": {OrderID: "ORD-1"},
	}}
	router := newTestRouter(t, &fakeOrders{}, bak)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/orders/ORD-1",
		strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty status should be rejected, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/orders/ORD-404",
		strings.NewReader(`{"status":"delivered"}`)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown order status = %d", rec.Code)
	}
}

func TestSheetStatsEndpoint(t *testing.T) {
	svc := &fakeOrders{stats: []domain.SheetStats{{Name: "Orders", RowCount: 42, PercentFull: 0.42}}}
	router := newTestRouter(t, svc, &fakeBackup{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sheets/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	stats := body["data"].([]any)
	if len(stats) != 1 {
		t.Fatalf("want one sheet, got %v", stats)
	}
}

func TestRetryWithoutQueueIs503(t *testing.T) {
	router := newTestRouter(t, &fakeOrders{}, &fakeBackup{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/notifications/retry", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeOrders{stats: []domain.SheetStats{{Name: "Orders"}}}, &fakeBackup{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	if data["status"] != "ok" || data["storage"] != "memory" {
		t.Errorf("health = %v", data)
	}
}

func TestRequestIDHeaderSet(t *testing.T) {
	router := newTestRouter(t, &fakeOrders{}, &fakeBackup{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("X-Request-Id header missing")
	}
}
