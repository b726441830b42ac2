package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"rideadmin/pkg/fare"
	"rideadmin/pkg/lock"
	"rideadmin/pkg/logger"
	"rideadmin/service"
	"rideadmin/storage"
	"rideadmin/storage/memory"
)

var now = time.Date(2024, 12, 19, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stg := memory.New(logger.NewNop())
	if err := storage.Seed(context.Background(), stg); err != nil {
		t.Fatalf("seed: %v", err)
	}
	clock := func() time.Time { return now }
	calc := fare.NewCalculator(fare.DefaultRefundPolicy(), time.UTC)
	svc := service.New(stg, calc, lock.NewLocal(), logger.NewNop(), service.WithClock(clock))
	return NewRouter(svc, logger.NewNop(), clock)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
}

func TestCategoryQuote(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/vehicle-categories/1/quote?miles=15&hours=2&mode=combined", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var q service.VehicleQuote
	if err := json.Unmarshal(w.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if q.Display != "$234.95" || q.Mode != fare.ModeCombined {
		t.Errorf("unexpected quote %+v", q)
	}
}

func TestInvalidInputIs400(t *testing.T) {
	r := newTestRouter(t)

	tests := []string{
		"/api/vehicle-categories/1/quote?miles=-3",
		"/api/vehicle-categories/1/quote?miles=abc",
		"/api/vehicle-categories/1/quote?mode=teleport",
		"/api/cities/1/quote?km=5&minutes=-1",
		"/api/cities/zero",
	}
	for _, path := range tests {
		w := do(r, http.MethodGet, path, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestMissingIsNotFound(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/cities/99", "/api/transactions/TXN999", "/api/bookings/42"} {
		w := do(r, http.MethodGet, path, "")
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, w.Code)
		}
	}
}

func TestDecideTwiceIsConflict(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/transactions/TXN002/approve", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodPost, "/api/transactions/TXN002/reject", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRefundFlow(t *testing.T) {
	r := newTestRouter(t)

	payment := `{"booking_id":"BOOK300","customer_id":"CUST300","customer_name":"Alan Turing",
		"amount":45.25,"payment_method":"Credit Card","ride_date":"2024-12-20","ride_time":"18:00"}`
	w := do(r, http.MethodPost, "/api/transactions", payment)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var p struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = do(r, http.MethodGet, "/api/transactions/"+p.ID+"/refund-quote", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"display":"$22.63"`) {
		t.Fatalf("unexpected refund quote %d: %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/transactions/"+p.ID+"/refund", `{"reason":"flight moved"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"status":"pending"`) {
		t.Errorf("expected pending refund, got %s", w.Body.String())
	}
}

func TestBookingTransitions(t *testing.T) {
	r := newTestRouter(t)

	// Seeded booking 2 is pending.
	if w := do(r, http.MethodPost, "/api/bookings/2/complete", ""); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 completing a pending booking, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/bookings/2/confirm", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200 confirming, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/bookings/2/cancel", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200 cancelling, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/bookings/2/confirm", ""); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 confirming a cancelled booking, got %d", w.Code)
	}
}

func TestExportCSV(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/transactions/export?status=pending", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("unexpected content type %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "TXN002,") {
		t.Errorf("unexpected export %q", w.Body.String())
	}
}

func TestRefundTwiceWithoutBookingIsConflict(t *testing.T) {
	r := newTestRouter(t)

	payment := `{"customer_name":"Walk-in","amount":100,"ride_date":"2024-12-21","ride_time":"12:00"}`
	w := do(r, http.MethodPost, "/api/transactions", payment)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var p struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if w := do(r, http.MethodPost, "/api/transactions/"+p.ID+"/refund", `{}`); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodPost, "/api/transactions/"+p.ID+"/refund", `{}`); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on a second refund, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCustomerEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/customers?status=all&q=email.com", "")
	var all []struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &all); err != nil || len(all) != 5 {
		t.Fatalf("expected 5 customers, got %d (%v): %s", len(all), err, w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/customers?status=banned", "")
	if !strings.Contains(w.Body.String(), "Tom Brown") || strings.Contains(w.Body.String(), "John Doe") {
		t.Errorf("unexpected banned list %s", w.Body.String())
	}
	if w := do(r, http.MethodGet, "/api/customers?status=gone", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %d", w.Code)
	}

	if w := do(r, http.MethodPost, "/api/customers/1/suspend", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200 suspending, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodPost, "/api/customers/1/suspend", ""); w.Code != http.StatusConflict {
		t.Errorf("expected 409 suspending twice, got %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/api/customers/1/activate", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200 activating, got %d", w.Code)
	}

	body := `{"name":"Grace Hopper","email":"grace@navy.mil","phone":"+1 555-0100"}`
	if w := do(r, http.MethodPost, "/api/customers", body); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodPost, "/api/customers", body); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate email, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/customers/99", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	r := newTestRouter(t)

	booking := `{"customer_name":"Jane Smith","customer_phone":"+1 234-567-8902","pickup_location":"Business District",
		"drop_location":"Shopping Mall","booking_date":"2024-12-22","booking_time":"10:00","vehicle_category":"Sedans","fare":89.5}`
	if w := do(r, http.MethodPost, "/api/bookings", booking); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w := do(r, http.MethodGet, "/api/notifications?unread=true", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"type":"booking_created"`) {
		t.Fatalf("expected booking notification, got %d: %s", w.Code, w.Body.String())
	}

	send := `{"recipient":"all_users","title":"Holiday hours","message":"Reduced fleet on Dec 25"}`
	if w := do(r, http.MethodPost, "/api/notifications", send); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodPost, "/api/notifications", `{"recipient":"all_users","title":"x"}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without a message, got %d", w.Code)
	}

	if w := do(r, http.MethodPost, "/api/notifications/1/read", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200 marking read, got %d: %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, "/api/notifications/stats", "")
	if !strings.Contains(w.Body.String(), `"total":2`) || !strings.Contains(w.Body.String(), `"unread":1`) {
		t.Errorf("unexpected stats %s", w.Body.String())
	}
	w = do(r, http.MethodPost, "/api/notifications/read-all", "")
	if !strings.Contains(w.Body.String(), `"marked":1`) {
		t.Errorf("unexpected read-all result %s", w.Body.String())
	}
	if w := do(r, http.MethodPost, "/api/notifications/9/read", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
