package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/IshwariGadewar/SmartBasket/pkg/aggregator"
	"github.com/IshwariGadewar/SmartBasket/pkg/catalog"
	"github.com/IshwariGadewar/SmartBasket/pkg/platforms"
	"github.com/IshwariGadewar/SmartBasket/pkg/search"
	"github.com/IshwariGadewar/SmartBasket/pkg/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	svc := &search.Service{
		Aggregator: aggregator.New(platforms.NewRegistry()),
		DB:         db,
	}
	return New(db, svc, nil, "", "")
}

func seedProduct(t *testing.T, db *storage.DB, price float64) int64 {
	t.Helper()
	id, err := db.UpsertListing(context.Background(), catalog.Listing{
		Platform:    catalog.PlatformAmazon,
		Name:        "Fresh Banana 1kg",
		Price:       price,
		SearchQuery: "banana",
		AreaCode:    "110001",
		ScrapedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return id
}

func TestHandleAvailability(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/availability?area=110003", nil)
	rec := httptest.NewRecorder()
	s.handleAvailability(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var body struct {
		Availability map[string]bool `json:"availability"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Availability) != 4 {
		t.Fatalf("got %d platforms, want 4: %v", len(body.Availability), body.Availability)
	}
	if !body.Availability[catalog.PlatformAmazon] || body.Availability[catalog.PlatformBlinkit] {
		t.Errorf("coverage wrong for 110003: %v", body.Availability)
	}
}

func TestHandleAvailabilityRejectsBadArea(t *testing.T) {
	s := newTestServer(t)

	for _, area := range []string{"", "12345", "abcdef", "1100011"} {
		req := httptest.NewRequest(http.MethodGet, "/api/availability?area="+area, nil)
		rec := httptest.NewRecorder()
		s.handleAvailability(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("area %q: status = %d, want 400", area, rec.Code)
		}
	}
}

func TestHandleSuggestionsEchoFallback(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/suggestions?query=banana", nil)
	rec := httptest.NewRecorder()
	s.handleSuggestions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Suggestions) != 1 || body.Suggestions[0] != "banana" {
		t.Errorf("suggestions = %v, want the query echoed back", body.Suggestions)
	}
}

func TestHandleSearchInvalidRequest(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"query":""}`))
	rec := httptest.NewRecorder()
	s.handleSearch(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAlertLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	pid := seedProduct(t, s.DB, 80)

	// Create.
	body := `{"user_ref":"user-1","product_id":` + strconv.FormatInt(pid, 10) + `,"target_price":70}`
	req := httptest.NewRequest(http.MethodPost, "/api/alerts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleCreateAlert(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var created struct {
		AlertID int64 `json:"alert_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil || created.AlertID == 0 {
		t.Fatalf("create response: %v %s", err, rec.Body)
	}

	// List.
	req = httptest.NewRequest(http.MethodGet, "/api/alerts?user=user-1", nil)
	rec = httptest.NewRecorder()
	s.handleListAlerts(rec, req)
	var listed struct {
		Alerts []storage.Alert `json:"alerts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil || len(listed.Alerts) != 1 {
		t.Fatalf("list response: %v %s", err, rec.Body)
	}

	// Deactivate.
	req = httptest.NewRequest(http.MethodPost, "/api/alerts/1/active", strings.NewReader(`{"active":false}`))
	req.SetPathValue("id", strconv.FormatInt(created.AlertID, 10))
	rec = httptest.NewRecorder()
	s.handleSetAlertActive(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate status = %d", rec.Code)
	}

	// Delete, wrong user first.
	req = httptest.NewRequest(http.MethodDelete, "/api/alerts/1?user=intruder", nil)
	req.SetPathValue("id", strconv.FormatInt(created.AlertID, 10))
	rec = httptest.NewRecorder()
	s.handleDeleteAlert(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cross-user delete status = %d, want 404", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/alerts/1?user=user-1", nil)
	req.SetPathValue("id", strconv.FormatInt(created.AlertID, 10))
	rec = httptest.NewRecorder()
	s.handleDeleteAlert(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestHandleGetProductNotFound(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products/42", nil)
	req.SetPathValue("id", "42")
	rec := httptest.NewRecorder()
	s.handleGetProduct(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandlePriceHistoryEmpty(t *testing.T) {
	s := newTestServer(t)
	pid := seedProduct(t, s.DB, 80)

	req := httptest.NewRequest(http.MethodGet, "/api/products/1/history", nil)
	req.SetPathValue("id", strconv.FormatInt(pid, 10))
	rec := httptest.NewRecorder()
	s.handlePriceHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"price_history":[]`) {
		t.Errorf("empty history should encode as [], got %s", rec.Body)
	}
}

func TestBasicAuth(t *testing.T) {
	s := newTestServer(t)
	s.Username = "admin"
	s.Password = "secret"

	handler := s.basicAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/availability?area=110001", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no credentials: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/availability?area=110001", nil)
	req.SetBasicAuth("admin", "secret")
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid credentials: status = %d, want 200", rec.Code)
	}
}

