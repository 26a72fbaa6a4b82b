package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/api"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/config"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/testutil"
)

// TestRouter_InventoryFlow drives the registered routes end to end.
//
// WHY: Route patterns, parameter names and middleware ordering only meet in
// the router; handler tests bypass all three.
func TestRouter_InventoryFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	now := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)
	yahoo := testutil.NewMockYahooClient().WithPrice("USDJPY=X", 150)
	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}}

	router := api.NewRouter(
		testutil.NewTestSystemService(t, db),
		testutil.NewTestAssetService(t, db),
		testutil.NewTestValuationService(t, db, yahoo, now),
		testutil.NewTestInventoryService(t, db, yahoo, now),
		testutil.NewTestHistoryService(t, db),
		cfg,
	)

	groupID := testutil.MakeID()
	base := "/api/groups/" + groupID

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		t.Helper()
		var buf bytes.Buffer
		if body != nil {
			if err := json.NewEncoder(&buf).Encode(body); err != nil {
				t.Fatalf("Failed to encode body: %v", err)
			}
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodPost, base+"/assets", map[string]any{
		"category": "financial", "subtype": "foreign-currency", "symbolCode": "USD",
		"description": "Dollar account", "amount": "100", "valuationUnit": "foreign-currency-unit", "actorId": "alice",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create asset: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var asset struct {
		ID string `json:"id"`
	}
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&asset)

	w = do(http.MethodPut, base+"/inventory", map[string]any{
		"month": "2026-09", "actorId": "alice",
		"items": []map[string]any{{"assetId": asset.ID, "rawAmount": "100"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("save inventory: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	checks := []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/api/system/health", http.StatusOK},
		{http.MethodGet, base + "/assets", http.StatusOK},
		{http.MethodGet, base + "/assets/overview", http.StatusOK},
		{http.MethodGet, base + "/assets/" + asset.ID, http.StatusOK},
		{http.MethodGet, base + "/assets/" + asset.ID + "/secure-note", http.StatusNotFound},
		{http.MethodGet, base + "/assets/not-a-uuid", http.StatusBadRequest},
		{http.MethodGet, "/api/groups/not-a-uuid/assets", http.StatusBadRequest},
		{http.MethodGet, base + "/inventory?month=2026-09", http.StatusOK},
		{http.MethodGet, base + "/inventory?month=2026-12", http.StatusConflict},
		{http.MethodGet, base + "/inventory/status", http.StatusOK},
		{http.MethodGet, base + "/inventory/history", http.StatusOK},
		{http.MethodGet, base + "/inventory/history/chart-data", http.StatusOK},
		{http.MethodGet, base + "/inventory/history/chart", http.StatusOK},
	}
	for _, c := range checks {
		t.Run(c.method+" "+c.path, func(t *testing.T) {
			if w := do(c.method, c.path, nil); w.Code != c.status {
				t.Errorf("Expected %d, got %d: %s", c.status, w.Code, w.Body.String())
			}
		})
	}
}
