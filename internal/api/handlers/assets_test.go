package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/testutil"
)

func setupAssetHandler(t *testing.T) (*AssetHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	yahoo := testutil.NewMockYahooClient().WithPrice("USDJPY=X", 150)
	return NewAssetHandler(
		testutil.NewTestAssetService(t, db),
		testutil.NewTestValuationService(t, db, yahoo, handlerToday),
	), db
}

func TestAssetHandler_CreateAndSecureNote(t *testing.T) {
	handler, _ := setupAssetHandler(t)
	groupID := testutil.MakeID()

	body := request.CreateAssetRequest{
		Category:      "financial",
		Subtype:       "deposit",
		Description:   "Savings",
		Amount:        decimal.NewFromInt(5000),
		ValuationUnit: "yen",
		SecureNote:    "account 123-456",
		ActorID:       "alice",
	}
	w := httptest.NewRecorder()
	handler.CreateAsset(w, testutil.NewJSONRequestWithURLParams(http.MethodPost, "/assets", body,
		map[string]string{"groupId": groupID}))

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "123-456") {
		t.Error("Expected secure note to be left out of the response")
	}

	var created AssetResponse
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&created)
	if !created.HasSecureNote || created.ID == "" {
		t.Fatalf("Expected created asset with secure note flag, got %+v", created)
	}

	w = httptest.NewRecorder()
	handler.SecureNote(w, testutil.NewRequestWithURLParams(http.MethodGet, "/secure-note",
		map[string]string{"groupId": groupID, "assetId": created.ID}))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var note SecureNoteResponse
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&note)
	if note.SecureNote != "account 123-456" {
		t.Errorf("Expected decrypted note, got %q", note.SecureNote)
	}
}

func TestAssetHandler_CreateAsset_Validation(t *testing.T) {
	handler, db := setupAssetHandler(t)

	w := httptest.NewRecorder()
	handler.CreateAsset(w, testutil.NewJSONRequestWithURLParams(http.MethodPost, "/assets",
		request.CreateAssetRequest{Category: "crypto", ValuationUnit: "yen"},
		map[string]string{"groupId": testutil.MakeID()}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	var resp errorEnvelope[map[string]string]
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&resp)
	for _, field := range []string{"category", "subtype", "description"} {
		if resp.Details[field] == "" {
			t.Errorf("Expected %s field error, got %v", field, resp.Details)
		}
	}
	testutil.AssertRowCount(t, db, "asset", 0)
}

func TestAssetHandler_UpdateAndDelete(t *testing.T) {
	handler, db := setupAssetHandler(t)
	asset := testutil.CreateYenAsset(t, db, testutil.MakeID(), "5000")
	params := map[string]string{"groupId": asset.GroupID, "assetId": asset.ID}

	t.Run("update", func(t *testing.T) {
		desc := "Emergency fund"
		w := httptest.NewRecorder()
		handler.UpdateAsset(w, testutil.NewJSONRequestWithURLParams(http.MethodPut, "/asset",
			request.UpdateAssetRequest{Description: &desc, ActorID: "bob"}, params))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var updated AssetResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&updated)
		if updated.Description != desc || updated.UpdatedBy != "bob" {
			t.Errorf("Expected updated description and actor, got %+v", updated)
		}
	})

	t.Run("update of unknown asset returns 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UpdateAsset(w, testutil.NewJSONRequestWithURLParams(http.MethodPut, "/asset",
			request.UpdateAssetRequest{}, map[string]string{"groupId": asset.GroupID, "assetId": testutil.MakeID()}))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.DeleteAsset(w, testutil.NewRequestWithURLParams(http.MethodDelete, "/asset", params))
		if w.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d", w.Code)
		}

		w = httptest.NewRecorder()
		handler.DeleteAsset(w, testutil.NewRequestWithURLParams(http.MethodDelete, "/asset", params))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404 on second delete, got %d", w.Code)
		}
	})
}

func TestAssetHandler_ListAndOverview(t *testing.T) {
	handler, db := setupAssetHandler(t)
	groupID := testutil.MakeID()
	testutil.CreateForeignCurrencyAsset(t, db, groupID, "USD", "100")
	testutil.CreateYenAsset(t, db, groupID, "5000")
	params := map[string]string{"groupId": groupID}

	t.Run("list", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Assets(w, testutil.NewRequestWithURLParams(http.MethodGet, "/assets", params))

		var assets []AssetResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&assets)
		if len(assets) != 2 {
			t.Errorf("Expected 2 assets, got %d", len(assets))
		}
	})

	t.Run("overview", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Overview(w, testutil.NewRequestWithURLParams(http.MethodGet, "/assets/overview", params))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		var overview model.HoldingsOverview
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&overview)
		if overview.TotalYen.String() != "20000" {
			t.Errorf("Expected total 20000, got %s", overview.TotalYen)
		}
	})
}
