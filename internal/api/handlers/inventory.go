package handlers

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/calendar"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/report"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/service"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/validation"
)

// InventoryHandler handles quarterly inventory HTTP requests
type InventoryHandler struct {
	inventoryService *service.InventoryService
	historyService   *service.HistoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *service.InventoryService, historyService *service.HistoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		historyService:   historyService,
	}
}

// Preview handles GET requests for the prefilled inventory of a quarter.
// Without a month the latest allowed quarter is used.
//
// Endpoint: GET /api/groups/{groupId}/inventory?month=YYYY-MM
// Response: 200 OK with InventoryPreview
// Error: 400 Bad Request if month cannot be parsed
// Error: 409 Conflict with the latest allowed quarter if month is in a future quarter
func (h *InventoryHandler) Preview(w http.ResponseWriter, r *http.Request) {
	quarter := h.inventoryService.LatestAllowedQuarter()
	if month := r.URL.Query().Get("month"); month != "" {
		parsed, err := calendar.ParseYearMonth(month)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidMonth.Error(), err.Error())
			return
		}
		quarter = parsed
	}

	preview, err := h.inventoryService.Preview(r.Context(), chi.URLParam(r, "groupId"), quarter)
	if err != nil {
		response.RespondServiceError(w, err, "failed to prepare inventory")
		return
	}
	respondJSON(w, http.StatusOK, preview)
}

// Save handles PUT requests storing the confirmed inventory of a quarter.
// Saving a quarter that already has a snapshot replaces it.
//
// Endpoint: PUT /api/groups/{groupId}/inventory
// Request Body: SaveInventoryRequest
// Response: 200 OK with the stored InventorySnapshot
// Error: 400 Bad Request if the body is invalid
// Error: 409 Conflict if month is in a future quarter
func (h *InventoryHandler) Save(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SaveInventoryRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSaveInventory(req); err != nil {
		response.RespondServiceError(w, err, "validation failed")
		return
	}

	quarter, err := calendar.ParseYearMonth(req.Month)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidMonth.Error(), err.Error())
		return
	}

	items := make([]model.SaveItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = model.SaveItem{AssetID: item.AssetID, RawAmount: item.RawAmount}
	}

	snapshot, err := h.inventoryService.Save(r.Context(), chi.URLParam(r, "groupId"), quarter, items, req.ActorID)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToSaveSnapshot.Error())
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// Status handles GET requests telling whether the current quarter's inventory is done.
//
// Endpoint: GET /api/groups/{groupId}/inventory/status
// Response: 200 OK with InventoryStatus
func (h *InventoryHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.inventoryService.Status(r.Context(), chi.URLParam(r, "groupId"))
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToRetrieveSnapshots.Error())
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// History handles GET requests listing stored snapshots, newest first.
//
// Endpoint: GET /api/groups/{groupId}/inventory/history?from=YYYY-MM&to=YYYY-MM
// Response: 200 OK with []HistoryEntry
func (h *InventoryHandler) History(w http.ResponseWriter, r *http.Request) {
	filters, ok := historyFilters(w, r)
	if !ok {
		return
	}

	entries, err := h.historyService.List(r.Context(), chi.URLParam(r, "groupId"), filters)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToRetrieveSnapshots.Error())
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// ChartData handles GET requests for chart-ready series, oldest first.
//
// Endpoint: GET /api/groups/{groupId}/inventory/history/chart-data?from=YYYY-MM&to=YYYY-MM
// Response: 200 OK with ChartData
func (h *InventoryHandler) ChartData(w http.ResponseWriter, r *http.Request) {
	filters, ok := historyFilters(w, r)
	if !ok {
		return
	}

	data, err := h.historyService.History(r.Context(), chi.URLParam(r, "groupId"), filters)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToRetrieveSnapshots.Error())
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// Chart handles GET requests for an HTML page with the history chart.
//
// Endpoint: GET /api/groups/{groupId}/inventory/history/chart
// Response: 200 OK with text/html
func (h *InventoryHandler) Chart(w http.ResponseWriter, r *http.Request) {
	filters, ok := historyFilters(w, r)
	if !ok {
		return
	}

	data, err := h.historyService.History(r.Context(), chi.URLParam(r, "groupId"), filters)
	if err != nil {
		response.RespondServiceError(w, err, apperrors.ErrFailedToRetrieveSnapshots.Error())
		return
	}

	var buf bytes.Buffer
	if err := report.RenderChart(&buf, data, report.ChartOptions{}); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to render chart", err.Error())
		return
	}

	response.RespondHTML(w, http.StatusOK, buf.Bytes())
}

// historyFilters parses the from/to query parameters, responding 400 when they are invalid.
func historyFilters(w http.ResponseWriter, r *http.Request) (model.HistoryFilters, bool) {
	filters, err := request.ParseHistoryFilters(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filter parameters", err.Error())
		return model.HistoryFilters{}, false
	}
	return filters, true
}
