package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/service"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/validation"
)

// AssetHandler handles asset registry HTTP requests
type AssetHandler struct {
	assetService     *service.AssetService
	valuationService *service.ValuationService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assetService *service.AssetService, valuationService *service.ValuationService) *AssetHandler {
	return &AssetHandler{
		assetService:     assetService,
		valuationService: valuationService,
	}
}

// AssetResponse is an asset as returned by the API. The secure note itself is never included.
type AssetResponse struct {
	model.Asset
	HasSecureNote bool `json:"hasSecureNote"`
}

func toAssetResponse(a model.Asset) AssetResponse {
	return AssetResponse{Asset: a, HasSecureNote: a.HasSecureNote()}
}

// SecureNoteResponse carries a decrypted secure note
type SecureNoteResponse struct {
	AssetID    string `json:"assetId"`
	SecureNote string `json:"secureNote"`
}

// Assets handles GET requests listing a group's assets.
//
// Endpoint: GET /api/groups/{groupId}/assets
// Response: 200 OK with []AssetResponse
// Error: 500 Internal Server Error if retrieval fails
func (h *AssetHandler) Assets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assetService.ListAssets(r.Context(), chi.URLParam(r, "groupId"))
	if err != nil {
		response.RespondServiceError(w, err, "failed to retrieve assets")
		return
	}

	resp := make([]AssetResponse, len(assets))
	for i, a := range assets {
		resp[i] = toAssetResponse(a)
	}
	respondJSON(w, http.StatusOK, resp)
}

// Asset handles GET requests for a single asset.
//
// Endpoint: GET /api/groups/{groupId}/assets/{assetId}
// Response: 200 OK with AssetResponse
// Error: 404 Not Found if the asset does not belong to the group
func (h *AssetHandler) Asset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.assetService.GetAsset(r.Context(), chi.URLParam(r, "groupId"), chi.URLParam(r, "assetId"))
	if err != nil {
		response.RespondServiceError(w, err, "failed to retrieve asset")
		return
	}
	respondJSON(w, http.StatusOK, toAssetResponse(asset))
}

// CreateAsset handles POST requests registering an asset.
//
// Endpoint: POST /api/groups/{groupId}/assets
// Request Body: CreateAssetRequest
// Response: 201 Created with AssetResponse
// Error: 400 Bad Request if the body is invalid or validation fails
func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAssetRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateAsset(req); err != nil {
		response.RespondServiceError(w, err, "validation failed")
		return
	}

	asset, err := h.assetService.CreateAsset(r.Context(), chi.URLParam(r, "groupId"), req)
	if err != nil {
		response.RespondServiceError(w, err, "failed to create asset")
		return
	}

	respondJSON(w, http.StatusCreated, toAssetResponse(asset))
}

// UpdateAsset handles PUT requests editing an asset. All fields are optional.
//
// Endpoint: PUT /api/groups/{groupId}/assets/{assetId}
// Request Body: UpdateAssetRequest
// Response: 200 OK with AssetResponse
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the asset does not belong to the group
func (h *AssetHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateAssetRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateAsset(req); err != nil {
		response.RespondServiceError(w, err, "validation failed")
		return
	}

	asset, err := h.assetService.UpdateAsset(r.Context(), chi.URLParam(r, "groupId"), chi.URLParam(r, "assetId"), req)
	if err != nil {
		response.RespondServiceError(w, err, "failed to update asset")
		return
	}

	respondJSON(w, http.StatusOK, toAssetResponse(asset))
}

// DeleteAsset handles DELETE requests. Stored snapshots keep their items.
//
// Endpoint: DELETE /api/groups/{groupId}/assets/{assetId}
// Response: 204 No Content
// Error: 404 Not Found if the asset does not belong to the group
func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := h.assetService.DeleteAsset(r.Context(), chi.URLParam(r, "groupId"), chi.URLParam(r, "assetId")); err != nil {
		response.RespondServiceError(w, err, "failed to delete asset")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// SecureNote handles GET requests for an asset's decrypted secure note.
//
// Endpoint: GET /api/groups/{groupId}/assets/{assetId}/secure-note
// Response: 200 OK with SecureNoteResponse
// Error: 404 Not Found if the asset or its note does not exist
// Error: 503 Service Unavailable if no key is configured
func (h *AssetHandler) SecureNote(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetId")
	note, err := h.assetService.GetSecureNote(r.Context(), chi.URLParam(r, "groupId"), assetID)
	if err != nil {
		response.RespondServiceError(w, err, "failed to read secure note")
		return
	}
	respondJSON(w, http.StatusOK, SecureNoteResponse{AssetID: assetID, SecureNote: note})
}

// Overview handles GET requests valuing every asset at current market prices.
//
// Endpoint: GET /api/groups/{groupId}/assets/overview
// Response: 200 OK with HoldingsOverview
func (h *AssetHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.valuationService.Overview(r.Context(), chi.URLParam(r, "groupId"))
	if err != nil {
		response.RespondServiceError(w, err, "failed to value assets")
		return
	}
	respondJSON(w, http.StatusOK, overview)
}
