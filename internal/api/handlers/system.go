package handlers

import (
	"net/http"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/service"
)

// SystemHandler serves the /api/system endpoints.
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{systemService: systemService}
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// healthOf maps a database health check result to its status code and body.
func healthOf(err error) (int, HealthResponse) {
	if err != nil {
		return http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		}
	}
	return http.StatusOK, HealthResponse{Status: "healthy", Database: "connected"}
}

// Health reports whether the inventory database is reachable.
//
// Endpoint: GET /api/system/health
// Response: 200 OK, or 503 Service Unavailable when the database cannot be pinged
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	status, body := healthOf(h.systemService.CheckHealth())
	response.RespondJSON(w, status, body)
}

// Version reports the application version, the applied schema version, which optional
// features (secure notes, the quarterly reminder) are enabled, and pending migrations.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with model.VersionInfo
// Error: 500 Internal Server Error if the schema version cannot be read
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	info, err := h.systemService.CheckVersion()
	if err != nil {
		response.RespondServiceError(w, err, "failed to get version information")
		return
	}
	response.RespondJSON(w, http.StatusOK, info)
}
