package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/api/middleware"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/config"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	assetService *service.AssetService,
	valuationService *service.ValuationService,
	inventoryService *service.InventoryService,
	historyService *service.HistoryService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/groups/{groupId}", func(r chi.Router) {
			r.Use(custommiddleware.ValidateGroupID)

			r.Route("/assets", func(r chi.Router) {
				assetHandler := handlers.NewAssetHandler(assetService, valuationService)
				r.Get("/", assetHandler.Assets)
				r.Post("/", assetHandler.CreateAsset)
				r.Get("/overview", assetHandler.Overview)

				r.Route("/{assetId}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateAssetID)
					r.Get("/", assetHandler.Asset)
					r.Put("/", assetHandler.UpdateAsset)
					r.Delete("/", assetHandler.DeleteAsset)
					r.Get("/secure-note", assetHandler.SecureNote)
				})
			})

			r.Route("/inventory", func(r chi.Router) {
				inventoryHandler := handlers.NewInventoryHandler(inventoryService, historyService)
				r.Get("/", inventoryHandler.Preview)
				r.Put("/", inventoryHandler.Save)
				r.Get("/status", inventoryHandler.Status)
				r.Get("/history", inventoryHandler.History)
				r.Get("/history/chart-data", inventoryHandler.ChartData)
				r.Get("/history/chart", inventoryHandler.Chart)
			})
		})
	})

	return r
}
