// Package app wires configuration, storage, market data and services together
// for the server and the command line tool.
package app

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/config"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/database"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/marketdata"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/repository"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/scheduler"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/securenote"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/service"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/valuation"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/yahoo"
)

// App holds the wired services of one process.
type App struct {
	Config *config.Config
	DB     *sql.DB

	SystemService    *service.SystemService
	AssetService     *service.AssetService
	ValuationService *service.ValuationService
	InventoryService *service.InventoryService
	HistoryService   *service.HistoryService
	Reminder         *scheduler.Reminder
}

// New opens the database, applies pending migrations and wires every service.
// client may be nil to use the live Yahoo Finance API.
func New(cfg *config.Config, client yahoo.Client) (*App, error) {
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	a, err := Wire(cfg, db, client)
	if err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// Wire builds the services over an already migrated database.
func Wire(cfg *config.Config, db *sql.DB, client yahoo.Client) (*App, error) {
	sealer, err := securenote.NewSealer(cfg.Security.SecureNoteKey)
	if err != nil {
		return nil, err
	}
	if !sealer.Enabled() {
		log.Printf("SECURE_NOTE_KEY not set; secure notes are disabled")
	}

	if client == nil {
		client = yahoo.NewFinanceClient(&http.Client{Timeout: cfg.Market.Timeout}, "")
	}
	resolver := marketdata.NewResolver(client, marketdata.Options{
		Timeout:         cfg.Market.Timeout,
		Concurrency:     cfg.Market.Concurrency,
		EquitySuffix:    cfg.Market.EquitySuffix,
		DefaultCurrency: cfg.Market.DefaultCurrency,
	})
	calculator := valuation.NewCalculator(resolver.DefaultCurrency())

	assetRepo := repository.NewAssetRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	inventoryService := service.NewInventoryService(assetRepo, snapshotRepo, resolver, calculator)

	return &App{
		Config: cfg,
		DB:     db,
		SystemService: service.NewSystemService(db, map[string]bool{
			"secure_notes": sealer.Enabled(),
			"reminder":     cfg.Reminder.Enabled,
		}),
		AssetService:     service.NewAssetService(assetRepo, sealer),
		ValuationService: service.NewValuationService(assetRepo, resolver, calculator),
		InventoryService: inventoryService,
		HistoryService:   service.NewHistoryService(snapshotRepo),
		Reminder:         scheduler.NewReminder(inventoryService, nil),
	}, nil
}

// Close releases the database connection.
func (a *App) Close() error {
	return a.DB.Close()
}
