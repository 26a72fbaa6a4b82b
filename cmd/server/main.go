package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/api"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/app"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/config"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/scheduler"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database, migrate and wire services
	a, err := app.New(cfg, nil)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer a.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Quarterly inventory reminder
	var reminders *scheduler.Scheduler
	if cfg.Reminder.Enabled {
		reminders, err = scheduler.New(cfg.Reminder.Schedule, a.Reminder)
		if err != nil {
			log.Fatalf("Failed to schedule reminder: %v", err)
		}
		reminders.Start()
		log.Printf("Inventory reminder scheduled (%s), next run %s", cfg.Reminder.Schedule, reminders.Next().Format(time.RFC3339))
	}

	// Create router
	router := api.NewRouter(a.SystemService, a.AssetService, a.ValuationService, a.InventoryService, a.HistoryService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server %s on %s", version.Version, cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if reminders != nil {
		select {
		case <-reminders.Stop().Done():
		case <-ctx.Done():
		}
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
