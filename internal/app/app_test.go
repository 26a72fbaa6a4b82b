package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/app"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/config"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/securenote"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/testutil"
)

func testConfig(t *testing.T, key string) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.DatabaseConfig{Path: ":memory:"},
		Market: config.MarketConfig{
			Timeout:         time.Second,
			Concurrency:     2,
			EquitySuffix:    ".T",
			DefaultCurrency: "USD",
		},
		Security: config.SecurityConfig{SecureNoteKey: key},
		Reminder: config.ReminderConfig{Enabled: true, Schedule: "0 9 1 * *"},
	}
}

// TestWire tests that every service is wired over one database.
func TestWire(t *testing.T) {
	t.Run("wires services and reports features", func(t *testing.T) {
		key, err := securenote.GenerateKey()
		if err != nil {
			t.Fatalf("GenerateKey() returned unexpected error: %v", err)
		}
		db := testutil.SetupTestDB(t)

		a, err := app.Wire(testConfig(t, key), db, testutil.NewMockYahooClient())
		if err != nil {
			t.Fatalf("Wire() returned unexpected error: %v", err)
		}

		info, err := a.SystemService.CheckVersion()
		if err != nil {
			t.Fatalf("CheckVersion() returned unexpected error: %v", err)
		}
		if !info.Features["secure_notes"] || !info.Features["reminder"] {
			t.Errorf("Expected both features enabled, got %v", info.Features)
		}

		if _, err := a.Reminder.Run(context.Background()); err != nil {
			t.Errorf("Reminder.Run() returned unexpected error: %v", err)
		}
	})

	t.Run("rejects a malformed secure note key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		if _, err := app.Wire(testConfig(t, "not-a-key"), db, nil); err == nil {
			t.Error("Expected error for malformed key")
		}
	})
}
