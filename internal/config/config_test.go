package config_test

import (
	"testing"
	"time"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/config"
)

// TestLoad tests reading configuration from the environment.
//
// WHY: Misconfigured market settings must fail at startup instead of silently
// degrading every valuation to fallback prices.
func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"SERVER_HOST", "SERVER_PORT", "MARKET_TIMEOUT", "MARKET_CONCURRENCY",
			"CORS_ALLOWED_ORIGINS", "REMINDER_ENABLED", "MARKET_DEFAULT_CURRENCY"} {
			t.Setenv(key, "")
		}

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if cfg.Server.Addr != "localhost:5001" {
			t.Errorf("Expected addr localhost:5001, got %s", cfg.Server.Addr)
		}
		if cfg.Market.Timeout != 10*time.Second || cfg.Market.Concurrency != 4 {
			t.Errorf("Expected 10s/4, got %s/%d", cfg.Market.Timeout, cfg.Market.Concurrency)
		}
		if cfg.Market.DefaultCurrency != "USD" || cfg.Market.EquitySuffix != ".T" {
			t.Errorf("Unexpected market defaults: %+v", cfg.Market)
		}
		if !cfg.Reminder.Enabled || len(cfg.CORS.AllowedOrigins) != 2 {
			t.Errorf("Unexpected defaults: %+v %+v", cfg.Reminder, cfg.CORS)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("SERVER_HOST", "0.0.0.0")
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("MARKET_TIMEOUT", "3s")
		t.Setenv("MARKET_CONCURRENCY", "8")
		t.Setenv("MARKET_DEFAULT_CURRENCY", "eur")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
		t.Setenv("REMINDER_ENABLED", "false")

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if cfg.Server.Addr != "0.0.0.0:8080" {
			t.Errorf("Expected addr 0.0.0.0:8080, got %s", cfg.Server.Addr)
		}
		if cfg.Market.Timeout != 3*time.Second || cfg.Market.Concurrency != 8 || cfg.Market.DefaultCurrency != "EUR" {
			t.Errorf("Unexpected market config: %+v", cfg.Market)
		}
		if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
			t.Errorf("Unexpected origins: %v", cfg.CORS.AllowedOrigins)
		}
		if cfg.Reminder.Enabled {
			t.Error("Expected reminder disabled")
		}
	})

	t.Run("invalid values fail", func(t *testing.T) {
		cases := map[string]string{
			"MARKET_TIMEOUT":     "ten seconds",
			"MARKET_CONCURRENCY": "0",
			"REMINDER_ENABLED":   "maybe",
		}
		for key, value := range cases {
			t.Run(key, func(t *testing.T) {
				t.Setenv(key, value)
				if _, err := config.Load(); err == nil {
					t.Errorf("Expected error for %s=%s", key, value)
				}
			})
		}
	})
}
