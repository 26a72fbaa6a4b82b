package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/marketdata"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/repository"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/securenote"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/service"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/valuation"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/yahoo"
)

// EquitySuffix is the exchange suffix used by test resolvers for bare Tokyo codes.
const EquitySuffix = ".T"

// FixedClock returns a clock that always reports now.
func FixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

// NewTestResolver creates a market data resolver over client with a pinned clock.
func NewTestResolver(t *testing.T, client yahoo.Client, now time.Time) *marketdata.Resolver {
	t.Helper()

	return marketdata.NewResolver(client, marketdata.Options{
		Timeout:         2 * time.Second,
		Concurrency:     4,
		EquitySuffix:    EquitySuffix,
		DefaultCurrency: "USD",
		Now:             FixedClock(now),
	})
}

// NewTestInventoryService wires an InventoryService over the test database,
// a mock market data client and a pinned "today".
func NewTestInventoryService(t *testing.T, db *sql.DB, client yahoo.Client, now time.Time) *service.InventoryService {
	t.Helper()

	resolver := NewTestResolver(t, client, now)
	return service.NewInventoryService(
		repository.NewAssetRepository(db),
		repository.NewSnapshotRepository(db),
		resolver,
		valuation.NewCalculator(resolver.DefaultCurrency()),
	).WithClock(FixedClock(now))
}

func NewTestHistoryService(t *testing.T, db *sql.DB) *service.HistoryService {
	t.Helper()

	return service.NewHistoryService(repository.NewSnapshotRepository(db))
}

func NewTestValuationService(t *testing.T, db *sql.DB, client yahoo.Client, now time.Time) *service.ValuationService {
	t.Helper()

	resolver := NewTestResolver(t, client, now)
	return service.NewValuationService(
		repository.NewAssetRepository(db),
		resolver,
		valuation.NewCalculator(resolver.DefaultCurrency()),
	).WithClock(FixedClock(now))
}

// NewTestAssetService wires an AssetService with a freshly generated secure note key.
func NewTestAssetService(t *testing.T, db *sql.DB) *service.AssetService {
	t.Helper()

	return service.NewAssetService(repository.NewAssetRepository(db), NewTestSealer(t))
}

// NewTestSealer returns a Sealer with a freshly generated key.
func NewTestSealer(t *testing.T) *securenote.Sealer {
	t.Helper()

	key, err := securenote.GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate secure note key: %v", err)
	}
	sealer, err := securenote.NewSealer(key)
	if err != nil {
		t.Fatalf("Failed to create sealer: %v", err)
	}
	return sealer
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, map[string]bool{"secure_notes": true})
}

// MakeID generates a unique UUID string for testing.
func MakeID() string {
	return uuid.New().String()
}

// MakeDescription generates a unique asset description for testing.
//
// Example usage:
//
//	desc := testutil.MakeDescription("Savings")
//	// Returns: "Savings ABC123"
func MakeDescription(base string) string {
	if base == "" {
		base = "Asset"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

// CommonCurrencies contains foreign currency codes used by randomised tests.
var CommonCurrencies = []string{"USD", "EUR", "GBP", "CAD", "CHF", "AUD"}

// RandomCurrency returns a random currency from CommonCurrencies.
func RandomCurrency() string {
	//nolint:gosec // G404: Using math/rand for test data generation is acceptable
	return CommonCurrencies[rand.Intn(len(CommonCurrencies))]
}
