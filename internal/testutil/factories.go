package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/repository"
)

// AssetBuilder provides a fluent interface for creating test assets.
//
// Example usage:
//
//	// Simple creation with defaults (a 1000 yen deposit)
//	asset := testutil.NewAsset(groupID).Create(t, db)
//
//	// 100 Toyota shares
//	asset := testutil.NewAsset(groupID).Equity("7203", "100").Create(t, db)
type AssetBuilder struct {
	asset model.Asset
}

// createdSeq keeps registration order stable between assets built in the same instant.
var createdSeq time.Duration

// NewAsset creates an AssetBuilder with sensible defaults.
func NewAsset(groupID string) *AssetBuilder {
	createdSeq += time.Millisecond
	created := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).Add(createdSeq)
	return &AssetBuilder{asset: model.Asset{
		ID:          MakeID(),
		GroupID:     groupID,
		Category:    model.CategoryFinancial,
		Subtype:     "deposit",
		Description: MakeDescription("Test deposit"),
		Amount:      decimal.NewFromInt(1000),
		Unit:        model.UnitYen,
		CreatedBy:   "test-user",
		UpdatedBy:   "test-user",
		CreatedAt:   created,
		UpdatedAt:   created,
	}}
}

// WithID sets a custom ID.
func (b *AssetBuilder) WithID(id string) *AssetBuilder {
	b.asset.ID = id
	return b
}

// WithCategory sets the category.
func (b *AssetBuilder) WithCategory(c model.Category) *AssetBuilder {
	b.asset.Category = c
	return b
}

// WithSubtype sets the subtype.
func (b *AssetBuilder) WithSubtype(subtype string) *AssetBuilder {
	b.asset.Subtype = subtype
	return b
}

// WithSymbol sets the symbol code.
func (b *AssetBuilder) WithSymbol(symbol string) *AssetBuilder {
	b.asset.SymbolCode = symbol
	return b
}

// WithDescription sets the description.
func (b *AssetBuilder) WithDescription(desc string) *AssetBuilder {
	b.asset.Description = desc
	return b
}

// WithAmount sets the registered amount from a decimal string.
func (b *AssetBuilder) WithAmount(amount string) *AssetBuilder {
	b.asset.Amount = decimal.RequireFromString(amount)
	return b
}

// WithUnit sets the valuation unit.
func (b *AssetBuilder) WithUnit(unit model.ValuationUnit) *AssetBuilder {
	b.asset.Unit = unit
	return b
}

// WithSecureNote stores an already encrypted note.
func (b *AssetBuilder) WithSecureNote(token string) *AssetBuilder {
	b.asset.SecureNote = token
	return b
}

// Equity makes the asset a share holding valued by quantity.
func (b *AssetBuilder) Equity(symbol, shares string) *AssetBuilder {
	b.asset.Category = model.CategoryFinancial
	b.asset.Subtype = model.SubtypeEquity
	b.asset.SymbolCode = symbol
	b.asset.Unit = model.UnitQuantity
	b.asset.Amount = decimal.RequireFromString(shares)
	return b
}

// ForeignCurrency makes the asset a foreign-currency holding.
func (b *AssetBuilder) ForeignCurrency(code, amount string) *AssetBuilder {
	b.asset.Category = model.CategoryFinancial
	b.asset.Subtype = model.SubtypeForeignCurrency
	b.asset.SymbolCode = code
	b.asset.Unit = model.UnitForeignCurrency
	b.asset.Amount = decimal.RequireFromString(amount)
	return b
}

// Liability makes the asset a yen-denominated debt. Amounts are stored as given.
func (b *AssetBuilder) Liability(amount string) *AssetBuilder {
	b.asset.Category = model.CategoryLiability
	b.asset.Subtype = "loan"
	b.asset.Unit = model.UnitYen
	b.asset.Amount = decimal.RequireFromString(amount)
	return b
}

// Build returns the asset without storing it.
func (b *AssetBuilder) Build() model.Asset {
	return b.asset
}

// Create stores the asset and returns it.
func (b *AssetBuilder) Create(t *testing.T, db *sql.DB) model.Asset {
	t.Helper()

	if err := repository.NewAssetRepository(db).Insert(context.Background(), b.asset); err != nil {
		t.Fatalf("Failed to create test asset: %v", err)
	}

	return b.asset
}

// Convenience functions

// CreateYenAsset stores a yen-denominated financial asset.
//
// Example usage:
//
//	deposit := testutil.CreateYenAsset(t, db, groupID, "5000")
func CreateYenAsset(t *testing.T, db *sql.DB, groupID, amount string) model.Asset {
	t.Helper()
	return NewAsset(groupID).WithAmount(amount).Create(t, db)
}

// CreateEquityAsset stores a share holding.
func CreateEquityAsset(t *testing.T, db *sql.DB, groupID, symbol, shares string) model.Asset {
	t.Helper()
	return NewAsset(groupID).Equity(symbol, shares).Create(t, db)
}

// CreateForeignCurrencyAsset stores a foreign-currency holding.
func CreateForeignCurrencyAsset(t *testing.T, db *sql.DB, groupID, code, amount string) model.Asset {
	t.Helper()
	return NewAsset(groupID).ForeignCurrency(code, amount).Create(t, db)
}

// SnapshotBuilder provides a fluent interface for creating stored snapshots.
// Totals are derived from the items.
//
// Example usage:
//
//	snapshot := testutil.NewSnapshot(groupID, quarter).
//	    WithItem(deposit, "5000", "5000").
//	    Create(t, db)
type SnapshotBuilder struct {
	snapshot model.InventorySnapshot
}

// NewSnapshot creates a SnapshotBuilder for a group and quarter start.
func NewSnapshot(groupID string, quarter time.Time) *SnapshotBuilder {
	now := time.Date(quarter.Year(), quarter.Month(), 5, 12, 0, 0, 0, time.UTC)
	return &SnapshotBuilder{snapshot: model.InventorySnapshot{
		GroupID:         groupID,
		QuarterStart:    quarter,
		Items:           []model.InventoryItem{},
		TotalYen:        decimal.Zero,
		TotalByCategory: model.NewCategoryTotals(),
		CreatedBy:       "test-user",
		UpdatedBy:       "test-user",
		CreatedAt:       now,
		UpdatedAt:       now,
	}}
}

// WithItem adds an item for asset with the given raw and yen amounts.
// The item's audit fields are taken from the snapshot when it is created.
func (b *SnapshotBuilder) WithItem(asset model.Asset, raw, yen string) *SnapshotBuilder {
	amountYen := decimal.RequireFromString(yen)
	b.snapshot.Items = append(b.snapshot.Items, model.InventoryItem{
		AssetID:     asset.ID,
		Category:    asset.Category,
		Subtype:     asset.Subtype,
		SymbolCode:  asset.SymbolCode,
		Description: asset.Description,
		RawAmount:   decimal.RequireFromString(raw),
		AmountYen:   amountYen,
	})
	b.snapshot.TotalYen = b.snapshot.TotalYen.Add(amountYen)
	b.snapshot.TotalByCategory[asset.Category] = b.snapshot.TotalByCategory[asset.Category].Add(amountYen)
	return b
}

// WithCreatedBy sets the actor who first took the snapshot.
func (b *SnapshotBuilder) WithCreatedBy(actor string) *SnapshotBuilder {
	b.snapshot.CreatedBy = actor
	return b
}

// WithUpdatedBy sets the actor of the latest save, for the snapshot and every item.
func (b *SnapshotBuilder) WithUpdatedBy(actor string) *SnapshotBuilder {
	b.snapshot.UpdatedBy = actor
	return b
}

// Build returns the snapshot without storing it.
func (b *SnapshotBuilder) Build() model.InventorySnapshot {
	snapshot := b.snapshot
	snapshot.Items = make([]model.InventoryItem, len(b.snapshot.Items))
	for i, item := range b.snapshot.Items {
		item.UpdatedBy = snapshot.UpdatedBy
		item.UpdatedAt = snapshot.UpdatedAt
		snapshot.Items[i] = item
	}
	return snapshot
}

// Create stores the snapshot and returns it as stored.
func (b *SnapshotBuilder) Create(t *testing.T, db *sql.DB) model.InventorySnapshot {
	t.Helper()

	saved, err := repository.NewSnapshotRepository(db).Upsert(context.Background(), b.Build())
	if err != nil {
		t.Fatalf("Failed to create test snapshot: %v", err)
	}

	return saved
}
