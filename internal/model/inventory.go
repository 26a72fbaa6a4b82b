package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventorySnapshot is one valuation checkpoint for a group at a quarter start.
// At most one snapshot exists per (GroupID, QuarterStart); saving again overwrites it.
// Stored AmountYen values are authoritative and are never recomputed on display.
type InventorySnapshot struct {
	ID              string                       `json:"id"`
	GroupID         string                       `json:"groupId"`
	QuarterStart    time.Time                    `json:"quarterStart"`
	Items           []InventoryItem              `json:"items"`
	TotalYen        decimal.Decimal              `json:"totalYen"`
	TotalByCategory map[Category]decimal.Decimal `json:"totalByCategory"`
	CreatedBy       string                       `json:"createdBy,omitempty"`
	UpdatedBy       string                       `json:"updatedBy,omitempty"`
	CreatedAt       time.Time                    `json:"createdAt"`
	UpdatedAt       time.Time                    `json:"updatedAt"`
}

// Item returns the snapshot item for an asset.
func (s *InventorySnapshot) Item(assetID string) (InventoryItem, bool) {
	if s == nil {
		return InventoryItem{}, false
	}
	for _, item := range s.Items {
		if item.AssetID == assetID {
			return item, true
		}
	}
	return InventoryItem{}, false
}

// InventoryItem is one asset's line in a snapshot.
// RawAmount is a quantity for equities and foreign currency, a yen amount otherwise.
type InventoryItem struct {
	AssetID     string          `json:"assetId"`
	Category    Category        `json:"category"`
	Subtype     string          `json:"subtype"`
	SymbolCode  string          `json:"symbolCode,omitempty"`
	Description string          `json:"description"`
	RawAmount   decimal.Decimal `json:"rawAmount"`
	AmountYen   decimal.Decimal `json:"amountYen"`
	UpdatedBy   string          `json:"updatedBy,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// PrefillSource tells where a preview row's proposed values come from.
type PrefillSource string

const (
	// PrefillSnapshot reuses the stored values of the quarter's own snapshot verbatim.
	PrefillSnapshot PrefillSource = "snapshot"
	// PrefillCarried reuses the stored raw and yen amounts of the latest snapshot of another quarter.
	PrefillCarried PrefillSource = "carried"
	// PrefillComputed proposes the asset's registered amount.
	PrefillComputed PrefillSource = "computed"
)

// PreviewRow is one proposed inventory line shown to the user for confirmation.
type PreviewRow struct {
	Asset             Asset           `json:"asset"`
	ProposedRawAmount decimal.Decimal `json:"proposedRawAmount"`
	ProposedAmountYen decimal.Decimal `json:"proposedAmountYen"`
	Source            PrefillSource   `json:"source"`
	QuantityValued    bool            `json:"quantityValued"`
	ItemUpdatedBy     string          `json:"itemUpdatedBy,omitempty"`
	ItemUpdatedAt     *time.Time      `json:"itemUpdatedAt,omitempty"`
}

// InventoryPreview is the prefilled inventory for a quarter.
type InventoryPreview struct {
	GroupID              string             `json:"groupId"`
	Quarter              time.Time          `json:"quarter"`
	QuarterLabel         string             `json:"quarterLabel"`
	LatestAllowedQuarter time.Time          `json:"latestAllowedQuarter"`
	Rows                 []PreviewRow       `json:"rows"`
	Existing             *InventorySnapshot `json:"existing,omitempty"`
	Latest               *InventorySnapshot `json:"latest,omitempty"`
}

// SaveItem is a caller-confirmed raw amount for one asset.
type SaveItem struct {
	AssetID   string          `json:"assetId"`
	RawAmount decimal.Decimal `json:"rawAmount"`
}

// InventoryStatus tells whether a group has taken the inventory for the current quarter.
type InventoryStatus struct {
	GroupID        string     `json:"groupId"`
	CurrentQuarter time.Time  `json:"currentQuarter"`
	LatestQuarter  *time.Time `json:"latestQuarter,omitempty"`
	NeedsInventory bool       `json:"needsInventory"`
	Callout        *Callout   `json:"callout,omitempty"`
}

// Callout is the inventory notice displayed during the month after a quarter boundary.
type Callout struct {
	MonthValue string `json:"monthValue"`
	Label      string `json:"label"`
}

// NewCategoryTotals returns a totals map with every category set to zero.
func NewCategoryTotals() map[Category]decimal.Decimal {
	totals := make(map[Category]decimal.Decimal, len(AllCategories))
	for _, c := range AllCategories {
		totals[c] = decimal.Zero
	}
	return totals
}
