package request

import "github.com/shopspring/decimal"

// SaveInventoryRequest represents the confirmed inventory of a quarter.
// Month is "YYYY-MM" (a full date is accepted) and is normalised to its quarter start.
type SaveInventoryRequest struct {
	Month   string              `json:"month"`
	ActorID string              `json:"actorId"`
	Items   []SaveInventoryItem `json:"items"`
}

// SaveInventoryItem is one confirmed raw amount.
type SaveInventoryItem struct {
	AssetID   string          `json:"assetId"`
	RawAmount decimal.Decimal `json:"rawAmount"`
}
