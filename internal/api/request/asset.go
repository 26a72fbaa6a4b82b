package request

import "github.com/shopspring/decimal"

// CreateAssetRequest represents the request body for registering an asset
type CreateAssetRequest struct {
	Category      string          `json:"category"`
	Subtype       string          `json:"subtype"`
	SymbolCode    string          `json:"symbolCode"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	ValuationUnit string          `json:"valuationUnit"`
	SecureNote    string          `json:"secureNote,omitempty"`
	ActorID       string          `json:"actorId"`
}

// UpdateAssetRequest represents the request body for editing an asset.
// Only provided fields are changed; an empty SecureNote clears the note.
type UpdateAssetRequest struct {
	Category      *string          `json:"category,omitempty"`
	Subtype       *string          `json:"subtype,omitempty"`
	SymbolCode    *string          `json:"symbolCode,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	ValuationUnit *string          `json:"valuationUnit,omitempty"`
	SecureNote    *string          `json:"secureNote,omitempty"`
	ActorID       string           `json:"actorId"`
}
