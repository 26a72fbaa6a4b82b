package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the balance-sheet class of an asset.
type Category string

// Asset categories. The order of AllCategories is the reporting order.
const (
	CategoryFinancial  Category = "financial"
	CategoryPhysical   Category = "physical"
	CategoryIntangible Category = "intangible"
	CategoryLiability  Category = "liability"
)

// AllCategories lists every category in reporting order.
var AllCategories = []Category{CategoryFinancial, CategoryPhysical, CategoryIntangible, CategoryLiability}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryFinancial, CategoryPhysical, CategoryIntangible, CategoryLiability:
		return true
	}
	return false
}

// ValuationUnit tells how an asset's amount is denominated.
type ValuationUnit string

const (
	UnitYen             ValuationUnit = "yen"
	UnitQuantity        ValuationUnit = "quantity"
	UnitForeignCurrency ValuationUnit = "foreign-currency-unit"
)

// Valid reports whether u is a known valuation unit.
func (u ValuationUnit) Valid() bool {
	switch u {
	case UnitYen, UnitQuantity, UnitForeignCurrency:
		return true
	}
	return false
}

// Recognised subtypes. Any other non-empty subtype is descriptive and valued as yen.
const (
	SubtypeEquity          = "equity"
	SubtypeForeignCurrency = "foreign-currency"
)

// Asset is a holding owned by a group.
// Amount is a share count for equities valued by quantity, a foreign-currency amount
// for foreign-currency holdings and a yen amount otherwise.
type Asset struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"groupId"`
	Category    Category        `json:"category"`
	Subtype     string          `json:"subtype"`
	SymbolCode  string          `json:"symbolCode,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Unit        ValuationUnit   `json:"valuationUnit"`
	SecureNote  string          `json:"-"` // fernet token, never serialized
	CreatedBy   string          `json:"createdBy,omitempty"`
	UpdatedBy   string          `json:"updatedBy,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// HasSecureNote reports whether an encrypted note is stored for the asset.
func (a Asset) HasSecureNote() bool {
	return a.SecureNote != ""
}

// AssetValuation is an asset valued at current market prices.
type AssetValuation struct {
	Asset     Asset           `json:"asset"`
	AmountYen decimal.Decimal `json:"amountYen"`
}

// HoldingsOverview is the live valuation of every asset in a group.
type HoldingsOverview struct {
	GroupID         string                       `json:"groupId"`
	ValuedAt        time.Time                    `json:"valuedAt"`
	Assets          []AssetValuation             `json:"assets"`
	TotalYen        decimal.Decimal              `json:"totalYen"`
	TotalByCategory map[Category]decimal.Decimal `json:"totalByCategory"`
}
