package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChartData is the chart-ready projection of a group's snapshots, oldest first.
// Every series has one value per label.
type ChartData struct {
	Labels []string    `json:"labels"`
	Series ChartSeries `json:"series"`
}

// ChartSeries holds one numeric series per category plus the derived total.
type ChartSeries struct {
	Financial  []float64 `json:"financial"`
	Physical   []float64 `json:"physical"`
	Intangible []float64 `json:"intangible"`
	Liability  []float64 `json:"liability"`
	Total      []float64 `json:"total"`
}

// HistoryEntry is one snapshot in the history list, newest first.
type HistoryEntry struct {
	ID              string                       `json:"id"`
	Quarter         time.Time                    `json:"quarter"`
	Label           string                       `json:"label"`
	TotalYen        decimal.Decimal              `json:"totalYen"`
	TotalYenDisplay string                       `json:"totalYenDisplay"`
	TotalByCategory map[Category]decimal.Decimal `json:"totalByCategory"`
	CategoryDisplay map[Category]string          `json:"categoryDisplay"`
	UpdatedBy       string                       `json:"updatedBy,omitempty"`
	UpdatedAt       time.Time                    `json:"updatedAt"`
	Items           []InventoryItem              `json:"items"`
}

// HistoryFilters restricts history to an inclusive range of quarter starts.
// A nil bound is open.
type HistoryFilters struct {
	From *time.Time
	To   *time.Time
}

// Includes reports whether quarter lies within the range.
func (f HistoryFilters) Includes(quarter time.Time) bool {
	if f.From != nil && quarter.Before(*f.From) {
		return false
	}
	if f.To != nil && quarter.After(*f.To) {
		return false
	}
	return true
}
