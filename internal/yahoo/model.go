package yahoo

import "time"

// Response represents the raw JSON response structure from the Yahoo Finance chart API.
// Price arrays are nullable: Yahoo emits null for sessions without a trade.
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the top-level chart envelope.
type Chart struct {
	Result []Result `json:"result"`
	Error  *Error   `json:"error"`
}

// Error is the error object Yahoo returns instead of results.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result holds one symbol's metadata and time series.
type Result struct {
	Meta       Meta                `json:"meta"`
	Timestamp  []int64             `json:"timestamp"`
	Indicators IndicatorsContainer `json:"indicators"`
}

// Meta is the symbol metadata block.
type Meta struct {
	Currency           string   `json:"currency"`
	Symbol             string   `json:"symbol"`
	ExchangeName       string   `json:"exchangeName"`
	FullExchangeName   string   `json:"fullExchangeName"`
	LongName           string   `json:"longName"`
	Shortname          string   `json:"shortName"`
	ExchangeTimezone   string   `json:"exchangeTimezoneName"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
}

// IndicatorsContainer wraps the quote arrays.
type IndicatorsContainer struct {
	Quote []Quote `json:"quote"`
}

// Quote holds the OHLCV arrays, index-aligned with Result.Timestamp.
type Quote struct {
	Open   []*float64 `json:"open"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
}

// PriceChart represents a parsed price chart.
// Indicators are in the order Yahoo returned them (oldest first); sessions without
// a closing price are dropped.
type PriceChart struct {
	Currency           string       `json:"currency"`
	Symbol             string       `json:"symbol"`
	ExchangeName       string       `json:"exchangeName"`
	FullExchangeName   string       `json:"fullExchangeName"`
	LongName           string       `json:"longName"`
	Shortname          string       `json:"shortName"`
	RegularMarketPrice *float64     `json:"regularMarketPrice,omitempty"`
	Indicators         []Indicators `json:"indicators"`
}

// Indicators represents a single day's price data for an instrument.
type Indicators struct {
	Date       time.Time
	PriceOpen  float64
	PriceClose float64
	Volume     int64
	PriceHigh  float64
	PriceLow   float64
}
