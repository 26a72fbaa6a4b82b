package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/yahoo"
)

// MockYahooClient is a mock implementation of yahoo.Client for testing.
// It serves per-symbol prices and history tables instead of making actual API calls,
// and counts queries so tests can assert on cache behaviour. It is safe for concurrent use.
type MockYahooClient struct {
	mu sync.Mutex
	// Prices maps a provider symbol ("USDJPY=X", "7203.T") to its latest price.
	Prices map[string]float64
	// History maps a provider symbol to the response returned by QueryRange.
	History map[string]yahoo.Response
	// SymbolErrors makes every query for a symbol fail.
	SymbolErrors map[string]error
	// MockError makes every query fail.
	MockError error
	// QueryCount tracks how many times a query method was called
	QueryCount int
	queries    map[string]int
}

// NewMockYahooClient creates a mock Yahoo client with no known symbols.
// Unknown symbols fail like a delisted ticker would.
func NewMockYahooClient() *MockYahooClient {
	return &MockYahooClient{
		Prices:       make(map[string]float64),
		History:      make(map[string]yahoo.Response),
		SymbolErrors: make(map[string]error),
		queries:      make(map[string]int),
	}
}

// QueryFiveDay returns a one-session chart at the configured latest price.
func (m *MockYahooClient) QueryFiveDay(ctx context.Context, symbol string) (yahoo.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(symbol)

	if err := m.failure(ctx, symbol); err != nil {
		return yahoo.Response{}, err
	}
	price, ok := m.Prices[symbol]
	if !ok {
		return yahoo.Response{}, fmt.Errorf("yahoo finance error: Not Found: No data found, symbol may be delisted")
	}
	now := time.Now().UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)
	return CreateMockYahooResponseForDate(symbol, yesterday, price), nil
}

// QueryRange returns the configured history table for the symbol.
func (m *MockYahooClient) QueryRange(ctx context.Context, symbol string, _, _ time.Time) (yahoo.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(symbol)

	if err := m.failure(ctx, symbol); err != nil {
		return yahoo.Response{}, err
	}
	resp, ok := m.History[symbol]
	if !ok {
		return yahoo.Response{}, fmt.Errorf("yahoo finance error: Not Found: No data found for %s", symbol)
	}
	return resp, nil
}

// ParseChart delegates to the real ParseChart since it's pure logic with no side effects.
func (m *MockYahooClient) ParseChart(yahooResult yahoo.Response) (yahoo.PriceChart, error) {
	return yahoo.ParseChart(yahooResult)
}

func (m *MockYahooClient) record(symbol string) {
	m.QueryCount++
	if m.queries == nil {
		m.queries = make(map[string]int)
	}
	m.queries[symbol]++
}

func (m *MockYahooClient) failure(ctx context.Context, symbol string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.MockError != nil {
		return m.MockError
	}
	return m.SymbolErrors[symbol]
}

// Queries returns how many times a symbol was queried.
func (m *MockYahooClient) Queries(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queries[symbol]
}

// TotalQueries returns the number of queries across all symbols.
func (m *MockYahooClient) TotalQueries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.QueryCount
}

// WithPrice sets the latest price of a provider symbol.
func (m *MockYahooClient) WithPrice(symbol string, price float64) *MockYahooClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prices[symbol] = price
	return m
}

// WithHistory sets the QueryRange response of a provider symbol.
func (m *MockYahooClient) WithHistory(symbol string, resp yahoo.Response) *MockYahooClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.History[symbol] = resp
	return m
}

// WithSymbolError makes every query for symbol fail with err.
func (m *MockYahooClient) WithSymbolError(symbol string, err error) *MockYahooClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SymbolErrors[symbol] = err
	return m
}

// WithError configures the mock to fail every query with the specified error.
func (m *MockYahooClient) WithError(err error) *MockYahooClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MockError = err
	return m
}

// PriceRow is one session used to build a mock history table.
type PriceRow struct {
	Date  time.Time
	Close float64
}

// CreateMockYahooResponseForDate creates a mock Yahoo response with a single session.
func CreateMockYahooResponseForDate(symbol string, date time.Time, price float64) yahoo.Response {
	resp := CreateMockYahooHistory(symbol, PriceRow{Date: date, Close: price})
	resp.Chart.Result[0].Meta.RegularMarketPrice = &price
	return resp
}

// CreateMockYahooHistory creates a mock Yahoo response holding the given sessions
// in the order given. Yahoo itself returns sessions oldest first.
func CreateMockYahooHistory(symbol string, rows ...PriceRow) yahoo.Response {
	timestamps := make([]int64, len(rows))
	opens := make([]*float64, len(rows))
	highs := make([]*float64, len(rows))
	lows := make([]*float64, len(rows))
	closes := make([]*float64, len(rows))
	volumes := make([]*int64, len(rows))

	for i, row := range rows {
		closePrice := row.Close
		volume := int64(1000000 + i*10000)
		timestamps[i] = row.Date.Unix()
		opens[i] = &closePrice
		highs[i] = &closePrice
		lows[i] = &closePrice
		closes[i] = &closePrice
		volumes[i] = &volume
	}

	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{
				{
					Meta: yahoo.Meta{
						Symbol:           symbol,
						Currency:         "JPY",
						ExchangeName:     "JPX",
						FullExchangeName: "Tokyo",
						Shortname:        symbol,
						ExchangeTimezone: "Asia/Tokyo",
					},
					Timestamp: timestamps,
					Indicators: yahoo.IndicatorsContainer{
						Quote: []yahoo.Quote{
							{
								Open:   opens,
								High:   highs,
								Low:    lows,
								Close:  closes,
								Volume: volumes,
							},
						},
					},
				},
			},
		},
	}
}
