package valuation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/marketdata"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/valuation"
)

// MockPricer is a mock implementation of valuation.Pricer for testing
type MockPricer struct {
	mock.Mock
}

func (m *MockPricer) ExchangeRateQuote(ctx context.Context, code string) marketdata.Quote {
	args := m.Called(ctx, code)
	return args.Get(0).(marketdata.Quote)
}

func (m *MockPricer) LatestSharePriceQuote(ctx context.Context, symbol string) marketdata.Quote {
	args := m.Called(ctx, symbol)
	return args.Get(0).(marketdata.Quote)
}

func (m *MockPricer) SharePriceAsOfQuote(ctx context.Context, symbol string, target time.Time) marketdata.Quote {
	args := m.Called(ctx, symbol, target)
	return args.Get(0).(marketdata.Quote)
}

func quote(v string) marketdata.Quote {
	return marketdata.Quote{Value: decimal.RequireFromString(v)}
}

func failedQuote() marketdata.Quote {
	return marketdata.Quote{Err: errors.New("provider down")}
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

var (
	usdCash = model.Asset{Category: model.CategoryFinancial, Subtype: model.SubtypeForeignCurrency, SymbolCode: "USD", Unit: model.UnitForeignCurrency}
	toyota  = model.Asset{Category: model.CategoryFinancial, Subtype: model.SubtypeEquity, SymbolCode: "7203", Unit: model.UnitQuantity}
	deposit = model.Asset{Category: model.CategoryFinancial, Subtype: "deposit", Unit: model.UnitYen}
	loan    = model.Asset{Category: model.CategoryLiability, Subtype: "mortgage", Unit: model.UnitYen}
)

func TestCalculator_Classify(t *testing.T) {
	calc := valuation.NewCalculator("USD")

	tests := []struct {
		name  string
		asset model.Asset
		want  valuation.Method
	}{
		{"foreign currency with code", usdCash, valuation.Method{Rule: valuation.RuleForeignCurrency, Code: "USD"}},
		{"foreign currency without code uses the default", model.Asset{Subtype: model.SubtypeForeignCurrency, Unit: model.UnitForeignCurrency}, valuation.Method{Rule: valuation.RuleForeignCurrency, Code: "USD"}},
		{"foreign currency unit on another subtype", model.Asset{Subtype: "travel-money", SymbolCode: "eur", Unit: model.UnitForeignCurrency}, valuation.Method{Rule: valuation.RuleForeignCurrency, Code: "EUR"}},
		{"unrecognised currency code is yen", model.Asset{Subtype: model.SubtypeForeignCurrency, SymbolCode: "dollars", Unit: model.UnitForeignCurrency}, valuation.Method{Rule: valuation.RuleYen}},
		{"equity by quantity", toyota, valuation.Method{Rule: valuation.RuleEquity, Code: "7203"}},
		{"equity without symbol is yen", model.Asset{Subtype: model.SubtypeEquity, Unit: model.UnitQuantity}, valuation.Method{Rule: valuation.RuleYen}},
		{"equity held as a yen amount", model.Asset{Subtype: model.SubtypeEquity, SymbolCode: "7203", Unit: model.UnitYen}, valuation.Method{Rule: valuation.RuleYen}},
		{"plain deposit", deposit, valuation.Method{Rule: valuation.RuleYen}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.Classify(tt.asset))
		})
	}
}

func TestCalculator_Current(t *testing.T) {
	ctx := context.Background()
	calc := valuation.NewCalculator("USD")

	t.Run("foreign currency multiplies by the rate", func(t *testing.T) {
		pricer := new(MockPricer)
		pricer.On("ExchangeRateQuote", ctx, "USD").Return(quote("150"))

		got := calc.Current(ctx, pricer, usdCash, dec("100"))
		assert.Equal(t, "15000", got.String())
		pricer.AssertExpectations(t)
	})

	t.Run("failed rate uses the fallback", func(t *testing.T) {
		pricer := new(MockPricer)
		pricer.On("ExchangeRateQuote", ctx, "USD").Return(failedQuote())

		got := calc.Current(ctx, pricer, usdCash, dec("2"))
		assert.Equal(t, "300", got.String())
	})

	t.Run("equity uses the latest price", func(t *testing.T) {
		pricer := new(MockPricer)
		pricer.On("LatestSharePriceQuote", ctx, "7203").Return(quote("2850.5"))

		got := calc.Current(ctx, pricer, toyota, dec("10"))
		assert.Equal(t, "28505", got.String())
		pricer.AssertNotCalled(t, "SharePriceAsOfQuote", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unpriced equity is valued at one yen per share", func(t *testing.T) {
		pricer := new(MockPricer)
		pricer.On("LatestSharePriceQuote", ctx, "7203").Return(failedQuote())

		got := calc.Current(ctx, pricer, toyota, dec("100"))
		assert.Equal(t, "100", got.String())
	})

	t.Run("yen amounts are rounded without lookups", func(t *testing.T) {
		pricer := new(MockPricer)

		assert.Equal(t, "5000", calc.Current(ctx, pricer, deposit, dec("5000.4")).String())
		assert.Equal(t, "5001", calc.Current(ctx, pricer, deposit, dec("5000.5")).String())
		assert.Equal(t, "-3", calc.Current(ctx, pricer, loan, dec("-2.5")).String())
		pricer.AssertExpectations(t)
	})

	t.Run("rounds at the point of computation", func(t *testing.T) {
		pricer := new(MockPricer)
		pricer.On("ExchangeRateQuote", ctx, "USD").Return(quote("149.995"))

		got := calc.Current(ctx, pricer, usdCash, dec("0.5"))
		assert.Equal(t, "75", got.String())
	})
}

func TestCalculator_AsOf(t *testing.T) {
	ctx := context.Background()
	calc := valuation.NewCalculator("USD")
	target := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("equity uses the historical close", func(t *testing.T) {
		pricer := new(MockPricer)
		pricer.On("SharePriceAsOfQuote", ctx, "7203", target).Return(quote("2720"))

		got := calc.AsOf(ctx, pricer, toyota, dec("3"), target)
		assert.Equal(t, "8160", got.String())
		pricer.AssertNotCalled(t, "LatestSharePriceQuote", mock.Anything, mock.Anything)
	})

	t.Run("foreign currency uses the current rate", func(t *testing.T) {
		pricer := new(MockPricer)
		pricer.On("ExchangeRateQuote", ctx, "USD").Return(quote("150"))

		got := calc.AsOf(ctx, pricer, usdCash, dec("100"), target)
		assert.Equal(t, "15000", got.String())
	})
}

func TestCalculator_Requests(t *testing.T) {
	calc := valuation.NewCalculator("USD")
	target := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	assets := []model.Asset{usdCash, toyota, deposit}

	current := calc.Requests(assets, nil)
	assert.Equal(t, []marketdata.Request{
		{Kind: marketdata.KindExchangeRate, Code: "USD"},
		{Kind: marketdata.KindLatestPrice, Code: "7203"},
	}, current)

	historical := calc.Requests(assets, &target)
	assert.Equal(t, marketdata.KindPriceAsOf, historical[1].Kind)
	assert.Equal(t, target, historical[1].AsOf)
}

func TestRound(t *testing.T) {
	assert.Equal(t, "2", valuation.Round(dec("1.5")).String())
	assert.Equal(t, "-2", valuation.Round(dec("-1.5")).String())
	assert.Equal(t, "1", valuation.Round(dec("1.49")).String())
}
