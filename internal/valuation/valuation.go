// Package valuation converts an asset's raw amount into whole yen.
package valuation

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/marketdata"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
)

// Pricer resolves market quotes. *marketdata.Pass is the production implementation.
type Pricer interface {
	ExchangeRateQuote(ctx context.Context, code string) marketdata.Quote
	LatestSharePriceQuote(ctx context.Context, symbol string) marketdata.Quote
	SharePriceAsOfQuote(ctx context.Context, symbol string, target time.Time) marketdata.Quote
}

// Rule is the valuation rule applied to an asset.
type Rule string

const (
	// RuleForeignCurrency multiplies the amount by the currency's yen rate.
	RuleForeignCurrency Rule = "foreign-currency"
	// RuleEquity multiplies the share count by a share price.
	RuleEquity Rule = "equity"
	// RuleYen treats the amount as yen already.
	RuleYen Rule = "yen"
)

// Method is the resolved rule for one asset, with the code its lookups use.
type Method struct {
	Rule Rule
	Code string
}

// Calculator applies the valuation rules.
type Calculator struct {
	defaultCurrency string
}

// NewCalculator creates a Calculator. Foreign-currency holdings without a code are
// valued in defaultCurrency.
func NewCalculator(defaultCurrency string) *Calculator {
	return &Calculator{defaultCurrency: defaultCurrency}
}

// Classify resolves the rule for an asset from its subtype and valuation unit.
// Foreign-currency holdings with an unrecognised code, and quantity-valued equities
// without a symbol, are valued as yen.
func (c *Calculator) Classify(asset model.Asset) Method {
	switch {
	case asset.Subtype == model.SubtypeForeignCurrency || asset.Unit == model.UnitForeignCurrency:
		code, valid := marketdata.NormalizeCurrency(asset.SymbolCode, c.defaultCurrency)
		if !valid {
			return Method{Rule: RuleYen}
		}
		return Method{Rule: RuleForeignCurrency, Code: code}
	case asset.Subtype == model.SubtypeEquity && asset.Unit == model.UnitQuantity:
		symbol := strings.TrimSpace(asset.SymbolCode)
		if symbol == "" {
			return Method{Rule: RuleYen}
		}
		return Method{Rule: RuleEquity, Code: symbol}
	default:
		return Method{Rule: RuleYen}
	}
}

// IsQuantityValued reports whether the asset's raw amount is a quantity rather than yen.
func (c *Calculator) IsQuantityValued(asset model.Asset) bool {
	return c.Classify(asset).Rule != RuleYen
}

// Current values raw units of asset at current prices.
func (c *Calculator) Current(ctx context.Context, pricer Pricer, asset model.Asset, raw decimal.Decimal) decimal.Decimal {
	return c.value(ctx, pricer, asset, raw, nil)
}

// AsOf values raw units of asset for a past target date. Equities use the close at or
// before target; foreign currency uses the current rate.
func (c *Calculator) AsOf(ctx context.Context, pricer Pricer, asset model.Asset, raw decimal.Decimal, target time.Time) decimal.Decimal {
	return c.value(ctx, pricer, asset, raw, &target)
}

func (c *Calculator) value(ctx context.Context, pricer Pricer, asset model.Asset, raw decimal.Decimal, target *time.Time) decimal.Decimal {
	method := c.Classify(asset)
	switch method.Rule {
	case RuleForeignCurrency:
		rate := pricer.ExchangeRateQuote(ctx, method.Code).Or(marketdata.FallbackExchangeRate)
		return Round(raw.Mul(rate))
	case RuleEquity:
		var q marketdata.Quote
		if target != nil {
			q = pricer.SharePriceAsOfQuote(ctx, method.Code, *target)
		} else {
			q = pricer.LatestSharePriceQuote(ctx, method.Code)
		}
		return Round(raw.Mul(q.Or(marketdata.FallbackSharePrice)))
	default:
		return Round(raw)
	}
}

// Requests lists the lookups needed to value assets, for marketdata.Pass.Prefetch.
// A nil target selects current prices.
func (c *Calculator) Requests(assets []model.Asset, target *time.Time) []marketdata.Request {
	requests := make([]marketdata.Request, 0, len(assets))
	for _, asset := range assets {
		method := c.Classify(asset)
		switch method.Rule {
		case RuleForeignCurrency:
			requests = append(requests, marketdata.Request{Kind: marketdata.KindExchangeRate, Code: method.Code})
		case RuleEquity:
			if target != nil {
				requests = append(requests, marketdata.Request{Kind: marketdata.KindPriceAsOf, Code: method.Code, AsOf: *target})
			} else {
				requests = append(requests, marketdata.Request{Kind: marketdata.KindLatestPrice, Code: method.Code})
			}
		}
	}
	return requests
}

// Round rounds a yen amount to the nearest whole yen, halves away from zero.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(0)
}
