package marketdata

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Fallback values used when a lookup fails. Valuation always completes.
var (
	// FallbackExchangeRate is the yen rate assumed when an FX quote is unavailable.
	FallbackExchangeRate = decimal.NewFromInt(150)
	// FallbackSharePrice marks an unpriced equity. It is 1 rather than 0 so totals keep the share count.
	FallbackSharePrice = decimal.NewFromInt(1)
)

// Kind identifies a lookup type.
type Kind string

const (
	KindExchangeRate Kind = "fx"
	KindLatestPrice  Kind = "latest"
	KindPriceAsOf    Kind = "asof"
)

// Error describes a failed market data lookup.
type Error struct {
	Kind Kind
	Code string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s lookup for %s failed: %v", e.Kind, e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Quote is the explicit result of a lookup: a value or a *Error.
type Quote struct {
	Value decimal.Decimal
	Err   error
}

// OK reports whether the lookup succeeded.
func (q Quote) OK() bool {
	return q.Err == nil
}

// Or returns the quoted value, or fallback when the lookup failed.
func (q Quote) Or(fallback decimal.Decimal) decimal.Decimal {
	if q.Err != nil {
		return fallback
	}
	return q.Value
}

func ok(v decimal.Decimal) Quote {
	return Quote{Value: v}
}

func failed(kind Kind, code string, err error) Quote {
	return Quote{Err: &Error{Kind: kind, Code: code, Err: err}}
}
