// Package marketdata resolves FX rates and share prices for a valuation pass.
//
// A Pass memoizes every lookup by (kind, code) - or (kind, code, year-month) for
// as-of prices - so assets sharing a code cost one provider call per pass. Failed
// lookups are cached as well and degrade to the package fallback values.
package marketdata

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/calendar"
	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/yahoo"
)

// Options configures a Resolver.
type Options struct {
	// Timeout bounds every provider call. A timed out call falls back like any other failure.
	Timeout time.Duration
	// Concurrency bounds the number of provider calls in flight during Prefetch.
	Concurrency int
	// EquitySuffix is appended to bare exchange codes such as "7203" (".T" for Tokyo).
	EquitySuffix string
	// DefaultCurrency is used for foreign-currency holdings without a code.
	DefaultCurrency string
	// Now is the clock used to bound historical queries. Defaults to time.Now.
	Now func() time.Time
}

// Resolver creates valuation passes over a market data provider.
type Resolver struct {
	client yahoo.Client
	opts   Options
}

// NewResolver creates a Resolver. Zero options get usable defaults.
func NewResolver(client yahoo.Client, opts Options) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "USD"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Resolver{client: client, opts: opts}
}

// DefaultCurrency returns the code assumed for foreign-currency holdings without one.
func (r *Resolver) DefaultCurrency() string {
	return r.opts.DefaultCurrency
}

// NewPass starts a resolution pass with an empty cache.
// A pass is meant to live for one snapshot build or one display render.
func (r *Resolver) NewPass() *Pass {
	return &Pass{
		resolver: r,
		cache:    make(map[cacheKey]Quote),
	}
}

type cacheKey struct {
	kind  Kind
	code  string
	month string
}

func (k cacheKey) String() string {
	if k.month == "" {
		return string(k.kind) + ":" + k.code
	}
	return string(k.kind) + ":" + k.code + ":" + k.month
}

// Pass is a per-call cache of market lookups. It is safe for concurrent use.
type Pass struct {
	resolver *Resolver
	mu       sync.Mutex
	cache    map[cacheKey]Quote
	flight   singleflight.Group
}

// Request names one lookup for Prefetch.
type Request struct {
	Kind Kind
	Code string
	AsOf time.Time // KindPriceAsOf only
}

// Prefetch resolves the distinct requests in parallel, bounded by Options.Concurrency.
// Lookup failures are cached as fallbacks and do not fail the prefetch; only a cancelled
// context is reported.
func (p *Pass) Prefetch(ctx context.Context, requests []Request) error {
	seen := make(map[string]bool, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.resolver.opts.Concurrency)

	for _, req := range requests {
		key := p.keyFor(req)
		if seen[key.String()] {
			continue
		}
		seen[key.String()] = true

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			switch req.Kind {
			case KindExchangeRate:
				p.ExchangeRateQuote(gctx, req.Code)
			case KindLatestPrice:
				p.LatestSharePriceQuote(gctx, req.Code)
			case KindPriceAsOf:
				p.SharePriceAsOfQuote(gctx, req.Code, req.AsOf)
			}
			return nil
		})
	}

	return g.Wait()
}

func (p *Pass) keyFor(req Request) cacheKey {
	switch req.Kind {
	case KindExchangeRate:
		code, _ := NormalizeCurrency(req.Code, p.resolver.opts.DefaultCurrency)
		return cacheKey{kind: KindExchangeRate, code: code}
	case KindPriceAsOf:
		return cacheKey{kind: KindPriceAsOf, code: normalizeSymbol(req.Code), month: calendar.FormatYearMonth(req.AsOf)}
	default:
		return cacheKey{kind: req.Kind, code: normalizeSymbol(req.Code)}
	}
}

// ExchangeRate returns the yen value of one unit of currency code, or FallbackExchangeRate.
func (p *Pass) ExchangeRate(ctx context.Context, code string) decimal.Decimal {
	return p.ExchangeRateQuote(ctx, code).Or(FallbackExchangeRate)
}

// ExchangeRateQuote resolves the yen rate of code. Yen codes resolve to 1 without a call.
func (p *Pass) ExchangeRateQuote(ctx context.Context, code string) Quote {
	normalized, valid := NormalizeCurrency(code, p.resolver.opts.DefaultCurrency)
	if IsYen(normalized) {
		return ok(decimal.NewFromInt(1))
	}
	if !valid {
		return failed(KindExchangeRate, code, fmt.Errorf("unrecognised currency code"))
	}

	key := cacheKey{kind: KindExchangeRate, code: normalized}
	return p.lookup(ctx, key, func(ctx context.Context) Quote {
		return p.resolver.latest(ctx, KindExchangeRate, normalized, normalized+"JPY=X")
	})
}

// LatestSharePrice returns the latest quoted price of symbol, or FallbackSharePrice.
func (p *Pass) LatestSharePrice(ctx context.Context, symbol string) decimal.Decimal {
	return p.LatestSharePriceQuote(ctx, symbol).Or(FallbackSharePrice)
}

// LatestSharePriceQuote resolves the latest quoted price of symbol.
func (p *Pass) LatestSharePriceQuote(ctx context.Context, symbol string) Quote {
	code := normalizeSymbol(symbol)
	if code == "" {
		return failed(KindLatestPrice, symbol, fmt.Errorf("empty symbol"))
	}

	key := cacheKey{kind: KindLatestPrice, code: code}
	return p.lookup(ctx, key, func(ctx context.Context) Quote {
		return p.resolver.latest(ctx, KindLatestPrice, code, p.resolver.providerSymbol(code))
	})
}

// SharePriceAsOf returns the closing price of symbol at or before target, or FallbackSharePrice.
func (p *Pass) SharePriceAsOf(ctx context.Context, symbol string, target time.Time) decimal.Decimal {
	return p.SharePriceAsOfQuote(ctx, symbol, target).Or(FallbackSharePrice)
}

// SharePriceAsOfQuote resolves the closing price of symbol as of target.
//
// The daily table of target's year is scanned newest-first and the first row dated on or
// before target is selected. When no row qualifies, or the table cannot be fetched, the
// latest price is used instead.
func (p *Pass) SharePriceAsOfQuote(ctx context.Context, symbol string, target time.Time) Quote {
	code := normalizeSymbol(symbol)
	if code == "" {
		return failed(KindPriceAsOf, symbol, fmt.Errorf("empty symbol"))
	}

	key := cacheKey{kind: KindPriceAsOf, code: code, month: calendar.FormatYearMonth(target)}
	return p.lookup(ctx, key, func(ctx context.Context) Quote {
		rows, err := p.resolver.historyTable(ctx, p.resolver.providerSymbol(code), target.Year())
		if err != nil {
			log.Printf("marketdata: %v; falling back to latest price", &Error{Kind: KindPriceAsOf, Code: code, Err: err})
			return p.LatestSharePriceQuote(ctx, code)
		}
		row, found := FirstOnOrBefore(rows, target)
		if !found {
			log.Printf("marketdata: no %s price on or before %s; falling back to latest price", code, target.Format("2006-01-02"))
			return p.LatestSharePriceQuote(ctx, code)
		}
		return ok(row.Close)
	})
}

// lookup returns the cached quote for key or computes it exactly once.
func (p *Pass) lookup(ctx context.Context, key cacheKey, fetch func(context.Context) Quote) Quote {
	if q, hit := p.cached(key); hit {
		return q
	}

	v, _, _ := p.flight.Do(key.String(), func() (interface{}, error) {
		if q, hit := p.cached(key); hit {
			return q, nil
		}
		q := fetch(ctx)
		p.mu.Lock()
		p.cache[key] = q
		p.mu.Unlock()
		return q, nil
	})
	return v.(Quote)
}

func (p *Pass) cached(key cacheKey) (Quote, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	q, hit := p.cache[key]
	return q, hit
}

// latest queries the five-day chart of providerSymbol and returns its latest price.
func (r *Resolver) latest(ctx context.Context, kind Kind, code, providerSymbol string) Quote {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	raw, err := r.client.QueryFiveDay(ctx, providerSymbol)
	if err != nil {
		return r.fail(kind, code, err)
	}
	chart, err := r.client.ParseChart(raw)
	if err != nil {
		return r.fail(kind, code, err)
	}
	price, found := chart.LatestClose()
	if !found {
		return r.fail(kind, code, fmt.Errorf("no price in response"))
	}
	value := decimal.NewFromFloat(price)
	if !value.IsPositive() {
		return r.fail(kind, code, fmt.Errorf("non-positive price %s", value))
	}
	return ok(value)
}

func (r *Resolver) fail(kind Kind, code string, err error) Quote {
	q := failed(kind, code, err)
	log.Printf("marketdata: %v", q.Err)
	return q
}

// PriceRow is one row of a daily price table.
type PriceRow struct {
	Date  time.Time
	Close decimal.Decimal
}

// historyTable returns the daily closes of providerSymbol for year, newest first.
func (r *Resolver) historyTable(ctx context.Context, providerSymbol string, year int) ([]PriceRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	if now := r.opts.Now(); end.After(now) {
		end = now
	}

	raw, err := r.client.QueryRange(ctx, providerSymbol, start, end)
	if err != nil {
		return nil, err
	}
	chart, err := r.client.ParseChart(raw)
	if err != nil {
		return nil, err
	}

	rows := make([]PriceRow, 0, len(chart.Indicators))
	for i := len(chart.Indicators) - 1; i >= 0; i-- {
		ind := chart.Indicators[i]
		if ind.PriceClose <= 0 {
			continue
		}
		rows = append(rows, PriceRow{Date: ind.Date, Close: decimal.NewFromFloat(ind.PriceClose)})
	}
	return rows, nil
}

// FirstOnOrBefore returns the first row, in table order, dated on or before target.
// Dates are compared at day granularity. This is a positional selection: with a
// newest-first table it yields the most recent close, otherwise simply the first match.
func FirstOnOrBefore(rows []PriceRow, target time.Time) (PriceRow, bool) {
	targetDay := dayOf(target)
	for _, row := range rows {
		if !dayOf(row.Date).After(targetDay) {
			return row, true
		}
	}
	return PriceRow{}, false
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	currencyCodeRE = regexp.MustCompile(`^[A-Z]{3}$`)
	exchangeCodeRE = regexp.MustCompile(`^[0-9][0-9A-Z]{3}$`)
	yenCodes       = map[string]bool{"JPY": true, "YEN": true, "円": true, "¥": true, "￥": true}
)

// NormalizeCurrency upper-cases code, maps "$" to USD and empty codes to defaultCode.
// The boolean reports whether the result is a usable currency code.
func NormalizeCurrency(code, defaultCode string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	switch code {
	case "":
		code = strings.ToUpper(defaultCode)
	case "$", "US$":
		code = "USD"
	case "€":
		code = "EUR"
	}
	if yenCodes[code] {
		return "JPY", true
	}
	return code, currencyCodeRE.MatchString(code)
}

// IsYen reports whether a normalized currency code denotes yen.
func IsYen(code string) bool {
	return yenCodes[code]
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// providerSymbol maps a bare exchange code such as "7203" to the provider's "7203.T".
func (r *Resolver) providerSymbol(code string) string {
	if r.opts.EquitySuffix != "" && exchangeCodeRE.MatchString(code) {
		return code + r.opts.EquitySuffix
	}
	return code
}
