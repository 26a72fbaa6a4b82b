package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the Yahoo Finance chart API host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client is the market data provider used by the resolver.
// FinanceClient is the production implementation; testutil.MockYahooClient replaces it in tests.
type Client interface {
	QueryFiveDay(ctx context.Context, symbol string) (Response, error)
	QueryRange(ctx context.Context, symbol string, start, end time.Time) (Response, error)
	ParseChart(raw Response) (PriceChart, error)
}

// FinanceClient provides methods for fetching financial data from the Yahoo Finance API.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a new Yahoo Finance client.
// An empty baseURL selects DefaultBaseURL; tests point it at an httptest server.
func NewFinanceClient(httpClient *http.Client, baseURL string) *FinanceClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &FinanceClient{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// ParseChart converts a raw Yahoo Finance API response into a structured price chart.
//
// The method validates that:
//   - a result is present
//   - timestamp and close price data are present
//   - the arrays have matching lengths
//
// Sessions with a null close are skipped. Other null fields default to zero.
func (c *FinanceClient) ParseChart(yahooResult Response) (PriceChart, error) {
	return ParseChart(yahooResult)
}

// ParseChart is the stateless implementation behind FinanceClient.ParseChart.
func ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("no results returned")
	}
	result := yahooResult.Chart.Result[0]

	chart := PriceChart{
		Symbol:             result.Meta.Symbol,
		Currency:           result.Meta.Currency,
		ExchangeName:       result.Meta.ExchangeName,
		FullExchangeName:   result.Meta.FullExchangeName,
		LongName:           result.Meta.LongName,
		Shortname:          result.Meta.Shortname,
		RegularMarketPrice: result.Meta.RegularMarketPrice,
	}

	if len(result.Timestamp) == 0 {
		if chart.RegularMarketPrice != nil {
			return chart, nil
		}
		return PriceChart{}, fmt.Errorf("no price data returned")
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices returned")
	}

	quote := result.Indicators.Quote[0]
	if len(quote.Close) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	chart.Indicators = make([]Indicators, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if quote.Close[i] == nil {
			continue
		}
		chart.Indicators = append(chart.Indicators, Indicators{
			Date:       time.Unix(ts, 0).UTC(),
			PriceOpen:  floatAt(quote.Open, i),
			PriceClose: *quote.Close[i],
			Volume:     intAt(quote.Volume, i),
			PriceHigh:  floatAt(quote.High, i),
			PriceLow:   floatAt(quote.Low, i),
		})
	}

	return chart, nil
}

// LatestClose returns the most recent price of the chart.
// The regular market price wins when Yahoo reports one; otherwise the last close is used.
func (c PriceChart) LatestClose() (float64, bool) {
	if c.RegularMarketPrice != nil {
		return *c.RegularMarketPrice, true
	}
	if len(c.Indicators) == 0 {
		return 0, false
	}
	return c.Indicators[len(c.Indicators)-1].PriceClose, true
}

// QueryFiveDay fetches the last 5 days of daily price data for a symbol.
// Used for latest quotes of both equities and currency pairs.
func (c *FinanceClient) QueryFiveDay(ctx context.Context, symbol string) (Response, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, url.PathEscape(symbol))
	return c.query(ctx, symbol, endpoint)
}

// QueryRange fetches daily price data for a symbol between start and end (Unix seconds, inclusive).
func (c *FinanceClient) QueryRange(ctx context.Context, symbol string, start, end time.Time) (Response, error) {
	endpoint := fmt.Sprintf(
		"%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL,
		url.PathEscape(symbol),
		start.Unix(),
		end.Unix(),
	)
	return c.query(ctx, symbol, endpoint)
}

func (c *FinanceClient) query(ctx context.Context, symbol, endpoint string) (Response, error) {
	result, err := c.queryYahoo(ctx, endpoint)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}
	return result, nil
}

// queryYahoo executes the HTTP request, reads and decodes the response and checks for API errors.
// The browser User-Agent avoids Yahoo rejecting the request.
func (c *FinanceClient) queryYahoo(ctx context.Context, endpoint string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Response{}, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
		}
		return Response{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s: %s", response.Chart.Error.Code, response.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
	}

	return response, nil
}

func floatAt(values []*float64, i int) float64 {
	if i < len(values) && values[i] != nil {
		return *values[i]
	}
	return 0
}

func intAt(values []*int64, i int) int64 {
	if i < len(values) && values[i] != nil {
		return *values[i]
	}
	return 0
}
