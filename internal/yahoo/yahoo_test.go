package yahoo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/yahoo"
)

const chartJSON = `{
  "chart": {
    "result": [{
      "meta": {"currency": "JPY", "symbol": "7203.T", "exchangeName": "JPX", "regularMarketPrice": 2850.5},
      "timestamp": [1740787200, 1740873600, 1740960000],
      "indicators": {"quote": [{
        "open":   [2800, null, 2840],
        "close":  [2810, null, 2850],
        "high":   [2820, null, 2860],
        "low":    [2790, null, 2830],
        "volume": [100, null, 300]
      }]}
    }],
    "error": null
  }
}`

// TestFinanceClient_QueryFiveDay tests the latest-quote request path.
//
// WHY: The resolver depends on the request shape (symbol in path, interval/range query)
// and on null sessions being dropped rather than parsed as zero prices.
func TestFinanceClient_QueryFiveDay(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chartJSON))
	}))
	defer server.Close()

	client := yahoo.NewFinanceClient(server.Client(), server.URL)

	raw, err := client.QueryFiveDay(context.Background(), "7203.T")
	if err != nil {
		t.Fatalf("QueryFiveDay() returned unexpected error: %v", err)
	}

	if gotPath != "/v8/finance/chart/7203.T" {
		t.Errorf("Expected chart path, got %s", gotPath)
	}
	if !strings.Contains(gotQuery, "range=5d") || !strings.Contains(gotQuery, "interval=1d") {
		t.Errorf("Expected range=5d&interval=1d, got %s", gotQuery)
	}
	if gotUA == "" {
		t.Error("Expected a User-Agent header")
	}

	chart, err := client.ParseChart(raw)
	if err != nil {
		t.Fatalf("ParseChart() returned unexpected error: %v", err)
	}

	if len(chart.Indicators) != 2 {
		t.Fatalf("Expected null session to be dropped, got %d indicators", len(chart.Indicators))
	}
	if chart.Indicators[1].PriceClose != 2850 {
		t.Errorf("Expected last close 2850, got %v", chart.Indicators[1].PriceClose)
	}

	latest, ok := chart.LatestClose()
	if !ok || latest != 2850.5 {
		t.Errorf("Expected regular market price 2850.5, got %v (ok=%v)", latest, ok)
	}
}

func TestFinanceClient_QueryRange(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(chartJSON))
	}))
	defer server.Close()

	client := yahoo.NewFinanceClient(server.Client(), server.URL)
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)

	if _, err := client.QueryRange(context.Background(), "7203.T", start, end); err != nil {
		t.Fatalf("QueryRange() returned unexpected error: %v", err)
	}

	if !strings.Contains(gotQuery, "period1=1735689600") {
		t.Errorf("Expected period1 for 2025-01-01, got %s", gotQuery)
	}
}

func TestFinanceClient_Errors(t *testing.T) {
	t.Run("yahoo error object", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
		}))
		defer server.Close()

		client := yahoo.NewFinanceClient(server.Client(), server.URL)
		if _, err := client.QueryFiveDay(context.Background(), "NOPE"); err == nil {
			t.Error("Expected error for yahoo error response, got nil")
		}
	})

	t.Run("non JSON body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte("Too Many Requests"))
		}))
		defer server.Close()

		client := yahoo.NewFinanceClient(server.Client(), server.URL)
		if _, err := client.QueryFiveDay(context.Background(), "USDJPY=X"); err == nil {
			t.Error("Expected error for non JSON body, got nil")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(chartJSON))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := yahoo.NewFinanceClient(server.Client(), server.URL)
		if _, err := client.QueryFiveDay(ctx, "USDJPY=X"); err == nil {
			t.Error("Expected error for cancelled context, got nil")
		}
	})
}

func TestParseChart_Validation(t *testing.T) {
	if _, err := yahoo.ParseChart(yahoo.Response{}); err == nil {
		t.Error("Expected error for empty response")
	}

	one := 1.0
	mismatched := yahoo.Response{Chart: yahoo.Chart{Result: []yahoo.Result{{
		Timestamp:  []int64{1, 2},
		Indicators: yahoo.IndicatorsContainer{Quote: []yahoo.Quote{{Close: []*float64{&one}}}},
	}}}}
	if _, err := yahoo.ParseChart(mismatched); err == nil {
		t.Error("Expected error for mismatched lengths")
	}
}
