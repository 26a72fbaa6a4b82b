// Package report renders stored inventory history for people.
package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/model"
)

// ChartOptions controls the rendered page.
type ChartOptions struct {
	Title  string
	Width  string
	Height string
}

// DefaultChartOptions are used for zero fields.
var DefaultChartOptions = ChartOptions{
	Title:  "Inventory history",
	Width:  "1000px",
	Height: "500px",
}

// SeriesNames are the legend entries, in the order the series are drawn.
var SeriesNames = []string{"Financial", "Physical", "Intangible", "Liability", "Total"}

// NewHistoryChart builds a line chart with one line per category plus the total.
func NewHistoryChart(data model.ChartData, o ChartOptions) *charts.Line {
	if o.Title == "" {
		o.Title = DefaultChartOptions.Title
	}
	if o.Width == "" {
		o.Width = DefaultChartOptions.Width
	}
	if o.Height == "" {
		o.Height = DefaultChartOptions.Height
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.Title, Width: o.Width, Height: o.Height}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: "JPY"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	values := [][]float64{
		data.Series.Financial,
		data.Series.Physical,
		data.Series.Intangible,
		data.Series.Liability,
		data.Series.Total,
	}
	line.SetXAxis(data.Labels)
	for i, name := range SeriesNames {
		line.AddSeries(name, lineData(values[i]))
	}
	return line
}

// RenderChart writes a self-contained HTML page with the history chart.
func RenderChart(w io.Writer, data model.ChartData, o ChartOptions) error {
	if err := NewHistoryChart(data, o).Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func lineData(values []float64) []opts.LineData {
	items := make([]opts.LineData, 0, len(values))
	for _, v := range values {
		items = append(items, opts.LineData{Value: v})
	}
	return items
}
