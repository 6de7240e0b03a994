package projection

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/stat"

	"github.com/rgeddes/folio/internal/models"
)

// RenderProjectionChart renders a PNG line chart of the historical closes
// with the fitted trend extended months ahead. Two series: Close (blue
// solid) and Trend (gray dashed). Returns raw PNG bytes.
func RenderProjectionChart(symbol string, bars []models.PriceBar, months int) ([]byte, error) {
	if len(bars) < minObservations {
		return nil, fmt.Errorf("need at least %d data points, got %d", minObservations, len(bars))
	}

	xs := make([]float64, len(bars))
	ys := make([]float64, len(bars))
	for i, bar := range bars {
		xs[i] = float64(i)
		ys[i] = bar.Close
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	horizon := len(bars) + months*daysPerMonth
	trendX := make([]float64, horizon)
	trendY := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		trendX[i] = float64(i)
		trendY[i] = intercept + slope*float64(i)
	}

	closeSeries := chart.ContinuousSeries{
		Name: "Close",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xs,
		YValues: ys,
	}

	trendSeries := chart.ContinuousSeries{
		Name: "Trend",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: trendX,
		YValues: trendY,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s %d-Month Projection", symbol, months),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0fd", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			closeSeries,
			trendSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
