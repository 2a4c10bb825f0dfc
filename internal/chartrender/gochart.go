package chartrender

import (
	"bytes"
	"fmt"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/supertypo/kaspa-hashrate-app/internal/models"
)

const (
	defaultWidth  = 1000
	defaultHeight = 400
)

var seriesColor = drawing.Color{R: 0x2c, G: 0x7b, B: 0xb6, A: 255}

// GoChartRenderer renders samples to a PNG line chart via go-chart.
type GoChartRenderer struct {
	Width  int
	Height int
}

func NewGoChartRenderer() *GoChartRenderer {
	return &GoChartRenderer{Width: defaultWidth, Height: defaultHeight}
}

// Render draws the hashrate series on a linear or logarithmic Y axis,
// with the X axis clipped to the visible window when one is set.
func (r *GoChartRenderer) Render(series []models.Sample, scaleKind string, visible models.Window) ([]byte, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("cannot render chart with %d samples", len(series))
	}

	xs := make([]time.Time, len(series))
	ys := make([]float64, len(series))
	for i, s := range series {
		xs[i] = s.Timestamp
		ys[i] = s.HashrateKHs
	}

	yAxis := chart.YAxis{Name: "Hashrate (kH/s)"}
	if scaleKind == models.ScaleLog {
		yAxis.Range = &chart.LogarithmicRange{}
	}

	xAxis := chart.XAxis{
		Name:           "Time",
		ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02 15:04"),
	}
	if !visible.Start.IsZero() && !visible.End.IsZero() {
		xAxis.Range = &chart.ContinuousRange{
			Min: float64(visible.Start.UnixNano()),
			Max: float64(visible.End.UnixNano()),
		}
	}

	ch := chart.Chart{
		Width:      r.width(),
		Height:     r.height(),
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 24}},
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Network hashrate",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: 1.5,
					StrokeColor: seriesColor,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *GoChartRenderer) width() int {
	if r.Width > 0 {
		return r.Width
	}
	return defaultWidth
}

func (r *GoChartRenderer) height() int {
	if r.Height > 0 {
		return r.Height
	}
	return defaultHeight
}
