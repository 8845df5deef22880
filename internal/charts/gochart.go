package charts

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
)

// GoChartRenderer draws with github.com/wcharczuk/go-chart.
type GoChartRenderer struct {
	width  int
	height int
}

func NewGoChartRenderer(width, height int) *GoChartRenderer {
	return &GoChartRenderer{width: width, height: height}
}

func (r *GoChartRenderer) Name() string { return "gochart" }

func (r *GoChartRenderer) Render(cfg ChartConfig) ([]byte, error) {
	if cfg.PointCount() == 0 {
		return nil, errNoData(cfg)
	}

	var series []chart.Series
	var allX, allY []float64
	for _, s := range cfg.Series {
		if len(s.Points) == 0 {
			continue
		}
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, pt := range s.Points {
			xs[i], ys[i] = pt.X, pt.Y
		}
		allX = append(allX, xs...)
		allY = append(allY, ys...)

		col := toDrawing(s.Color)
		style := chart.Style{StrokeColor: col, StrokeWidth: 2, DotColor: col, DotWidth: 3}
		switch cfg.ChartType {
		case TypeScatter:
			style.StrokeWidth = chart.Disabled
			style.DotWidth = 2
		case TypeLine:
		default:
			return nil, fmt.Errorf("unsupported chart type %q", cfg.ChartType)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   style,
		})
	}

	ch := chart.Chart{
		Title:      cfg.Title,
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: cfg.XAxis},
		YAxis:      chart.YAxis{Name: cfg.YAxis},
		Series:     series,
	}
	// go-chart refuses a zero-width axis, so a single point or a flat line
	// gets an explicit range around its value.
	if rng, ok := paddedRange(allX); ok {
		ch.XAxis.Range = rng
	}
	if rng, ok := paddedRange(allY); ok {
		ch.YAxis.Range = rng
	}
	if cfg.ShowGrid {
		ch.XAxis.GridMajorStyle = chart.Style{StrokeColor: drawing.ColorFromHex("e2e8f0"), StrokeWidth: 1}
		ch.YAxis.GridMajorStyle = chart.Style{StrokeColor: drawing.ColorFromHex("e2e8f0"), StrokeWidth: 1}
	}
	if cfg.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s chart: %w", cfg.ChartType, err)
	}
	return buf.Bytes(), nil
}

// paddedRange returns a range centred on the common value when every value is
// the same, and ok=false when the values already span a range.
func paddedRange(values []float64) (*chart.ContinuousRange, bool) {
	lo, hi := floats.Min(values), floats.Max(values)
	if hi > lo {
		return nil, false
	}
	pad := math.Abs(lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}, true
}

func toDrawing(hex string) drawing.Color {
	c := parseHex(hex)
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
