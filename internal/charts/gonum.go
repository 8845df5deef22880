package charts

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// GonumRenderer draws with gonum.org/v1/plot.
type GonumRenderer struct {
	width  vg.Length
	height vg.Length
}

// NewGonumRenderer sizes the canvas in pixels at the PNG writer's 96 DPI.
func NewGonumRenderer(widthPx, heightPx int) *GonumRenderer {
	const pointsPerPixel = 72.0 / 96.0
	return &GonumRenderer{
		width:  vg.Length(float64(widthPx) * pointsPerPixel),
		height: vg.Length(float64(heightPx) * pointsPerPixel),
	}
}

func (r *GonumRenderer) Name() string { return "gonum" }

func (r *GonumRenderer) Render(cfg ChartConfig) ([]byte, error) {
	if cfg.PointCount() == 0 {
		return nil, errNoData(cfg)
	}

	p := plot.New()
	p.Title.Text = cfg.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = cfg.XAxis
	p.Y.Label.Text = cfg.YAxis
	p.Legend.Top = true
	if cfg.ShowGrid {
		p.Add(plotter.NewGrid())
	}

	for _, s := range cfg.Series {
		if len(s.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Points))
		for i, pt := range s.Points {
			xys[i].X, xys[i].Y = pt.X, pt.Y
		}
		col := parseHex(s.Color)

		switch cfg.ChartType {
		case TypeScatter:
			sc, err := plotter.NewScatter(xys)
			if err != nil {
				return nil, fmt.Errorf("scatter series %q: %w", s.Name, err)
			}
			sc.GlyphStyle.Color = col
			sc.GlyphStyle.Radius = vg.Points(2)
			sc.GlyphStyle.Shape = draw.CircleGlyph{}
			p.Add(sc)
			if cfg.ShowLegend {
				p.Legend.Add(s.Name, sc)
			}
		case TypeLine:
			line, points, err := plotter.NewLinePoints(xys)
			if err != nil {
				return nil, fmt.Errorf("line series %q: %w", s.Name, err)
			}
			line.Color = col
			line.Width = vg.Points(2)
			points.Color = col
			points.Shape = draw.CircleGlyph{}
			points.Radius = vg.Points(3)
			p.Add(line, points)
			if cfg.ShowLegend {
				p.Legend.Add(s.Name, line, points)
			}
		default:
			return nil, fmt.Errorf("unsupported chart type %q", cfg.ChartType)
		}
	}

	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return nil, fmt.Errorf("prepare png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
