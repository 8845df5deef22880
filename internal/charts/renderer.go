package charts

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	dErrors "lookalike/pkg/domain-errors"
)

// Renderer draws a ChartConfig as a PNG image.
type Renderer interface {
	Render(cfg ChartConfig) ([]byte, error)
	Name() string
}

// NewRenderer returns the backend registered under name.
func NewRenderer(name string, width, height int) (Renderer, error) {
	switch name {
	case "", "gonum":
		return NewGonumRenderer(width, height), nil
	case "gochart":
		return NewGoChartRenderer(width, height), nil
	}
	return nil, fmt.Errorf("unknown chart renderer %q", name)
}

func errNoData(cfg ChartConfig) error {
	return dErrors.Newf(dErrors.CodeEmptyDataset, "chart %q has no data points", cfg.Title)
}

// parseHex converts "#rrggbb" into an opaque colour; anything else is black.
func parseHex(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{A: 0xff}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
