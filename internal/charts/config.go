// Package charts turns estimator output into chart descriptions and renders
// them to PNG. A ChartConfig is the JSON contract for interactive clients;
// the same value drives the static renderers.
package charts

import (
	"lookalike/internal/dataset"
	"lookalike/internal/estimator"
)

const (
	TypeScatter = "scatter"
	TypeLine    = "line"
)

// Palette used by the published charts: neutral grey for non-matches, red for
// matches and for the growth line.
const (
	ColorNoMatch = "#a0aec0"
	ColorMatch   = "#f56565"
)

// ChartConfig describes one chart.
type ChartConfig struct {
	ChartType  string   `json:"chartType"`
	Title      string   `json:"title"`
	XAxis      string   `json:"xAxis"`
	YAxis      string   `json:"yAxis"`
	Legend     string   `json:"legend,omitempty"`
	Series     []Series `json:"series"`
	ShowLegend bool     `json:"showLegend"`
	ShowGrid   bool     `json:"showGrid"`
}

// Series is a named, coloured run of points.
type Series struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	Points []XY   `json:"points"`
}

// XY is a single point.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointCount returns the number of points across all series.
func (c ChartConfig) PointCount() int {
	n := 0
	for _, s := range c.Series {
		n += len(s.Points)
	}
	return n
}

// ScatterFilter narrows the scatter to one class.
type ScatterFilter string

const (
	FilterAll     ScatterFilter = "all"
	FilterMatch   ScatterFilter = "match"
	FilterNoMatch ScatterFilter = "nomatch"
)

// ParseScatterFilter accepts the query-string spellings; empty means all.
func ParseScatterFilter(s string) (ScatterFilter, bool) {
	switch ScatterFilter(s) {
	case "", FilterAll:
		return FilterAll, true
	case FilterMatch, FilterNoMatch:
		return ScatterFilter(s), true
	}
	return "", false
}

// ScatterConfig plots PC1 against PC2 with one series per match class.
// Callers must have checked the projection columns are present.
func ScatterConfig(observations []dataset.Observation, filter ScatterFilter) ChartConfig {
	noMatch := Series{Name: "No match", Color: ColorNoMatch, Points: []XY{}}
	match := Series{Name: "Match", Color: ColorMatch, Points: []XY{}}
	for _, o := range observations {
		p := XY{X: o.PC1, Y: o.PC2}
		if o.Match {
			match.Points = append(match.Points, p)
		} else {
			noMatch.Points = append(noMatch.Points, p)
		}
	}

	var series []Series
	if filter != FilterMatch {
		series = append(series, noMatch)
	}
	if filter != FilterNoMatch {
		series = append(series, match)
	}
	return ChartConfig{
		ChartType:  TypeScatter,
		Title:      "PCA distribution of look-alikes",
		XAxis:      "Principal component 1",
		YAxis:      "Principal component 2",
		Legend:     "Resembles the reference person?",
		Series:     series,
		ShowLegend: true,
		ShowGrid:   true,
	}
}

// ProjectionConfig plots projected matches against population size.
func ProjectionConfig(points []estimator.Point) ChartConfig {
	line := Series{Name: "Projected matches", Color: ColorMatch, Points: make([]XY, len(points))}
	for i, p := range points {
		line.Points[i] = XY{X: float64(p.PopulationSize), Y: float64(p.ProjectedCount)}
	}
	return ChartConfig{
		ChartType:  TypeLine,
		Title:      "Estimated growth of look-alikes",
		XAxis:      "Population size",
		YAxis:      "Number of look-alikes",
		Series:     []Series{line},
		ShowLegend: false,
		ShowGrid:   true,
	}
}
