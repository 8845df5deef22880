// Package dashboard runs render passes over the simulation dataset and
// assembles the panels the HTTP surface and the export command present.
//
// Every pass re-reads the source. Panels fail independently: a missing
// column removes the panels that need it while the rest still render. Only an
// unavailable or unparseable dataset fails the pass as a whole.
package dashboard

import (
	"time"

	"lookalike/internal/charts"
	"lookalike/internal/estimator"
	"lookalike/internal/geo"
)

// Panel names, used in logs, metrics and the JSON response.
const (
	PanelSummary         = "summary"
	PanelRate            = "rate"
	PanelProjection      = "projection"
	PanelStatistics      = "statistics"
	PanelScatterChart    = "scatter_chart"
	PanelProjectionChart = "projection_chart"
	PanelMap             = "map"
)

// Panel is one dashboard section: a value or the error that prevented it.
type Panel[T any] struct {
	Value T
	Err   error
}

// OK reports whether the panel rendered.
func (p Panel[T]) OK() bool { return p.Err == nil }

func panelOf[T any](v T, err error) Panel[T] {
	if err != nil {
		var zero T
		return Panel[T]{Value: zero, Err: err}
	}
	return Panel[T]{Value: v}
}

// Dashboard is the result of one render pass.
type Dashboard struct {
	Dataset         string
	Digest          string
	Rows            int
	MissingColumns  []string
	ExpectedMatches int
	RenderedAt      time.Time

	Summary         Panel[estimator.Summary]
	Rate            Panel[estimator.Rate]
	Projection      Panel[[]estimator.Point]
	Statistics      Panel[[]estimator.FeatureStats]
	ScatterChart    Panel[charts.ChartConfig]
	ProjectionChart Panel[charts.ChartConfig]
	Map             Panel[*geo.Overlay]
}

// Failures maps each failed panel name to its error.
func (d *Dashboard) Failures() map[string]error {
	out := make(map[string]error)
	add := func(name string, err error) {
		if err != nil {
			out[name] = err
		}
	}
	add(PanelSummary, d.Summary.Err)
	add(PanelRate, d.Rate.Err)
	add(PanelProjection, d.Projection.Err)
	add(PanelStatistics, d.Statistics.Err)
	add(PanelScatterChart, d.ScatterChart.Err)
	add(PanelProjectionChart, d.ProjectionChart.Err)
	add(PanelMap, d.Map.Err)
	return out
}

// Population is a default population-size range.
type Population struct {
	Start int
	Stop  int
	Step  int
}

// ProjectionParams customise a projection. Zero fields take the configured
// defaults; a non-nil Rate overrides the rate policy.
type ProjectionParams struct {
	Start int
	Stop  int
	Step  int
	Rate  *float64
}

func (p ProjectionParams) sizes(def Population) ([]int, error) {
	start, stop, step := def.Start, def.Stop, def.Step
	if p.Start != 0 {
		start = p.Start
	}
	if p.Stop != 0 {
		stop = p.Stop
	}
	if p.Step != 0 {
		step = p.Step
	}
	return estimator.PopulationRange(start, stop, step)
}

// RenderParams select what a full render pass shows.
type RenderParams struct {
	Projection ProjectionParams
	// Features restricts the statistics panel; empty means every feature.
	Features []string
	Scatter  charts.ScatterFilter
}

// SummaryResult is the headline panel.
type SummaryResult struct {
	Dataset         string
	Summary         estimator.Summary
	Rate            estimator.Rate
	ExpectedMatches int
}

// ProjectionResult is a projection with the rate that produced it.
type ProjectionResult struct {
	Rate   estimator.Rate
	Points []estimator.Point
}

// File is a downloadable artifact.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}
