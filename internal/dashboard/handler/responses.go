package handler

import (
	"math"
	"time"

	"lookalike/internal/charts"
	"lookalike/internal/dashboard"
	"lookalike/internal/estimator"
	"lookalike/internal/geo"
	dErrors "lookalike/pkg/domain-errors"
	"lookalike/pkg/platform/httputil"
)

// SummaryResponse is the headline panel.
type SummaryResponse struct {
	Dataset         string  `json:"dataset,omitempty"`
	TotalCount      int     `json:"total_count"`
	MatchCount      int     `json:"match_count"`
	MatchRate       float64 `json:"match_rate"`
	Rate            float64 `json:"rate,omitempty"`
	RateMode        string  `json:"rate_mode,omitempty"`
	ExpectedMatches int     `json:"expected_matches,omitempty"`
}

// RateResponse is the rate used for projections.
type RateResponse struct {
	Value float64 `json:"value"`
	Mode  string  `json:"mode"`
}

// PointResponse is one projection point.
type PointResponse struct {
	PopulationSize int `json:"population_size"`
	ProjectedCount int `json:"projected_count"`
}

// ProjectionResponse is a projection with its rate.
type ProjectionResponse struct {
	Rate   RateResponse    `json:"rate"`
	Points []PointResponse `json:"points"`
}

// FeatureStatsResponse is one describe row. Std is null with fewer than two
// values.
type FeatureStatsResponse struct {
	Feature string   `json:"feature"`
	Count   int      `json:"count"`
	Mean    float64  `json:"mean"`
	Std     *float64 `json:"std"`
	Min     float64  `json:"min"`
	Q25     float64  `json:"q25"`
	Median  float64  `json:"median"`
	Q75     float64  `json:"q75"`
	Max     float64  `json:"max"`
}

// StatisticsResponse wraps the describe table.
type StatisticsResponse struct {
	Features []FeatureStatsResponse `json:"features"`
}

// ChartsResponse holds the chart descriptions of a dashboard.
type ChartsResponse struct {
	Scatter    *charts.ChartConfig `json:"scatter,omitempty"`
	Projection *charts.ChartConfig `json:"projection,omitempty"`
}

// DashboardResponse carries every panel that rendered, and an error entry for
// each that did not.
type DashboardResponse struct {
	Dataset         string                            `json:"dataset"`
	Digest          string                            `json:"digest"`
	Rows            int                               `json:"rows"`
	MissingColumns  []string                          `json:"missing_columns,omitempty"`
	ExpectedMatches int                               `json:"expected_matches"`
	RenderedAt      time.Time                         `json:"rendered_at"`
	Summary         *SummaryResponse                  `json:"summary,omitempty"`
	Rate            *RateResponse                     `json:"rate,omitempty"`
	Projection      []PointResponse                   `json:"projection,omitempty"`
	Statistics      []FeatureStatsResponse            `json:"statistics,omitempty"`
	Charts          ChartsResponse                    `json:"charts"`
	Map             *geo.Overlay                      `json:"map,omitempty"`
	Errors          map[string]httputil.ErrorResponse `json:"errors,omitempty"`
}

func toSummaryResponse(res *dashboard.SummaryResult) *SummaryResponse {
	return &SummaryResponse{
		Dataset:         res.Dataset,
		TotalCount:      res.Summary.TotalCount,
		MatchCount:      res.Summary.MatchCount,
		MatchRate:       res.Summary.MatchRate,
		Rate:            res.Rate.Value,
		RateMode:        string(res.Rate.Mode),
		ExpectedMatches: res.ExpectedMatches,
	}
}

func toRateResponse(r estimator.Rate) RateResponse {
	return RateResponse{Value: r.Value, Mode: string(r.Mode)}
}

func toPoints(points []estimator.Point) []PointResponse {
	out := make([]PointResponse, len(points))
	for i, p := range points {
		out[i] = PointResponse{PopulationSize: p.PopulationSize, ProjectedCount: p.ProjectedCount}
	}
	return out
}

func toProjectionResponse(res *dashboard.ProjectionResult) *ProjectionResponse {
	return &ProjectionResponse{Rate: toRateResponse(res.Rate), Points: toPoints(res.Points)}
}

func toStats(stats []estimator.FeatureStats) []FeatureStatsResponse {
	out := make([]FeatureStatsResponse, len(stats))
	for i, s := range stats {
		out[i] = FeatureStatsResponse{
			Feature: s.Feature,
			Count:   s.Count,
			Mean:    s.Mean,
			Std:     finite(s.Std),
			Min:     s.Min,
			Q25:     s.Q25,
			Median:  s.Median,
			Q75:     s.Q75,
			Max:     s.Max,
		}
	}
	return out
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// panelError mirrors httputil.WriteError: internal errors carry no description.
func panelError(err error) httputil.ErrorResponse {
	code := dErrors.CodeOf(err)
	resp := httputil.ErrorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		resp.ErrorDescription = err.Error()
	}
	return resp
}

func toDashboardResponse(d *dashboard.Dashboard) *DashboardResponse {
	resp := &DashboardResponse{
		Dataset:         d.Dataset,
		Digest:          d.Digest,
		Rows:            d.Rows,
		MissingColumns:  d.MissingColumns,
		ExpectedMatches: d.ExpectedMatches,
		RenderedAt:      d.RenderedAt,
		Errors:          make(map[string]httputil.ErrorResponse),
	}
	fail := func(panel string, err error) bool {
		if err != nil {
			resp.Errors[panel] = panelError(err)
			return true
		}
		return false
	}

	if !fail(dashboard.PanelSummary, d.Summary.Err) {
		sum := d.Summary.Value
		resp.Summary = &SummaryResponse{TotalCount: sum.TotalCount, MatchCount: sum.MatchCount, MatchRate: sum.MatchRate}
	}
	if !fail(dashboard.PanelRate, d.Rate.Err) {
		rate := toRateResponse(d.Rate.Value)
		resp.Rate = &rate
	}
	if !fail(dashboard.PanelProjection, d.Projection.Err) {
		resp.Projection = toPoints(d.Projection.Value)
	}
	if !fail(dashboard.PanelStatistics, d.Statistics.Err) {
		resp.Statistics = toStats(d.Statistics.Value)
	}
	if !fail(dashboard.PanelScatterChart, d.ScatterChart.Err) {
		cfg := d.ScatterChart.Value
		resp.Charts.Scatter = &cfg
	}
	if !fail(dashboard.PanelProjectionChart, d.ProjectionChart.Err) {
		cfg := d.ProjectionChart.Value
		resp.Charts.Projection = &cfg
	}
	if !fail(dashboard.PanelMap, d.Map.Err) {
		resp.Map = d.Map.Value
	}
	return resp
}
