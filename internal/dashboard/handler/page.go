package handler

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"math"

	"lookalike/internal/dashboard"
	"lookalike/internal/estimator"
	"lookalike/pkg/platform/httputil"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("dashboard.html").Funcs(template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.2f%%", v*100) },
	"num": func(v float64) string {
		if math.IsNaN(v) {
			return "n/a"
		}
		return fmt.Sprintf("%.3f", v)
	},
}).ParseFS(templateFS, "templates/dashboard.html"))

const pageTitle = "Look-alike estimator"

type pageData struct {
	Title           string
	Fatal           *httputil.ErrorResponse
	Dashboard       *dashboard.Dashboard
	Summary         *estimator.Summary
	Rate            *estimator.Rate
	Projection      []estimator.Point
	Statistics      []estimator.FeatureStats
	ScatterReady    bool
	ProjectionReady bool
	MapReady        bool
	Errors          map[string]*httputil.ErrorResponse
	ChartsJSON      template.JS
}

func newPageData(d *dashboard.Dashboard) (*pageData, error) {
	p := &pageData{
		Title:           pageTitle,
		Dashboard:       d,
		ScatterReady:    d.ScatterChart.OK() && d.ScatterChart.Value.PointCount() > 0,
		ProjectionReady: d.Projection.OK(),
		MapReady:        d.Map.OK(),
		Errors:          make(map[string]*httputil.ErrorResponse),
	}
	for name, err := range d.Failures() {
		resp := panelError(err)
		p.Errors[name] = &resp
	}
	if d.Summary.OK() {
		p.Summary = &d.Summary.Value
	}
	if d.Rate.OK() {
		p.Rate = &d.Rate.Value
	}
	if d.Projection.OK() {
		p.Projection = d.Projection.Value
	}
	if d.Statistics.OK() {
		p.Statistics = d.Statistics.Value
	}

	var cfgs ChartsResponse
	if d.ScatterChart.OK() {
		cfgs.Scatter = &d.ScatterChart.Value
	}
	if d.ProjectionChart.OK() {
		cfgs.Projection = &d.ProjectionChart.Value
	}
	raw, err := json.Marshal(cfgs)
	if err != nil {
		return nil, err
	}
	p.ChartsJSON = template.JS(raw)
	return p, nil
}

func fatalPage(err error) *pageData {
	resp := panelError(err)
	return &pageData{Title: pageTitle, Fatal: &resp}
}

func renderPage(data *pageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
