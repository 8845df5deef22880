package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the dashboard module.
type Metrics struct {
	// Full render pass latency, load through last panel
	RenderLatency prometheus.Histogram

	// Panels that failed, by panel and error code
	PanelFailures *prometheus.CounterVec

	// Chart image rendering latency by renderer and chart kind
	ChartLatency *prometheus.HistogramVec

	// Chart cache lookups by result: "hit", "miss", "error"
	ChartCache *prometheus.CounterVec

	// Downloads served by artifact
	Downloads *prometheus.CounterVec
}

// New creates a Metrics instance registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RenderLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lookalike_dashboard_render_duration_seconds",
			Help:    "Duration of a full dashboard render pass",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		PanelFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lookalike_dashboard_panel_failures_total",
			Help: "Dashboard panels that could not be produced, by panel and error code",
		}, []string{"panel", "code"}),

		ChartLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lookalike_chart_render_duration_seconds",
			Help:    "Duration of PNG chart rendering by backend and chart kind",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"renderer", "kind"}),

		ChartCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lookalike_chart_cache_lookups_total",
			Help: "Chart cache lookups by result",
		}, []string{"result"}),

		Downloads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lookalike_downloads_total",
			Help: "Downloads served by artifact",
		}, []string{"artifact"}),
	}
}

func (m *Metrics) ObserveRenderLatency(d time.Duration) {
	if m != nil {
		m.RenderLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementPanelFailure(panel, code string) {
	if m != nil {
		m.PanelFailures.WithLabelValues(panel, code).Inc()
	}
}

func (m *Metrics) ObserveChartLatency(renderer, kind string, d time.Duration) {
	if m != nil {
		m.ChartLatency.WithLabelValues(renderer, kind).Observe(d.Seconds())
	}
}

// IncrementCache records a cache lookup result.
func (m *Metrics) IncrementCache(result string) {
	if m != nil {
		m.ChartCache.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncrementDownload(artifact string) {
	if m != nil {
		m.Downloads.WithLabelValues(artifact).Inc()
	}
}
