package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lookalike/internal/charts"
	"lookalike/internal/dashboard"
	"lookalike/internal/dashboard/metrics"
	"lookalike/internal/estimator"
	"lookalike/internal/geo"
	dErrors "lookalike/pkg/domain-errors"
	"lookalike/pkg/platform/httputil"
	"lookalike/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the dashboard operations the HTTP surface needs.
type Service interface {
	Render(ctx context.Context, params dashboard.RenderParams) (*dashboard.Dashboard, error)
	Summary(ctx context.Context) (*dashboard.SummaryResult, error)
	Projection(ctx context.Context, params dashboard.ProjectionParams) (*dashboard.ProjectionResult, error)
	Statistics(ctx context.Context, features []string) ([]estimator.FeatureStats, error)
	ScatterChart(ctx context.Context, filter charts.ScatterFilter) (*charts.ChartConfig, error)
	ProjectionChart(ctx context.Context, params dashboard.ProjectionParams) (*charts.ChartConfig, error)
	Map(ctx context.Context) (*geo.Overlay, error)
	ScatterPNG(ctx context.Context, filter charts.ScatterFilter) ([]byte, error)
	ProjectionPNG(ctx context.Context, params dashboard.ProjectionParams) ([]byte, error)
	DatasetCSV(ctx context.Context) (*dashboard.File, error)
	StatisticsWorkbook(ctx context.Context) (*dashboard.File, error)
	ReportPDF(ctx context.Context) (*dashboard.File, error)
}

// Handler wires dashboard endpoints to the dashboard service.
type Handler struct {
	service Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a dashboard handler with its dependencies.
func New(service Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		metrics: metrics,
	}
}

// Register mounts dashboard endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.HandlePage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.HandleDashboard)
		r.Get("/summary", h.HandleSummary)
		r.Get("/projection", h.HandleProjection)
		r.Get("/statistics", h.HandleStatistics)
		r.Get("/charts/scatter", h.HandleScatterChart)
		r.Get("/charts/projection", h.HandleProjectionChart)
		r.Get("/map", h.HandleMap)
	})

	r.Get("/charts/scatter.png", h.HandleScatterPNG)
	r.Get("/charts/projection.png", h.HandleProjectionPNG)

	r.Get("/downloads/report.pdf", h.HandleReportDownload)
	r.Get("/downloads/dataset.csv", h.HandleDatasetDownload)
	r.Get("/downloads/statistics.xlsx", h.HandleStatisticsDownload)
}

// HandlePage handles GET / with the server-rendered dashboard.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := http.StatusOK
	var data *pageData
	d, err := h.service.Render(ctx, dashboard.RenderParams{})
	if err != nil {
		h.logFailure(ctx, "render dashboard page", err)
		status = dErrors.ToHTTPStatus(dErrors.CodeOf(err))
		data = fatalPage(err)
	} else if data, err = newPageData(d); err != nil {
		h.logFailure(ctx, "prepare dashboard page", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "prepare page"))
		return
	}

	body, err := renderPage(data)
	if err != nil {
		h.logFailure(ctx, "execute dashboard template", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "render page"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// HandleDashboard handles GET /api/dashboard.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	projection, err := parseProjectionParams(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	filter, err := parseScatterFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	d, err := h.service.Render(ctx, dashboard.RenderParams{
		Projection: projection,
		Features:   parseFeatures(r),
		Scatter:    filter,
	})
	if err != nil {
		h.logFailure(ctx, "render dashboard", err)
		httputil.WriteError(w, err)
		return
	}

	resp := toDashboardResponse(d)
	h.logger.InfoContext(ctx, "dashboard rendered",
		"request_id", requestcontext.RequestID(ctx),
		"dataset", d.Dataset,
		"rows", d.Rows,
		"failed_panels", len(resp.Errors),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	h.writeJSON(w, r, resp)
}

// HandleSummary handles GET /api/summary.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.service.Summary(ctx)
	if err != nil {
		h.logFailure(ctx, "summarize dataset", err)
		httputil.WriteError(w, err)
		return
	}
	h.writeJSON(w, r, toSummaryResponse(res))
}

// HandleProjection handles GET /api/projection?start&stop&step&rate.
func (h *Handler) HandleProjection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := parseProjectionParams(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.service.Projection(ctx, params)
	if err != nil {
		h.logFailure(ctx, "project matches", err)
		httputil.WriteError(w, err)
		return
	}
	h.writeJSON(w, r, toProjectionResponse(res))
}

// HandleStatistics handles GET /api/statistics?feature=...
func (h *Handler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.service.Statistics(ctx, parseFeatures(r))
	if err != nil {
		h.logFailure(ctx, "describe features", err)
		httputil.WriteError(w, err)
		return
	}
	h.writeJSON(w, r, StatisticsResponse{Features: toStats(stats)})
}

// HandleScatterChart handles GET /api/charts/scatter?match=all|match|nomatch.
func (h *Handler) HandleScatterChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, err := parseScatterFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	cfg, err := h.service.ScatterChart(ctx, filter)
	if err != nil {
		h.logFailure(ctx, "build scatter chart", err)
		httputil.WriteError(w, err)
		return
	}
	h.writeJSON(w, r, cfg)
}

// HandleProjectionChart handles GET /api/charts/projection.
func (h *Handler) HandleProjectionChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := parseProjectionParams(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	cfg, err := h.service.ProjectionChart(ctx, params)
	if err != nil {
		h.logFailure(ctx, "build projection chart", err)
		httputil.WriteError(w, err)
		return
	}
	h.writeJSON(w, r, cfg)
}

// HandleMap handles GET /api/map.
func (h *Handler) HandleMap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	overlay, err := h.service.Map(ctx)
	if err != nil {
		h.logFailure(ctx, "build map overlay", err)
		httputil.WriteError(w, err)
		return
	}
	body, err := overlay.MarshalJSON()
	if err != nil {
		h.logFailure(ctx, "encode map overlay", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "encode map"))
		return
	}
	httputil.WriteBytes(w, "application/geo+json", "", body)
}

// HandleScatterPNG handles GET /charts/scatter.png.
func (h *Handler) HandleScatterPNG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, err := parseScatterFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	png, err := h.service.ScatterPNG(ctx, filter)
	if err != nil {
		h.logFailure(ctx, "render scatter png", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteBytes(w, "image/png", "", png)
}

// HandleProjectionPNG handles GET /charts/projection.png.
func (h *Handler) HandleProjectionPNG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := parseProjectionParams(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	png, err := h.service.ProjectionPNG(ctx, params)
	if err != nil {
		h.logFailure(ctx, "render projection png", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteBytes(w, "image/png", "", png)
}

// HandleReportDownload handles GET /downloads/report.pdf.
func (h *Handler) HandleReportDownload(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "report", h.service.ReportPDF)
}

// HandleDatasetDownload handles GET /downloads/dataset.csv.
func (h *Handler) HandleDatasetDownload(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "dataset", h.service.DatasetCSV)
}

// HandleStatisticsDownload handles GET /downloads/statistics.xlsx.
func (h *Handler) HandleStatisticsDownload(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "statistics", h.service.StatisticsWorkbook)
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, artifact string, fetch func(context.Context) (*dashboard.File, error)) {
	ctx := r.Context()
	f, err := fetch(ctx)
	if err != nil {
		h.logFailure(ctx, "serve "+artifact+" download", err)
		httputil.WriteError(w, err)
		return
	}
	h.metrics.IncrementDownload(artifact)
	h.logger.InfoContext(ctx, "download served",
		"request_id", requestcontext.RequestID(ctx),
		"artifact", artifact,
		"bytes", len(f.Data),
	)
	httputil.WriteBytes(w, f.ContentType, f.Name, f.Data)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	if err := httputil.WriteJSON(w, http.StatusOK, v); err != nil {
		h.logFailure(r.Context(), "write "+r.URL.Path+" response", dErrors.Wrap(err, dErrors.CodeInternal, "encode response"))
	}
}

// logFailure logs client-visible failures at warn and internal ones at error.
func (h *Handler) logFailure(ctx context.Context, op string, err error) {
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, op+" failed",
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}
