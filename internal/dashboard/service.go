package dashboard

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"lookalike/internal/charts"
	"lookalike/internal/charts/cache"
	"lookalike/internal/dashboard/metrics"
	"lookalike/internal/dataset"
	"lookalike/internal/estimator"
	"lookalike/internal/export"
	"lookalike/internal/geo"
	dErrors "lookalike/pkg/domain-errors"
	"lookalike/pkg/requestcontext"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// Config holds what a render pass needs besides the source.
type Config struct {
	Schema          dataset.Schema
	RatePolicy      estimator.RatePolicy
	Population      Population
	ExpectedMatches int
	CacheTTL        time.Duration
	ReportPDFPath   string
	// Strict fails the load on any missing column instead of degrading panels.
	Strict bool
}

// Service performs render passes against a dataset source.
type Service struct {
	source   dataset.Source
	cfg      Config
	renderer charts.Renderer
	cache    cache.Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithRenderer(r charts.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithCache enables chart image caching.
func WithCache(store cache.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.cache = store
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a Service. Without options charts render with gonum at
// 800x600 and are not cached.
func New(source dataset.Source, cfg Config, opts ...Option) *Service {
	s := &Service{
		source:   source,
		cfg:      cfg,
		renderer: charts.NewGonumRenderer(800, 600),
		cache:    cache.Nop{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render performs a full pass and returns every panel.
func (s *Service) Render(ctx context.Context, params RenderParams) (*Dashboard, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveRenderLatency(time.Since(start)) }()

	ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Dataset:         ds.Name(),
		Digest:          ds.Digest(),
		Rows:            ds.Len(),
		MissingColumns:  ds.Missing(),
		ExpectedMatches: s.cfg.ExpectedMatches,
		RenderedAt:      requestcontext.Now(ctx),
	}

	summary, summaryErr := summarize(ds)
	d.Summary = panelOf(summary, summaryErr)

	rate, rateErr := s.rate(&summary, summaryErr, params.Projection.Rate)
	d.Rate = panelOf(rate, rateErr)

	if rateErr != nil {
		d.Projection = panelOf[[]estimator.Point](nil, rateErr)
	} else {
		d.Projection = panelOf(s.project(rate, params.Projection))
	}
	if d.Projection.OK() {
		d.ProjectionChart = panelOf(charts.ProjectionConfig(d.Projection.Value), nil)
	} else {
		d.ProjectionChart = panelOf(charts.ChartConfig{}, d.Projection.Err)
	}

	d.Statistics = panelOf(statistics(ds, params.Features))
	d.ScatterChart = panelOf(scatter(ds, params.Scatter))
	d.Map = panelOf(geo.Build(ds))

	for name, err := range d.Failures() {
		s.metrics.IncrementPanelFailure(name, string(dErrors.CodeOf(err)))
		s.logger.WarnContext(ctx, "dashboard panel unavailable",
			"request_id", requestcontext.RequestID(ctx),
			"panel", name,
			"error", err,
		)
	}
	return d, nil
}

// Summary returns the headline counts with the resolved rate.
func (s *Service) Summary(ctx context.Context) (*SummaryResult, error) {
	ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := summarize(ds)
	if err != nil {
		return nil, err
	}
	rate, err := s.cfg.RatePolicy.Resolve(&summary)
	if err != nil {
		return nil, err
	}
	return &SummaryResult{
		Dataset:         ds.Name(),
		Summary:         summary,
		Rate:            rate,
		ExpectedMatches: s.cfg.ExpectedMatches,
	}, nil
}

// Projection projects matches over a population range. The dataset is read
// only when the rate has to be derived from it.
func (s *Service) Projection(ctx context.Context, params ProjectionParams) (*ProjectionResult, error) {
	res, _, err := s.projection(ctx, params)
	return res, err
}

// Statistics describes the requested features, or every feature when none
// are named.
func (s *Service) Statistics(ctx context.Context, features []string) ([]estimator.FeatureStats, error) {
	ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return statistics(ds, features)
}

// ScatterChart returns the PC1/PC2 chart description.
func (s *Service) ScatterChart(ctx context.Context, filter charts.ScatterFilter) (*charts.ChartConfig, error) {
	ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := scatter(ds, filter)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ProjectionChart returns the growth chart description.
func (s *Service) ProjectionChart(ctx context.Context, params ProjectionParams) (*charts.ChartConfig, error) {
	res, _, err := s.projection(ctx, params)
	if err != nil {
		return nil, err
	}
	cfg := charts.ProjectionConfig(res.Points)
	return &cfg, nil
}

// Map returns the GeoJSON overlay.
func (s *Service) Map(ctx context.Context) (*geo.Overlay, error) {
	ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return geo.Build(ds)
}

// ScatterPNG renders the scatter chart, served from cache when the dataset
// digest and filter are unchanged.
func (s *Service) ScatterPNG(ctx context.Context, filter charts.ScatterFilter) ([]byte, error) {
	ds, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := scatter(ds, filter)
	if err != nil {
		return nil, err
	}
	return s.renderPNG(ctx, cache.Key("scatter", ds.Digest(), s.renderer.Name(), string(filter)), cfg)
}

// ProjectionPNG renders the growth chart.
func (s *Service) ProjectionPNG(ctx context.Context, params ProjectionParams) ([]byte, error) {
	res, digest, err := s.projection(ctx, params)
	if err != nil {
		return nil, err
	}
	first, last := res.Points[0].PopulationSize, res.Points[len(res.Points)-1].PopulationSize
	key := cache.Key("projection", digest, s.renderer.Name(),
		strconv.FormatFloat(res.Rate.Value, 'g', -1, 64),
		strconv.Itoa(first), strconv.Itoa(last), strconv.Itoa(len(res.Points)))
	return s.renderPNG(ctx, key, charts.ProjectionConfig(res.Points))
}

// DatasetCSV returns the raw bytes of the current source snapshot.
func (s *Service) DatasetCSV(ctx context.Context) (*File, error) {
	snap, err := s.source.Open(ctx)
	if err != nil {
		return nil, err
	}
	name := snap.Name
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		name = "dataset.csv"
	}
	return &File{Name: name, ContentType: contentTypeCSV, Data: snap.Data}, nil
}

// StatisticsWorkbook renders a pass and exports it as XLSX. Failed panels
// leave their sheet with only a header.
func (s *Service) StatisticsWorkbook(ctx context.Context) (*File, error) {
	d, err := s.Render(ctx, RenderParams{})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, ReportOf(d)); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "export workbook")
	}
	return &File{Name: "statistics.xlsx", ContentType: contentTypeXLSX, Data: buf.Bytes()}, nil
}

// ReportPDF serves the configured paper.
func (s *Service) ReportPDF(_ context.Context) (*File, error) {
	if s.cfg.ReportPDFPath == "" {
		return nil, dErrors.New(dErrors.CodeNotFound, "no report configured")
	}
	data, err := os.ReadFile(s.cfg.ReportPDFPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, dErrors.New(dErrors.CodeNotFound, "report not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read report")
	}
	return &File{Name: filepath.Base(s.cfg.ReportPDFPath), ContentType: contentTypePDF, Data: data}, nil
}

// ReportOf converts a rendered dashboard into the workbook layout.
func ReportOf(d *Dashboard) export.Report {
	r := export.Report{Dataset: d.Dataset, ExpectedMatches: d.ExpectedMatches}
	if d.Summary.OK() {
		summary := d.Summary.Value
		r.Summary = &summary
	}
	if d.Rate.OK() {
		rate := d.Rate.Value
		r.Rate = &rate
	}
	if d.Projection.OK() {
		r.Projection = d.Projection.Value
	}
	if d.Statistics.OK() {
		r.Statistics = d.Statistics.Value
	}
	return r
}

func (s *Service) load(ctx context.Context) (*dataset.Dataset, error) {
	return dataset.LoadFrom(ctx, s.source, s.cfg.Schema, s.cfg.Strict)
}

// projection resolves the rate, loading the dataset only for derived rates,
// and returns the digest the result depends on.
func (s *Service) projection(ctx context.Context, params ProjectionParams) (*ProjectionResult, string, error) {
	digest := "fixed"
	var rate estimator.Rate
	var err error
	if params.Rate == nil && s.cfg.RatePolicy.Mode == estimator.RateDerived {
		ds, loadErr := s.load(ctx)
		if loadErr != nil {
			return nil, "", loadErr
		}
		digest = ds.Digest()
		summary, summaryErr := summarize(ds)
		rate, err = s.rate(&summary, summaryErr, nil)
	} else {
		rate, err = s.rate(nil, nil, params.Rate)
	}
	if err != nil {
		return nil, "", err
	}
	points, err := s.project(rate, params)
	if err != nil {
		return nil, "", err
	}
	return &ProjectionResult{Rate: rate, Points: points}, digest, nil
}

// rate applies an explicit override, or the policy. A derived rate inherits
// the summary's failure so the caller sees why it could not be derived.
func (s *Service) rate(summary *estimator.Summary, summaryErr error, override *float64) (estimator.Rate, error) {
	if override != nil {
		if err := estimator.ValidateRate(*override); err != nil {
			return estimator.Rate{}, err
		}
		return estimator.Rate{Value: *override, Mode: estimator.RateFixed}, nil
	}
	if s.cfg.RatePolicy.Mode == estimator.RateDerived && summaryErr != nil {
		return estimator.Rate{}, summaryErr
	}
	return s.cfg.RatePolicy.Resolve(summary)
}

func (s *Service) project(rate estimator.Rate, params ProjectionParams) ([]estimator.Point, error) {
	sizes, err := params.sizes(s.cfg.Population)
	if err != nil {
		return nil, err
	}
	return estimator.Project(rate.Value, sizes)
}

func (s *Service) renderPNG(ctx context.Context, key string, cfg charts.ChartConfig) ([]byte, error) {
	cached, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.metrics.IncrementCache("error")
		s.logger.WarnContext(ctx, "chart cache read failed", "key", key, "error", err)
	case ok:
		s.metrics.IncrementCache("hit")
		return cached, nil
	default:
		s.metrics.IncrementCache("miss")
	}

	start := time.Now()
	png, err := s.renderer.Render(cfg)
	s.metrics.ObserveChartLatency(s.renderer.Name(), cfg.ChartType, time.Since(start))
	if err != nil {
		if _, isDomain := dErrors.As(err); isDomain {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "render chart")
	}

	if err := s.cache.Set(ctx, key, png, s.cfg.CacheTTL); err != nil {
		s.logger.WarnContext(ctx, "chart cache write failed", "key", key, "error", err)
	}
	return png, nil
}

func summarize(ds *dataset.Dataset) (estimator.Summary, error) {
	if err := ds.RequireMatch(); err != nil {
		return estimator.Summary{}, err
	}
	return estimator.Summarize(ds.Observations())
}

func statistics(ds *dataset.Dataset, features []string) ([]estimator.FeatureStats, error) {
	if ds.Len() == 0 {
		return nil, dErrors.Newf(dErrors.CodeEmptyDataset, "dataset %s has no observations", ds.Name())
	}
	if len(features) == 0 {
		features = ds.FeatureNames()
	}
	return estimator.Describe(ds.Observations(), features)
}

func scatter(ds *dataset.Dataset, filter charts.ScatterFilter) (charts.ChartConfig, error) {
	if err := ds.Require(ds.Schema().PC1Column, ds.Schema().PC2Column, ds.Schema().MatchColumn); err != nil {
		return charts.ChartConfig{}, err
	}
	if filter == "" {
		filter = charts.FilterAll
	}
	return charts.ScatterConfig(ds.Observations(), filter), nil
}
