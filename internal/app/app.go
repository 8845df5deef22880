// Package app composes the runtime from configuration: dataset source, chart
// renderer and cache, dashboard service, and the HTTP router.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"lookalike/internal/charts"
	"lookalike/internal/charts/cache"
	"lookalike/internal/dashboard"
	dashboardHandler "lookalike/internal/dashboard/handler"
	dashboardMetrics "lookalike/internal/dashboard/metrics"
	"lookalike/internal/dataset"
	"lookalike/internal/estimator"
	"lookalike/internal/platform/config"
	"lookalike/internal/platform/metrics"
	"lookalike/internal/platform/postgres"
	"lookalike/internal/platform/redis"
	httptransport "lookalike/internal/transport/http"
)

// App holds the wired runtime. Close releases external connections.
type App struct {
	Service  *dashboard.Service
	Router   http.Handler
	Registry *prometheus.Registry

	closers []func()
}

// New connects optional backends and wires every module. strict selects
// fail-fast schema validation for the dashboard service.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, strict bool) (*App, error) {
	a := &App{Registry: prometheus.NewRegistry()}
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checks := map[string]httptransport.HealthCheck{}

	source, err := a.source(ctx, cfg, checks)
	if err != nil {
		a.Close()
		return nil, err
	}

	store, err := a.cache(ctx, cfg, checks)
	if err != nil {
		a.Close()
		return nil, err
	}

	renderer, err := charts.NewRenderer(cfg.Charts.Renderer, cfg.Charts.Width, cfg.Charts.Height)
	if err != nil {
		a.Close()
		return nil, err
	}

	dm := dashboardMetrics.New(a.Registry)
	a.Service = dashboard.New(source, ServiceConfig(cfg, strict),
		dashboard.WithRenderer(renderer),
		dashboard.WithCache(store),
		dashboard.WithLogger(logger),
		dashboard.WithMetrics(dm),
	)

	a.Router = httptransport.NewRouter(httptransport.Deps{
		Logger:   logger,
		Metrics:  metrics.New(a.Registry),
		Gatherer: a.Registry,
		Checks:   checks,
	}, dashboardHandler.New(a.Service, logger, dm))

	logger.InfoContext(ctx, "application wired",
		"dataset", datasetLabel(cfg),
		"renderer", renderer.Name(),
		"cache", cfg.Cache.Backend,
		"rate_mode", cfg.Rate.Mode,
		"strict", strict,
	)
	return a, nil
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// ServiceConfig maps runtime configuration onto the dashboard service.
func ServiceConfig(cfg config.Config, strict bool) dashboard.Config {
	return dashboard.Config{
		Schema: dataset.Schema{
			MatchColumn:     cfg.Schema.MatchColumn,
			PC1Column:       cfg.Schema.PC1Column,
			PC2Column:       cfg.Schema.PC2Column,
			Features:        cfg.Schema.Features,
			LatitudeColumn:  cfg.Schema.LatitudeColumn,
			LongitudeColumn: cfg.Schema.LongitudeColumn,
		},
		RatePolicy: estimator.RatePolicy{
			Mode:  estimator.RateMode(cfg.Rate.Mode),
			Fixed: cfg.Rate.Fixed,
		},
		Population: dashboard.Population{
			Start: cfg.Population.Start,
			Stop:  cfg.Population.Stop,
			Step:  cfg.Population.Step,
		},
		ExpectedMatches: cfg.Model.ExpectedMatches,
		CacheTTL:        cfg.Cache.TTL,
		ReportPDFPath:   cfg.Report.PDFPath,
		Strict:          strict,
	}
}

func (a *App) source(ctx context.Context, cfg config.Config, checks map[string]httptransport.HealthCheck) (dataset.Source, error) {
	if cfg.Dataset.PostgresDSN == "" {
		return dataset.NewFileSource(cfg.Dataset.Path), nil
	}
	pool, err := postgres.New(ctx, cfg.Dataset.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("connect dataset database: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	checks["postgres"] = pool.Ping
	return dataset.NewPostgresSource(pool, cfg.Dataset.PostgresQuery), nil
}

func (a *App) cache(ctx context.Context, cfg config.Config, checks map[string]httptransport.HealthCheck) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect chart cache: %w", err)
		}
		if client == nil {
			return nil, fmt.Errorf("cache backend %q needs REDIS_URL", cfg.Cache.Backend)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		checks["redis"] = client.Health
		return cache.NewBreaker(cache.NewRedisStore(client.Client), cfg.Cache.BreakerThreshold, cfg.Cache.BreakerCooldown), nil
	case config.CacheNone:
		return cache.Nop{}, nil
	default:
		return cache.NewMemoryStore(), nil
	}
}

func datasetLabel(cfg config.Config) string {
	if cfg.Dataset.PostgresDSN != "" {
		return "postgres"
	}
	return cfg.Dataset.Path
}
