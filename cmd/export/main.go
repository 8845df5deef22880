// Command export runs one strict render pass and writes every artifact the
// dashboard offers into a directory.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"lookalike/internal/app"
	"lookalike/internal/charts"
	"lookalike/internal/dashboard"
	"lookalike/internal/export"
	"lookalike/internal/platform/config"
	"lookalike/internal/platform/logger"
	dErrors "lookalike/pkg/domain-errors"
)

func main() {
	out := flag.String("out", "out", "directory to write artifacts into")
	lenient := flag.Bool("lenient", false, "skip artifacts whose columns are missing instead of failing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New("text", "error").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Format, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *out, !*lenient); err != nil {
		log.Error("export failed", "error", err, "code", string(dErrors.CodeOf(err)))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger, dir string, strict bool) error {
	a, err := app.New(ctx, cfg, log, strict)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	d, err := a.Service.Render(ctx, dashboard.RenderParams{Scatter: charts.FilterAll})
	if err != nil {
		return err
	}
	if strict {
		for panel, perr := range d.Failures() {
			if panel == dashboard.PanelMap && dErrors.HasCode(perr, dErrors.CodeSchemaMismatch) && cfg.Schema.LatitudeColumn == "" {
				continue
			}
			return fmt.Errorf("panel %s: %w", panel, perr)
		}
	}

	write := func(name string, data []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		log.InfoContext(ctx, "artifact written", "path", path, "bytes", len(data))
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if !d.ScatterChart.OK() {
			log.WarnContext(gctx, "skipping scatter chart", "error", d.ScatterChart.Err)
			return nil
		}
		png, err := a.Service.ScatterPNG(gctx, charts.FilterAll)
		if err != nil {
			return fmt.Errorf("render scatter: %w", err)
		}
		return write("scatter.png", png)
	})
	g.Go(func() error {
		if !d.Projection.OK() {
			log.WarnContext(gctx, "skipping projection chart", "error", d.Projection.Err)
			return nil
		}
		png, err := a.Service.ProjectionPNG(gctx, dashboard.ProjectionParams{})
		if err != nil {
			return fmt.Errorf("render projection: %w", err)
		}
		return write("projection.png", png)
	})
	g.Go(func() error {
		f, err := os.Create(filepath.Join(dir, "statistics.xlsx"))
		if err != nil {
			return fmt.Errorf("create workbook: %w", err)
		}
		if err := export.Write(f, dashboard.ReportOf(d)); err != nil {
			_ = f.Close()
			return err
		}
		log.InfoContext(gctx, "artifact written", "path", f.Name())
		return f.Close()
	})
	g.Go(func() error {
		body, err := json.MarshalIndent(summaryDocument(d), "", "  ")
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		return write("summary.json", body)
	})
	g.Go(func() error {
		if !d.Map.OK() {
			return nil
		}
		body, err := d.Map.Value.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encode map: %w", err)
		}
		return write("map.geojson", body)
	})
	return g.Wait()
}

type summaryJSON struct {
	Dataset         string         `json:"dataset"`
	Digest          string         `json:"digest"`
	TotalCount      *int           `json:"total_count,omitempty"`
	MatchCount      *int           `json:"match_count,omitempty"`
	MatchRate       *float64       `json:"match_rate,omitempty"`
	Rate            *float64       `json:"rate,omitempty"`
	RateMode        string         `json:"rate_mode,omitempty"`
	ExpectedMatches int            `json:"expected_matches"`
	Projection      map[string]int `json:"projection,omitempty"`
}

func summaryDocument(d *dashboard.Dashboard) summaryJSON {
	doc := summaryJSON{Dataset: d.Dataset, Digest: d.Digest, ExpectedMatches: d.ExpectedMatches}
	if d.Summary.OK() {
		s := d.Summary.Value
		doc.TotalCount, doc.MatchCount, doc.MatchRate = &s.TotalCount, &s.MatchCount, &s.MatchRate
	}
	if d.Rate.OK() {
		doc.Rate = &d.Rate.Value.Value
		doc.RateMode = string(d.Rate.Value.Mode)
	}
	if d.Projection.OK() {
		doc.Projection = make(map[string]int, len(d.Projection.Value))
		for _, p := range d.Projection.Value {
			doc.Projection[fmt.Sprint(p.PopulationSize)] = p.ProjectedCount
		}
	}
	return doc
}
