// Package export writes the statistics workbook offered as a download and
// produced by the export command.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"lookalike/internal/estimator"
)

const (
	SheetSummary    = "Summary"
	SheetProjection = "Projection"
	SheetStatistics = "Statistics"
)

// Report is everything the workbook can show. Nil or empty sections are
// written as a sheet with only its header so the layout stays stable.
type Report struct {
	Dataset         string
	Summary         *estimator.Summary
	Rate            *estimator.Rate
	ExpectedMatches int
	Projection      []estimator.Point
	Statistics      []estimator.FeatureStats
}

var statisticsHeader = []string{"Feature", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"}

// Workbook builds the XLSX. Callers own the returned file and must Close it.
func Workbook(r Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetProjection, SheetStatistics} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	w := &sheetWriter{f: f, bold: bold}
	w.summary(r)
	w.projection(r.Projection)
	w.statistics(r.Statistics)
	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}

// Write builds the workbook and streams it to out.
func Write(out io.Writer, r Report) error {
	f, err := Workbook(r)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// sheetWriter keeps the first error so the layout code reads top to bottom.
type sheetWriter struct {
	f    *excelize.File
	bold int
	err  error
}

func (w *sheetWriter) set(sheet string, col, row int, v any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(sheet, cell, v)
}

func (w *sheetWriter) header(sheet string, names []string, width float64) {
	for i, h := range names {
		w.set(sheet, i+1, 1, h)
	}
	if w.err != nil {
		return
	}
	last, _ := excelize.ColumnNumberToName(len(names))
	if w.err = w.f.SetColWidth(sheet, "A", last, width); w.err != nil {
		return
	}
	end, _ := excelize.CoordinatesToCellName(len(names), 1)
	w.err = w.f.SetCellStyle(sheet, "A1", end, w.bold)
}

func (w *sheetWriter) summary(r Report) {
	w.header(SheetSummary, []string{"Metric", "Value"}, 24)
	row := 2
	add := func(label string, v any) {
		w.set(SheetSummary, 1, row, label)
		w.set(SheetSummary, 2, row, v)
		row++
	}
	if r.Dataset != "" {
		add("Dataset", r.Dataset)
	}
	if r.Summary != nil {
		add("Total observations", r.Summary.TotalCount)
		add("Matches", r.Summary.MatchCount)
		add("Observed match rate", r.Summary.MatchRate)
	}
	if r.Rate != nil {
		add("Projection rate", r.Rate.Value)
		add("Rate mode", string(r.Rate.Mode))
	}
	if r.ExpectedMatches > 0 {
		add("Model expectation", r.ExpectedMatches)
	}
}

func (w *sheetWriter) projection(points []estimator.Point) {
	w.header(SheetProjection, []string{"Population size", "Projected matches"}, 20)
	for i, p := range points {
		w.set(SheetProjection, 1, i+2, p.PopulationSize)
		w.set(SheetProjection, 2, i+2, p.ProjectedCount)
	}
}

func (w *sheetWriter) statistics(stats []estimator.FeatureStats) {
	w.header(SheetStatistics, statisticsHeader, 14)
	for i, s := range stats {
		row := i + 2
		w.set(SheetStatistics, 1, row, s.Feature)
		w.set(SheetStatistics, 2, row, s.Count)
		for j, v := range []float64{s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max} {
			if math.IsNaN(v) {
				continue
			}
			w.set(SheetStatistics, j+3, row, v)
		}
	}
}
