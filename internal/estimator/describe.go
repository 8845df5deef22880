package estimator

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"lookalike/internal/dataset"
	dErrors "lookalike/pkg/domain-errors"
)

// FeatureStats is the descriptive summary of one feature column.
type FeatureStats struct {
	Feature string
	Count   int
	Mean    float64
	// Std is the sample standard deviation (n-1). NaN for a single value.
	Std    float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe computes count, mean, std, min, quartiles and max for each named
// feature over the observations that carry it. Results follow the order of
// features with duplicates removed. A feature absent from every observation
// fails with missing_feature.
func Describe(observations []dataset.Observation, features []string) ([]FeatureStats, error) {
	out := make([]FeatureStats, 0, len(features))
	seen := make(map[string]struct{}, len(features))
	for _, name := range features {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		values := collect(observations, name)
		if len(values) == 0 {
			return nil, dErrors.Newf(dErrors.CodeMissingFeature, "feature %q is not present in the dataset", name)
		}
		out = append(out, describeValues(name, values))
	}
	return out, nil
}

func collect(observations []dataset.Observation, name string) []float64 {
	var values []float64
	for _, o := range observations {
		if v, ok := o.Feature(name); ok {
			values = append(values, v)
		}
	}
	return values
}

func describeValues(name string, values []float64) FeatureStats {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	std := math.NaN()
	if len(values) > 1 {
		std = stat.StdDev(values, nil)
	}
	return FeatureStats{
		Feature: name,
		Count:   len(values),
		Mean:    stat.Mean(values, nil),
		Std:     std,
		Min:     floats.Min(values),
		Q25:     quantile(sorted, 0.25),
		Median:  quantile(sorted, 0.50),
		Q75:     quantile(sorted, 0.75),
		Max:     floats.Max(values),
	}
}

// quantile interpolates linearly between the closest ranks of sorted values,
// the convention spreadsheet and dataframe tools use for quartiles.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
