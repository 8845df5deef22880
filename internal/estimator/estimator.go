// Package estimator holds the similarity arithmetic behind the dashboard:
// summary counts over the loaded observations, projected match counts for
// hypothetical population sizes, and per-feature descriptive statistics.
//
// Every function is pure. Identical inputs give bit-identical outputs.
package estimator

import (
	"math"

	"lookalike/internal/dataset"
	dErrors "lookalike/pkg/domain-errors"
)

// Summary is the headline count over a dataset.
type Summary struct {
	TotalCount int
	MatchCount int
	MatchRate  float64
}

// Summarize counts observations and matches. An empty sequence has no
// defined rate and fails with empty_dataset.
func Summarize(observations []dataset.Observation) (Summary, error) {
	total := len(observations)
	if total == 0 {
		return Summary{}, dErrors.New(dErrors.CodeEmptyDataset, "cannot summarize an empty dataset")
	}
	matches := 0
	for _, o := range observations {
		matches += o.MatchFlag()
	}
	return Summary{
		TotalCount: total,
		MatchCount: matches,
		MatchRate:  float64(matches) / float64(total),
	}, nil
}

// Point pairs a hypothetical population size with its projected match count.
type Point struct {
	PopulationSize int
	ProjectedCount int
}

// Project applies rate to each size in order: floor(rate × size).
func Project(rate float64, sizes []int) ([]Point, error) {
	if err := ValidateRate(rate); err != nil {
		return nil, err
	}
	points := make([]Point, len(sizes))
	for i, size := range sizes {
		if size <= 0 {
			return nil, dErrors.Newf(dErrors.CodeValidation, "population size at position %d must be positive, got %d", i, size)
		}
		points[i] = Point{
			PopulationSize: size,
			ProjectedCount: int(math.Floor(rate * float64(size))),
		}
	}
	return points, nil
}

// ValidateRate rejects rates outside [0, 1], including NaN.
func ValidateRate(rate float64) error {
	if !(rate >= 0 && rate <= 1) {
		return dErrors.Newf(dErrors.CodeValidation, "match rate must be within [0, 1], got %v", rate)
	}
	return nil
}
