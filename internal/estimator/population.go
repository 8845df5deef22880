package estimator

import (
	dErrors "lookalike/pkg/domain-errors"
)

// MaxPopulationPoints bounds a range so a request cannot ask for an
// arbitrarily long projection.
const MaxPopulationPoints = 1000

// PopulationRange returns start, start+step, ... while below stop.
func PopulationRange(start, stop, step int) ([]int, error) {
	if start <= 0 {
		return nil, dErrors.Newf(dErrors.CodeValidation, "population start must be positive, got %d", start)
	}
	if step <= 0 {
		return nil, dErrors.Newf(dErrors.CodeValidation, "population step must be positive, got %d", step)
	}
	if stop <= start {
		return nil, dErrors.Newf(dErrors.CodeValidation, "population stop %d must exceed start %d", stop, start)
	}
	n := (stop - start + step - 1) / step
	if n > MaxPopulationPoints {
		return nil, dErrors.Newf(dErrors.CodeValidation, "population range has %d points, limit is %d", n, MaxPopulationPoints)
	}
	sizes := make([]int, 0, n)
	for size := start; size < stop; size += step {
		sizes = append(sizes, size)
	}
	return sizes, nil
}
