package estimator

import (
	dErrors "lookalike/pkg/domain-errors"
)

// RateMode selects where the match rate comes from.
type RateMode string

const (
	// RateFixed uses the configured empirical constant.
	RateFixed RateMode = "fixed"
	// RateDerived uses match_count / total_count of the loaded dataset.
	RateDerived RateMode = "derived"
)

// DefaultFixedRate is the empirical rate published with the simulation.
const DefaultFixedRate = 0.075

// RatePolicy is the explicit choice between a fixed and a derived rate.
type RatePolicy struct {
	Mode  RateMode
	Fixed float64
}

// Rate is a resolved match rate and where it came from.
type Rate struct {
	Value float64
	Mode  RateMode
}

// Resolve returns the rate under the policy. Derived mode needs a summary.
func (p RatePolicy) Resolve(summary *Summary) (Rate, error) {
	switch p.Mode {
	case RateFixed:
		if err := ValidateRate(p.Fixed); err != nil {
			return Rate{}, err
		}
		return Rate{Value: p.Fixed, Mode: RateFixed}, nil
	case RateDerived:
		if summary == nil {
			return Rate{}, dErrors.New(dErrors.CodeEmptyDataset, "derived rate needs a dataset summary")
		}
		return Rate{Value: summary.MatchRate, Mode: RateDerived}, nil
	default:
		return Rate{}, dErrors.Newf(dErrors.CodeValidation, "unknown rate mode %q", p.Mode)
	}
}
