package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"lookalike/internal/charts"
	"lookalike/internal/dashboard"
	dErrors "lookalike/pkg/domain-errors"
	lists "lookalike/pkg/platform/strings"
)

// parseProjectionParams reads start, stop, step and rate from the query.
// Absent parameters keep the configured defaults; range checks happen in the
// estimator.
func parseProjectionParams(r *http.Request) (dashboard.ProjectionParams, error) {
	q := r.URL.Query()
	var p dashboard.ProjectionParams
	var err error
	if p.Start, err = intParam(q, "start"); err != nil {
		return p, err
	}
	if p.Stop, err = intParam(q, "stop"); err != nil {
		return p, err
	}
	if p.Step, err = intParam(q, "step"); err != nil {
		return p, err
	}
	if raw := strings.TrimSpace(q.Get("rate")); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, dErrors.Newf(dErrors.CodeBadRequest, "rate must be a number, got %q", raw)
		}
		p.Rate = &rate
	}
	return p, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "%s must be an integer, got %q", name, raw)
	}
	if v <= 0 {
		return 0, dErrors.Newf(dErrors.CodeValidation, "%s must be positive, got %d", name, v)
	}
	return v, nil
}

// parseFeatures accepts repeated feature parameters and comma lists.
func parseFeatures(r *http.Request) []string {
	return lists.SplitList(r.URL.Query()["feature"]...)
}

func parseScatterFilter(r *http.Request) (charts.ScatterFilter, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("match"))
	filter, ok := charts.ParseScatterFilter(raw)
	if !ok {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "match must be one of all, match, nomatch; got %q", raw)
	}
	return filter, nil
}
