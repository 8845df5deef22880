package dataset

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	dErrors "lookalike/pkg/domain-errors"
)

// LoadOptions controls validation at load time.
type LoadOptions struct {
	// Name labels the dataset in errors and logs.
	Name string
	// Strict fails the load when any schema column is absent. Lenient loads
	// record the absence and let dependent operations fail individually.
	Strict bool
}

// Load reads r fully and parses it as CSV.
func Load(r io.Reader, schema Schema, opts LoadOptions) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDatasetUnavailable, "read dataset")
	}
	return Parse(data, schema, opts)
}

// Parse builds a Dataset from CSV bytes with a header row.
func Parse(data []byte, schema Schema, opts LoadOptions) (*Dataset, error) {
	name := opts.Name
	if name == "" {
		name = "dataset"
	}

	header, rows, err := readCSV(data)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidRow, fmt.Sprintf("parse %s", name))
	}

	columns := make(map[string]struct{}, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := index[h]; dup && h != "" {
			return nil, dErrors.Newf(dErrors.CodeSchemaMismatch, "dataset %s has duplicate column %q", name, h)
		}
		index[h] = i
		columns[h] = struct{}{}
	}

	var missing []string
	for _, c := range schema.required() {
		if _, ok := columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if opts.Strict && len(missing) > 0 {
		return nil, schemaMismatch(name, missing)
	}

	features := schema.Features
	if len(features) == 0 {
		features = inferFeatures(header, rows, schema)
	}

	p := rowParser{schema: schema, index: index, features: features}
	observations := make([]Observation, 0, len(rows))
	for i, row := range rows {
		obs, err := p.parse(row)
		if err != nil {
			// +2: one for the header, one for 1-based line numbers.
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidRow, fmt.Sprintf("dataset %s line %d", name, i+2))
		}
		observations = append(observations, obs)
	}

	sum := sha256.Sum256(data)
	raw := make([]byte, len(data))
	copy(raw, data)

	return &Dataset{
		name:         name,
		schema:       schema,
		header:       header,
		columns:      columns,
		features:     presentOnly(features, columns),
		missing:      missing,
		observations: observations,
		digest:       hex.EncodeToString(sum[:]),
		raw:          raw,
	}, nil
}

func readCSV(data []byte) ([]string, [][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = h
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return header, rows, nil
}

// inferFeatures picks every non-structural column whose present values all
// parse as numbers and that has at least one value.
func inferFeatures(header []string, rows [][]string, schema Schema) []string {
	var out []string
	for i, h := range header {
		if schema.reserved(h) {
			continue
		}
		numeric, seen := true, false
		for _, row := range rows {
			v := strings.TrimSpace(row[i])
			if isMissing(v) {
				continue
			}
			seen = true
			// out-of-range numbers still mark the column numeric so the row
			// is rejected instead of the column being dropped
			if _, err := strconv.ParseFloat(v, 64); err != nil && !errors.Is(err, strconv.ErrRange) {
				numeric = false
				break
			}
		}
		if numeric && seen {
			out = append(out, h)
		}
	}
	return out
}

func presentOnly(names []string, columns map[string]struct{}) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := columns[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

type rowParser struct {
	schema   Schema
	index    map[string]int
	features []string
}

func (p rowParser) cell(row []string, column string) (string, bool) {
	i, ok := p.index[column]
	if !ok || column == "" {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}

func (p rowParser) parse(row []string) (Observation, error) {
	obs := Observation{Features: make(map[string]float64, len(p.features))}

	if v, ok := p.cell(row, p.schema.MatchColumn); ok {
		match, err := parseFlag(v)
		if err != nil {
			return Observation{}, fmt.Errorf("column %q: %w", p.schema.MatchColumn, err)
		}
		obs.Match = match
	}

	var err error
	if obs.PC1, err = p.required(row, p.schema.PC1Column); err != nil {
		return Observation{}, err
	}
	if obs.PC2, err = p.required(row, p.schema.PC2Column); err != nil {
		return Observation{}, err
	}

	for _, f := range p.features {
		v, ok := p.cell(row, f)
		if !ok {
			continue
		}
		x, present, err := parseNumber(v)
		if err != nil {
			return Observation{}, fmt.Errorf("column %q: %w", f, err)
		}
		if present {
			obs.Features[f] = x
		}
	}

	lat, latOK := p.optional(row, p.schema.LatitudeColumn)
	lon, lonOK := p.optional(row, p.schema.LongitudeColumn)
	if latOK && lonOK {
		if obs.Latitude, _, err = parseNumber(lat); err != nil {
			return Observation{}, fmt.Errorf("column %q: %w", p.schema.LatitudeColumn, err)
		}
		if obs.Longitude, _, err = parseNumber(lon); err != nil {
			return Observation{}, fmt.Errorf("column %q: %w", p.schema.LongitudeColumn, err)
		}
		obs.HasLocation = true
	}
	return obs, nil
}

func (p rowParser) optional(row []string, column string) (string, bool) {
	v, ok := p.cell(row, column)
	return v, ok && !isMissing(v)
}

// required parses a numeric column that must have a value when present.
func (p rowParser) required(row []string, column string) (float64, error) {
	v, ok := p.cell(row, column)
	if !ok {
		return 0, nil
	}
	x, present, err := parseNumber(v)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", column, err)
	}
	if !present {
		return 0, fmt.Errorf("column %q: missing value %q", column, v)
	}
	return x, nil
}

// missingTokens are the cell spellings pandas reads as NaN by default.
var missingTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func isMissing(v string) bool {
	_, ok := missingTokens[v]
	return ok
}

// parseNumber reads a trimmed numeric cell. Missing-value tokens report
// present=false; any other non-finite value is an error.
func parseNumber(v string) (x float64, present bool, err error) {
	if isMissing(v) {
		return 0, false, nil
	}
	x, err = strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false, fmt.Errorf("non-finite value %q", v)
	}
	return x, true, nil
}

// parseFlag accepts the spellings pandas and spreadsheets produce for a
// binary indicator.
func parseFlag(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "1", "1.0", "true":
		return true, nil
	case "0", "0.0", "false":
		return false, nil
	}
	return false, fmt.Errorf("match flag must be 0 or 1, got %q", v)
}
