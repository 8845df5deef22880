// Package dataset loads the precomputed simulation into an immutable handle.
//
// A Dataset is built once per render pass from a Source and never mutated.
// Accessors hand out copies so callers cannot alter the loaded observations.
package dataset

import (
	"maps"
	"slices"
	"strings"

	dErrors "lookalike/pkg/domain-errors"
)

// Observation is one simulated individual.
type Observation struct {
	// Features holds the numeric attributes present for this individual. A
	// feature whose cell was empty is absent from the map.
	Features map[string]float64
	PC1      float64
	PC2      float64
	Match    bool

	Latitude    float64
	Longitude   float64
	HasLocation bool
}

// Feature returns the named feature value and whether it is present.
func (o Observation) Feature(name string) (float64, bool) {
	v, ok := o.Features[name]
	return v, ok
}

// MatchFlag returns the match flag as 0 or 1.
func (o Observation) MatchFlag() int {
	if o.Match {
		return 1
	}
	return 0
}

// Dataset is an immutable, ordered sequence of observations plus the column
// facts established at load time.
type Dataset struct {
	name         string
	schema       Schema
	header       []string
	columns      map[string]struct{}
	features     []string
	missing      []string
	observations []Observation
	digest       string
	raw          []byte
}

// Name identifies where the dataset came from.
func (d *Dataset) Name() string { return d.name }

// Len returns the number of observations.
func (d *Dataset) Len() int { return len(d.observations) }

// Schema returns the schema the dataset was validated against.
func (d *Dataset) Schema() Schema { return d.schema }

// Observations returns a copy of the observation sequence in file order.
func (d *Dataset) Observations() []Observation {
	out := make([]Observation, len(d.observations))
	for i, o := range d.observations {
		o.Features = maps.Clone(o.Features)
		out[i] = o
	}
	return out
}

// Header returns the column names in file order.
func (d *Dataset) Header() []string { return slices.Clone(d.header) }

// FeatureNames returns the numeric feature columns, explicit or inferred.
func (d *Dataset) FeatureNames() []string { return slices.Clone(d.features) }

// Missing returns the required columns that were absent at load time.
func (d *Dataset) Missing() []string { return slices.Clone(d.missing) }

// Digest is the hex SHA-256 of the raw bytes; it changes whenever the data does.
func (d *Dataset) Digest() string { return d.digest }

// Raw returns a copy of the bytes the dataset was parsed from.
func (d *Dataset) Raw() []byte { return slices.Clone(d.raw) }

// Has reports whether the column was present in the header.
func (d *Dataset) Has(column string) bool {
	_, ok := d.columns[column]
	return ok
}

// HasLocation reports whether the schema names coordinate columns and both
// are present.
func (d *Dataset) HasLocation() bool {
	s := d.schema
	return s.LatitudeColumn != "" && d.Has(s.LatitudeColumn) && d.Has(s.LongitudeColumn)
}

// Require fails with a schema-mismatch error naming every absent column.
func (d *Dataset) Require(columns ...string) error {
	var absent []string
	for _, c := range columns {
		if c == "" {
			continue
		}
		if !d.Has(c) {
			absent = append(absent, c)
		}
	}
	if len(absent) == 0 {
		return nil
	}
	return schemaMismatch(d.name, absent)
}

// RequireMatch fails unless the match flag column is present.
func (d *Dataset) RequireMatch() error {
	return d.Require(d.schema.MatchColumn)
}

// RequireProjection fails unless both principal component columns are present.
func (d *Dataset) RequireProjection() error {
	return d.Require(d.schema.PC1Column, d.schema.PC2Column)
}

// RequireLocation fails unless coordinate columns are configured and present.
func (d *Dataset) RequireLocation() error {
	if d.schema.LatitudeColumn == "" {
		return dErrors.New(dErrors.CodeSchemaMismatch, "no latitude/longitude columns configured")
	}
	return d.Require(d.schema.LatitudeColumn, d.schema.LongitudeColumn)
}

func schemaMismatch(name string, absent []string) error {
	return dErrors.Newf(dErrors.CodeSchemaMismatch, "dataset %s is missing column(s): %s",
		name, strings.Join(absent, ", "))
}
