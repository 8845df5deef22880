package dataset

import "slices"

// Schema names the columns the estimator and charts depend on.
type Schema struct {
	MatchColumn string
	PC1Column   string
	PC2Column   string
	// Features lists the numeric columns to describe. Empty means every
	// other column whose values are all numeric.
	Features        []string
	LatitudeColumn  string
	LongitudeColumn string
}

// DefaultSchema matches the published simulation CSV.
func DefaultSchema() Schema {
	return Schema{
		MatchColumn: "Parecido_a_Fedelobo",
		PC1Column:   "PC1",
		PC2Column:   "PC2",
	}
}

// required lists every column the schema names, in a stable order.
func (s Schema) required() []string {
	cols := []string{s.MatchColumn, s.PC1Column, s.PC2Column}
	cols = append(cols, s.Features...)
	if s.LatitudeColumn != "" {
		cols = append(cols, s.LatitudeColumn, s.LongitudeColumn)
	}
	out := cols[:0]
	for _, c := range cols {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// reserved reports whether column is structural rather than a feature.
func (s Schema) reserved(column string) bool {
	if slices.Contains(indexColumns, column) {
		return true
	}
	switch column {
	case s.MatchColumn, s.PC1Column, s.PC2Column, s.LatitudeColumn, s.LongitudeColumn:
		return true
	}
	return false
}

// indexColumns are row identifiers commonly written next to the data.
var indexColumns = []string{"", "Unnamed: 0", "id", "ID", "index"}
