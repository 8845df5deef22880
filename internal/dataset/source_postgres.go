package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dErrors "lookalike/pkg/domain-errors"
	"lookalike/pkg/platform/sentinel"
)

// Querier is the subset of *pgxpool.Pool the source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads observations from a table and re-encodes them as CSV
// so every source flows through the same parser and digest.
type PostgresSource struct {
	db    Querier
	query string
}

func NewPostgresSource(db Querier, query string) *PostgresSource {
	return &PostgresSource{db: db, query: query}
}

func (s *PostgresSource) Open(ctx context.Context) (*Snapshot, error) {
	rows, err := s.db.Query(ctx, s.query)
	if err != nil {
		return nil, dErrors.Wrap(fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err),
			dErrors.CodeDatasetUnavailable, "query dataset table")
	}
	defer rows.Close()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Name
	}
	if err := w.Write(header); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode dataset header")
	}

	record := make([]string, len(fields))
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidRow, "decode dataset row")
		}
		for i, v := range values {
			record[i] = formatValue(v)
		}
		if err := w.Write(record); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode dataset row")
		}
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err),
			dErrors.CodeDatasetUnavailable, "read dataset table")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "flush dataset csv")
	}
	return &Snapshot{Name: "postgres", Data: buf.Bytes()}, nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case string:
		return x
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
