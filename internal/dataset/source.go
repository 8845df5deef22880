package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	dErrors "lookalike/pkg/domain-errors"
	"lookalike/pkg/platform/sentinel"
)

// Snapshot is the raw CSV content of a source at one point in time.
type Snapshot struct {
	Name string
	Data []byte
}

// Source yields a fresh snapshot on every call; nothing is retained between
// render passes.
type Source interface {
	Open(ctx context.Context) (*Snapshot, error)
}

// FileSource reads a CSV file from disk.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Open reads the whole file. A missing or unreadable file is reported as
// dataset_unavailable.
func (s *FileSource) Open(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, dErrors.Wrap(fmt.Errorf("%w: %s", sentinel.ErrNotFound, s.path),
			dErrors.CodeDatasetUnavailable, "dataset file not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err),
			dErrors.CodeDatasetUnavailable, "dataset file unreadable")
	}
	return &Snapshot{Name: filepath.Base(s.path), Data: data}, nil
}

// LoadFrom opens src and parses the snapshot.
func LoadFrom(ctx context.Context, src Source, schema Schema, strict bool) (*Dataset, error) {
	snap, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(snap.Data, schema, LoadOptions{Name: snap.Name, Strict: strict})
}
