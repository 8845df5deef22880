// Package cache stores rendered chart images keyed by dataset digest, so a
// chart is re-rendered only when the underlying data or its parameters change.
package cache

import (
	"context"
	"strings"
	"time"
)

const keyPrefix = "lookalike:chart:"

// Store is a byte cache with per-entry expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key builds the cache key for a chart of the given kind rendered from the
// dataset with digest, parameterised by params (filter, renderer, size).
func Key(kind, digest string, params ...string) string {
	var b strings.Builder
	b.WriteString(keyPrefix)
	b.WriteString(kind)
	b.WriteByte(':')
	b.WriteString(digest)
	for _, p := range params {
		b.WriteByte(':')
		b.WriteString(p)
	}
	return b.String()
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
