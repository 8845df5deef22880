package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Sources, caches and clients return
// these (optionally wrapped) so services can translate them into domain errors.
//
// - ErrNotFound: the file, row set or cache entry does not exist
// - ErrUnavailable: backing resource could not be reached or read
//
// For validation failures use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
