package catalog

import (
	"context"
	"errors"
)

var ErrCatalogUnavailable = errors.New("catalog unavailable")

// Loader fetches a fresh catalog listing from the catalog backend.
// Implementations must fail with ErrCatalogUnavailable on transport or parse
// errors; callers surface the failure instead of guessing defaults (no silent
// empty-catalog fallback).
type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}
