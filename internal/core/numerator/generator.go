// Package numerator provides domain contracts for sequential document
// reference allocation. Implementations live in the infrastructure layer.
package numerator

import (
	"context"

	"faturah/internal/core/tenant"
)

// Generator allocates sequential, tenant-scoped document references.
//
// References follow the fixed format PREFIX + zero-padded number
// (QUO00007, PROFORMA0003, INV008). Within one tenant scope and one
// document kind a reference is allocated exactly once; concurrent
// allocations must never observe the same number.
type Generator interface {
	// NextReference allocates the next reference for the scope+prefix pair.
	NextReference(ctx context.Context, scope tenant.Scope, cfg Config, opts *Options) (string, error)

	// SetNextReference sets the counter so the next allocation returns
	// value. Used to backfill the counter from legacy scan-derived data.
	SetNextReference(ctx context.Context, scope tenant.Scope, cfg Config, value int64) error
}
