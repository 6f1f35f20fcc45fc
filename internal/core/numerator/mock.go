// Package numerator provides domain contracts for sequential document
// reference allocation.
package numerator

import (
	"context"
	"sync"

	"faturah/internal/core/tenant"
)

// MockGenerator is a test implementation of Generator.
// Use in unit tests to avoid database dependencies.
type MockGenerator struct {
	NextReferenceFunc    func(ctx context.Context, scope tenant.Scope, cfg Config, opts *Options) (string, error)
	SetNextReferenceFunc func(ctx context.Context, scope tenant.Scope, cfg Config, value int64) error

	mu       sync.Mutex
	counters map[string]int64
}

// NextReference implements Generator.
// Without a custom func it behaves like an in-memory strict counter,
// isolated per scope+prefix, so concurrency tests get real sequencing.
func (m *MockGenerator) NextReference(ctx context.Context, scope tenant.Scope, cfg Config, opts *Options) (string, error) {
	if m.NextReferenceFunc != nil {
		return m.NextReferenceFunc(ctx, scope, cfg, opts)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	key := scope.Key() + ":" + cfg.Prefix
	num, seen := m.counters[key]
	if !seen {
		num = cfg.StartAt - 1
		if num < 0 {
			num = 0
		}
	}
	num++
	m.counters[key] = num
	return cfg.Format(num), nil
}

// SetNextReference implements Generator.
func (m *MockGenerator) SetNextReference(ctx context.Context, scope tenant.Scope, cfg Config, value int64) error {
	if m.SetNextReferenceFunc != nil {
		return m.SetNextReferenceFunc(ctx, scope, cfg, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	m.counters[scope.Key()+":"+cfg.Prefix] = value - 1
	return nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
