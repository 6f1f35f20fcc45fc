// Package numerator provides the PostgreSQL implementation of document
// reference allocation. It implements core/numerator.Generator.
//
// The counter table is the primary mechanism: one row per tenant+prefix
// holding the last used number. Allocation is a single atomic
// UPSERT..RETURNING, so concurrent requests each get a distinct number
// without advisory locks. The unique constraint on the document table is
// the safety net behind it, not the mechanism.
package numerator

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	corenumerator "faturah/internal/core/numerator"
	"faturah/internal/core/tenant"
)

// Querier is the single-row query surface the service needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cachedRange struct {
	current int64
	max     int64
}

// Service allocates document references from a counter table.
type Service struct {
	querier Querier

	// ranges holds in-memory number ranges for the cached strategy,
	// keyed per tenant+prefix. A crash loses the unissued remainder of
	// a range; acceptable for series that tolerate gaps.
	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator service on the given querier (usually the pool).
//
// Counter updates run outside business transactions on purpose: a
// rolled-back document must not roll back the counter, otherwise two
// requests could be handed the same number.
func New(querier Querier) *Service {
	return &Service{
		querier: querier,
		ranges:  make(map[string]*cachedRange),
	}
}

// NextReference allocates the next reference for the tenant's series.
func (s *Service) NextReference(ctx context.Context, scope tenant.Scope, cfg corenumerator.Config, opts *corenumerator.Options) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}
	if opts == nil {
		opts = corenumerator.DefaultOptions()
	}

	key := sequenceKey(scope, cfg)

	var num int64
	var err error
	switch opts.Strategy {
	case corenumerator.StrategyCached:
		num, err = s.nextCached(ctx, key, cfg, opts)
	default:
		num, err = s.nextStrict(ctx, key, cfg)
	}
	if err != nil {
		return "", err
	}

	return cfg.Format(num), nil
}

// nextStrict allocates one number atomically. A fresh row starts the
// series at StartAt; an existing row advances by one.
func (s *Service) nextStrict(ctx context.Context, key string, cfg corenumerator.Config) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO doc_sequences (key, current_val)
        VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET current_val = doc_sequences.current_val + 1
        RETURNING current_val
	`, key, startAt(cfg)).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

// nextCached serves numbers from an in-memory range, reserving a new
// range from the counter when the current one is exhausted.
func (s *Service) nextCached(ctx context.Context, key string, cfg corenumerator.Config, opts *corenumerator.Options) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, exists := s.ranges[key]
	if !exists {
		rng = &cachedRange{}
		s.ranges[key] = rng
	}

	if rng.current >= rng.max {
		size := int64(opts.RangeSize)
		if size <= 0 {
			size = 50
		}

		// Fresh row reserves StartAt..StartAt+size-1, existing rows
		// old+1..old+size; in both cases the range floor is max-size.
		var newMax int64
		err := s.querier.QueryRow(ctx, `
            INSERT INTO doc_sequences (key, current_val)
            VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET current_val = doc_sequences.current_val + $3
            RETURNING current_val
		`, key, startAt(cfg)+size-1, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextReference pins the counter so the next allocation returns
// exactly value. Used by the backfill after scanning existing
// references.
func (s *Service) SetNextReference(ctx context.Context, scope tenant.Scope, cfg corenumerator.Config, value int64) error {
	key := sequenceKey(scope, cfg)

	var result int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO doc_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, key, value-1).Scan(&result)
	if err != nil {
		return fmt.Errorf("set next: %w", err)
	}

	// Drop any cached range; it may contain numbers below the new floor.
	s.cacheMu.Lock()
	delete(s.ranges, key)
	s.cacheMu.Unlock()

	return nil
}

// startAt is the stored value a fresh row gets so the first allocation
// returns cfg.StartAt.
func startAt(cfg corenumerator.Config) int64 {
	if cfg.StartAt > 1 {
		return cfg.StartAt
	}
	return 1
}

// sequenceKey builds the per-tenant counter key. Organization and
// individual tenants never share a key even with the same UUID.
func sequenceKey(scope tenant.Scope, cfg corenumerator.Config) string {
	return scope.Key() + ":" + cfg.Prefix
}
