package numerator

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faturah/internal/core/id"
	corenumerator "faturah/internal/core/numerator"
	"faturah/internal/core/tenant"
)

// fakeCounterDB emulates the doc_sequences upsert semantics in memory,
// including the fresh-insert vs conflict distinction.
type fakeCounterDB struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newFakeCounterDB() *fakeCounterDB {
	return &fakeCounterDB{counters: make(map[string]int64)}
}

type fakeRow struct {
	val int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.val
	return nil
}

func (db *fakeCounterDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := args[0].(string)
	insertVal := args[1].(int64)
	_, exists := db.counters[key]

	switch {
	case strings.Contains(sql, "current_val + 1"): // strict
		if !exists {
			db.counters[key] = insertVal
		} else {
			db.counters[key]++
		}
	case strings.Contains(sql, "current_val + $3"): // range reservation
		if !exists {
			db.counters[key] = insertVal
		} else {
			db.counters[key] += args[2].(int64)
		}
	default: // set
		db.counters[key] = insertVal
	}

	return fakeRow{val: db.counters[key]}
}

var quoConfig = corenumerator.Config{Prefix: "QUO", PadWidth: 5, StartAt: 1}

func orgScope() tenant.Scope {
	return tenant.Scope{TenantID: id.New(), IsOrganization: true}
}

func TestStrictSequence(t *testing.T) {
	svc := New(newFakeCounterDB())
	ctx := context.Background()
	scope := orgScope()
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyStrict}

	for i, want := range []string{"QUO00001", "QUO00002", "QUO00003"} {
		got, err := svc.NextReference(ctx, scope, quoConfig, opts)
		require.NoError(t, err, "allocation %d", i)
		assert.Equal(t, want, got)
	}
}

func TestStrictStartAtOffset(t *testing.T) {
	svc := New(newFakeCounterDB())
	ctx := context.Background()
	scope := orgScope()
	cfg := corenumerator.Config{Prefix: "INV", PadWidth: 3, StartAt: 100}
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyStrict}

	got, err := svc.NextReference(ctx, scope, cfg, opts)
	require.NoError(t, err)
	assert.Equal(t, "INV100", got)

	got, err = svc.NextReference(ctx, scope, cfg, opts)
	require.NoError(t, err)
	assert.Equal(t, "INV101", got)
}

func TestCachedRangeAllocation(t *testing.T) {
	db := newFakeCounterDB()
	svc := New(db)
	ctx := context.Background()
	scope := orgScope()
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyCached, RangeSize: 10}

	for i := int64(1); i <= 15; i++ {
		got, err := svc.NextReference(ctx, scope, quoConfig, opts)
		require.NoError(t, err)
		assert.Equal(t, quoConfig.Format(i), got)
	}

	// 15 issued numbers out of two reserved ranges of 10.
	assert.Equal(t, int64(20), db.counters[scope.Key()+":QUO"])
}

func TestScopeIsolation(t *testing.T) {
	svc := New(newFakeCounterDB())
	ctx := context.Background()
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyStrict}

	sharedID := id.New()
	org := tenant.Scope{TenantID: sharedID, IsOrganization: true}
	ind := tenant.Scope{TenantID: sharedID}

	gotOrg, err := svc.NextReference(ctx, org, quoConfig, opts)
	require.NoError(t, err)
	gotInd, err := svc.NextReference(ctx, ind, quoConfig, opts)
	require.NoError(t, err)

	// Same UUID, different account types: each series starts fresh.
	assert.Equal(t, "QUO00001", gotOrg)
	assert.Equal(t, "QUO00001", gotInd)
}

func TestSetNextReference(t *testing.T) {
	svc := New(newFakeCounterDB())
	ctx := context.Background()
	scope := orgScope()
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyStrict}

	require.NoError(t, svc.SetNextReference(ctx, scope, quoConfig, 4))

	got, err := svc.NextReference(ctx, scope, quoConfig, opts)
	require.NoError(t, err)
	assert.Equal(t, "QUO00004", got)
}

func TestSetNextReferenceDropsCachedRange(t *testing.T) {
	svc := New(newFakeCounterDB())
	ctx := context.Background()
	scope := orgScope()
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyCached, RangeSize: 50}

	got, err := svc.NextReference(ctx, scope, quoConfig, opts)
	require.NoError(t, err)
	assert.Equal(t, "QUO00001", got)

	require.NoError(t, svc.SetNextReference(ctx, scope, quoConfig, 200))

	got, err = svc.NextReference(ctx, scope, quoConfig, opts)
	require.NoError(t, err)
	assert.Equal(t, "QUO00200", got)
}

func TestConcurrentStrictAllocationsAreDistinct(t *testing.T) {
	svc := New(newFakeCounterDB())
	ctx := context.Background()
	scope := orgScope()
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyStrict}

	const n = 50
	refs := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			refs[i], errs[i] = svc.NextReference(ctx, scope, quoConfig, opts)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[refs[i]], "duplicate %s", refs[i])
		seen[refs[i]] = true
	}
}
