package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysantonio/api-boukii-sub001/pkg/log"
)

func TestGetOrComputeCachesResult(t *testing.T) {
	store := NewMemoryStore()
	orch := NewOrchestrator(store)
	ctx := context.Background()
	key := NewKey(1, ScopeSeason, "season:7", "fast", "dashboard")

	var computes int32
	compute := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&computes, 1)
		return []byte(`{"doc":1}`), nil
	}

	value, hit, err := orch.GetOrCompute(ctx, key, time.Minute, true, compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []byte(`{"doc":1}`), value)

	// The replay must be byte identical and must not recompute.
	again, hit, err := orch.GetOrCompute(ctx, key, time.Minute, true, compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, value, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&computes))
}

func TestGetOrComputeSharesFlight(t *testing.T) {
	store := NewMemoryStore()
	orch := NewOrchestrator(store)
	key := NewKey(1, ScopeSeason, "season:7", "fast", "dashboard")

	var computes int32
	compute := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&computes, 1)
		time.Sleep(50 * time.Millisecond)
		return []byte(`{"doc":1}`), nil
	}

	const callers = 8
	start := make(chan struct{})
	results := make([][]byte, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], _, errs[i] = orch.GetOrCompute(context.Background(), key, time.Minute, true, compute)
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&computes), "concurrent callers must share one computation")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, []byte(`{"doc":1}`), results[i])
	}
}

func TestGetOrComputeNonCacheable(t *testing.T) {
	store := NewMemoryStore()
	orch := NewOrchestrator(store)
	ctx := context.Background()
	key := NewKey(1, ScopeSeason, "season:7", "detailed", "dashboard")

	var computes int32
	compute := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&computes, 1)
		return []byte(`{"doc":1}`), nil
	}

	for i := 0; i < 2; i++ {
		_, hit, err := orch.GetOrCompute(ctx, key, time.Minute, false, compute)
		require.NoError(t, err)
		assert.False(t, hit)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&computes))

	_, hit, err := store.Get(ctx, key.String())
	require.NoError(t, err)
	assert.False(t, hit, "non-cacheable results must not be stored")
}

func TestGetOrComputeWaiterCancellation(t *testing.T) {
	store := NewMemoryStore()
	orch := NewOrchestrator(store)
	key := NewKey(1, ScopeSeason, "season:7", "fast", "dashboard")

	started := make(chan struct{})
	release := make(chan struct{})
	compute := func(context.Context) ([]byte, error) {
		close(started)
		<-release
		return []byte(`{"doc":1}`), nil
	}

	done := make(chan error, 1)
	go func() {
		_, _, err := orch.GetOrCompute(context.Background(), key, time.Minute, true, compute)
		done <- err
	}()
	<-started

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := orch.GetOrCompute(cancelled, key, time.Minute, true, compute)
	assert.ErrorIs(t, err, context.Canceled)

	// The abandoned computation still finishes and populates the cache.
	close(release)
	require.NoError(t, <-done)

	value, hit, err := store.Get(context.Background(), key.String())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte(`{"doc":1}`), value)
}

func TestGetOrComputeFailOpen(t *testing.T) {
	orch := NewOrchestrator(brokenStore{})
	ctx := context.Background()
	key := NewKey(1, ScopeSeason, "season:7", "fast", "dashboard")

	var computes int32
	compute := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&computes, 1)
		return []byte(`{"doc":1}`), nil
	}

	value, hit, err := orch.GetOrCompute(ctx, key, time.Minute, true, compute)
	require.NoError(t, err, "a broken store must not fail the request")
	assert.False(t, hit)
	assert.Equal(t, []byte(`{"doc":1}`), value)
	assert.Equal(t, int32(1), atomic.LoadInt32(&computes))
}

func TestStoreWarningsCarryCorrelationID(t *testing.T) {
	hook := logrustest.NewGlobal()
	defer hook.Reset()

	orch := NewOrchestrator(brokenStore{})
	ctx, correlationID := log.WithCorrelationID(context.Background())
	key := NewKey(1, ScopeSeason, "season:7", "fast", "dashboard")

	_, _, err := orch.GetOrCompute(ctx, key, time.Minute, true, func(context.Context) ([]byte, error) {
		return []byte(`{"doc":1}`), nil
	})
	require.NoError(t, err)

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level != logrus.WarnLevel {
			continue
		}
		warned = true
		assert.Equal(t, correlationID, entry.Data["correlation_id"],
			"cache warnings must keep the request's correlation id")
	}
	assert.True(t, warned, "a broken store must be warned about")
}

func TestInvalidateScopeIsolation(t *testing.T) {
	store := NewMemoryStore()
	orch := NewOrchestrator(store)
	ctx := context.Background()

	seasonKey := NewKey(1, ScopeSeason, "season:7", "fast", "dashboard")
	revenueKey := NewKey(1, ScopeRevenue, "season:7", "fast", "revenue-summary")
	otherTenantKey := NewKey(2, ScopeRevenue, "season:3", "fast", "revenue-summary")

	for _, k := range []Key{seasonKey, revenueKey, otherTenantKey} {
		require.NoError(t, store.Set(ctx, k.String(), []byte("doc"), time.Minute))
	}

	cleared, err := orch.Invalidate(ctx, 1, ScopeRevenue)
	require.NoError(t, err)
	assert.Equal(t, 1, cleared)

	_, hit, _ := store.Get(ctx, seasonKey.String())
	assert.True(t, hit, "sibling scope must survive")
	_, hit, _ = store.Get(ctx, otherTenantKey.String())
	assert.True(t, hit, "other tenants must survive")
	_, hit, _ = store.Get(ctx, revenueKey.String())
	assert.False(t, hit)
}

func TestInvalidateAllScope(t *testing.T) {
	store := NewMemoryStore()
	orch := NewOrchestrator(store)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, NewKey(1, ScopeSeason, "season:7", "fast").String(), []byte("doc"), time.Minute))
	require.NoError(t, store.Set(ctx, NewKey(1, ScopeRevenue, "season:7", "fast").String(), []byte("doc"), time.Minute))
	require.NoError(t, store.Set(ctx, NewKey(2, ScopeSeason, "season:3", "fast").String(), []byte("doc"), time.Minute))

	cleared, err := orch.Invalidate(ctx, 1, ScopeAll)
	require.NoError(t, err)
	assert.Equal(t, 2, cleared)

	stats, err := store.StatsByPrefix(ctx, TenantPrefix(2))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
}

func TestInvalidateUnknownScope(t *testing.T) {
	orch := NewOrchestrator(NewMemoryStore())

	_, err := orch.Invalidate(context.Background(), 1, "everything")
	assert.Error(t, err)
}

func TestStatusPerScope(t *testing.T) {
	store := NewMemoryStore()
	orch := NewOrchestrator(store)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, NewKey(1, ScopeSeason, "season:7", "fast").String(), []byte("doc"), time.Minute))

	scopes, err := orch.Status(ctx, 1)
	require.NoError(t, err)
	require.Len(t, scopes, len(KnownScopes()))
	assert.Equal(t, 1, scopes[ScopeSeason].Entries)
	assert.Equal(t, 0, scopes[ScopeRevenue].Entries)
	assert.Nil(t, scopes[ScopeRevenue].LastStoredAt)
}

// brokenStore fails every operation, standing in for an unreachable backend.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, ErrStoreUnavailable
}

func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return ErrStoreUnavailable
}

func (brokenStore) SetNX(context.Context, string, []byte, time.Duration) (bool, error) {
	return false, ErrStoreUnavailable
}

func (brokenStore) Delete(context.Context, string, []byte) error {
	return ErrStoreUnavailable
}

func (brokenStore) DeleteByPrefix(context.Context, string) (int, error) {
	return 0, ErrStoreUnavailable
}

func (brokenStore) StatsByPrefix(context.Context, string) (PrefixStats, error) {
	return PrefixStats{}, ErrStoreUnavailable
}
