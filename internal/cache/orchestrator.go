package cache

import (
	"context"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sysantonio/api-boukii-sub001/pkg/log"
	"golang.org/x/sync/singleflight"
)

const (
	defaultLeaseTTL  = 30 * time.Second
	leasePollPeriod  = 100 * time.Millisecond
	leaseTokenLength = 12
)

// Orchestrator wraps the analytics pipeline with caching and stampede
// protection. For a given key at most one computation runs at a time:
// concurrent in-process callers share one flight, and a set-if-absent lease on
// the store keeps other processes from duplicating the work. The cache is a
// performance layer only; when the store misbehaves the orchestrator computes
// directly instead of failing the request.
type Orchestrator struct {
	store    Store
	group    singleflight.Group
	leaseTTL time.Duration
}

func NewOrchestrator(store Store) *Orchestrator {
	return &Orchestrator{
		store:    store,
		leaseTTL: defaultLeaseTTL,
	}
}

// WithLeaseTTL overrides the computation lease TTL. It must stay longer than
// the expected computation time.
func (o *Orchestrator) WithLeaseTTL(ttl time.Duration) *Orchestrator {
	o.leaseTTL = ttl
	return o
}

// GetOrCompute returns the cached document for key or computes it. cacheable
// controls whether the result is looked up and stored; non-cacheable levels
// still share in-flight computations per key. The bool result reports a cache
// hit. A caller whose context is cancelled while waiting on a flight it did
// not initiate abandons the wait; the computation itself continues and
// populates the cache for subsequent callers.
func (o *Orchestrator) GetOrCompute(
	ctx context.Context,
	key Key,
	ttl time.Duration,
	cacheable bool,
	compute func(context.Context) ([]byte, error),
) ([]byte, bool, error) {
	if cacheable {
		value, hit, err := o.store.Get(ctx, key.String())
		if err != nil {
			log.ForContext(ctx).WithError(err).WithField("cache_key", key.String()).
				Warn("cache: lookup failed, falling through to computation")
		} else if hit {
			return value, true, nil
		}
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := o.group.DoChan(key.String(), func() (interface{}, error) {
		return o.computeAndStore(flightCtx, key, ttl, cacheable, compute)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.([]byte), false, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

func (o *Orchestrator) computeAndStore(
	ctx context.Context,
	key Key,
	ttl time.Duration,
	cacheable bool,
	compute func(context.Context) ([]byte, error),
) ([]byte, error) {
	if !cacheable {
		return compute(ctx)
	}

	// A flight that queued behind another one may find the value already
	// stored.
	if value, hit, err := o.store.Get(ctx, key.String()); err == nil && hit {
		return value, nil
	}

	token, release := o.acquireLease(ctx, key)
	if token == "" {
		// Another process holds the lease. Wait for its result; if the lease
		// expires without one, compute ourselves.
		if value, ok := o.waitForValue(ctx, key); ok {
			return value, nil
		}
	} else {
		defer release()
	}

	value, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := o.store.Set(ctx, key.String(), value, ttl); err != nil {
		log.ForContext(ctx).WithError(err).WithField("cache_key", key.String()).
			Warn("cache: failed to store computed document")
	}

	return value, nil
}

// acquireLease tries to claim the computation lease for key. It returns the
// owner token and a release func, or an empty token when another owner holds
// the lease. Store failures count as acquired: the cache is not allowed to
// block computation.
func (o *Orchestrator) acquireLease(ctx context.Context, key Key) (string, func()) {
	token, err := gonanoid.New(leaseTokenLength)
	if err != nil {
		return fmt.Sprintf("lease-%d", time.Now().UnixNano()), func() {}
	}

	acquired, err := o.store.SetNX(ctx, key.leaseKey(), []byte(token), o.leaseTTL)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("cache_key", key.String()).
			Warn("cache: lease acquisition failed, computing without lease")
		return token, func() {}
	}
	if !acquired {
		return "", nil
	}

	release := func() {
		if err := o.store.Delete(ctx, key.leaseKey(), []byte(token)); err != nil {
			log.ForContext(ctx).WithError(err).WithField("cache_key", key.String()).
				Warn("cache: lease release failed")
		}
	}
	return token, release
}

// waitForValue polls for the value while another owner's lease is alive.
func (o *Orchestrator) waitForValue(ctx context.Context, key Key) ([]byte, bool) {
	deadline := time.Now().Add(o.leaseTTL)
	for time.Now().Before(deadline) {
		select {
		case <-time.After(leasePollPeriod):
		case <-ctx.Done():
			return nil, false
		}

		if value, hit, err := o.store.Get(ctx, key.String()); err == nil && hit {
			return value, true
		}
		if _, held, err := o.store.Get(ctx, key.leaseKey()); err == nil && !held {
			return nil, false
		}
	}
	return nil, false
}

// Invalidate expires every key of the tenant belonging to scope. Scope "all"
// covers the whole tenant. It returns how many live entries were cleared.
func (o *Orchestrator) Invalidate(ctx context.Context, tenantID int64, scope string) (int, error) {
	if !ValidScope(scope) {
		return 0, fmt.Errorf("unknown invalidation scope: %q", scope)
	}

	prefix := ScopePrefix(tenantID, scope)
	if scope == ScopeAll {
		prefix = TenantPrefix(tenantID)
	}

	cleared, err := o.store.DeleteByPrefix(ctx, prefix)
	if err != nil {
		return 0, err
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"school_id":    tenantID,
		"scope":        scope,
		"cleared_keys": cleared,
	}).Info("cache: invalidated analytics entries")

	return cleared, nil
}

// Status reports per-scope cache population for the tenant.
func (o *Orchestrator) Status(ctx context.Context, tenantID int64) (map[string]PrefixStats, error) {
	scopes := make(map[string]PrefixStats, len(KnownScopes()))
	for _, scope := range KnownScopes() {
		stats, err := o.store.StatsByPrefix(ctx, ScopePrefix(tenantID, scope))
		if err != nil {
			return nil, err
		}
		scopes[scope] = stats
	}
	return scopes, nil
}
