package cache

import (
	"context"
	"errors"
	"time"
)

// ErrStoreUnavailable is returned by Store implementations whose backend is
// unreachable. The orchestrator treats it as a reason to fail open, never as
// a reason to fail the request.
var ErrStoreUnavailable = errors.New("cache store unavailable")

// PrefixStats summarizes the entries stored under one key prefix.
type PrefixStats struct {
	Entries      int
	LastStoredAt *time.Time
}

// Store is the key/value capability the orchestrator is built on. It is an
// injected dependency so tests can substitute a deterministic in-memory fake.
type Store interface {
	// Get returns the stored value and whether the key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX stores value only if key is absent, reporting whether it was
	// stored. This is the lease primitive behind cross-process single-flight.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Delete removes key if its current value equals expect, or
	// unconditionally when expect is nil.
	Delete(ctx context.Context, key string, expect []byte) error

	// DeleteByPrefix removes every key under prefix and returns how many.
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)

	// StatsByPrefix reports how many entries live under prefix and when the
	// most recent one was stored.
	StatsByPrefix(ctx context.Context, prefix string) (PrefixStats, error)
}
