package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Invalidation scopes. Every cached analytics key belongs to exactly one
// scope so invalidation can expire a tenant's scope without a full flush.
const (
	ScopeAll      = "all"
	ScopeSeason   = "season"
	ScopeRevenue  = "revenue"
	ScopeCourses  = "courses"
	ScopeMonitors = "monitors"
)

var knownScopes = []string{ScopeSeason, ScopeRevenue, ScopeCourses, ScopeMonitors}

// ValidScope reports whether s is an accepted invalidation scope.
func ValidScope(s string) bool {
	if s == ScopeAll {
		return true
	}
	for _, k := range knownScopes {
		if s == k {
			return true
		}
	}
	return false
}

// KnownScopes returns the concrete scopes (everything but "all").
func KnownScopes() []string {
	return knownScopes
}

// Key identifies one cached analytics document. The fingerprint is a 128-bit
// hash over the canonical serialization of the request inputs, so identical
// logical requests always map to the same key and distinct inputs do not
// collide.
type Key struct {
	TenantID    int64
	Scope       string
	Fingerprint string
}

// NewKey builds a key from the request inputs. rangeToken is the canonical
// window identity (season id or explicit bounds) and extra carries any other
// filter inputs that affect the result.
func NewKey(tenantID int64, scope, rangeToken, level string, extra ...string) Key {
	canonical := fmt.Sprintf("%d|%s|%s", tenantID, rangeToken, level)
	if len(extra) > 0 {
		canonical += "|" + strings.Join(extra, "|")
	}
	sum := sha256.Sum256([]byte(canonical))
	return Key{
		TenantID:    tenantID,
		Scope:       scope,
		Fingerprint: hex.EncodeToString(sum[:16]),
	}
}

func (k Key) String() string {
	return fmt.Sprintf("analytics:%d:%s:%s", k.TenantID, k.Scope, k.Fingerprint)
}

// leaseKey is the companion key guarding the computation of k. It lives
// outside the analytics: namespace so scope invalidation and status reports
// never see leases.
func (k Key) leaseKey() string {
	return fmt.Sprintf("lease:%d:%s:%s", k.TenantID, k.Scope, k.Fingerprint)
}

// TenantPrefix covers every analytics key of a tenant.
func TenantPrefix(tenantID int64) string {
	return fmt.Sprintf("analytics:%d:", tenantID)
}

// ScopePrefix covers a tenant's keys within one scope.
func ScopePrefix(tenantID int64, scope string) string {
	return fmt.Sprintf("analytics:%d:%s:", tenantID, scope)
}
