package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeyDeterministic(t *testing.T) {
	a := NewKey(42, ScopeSeason, "season:7", "fast", "dashboard")
	b := NewKey(42, ScopeSeason, "season:7", "fast", "dashboard")

	assert.Equal(t, a.String(), b.String())
	assert.Len(t, a.Fingerprint, 32)
}

func TestNewKeyDistinctInputs(t *testing.T) {
	base := NewKey(42, ScopeSeason, "season:7", "fast", "dashboard")

	variants := []Key{
		NewKey(43, ScopeSeason, "season:7", "fast", "dashboard"),
		NewKey(42, ScopeSeason, "season:8", "fast", "dashboard"),
		NewKey(42, ScopeSeason, "season:7", "balanced", "dashboard"),
		NewKey(42, ScopeSeason, "season:7", "fast", "revenue-summary"),
		NewKey(42, ScopeSeason, "range:2026-01-01:2026-03-31", "fast", "dashboard"),
	}
	for _, v := range variants {
		assert.NotEqual(t, base.Fingerprint, v.Fingerprint)
	}
}

func TestKeyNamespaces(t *testing.T) {
	key := NewKey(42, ScopeRevenue, "season:7", "fast")

	assert.True(t, strings.HasPrefix(key.String(), ScopePrefix(42, ScopeRevenue)))
	assert.True(t, strings.HasPrefix(key.String(), TenantPrefix(42)))

	// Lease keys must stay invisible to scope invalidation and status.
	assert.False(t, strings.HasPrefix(key.leaseKey(), TenantPrefix(42)))
}

func TestValidScope(t *testing.T) {
	for _, s := range []string{ScopeAll, ScopeSeason, ScopeRevenue, ScopeCourses, ScopeMonitors} {
		assert.True(t, ValidScope(s), s)
	}
	assert.False(t, ValidScope("everything"))
	assert.False(t, ValidScope(""))
}
