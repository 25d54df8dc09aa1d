package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysantonio/api-boukii-sub001/internal/domain"
)

func testWindow() domain.ReportWindow {
	return domain.ReportWindow{
		TenantID:  777,
		StartDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildAggregateQueryShape(t *testing.T) {
	query, args, err := buildAggregateQuery(testWindow(), domain.LevelFast)
	require.NoError(t, err)

	// One statement: the scoped CTE plus four aggregation arms.
	assert.Equal(t, 1, strings.Count(query, "WITH scoped AS"))
	assert.Equal(t, 3, strings.Count(query, "UNION ALL"))
	assert.Contains(t, query, "'total' AS dim")
	assert.Contains(t, query, "'status' AS dim")
	assert.Contains(t, query, "'source' AS dim")
	assert.Contains(t, query, "'method' AS dim")
	assert.Contains(t, query, "b.deleted_at IS NULL")

	// Postgres numbered placeholders, fully rewritten.
	assert.Contains(t, query, "$1")
	assert.NotContains(t, query, "?")

	// The payments arm filter is the last bound argument.
	require.NotEmpty(t, args)
	assert.Equal(t, "paid", args[len(args)-1])
}

func TestBuildAggregateQueryBindsWindowValues(t *testing.T) {
	window := testWindow()
	query, args, err := buildAggregateQuery(window, domain.LevelFast)
	require.NoError(t, err)

	assert.Contains(t, args, int64(777))
	assert.Contains(t, args, "2025-12-01")
	// Upper bound is exclusive at day granularity.
	assert.Contains(t, args, "2026-04-01")

	assert.NotContains(t, query, "777")
	assert.NotContains(t, query, "2025-12-01")
}

func TestBuildAggregateQueryRowCaps(t *testing.T) {
	cases := []struct {
		level     domain.OptimizationLevel
		wantLimit string
	}{
		{domain.LevelFast, "LIMIT 1000"},
		{domain.LevelBalanced, "LIMIT 5000"},
	}

	for _, tc := range cases {
		t.Run(tc.level.String(), func(t *testing.T) {
			query, _, err := buildAggregateQuery(testWindow(), tc.level)
			require.NoError(t, err)

			assert.Contains(t, query, tc.wantLimit)
			assert.Contains(t, query, "ORDER BY b.created_at DESC")
		})
	}
}

func TestBuildAggregateQueryDetailedUnbounded(t *testing.T) {
	query, _, err := buildAggregateQuery(testWindow(), domain.LevelDetailed)
	require.NoError(t, err)

	assert.NotContains(t, query, "LIMIT")
	assert.NotContains(t, query, "ORDER BY b.created_at DESC")
}

func TestBuildAggregateQueryEmbedsClassifier(t *testing.T) {
	query, args, err := buildAggregateQuery(testWindow(), domain.LevelFast)
	require.NoError(t, err)

	assert.Contains(t, query, "AS is_test")
	assert.Contains(t, query, "booking_users")
	assert.Contains(t, args, "%test%")
	assert.Contains(t, args, "%prueba%")
}

// NULL client data must never leak into is_test: the predicate is coalesced
// to FALSE and clientless bookings survive the join, so they aggregate as
// production instead of failing the scan or vanishing.
func TestBuildAggregateQueryNullSafeClassifier(t *testing.T) {
	query, _, err := buildAggregateQuery(testWindow(), domain.LevelFast)
	require.NoError(t, err)

	assert.Contains(t, query, "COALESCE(")
	assert.Regexp(t, `COALESCE\(\(.+\), FALSE\)\) AS is_test`, query)
	assert.Contains(t, query, "LEFT JOIN clients c ON c.id = b.client_main_id")
}

func TestStatusName(t *testing.T) {
	assert.Equal(t, "active", statusName("1"))
	assert.Equal(t, "cancelled", statusName("2"))
	assert.Equal(t, "partially_cancelled", statusName("3"))
	assert.Equal(t, "status_9", statusName("9"))
}
