package domain

import (
	"fmt"
	"time"
)

// OptimizationLevel is the accuracy/latency knob for the aggregation engine.
// Bounded levels scan only the most recent N bookings of the window, so their
// results are an approximation biased toward recent activity.
type OptimizationLevel string

const (
	LevelFast     OptimizationLevel = "fast"
	LevelBalanced OptimizationLevel = "balanced"
	LevelDetailed OptimizationLevel = "detailed"
)

// ParseOptimizationLevel maps the request parameter to a level, defaulting to fast.
func ParseOptimizationLevel(s string) (OptimizationLevel, error) {
	switch s {
	case "", string(LevelFast):
		return LevelFast, nil
	case string(LevelBalanced):
		return LevelBalanced, nil
	case string(LevelDetailed):
		return LevelDetailed, nil
	}
	return "", fmt.Errorf("unknown optimization level: %q", s)
}

// RowCap returns the booking row cap for the level, 0 meaning unbounded.
func (l OptimizationLevel) RowCap() uint64 {
	switch l {
	case LevelFast:
		return 1000
	case LevelBalanced:
		return 5000
	default:
		return 0
	}
}

// Approximate reports whether results under this level are a most-recent-N
// sample rather than a reconciled total.
func (l OptimizationLevel) Approximate() bool {
	return l.RowCap() > 0
}

func (l OptimizationLevel) String() string {
	return string(l)
}

// Window source labels exposed in SeasonInfo.
const (
	WindowSourceSeason   = "season"
	WindowSourceExplicit = "explicit"
	WindowSourceFallback = "fallback"
)

// ReportWindow is the resolved reporting period for one request. It is built
// once by the date range resolver and never persisted.
type ReportWindow struct {
	TenantID  int64
	StartDate time.Time
	EndDate   time.Time
	Label     string
	SeasonID  *int64
	Source    string
}

// RangeToken is the canonical identity of the window used in cache keys: the
// season id when the window came from a season, the explicit bounds otherwise.
func (w ReportWindow) RangeToken() string {
	if w.SeasonID != nil {
		return fmt.Sprintf("season:%d", *w.SeasonID)
	}
	return fmt.Sprintf("range:%s:%s", w.StartDate.Format(time.DateOnly), w.EndDate.Format(time.DateOnly))
}

// AnalyticsRequest is the validated, strongly typed request the core works
// with. Handlers build it at the boundary; the core never inspects raw params.
type AnalyticsRequest struct {
	SchoolID  int64
	StartDate *time.Time
	EndDate   *time.Time
	SeasonID  *int64
	Level     OptimizationLevel
}

// AggregateBucket holds the sums and counts of one aggregate partition.
type AggregateBucket struct {
	Count           int64
	ExpectedSum     float64
	ActualSum       float64
	PaidSum         float64
	PaidExpectedSum float64
}

// RawAggregate is the result of one aggregate query execution: totals split by
// production/test classification plus the production-partition breakdowns.
// It is the only artifact the metrics builder consumes; it never re-queries.
type RawAggregate struct {
	Production AggregateBucket
	Test       AggregateBucket
	ByStatus   map[string]AggregateBucket
	BySource   map[string]AggregateBucket
	ByMethod   map[string]AggregateBucket
}

// RowsScanned is the number of bookings (production and test) the bounded
// window actually contained.
func (r *RawAggregate) RowsScanned() int64 {
	return r.Production.Count + r.Test.Count
}
