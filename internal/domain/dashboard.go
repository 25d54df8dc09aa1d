package domain

import "time"

// SeasonInfo describes the reporting window the dashboard was computed for.
type SeasonInfo struct {
	SeasonID  *int64 `json:"season_id,omitempty"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Source    string `json:"source"`
}

// ExecutiveKPIs are the headline numbers of the season dashboard. Monetary
// values are floats in the tenant's currency; no conversion is performed.
type ExecutiveKPIs struct {
	TotalBookings        int64   `json:"total_bookings"`
	ProductionBookings   int64   `json:"production_bookings"`
	TestBookingsExcluded int64   `json:"test_bookings_excluded"`
	RevenueExpected      float64 `json:"revenue_expected"`
	RevenuePaid          float64 `json:"revenue_paid"`
	PaymentEfficiency    float64 `json:"payment_efficiency"`
	AverageBookingValue  float64 `json:"average_booking_value"`
	ConversionRate       float64 `json:"conversion_rate"`
}

// BreakdownRow is one entry of a sparse breakdown list. Rows whose count and
// revenue are both zero are omitted from the list, never zero-filled.
type BreakdownRow struct {
	Key        string  `json:"key"`
	Count      int64   `json:"count"`
	Revenue    float64 `json:"revenue"`
	Percentage float64 `json:"percentage"`
}

// FinancialSummary aggregates the revenue position of the window.
type FinancialSummary struct {
	RevenueExpected   float64        `json:"revenue_expected"`
	RevenueActual     float64        `json:"revenue_actual"`
	RevenuePaid       float64        `json:"revenue_paid"`
	OutstandingAmount float64        `json:"outstanding_amount"`
	StatusBreakdown   []BreakdownRow `json:"status_breakdown"`
}

// PerformanceMetrics lets callers reason about staleness and approximation of
// a document: how many rows were analyzed, under which level, and when.
type PerformanceMetrics struct {
	RowsAnalyzed      int64     `json:"rows_analyzed"`
	OptimizationLevel string    `json:"optimization_level"`
	Approximate       bool      `json:"approximate"`
	ComputationTimeMs int64     `json:"computation_time_ms"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// DashboardDocument is the externally visible season dashboard. Immutable once
// built; safe to cache and replay verbatim.
type DashboardDocument struct {
	SeasonInfo         SeasonInfo         `json:"season_info"`
	ExecutiveKPIs      ExecutiveKPIs      `json:"executive_kpis"`
	BookingSources     []BreakdownRow     `json:"booking_sources"`
	PaymentMethods     []BreakdownRow     `json:"payment_methods"`
	FinancialSummary   FinancialSummary   `json:"financial_summary"`
	PerformanceMetrics PerformanceMetrics `json:"performance_metrics"`
}

// RevenueSummaryDocument is the lighter revenue-focused view of the same
// aggregates, cached under the revenue scope.
type RevenueSummaryDocument struct {
	SeasonInfo         SeasonInfo         `json:"season_info"`
	FinancialSummary   FinancialSummary   `json:"financial_summary"`
	BookingSources     []BreakdownRow     `json:"booking_sources"`
	PerformanceMetrics PerformanceMetrics `json:"performance_metrics"`
}

// InvalidationAck confirms a scope-based cache invalidation.
type InvalidationAck struct {
	ClearedKeys int    `json:"cleared_keys"`
	Scope       string `json:"scope"`
}

// ScopeStatus reports the cache population of one scope for a tenant.
type ScopeStatus struct {
	CachedEntries int        `json:"cached_entries"`
	LastCachedAt  *time.Time `json:"last_cached_at"`
}

// CacheStatusReport maps every scope to its cache status.
type CacheStatusReport struct {
	SchoolID int64                  `json:"school_id"`
	Scopes   map[string]ScopeStatus `json:"scopes"`
}
