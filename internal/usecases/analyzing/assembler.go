package analyzing

import (
	"time"

	"github.com/sysantonio/api-boukii-sub001/internal/domain"
)

// assembleDashboard composes the resolved window, the raw aggregate and the
// built metrics into the final document. Pure composition: the performance
// block lets callers reason about staleness and approximation.
func assembleDashboard(
	window domain.ReportWindow,
	level domain.OptimizationLevel,
	raw *domain.RawAggregate,
	built builtMetrics,
	elapsed time.Duration,
	generatedAt time.Time,
) *domain.DashboardDocument {
	return &domain.DashboardDocument{
		SeasonInfo:         seasonInfo(window),
		ExecutiveKPIs:      built.KPIs,
		BookingSources:     built.Sources,
		PaymentMethods:     built.Methods,
		FinancialSummary:   built.Financial,
		PerformanceMetrics: performanceMetrics(level, raw, elapsed, generatedAt),
	}
}

func assembleRevenueSummary(
	window domain.ReportWindow,
	level domain.OptimizationLevel,
	raw *domain.RawAggregate,
	built builtMetrics,
	elapsed time.Duration,
	generatedAt time.Time,
) *domain.RevenueSummaryDocument {
	return &domain.RevenueSummaryDocument{
		SeasonInfo:         seasonInfo(window),
		FinancialSummary:   built.Financial,
		BookingSources:     built.Sources,
		PerformanceMetrics: performanceMetrics(level, raw, elapsed, generatedAt),
	}
}

func seasonInfo(window domain.ReportWindow) domain.SeasonInfo {
	return domain.SeasonInfo{
		SeasonID:  window.SeasonID,
		Name:      window.Label,
		StartDate: window.StartDate.Format(time.DateOnly),
		EndDate:   window.EndDate.Format(time.DateOnly),
		Source:    window.Source,
	}
}

func performanceMetrics(
	level domain.OptimizationLevel,
	raw *domain.RawAggregate,
	elapsed time.Duration,
	generatedAt time.Time,
) domain.PerformanceMetrics {
	return domain.PerformanceMetrics{
		RowsAnalyzed:      raw.RowsScanned(),
		OptimizationLevel: level.String(),
		Approximate:       level.Approximate(),
		ComputationTimeMs: elapsed.Milliseconds(),
		GeneratedAt:       generatedAt,
	}
}
