package analyzing

import (
	"context"

	"github.com/sysantonio/api-boukii-sub001/internal/domain"
)

// Analyzer is the season analytics surface exposed to the HTTP layer.
// Document operations return the rendered JSON bytes so cached documents
// replay verbatim.
type Analyzer interface {
	// SeasonDashboard computes or serves the season dashboard document.
	SeasonDashboard(ctx context.Context, req domain.AnalyticsRequest) ([]byte, error)

	// RevenueSummary computes or serves the revenue-focused summary.
	RevenueSummary(ctx context.Context, req domain.AnalyticsRequest) ([]byte, error)

	// InvalidateCache expires the tenant's cached analytics for one scope.
	InvalidateCache(ctx context.Context, schoolID int64, scope string) (*domain.InvalidationAck, error)

	// CacheStatus reports per-scope cache population for the tenant.
	CacheStatus(ctx context.Context, schoolID int64) (*domain.CacheStatusReport, error)
}
