package analyzing

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sysantonio/api-boukii-sub001/infrastructure/repository"
	"github.com/sysantonio/api-boukii-sub001/internal/cache"
	"github.com/sysantonio/api-boukii-sub001/internal/config"
	"github.com/sysantonio/api-boukii-sub001/internal/domain"
	"github.com/sysantonio/api-boukii-sub001/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Service implements Analyzer: it resolves the reporting window, runs the
// bounded aggregate query through the cache orchestrator and assembles the
// outgoing documents.
type Service struct {
	cfg          *config.Config
	aggregates   repository.AggregateRepository
	resolver     *DateRangeResolver
	orchestrator *cache.Orchestrator
	now          func() time.Time
}

func NewService(
	cfg *config.Config,
	aggregates repository.AggregateRepository,
	resolver *DateRangeResolver,
	orchestrator *cache.Orchestrator,
) Analyzer {
	return &Service{
		cfg:          cfg,
		aggregates:   aggregates,
		resolver:     resolver,
		orchestrator: orchestrator,
		now:          time.Now,
	}
}

func (s *Service) SeasonDashboard(ctx context.Context, req domain.AnalyticsRequest) ([]byte, error) {
	window, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	key := cache.NewKey(req.SchoolID, cache.ScopeSeason, window.RangeToken(), req.Level.String(), "dashboard")

	value, hit, err := s.orchestrator.GetOrCompute(
		ctx, key, s.cfg.Analytics.DashboardCacheTTL,
		req.Level == domain.LevelFast,
		func(ctx context.Context) ([]byte, error) {
			return s.computeDashboard(ctx, window, req.Level)
		},
	)
	if err != nil {
		return nil, err
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"school_id":          req.SchoolID,
		"range":              window.RangeToken(),
		"optimization_level": req.Level.String(),
		"cache_hit":          hit,
	}).Info("analytics: season dashboard served")

	return value, nil
}

func (s *Service) RevenueSummary(ctx context.Context, req domain.AnalyticsRequest) ([]byte, error) {
	window, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	key := cache.NewKey(req.SchoolID, cache.ScopeRevenue, window.RangeToken(), req.Level.String(), "revenue-summary")

	value, hit, err := s.orchestrator.GetOrCompute(
		ctx, key, s.cfg.Analytics.DashboardCacheTTL,
		req.Level == domain.LevelFast,
		func(ctx context.Context) ([]byte, error) {
			return s.computeRevenueSummary(ctx, window, req.Level)
		},
	)
	if err != nil {
		return nil, err
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"school_id": req.SchoolID,
		"range":     window.RangeToken(),
		"cache_hit": hit,
	}).Info("analytics: revenue summary served")

	return value, nil
}

func (s *Service) InvalidateCache(ctx context.Context, schoolID int64, scope string) (*domain.InvalidationAck, error) {
	if !cache.ValidScope(scope) {
		return nil, NewAnalyticsError(ErrUnknownScope, schoolID, scope)
	}

	cleared, err := s.orchestrator.Invalidate(ctx, schoolID, scope)
	if err != nil {
		return nil, NewAnalyticsError(ErrAggregationUnavailable, schoolID, err.Error())
	}

	return &domain.InvalidationAck{
		ClearedKeys: cleared,
		Scope:       scope,
	}, nil
}

func (s *Service) CacheStatus(ctx context.Context, schoolID int64) (*domain.CacheStatusReport, error) {
	stats, err := s.orchestrator.Status(ctx, schoolID)
	if err != nil {
		return nil, NewAnalyticsError(ErrAggregationUnavailable, schoolID, err.Error())
	}

	report := &domain.CacheStatusReport{
		SchoolID: schoolID,
		Scopes:   make(map[string]domain.ScopeStatus, len(stats)),
	}
	for scope, s := range stats {
		report.Scopes[scope] = domain.ScopeStatus{
			CachedEntries: s.Entries,
			LastCachedAt:  s.LastStoredAt,
		}
	}

	return report, nil
}

func (s *Service) computeDashboard(ctx context.Context, window domain.ReportWindow, level domain.OptimizationLevel) ([]byte, error) {
	started := s.now()

	raw, err := s.aggregates.Run(ctx, window, level)
	if err != nil {
		return nil, NewAnalyticsError(ErrAggregationUnavailable, window.TenantID, err.Error())
	}

	built := buildMetrics(raw)
	doc := assembleDashboard(window, level, raw, built, s.now().Sub(started), s.now().UTC())

	return json.Marshal(doc)
}

func (s *Service) computeRevenueSummary(ctx context.Context, window domain.ReportWindow, level domain.OptimizationLevel) ([]byte, error) {
	started := s.now()

	raw, err := s.aggregates.Run(ctx, window, level)
	if err != nil {
		return nil, NewAnalyticsError(ErrAggregationUnavailable, window.TenantID, err.Error())
	}

	built := buildMetrics(raw)
	doc := assembleRevenueSummary(window, level, raw, built, s.now().Sub(started), s.now().UTC())

	return json.Marshal(doc)
}
