package analyzing

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sysantonio/api-boukii-sub001/infrastructure/repository"
	"github.com/sysantonio/api-boukii-sub001/internal/cache"
	"github.com/sysantonio/api-boukii-sub001/internal/domain"
	"github.com/sysantonio/api-boukii-sub001/pkg/log"
)

const fallbackWindowMonths = 6

// DateRangeResolver determines the reporting window of a request: explicit
// bounds when given, the active season otherwise, and a trailing window as
// last resort. Season lookups are cached with a long TTL since boundaries
// change rarely; cache trouble degrades to a direct lookup.
type DateRangeResolver struct {
	seasons   repository.SeasonRepository
	store     cache.Store
	seasonTTL time.Duration
	now       func() time.Time
}

func NewDateRangeResolver(
	seasons repository.SeasonRepository,
	store cache.Store,
	seasonTTL time.Duration,
) *DateRangeResolver {
	return &DateRangeResolver{
		seasons:   seasons,
		store:     store,
		seasonTTL: seasonTTL,
		now:       time.Now,
	}
}

// WithClock substitutes the time source for tests.
func (r *DateRangeResolver) WithClock(now func() time.Time) *DateRangeResolver {
	r.now = now
	return r
}

func (r *DateRangeResolver) Resolve(ctx context.Context, req domain.AnalyticsRequest) (domain.ReportWindow, error) {
	if req.SeasonID != nil {
		return r.resolveSeasonByID(ctx, req.SchoolID, *req.SeasonID)
	}

	if req.StartDate != nil || req.EndDate != nil {
		return r.resolveExplicit(req)
	}

	if season, err := r.lookupActiveSeason(ctx, req.SchoolID); err != nil {
		return domain.ReportWindow{}, err
	} else if season != nil {
		return windowFromSeason(req.SchoolID, season), nil
	}

	end := r.now()
	start := end.AddDate(0, -fallbackWindowMonths, 0)
	return domain.ReportWindow{
		TenantID:  req.SchoolID,
		StartDate: start,
		EndDate:   end,
		Label:     fmt.Sprintf("Last %d months", fallbackWindowMonths),
		Source:    domain.WindowSourceFallback,
	}, nil
}

func (r *DateRangeResolver) resolveExplicit(req domain.AnalyticsRequest) (domain.ReportWindow, error) {
	if req.StartDate == nil || req.EndDate == nil {
		return domain.ReportWindow{}, NewAnalyticsError(ErrInvalidDateRange, req.SchoolID,
			"both start_date and end_date are required for an explicit range")
	}
	if req.StartDate.After(*req.EndDate) {
		return domain.ReportWindow{}, NewAnalyticsError(ErrInvalidDateRange, req.SchoolID,
			"start_date is after end_date")
	}

	return domain.ReportWindow{
		TenantID:  req.SchoolID,
		StartDate: *req.StartDate,
		EndDate:   *req.EndDate,
		Label:     "Custom period",
		Source:    domain.WindowSourceExplicit,
	}, nil
}

func (r *DateRangeResolver) resolveSeasonByID(ctx context.Context, schoolID, seasonID int64) (domain.ReportWindow, error) {
	season, err := r.seasons.GetByID(ctx, schoolID, seasonID)
	if err != nil {
		return domain.ReportWindow{}, NewAnalyticsError(ErrAggregationUnavailable, schoolID, err.Error())
	}
	if season == nil {
		return domain.ReportWindow{}, NewAnalyticsError(ErrSeasonNotFound, schoolID,
			fmt.Sprintf("season %d", seasonID))
	}

	return windowFromSeason(schoolID, season), nil
}

// lookupActiveSeason returns the season covering today, through the season
// cache. Overlapping seasons resolve to the most recently started one; the
// repository enforces that ordering.
func (r *DateRangeResolver) lookupActiveSeason(ctx context.Context, schoolID int64) (*domain.Season, error) {
	key := cache.NewKey(schoolID, cache.ScopeSeason, "active-season", "lookup")

	if value, hit, err := r.store.Get(ctx, key.String()); err != nil {
		log.ForContext(ctx).WithError(err).Warn("analytics: season cache lookup failed, querying store")
	} else if hit {
		season := &domain.Season{}
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(value, season); err == nil {
			return season, nil
		}
	}

	season, err := r.seasons.GetActiveSeason(ctx, schoolID, r.now())
	if err != nil {
		return nil, NewAnalyticsError(ErrAggregationUnavailable, schoolID, err.Error())
	}
	if season == nil {
		return nil, nil
	}

	if value, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(season); err == nil {
		if err := r.store.Set(ctx, key.String(), value, r.seasonTTL); err != nil {
			log.ForContext(ctx).WithError(err).Warn("analytics: failed to cache active season")
		}
	}

	return season, nil
}

func windowFromSeason(schoolID int64, season *domain.Season) domain.ReportWindow {
	seasonID := season.ID
	return domain.ReportWindow{
		TenantID:  schoolID,
		StartDate: season.StartDate,
		EndDate:   season.EndDate,
		Label:     season.Name,
		SeasonID:  &seasonID,
		Source:    domain.WindowSourceSeason,
	}
}
