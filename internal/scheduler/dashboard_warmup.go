// Package scheduler holds the background jobs of the analytics service.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/sysantonio/api-boukii-sub001/internal/config"
	"github.com/sysantonio/api-boukii-sub001/internal/domain"
	"github.com/sysantonio/api-boukii-sub001/internal/usecases/analyzing"
)

// DashboardWarmupService precomputes the fast-level season dashboard for a
// configured list of schools so their first request of the cache window is a
// hit. Disabled by default.
type DashboardWarmupService struct {
	scheduler        *gocron.Scheduler
	analytics        analyzing.Analyzer
	config           config.Warmup
	warmupRunning    bool
	warmupMutex      sync.Mutex
	lastRunStartedAt time.Time
	lastRunEndedAt   time.Time
}

func NewDashboardWarmupService(
	analytics analyzing.Analyzer,
	cfg *config.Config,
) *DashboardWarmupService {
	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": cfg.Warmup.CronSchedule,
		"school_count":  len(cfg.Warmup.SchoolIDs),
	}).Info("dashboard warmup configuration loaded")

	return &DashboardWarmupService{
		scheduler: scheduler,
		analytics: analytics,
		config:    cfg.Warmup,
	}
}

func (s *DashboardWarmupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("dashboard warmup disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("starting dashboard warmup job")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.WarmDashboards(ctx); err != nil {
			logrus.WithError(err).Error("dashboard warmup run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling dashboard warmup: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("stopping dashboard warmup job")
		s.scheduler.Stop()
	}()

	return nil
}

// WarmDashboards computes the fast dashboard for every configured school.
// A run already in progress is not doubled.
func (s *DashboardWarmupService) WarmDashboards(ctx context.Context) error {
	s.warmupMutex.Lock()
	if s.warmupRunning {
		s.warmupMutex.Unlock()
		logrus.Warn("dashboard warmup already running")
		return nil
	}
	s.warmupRunning = true
	s.lastRunStartedAt = time.Now()
	s.warmupMutex.Unlock()

	defer func() {
		s.warmupMutex.Lock()
		s.warmupRunning = false
		s.lastRunEndedAt = time.Now()
		s.warmupMutex.Unlock()
	}()

	warmed := 0
	for _, schoolID := range s.config.SchoolIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		req := domain.AnalyticsRequest{
			SchoolID: schoolID,
			Level:    domain.LevelFast,
		}

		if _, err := s.analytics.SeasonDashboard(ctx, req); err != nil {
			logrus.WithError(err).WithField("school_id", schoolID).
				Warn("dashboard warmup failed for school")
			continue
		}
		warmed++
	}

	logrus.WithFields(logrus.Fields{
		"warmed_schools": warmed,
		"total_schools":  len(s.config.SchoolIDs),
	}).Info("dashboard warmup run finished")

	return nil
}
