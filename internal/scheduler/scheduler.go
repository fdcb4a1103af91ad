// Package scheduler manages the periodic background jobs of the service.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/match-predictor/internal/datasource"
	"github.com/yourusername/match-predictor/internal/metrics"
	"github.com/yourusername/match-predictor/internal/ml"
	"github.com/yourusername/match-predictor/internal/predictor"
)

// Scheduler manages the schedule-refresh and retrain cron jobs.
type Scheduler struct {
	cron      *cron.Cron
	fetcher   *datasource.ScheduleFetcher
	registry  *ml.Registry
	cache     *predictor.ResultCache
	logger    *logrus.Logger
	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a new scheduler. The fetcher and cache may be nil
// when the corresponding job is not scheduled.
func NewScheduler(fetcher *datasource.ScheduleFetcher, registry *ml.Registry, cache *predictor.ResultCache, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		fetcher:  fetcher,
		registry: registry,
		cache:    cache,
		logger:   logger,
		jobIDs:   make([]cron.EntryID, 0),
	}
}

// ScheduleRefresh schedules the live-schedule download. A successful
// refresh invalidates the loaded model and the result cache so the next
// prediction retrains against the new matches.
func (s *Scheduler) ScheduleRefresh(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if s.fetcher == nil {
		return fmt.Errorf("no schedule fetcher configured")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		s.logger.Info("Starting scheduled live-schedule refresh")
		if err := s.fetcher.Refresh(ctx); err != nil {
			metrics.ScheduleRefreshTotal.WithLabelValues("error").Inc()
			s.logger.WithError(err).Error("Scheduled schedule refresh failed")
			return
		}
		metrics.ScheduleRefreshTotal.WithLabelValues("success").Inc()

		s.registry.Invalidate()
		if s.cache != nil {
			s.cache.Clear()
		}
		s.logger.Info("Schedule refresh completed, model evicted")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled live-schedule refresh job")
	return nil
}

// ScheduleRetrain schedules a periodic model eviction. The registry is
// lazy, so eviction is all a retrain needs: the next prediction trains a
// fresh model against whatever the corpus holds at that point.
func (s *Scheduler) ScheduleRetrain(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		s.logger.Info("Evicting model for scheduled retrain")
		s.registry.Invalidate()
		if s.cache != nil {
			s.cache.Clear()
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled retrain job")
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}
	return nextRun
}
