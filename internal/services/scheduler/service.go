package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/plumehq/plume/internal/common"
	"github.com/plumehq/plume/internal/services/publish"
)

// Service sweeps for due publish jobs on a cron schedule.
type Service struct {
	logger  arbor.ILogger
	config  *common.SchedulerConfig
	publish *publish.Service
	cron    *cron.Cron
	entryID cron.EntryID
	running bool
}

func NewService(cfg *common.Config, publishSvc *publish.Service) *Service {
	return &Service{
		logger:  common.GetLogger(),
		config:  &cfg.Scheduler,
		publish: publishSvc,
		cron:    cron.New(),
	}
}

// Start registers the sweep and starts the cron runner.
func (s *Service) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info().Msg("Publish scheduler disabled")
		return nil
	}
	if s.running {
		return fmt.Errorf("scheduler already started")
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid scheduler expression %q: %w", s.config.Schedule, err)
	}
	s.entryID = entryID
	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", s.config.Schedule).
		Msg("Publish scheduler started")
	return nil
}

func (s *Service) sweep(ctx context.Context) {
	started := time.Now()
	executed := s.publish.ExecuteDue(ctx, time.Now())
	if executed > 0 {
		s.logger.Info().
			Int("executed", executed).
			Str("duration", time.Since(started).String()).
			Msg("Publish sweep completed")
	}
}

// Stop halts the cron runner and waits for a running sweep to finish.
func (s *Service) Stop() {
	if !s.running {
		return
	}
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.running = false
	s.logger.Info().Msg("Publish scheduler stopped")
}
