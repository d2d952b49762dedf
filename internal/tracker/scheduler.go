package tracker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler invokes the tracker over all tracked queries on a fixed
// wall-clock interval, plus once immediately on startup.
type Scheduler struct {
	tracker  *Tracker
	interval time.Duration
	logger   *zap.Logger
}

// NewScheduler constructs a Scheduler.
func NewScheduler(t *Tracker, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		tracker:  t,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is done. The first pass runs immediately;
// subsequent passes fire on the interval. A failed pass is logged and
// the loop keeps going.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("Scheduler started", zap.Duration("interval", s.interval))

	s.pass(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.pass(ctx)
		}
	}
}

func (s *Scheduler) pass(ctx context.Context) {
	if _, err := s.tracker.RunOnce(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("Tracker pass failed", zap.Error(err))
	}
}
