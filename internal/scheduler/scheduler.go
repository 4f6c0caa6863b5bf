// Package scheduler owns the "when" of the periodic due-date check; the
// engine owns the "what". Tests drive the check directly instead of waiting
// on real ticks.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/coffeeassessoria/sparkboard-automation/pkg/metrics"
)

// Job is the piece of the automation engine the scheduler drives.
type Job interface {
	CheckDueDates(ctx context.Context) error
}

type Scheduler struct {
	cron   *cron.Cron
	job    Job
	every  time.Duration
	logger *zap.Logger
}

func New(job Job, every time.Duration, logger *zap.Logger) *Scheduler {
	if every <= 0 {
		every = time.Minute
	}
	return &Scheduler{
		cron:   cron.New(),
		job:    job,
		every:  every,
		logger: logger,
	}
}

// Start runs one check immediately and then once per interval.
func (s *Scheduler) Start() error {
	s.RunOnce()

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.every), s.RunOnce); err != nil {
		return fmt.Errorf("failed to schedule due-date check: %w", err)
	}
	s.cron.Start()

	s.logger.Info("Due-date scheduler started", zap.Duration("interval", s.every))
	return nil
}

// RunOnce executes a single due-date check tick.
func (s *Scheduler) RunOnce() {
	start := time.Now()
	if err := s.job.CheckDueDates(context.Background()); err != nil {
		s.logger.Error("Due-date check failed", zap.Error(err))
	}
	metrics.ObserveDueDateCheck(time.Since(start))
}

// Stop halts the ticker and waits for an in-flight check to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Due-date scheduler stopped")
}
