package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is the unit of work triggered on every tick.
type Job func(ctx context.Context) error

// Scheduler invokes a Job on a fixed interval.
type Scheduler struct {
	name       string
	interval   time.Duration
	runOnStart bool
	job        Job
	logger     *zap.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New creates a scheduler. An interval <= 0 disables periodic ticks.
func New(name string, interval time.Duration, runOnStart bool, job Job, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		name:       name,
		interval:   interval,
		runOnStart: runOnStart,
		job:        job,
		logger:     logger.With(zap.String("job", name)),
	}
}

// Start launches the scheduling loop in the background.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()
}

// Stop cancels the loop and waits for the current job to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	if s.runOnStart {
		s.trigger(ctx)
	}

	if s.interval <= 0 {
		s.logger.Info("Periodic trigger disabled")
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Scheduler started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.trigger(ctx)
		}
	}
}

// trigger runs the job synchronously; ticks missed meanwhile are dropped by the ticker.
func (s *Scheduler) trigger(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.job(ctx); err != nil {
		s.logger.Error("Scheduled job failed", zap.Error(err))
	}
}
