package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"search-indexer/core/lock"
	"search-indexer/core/logger"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	// DefaultLockName is the lock guarding reconciliation runs.
	DefaultLockName = "reconcile-run"

	// DefaultLockTTL bounds how long a crashed run can block the next one.
	DefaultLockTTL = time.Hour
)

// ErrDeleteLimitExceeded is returned when a run would delete more entries than allowed.
var ErrDeleteLimitExceeded = errors.New("delete limit exceeded")

// CoordinatorConfig controls run behavior.
type CoordinatorConfig struct {
	// LockName identifies the run lock. Defaults to DefaultLockName.
	LockName string

	// LockTTL is the lock expiry. Defaults to DefaultLockTTL.
	// A run that outlives the TTL may overlap with the next one; the lock is not a fence.
	LockTTL time.Duration

	// ContinueOnUpdateError keeps issuing per-record updates after one fails.
	// The collected errors are returned once the delete phase has run.
	ContinueOnUpdateError bool

	// UpdateRate throttles per-record updates (records per second). Zero disables throttling.
	UpdateRate float64
}

// Coordinator is the entry point of a reconciliation run.
// It guarantees at most one run per lock, orchestrates the engine, then the updater.
type Coordinator struct {
	engine  *Engine
	updater Updater
	locker  lock.Locker
	logger  *zap.Logger
	cfg     CoordinatorConfig
	limiter *rate.Limiter
	sinks   []ReportSink
	newID   func() string

	mu         sync.RWMutex
	state      State
	stateOwner string
	last       *RunReport

	preview singleflight.Group
}

// NewCoordinator creates a run coordinator.
func NewCoordinator(engine *Engine, updater Updater, locker lock.Locker, logger *zap.Logger, cfg CoordinatorConfig) *Coordinator {
	if cfg.LockName == "" {
		cfg.LockName = DefaultLockName
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = DefaultLockTTL
	}

	var limiter *rate.Limiter
	if cfg.UpdateRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.UpdateRate), 1)
	}

	return &Coordinator{
		engine:  engine,
		updater: updater,
		locker:  locker,
		logger:  logger,
		cfg:     cfg,
		limiter: limiter,
		newID:   uuid.NewString,
		state:   StateIdle,
	}
}

// AddSink registers a receiver for finished run reports.
// Must be called before the first run.
func (c *Coordinator) AddSink(sink ReportSink) {
	c.sinks = append(c.sinks, sink)
}

// State returns the state of the active run, or StateIdle.
func (c *Coordinator) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// LastReport returns the report of the most recent run, or nil.
func (c *Coordinator) LastReport() *RunReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// Run performs a full reconciliation and applies the result.
// A run that finds the lock held is skipped: the report has Skipped set and err is nil.
func (c *Coordinator) Run(ctx context.Context) (*RunReport, error) {
	return c.RunWithOptions(ctx, RunOptions{})
}

// RunWithOptions performs a reconciliation run with the given options.
func (c *Coordinator) RunWithOptions(ctx context.Context, opts RunOptions) (*RunReport, error) {
	report := &RunReport{
		RunID:     c.newID(),
		StartedAt: time.Now(),
		DryRun:    opts.DryRun,
	}
	l := logger.WithRunID(c.logger, report.RunID)

	ctx, span := tracer.Start(ctx, "reconcile.run",
		trace.WithAttributes(
			attribute.String("reconcile.run_id", report.RunID),
			attribute.Bool("reconcile.dry_run", opts.DryRun),
		))
	defer span.End()

	c.enterState(report.RunID, StateAcquiringLock)
	acquired, err := c.locker.TryAcquire(ctx, c.cfg.LockName, report.RunID, c.cfg.LockTTL)
	if err != nil {
		return c.abortAcquire(l, span, report, fmt.Errorf("failed to acquire run lock: %w", err))
	}
	if !acquired {
		report.Skipped = true
		c.leaveState(report.RunID)
		c.finish(ctx, report, outcomeSkipped)
		l.Info("Run skipped, another run holds the lock", zap.String("lock", c.cfg.LockName))
		span.SetAttributes(attribute.Bool("reconcile.skipped", true))
		return report, nil
	}
	defer c.releaseLock(ctx, l, report.RunID)

	l.Info("Run started", zap.Bool("dry_run", opts.DryRun))

	c.claimState(report.RunID, StateDiffing)
	diff, err := c.engine.ReconcileAll(ctx)
	if err != nil {
		return c.fail(ctx, l, span, report, fmt.Errorf("failed to compute diff: %w", err))
	}
	report.Summary = summarize(diff)

	if opts.DryRun {
		c.leaveState(report.RunID)
		c.finish(ctx, report, outcomeDryRun)
		l.Info("Dry run completed", summaryFields(report)...)
		return report, nil
	}

	if opts.LimitDeletes && len(diff.ToDelete) > opts.MaxDeletes {
		return c.fail(ctx, l, span, report, fmt.Errorf("%w: %d pending, %d allowed",
			ErrDeleteLimitExceeded, len(diff.ToDelete), opts.MaxDeletes))
	}

	c.claimState(report.RunID, StateApplying)
	if err := c.apply(ctx, l, diff); err != nil {
		return c.fail(ctx, l, span, report, err)
	}

	recordMutations(report.Summary)
	c.leaveState(report.RunID)
	c.finish(ctx, report, outcomeApplied)
	l.Info("Run completed", summaryFields(report)...)

	return report, nil
}

// Preview computes the current diff without taking the lock or mutating anything.
// Concurrent callers share a single computation.
func (c *Coordinator) Preview(ctx context.Context) (*DiffResult, error) {
	result, err, _ := c.preview.Do("preview", func() (interface{}, error) {
		return c.engine.ReconcileAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*DiffResult), nil
}

// fail ends a run with err. Mutations already applied are left in place;
// the next run re-diffs and converges.
func (c *Coordinator) fail(ctx context.Context, l *zap.Logger, span trace.Span, report *RunReport, err error) (*RunReport, error) {
	report.Error = err.Error()
	span.SetStatus(codes.Error, err.Error())

	c.claimState(report.RunID, StateFailed)
	c.finish(ctx, report, outcomeFailed)
	c.leaveState(report.RunID)

	l.Error("Run failed", zap.Error(err))
	return report, err
}

// abortAcquire ends a run that never held the lock. The state, last report
// and sinks belong to whichever run is active, so none of them is touched.
func (c *Coordinator) abortAcquire(l *zap.Logger, span trace.Span, report *RunReport, err error) (*RunReport, error) {
	report.Error = err.Error()
	report.FinishedAt = time.Now()
	span.SetStatus(codes.Error, err.Error())

	c.leaveState(report.RunID)
	runsTotal.WithLabelValues(outcomeLockError).Inc()

	l.Error("Run aborted, lock unavailable", zap.Error(err))
	return report, err
}

// finish stamps the report, records metrics and hands it to the sinks.
func (c *Coordinator) finish(ctx context.Context, report *RunReport, outcome string) {
	report.FinishedAt = time.Now()
	runsTotal.WithLabelValues(outcome).Inc()
	if outcome != outcomeSkipped {
		runDuration.Observe(report.Duration().Seconds())
	}

	c.mu.Lock()
	c.last = report
	c.mu.Unlock()

	for _, sink := range c.sinks {
		if err := sink.Save(context.WithoutCancel(ctx), report); err != nil {
			c.logger.Warn("Failed to save run report",
				zap.String("run_id", report.RunID),
				zap.Error(err))
		}
	}
}

// releaseLock frees the run lock even if ctx was cancelled.
func (c *Coordinator) releaseLock(ctx context.Context, l *zap.Logger, owner string) {
	if err := c.locker.Release(context.WithoutCancel(ctx), c.cfg.LockName, owner); err != nil {
		// Expected when the lock expired and was taken over mid-run.
		l.Warn("Failed to release run lock", zap.String("lock", c.cfg.LockName), zap.Error(err))
	}
}

// enterState moves an idle coordinator into s on behalf of owner.
func (c *Coordinator) enterState(owner string, s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateIdle {
		c.state = s
		c.stateOwner = owner
	}
}

// claimState sets s for the lock holder, whatever the previous owner.
func (c *Coordinator) claimState(owner string, s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
	c.stateOwner = owner
}

// leaveState returns to idle if owner still owns the state.
func (c *Coordinator) leaveState(owner string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stateOwner == owner {
		c.state = StateIdle
		c.stateOwner = ""
	}
}

func summaryFields(report *RunReport) []zap.Field {
	return []zap.Field{
		zap.Int("added", report.Summary.Added),
		zap.Int("updated", report.Summary.Updated),
		zap.Int("deleted", report.Summary.Deleted),
		zap.Duration("duration", report.Duration()),
	}
}
