// Package scheduler runs the alert check periodically.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"launchintel/internal/alerts"
)

// DefaultInterval is the period between checks when none is configured.
const DefaultInterval = time.Minute

// Checker runs one alert pass.
type Checker interface {
	Check(ctx context.Context) alerts.Summary
}

// Scheduler periodically runs the alert check.
type Scheduler struct {
	checker Checker
	log     *slog.Logger
	tick    time.Duration
}

// New creates a Scheduler. A non-positive interval uses DefaultInterval.
func New(checker Checker, interval time.Duration, log *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		checker: checker,
		log:     log,
		tick:    interval,
	}
}

// SetTickInterval overrides the check interval.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	s.tick = d
}

// Run checks immediately and then on every tick, blocking until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.check(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *Scheduler) check(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	sum := s.checker.Check(ctx)
	s.log.Debug("alert check done",
		"fired", sum.Fired,
		"removed", sum.Removed,
		"saved", sum.Saved,
		"duration", time.Since(start),
	)
}
