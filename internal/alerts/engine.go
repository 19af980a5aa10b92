// Package alerts sends time-to-launch notifications, at most once per launch
// and window, and remembers what it sent across runs.
package alerts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"launchintel/internal/model"
	"launchintel/internal/notify"
)

// DefaultCleanupTTL is how long state is kept for a launch after its NET.
const DefaultCleanupTTL = 48 * time.Hour

// LaunchSource supplies the launches to evaluate.
type LaunchSource interface {
	Upcoming(ctx context.Context) []model.Launch
}

// StateStore persists the per-launch, per-window sent flags.
type StateStore interface {
	Load(ctx context.Context) (model.AlertState, error)
	Save(ctx context.Context, state model.AlertState) error
}

// Options configures an Engine.
type Options struct {
	Windows    []model.AlertWindow
	ChannelID  string
	CleanupTTL time.Duration
	// Sender is optional; without it alerts are only written to Out.
	Sender notify.Sender
	Out    io.Writer
}

// Engine evaluates alert windows against upcoming launches.
type Engine struct {
	launches LaunchSource
	store    StateStore
	opts     Options
	log      *slog.Logger
	now      func() time.Time
}

// Summary reports what a check did.
type Summary struct {
	Fired   int
	Removed int
	Saved   bool
}

// New creates an Engine.
func New(launches LaunchSource, store StateStore, opts Options, log *slog.Logger) *Engine {
	if opts.CleanupTTL <= 0 {
		opts.CleanupTTL = DefaultCleanupTTL
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Engine{
		launches: launches,
		store:    store,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// SetClock overrides the engine clock.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// LaunchID identifies a launch in the alert state. It is derived from the
// name and NET, so a renamed or rescheduled launch is a new launch.
func LaunchID(l model.Launch) string {
	if l.NET == nil {
		return l.Name + "-"
	}
	return l.Name + "-" + *l.NET
}

// Check fires every due alert, sweeps expired state and persists the state
// if anything changed. Failures are logged; Check never returns an error.
func (e *Engine) Check(ctx context.Context) Summary {
	var sum Summary

	launches := e.launches.Upcoming(ctx)

	state, err := e.store.Load(ctx)
	if err != nil {
		// Sending without knowing what was sent risks duplicates.
		e.log.Error("load alert state, skipping check", "error", err)
		return sum
	}
	if state == nil {
		state = model.AlertState{}
	}

	now := e.now()
	for _, l := range launches {
		netTime, ok := l.NETTime()
		if !ok {
			continue
		}
		until := netTime.Sub(now)

		id := LaunchID(l)
		flags, exists := state[id]
		if !exists {
			flags = map[string]bool{}
			state[id] = flags
		}

		for _, w := range e.opts.Windows {
			if flags[w.Key] || !w.Contains(until) {
				continue
			}
			e.deliver(ctx, Message(w, l))
			flags[w.Key] = true
			sum.Fired++
			e.log.Info("alert fired", "launch", id, "window", w.Key)
		}
	}

	sum.Removed = sweep(state, now, e.opts.CleanupTTL)

	if sum.Fired == 0 && sum.Removed == 0 {
		return sum
	}
	if err := e.store.Save(ctx, state); err != nil {
		e.log.Error("save alert state", "error", err)
		return sum
	}
	sum.Saved = true
	e.log.Info("alert state updated", "fired", sum.Fired, "removed", sum.Removed)
	return sum
}

func (e *Engine) deliver(ctx context.Context, msg string) {
	if _, err := fmt.Fprintln(e.opts.Out, msg); err != nil {
		e.log.Warn("print alert", "error", err)
	}
	if e.opts.ChannelID == "" || e.opts.Sender == nil {
		return
	}
	if err := e.opts.Sender.Send(ctx, msg, e.opts.ChannelID); err != nil {
		e.log.Warn("deliver alert, message was still printed", "channel", e.opts.ChannelID, "error", err)
		return
	}
	e.log.Info("alert delivered", "channel", e.opts.ChannelID)
}

// Message renders the alert text for a launch entering a window.
func Message(w model.AlertWindow, l model.Launch) string {
	detail := "📺 Watch live!"
	if !w.IsWatchLive() {
		net := ""
		if l.NET != nil {
			net = *l.NET
		}
		detail = fmt.Sprintf("📍 %s\n⏰ %s", l.Location, net)
	}
	return fmt.Sprintf("%s **%s:** %s\n%s", w.Emoji, w.Label, l.Name, detail)
}

// sweep deletes entries whose launch is more than ttl in the past and
// returns how many were removed. Entries without a parseable date are kept.
func sweep(state model.AlertState, now time.Time, ttl time.Duration) int {
	removed := 0
	for id := range state {
		t, ok := idTime(id)
		if !ok {
			continue
		}
		if now.Sub(t) > ttl {
			delete(state, id)
			removed++
		}
	}
	return removed
}

// idTime extracts the NET embedded at the end of a launch ID. Both names and
// timestamps contain '-', so every separator is tried from the right until the
// remaining suffix parses.
func idTime(id string) (time.Time, bool) {
	for i := strings.LastIndexByte(id, '-'); i >= 0; i = strings.LastIndexByte(id[:i], '-') {
		if t, err := time.Parse(time.RFC3339, id[i+1:]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
