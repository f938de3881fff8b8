// Package engine applies window profiles and keeps the result in place. It
// captures each window's state before first touching it, runs the ordered
// mutations a profile asks for, and restores everything on reset.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ultratile/ultratile/internal/platform"
	"github.com/ultratile/ultratile/internal/profile"
	"github.com/ultratile/ultratile/internal/title"
)

// ErrApplyInFlight is returned when an apply or reset is requested while
// another one is still running. Callers may retry once the running
// operation finishes.
var ErrApplyInFlight = errors.New("apply already in progress")

// Step names accepted in a profile's apply_order.
const (
	StepTitlebar = "titlebar"
	StepPosition = "pos"
	StepSize     = "size"
	StepTopmost  = "aot"
)

// defaultOrder is the mutation order used when a profile has no
// apply_order of its own.
var defaultOrder = []string{StepTitlebar, StepPosition, StepSize, StepTopmost}

// stepTable maps a step name to its mutation. Adding a step means adding
// a row here.
var stepTable = map[string]func(*Engine, platform.WindowID, profile.WindowSpec) error{
	StepTitlebar: (*Engine).stepTitlebar,
	StepPosition: (*Engine).stepPosition,
	StepSize:     (*Engine).stepSize,
	StepTopmost:  (*Engine).stepTopmost,
}

// Options holds the engine tunables that come from the daemon config.
type Options struct {
	ApplyDelay    time.Duration // pause between mutation steps
	IgnoredTitles []string      // titles excluded from window listings
	Logger        *slog.Logger
}

// Engine owns the managed-window state for one daemon instance.
type Engine struct {
	backend platform.Backend
	logger  *slog.Logger

	applying atomic.Bool

	mu         sync.Mutex
	applyDelay time.Duration
	ignored    map[string]struct{}
	captured   map[platform.WindowID]CapturedState
	topmost    map[platform.WindowID]struct{}

	watchMu sync.Mutex
	watch   *driftWatch
}

// New creates an engine driving the given backend.
func New(backend platform.Backend, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		backend:  backend,
		logger:   logger,
		captured: make(map[platform.WindowID]CapturedState),
		topmost:  make(map[platform.WindowID]struct{}),
	}
	e.setTunables(opts)
	return e
}

// UpdateOptions swaps the tunables that come from the config file. The
// logger is kept; a running drift watch keeps its interval.
func (e *Engine) UpdateOptions(opts Options) {
	e.setTunables(opts)
}

func (e *Engine) setTunables(opts Options) {
	delay := opts.ApplyDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	ignored := make(map[string]struct{}, len(opts.IgnoredTitles))
	for _, t := range opts.IgnoredTitles {
		n := title.Normalize(t)
		if n == "" {
			continue
		}
		ignored[n] = struct{}{}
	}

	e.mu.Lock()
	e.applyDelay = delay
	e.ignored = ignored
	e.mu.Unlock()
}

// Windows returns the manageable windows, with ignored titles filtered out.
func (e *Engine) Windows() ([]platform.Window, error) {
	wins, err := e.backend.ListWindows()
	if err != nil {
		return nil, fmt.Errorf("failed to list windows: %w", err)
	}

	e.mu.Lock()
	ignored := e.ignored
	e.mu.Unlock()

	kept := make([]platform.Window, 0, len(wins))
	for _, w := range wins {
		if _, skip := ignored[title.Normalize(w.Title)]; skip {
			continue
		}
		kept = append(kept, w)
	}
	return kept, nil
}

// Apply matches the profile against the live windows and runs the ordered
// mutations on every match. Individual failures are recorded on the report
// and logged; the apply keeps going. A second apply while one is running
// returns ErrApplyInFlight.
func (e *Engine) Apply(ctx context.Context, p *profile.Profile) (*ApplyReport, error) {
	if p == nil {
		return nil, errors.New("no profile to apply")
	}
	if !e.applying.CompareAndSwap(false, true) {
		return nil, ErrApplyInFlight
	}
	defer e.applying.Store(false)

	started := time.Now()
	report := &ApplyReport{
		ID:      uuid.NewString(),
		Profile: p.Name,
		Started: started,
	}

	wins, err := e.Windows()
	if err != nil {
		return nil, err
	}

	matches := profile.FindMatches(p, wins)
	report.Missing = matches.Missing

	order := e.stepOrder(p.ApplyOrder)

	for _, m := range matches.Resolved {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		e.applyWindow(ctx, m, order, report)
		report.Applied = append(report.Applied, m.Spec.Name)
	}

	report.Duration = time.Since(started)
	e.logger.Info("profile applied",
		"profile", p.Name,
		"report_id", report.ID,
		"matched", len(matches.Resolved),
		"missing", len(matches.Missing),
		"failed", report.Failed(),
		"duration", report.Duration)
	return report, nil
}

// applyWindow runs the ordered mutations for one resolved spec. The window's
// state is captured before anything touches it; a capture failure skips the
// window entirely.
func (e *Engine) applyWindow(ctx context.Context, m profile.ResolvedSpec, order []string, report *ApplyReport) {
	id := m.Window.ID

	if err := e.captureState(id); err != nil {
		report.record(m.Spec.Name, id, "capture", err)
		e.logger.Warn("failed to capture window state",
			"window", m.Spec.Name, "window_id", id, "error", err)
		return
	}

	if err := e.backend.Raise(id); err != nil {
		report.record(m.Spec.Name, id, "raise", err)
		e.logger.Warn("failed to raise window",
			"window", m.Spec.Name, "window_id", id, "error", err)
	}

	e.mu.Lock()
	delay := e.applyDelay
	e.mu.Unlock()

	for _, step := range order {
		err := stepTable[step](e, id, m.Spec)
		report.record(m.Spec.Name, id, step, err)
		if err != nil {
			e.logger.Warn("mutation failed",
				"step", step, "window", m.Spec.Name, "window_id", id, "error", err)
		}
		if err := sleep(ctx, delay); err != nil {
			return
		}
	}

	if m.Spec.ProcessPriority && m.Window.PID > 0 {
		if err := e.backend.BoostPriority(m.Window.PID); err != nil {
			report.record(m.Spec.Name, id, "priority", err)
			e.logger.Warn("failed to boost process priority",
				"window", m.Spec.Name, "pid", m.Window.PID, "error", err)
		}
	}
}

// stepOrder validates a profile's apply_order. Unknown step names are
// dropped with a warning; steps left out simply don't run. An absent
// override falls back to the default order.
func (e *Engine) stepOrder(override []string) []string {
	if len(override) == 0 {
		return defaultOrder
	}

	order := make([]string, 0, len(override))
	for _, step := range override {
		name := strings.ToLower(strings.TrimSpace(step))
		if _, ok := stepTable[name]; !ok {
			e.logger.Warn("skipping unknown apply step", "step", step)
			continue
		}
		order = append(order, name)
	}
	return order
}

func (e *Engine) stepTitlebar(id platform.WindowID, spec profile.WindowSpec) error {
	return e.backend.SetTitlebar(id, spec.Titlebar)
}

func (e *Engine) stepPosition(id platform.WindowID, spec profile.WindowSpec) error {
	return e.backend.Move(id, spec.X, spec.Y)
}

func (e *Engine) stepSize(id platform.WindowID, spec profile.WindowSpec) error {
	return e.backend.Resize(id, spec.Width, spec.Height)
}

func (e *Engine) stepTopmost(id platform.WindowID, spec profile.WindowSpec) error {
	if err := e.backend.SetTopmost(id, spec.AlwaysOnTop); err != nil {
		return err
	}
	e.trackTopmost(id, spec.AlwaysOnTop)
	return nil
}

// Reset restores every window matched by the profile to its captured state
// and stops managing it. Windows the engine never touched are left alone.
func (e *Engine) Reset(ctx context.Context, p *profile.Profile) error {
	if p == nil {
		return errors.New("no profile to reset")
	}
	if !e.applying.CompareAndSwap(false, true) {
		return ErrApplyInFlight
	}
	defer e.applying.Store(false)

	wins, err := e.Windows()
	if err != nil {
		return err
	}

	for _, m := range profile.FindMatches(p, wins).Resolved {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.restoreWindow(m.Window.ID); err != nil {
			e.logger.Warn("failed to restore window",
				"window", m.Spec.Name, "window_id", m.Window.ID, "error", err)
		}
	}
	return nil
}

// ResetAll restores every managed window.
func (e *Engine) ResetAll(ctx context.Context) error {
	if !e.applying.CompareAndSwap(false, true) {
		return ErrApplyInFlight
	}
	defer e.applying.Store(false)

	// Iterate over a copy: restoreWindow shrinks the managed set.
	e.mu.Lock()
	ids := make([]platform.WindowID, 0, len(e.captured))
	for id := range e.captured {
		ids = append(ids, id)
	}
	e.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.restoreWindow(id); err != nil {
			e.logger.Warn("failed to restore window", "window_id", id, "error", err)
		}
	}
	return nil
}

// ManagedCount reports how many windows the engine holds captured state for.
func (e *Engine) ManagedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.captured)
}

// sleep pauses between mutation steps, returning early when the context is
// cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
