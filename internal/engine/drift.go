package engine

import (
	"context"
	"errors"
	"time"

	"github.com/ultratile/ultratile/internal/profile"
)

// defaultPollInterval is the drift poll rate when the config supplies none.
const defaultPollInterval = 500 * time.Millisecond

type driftWatch struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartDriftWatch polls the profile's windows at the given interval and
// re-applies the whole profile when any of them is out of place. An active
// watch is stopped first. A zero interval uses the default.
func (e *Engine) StartDriftWatch(p *profile.Profile, interval time.Duration) error {
	if p == nil {
		return errors.New("no profile to watch")
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}

	e.StopDriftWatch()

	ctx, cancel := context.WithCancel(context.Background())
	w := &driftWatch{cancel: cancel, done: make(chan struct{})}

	e.watchMu.Lock()
	e.watch = w
	e.watchMu.Unlock()

	go e.runDriftWatch(ctx, p, interval, w.done)
	return nil
}

// StopDriftWatch stops the active watch and waits for its loop to exit.
// Stopping an idle engine is a no-op.
func (e *Engine) StopDriftWatch() {
	e.watchMu.Lock()
	w := e.watch
	e.watch = nil
	e.watchMu.Unlock()

	if w == nil {
		return
	}
	w.cancel()
	<-w.done
}

// Watching reports whether a drift watch is active.
func (e *Engine) Watching() bool {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()
	return e.watch != nil
}

func (e *Engine) runDriftWatch(ctx context.Context, p *profile.Profile, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.logger.Info("drift watch started", "profile", p.Name, "interval", interval)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("drift watch stopped", "profile", p.Name)
			return
		case <-ticker.C:
			e.driftPass(ctx, p)
		}
	}
}

// driftPass performs a single comparison pass.
func (e *Engine) driftPass(ctx context.Context, p *profile.Profile) {
	// Recover from panics so a backend failure cannot kill the watcher.
	defer func() {
		if err := recover(); err != nil {
			e.logger.Error("drift watch panic recovered", "error", err)
		}
	}()

	// An apply is rearranging windows right now; comparing against a
	// half-applied state would always look like drift.
	if e.applying.Load() {
		return
	}

	drifted, err := e.CheckDrift(p)
	if err != nil {
		e.logger.Error("drift watch: failed to compare windows", "error", err)
		return
	}
	if !drifted {
		return
	}

	e.logger.Info("drift detected, re-applying profile", "profile", p.Name)
	if _, err := e.Apply(ctx, p); err != nil {
		if errors.Is(err, ErrApplyInFlight) {
			return
		}
		e.logger.Error("drift watch: failed to re-apply profile", "error", err)
	}
}

// CheckDrift reports whether any window matched by the profile is out of
// place: position or size off by any amount, or a pin or titlebar bit
// flipped. Missing windows are not drift.
func (e *Engine) CheckDrift(p *profile.Profile) (bool, error) {
	wins, err := e.Windows()
	if err != nil {
		return false, err
	}

	for _, m := range profile.FindMatches(p, wins).Resolved {
		spec, w := m.Spec, m.Window
		if w.Bounds.X != spec.X || w.Bounds.Y != spec.Y {
			return true, nil
		}
		if w.Bounds.Width != spec.Width || w.Bounds.Height != spec.Height {
			return true, nil
		}

		st, err := e.backend.Style(w.ID)
		if err != nil {
			// The window likely closed between the listing and now.
			continue
		}
		if st.Topmost != spec.AlwaysOnTop || st.Titlebar != spec.Titlebar {
			return true, nil
		}
	}
	return false, nil
}
