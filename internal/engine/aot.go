package engine

import (
	"fmt"
	"sort"

	"github.com/ultratile/ultratile/internal/platform"
)

// ToggleAOT flips a window's always-on-top state outside any profile and
// tracks the result so status queries and later toggles see it.
func (e *Engine) ToggleAOT(id platform.WindowID) (bool, error) {
	st, err := e.backend.Style(id)
	if err != nil {
		return false, fmt.Errorf("failed to read window style: %w", err)
	}

	pinned := !st.Topmost
	if err := e.backend.SetTopmost(id, pinned); err != nil {
		return false, fmt.Errorf("failed to set always-on-top: %w", err)
	}
	e.trackTopmost(id, pinned)
	return pinned, nil
}

// ToggleTracked flips the live pin state of every tracked window. The
// tracking set is left alone so the next toggle flips them back.
func (e *Engine) ToggleTracked() int {
	flipped := 0
	for _, id := range e.trackedIDs() {
		st, err := e.backend.Style(id)
		if err != nil {
			e.logger.Warn("failed to read window style", "window_id", id, "error", err)
			continue
		}
		if err := e.backend.SetTopmost(id, !st.Topmost); err != nil {
			e.logger.Warn("failed to flip always-on-top", "window_id", id, "error", err)
			continue
		}
		flipped++
	}
	return flipped
}

// AOTStatus summarizes the tracked always-on-top windows, counting only
// the ones whose live state is still pinned.
func (e *Engine) AOTStatus() string {
	ids := e.trackedIDs()
	if len(ids) == 0 {
		return "AOT: None"
	}

	count := 0
	for _, id := range ids {
		st, err := e.backend.Style(id)
		if err != nil {
			continue
		}
		if st.Topmost {
			count++
		}
	}
	if count == 0 {
		return "AOT: None"
	}

	plural := ""
	if count > 1 {
		plural = "s"
	}
	return fmt.Sprintf("AOT: %d window%s", count, plural)
}

func (e *Engine) trackTopmost(id platform.WindowID, pinned bool) {
	e.mu.Lock()
	if pinned {
		e.topmost[id] = struct{}{}
	} else {
		delete(e.topmost, id)
	}
	e.mu.Unlock()
}

func (e *Engine) trackedIDs() []platform.WindowID {
	e.mu.Lock()
	ids := make([]platform.WindowID, 0, len(e.topmost))
	for id := range e.topmost {
		ids = append(ids, id)
	}
	e.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
