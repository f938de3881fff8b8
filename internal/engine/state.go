package engine

import (
	"fmt"

	"github.com/ultratile/ultratile/internal/platform"
)

// CapturedState is the geometry and style a window had before the engine
// first touched it.
type CapturedState struct {
	Bounds platform.Rect
	Style  platform.Style
}

// captureState records a window's state the first time the engine touches
// it. Later calls are no-ops until the capture is released, so a reset
// always restores the state from before the FIRST apply.
func (e *Engine) captureState(id platform.WindowID) error {
	e.mu.Lock()
	_, ok := e.captured[id]
	e.mu.Unlock()
	if ok {
		return nil
	}

	bounds, err := e.backend.Geometry(id)
	if err != nil {
		return fmt.Errorf("failed to read window geometry: %w", err)
	}
	style, err := e.backend.Style(id)
	if err != nil {
		return fmt.Errorf("failed to read window style: %w", err)
	}

	e.mu.Lock()
	if _, ok := e.captured[id]; !ok {
		e.captured[id] = CapturedState{Bounds: bounds, Style: style}
	}
	e.mu.Unlock()
	return nil
}

// CapturedFor returns the state held for a window, if any.
func (e *Engine) CapturedFor(id platform.WindowID) (CapturedState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.captured[id]
	return st, ok
}

// restoreWindow puts a managed window back the way it was found: pin
// cleared first, frame back on, then the captured geometry and style words.
// The capture is released even when a call fails; the first failure is
// returned.
func (e *Engine) restoreWindow(id platform.WindowID) error {
	e.mu.Lock()
	st, ok := e.captured[id]
	e.mu.Unlock()
	if !ok {
		return nil
	}

	var firstErr error
	if err := e.backend.SetTopmost(id, false); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := e.backend.SetTitlebar(id, true); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := e.backend.Move(id, st.Bounds.X, st.Bounds.Y); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := e.backend.Resize(id, st.Bounds.Width, st.Bounds.Height); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := e.backend.RestoreStyle(id, st.Style); err != nil && firstErr == nil {
		firstErr = err
	}

	e.releaseState(id)
	return firstErr
}

// releaseState drops the captured state and pin tracking for a window.
func (e *Engine) releaseState(id platform.WindowID) {
	e.mu.Lock()
	delete(e.captured, id)
	delete(e.topmost, id)
	e.mu.Unlock()
}
