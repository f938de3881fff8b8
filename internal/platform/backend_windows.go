//go:build windows

package platform

import (
	"fmt"
	"path/filepath"
	"sort"

	"golang.org/x/sys/windows"

	"github.com/ultratile/ultratile/internal/winapi"
)

// WindowsBackend implements Backend on top of user32.
type WindowsBackend struct{}

var _ Backend = (*WindowsBackend)(nil)

// NewBackend returns the Win32 backend. There is no connection to open;
// user32 procs resolve lazily on first use.
func NewBackend() (Backend, error) {
	return &WindowsBackend{}, nil
}

// Disconnect is a no-op on Windows.
func (b *WindowsBackend) Disconnect() {}

// Displays returns all monitors, primary first, with taskbar-free work areas.
func (b *WindowsBackend) Displays() ([]Display, error) {
	monitors := winapi.Monitors()
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}

	displays := make([]Display, 0, len(monitors))
	for i, m := range monitors {
		displays = append(displays, Display{
			ID:     i,
			Name:   m.Name,
			Bounds: Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
			Usable: Rect{X: m.WorkX, Y: m.WorkY, Width: m.WorkW, Height: m.WorkH},
		})
	}
	return displays, nil
}

// ActiveWindow returns the foreground window.
func (b *WindowsBackend) ActiveWindow() (WindowID, error) {
	hwnd := winapi.ForegroundWindow()
	if hwnd == 0 {
		return 0, fmt.Errorf("no foreground window")
	}
	return WindowID(hwnd), nil
}

// ListWindows enumerates visible titled top-level windows.
func (b *WindowsBackend) ListWindows() ([]Window, error) {
	var wins []Window
	winapi.EnumTopLevelWindows(func(hwnd windows.Handle) bool {
		if !winapi.IsWindowVisible(hwnd) {
			return true
		}
		title := winapi.WindowText(hwnd)
		if title == "" {
			return true
		}

		x, y, w, h, err := winapi.WindowRect(hwnd)
		if err != nil {
			return true
		}

		pid := winapi.WindowPID(hwnd)
		wins = append(wins, Window{
			ID:      WindowID(hwnd),
			PID:     int(pid),
			Process: processName(pid),
			Title:   title,
			Bounds:  Rect{X: x, Y: y, Width: w, Height: h},
		})
		return true
	})

	sort.Slice(wins, func(i, j int) bool {
		return wins[i].ID < wins[j].ID
	})

	return wins, nil
}

// Geometry returns the window's outer frame rectangle.
func (b *WindowsBackend) Geometry(id WindowID) (Rect, error) {
	x, y, w, h, err := winapi.WindowRect(handle(id))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// Move repositions a window without resizing or restacking it.
func (b *WindowsBackend) Move(id WindowID, x, y int) error {
	return winapi.SetWindowPos(handle(id), 0, x, y, 0, 0,
		winapi.SWPNoSize|winapi.SWPNoZOrder)
}

// Resize changes a window's size without moving or restacking it.
func (b *WindowsBackend) Resize(id WindowID, width, height int) error {
	return winapi.SetWindowPos(handle(id), 0, 0, 0, width, height,
		winapi.SWPNoMove|winapi.SWPNoZOrder)
}

// Style reads the raw style words and decodes the frame and topmost bits.
func (b *WindowsBackend) Style(id WindowID) (Style, error) {
	style := winapi.WindowStyle(handle(id))
	exStyle := winapi.WindowExStyle(handle(id))
	return Style{
		Titlebar: style&winapi.WSCaption != 0,
		Topmost:  exStyle&winapi.WSExTopmost != 0,
		Native:   uint64(style),
		NativeEx: uint64(exStyle),
	}, nil
}

// SetTitlebar adds or removes the whole frame bit set (caption, border,
// sizing frame) and forces a frame redraw. Restoring the frame also shows
// the window in case the frame change hid it.
func (b *WindowsBackend) SetTitlebar(id WindowID, on bool) error {
	style := winapi.WindowStyle(handle(id))
	redraw := uint32(winapi.SWPNoMove | winapi.SWPNoSize | winapi.SWPNoZOrder | winapi.SWPFrameChanged)
	if on {
		style |= winapi.WSFrameBits
		redraw |= winapi.SWPShowWindow
	} else {
		style &^= winapi.WSFrameBits
	}
	if err := winapi.SetWindowStyle(handle(id), style); err != nil {
		return err
	}
	return winapi.SetWindowPos(handle(id), 0, 0, 0, 0, 0, redraw)
}

// SetTopmost moves the window in or out of the topmost band without
// reordering its owned windows.
func (b *WindowsBackend) SetTopmost(id WindowID, on bool) error {
	insertAfter := winapi.HWNDNoTopmost
	if on {
		insertAfter = winapi.HWNDTopmost
	}
	return winapi.SetWindowPos(handle(id), insertAfter, 0, 0, 0, 0,
		winapi.SWPNoMove|winapi.SWPNoSize|winapi.SWPNoOwnerZOrder)
}

// RestoreStyle writes back both captured style words, redraws the frame and
// puts the window back in its original z-order band.
func (b *WindowsBackend) RestoreStyle(id WindowID, st Style) error {
	if err := winapi.SetWindowStyle(handle(id), uint32(st.Native)); err != nil {
		return err
	}
	if err := winapi.SetWindowExStyle(handle(id), uint32(st.NativeEx)); err != nil {
		return err
	}
	if err := frameChanged(id); err != nil {
		return err
	}
	return b.SetTopmost(id, st.Topmost)
}

// Raise restores the window if minimized and pulses it through the topmost
// band, which brings it to the front without leaving it pinned.
func (b *WindowsBackend) Raise(id WindowID) error {
	winapi.ShowWindow(handle(id), winapi.SWRestore)
	if err := winapi.SetWindowPos(handle(id), winapi.HWNDTopmost, 0, 0, 0, 0,
		winapi.SWPNoMove|winapi.SWPNoSize); err != nil {
		return err
	}
	return winapi.SetWindowPos(handle(id), winapi.HWNDNoTopmost, 0, 0, 0, 0,
		winapi.SWPNoMove|winapi.SWPNoSize)
}

// BoostPriority moves the owning process to the above-normal priority class.
func (b *WindowsBackend) BoostPriority(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}
	return winapi.BoostProcessPriority(uint32(pid))
}

func frameChanged(id WindowID) error {
	return winapi.SetWindowPos(handle(id), 0, 0, 0, 0, 0,
		winapi.SWPNoMove|winapi.SWPNoSize|winapi.SWPNoZOrder|winapi.SWPFrameChanged|winapi.SWPNoActivate)
}

func handle(id WindowID) windows.Handle {
	return windows.Handle(id)
}

func processName(pid uint32) string {
	path := winapi.ProcessImagePath(pid)
	if path == "" {
		return ""
	}
	name := filepath.Base(path)
	if name == "." {
		return ""
	}
	return name
}
