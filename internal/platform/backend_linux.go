//go:build linux

package platform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/shirou/gopsutil/v4/process"
	"golang.org/x/sys/unix"

	"github.com/ultratile/ultratile/internal/x11"
)

// aboveNormalNice mirrors the above-normal priority class: a modest bump,
// not realtime. Negative nice values need CAP_SYS_NICE; the error surfaces
// in the apply report when the capability is missing.
const aboveNormalNice = -5

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend wraps an already-open X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewBackend opens a fresh X11 connection and wraps it.
func NewBackend() (Backend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the X server connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop blocks processing X events; hotkey callbacks fire from here.
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// XUtil exposes the raw xgbutil handle for callers that register X hooks.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the root window of the default screen.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns all active displays with their usable work areas.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		usable := conn.UsableArea(m)
		displays = append(displays, Display{
			ID:     m.ID,
			Name:   m.Name,
			Bounds: Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
			Usable: Rect{X: usable.X, Y: usable.Y, Width: usable.Width, Height: usable.Height},
		})
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// ActiveWindow returns the currently focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(wid), nil
}

// ListWindows lists normal application windows on the current desktop.
// Hidden (minimized) windows are skipped; fullscreen windows are kept since
// they are exactly the windows worth managing.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := ewmh.ClientListGet(conn.XUtil)
	if err != nil {
		return nil, err
	}

	onVisibleDesktop := func(xproto.Window) bool { return true }
	if cur, err := ewmh.CurrentDesktopGet(conn.XUtil); err == nil {
		onVisibleDesktop = func(w xproto.Window) bool {
			d, err := ewmh.WmDesktopGet(conn.XUtil, w)
			// Sticky windows (0xFFFFFFFF) live on every desktop.
			return err != nil || d == 0xFFFFFFFF || d == cur
		}
	}

	windows := make([]Window, 0, len(clients))
	for _, windowID := range clients {
		if !conn.IsNormalWindow(windowID) {
			continue
		}
		if !onVisibleDesktop(windowID) {
			continue
		}
		if b.isHidden(windowID) {
			continue
		}

		x, y, w, h, err := conn.WindowGeometry(windowID)
		if err != nil {
			continue
		}

		pid := 0
		if p, err := ewmh.WmPidGet(conn.XUtil, windowID); err == nil {
			pid = int(p)
		}

		windows = append(windows, Window{
			ID:      WindowID(windowID),
			PID:     pid,
			Process: b.processName(windowID, pid),
			Title:   b.windowTitle(windowID),
			Bounds:  Rect{X: x, Y: y, Width: w, Height: h},
		})
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ID < windows[j].ID
	})

	return windows, nil
}

// Geometry returns the window's current position and size.
func (b *LinuxBackend) Geometry(id WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}

	x, y, w, h, err := conn.WindowGeometry(xproto.Window(id))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// Move repositions a window without resizing it.
func (b *LinuxBackend) Move(id WindowID, x, y int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveWindow(xproto.Window(id), x, y)
}

// Resize changes a window's size without moving it.
func (b *LinuxBackend) Resize(id WindowID, width, height int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ResizeWindow(xproto.Window(id), width, height)
}

// Style reads the frame and topmost state of a window. Native carries the
// raw Motif decorations word so RestoreStyle can write back the exact value.
func (b *LinuxBackend) Style(id WindowID) (Style, error) {
	conn, err := b.connection()
	if err != nil {
		return Style{}, err
	}

	word, _, err := conn.DecorationsWord(xproto.Window(id))
	if err != nil {
		return Style{}, err
	}

	above, err := conn.AboveState(xproto.Window(id))
	if err != nil {
		return Style{}, err
	}

	st := Style{
		Titlebar: word != 0,
		Topmost:  above,
		Native:   uint64(word),
	}
	if above {
		st.NativeEx = 1
	}
	return st, nil
}

// SetTitlebar toggles the window frame via Motif WM hints.
func (b *LinuxBackend) SetTitlebar(id WindowID, on bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetDecorated(xproto.Window(id), on)
}

// SetTopmost moves the window in or out of the above layer.
func (b *LinuxBackend) SetTopmost(id WindowID, on bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetAboveState(xproto.Window(id), on)
}

// RestoreStyle writes back a previously captured style word for word.
func (b *LinuxBackend) RestoreStyle(id WindowID, st Style) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	if err := conn.SetDecorationsWord(xproto.Window(id), uint(st.Native)); err != nil {
		return err
	}
	return conn.SetAboveState(xproto.Window(id), st.Topmost)
}

// Raise activates the window without pinning it.
func (b *LinuxBackend) Raise(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.RaiseWindow(xproto.Window(id))
}

// BoostPriority renices the owning process to above-normal scheduling.
func (b *LinuxBackend) BoostPriority(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}
	if err := unix.Setpriority(unix.PRIO_PROCESS, pid, aboveNormalNice); err != nil {
		return fmt.Errorf("failed to renice pid %d: %w", pid, err)
	}
	return nil
}

func (b *LinuxBackend) isHidden(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(b.conn.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

// processName resolves the process name for a window, preferring the PID
// from _NET_WM_PID and falling back to the WM_CLASS class name.
func (b *LinuxBackend) processName(windowID xproto.Window, pid int) string {
	if pid > 0 {
		if p, err := process.NewProcess(int32(pid)); err == nil {
			if name, err := p.Name(); err == nil && name != "" {
				return name
			}
		}
	}

	wmClass, err := icccm.WmClassGet(b.conn.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// windowTitle prefers the UTF-8 EWMH name and falls back to the legacy
// ICCCM one.
func (b *LinuxBackend) windowTitle(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(b.conn.XUtil, windowID); err == nil {
		if t := strings.TrimSpace(title); t != "" {
			return t
		}
	}
	if title, err := icccm.WmNameGet(b.conn.XUtil, windowID); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}
