package x11

import (
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowGeometry returns a window's position relative to the root window and
// its current size. GetGeometry alone reports coordinates relative to the
// window's parent (the WM frame), so the position is translated to root space.
func (c *Connection) WindowGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get window geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate window coordinates: %w", err)
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// MoveResizeWindow moves and resizes a window to the specified geometry.
// A maximized window ignores configure requests, so the maximized state is
// cleared first.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	c.unmaximizeWindow(windowID)

	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Some WMs don't honor _NET_MOVERESIZE_WINDOW; configure directly.
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// MoveWindow repositions a window while keeping its current size.
func (c *Connection) MoveWindow(windowID xproto.Window, x, y int) error {
	_, _, width, height, err := c.WindowGeometry(windowID)
	if err != nil {
		return err
	}
	return c.MoveResizeWindow(windowID, x, y, width, height)
}

// ResizeWindow resizes a window while keeping its current position.
func (c *Connection) ResizeWindow(windowID xproto.Window, width, height int) error {
	x, y, _, _, err := c.WindowGeometry(windowID)
	if err != nil {
		return err
	}
	return c.MoveResizeWindow(windowID, x, y, width, height)
}

// unmaximizeWindow drops the maximized states a window currently holds.
func (c *Connection) unmaximizeWindow(windowID xproto.Window) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return
	}
	for _, state := range []string{"_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT"} {
		if slices.Contains(states, state) {
			ewmh.WmStateReq(c.XUtil, windowID, 0, state)
		}
	}
}

// IsNormalWindow reports whether a window is a regular application window.
// Desktops, docks, splash screens and notifications are filtered out.
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// Type unknown; treat as normal.
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	// Windows that set no type at all count as normal.
	return len(types) == 0
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}
