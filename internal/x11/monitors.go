package x11

import (
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// GetMonitors enumerates the active displays through XRandR. CRTCs that are
// disabled or have no outputs are skipped.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	res, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		mon := Monitor{
			ID:     i,
			Name:   fmt.Sprintf("Monitor%d", i),
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		}
		if out, err := randr.GetOutputInfo(conn, info.Outputs[0], res.ConfigTimestamp).Reply(); err == nil {
			mon.Name = string(out.Name)
		}
		monitors = append(monitors, mon)
	}

	return monitors, nil
}

// UsableArea returns the monitor geometry adjusted to respect the work area
// (excluding panels, docks, etc.). Dock struts take precedence; when no dock
// publishes struts the EWMH work area is intersected instead.
func (c *Connection) UsableArea(m Monitor) Monitor {
	usable := m
	if applyDockStruts(c, &usable) {
		return usable
	}

	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return usable
	}

	desktopIndex := 0
	if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if i := int(cur); i >= 0 && i < len(workArea) {
			desktopIndex = i
		}
	}

	wa := workArea[desktopIndex]
	x, y, w, h := clip(usable.X, usable.Y, usable.X+usable.Width, usable.Y+usable.Height,
		int(wa.X), int(wa.Y), int(wa.X)+int(wa.Width), int(wa.Y)+int(wa.Height))
	if w > 0 && h > 0 {
		usable.X, usable.Y, usable.Width, usable.Height = x, y, w, h
	}
	return usable
}

type dockStruts struct {
	left   int
	right  int
	top    int
	bottom int
}

func (s dockStruts) empty() bool {
	return s.left == 0 && s.right == 0 && s.top == 0 && s.bottom == 0
}

// applyDockStruts shrinks the monitor by the struts of every dock window
// overlapping it. Returns false when no dock published struts, letting the
// caller fall back to the EWMH work area.
func applyDockStruts(c *Connection, monitor *Monitor) bool {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return false
	}
	rootW := int(rootGeom.Width)
	rootH := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return false
	}

	var struts dockStruts
	for _, win := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
		if err != nil || !slices.Contains(types, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}

		sp, err := ewmh.WmStrutPartialGet(c.XUtil, win)
		if err != nil {
			// Older docks only set _NET_WM_STRUT; widen it to full edge ranges.
			s, serr := ewmh.WmStrutGet(c.XUtil, win)
			if serr != nil {
				continue
			}
			sp = &ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftStartY: 0, LeftEndY: uint(rootH - 1),
				RightStartY: 0, RightEndY: uint(rootH - 1),
				TopStartX: 0, TopEndX: uint(rootW - 1),
				BottomStartX: 0, BottomEndX: uint(rootW - 1),
			}
		}
		accumulateStruts(monitor, rootW, rootH, sp, &struts)
	}

	if struts.empty() {
		return false
	}

	monitor.X += struts.left
	monitor.Y += struts.top
	monitor.Width -= struts.left + struts.right
	monitor.Height -= struts.top + struts.bottom
	if monitor.Width < 1 {
		monitor.Width = 1
	}
	if monitor.Height < 1 {
		monitor.Height = 1
	}
	return true
}

// accumulateStruts raises acc per edge to the deepest strut of sp that
// actually overlaps the monitor. Strut end coordinates are inclusive.
func accumulateStruts(mon *Monitor, rootW, rootH int, sp *ewmh.WmStrutPartial, acc *dockStruts) {
	monX2 := mon.X + mon.Width
	monY2 := mon.Y + mon.Height
	edgeDepth := func(x1, y1, x2, y2 int, useHeight bool) int {
		_, _, w, h := clip(mon.X, mon.Y, monX2, monY2, x1, y1, x2, y2)
		if w <= 0 || h <= 0 {
			return 0
		}
		if useHeight {
			return h
		}
		return w
	}

	if sp.Top > 0 {
		acc.top = max(acc.top, edgeDepth(int(sp.TopStartX), 0, int(sp.TopEndX)+1, int(sp.Top), true))
	}
	if sp.Bottom > 0 {
		acc.bottom = max(acc.bottom, edgeDepth(int(sp.BottomStartX), rootH-int(sp.Bottom), int(sp.BottomEndX)+1, rootH, true))
	}
	if sp.Left > 0 {
		acc.left = max(acc.left, edgeDepth(0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY)+1, false))
	}
	if sp.Right > 0 {
		acc.right = max(acc.right, edgeDepth(rootW-int(sp.Right), int(sp.RightStartY), rootW, int(sp.RightEndY)+1, false))
	}
}

// clip returns the intersection of two rectangles given as corner pairs.
// A non-positive width or height means they do not overlap.
func clip(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) (x, y, w, h int) {
	x = max(ax1, bx1)
	y = max(ay1, by1)
	w = min(ax2, bx2) - x
	h = min(ay2, by2) - y
	return x, y, w, h
}
