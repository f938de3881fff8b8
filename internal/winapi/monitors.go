//go:build windows

package winapi

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
)

const monitorInfoFPrimary = 0x0001

// monitorInfoEx mirrors MONITORINFOEXW; SzDevice is CCHDEVICENAME wide chars.
type monitorInfoEx struct {
	CbSize    uint32
	RcMonitor rect
	RcWork    rect
	DwFlags   uint32
	SzDevice  [32]uint16
}

// Monitor describes one display: full bounds plus the work area that
// excludes the taskbar and any docked app bars.
type Monitor struct {
	Name    string
	Primary bool
	X       int
	Y       int
	Width   int
	Height  int
	WorkX   int
	WorkY   int
	WorkW   int
	WorkH   int
}

// Monitors enumerates all displays. The primary monitor sorts first so
// callers can treat index zero as the main screen.
func Monitors() []Monitor {
	var monitors []Monitor
	cb := syscall.NewCallback(func(hMonitor, hdc, lprcClip, lparam uintptr) uintptr {
		var mi monitorInfoEx
		mi.CbSize = uint32(unsafe.Sizeof(mi))
		ret, _, _ := procGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&mi)))
		if ret != 0 {
			monitors = append(monitors, Monitor{
				Name:    windows.UTF16ToString(mi.SzDevice[:]),
				Primary: mi.DwFlags&monitorInfoFPrimary != 0,
				X:       int(mi.RcMonitor.Left),
				Y:       int(mi.RcMonitor.Top),
				Width:   int(mi.RcMonitor.Right - mi.RcMonitor.Left),
				Height:  int(mi.RcMonitor.Bottom - mi.RcMonitor.Top),
				WorkX:   int(mi.RcWork.Left),
				WorkY:   int(mi.RcWork.Top),
				WorkW:   int(mi.RcWork.Right - mi.RcWork.Left),
				WorkH:   int(mi.RcWork.Bottom - mi.RcWork.Top),
			})
		}
		return 1
	})
	_, _, _ = procEnumDisplayMonitors.Call(0, 0, cb, 0)

	for i := range monitors {
		if monitors[i].Primary && i != 0 {
			monitors[0], monitors[i] = monitors[i], monitors[0]
			break
		}
	}
	return monitors
}
