//go:build windows

// Package winapi wraps the user32 calls the Windows backend needs. Procs
// resolve lazily from the system DLL, so loading the package never fails
// even if an entry point is missing.
package winapi

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW     = user32.NewProc("GetWindowTextLengthW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procSetWindowPos             = user32.NewProc("SetWindowPos")
	procGetWindowLongPtrW        = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtrW        = user32.NewProc("SetWindowLongPtrW")
	procShowWindow               = user32.NewProc("ShowWindow")
)

// Window style bits relevant to frame and topmost handling. WSFrameBits is
// the full set a frameless window sheds: caption, border and sizing frame.
const (
	WSCaption    = 0x00C00000
	WSBorder     = 0x00800000
	WSThickFrame = 0x00040000
	WSFrameBits  = WSCaption | WSBorder | WSThickFrame
	WSExTopmost  = 0x00000008
)

// SetWindowPos flags.
const (
	SWPNoSize        = 0x0001
	SWPNoMove        = 0x0002
	SWPNoZOrder      = 0x0004
	SWPNoActivate    = 0x0010
	SWPFrameChanged  = 0x0020
	SWPShowWindow    = 0x0040
	SWPNoOwnerZOrder = 0x0200
)

// ShowWindow commands.
const SWRestore = 9

// GetWindowLongPtr indexes.
const (
	gwlStyle   = -16
	gwlExStyle = -20
)

// Special insert-after handles for SetWindowPos z-order moves.
// HWND_TOPMOST is (HWND)-1 and HWND_NOTOPMOST is (HWND)-2.
var (
	HWNDTopmost   = ^uintptr(0)
	HWNDNoTopmost = ^uintptr(1)
)

type rect struct {
	Left, Top, Right, Bottom int32
}

// EnumTopLevelWindows calls visit for every top-level window. Returning
// false from visit stops the enumeration early.
func EnumTopLevelWindows(visit func(hwnd windows.Handle) bool) {
	cb := syscall.NewCallback(func(hwnd, lparam uintptr) uintptr {
		if visit(windows.Handle(hwnd)) {
			return 1
		}
		return 0
	})
	_, _, _ = procEnumWindows.Call(cb, 0)
}

// ForegroundWindow returns the window the user is working in.
func ForegroundWindow() windows.Handle {
	hwnd, _, _ := procGetForegroundWindow.Call()
	return windows.Handle(hwnd)
}

// IsWindowVisible reports whether the window is shown.
func IsWindowVisible(hwnd windows.Handle) bool {
	visible, _, _ := procIsWindowVisible.Call(uintptr(hwnd))
	return visible != 0
}

// WindowText returns the window title, or "" for untitled windows.
func WindowText(hwnd windows.Handle) string {
	length, _, _ := procGetWindowTextLengthW.Call(uintptr(hwnd))
	if length == 0 {
		return ""
	}
	buf := make([]uint16, length+1)
	_, _, _ = procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), length+1)
	return windows.UTF16ToString(buf)
}

// WindowPID returns the ID of the process that owns the window.
func WindowPID(hwnd windows.Handle) uint32 {
	var pid uint32
	_, _, _ = procGetWindowThreadProcessId.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&pid)))
	return pid
}

// WindowRect returns the window's outer frame rectangle in screen coordinates.
func WindowRect(hwnd windows.Handle) (x, y, width, height int, err error) {
	var r rect
	ret, _, callErr := procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return 0, 0, 0, 0, fmt.Errorf("GetWindowRect failed: %w", callErr)
	}
	return int(r.Left), int(r.Top), int(r.Right - r.Left), int(r.Bottom - r.Top), nil
}

// SetWindowPos wraps the user32 call of the same name. insertAfter is only
// honored when flags omits SWPNoZOrder.
func SetWindowPos(hwnd windows.Handle, insertAfter uintptr, x, y, width, height int, flags uint32) error {
	ret, _, callErr := procSetWindowPos.Call(
		uintptr(hwnd),
		insertAfter,
		uintptr(x),
		uintptr(y),
		uintptr(width),
		uintptr(height),
		uintptr(flags),
	)
	if ret == 0 {
		return fmt.Errorf("SetWindowPos failed: %w", callErr)
	}
	return nil
}

// ShowWindow wraps the user32 call of the same name.
func ShowWindow(hwnd windows.Handle, cmd int) {
	_, _, _ = procShowWindow.Call(uintptr(hwnd), uintptr(cmd))
}

// WindowStyle returns the GWL_STYLE word.
func WindowStyle(hwnd windows.Handle) uint32 {
	return uint32(windowLong(hwnd, gwlStyle))
}

// SetWindowStyle writes the GWL_STYLE word.
func SetWindowStyle(hwnd windows.Handle, style uint32) error {
	return setWindowLong(hwnd, gwlStyle, uintptr(style))
}

// WindowExStyle returns the GWL_EXSTYLE word.
func WindowExStyle(hwnd windows.Handle) uint32 {
	return uint32(windowLong(hwnd, gwlExStyle))
}

// SetWindowExStyle writes the GWL_EXSTYLE word.
func SetWindowExStyle(hwnd windows.Handle, style uint32) error {
	return setWindowLong(hwnd, gwlExStyle, uintptr(style))
}

func windowLong(hwnd windows.Handle, index int32) uintptr {
	value, _, _ := procGetWindowLongPtrW.Call(uintptr(hwnd), uintptr(index))
	return value
}

func setWindowLong(hwnd windows.Handle, index int32, value uintptr) error {
	// SetWindowLongPtr returns the previous value, which can legitimately be
	// zero, so failure has to be detected through the last error instead.
	ret, _, callErr := procSetWindowLongPtrW.Call(uintptr(hwnd), uintptr(index), value)
	if ret == 0 && callErr != windows.ERROR_SUCCESS {
		return fmt.Errorf("SetWindowLongPtr failed: %w", callErr)
	}
	return nil
}

// ProcessImagePath returns the executable path for a PID, or "" when the
// process cannot be opened.
func ProcessImagePath(pid uint32) string {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(h)
	buf := make([]uint16, 1024)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return ""
	}
	return windows.UTF16ToString(buf[:size])
}

// BoostProcessPriority moves a process to the above-normal priority class.
func BoostProcessPriority(pid uint32) error {
	h, err := windows.OpenProcess(windows.PROCESS_SET_INFORMATION, false, pid)
	if err != nil {
		return fmt.Errorf("failed to open process %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)
	if err := windows.SetPriorityClass(h, windows.ABOVE_NORMAL_PRIORITY_CLASS); err != nil {
		return fmt.Errorf("failed to set priority class: %w", err)
	}
	return nil
}
