package platform

// WindowID is a platform-neutral window identifier. X11 window IDs and
// Win32 handles both fit.
type WindowID uint64

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display and its usable work area (bounds
// minus docked bars).
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID      WindowID
	PID     int
	Process string
	Title   string
	Bounds  Rect
}

// Style is the mutation-relevant slice of a window's state: the frame and
// topmost flags, plus the backend's raw style words so a restore can be
// bit-for-bit rather than reconstructed.
type Style struct {
	Titlebar bool
	Topmost  bool
	Native   uint64
	NativeEx uint64
}

// Backend abstracts window-system operations across platforms. The engine
// reads and mutates windows only through this interface, so it never
// branches on the operating system.
type Backend interface {
	Displays() ([]Display, error)
	ActiveWindow() (WindowID, error)
	ListWindows() ([]Window, error)
	Geometry(id WindowID) (Rect, error)
	// Move repositions without resizing.
	Move(id WindowID, x, y int) error
	// Resize changes size without moving.
	Resize(id WindowID, width, height int) error
	Style(id WindowID) (Style, error)
	// SetTitlebar adds or removes the window frame, forcing a redraw.
	SetTitlebar(id WindowID, on bool) error
	// SetTopmost moves the window in or out of the topmost band.
	SetTopmost(id WindowID, on bool) error
	// RestoreStyle writes back a previously captured Style.
	RestoreStyle(id WindowID, st Style) error
	// Raise brings the window to the front without leaving it pinned.
	Raise(id WindowID) error
	// BoostPriority raises the owning process to above-normal scheduling.
	BoostPriority(pid int) error
}
