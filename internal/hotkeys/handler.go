package hotkeys

import (
	"fmt"
	"log"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/ultratile/ultratile/internal/platform"
)

// Toggler is the engine surface the always-on-top hotkey drives.
type Toggler interface {
	ToggleTracked() int
	AOTStatus() string
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	toggler Toggler
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, toggler Toggler) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	if xu != nil {
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(xu)
		})
	}

	return &Handler{
		xu:      xu,
		root:    root,
		toggler: toggler,
	}
}

// RegisterToggleAOT registers the always-on-top toggle hotkey. It flips the
// live pin of every tracked window without forgetting them, so pressing it
// again pins them back.
func (h *Handler) RegisterToggleAOT(keySequence string) error {
	return h.RegisterFunc(keySequence, func() {
		count := h.toggler.ToggleTracked()
		log.Printf("AOT hotkey: toggled %d window(s), %s", count, h.toggler.AOTStatus())
	})
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	if h.xu == nil {
		return fmt.Errorf("global hotkeys require the X11 backend")
	}
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// configureIgnoreMods widens xevent.IgnoreMods to every combination of the
// lock-key modifiers, so a binding fires no matter which locks are lit.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	combos := []uint16{0}
	for _, lock := range lockMasks(xu) {
		for _, c := range combos {
			combos = append(combos, c|lock)
		}
	}

	seen := make(map[uint16]bool, len(combos))
	ignore := combos[:0]
	for _, c := range combos {
		if !seen[c] {
			seen[c] = true
			ignore = append(ignore, c)
		}
	}
	xevent.IgnoreMods = ignore
}

// lockMasks returns the distinct modifier masks held by the lock keys on
// this keyboard. CapsLock is always ModMaskLock; NumLock and ScrollLock
// float with the modifier mapping and may be absent.
func lockMasks(xu *xgbutil.XUtil) []uint16 {
	masks := []uint16{uint16(xproto.ModMaskLock)}
	for _, keysym := range []string{"Num_Lock", "Scroll_Lock"} {
		var mask uint16
		for _, kc := range keybind.StrToKeycodes(xu, keysym) {
			if mask = keybind.ModGet(xu, kc); mask != 0 {
				break
			}
		}
		if mask == 0 {
			continue
		}
		known := false
		for _, m := range masks {
			if m == mask {
				known = true
				break
			}
		}
		if !known {
			masks = append(masks, mask)
		}
	}
	return masks
}
