package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Motif WM hints drive titlebar visibility. EWMH never grew a decoration
// control, so WMs still honor this property.
const (
	motifHintsProp       = "_MOTIF_WM_HINTS"
	motifHintDecorations = 1 << 1
	motifDecorAll        = 1 << 0
	motifHintsLen        = 5
)

// AboveState reports whether the window carries _NET_WM_STATE_ABOVE.
func (c *Connection) AboveState(windowID xproto.Window) (bool, error) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false, fmt.Errorf("failed to get window state: %w", err)
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_ABOVE" {
			return true, nil
		}
	}
	return false, nil
}

// SetAboveState adds or removes _NET_WM_STATE_ABOVE on the window.
// Action codes per EWMH: 0 removes, 1 adds.
func (c *Connection) SetAboveState(windowID xproto.Window, above bool) error {
	action := 0
	if above {
		action = 1
	}
	if err := ewmh.WmStateReq(c.XUtil, windowID, action, "_NET_WM_STATE_ABOVE"); err != nil {
		return fmt.Errorf("failed to change above state: %w", err)
	}
	return nil
}

// DecorationsWord returns the raw Motif decorations value for a window.
// Windows without the hint (or without the decorations flag) are fully
// decorated by the WM and report motifDecorAll with present=false.
func (c *Connection) DecorationsWord(windowID xproto.Window) (word uint, present bool, err error) {
	nums, err := xprop.PropValNums(xprop.GetProperty(c.XUtil, windowID, motifHintsProp))
	if err != nil || len(nums) < motifHintsLen {
		return motifDecorAll, false, nil
	}
	if nums[0]&motifHintDecorations == 0 {
		return motifDecorAll, false, nil
	}
	return nums[2], true, nil
}

// SetDecorationsWord writes the Motif decorations value for a window.
// A zero word removes the frame entirely; any other value keeps some frame.
func (c *Connection) SetDecorationsWord(windowID xproto.Window, word uint) error {
	err := xprop.ChangeProp32(c.XUtil, windowID, motifHintsProp, motifHintsProp,
		motifHintDecorations, 0, word, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to set motif hints: %w", err)
	}
	return nil
}

// SetDecorated toggles the window frame on or off.
func (c *Connection) SetDecorated(windowID xproto.Window, decorated bool) error {
	word := uint(0)
	if decorated {
		word = motifDecorAll
	}
	return c.SetDecorationsWord(windowID, word)
}

// RaiseWindow activates and raises a window using _NET_ACTIVE_WINDOW.
// Sends a client message to the root window per EWMH spec.
// We build the message manually because the xgbutil ewmh helpers panic
// on this library version (uint vs int type assertion).
func (c *Connection) RaiseWindow(windowID xproto.Window) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false,
		uint16(len("_NET_ACTIVE_WINDOW")), "_NET_ACTIVE_WINDOW").Reply()
	if err != nil {
		return fmt.Errorf("failed to intern _NET_ACTIVE_WINDOW: %w", err)
	}

	const sourceIndication = 2 // pager/direct action
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
