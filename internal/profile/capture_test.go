package profile

import (
	"errors"
	"testing"

	"github.com/ultratile/ultratile/internal/platform"
)

type styleMap map[platform.WindowID]platform.Style

func (m styleMap) Style(id platform.WindowID) (platform.Style, error) {
	st, ok := m[id]
	if !ok {
		return platform.Style{}, errors.New("no style")
	}
	return st, nil
}

func TestCaptureClampsGeometry(t *testing.T) {
	wins := []platform.Window{
		{ID: 1, Title: "Tiny App", Bounds: platform.Rect{X: -500, Y: -500, Width: 100, Height: 80}},
	}
	styles := styleMap{1: {Titlebar: true}}

	specs := Capture(styles, wins)
	if len(specs) != 1 {
		t.Fatalf("got %d specs, want 1", len(specs))
	}
	s := specs[0]
	if s.X != -10 || s.Y != -10 {
		t.Errorf("position = %d,%d, want -10,-10", s.X, s.Y)
	}
	if s.Width != 250 || s.Height != 250 {
		t.Errorf("size = %dx%d, want 250x250", s.Width, s.Height)
	}
}

func TestCaptureStyleFlags(t *testing.T) {
	wins := []platform.Window{
		{ID: 1, Title: "Game", Bounds: platform.Rect{X: 0, Y: 0, Width: 2560, Height: 1440}},
		{ID: 2, Title: "Chat", Bounds: platform.Rect{X: 2560, Y: 0, Width: 1280, Height: 1440}},
	}
	styles := styleMap{
		1: {Topmost: true},
		2: {Titlebar: true},
	}

	specs := Capture(styles, wins)
	if len(specs) != 2 {
		t.Fatalf("got %d specs, want 2", len(specs))
	}
	if !specs[0].AlwaysOnTop || specs[0].Titlebar {
		t.Errorf("Game flags = aot:%v titlebar:%v, want true false", specs[0].AlwaysOnTop, specs[0].Titlebar)
	}
	if specs[1].AlwaysOnTop || !specs[1].Titlebar {
		t.Errorf("Chat flags = aot:%v titlebar:%v, want false true", specs[1].AlwaysOnTop, specs[1].Titlebar)
	}
}

func TestCaptureStyleErrorDefaultsTitlebar(t *testing.T) {
	wins := []platform.Window{
		{ID: 5, Title: "Gone", Bounds: platform.Rect{X: 0, Y: 0, Width: 800, Height: 600}},
	}

	specs := Capture(styleMap{}, wins)
	if len(specs) != 1 {
		t.Fatalf("got %d specs, want 1", len(specs))
	}
	if !specs[0].Titlebar || specs[0].AlwaysOnTop {
		t.Errorf("flags = aot:%v titlebar:%v, want false true", specs[0].AlwaysOnTop, specs[0].Titlebar)
	}
}

func TestCaptureSearchTitle(t *testing.T) {
	wins := []platform.Window{
		{ID: 1, Title: "Notepad - readme.txt", Bounds: platform.Rect{X: 0, Y: 0, Width: 800, Height: 600}},
		{ID: 2, Title: "Factorio", Bounds: platform.Rect{X: 800, Y: 0, Width: 800, Height: 600}},
	}
	styles := styleMap{1: {Titlebar: true}, 2: {Titlebar: true}}

	specs := Capture(styles, wins)
	if len(specs) != 2 {
		t.Fatalf("got %d specs, want 2", len(specs))
	}

	// Cleaning changed the title, so the raw title is kept for matching.
	if specs[0].Name != "Readme.Txt" {
		t.Errorf("cleaned name = %q, want Readme.Txt", specs[0].Name)
	}
	if specs[0].SearchTitle != "Notepad - readme.txt" {
		t.Errorf("search title = %q", specs[0].SearchTitle)
	}

	// Cleaning was a no-op apart from case, so no override is stored.
	if specs[1].Name != "Factorio" {
		t.Errorf("cleaned name = %q, want Factorio", specs[1].Name)
	}
	if specs[1].SearchTitle != "" {
		t.Errorf("search title = %q, want empty", specs[1].SearchTitle)
	}
}

func TestCaptureSkipsUnusableTitles(t *testing.T) {
	wins := []platform.Window{
		{ID: 1, Title: "???", Bounds: platform.Rect{X: 0, Y: 0, Width: 800, Height: 600}},
		{ID: 2, Title: "Keep Me", Bounds: platform.Rect{X: 0, Y: 0, Width: 800, Height: 600}},
	}
	styles := styleMap{1: {Titlebar: true}, 2: {Titlebar: true}}

	specs := Capture(styles, wins)
	if len(specs) != 1 || specs[0].Name != "Keep Me" {
		t.Fatalf("specs = %+v, want only Keep Me", specs)
	}
}
