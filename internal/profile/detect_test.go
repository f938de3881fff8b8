package profile

import (
	"testing"

	"github.com/ultratile/ultratile/internal/platform"
)

func TestSelectDefaultAnchorWins(t *testing.T) {
	// Desk matches more windows, but Solo holds the always-on-top
	// anchor and is picked in the first pass.
	profiles := []*Profile{
		{Name: "Desk", Windows: []WindowSpec{{Name: "Chat"}, {Name: "Music"}}},
		{Name: "Solo", Windows: []WindowSpec{{Name: "Diablo Iv", AlwaysOnTop: true}}},
	}
	wins := []platform.Window{
		{ID: 1, Title: "Diablo IV"},
		{ID: 2, Title: "Chat"},
		{ID: 3, Title: "Music"},
	}

	name, ok := SelectDefault(profiles, wins)
	if !ok || name != "Solo" {
		t.Errorf("got %q ok=%v, want Solo", name, ok)
	}
}

func TestSelectDefaultFirstAnchorWins(t *testing.T) {
	profiles := []*Profile{
		{Name: "Desk", Windows: []WindowSpec{{Name: "Chat", AlwaysOnTop: true}}},
		{Name: "Solo", Windows: []WindowSpec{{Name: "Diablo Iv", AlwaysOnTop: true}}},
	}
	wins := []platform.Window{
		{ID: 1, Title: "Diablo IV"},
		{ID: 2, Title: "Chat"},
	}

	name, ok := SelectDefault(profiles, wins)
	if !ok || name != "Desk" {
		t.Errorf("got %q ok=%v, want Desk", name, ok)
	}
}

func TestSelectDefaultHighestCount(t *testing.T) {
	profiles := []*Profile{
		{Name: "One", Windows: []WindowSpec{{Name: "Chat"}}},
		{Name: "Two", Windows: []WindowSpec{{Name: "Chat"}, {Name: "Music"}}},
	}
	wins := []platform.Window{
		{ID: 1, Title: "Chat"},
		{ID: 2, Title: "Music"},
	}

	name, ok := SelectDefault(profiles, wins)
	if !ok || name != "Two" {
		t.Errorf("got %q ok=%v, want Two", name, ok)
	}
}

func TestSelectDefaultTieKeepsFirst(t *testing.T) {
	profiles := []*Profile{
		{Name: "One", Windows: []WindowSpec{{Name: "Chat"}}},
		{Name: "Two", Windows: []WindowSpec{{Name: "Chat"}}},
	}
	wins := []platform.Window{{ID: 1, Title: "Chat"}}

	name, ok := SelectDefault(profiles, wins)
	if !ok || name != "One" {
		t.Errorf("got %q ok=%v, want One", name, ok)
	}
}

func TestSelectDefaultNoMatchesFallsBackToFirst(t *testing.T) {
	profiles := []*Profile{
		{Name: "One", Windows: []WindowSpec{{Name: "Chat"}}},
		{Name: "Two", Windows: []WindowSpec{{Name: "Music"}}},
	}

	name, ok := SelectDefault(profiles, nil)
	if !ok || name != "One" {
		t.Errorf("got %q ok=%v, want One", name, ok)
	}
}

func TestSelectDefaultEmptyStore(t *testing.T) {
	if name, ok := SelectDefault(nil, []platform.Window{{ID: 1, Title: "Chat"}}); ok {
		t.Errorf("empty store selected %q", name)
	}
}
