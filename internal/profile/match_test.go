package profile

import (
	"testing"

	"github.com/ultratile/ultratile/internal/platform"
)

func TestFindWindowPrefersLowestID(t *testing.T) {
	wins := []platform.Window{
		{ID: 9, Title: "Diablo IV"},
		{ID: 3, Title: "Diablo IV"},
		{ID: 7, Title: "Diablo IV - Sanctuary"},
	}

	w, ok := FindWindow("diablo", wins)
	if !ok {
		t.Fatal("no match found")
	}
	if w.ID != 3 {
		t.Errorf("matched window %d, want 3", w.ID)
	}
}

func TestFindWindowBoundary(t *testing.T) {
	wins := []platform.Window{{ID: 1, Title: "Notepad++"}}

	// "note" is a prefix of the title but not up to a space boundary.
	if _, ok := FindWindow("note", wins); ok {
		t.Error("mid-word prefix matched")
	}
	if _, ok := FindWindow("notepad++", wins); !ok {
		t.Error("exact title did not match")
	}
}

func TestFindMatchesSplitsResolvedAndMissing(t *testing.T) {
	p := &Profile{
		Name: "Desk",
		Windows: []WindowSpec{
			{Name: "Factorio"},
			{Name: "Ghost App"},
		},
	}
	wins := []platform.Window{{ID: 1, Title: "Factorio 2.0.28"}}

	res := FindMatches(p, wins)
	if len(res.Resolved) != 1 {
		t.Fatalf("got %d resolved, want 1", len(res.Resolved))
	}
	if res.Resolved[0].Window.ID != 1 || res.Resolved[0].Spec.Name != "Factorio" {
		t.Errorf("resolved = %+v", res.Resolved[0])
	}
	if len(res.Missing) != 1 || res.Missing[0] != "Ghost App" {
		t.Errorf("missing = %v, want [Ghost App]", res.Missing)
	}
}

func TestFindMatchesSearchTitleOverride(t *testing.T) {
	wins := []platform.Window{{ID: 4, Title: "Notepad - readme.txt"}}

	// The cleaned section name no longer matches the live title; the
	// stored search title does.
	bare := &Profile{Windows: []WindowSpec{{Name: "Readme.Txt"}}}
	if res := FindMatches(bare, wins); len(res.Resolved) != 0 {
		t.Fatalf("cleaned name matched unexpectedly: %+v", res.Resolved)
	}

	override := &Profile{Windows: []WindowSpec{{Name: "Readme.Txt", SearchTitle: "Notepad - readme.txt"}}}
	res := FindMatches(override, wins)
	if len(res.Resolved) != 1 {
		t.Fatalf("search title did not match: missing=%v", res.Missing)
	}
	if res.Resolved[0].Window.ID != 4 {
		t.Errorf("matched window %d, want 4", res.Resolved[0].Window.ID)
	}
}

func TestFindMatchesNilProfile(t *testing.T) {
	res := FindMatches(nil, []platform.Window{{ID: 1, Title: "App"}})
	if len(res.Resolved) != 0 || len(res.Missing) != 0 {
		t.Errorf("nil profile produced %+v", res)
	}
}
