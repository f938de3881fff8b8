package layout

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStorePersistsCyclePosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")

	s := NewStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load on missing file failed: %v", err)
	}
	if got := s.NextPreset(2); got != 0 {
		t.Fatalf("expected first index 0, got %d", got)
	}
	if got := s.NextPreset(2); got != 1 {
		t.Fatalf("expected second index 1, got %d", got)
	}

	// A fresh store at the same path resumes where the first left off.
	s2 := NewStore(path)
	if err := s2.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := s2.NextPreset(2); got != 2 {
		t.Fatalf("expected resumed index 2, got %d", got)
	}
}

func TestStoreResetFlagZeroesState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	content := "reset = true\n\n[cycle]\n\"2\" = 7\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s := NewStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := s.PeekPreset(2); got != 0 {
		t.Fatalf("expected reset store to start at 0, got %d", got)
	}
}

func TestStoreDropsInvalidEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	content := "[cycle]\n\"2\" = 99\n\"bogus\" = 1\n\"9\" = 1\n\"3\" = 4\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s := NewStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	// 99 is past the end for 2 windows, "bogus" and "9" are not window
	// counts; only the count-3 entry survives.
	if got := s.PeekPreset(2); got != 0 {
		t.Fatalf("expected out-of-range index dropped, got %d", got)
	}
	if got := s.PeekPreset(3); got != 4 {
		t.Fatalf("expected count-3 index 4, got %d", got)
	}
}

func TestStoreCorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s := NewStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("expected corrupt file to fall back to defaults, got %v", err)
	}
	if got := s.PeekPreset(1); got != 0 {
		t.Fatalf("expected defaults, got index %d", got)
	}
}

func TestStoreOffsets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	s := NewStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	noTitlebar := false
	if err := s.SetOffset("editor", Offset{DX: -8, DW: 16, Titlebar: &noTitlebar}); err != nil {
		t.Fatalf("SetOffset failed: %v", err)
	}

	p := Pane{X: 100, Y: 0, Width: 800, Height: 600, Titlebar: true}
	s.ApplyOffset("editor", &p)
	if p.X != 92 || p.Width != 816 {
		t.Fatalf("expected x=92 w=816 after offset, got x=%d w=%d", p.X, p.Width)
	}
	if p.Titlebar {
		t.Fatal("expected titlebar override to apply")
	}

	// Unknown titles are untouched.
	q := Pane{X: 1, Y: 2, Width: 3, Height: 4}
	s.ApplyOffset("other", &q)
	if q.X != 1 || q.Y != 2 || q.Width != 3 || q.Height != 4 {
		t.Fatal("expected pane without offset to be untouched")
	}

	// Offsets survive a reload.
	s2 := NewStore(path)
	if err := s2.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	off, ok := s2.Offset("editor")
	if !ok || off.DX != -8 || off.DW != 16 || off.Titlebar == nil || *off.Titlebar {
		t.Fatalf("expected persisted offset, got %+v ok=%v", off, ok)
	}

	// An all-zero offset deletes the entry.
	if err := s2.SetOffset("editor", Offset{}); err != nil {
		t.Fatalf("SetOffset failed: %v", err)
	}
	if _, ok := s2.Offset("editor"); ok {
		t.Fatal("expected zero offset to delete the entry")
	}
}
