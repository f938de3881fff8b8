package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	p := &Profile{
		Name: "Game Setup",
		Windows: []WindowSpec{
			{Name: "Chat", X: 3200, Y: 0, Width: 1920, Height: 1392, Titlebar: true},
			{Name: "Diablo Iv", X: 880, Y: 0, Width: 2320, Height: 1440, AlwaysOnTop: true, ProcessPriority: true},
		},
		ApplyOrder: []string{"titlebar", "pos", "size", "aot"},
	}
	if err := s.Save(p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := s.Load("Game Setup")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := strings.Join(loaded.ApplyOrder, ","); got != "titlebar,pos,size,aot" {
		t.Errorf("apply order = %q, want titlebar,pos,size,aot", got)
	}
	if len(loaded.Windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(loaded.Windows))
	}

	// Sections are stored left to right: Diablo Iv at x=880 comes first.
	first := loaded.Windows[0]
	if first.Name != "Diablo Iv" {
		t.Fatalf("first section = %q, want Diablo Iv", first.Name)
	}
	if first.X != 880 || first.Y != 0 || first.Width != 2320 || first.Height != 1440 {
		t.Errorf("geometry = %d,%d %dx%d, want 880,0 2320x1440",
			first.X, first.Y, first.Width, first.Height)
	}
	if !first.AlwaysOnTop || first.Titlebar || !first.ProcessPriority {
		t.Errorf("flags = aot:%v titlebar:%v priority:%v, want true false true",
			first.AlwaysOnTop, first.Titlebar, first.ProcessPriority)
	}
	if loaded.Windows[1].Name != "Chat" {
		t.Errorf("second section = %q, want Chat", loaded.Windows[1].Name)
	}
}

func TestStoreRepairsMalformedValues(t *testing.T) {
	dir := t.TempDir()
	raw := strings.Join([]string{
		"[Broken App]",
		"position = abc",
		"size = 12x9",
		"always_on_top = maybe",
		"titlebar = ",
		"process_priority = yes",
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(dir, "config_Broken.ini"), []byte(raw), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s := NewStore(dir)
	p, err := s.Load("Broken")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(p.Windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(p.Windows))
	}

	spec := p.Windows[0]
	if spec.X != 0 || spec.Y != 0 {
		t.Errorf("position repaired to %d,%d, want 0,0", spec.X, spec.Y)
	}
	if spec.Width != 100 || spec.Height != 100 {
		t.Errorf("size repaired to %d,%d, want 100,100", spec.Width, spec.Height)
	}
	if spec.AlwaysOnTop || !spec.Titlebar || spec.ProcessPriority {
		t.Errorf("flags = aot:%v titlebar:%v priority:%v, want false true false",
			spec.AlwaysOnTop, spec.Titlebar, spec.ProcessPriority)
	}

	// Saving writes the repaired values; the malformed ones never resurface.
	if err := s.Save(p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "config_Broken.ini"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if strings.Contains(string(data), "abc") || strings.Contains(string(data), "12x9") {
		t.Errorf("malformed values resurfaced in saved file:\n%s", data)
	}

	reloaded, err := s.Load("Broken")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Windows[0].Width != 100 || reloaded.Windows[0].Height != 100 {
		t.Errorf("repaired size did not persist")
	}
}

func TestStoreKeepsNegativePositions(t *testing.T) {
	dir := t.TempDir()
	raw := "[Edge]\nposition = -5,-10\nsize = 640,480\n"
	if err := os.WriteFile(filepath.Join(dir, "config_Edge.ini"), []byte(raw), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	p, err := NewStore(dir).Load("Edge")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Windows[0].X != -5 || p.Windows[0].Y != -10 {
		t.Errorf("position = %d,%d, want -5,-10", p.Windows[0].X, p.Windows[0].Y)
	}
}

func TestStoreListAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "configs")
	s := NewStore(dir)

	// A store whose directory does not exist yet is empty, not broken.
	names, err := s.List()
	if err != nil {
		t.Fatalf("List on missing dir failed: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("got %v, want empty list", names)
	}

	for _, name := range []string{"Beta", "Alpha"} {
		if err := s.Save(&Profile{Name: name, Windows: []WindowSpec{{Name: "App", Titlebar: true}}}); err != nil {
			t.Fatalf("Save %s failed: %v", name, err)
		}
	}

	names, err = s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 || names[0] != "Alpha" || names[1] != "Beta" {
		t.Fatalf("got %v, want [Alpha Beta]", names)
	}

	if err := s.Delete("Alpha"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if s.Exists("Alpha") {
		t.Errorf("Alpha still exists after delete")
	}
	if err := s.Delete("Alpha"); err == nil {
		t.Errorf("second delete succeeded, want error")
	}
}

func TestStoreRejectsUnsafeNames(t *testing.T) {
	s := NewStore(t.TempDir())

	for _, name := range []string{"", "  ", "../evil", `a\b`, "a/b", ".."} {
		if _, err := s.Load(name); err == nil {
			t.Errorf("Load(%q) succeeded, want error", name)
		}
		if err := s.Delete(name); err == nil {
			t.Errorf("Delete(%q) succeeded, want error", name)
		}
	}
}

func TestStoreCleansProfileNameOnSave(t *testing.T) {
	s := NewStore(t.TempDir())

	// The name passes through the same cleaning as window titles: last
	// separator segment, progress suffix stripped, then titlecased.
	p := &Profile{Name: "diablo iv - chat 45%", Windows: []WindowSpec{{Name: "Chat", Titlebar: true}}}
	if err := s.Save(p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if p.Name != "Chat" {
		t.Fatalf("cleaned name = %q, want Chat", p.Name)
	}
	if !s.Exists("Chat") {
		t.Errorf("config_Chat.ini not written")
	}
}

func TestStoreExtraKeysSurviveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	raw := strings.Join([]string{
		"[Diablo Iv]",
		"position = 880,0",
		"size = 2320,1440",
		"search_title = Diablo IV - Sanctuary",
		"rawg_url = https://example.invalid/diablo-iv",
		"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(dir, "config_Game.ini"), []byte(raw), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s := NewStore(dir)
	p, err := s.Load("Game")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	spec := p.Windows[0]
	if spec.SearchTitle != "Diablo IV - Sanctuary" {
		t.Errorf("search title = %q", spec.SearchTitle)
	}
	if spec.Extra["rawg_url"] != "https://example.invalid/diablo-iv" {
		t.Errorf("extra keys = %v", spec.Extra)
	}

	if err := s.Save(p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	reloaded, err := s.Load("Game")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Windows[0].Extra["rawg_url"] != "https://example.invalid/diablo-iv" {
		t.Errorf("extra key lost on save")
	}
	if reloaded.Windows[0].SearchTitle != "Diablo IV - Sanctuary" {
		t.Errorf("search title lost on save")
	}
}
