package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Offset nudges a generated pane for one window title, compensating for
// per-application chrome quirks. Titlebar, when set, overrides the preset's
// titlebar flag.
type Offset struct {
	DX       int   `toml:"dx,omitempty"`
	DY       int   `toml:"dy,omitempty"`
	DW       int   `toml:"dw,omitempty"`
	DH       int   `toml:"dh,omitempty"`
	Titlebar *bool `toml:"titlebar,omitempty"`
}

// Store persists preset cycling positions and per-title offsets in a TOML
// file, so cycling picks up where it left off across restarts. Safe for
// concurrent use.
type Store struct {
	path string

	mu      sync.Mutex
	cyc     *Cycler
	offsets map[string]Offset
}

// storeFile is the on-disk shape. Cycle keys are window counts as strings.
// Setting reset=true by hand zeroes everything on the next load.
type storeFile struct {
	Reset   bool              `toml:"reset"`
	Cycle   map[string]int    `toml:"cycle,omitempty"`
	Offsets map[string]Offset `toml:"offsets,omitempty"`
}

func NewStore(path string) *Store {
	return &Store{
		path:    path,
		cyc:     NewCycler(),
		offsets: make(map[string]Offset),
	}
}

// Load reads the store file. A missing file is a fresh start, a corrupt
// file falls back to defaults rather than wedging startup, and individual
// entries that don't validate are dropped.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cyc.Reset()
	s.offsets = make(map[string]Offset)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read preset store: %w", err)
	}

	var f storeFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil
	}
	if f.Reset {
		return nil
	}

	for key, idx := range f.Cycle {
		count, err := strconv.Atoi(key)
		if err != nil || count < 1 || count > MaxWindows {
			continue
		}
		s.cyc.Set(count, idx)
	}
	for key, off := range f.Offsets {
		if key == "" {
			continue
		}
		s.offsets[key] = off
	}
	return nil
}

// Save writes the current cycling positions and offsets back to disk.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *Store) save() error {
	f := storeFile{
		Cycle:   make(map[string]int),
		Offsets: s.offsets,
	}
	for count, idx := range s.cyc.Snapshot() {
		f.Cycle[strconv.Itoa(count)] = idx
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create preset store directory: %w", err)
	}
	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode preset store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preset store: %w", err)
	}
	return nil
}

// NextPreset returns the preset index to use for count, advances the
// counter, and persists the new position. A failed write only loses the
// cycling position, so it is not fatal here.
func (s *Store) NextPreset(count int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.cyc.Next(count)
	_ = s.save()
	return idx
}

// PeekPreset returns the index NextPreset would hand out.
func (s *Store) PeekPreset(count int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cyc.Peek(count)
}

// Offset returns the stored nudge for a title key.
func (s *Store) Offset(title string) (Offset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	off, ok := s.offsets[title]
	return off, ok
}

// SetOffset stores a nudge for a title key and persists it. An all-zero
// offset deletes the entry.
func (s *Store) SetOffset(title string, off Offset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if off == (Offset{}) {
		delete(s.offsets, title)
	} else {
		s.offsets[title] = off
	}
	return s.save()
}

// ApplyOffset adjusts a generated pane by the stored nudge for the given
// title key, if any.
func (s *Store) ApplyOffset(title string, p *Pane) {
	off, ok := s.Offset(title)
	if !ok {
		return
	}
	p.X += off.DX
	p.Y += off.DY
	p.Width += off.DW
	p.Height += off.DH
	if off.Titlebar != nil {
		p.Titlebar = *off.Titlebar
	}
}
