package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/ultratile/ultratile/internal/title"
)

const (
	filePrefix = "config_"
	fileSuffix = ".ini"

	keyPosition    = "position"
	keySize        = "size"
	keyAlwaysOnTop = "always_on_top"
	keyTitlebar    = "titlebar"
	keyPriority    = "process_priority"
	keySearchTitle = "search_title"
	keyApplyOrder  = "apply_order"
)

// Repair defaults for malformed stored values.
const (
	defaultPosition = "0,0"
	defaultSize     = "100,100"
)

var (
	positionRe = regexp.MustCompile(`^-?\d+,-?\d+$`)
	sizeRe     = regexp.MustCompile(`^\d+,\d+$`)
)

// Store reads and writes profiles under a single directory, one INI file
// per profile named config_<Name>.ini.
type Store struct {
	dir string
}

// NewStore creates a profile store rooted at dir. The directory is created
// lazily on the first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory profiles are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// List returns the stored profile names in filename order. A missing
// directory is an empty store, not an error.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
	}
	return names, nil
}

// Load reads one profile, repairing malformed values as it goes: a bad
// position becomes "0,0", a bad size "100,100", bad booleans fall back to
// their safe defaults. Repairs are part of reading; the file itself is only
// rewritten on the next save.
func (s *Store) Load(name string) (*Profile, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	cfg, err := ini.Load(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %q: %w", name, err)
	}

	p := &Profile{Name: name}

	if raw := cfg.Section(ini.DefaultSection).Key(keyApplyOrder).String(); raw != "" {
		for _, step := range strings.Split(raw, ",") {
			if step = strings.TrimSpace(step); step != "" {
				p.ApplyOrder = append(p.ApplyOrder, step)
			}
		}
	}

	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection || strings.TrimSpace(sec.Name()) == "" {
			continue
		}

		spec := WindowSpec{Name: sec.Name()}
		spec.X, spec.Y = parsePair(sec.Key(keyPosition).String(), positionRe, defaultPosition)
		spec.Width, spec.Height = parsePair(sec.Key(keySize).String(), sizeRe, defaultSize)
		spec.AlwaysOnTop = parseBool(sec.Key(keyAlwaysOnTop).String(), false)
		spec.Titlebar = parseBool(sec.Key(keyTitlebar).String(), true)
		spec.ProcessPriority = parseBool(sec.Key(keyPriority).String(), false)
		spec.SearchTitle = strings.TrimSpace(sec.Key(keySearchTitle).String())

		for _, key := range sec.Keys() {
			if isKnownKey(key.Name()) {
				continue
			}
			if v := strings.TrimSpace(key.Value()); v != "" {
				if spec.Extra == nil {
					spec.Extra = make(map[string]string)
				}
				spec.Extra[key.Name()] = v
			}
		}

		p.Windows = append(p.Windows, spec)
	}

	return p, nil
}

// Save writes the profile with sections ordered left to right by
// x-position and fsyncs before returning. The profile name is cleaned the
// same way window titles are, so the name on disk may differ from the one
// passed in; the cleaned name is written back to p.Name.
func (s *Store) Save(p *Profile) error {
	name, err := CleanName(p.Name)
	if err != nil {
		return err
	}
	p.Name = name

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	cfg := ini.Empty()
	if len(p.ApplyOrder) > 0 {
		cfg.Section(ini.DefaultSection).Key(keyApplyOrder).SetValue(strings.Join(p.ApplyOrder, ","))
	}

	specs := make([]WindowSpec, len(p.Windows))
	copy(specs, p.Windows)
	sort.SliceStable(specs, func(i, j int) bool {
		return specs[i].X < specs[j].X
	})

	for _, w := range specs {
		if strings.TrimSpace(w.Name) == "" {
			continue
		}
		sec, err := cfg.NewSection(w.Name)
		if err != nil {
			return fmt.Errorf("failed to add section %q: %w", w.Name, err)
		}
		sec.Key(keyPosition).SetValue(fmt.Sprintf("%d,%d", w.X, w.Y))
		sec.Key(keySize).SetValue(fmt.Sprintf("%d,%d", w.Width, w.Height))
		sec.Key(keyAlwaysOnTop).SetValue(strconv.FormatBool(w.AlwaysOnTop))
		sec.Key(keyTitlebar).SetValue(strconv.FormatBool(w.Titlebar))
		sec.Key(keyPriority).SetValue(strconv.FormatBool(w.ProcessPriority))
		if w.SearchTitle != "" {
			sec.Key(keySearchTitle).SetValue(w.SearchTitle)
		}
		for _, k := range sortedKeys(w.Extra) {
			sec.Key(k).SetValue(w.Extra[k])
		}
	}

	f, err := os.OpenFile(s.path(name), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create profile file: %w", err)
	}
	if _, err := cfg.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write profile %q: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync profile %q: %w", name, err)
	}
	return f.Close()
}

// Delete removes a stored profile.
func (s *Store) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.Remove(s.path(name)); err != nil {
		return fmt.Errorf("failed to delete profile %q: %w", name, err)
	}
	return nil
}

// Exists reports whether a profile with this name is stored.
func (s *Store) Exists(name string) bool {
	if validateName(name) != nil {
		return false
	}
	_, err := os.Stat(s.path(name))
	return err == nil
}

// CleanName derives a storable profile name the same way window titles
// become stored keys: sanitized, then titlecased for display.
func CleanName(name string) (string, error) {
	cleaned := title.Titlecase(title.Sanitize(name))
	if err := validateName(cleaned); err != nil {
		return "", err
	}
	return cleaned, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("empty profile name")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid profile name %q", name)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, filePrefix+name+fileSuffix)
}

func isKnownKey(name string) bool {
	switch name {
	case keyPosition, keySize, keyAlwaysOnTop, keyTitlebar, keyPriority, keySearchTitle:
		return true
	}
	return false
}

// parsePair parses "a,b" after validating against re; malformed input is
// repaired to def. Values that overflow int count as malformed.
func parsePair(raw string, re *regexp.Regexp, def string) (int, int) {
	if !re.MatchString(raw) {
		raw = def
	}
	parts := strings.SplitN(raw, ",", 2)
	a, errA := strconv.Atoi(parts[0])
	b, errB := strconv.Atoi(parts[1])
	if errA != nil || errB != nil {
		parts = strings.SplitN(def, ",", 2)
		a, _ = strconv.Atoi(parts[0])
		b, _ = strconv.Atoi(parts[1])
	}
	return a, b
}

// parseBool accepts exactly "true" and "false" (any case); everything else
// repairs to def.
func parseBool(raw string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true
	case "false":
		return false
	}
	return def
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
