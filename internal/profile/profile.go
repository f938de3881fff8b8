// Package profile stores window profiles as INI files, one file per
// profile, and resolves them against live windows. A profile is an ordered
// set of window specs: the stored title key plus the mutations to apply.
package profile

// WindowSpec is one window entry in a profile. Name doubles as the INI
// section name and the default match key.
type WindowSpec struct {
	Name            string
	SearchTitle     string // optional override used for matching instead of Name
	X, Y            int
	Width, Height   int
	AlwaysOnTop     bool
	Titlebar        bool
	ProcessPriority bool
	Extra           map[string]string // unknown keys, preserved across load/save
}

// MatchKey returns the string used to match this spec against live titles.
func (w WindowSpec) MatchKey() string {
	if w.SearchTitle != "" {
		return w.SearchTitle
	}
	return w.Name
}

// Profile is a named, ordered set of window specs plus an optional
// mutation-order override. Windows keep their stored order, which Save
// arranges left to right by x-position.
type Profile struct {
	Name       string
	Windows    []WindowSpec
	ApplyOrder []string
}
