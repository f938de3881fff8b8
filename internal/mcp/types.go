package mcp

// ApplyProfileInput is the input for the apply_profile tool.
type ApplyProfileInput struct {
	Profile string `json:"profile" jsonschema:"required,Name of the stored profile to apply"`
}

// ApplyProfileOutput is the output for the apply_profile tool.
type ApplyProfileOutput struct {
	ReportID   string   `json:"report_id"`
	Profile    string   `json:"profile"`
	Applied    []string `json:"applied,omitempty"`
	Missing    []string `json:"missing,omitempty"`
	Failed     int      `json:"failed"`
	DurationMS int64    `json:"duration_ms"`
}

// ResetWindowsInput is the input for the reset_windows tool.
type ResetWindowsInput struct {
	Profile string `json:"profile,omitempty" jsonschema:"Profile whose windows to restore. When omitted every managed window is restored."`
}

// ResetWindowsOutput is the output for the reset_windows tool.
type ResetWindowsOutput struct {
	Profile string `json:"profile,omitempty"`
	All     bool   `json:"all"`
}

// ListProfilesInput is the input for the list_profiles tool.
type ListProfilesInput struct{}

// ListProfilesOutput is the output for the list_profiles tool.
type ListProfilesOutput struct {
	Profiles []string `json:"profiles"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowEntry describes one live top-level window.
type WindowEntry struct {
	ID      uint64 `json:"id"`
	PID     int    `json:"pid"`
	Process string `json:"process,omitempty"`
	Title   string `json:"title"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowEntry `json:"windows"`
}

// FindMatchesInput is the input for the find_matches tool.
type FindMatchesInput struct {
	Profile string `json:"profile" jsonschema:"required,Name of the stored profile to resolve against the live windows"`
}

// MatchEntry pairs a profile window entry with the live window it resolved to.
type MatchEntry struct {
	Name     string `json:"name"`
	WindowID uint64 `json:"window_id"`
	Title    string `json:"title"`
}

// FindMatchesOutput is the output for the find_matches tool.
type FindMatchesOutput struct {
	Resolved []MatchEntry `json:"resolved"`
	Missing  []string     `json:"missing,omitempty"`
}

// GenerateLayoutInput is the input for the generate_layout tool.
type GenerateLayoutInput struct {
	Count  int  `json:"count" jsonschema:"required,Number of windows to lay out (1-4)"`
	Preset *int `json:"preset,omitempty" jsonschema:"Preset index to use. When omitted the daemon advances its preset cycler for this count."`
	Apply  bool `json:"apply,omitempty" jsonschema:"When true, move the leftmost live windows into the generated panes"`
}

// PaneEntry is one generated window placement.
type PaneEntry struct {
	X           int  `json:"x"`
	Y           int  `json:"y"`
	Width       int  `json:"width"`
	Height      int  `json:"height"`
	AlwaysOnTop bool `json:"always_on_top"`
	Titlebar    bool `json:"titlebar"`
}

// GenerateLayoutOutput is the output for the generate_layout tool.
type GenerateLayoutOutput struct {
	Count  int         `json:"count"`
	Preset int         `json:"preset"`
	Panes  []PaneEntry `json:"panes"`
}

// DetectProfileInput is the input for the detect_profile tool.
type DetectProfileInput struct{}

// DetectProfileOutput is the output for the detect_profile tool.
type DetectProfileOutput struct {
	Profile string `json:"profile"`
}
