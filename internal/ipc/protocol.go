package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing           CommandType = "PING"
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandListWindows    CommandType = "LIST_WINDOWS"
	CommandListProfiles   CommandType = "LIST_PROFILES"
	CommandFindMatches    CommandType = "FIND_MATCHES"
	CommandApplyProfile   CommandType = "APPLY_PROFILE"
	CommandResetProfile   CommandType = "RESET_PROFILE"
	CommandResetAll       CommandType = "RESET_ALL"
	CommandDetectProfile  CommandType = "DETECT_PROFILE"
	CommandGenerateLayout CommandType = "GENERATE_LAYOUT"
	CommandSaveProfile    CommandType = "SAVE_PROFILE"
	CommandDeleteProfile  CommandType = "DELETE_PROFILE"
	CommandToggleAOT      CommandType = "TOGGLE_AOT"
	CommandAOTStatus      CommandType = "AOT_STATUS"
	CommandDriftWatch     CommandType = "DRIFT_WATCH"
	CommandReloadConfig   CommandType = "RELOAD_CONFIG"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning  bool   `json:"daemon_running"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	ProfileCount   int    `json:"profile_count"`
	ManagedWindows int    `json:"managed_windows"`
	DriftWatch     bool   `json:"drift_watch"`
	ActiveProfile  string `json:"active_profile,omitempty"`
	AOTStatus      string `json:"aot_status"`
}

// WindowInfo represents one live top-level window
type WindowInfo struct {
	ID      uint64 `json:"id"`
	PID     int    `json:"pid"`
	Process string `json:"process,omitempty"`
	Title   string `json:"title"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// ProfilesData represents the data returned by LIST_PROFILES
type ProfilesData struct {
	Profiles []string `json:"profiles"`
}

// ProfilePayload names the profile a command operates on. Used by
// APPLY_PROFILE, RESET_PROFILE, FIND_MATCHES, SAVE_PROFILE and
// DELETE_PROFILE.
type ProfilePayload struct {
	Name string `json:"name"`
}

// MatchInfo pairs a profile window entry with the live window it resolved to
type MatchInfo struct {
	Name     string `json:"name"`
	WindowID uint64 `json:"window_id"`
	Title    string `json:"title"`
}

// MatchesData represents the data returned by FIND_MATCHES
type MatchesData struct {
	Resolved []MatchInfo `json:"resolved"`
	Missing  []string    `json:"missing,omitempty"`
}

// MutationInfo is one mutation outcome from an apply. Error is empty on
// success.
type MutationInfo struct {
	Window string `json:"window"`
	Step   string `json:"step"`
	Error  string `json:"error,omitempty"`
}

// ApplyData represents the data returned by APPLY_PROFILE
type ApplyData struct {
	ReportID   string         `json:"report_id"`
	Profile    string         `json:"profile"`
	Applied    []string       `json:"applied,omitempty"`
	Missing    []string       `json:"missing,omitempty"`
	Failed     int            `json:"failed"`
	DurationMS int64          `json:"duration_ms"`
	Mutations  []MutationInfo `json:"mutations,omitempty"`
}

// DetectData represents the data returned by DETECT_PROFILE
type DetectData struct {
	Profile string `json:"profile"`
}

// GenerateLayoutPayload represents the payload for GENERATE_LAYOUT.
// Preset < 0 advances the daemon's preset cycler for that count; a
// non-negative Preset uses that index without advancing.
type GenerateLayoutPayload struct {
	Count  int  `json:"count"`
	Preset int  `json:"preset"`
	Apply  bool `json:"apply,omitempty"`
}

// PaneInfo is one generated window placement
type PaneInfo struct {
	X           int  `json:"x"`
	Y           int  `json:"y"`
	Width       int  `json:"width"`
	Height      int  `json:"height"`
	AlwaysOnTop bool `json:"always_on_top"`
	Titlebar    bool `json:"titlebar"`
}

// GenerateData represents the data returned by GENERATE_LAYOUT
type GenerateData struct {
	Count  int        `json:"count"`
	Preset int        `json:"preset"`
	Panes  []PaneInfo `json:"panes"`
	Report *ApplyData `json:"report,omitempty"`
}

// SaveData represents the data returned by SAVE_PROFILE
type SaveData struct {
	Profile string `json:"profile"`
	Windows int    `json:"windows"`
}

// ToggleAOTPayload represents the payload for TOGGLE_AOT. An empty Title
// targets the active window.
type ToggleAOTPayload struct {
	Title string `json:"title,omitempty"`
}

// AOTData represents the data returned by TOGGLE_AOT and AOT_STATUS
type AOTData struct {
	Pinned bool   `json:"pinned,omitempty"`
	Status string `json:"status"`
}

// DriftWatchPayload represents the payload for DRIFT_WATCH
type DriftWatchPayload struct {
	Enable     bool   `json:"enable"`
	Profile    string `json:"profile,omitempty"`
	IntervalMS int    `json:"interval_ms,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
