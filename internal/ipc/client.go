package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/ultratile/ultratile/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path, used when the
// config overrides socket_path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	// Connect to socket
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	// Set deadline
	conn.SetDeadline(time.Now().Add(c.timeout))

	// Marshal request
	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Send request
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	// Read response
	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Parse response
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for error response
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// sendProfileRequest sends a command that takes only a profile name
func (c *Client) sendProfileRequest(cmd CommandType, name string) (*Response, error) {
	payload, err := json.Marshal(ProfilePayload{Name: name})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return c.sendRequest(&Request{Command: cmd, Payload: payload})
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.sendRequest(&Request{Command: CommandPing})
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// ListWindows retrieves the manageable live windows
func (c *Client) ListWindows() (*WindowsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListWindows})
	if err != nil {
		return nil, err
	}

	var data WindowsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}

	return &data, nil
}

// ListProfiles retrieves the stored profile names
func (c *Client) ListProfiles() (*ProfilesData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListProfiles})
	if err != nil {
		return nil, err
	}

	var data ProfilesData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse profiles data: %w", err)
	}

	return &data, nil
}

// FindMatches resolves a profile against the live windows
func (c *Client) FindMatches(name string) (*MatchesData, error) {
	resp, err := c.sendProfileRequest(CommandFindMatches, name)
	if err != nil {
		return nil, err
	}

	var data MatchesData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse matches data: %w", err)
	}

	return &data, nil
}

// ApplyProfile applies a stored profile and returns the apply report
func (c *Client) ApplyProfile(name string) (*ApplyData, error) {
	resp, err := c.sendProfileRequest(CommandApplyProfile, name)
	if err != nil {
		return nil, err
	}

	var data ApplyData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse apply data: %w", err)
	}

	return &data, nil
}

// ResetProfile restores the windows a stored profile matches
func (c *Client) ResetProfile(name string) error {
	_, err := c.sendProfileRequest(CommandResetProfile, name)
	return err
}

// ResetAll restores every managed window
func (c *Client) ResetAll() error {
	_, err := c.sendRequest(&Request{Command: CommandResetAll})
	return err
}

// DetectProfile asks the daemon which stored profile best fits the live
// windows
func (c *Client) DetectProfile() (*DetectData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandDetectProfile})
	if err != nil {
		return nil, err
	}

	var data DetectData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse detect data: %w", err)
	}

	return &data, nil
}

// GenerateLayout asks the daemon for pane geometry. preset < 0 advances the
// daemon's cycler; apply moves the live windows into the panes.
func (c *Client) GenerateLayout(count, preset int, apply bool) (*GenerateData, error) {
	payload, err := json.Marshal(GenerateLayoutPayload{
		Count:  count,
		Preset: preset,
		Apply:  apply,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal layout payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandGenerateLayout, Payload: payload})
	if err != nil {
		return nil, err
	}

	var data GenerateData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse layout data: %w", err)
	}

	return &data, nil
}

// SaveProfile captures the live windows into a named profile
func (c *Client) SaveProfile(name string) (*SaveData, error) {
	resp, err := c.sendProfileRequest(CommandSaveProfile, name)
	if err != nil {
		return nil, err
	}

	var data SaveData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse save data: %w", err)
	}

	return &data, nil
}

// DeleteProfile removes a stored profile
func (c *Client) DeleteProfile(name string) error {
	_, err := c.sendProfileRequest(CommandDeleteProfile, name)
	return err
}

// ToggleAOT pins or unpins a window. An empty title targets the active
// window.
func (c *Client) ToggleAOT(title string) (*AOTData, error) {
	payload, err := json.Marshal(ToggleAOTPayload{Title: title})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal toggle payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandToggleAOT, Payload: payload})
	if err != nil {
		return nil, err
	}

	var data AOTData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse toggle data: %w", err)
	}

	return &data, nil
}

// AOTStatus reports how many windows are pinned
func (c *Client) AOTStatus() (string, error) {
	resp, err := c.sendRequest(&Request{Command: CommandAOTStatus})
	if err != nil {
		return "", err
	}

	var data AOTData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return "", fmt.Errorf("failed to parse status data: %w", err)
	}

	return data.Status, nil
}

// StartDriftWatch asks the daemon to keep a profile applied. intervalMS 0
// uses the daemon's poll_interval_ms.
func (c *Client) StartDriftWatch(profileName string, intervalMS int) error {
	payload, err := json.Marshal(DriftWatchPayload{
		Enable:     true,
		Profile:    profileName,
		IntervalMS: intervalMS,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal drift payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandDriftWatch, Payload: payload})
	return err
}

// StopDriftWatch stops the daemon's drift watcher
func (c *Client) StopDriftWatch() error {
	payload, err := json.Marshal(DriftWatchPayload{Enable: false})
	if err != nil {
		return fmt.Errorf("failed to marshal drift payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandDriftWatch, Payload: payload})
	return err
}

// ReloadConfig sends a RELOAD_CONFIG command to the daemon
func (c *Client) ReloadConfig() error {
	_, err := c.sendRequest(&Request{Command: CommandReloadConfig})
	return err
}
