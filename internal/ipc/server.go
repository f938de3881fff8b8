package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/ultratile/ultratile/internal/config"
	"github.com/ultratile/ultratile/internal/engine"
	"github.com/ultratile/ultratile/internal/layout"
	"github.com/ultratile/ultratile/internal/platform"
	"github.com/ultratile/ultratile/internal/profile"
	"github.com/ultratile/ultratile/internal/runtimepath"
	"github.com/ultratile/ultratile/internal/title"
)

// Deps carries everything the server needs from the daemon.
type Deps struct {
	Config     *config.Config
	ConfigPath string // reread on RELOAD_CONFIG
	Engine     *engine.Engine
	Profiles   *profile.Store
	Presets    *layout.Store
	Backend    platform.Backend
	ReloadChan chan struct{}
}

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	configPath string
	listener   net.Listener

	cfg         *config.Config
	profiles    *profile.Store
	lastProfile string
	cfgMu       sync.RWMutex

	eng     *engine.Engine
	presets *layout.Store
	backend platform.Backend

	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(deps Deps) (*Server, error) {
	socketPath := deps.Config.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		configPath: deps.ConfigPath,
		cfg:        deps.Config,
		profiles:   deps.Profiles,
		eng:        deps.Engine,
		presets:    deps.Presets,
		backend:    deps.Backend,
		startTime:  time.Now(),
		reloadChan: deps.ReloadChan,
	}, nil
}

// SocketPath returns the socket the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Handle command
	resp := s.handleCommand(req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandPing:
		resp, _ := NewOKResponse(nil)
		return resp
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListWindows:
		return s.handleListWindows()
	case CommandListProfiles:
		return s.handleListProfiles()
	case CommandFindMatches:
		return s.handleFindMatches(req.Payload)
	case CommandApplyProfile:
		return s.handleApplyProfile(req.Payload)
	case CommandResetProfile:
		return s.handleResetProfile(req.Payload)
	case CommandResetAll:
		return s.handleResetAll()
	case CommandDetectProfile:
		return s.handleDetectProfile()
	case CommandGenerateLayout:
		return s.handleGenerateLayout(req.Payload)
	case CommandSaveProfile:
		return s.handleSaveProfile(req.Payload)
	case CommandDeleteProfile:
		return s.handleDeleteProfile(req.Payload)
	case CommandToggleAOT:
		return s.handleToggleAOT(req.Payload)
	case CommandAOTStatus:
		resp, _ := NewOKResponse(AOTData{Status: s.eng.AOTStatus()})
		return resp
	case CommandDriftWatch:
		return s.handleDriftWatch(req.Payload)
	case CommandReloadConfig:
		return s.handleReloadConfig()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	profileCount := 0
	if names, err := s.profileStore().List(); err == nil {
		profileCount = len(names)
	}

	s.cfgMu.RLock()
	active := s.lastProfile
	s.cfgMu.RUnlock()

	status := StatusData{
		DaemonRunning:  true,
		UptimeSeconds:  int64(time.Since(s.startTime).Seconds()),
		ProfileCount:   profileCount,
		ManagedWindows: s.eng.ManagedCount(),
		DriftWatch:     s.eng.Watching(),
		ActiveProfile:  active,
		AOTStatus:      s.eng.AOTStatus(),
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// handleListWindows returns the manageable windows
func (s *Server) handleListWindows() *Response {
	wins, err := s.eng.Windows()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
	}

	infos := make([]WindowInfo, len(wins))
	for i, w := range wins {
		infos[i] = windowInfo(w)
	}

	resp, _ := NewOKResponse(WindowsData{Windows: infos})
	return resp
}

// handleListProfiles returns the stored profile names
func (s *Server) handleListProfiles() *Response {
	names, err := s.profileStore().List()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list profiles: %v", err))
	}

	resp, _ := NewOKResponse(ProfilesData{Profiles: names})
	return resp
}

// handleFindMatches resolves a profile against the live windows
func (s *Server) handleFindMatches(payload json.RawMessage) *Response {
	var req ProfilePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid matches payload: %v", err))
	}
	if req.Name == "" {
		return NewErrorResponse("name is required")
	}

	p, err := s.profileStore().Load(req.Name)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to load profile: %v", err))
	}

	wins, err := s.eng.Windows()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
	}

	matches := profile.FindMatches(p, wins)
	data := MatchesData{Missing: matches.Missing}
	for _, m := range matches.Resolved {
		data.Resolved = append(data.Resolved, MatchInfo{
			Name:     m.Spec.Name,
			WindowID: uint64(m.Window.ID),
			Title:    m.Window.Title,
		})
	}

	resp, _ := NewOKResponse(data)
	return resp
}

// handleApplyProfile loads a profile and applies it
func (s *Server) handleApplyProfile(payload json.RawMessage) *Response {
	var req ProfilePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid apply payload: %v", err))
	}
	if req.Name == "" {
		return NewErrorResponse("name is required")
	}

	p, err := s.profileStore().Load(req.Name)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to load profile: %v", err))
	}

	log.Printf("IPC: Applying profile '%s'", p.Name)

	report, err := s.eng.Apply(context.Background(), p)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to apply profile: %v", err))
	}

	s.cfgMu.Lock()
	s.lastProfile = p.Name
	s.cfgMu.Unlock()

	resp, _ := NewOKResponse(applyData(report))
	return resp
}

// ApplyStored loads a stored profile and applies it, recording it as the
// active profile. Detect-on-start uses this so the applied profile shows up
// in GET_STATUS like any IPC apply.
func (s *Server) ApplyStored(name string) (*engine.ApplyReport, error) {
	p, err := s.profileStore().Load(name)
	if err != nil {
		return nil, err
	}

	report, err := s.eng.Apply(context.Background(), p)
	if err != nil {
		return nil, err
	}

	s.cfgMu.Lock()
	s.lastProfile = p.Name
	s.cfgMu.Unlock()

	return report, nil
}

// handleResetProfile restores the windows a profile matches
func (s *Server) handleResetProfile(payload json.RawMessage) *Response {
	var req ProfilePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid reset payload: %v", err))
	}
	if req.Name == "" {
		return NewErrorResponse("name is required")
	}

	p, err := s.profileStore().Load(req.Name)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to load profile: %v", err))
	}

	if err := s.eng.Reset(context.Background(), p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reset profile: %v", err))
	}

	s.clearLastProfile(p.Name)

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleResetAll restores every managed window
func (s *Server) handleResetAll() *Response {
	s.eng.StopDriftWatch()

	if err := s.eng.ResetAll(context.Background()); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reset windows: %v", err))
	}

	s.cfgMu.Lock()
	s.lastProfile = ""
	s.cfgMu.Unlock()

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleDetectProfile picks the stored profile that best fits the live
// windows
func (s *Server) handleDetectProfile() *Response {
	profiles, err := s.loadAllProfiles()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to load profiles: %v", err))
	}

	wins, err := s.eng.Windows()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
	}

	name, ok := profile.SelectDefault(profiles, wins)
	if !ok {
		return NewErrorResponse("No profiles stored")
	}

	resp, _ := NewOKResponse(DetectData{Profile: name})
	return resp
}

// handleGenerateLayout produces pane geometry for the primary display and
// optionally applies it to the leftmost live windows
func (s *Server) handleGenerateLayout(payload json.RawMessage) *Response {
	var req GenerateLayoutPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid layout payload: %v", err))
	}

	screen, err := s.primaryScreen()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get displays: %v", err))
	}

	preset := req.Preset
	if preset < 0 {
		preset = s.presets.NextPreset(req.Count)
	}

	panes, err := layout.Generate(req.Count, preset, screen)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to generate layout: %v", err))
	}

	data := GenerateData{Count: req.Count, Preset: preset}
	for _, p := range panes {
		data.Panes = append(data.Panes, PaneInfo{
			X: p.X, Y: p.Y, Width: p.Width, Height: p.Height,
			AlwaysOnTop: p.AlwaysOnTop, Titlebar: p.Titlebar,
		})
	}

	if req.Apply {
		report, err := s.applyPanes(panes, preset)
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to apply layout: %v", err))
		}
		data.Report = applyData(report)
	}

	resp, _ := NewOKResponse(data)
	return resp
}

// applyPanes assigns generated panes to the leftmost live windows, in
// screen order, and runs them through the engine as a transient profile.
func (s *Server) applyPanes(panes []layout.Pane, preset int) (*engine.ApplyReport, error) {
	wins, err := s.eng.Windows()
	if err != nil {
		return nil, err
	}
	if len(wins) < len(panes) {
		return nil, fmt.Errorf("need %d windows, have %d", len(panes), len(wins))
	}

	sort.Slice(wins, func(i, j int) bool {
		if wins[i].Bounds.X != wins[j].Bounds.X {
			return wins[i].Bounds.X < wins[j].Bounds.X
		}
		return wins[i].ID < wins[j].ID
	})

	p := &profile.Profile{Name: fmt.Sprintf("layout-%d-%d", len(panes), preset)}
	for i, pane := range panes {
		w := wins[i]
		if key := title.Titlecase(title.Sanitize(w.Title)); key != "" {
			s.presets.ApplyOffset(key, &pane)
		}
		p.Windows = append(p.Windows, profile.WindowSpec{
			Name:        w.Title,
			X:           pane.X,
			Y:           pane.Y,
			Width:       pane.Width,
			Height:      pane.Height,
			AlwaysOnTop: pane.AlwaysOnTop,
			Titlebar:    pane.Titlebar,
		})
	}

	return s.eng.Apply(context.Background(), p)
}

// CycleApply advances the preset cycle for count windows and applies the
// result to the live windows. count <= 0 uses the live window count, capped
// at layout.MaxWindows. The daemon's cycle-layout hotkey drives this; IPC
// clients use GENERATE_LAYOUT instead.
func (s *Server) CycleApply(count int) (int, *engine.ApplyReport, error) {
	if count <= 0 {
		wins, err := s.eng.Windows()
		if err != nil {
			return 0, nil, err
		}
		count = len(wins)
		if count > layout.MaxWindows {
			count = layout.MaxWindows
		}
	}
	if count == 0 {
		return 0, nil, fmt.Errorf("no windows to arrange")
	}

	screen, err := s.primaryScreen()
	if err != nil {
		return 0, nil, err
	}

	preset := s.presets.NextPreset(count)
	panes, err := layout.Generate(count, preset, screen)
	if err != nil {
		return preset, nil, err
	}

	report, err := s.applyPanes(panes, preset)
	return preset, report, err
}

// handleSaveProfile captures the live windows into a named profile
func (s *Server) handleSaveProfile(payload json.RawMessage) *Response {
	var req ProfilePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid save payload: %v", err))
	}
	if req.Name == "" {
		return NewErrorResponse("name is required")
	}

	wins, err := s.eng.Windows()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
	}

	specs := profile.Capture(s.backend, wins)
	if len(specs) == 0 {
		return NewErrorResponse("No windows to save")
	}

	p := &profile.Profile{Name: req.Name, Windows: specs}
	if err := s.profileStore().Save(p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to save profile: %v", err))
	}

	log.Printf("IPC: Saved profile '%s' (%d windows)", p.Name, len(specs))

	resp, _ := NewOKResponse(SaveData{Profile: p.Name, Windows: len(specs)})
	return resp
}

// handleDeleteProfile removes a stored profile
func (s *Server) handleDeleteProfile(payload json.RawMessage) *Response {
	var req ProfilePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid delete payload: %v", err))
	}
	if req.Name == "" {
		return NewErrorResponse("name is required")
	}

	if err := s.profileStore().Delete(req.Name); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to delete profile: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleToggleAOT pins or unpins a window outside any profile
func (s *Server) handleToggleAOT(payload json.RawMessage) *Response {
	var req ToggleAOTPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid toggle payload: %v", err))
		}
	}

	var id platform.WindowID
	if req.Title == "" {
		active, err := s.backend.ActiveWindow()
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to get active window: %v", err))
		}
		id = active
	} else {
		wins, err := s.eng.Windows()
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to list windows: %v", err))
		}
		w, ok := profile.FindWindow(req.Title, wins)
		if !ok {
			return NewErrorResponse(fmt.Sprintf("No window matches '%s'", req.Title))
		}
		id = w.ID
	}

	pinned, err := s.eng.ToggleAOT(id)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to toggle always-on-top: %v", err))
	}

	resp, _ := NewOKResponse(AOTData{Pinned: pinned, Status: s.eng.AOTStatus()})
	return resp
}

// handleDriftWatch starts or stops the drift watcher
func (s *Server) handleDriftWatch(payload json.RawMessage) *Response {
	var req DriftWatchPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid drift payload: %v", err))
	}

	if !req.Enable {
		s.eng.StopDriftWatch()
		resp, _ := NewOKResponse(nil)
		return resp
	}

	if req.Profile == "" {
		return NewErrorResponse("profile is required")
	}
	p, err := s.profileStore().Load(req.Profile)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to load profile: %v", err))
	}

	interval := time.Duration(req.IntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = s.GetConfig().PollInterval()
	}

	if err := s.eng.StartDriftWatch(p, interval); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to start drift watch: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleReloadConfig reloads the configuration
func (s *Server) handleReloadConfig() *Response {
	log.Println("IPC: Received RELOAD_CONFIG command")

	// Load new config
	newCfg, err := config.LoadFromPath(s.configPath)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	// Update config atomically
	s.cfgMu.Lock()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	log.Println("IPC: Config reloaded successfully")

	resp, _ := NewOKResponse(nil)
	return resp
}

// loadAllProfiles loads every stored profile in list order. A profile that
// fails to load is skipped, not fatal.
func (s *Server) loadAllProfiles() ([]*profile.Profile, error) {
	store := s.profileStore()
	names, err := store.List()
	if err != nil {
		return nil, err
	}

	profiles := make([]*profile.Profile, 0, len(names))
	for _, name := range names {
		p, err := store.Load(name)
		if err != nil {
			log.Printf("IPC: skipping unreadable profile '%s': %v", name, err)
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// primaryScreen maps the first display onto layout's screen shape, with the
// configured taskbar band.
func (s *Server) primaryScreen() (layout.Screen, error) {
	displays, err := s.backend.Displays()
	if err != nil {
		return layout.Screen{}, err
	}
	if len(displays) == 0 {
		return layout.Screen{}, fmt.Errorf("no displays found")
	}

	d := displays[0]
	return layout.Screen{
		W:        d.Bounds.Width,
		H:        d.Bounds.Height,
		TaskbarH: s.GetConfig().TaskbarHeight,
	}, nil
}

func (s *Server) clearLastProfile(name string) {
	s.cfgMu.Lock()
	if s.lastProfile == name {
		s.lastProfile = ""
	}
	s.cfgMu.Unlock()
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}

// UpdateProfiles swaps the profile store, used when a reload moves
// profile_dir (thread-safe)
func (s *Server) UpdateProfiles(store *profile.Store) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.profiles = store
}

func (s *Server) profileStore() *profile.Store {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.profiles
}

func windowInfo(w platform.Window) WindowInfo {
	return WindowInfo{
		ID:      uint64(w.ID),
		PID:     w.PID,
		Process: w.Process,
		Title:   w.Title,
		X:       w.Bounds.X,
		Y:       w.Bounds.Y,
		Width:   w.Bounds.Width,
		Height:  w.Bounds.Height,
	}
}

func applyData(r *engine.ApplyReport) *ApplyData {
	data := &ApplyData{
		ReportID:   r.ID,
		Profile:    r.Profile,
		Applied:    r.Applied,
		Missing:    r.Missing,
		Failed:     r.Failed(),
		DurationMS: r.Duration.Milliseconds(),
	}
	for _, m := range r.Mutations {
		data.Mutations = append(data.Mutations, MutationInfo{
			Window: m.Window,
			Step:   m.Step,
			Error:  m.Error,
		})
	}
	return data
}
