package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ultratile/ultratile/internal/ipc"
)

// model is the root bubbletea model for the TUI.
type model struct {
	client *ipc.Client

	activeTab Tab

	profilesTab ProfilesTab
	windowsTab  WindowsTab
	presetsTab  PresetsTab
	saveOverlay SaveOverlay

	// Latest status snapshot from the daemon, shown in the status bar.
	daemonConnected bool
	activeProfile   string
	driftWatch      bool
	aotStatus       string

	width  int
	height int
}

func newModel(client *ipc.Client) model {
	m := model{
		client:    client,
		activeTab: TabProfiles,
	}

	if err := client.Ping(); err == nil {
		m.refreshDaemonStatus()
	}

	m.profilesTab = NewProfilesTab(client)
	m.windowsTab = NewWindowsTab(client)
	m.presetsTab = NewPresetsTab(client)

	return m
}

func (m *model) refreshDaemonStatus() {
	st, err := m.client.GetStatus()
	if err != nil {
		m.daemonConnected = false
		m.activeProfile = ""
		m.driftWatch = false
		m.aotStatus = ""
		return
	}
	m.daemonConnected = true
	m.activeProfile = st.ActiveProfile
	m.driftWatch = st.DriftWatch
	m.aotStatus = st.AOTStatus
}

// contentHeight returns the height left for tab content under the four
// fixed chrome lines.
func (m model) contentHeight() int {
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Save overlay captures all input when active. Non-key messages still
	// flow through so the form's cursor and validation keep working.
	if m.saveOverlay.Active() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case tea.WindowSizeMsg:
			m.width = msg.Width
			m.height = msg.Height
		}

		prevPhase := m.saveOverlay.phase
		var cmd tea.Cmd
		m.saveOverlay, cmd = m.saveOverlay.Update(msg, m.client)
		// After a successful save, pick up the new profile everywhere
		if prevPhase == saveForm && m.saveOverlay.SaveSucceeded() {
			m.refreshDaemonStatus()
			m.profilesTab, _ = m.profilesTab.Update(refreshStatusMsg{})
		}
		return m, cmd
	}

	// ctrl+s captures the live windows as a named profile from any tab
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		return m, m.saveOverlay.Show(m.daemonConnected)
	}

	switch msg := msg.(type) {
	case refreshStatusMsg:
		m.refreshDaemonStatus()
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.profilesTab, cmd = m.profilesTab.Update(msg)
		cmds = append(cmds, cmd)
		m.windowsTab, cmd = m.windowsTab.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil

		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil

		case "1":
			// On the presets tab, digits set the window count; delegate below
			if m.activeTab != TabPresets {
				m.activeTab = TabProfiles
				return m, nil
			}
		case "2":
			if m.activeTab != TabPresets {
				m.activeTab = TabWindows
				return m, nil
			}
		case "3":
			if m.activeTab != TabPresets {
				m.activeTab = TabPresets
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Resize every tab, not just the visible one, so switching
		// tabs never shows a stale layout.
		subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		m.profilesTab, _ = m.profilesTab.Update(subMsg)
		m.windowsTab, _ = m.windowsTab.Update(subMsg)
		m.presetsTab, _ = m.presetsTab.Update(subMsg)
		return m, nil
	}

	// Anything unhandled belongs to the tab in front
	var cmd tea.Cmd
	switch m.activeTab {
	case TabProfiles:
		m.profilesTab, cmd = m.profilesTab.Update(msg)
	case TabWindows:
		m.windowsTab, cmd = m.windowsTab.Update(msg)
	case TabPresets:
		m.presetsTab, cmd = m.presetsTab.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := statusBarView(m.daemonConnected, m.activeProfile, m.aotStatus, m.driftWatch, m.width)
	tabBar := tabBarView(m.activeTab, m.width)
	helpBar := helpBarView(m.width)

	// Whatever the chrome doesn't take belongs to the active tab.
	contentHeight := m.height - lipgloss.Height(statusBar) - lipgloss.Height(tabBar) - lipgloss.Height(helpBar)
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	if m.saveOverlay.Active() {
		content = m.saveOverlay.View(m.width, contentHeight)
	} else {
		switch m.activeTab {
		case TabProfiles:
			content = m.profilesTab.View()
		case TabWindows:
			content = m.windowsTab.View()
		case TabPresets:
			content = m.presetsTab.View()
		default:
			content = placeholderView(m.activeTab, m.width, contentHeight)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
