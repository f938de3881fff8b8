package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ultratile/ultratile/internal/ipc"
)

// profileItem implements list.Item for the profile picker sidebar.
type profileItem struct {
	name     string
	isActive bool
}

func (i profileItem) Title() string {
	prefix := "  "
	if i.isActive {
		prefix = "* "
	}
	return prefix + i.name
}

func (i profileItem) Description() string { return "" }
func (i profileItem) FilterValue() string { return i.name }

// statusMsg is sent after an IPC action completes.
type statusMsg struct {
	text string
}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

// refreshStatusMsg triggers a refresh of daemon state after a mutation.
type refreshStatusMsg struct{}

// clearStatusAfterDelay expires a tab status line.
func clearStatusAfterDelay() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// ProfilesTab is the sub-model for the profile browser tab.
type ProfilesTab struct {
	list   list.Model
	client *ipc.Client

	profiles      []string
	activeProfile string
	watching      bool

	// Matches fetched for matchName, shown in the detail pane.
	matchName string
	matches   *ipc.MatchesData

	statusText string

	width  int
	height int
	ready  bool
}

// NewProfilesTab creates the profiles sub-model and loads the stored
// profile names from the daemon.
func NewProfilesTab(client *ipc.Client) ProfilesTab {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Profiles"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	pt := ProfilesTab{
		list:   l,
		client: client,
	}
	pt.refreshFromDaemon()
	pt.rebuildItems()
	return pt
}

// Init implements tea.Model.
func (pt ProfilesTab) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (pt ProfilesTab) Update(msg tea.Msg) (ProfilesTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pt.width = msg.Width
		pt.height = msg.Height
		pt.updateListSize()
		pt.ready = true
		return pt, nil

	case statusMsg:
		pt.statusText = msg.text
		return pt, clearStatusAfterDelay()

	case clearStatusMsg:
		pt.statusText = ""
		return pt, nil

	case refreshStatusMsg:
		pt.refreshFromDaemon()
		pt.rebuildItems()
		return pt, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "a":
			return pt.applySelected()
		case "r":
			return pt.resetSelected()
		case "x", "delete":
			return pt.deleteSelected()
		case "w":
			return pt.toggleWatchSelected()
		case "d":
			return pt.detect()
		case "m":
			return pt.matchSelected()
		case "R":
			pt.refreshFromDaemon()
			pt.rebuildItems()
			return pt.status("refreshed")
		}
	}

	var cmd tea.Cmd
	pt.list, cmd = pt.list.Update(msg)
	return pt, cmd
}

func (pt *ProfilesTab) updateListSize() {
	sidebarWidth := pt.sidebarWidth()
	// Reserve 2 lines for status bar at bottom of the tab content
	listHeight := pt.height - 2
	if listHeight < 1 {
		listHeight = 1
	}
	pt.list.SetSize(sidebarWidth, listHeight)
}

func (pt ProfilesTab) sidebarWidth() int {
	// Sidebar takes ~35% of width, min 20, max 40
	sw := pt.width * 35 / 100
	if sw < 20 {
		sw = 20
	}
	if sw > 40 {
		sw = 40
	}
	return sw
}

func (pt ProfilesTab) selectedName() string {
	item, ok := pt.list.SelectedItem().(profileItem)
	if !ok {
		return ""
	}
	return item.name
}

// status sets a transient status line and schedules its expiry.
func (pt ProfilesTab) status(text string) (ProfilesTab, tea.Cmd) {
	pt.statusText = text
	return pt, clearStatusAfterDelay()
}

// statusAndRefresh is status plus a daemon-state refresh broadcast.
func (pt ProfilesTab) statusAndRefresh(text string) (ProfilesTab, tea.Cmd) {
	pt.statusText = text
	return pt, tea.Batch(
		clearStatusAfterDelay(),
		func() tea.Msg { return refreshStatusMsg{} },
	)
}

func (pt ProfilesTab) applySelected() (ProfilesTab, tea.Cmd) {
	name := pt.selectedName()
	if name == "" {
		return pt, nil
	}
	report, err := pt.client.ApplyProfile(name)
	if err != nil {
		return pt.status(fmt.Sprintf("error: %v", err))
	}
	text := fmt.Sprintf("applied %s: %d window(s) in %dms", name, len(report.Applied), report.DurationMS)
	if len(report.Missing) > 0 {
		text += fmt.Sprintf(", %d missing", len(report.Missing))
	}
	if report.Failed > 0 {
		text += fmt.Sprintf(", %d failed", report.Failed)
	}
	return pt.statusAndRefresh(text)
}

func (pt ProfilesTab) resetSelected() (ProfilesTab, tea.Cmd) {
	name := pt.selectedName()
	if name == "" {
		return pt, nil
	}
	if err := pt.client.ResetProfile(name); err != nil {
		return pt.status(fmt.Sprintf("error: %v", err))
	}
	return pt.statusAndRefresh("reset: " + name)
}

func (pt ProfilesTab) deleteSelected() (ProfilesTab, tea.Cmd) {
	name := pt.selectedName()
	if name == "" {
		return pt, nil
	}
	if err := pt.client.DeleteProfile(name); err != nil {
		return pt.status(fmt.Sprintf("error: %v", err))
	}
	if pt.matchName == name {
		pt.matchName = ""
		pt.matches = nil
	}
	return pt.statusAndRefresh("deleted: " + name)
}

func (pt ProfilesTab) toggleWatchSelected() (ProfilesTab, tea.Cmd) {
	if pt.watching {
		if err := pt.client.StopDriftWatch(); err != nil {
			return pt.status(fmt.Sprintf("error: %v", err))
		}
		return pt.statusAndRefresh("drift watch stopped")
	}
	name := pt.selectedName()
	if name == "" {
		return pt, nil
	}
	if err := pt.client.StartDriftWatch(name, 0); err != nil {
		return pt.status(fmt.Sprintf("error: %v", err))
	}
	return pt.statusAndRefresh("watching: " + name)
}

func (pt ProfilesTab) detect() (ProfilesTab, tea.Cmd) {
	data, err := pt.client.DetectProfile()
	if err != nil {
		return pt.status(fmt.Sprintf("error: %v", err))
	}
	return pt.status("best match: " + data.Profile)
}

func (pt ProfilesTab) matchSelected() (ProfilesTab, tea.Cmd) {
	name := pt.selectedName()
	if name == "" {
		return pt, nil
	}
	matches, err := pt.client.FindMatches(name)
	if err != nil {
		return pt.status(fmt.Sprintf("error: %v", err))
	}
	pt.matchName = name
	pt.matches = matches
	return pt, nil
}

func (pt *ProfilesTab) refreshFromDaemon() {
	if pt.client == nil {
		return
	}
	data, err := pt.client.ListProfiles()
	if err != nil {
		pt.profiles = nil
		pt.activeProfile = ""
		pt.watching = false
		return
	}
	pt.profiles = data.Profiles

	if st, err := pt.client.GetStatus(); err == nil {
		pt.activeProfile = st.ActiveProfile
		pt.watching = st.DriftWatch
	}
}

func (pt *ProfilesTab) rebuildItems() {
	items := make([]list.Item, 0, len(pt.profiles))
	for _, name := range pt.profiles {
		items = append(items, profileItem{
			name:     name,
			isActive: name == pt.activeProfile,
		})
	}
	pt.list.SetItems(items)
}

// View implements tea.Model.
func (pt ProfilesTab) View() string {
	if !pt.ready || pt.width == 0 || pt.height == 0 {
		return ""
	}

	sidebarWidth := pt.sidebarWidth()
	detailWidth := pt.width - sidebarWidth - 3 // 3 for separator + padding
	if detailWidth < 10 {
		detailWidth = 10
	}

	sidebar := pt.list.View()
	sidebarStyle := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(pt.height - 2) // reserve for status
	sidebar = sidebarStyle.Render(sidebar)

	detail := pt.renderDetail(detailWidth)

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.Repeat("│\n", pt.height-2))

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, detail)
	status := pt.renderTabStatus()

	return lipgloss.JoinVertical(lipgloss.Left, columns, status)
}

func (pt ProfilesTab) renderDetail(width int) string {
	name := pt.selectedName()
	if name == "" {
		return lipgloss.NewStyle().
			Width(width).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Height(pt.height - 2).
			Render("No profiles stored\nPress ctrl-s to capture the current windows")
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(" " + name)

	var body string
	if pt.matches != nil && pt.matchName == name {
		body = renderMatchDetail(pt.matches, width)
	} else {
		body = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render(" press m to match against live windows")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, "", body)
}

// renderMatchDetail lists resolved and missing specs for a profile.
func renderMatchDetail(matches *ipc.MatchesData, width int) string {
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	missStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	fadeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	var b strings.Builder
	for _, m := range matches.Resolved {
		line := fmt.Sprintf(" %s %s", okStyle.Render("✓"), m.Name)
		if m.Title != "" && m.Title != m.Name {
			line += fadeStyle.Render("  → " + m.Title)
		}
		b.WriteString(truncateLine(line, width))
		b.WriteString("\n")
	}
	for _, name := range matches.Missing {
		b.WriteString(truncateLine(fmt.Sprintf(" %s %s", missStyle.Render("✗"), name), width))
		b.WriteString("\n")
	}
	if len(matches.Resolved) == 0 && len(matches.Missing) == 0 {
		b.WriteString(fadeStyle.Render(" profile has no window entries"))
	}
	return b.String()
}

func truncateLine(s string, width int) string {
	if width < 4 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}

func (pt ProfilesTab) renderTabStatus() string {
	left := ""
	if pt.statusText != "" {
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render(pt.statusText)
	}

	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("enter/a:apply  r:reset  m:match  w:watch  d:detect  x:delete  R:refresh")

	gap := pt.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(pt.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
