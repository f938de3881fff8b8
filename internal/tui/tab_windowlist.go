package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ultratile/ultratile/internal/ipc"
	"github.com/ultratile/ultratile/internal/title"
)

// windowItem implements list.Item for the live window list.
type windowItem struct {
	win ipc.WindowInfo
}

func (i windowItem) Title() string {
	t := i.win.Title
	if t == "" {
		t = fmt.Sprintf("(untitled 0x%x)", i.win.ID)
	}
	return t
}

func (i windowItem) Description() string {
	return fmt.Sprintf("%d×%d at (%d,%d)", i.win.Width, i.win.Height, i.win.X, i.win.Y)
}

func (i windowItem) FilterValue() string { return i.win.Title }

// WindowsTab is the sub-model for the live window inspector tab.
type WindowsTab struct {
	list   list.Model
	client *ipc.Client

	windows []ipc.WindowInfo

	statusText string

	width  int
	height int
	ready  bool
}

// NewWindowsTab creates the windows sub-model and loads the live window
// list from the daemon.
func NewWindowsTab(client *ipc.Client) WindowsTab {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	wt := WindowsTab{
		list:   l,
		client: client,
	}
	wt.refreshFromDaemon()
	return wt
}

// Init implements tea.Model.
func (wt WindowsTab) Init() tea.Cmd { return nil }

// Update handles messages for the windows tab.
func (wt WindowsTab) Update(msg tea.Msg) (WindowsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		wt.width = msg.Width
		wt.height = msg.Height
		wt.updateListSize()
		wt.ready = true
		return wt, nil

	case statusMsg:
		wt.statusText = msg.text
		return wt, clearStatusAfterDelay()

	case clearStatusMsg:
		wt.statusText = ""
		return wt, nil

	case refreshStatusMsg:
		wt.refreshFromDaemon()
		return wt, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "R":
			wt.refreshFromDaemon()
			wt.statusText = fmt.Sprintf("%d window(s)", len(wt.windows))
			return wt, clearStatusAfterDelay()
		case "t":
			return wt.togglePinSelected()
		}
	}

	var cmd tea.Cmd
	wt.list, cmd = wt.list.Update(msg)
	return wt, cmd
}

func (wt *WindowsTab) updateListSize() {
	listHeight := wt.height - 2
	if listHeight < 1 {
		listHeight = 1
	}
	wt.list.SetSize(wt.listWidth(), listHeight)
}

func (wt WindowsTab) listWidth() int {
	w := wt.width * 2 / 5
	if w < 20 {
		w = 20
	}
	return w
}

func (wt WindowsTab) selectedWindow() (ipc.WindowInfo, bool) {
	item, ok := wt.list.SelectedItem().(windowItem)
	if !ok {
		return ipc.WindowInfo{}, false
	}
	return item.win, true
}

func (wt WindowsTab) togglePinSelected() (WindowsTab, tea.Cmd) {
	win, ok := wt.selectedWindow()
	if !ok || win.Title == "" {
		return wt, nil
	}
	data, err := wt.client.ToggleAOT(win.Title)
	if err != nil {
		wt.statusText = fmt.Sprintf("error: %v", err)
		return wt, clearStatusAfterDelay()
	}
	if data.Pinned {
		wt.statusText = "pinned on top: " + win.Title
	} else {
		wt.statusText = "unpinned: " + win.Title
	}
	return wt, tea.Batch(
		clearStatusAfterDelay(),
		func() tea.Msg { return refreshStatusMsg{} },
	)
}

func (wt *WindowsTab) refreshFromDaemon() {
	if wt.client == nil {
		return
	}
	data, err := wt.client.ListWindows()
	if err != nil {
		wt.windows = nil
		wt.list.SetItems(nil)
		return
	}
	wt.windows = data.Windows

	items := make([]list.Item, 0, len(wt.windows))
	for _, w := range wt.windows {
		items = append(items, windowItem{win: w})
	}
	wt.list.SetItems(items)
}

// View implements tea.Model.
func (wt WindowsTab) View() string {
	if !wt.ready || wt.width == 0 || wt.height == 0 {
		return ""
	}

	leftWidth := wt.listWidth()
	rightWidth := wt.width - leftWidth
	if rightWidth < 10 {
		rightWidth = 10
	}
	contentHeight := wt.height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(contentHeight).
		Render(wt.list.View())

	var right string
	if win, ok := wt.selectedWindow(); ok {
		right = renderWindowDetail(win, rightWidth, contentHeight)
	} else {
		right = lipgloss.NewStyle().
			Width(rightWidth).
			Height(contentHeight).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No windows\nPress R to refresh")
	}

	columns := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	status := wt.renderTabStatus()

	return lipgloss.JoinVertical(lipgloss.Left, columns, status)
}

// renderWindowDetail renders the right-side detail pane for the selected
// window, including the profile key its title would be stored under.
func renderWindowDetail(win ipc.WindowInfo, width, height int) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	name := win.Title
	if name == "" {
		name = "(untitled)"
	}
	b.WriteString(titleStyle.Render(name))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("248")).Width(14)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	field("id:", fmt.Sprintf("0x%08x", win.ID))
	if win.PID > 0 {
		field("pid:", fmt.Sprintf("%d", win.PID))
	}
	field("process:", win.Process)
	field("position:", fmt.Sprintf("%d, %d", win.X, win.Y))
	field("size:", fmt.Sprintf("%d × %d", win.Width, win.Height))

	if key := title.Titlecase(title.Sanitize(win.Title)); key != "" {
		b.WriteString("\n")
		field("profile key:", key)
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	b.WriteString(helpStyle.Render("t: pin/unpin on top  R: refresh"))

	style := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(lipgloss.Color("236"))

	return style.Render(b.String())
}

func (wt WindowsTab) renderTabStatus() string {
	left := ""
	if wt.statusText != "" {
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render(wt.statusText)
	}

	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(fmt.Sprintf("%d window(s)  t:pin  R:refresh", len(wt.windows)))

	gap := wt.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(wt.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
