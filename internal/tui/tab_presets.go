package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ultratile/ultratile/internal/ipc"
	"github.com/ultratile/ultratile/internal/layout"
)

// PresetsTab is the sub-model for the preset preview tab. The preview is
// computed locally on a simulated 1920×1080 screen; apply hands the chosen
// count and preset to the daemon to place real windows.
type PresetsTab struct {
	client *ipc.Client

	count   int
	presets [layout.MaxWindows + 1]int // selected preset per window count

	screen layout.Screen

	statusText string

	width  int
	height int
	ready  bool
}

// NewPresetsTab creates the presets sub-model.
func NewPresetsTab(client *ipc.Client) PresetsTab {
	return PresetsTab{
		client: client,
		count:  2,
		screen: layout.Screen{W: 1920, H: 1080, TaskbarH: layout.DefaultTaskbarHeight},
	}
}

// Init implements tea.Model.
func (pt PresetsTab) Init() tea.Cmd { return nil }

// Update handles messages for the presets tab.
func (pt PresetsTab) Update(msg tea.Msg) (PresetsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pt.width = msg.Width
		pt.height = msg.Height
		pt.ready = true
		return pt, nil

	case statusMsg:
		pt.statusText = msg.text
		return pt, clearStatusAfterDelay()

	case clearStatusMsg:
		pt.statusText = ""
		return pt, nil

	case tea.KeyMsg:
		switch msg.String() {
		// Window count shortcuts override the tab-switching keys while
		// the presets tab is active
		case "1", "2", "3", "4":
			pt.count = int(msg.String()[0] - '0')
			return pt, nil
		case "n", " ":
			pt.cycle(1)
			return pt, nil
		case "p":
			pt.cycle(-1)
			return pt, nil
		case "c":
			return pt.syncDaemonCycle()
		case "enter", "a":
			return pt.applyCurrent()
		}
	}

	return pt, nil
}

// cycle steps the preset selection for the current count, wrapping.
func (pt *PresetsTab) cycle(delta int) {
	n := layout.PresetCount(pt.count)
	if n == 0 {
		return
	}
	pt.presets[pt.count] = ((pt.presets[pt.count]+delta)%n + n) % n
}

// syncDaemonCycle advances the daemon's preset cursor and adopts it, so the
// preview shows what the next hotkey press would generate.
func (pt PresetsTab) syncDaemonCycle() (PresetsTab, tea.Cmd) {
	data, err := pt.client.GenerateLayout(pt.count, -1, false)
	if err != nil {
		pt.statusText = fmt.Sprintf("error: %v", err)
		return pt, clearStatusAfterDelay()
	}
	pt.presets[pt.count] = data.Preset
	pt.statusText = fmt.Sprintf("daemon cursor: preset %d/%d", data.Preset+1, layout.PresetCount(pt.count))
	return pt, clearStatusAfterDelay()
}

func (pt PresetsTab) applyCurrent() (PresetsTab, tea.Cmd) {
	data, err := pt.client.GenerateLayout(pt.count, pt.presets[pt.count], true)
	if err != nil {
		pt.statusText = fmt.Sprintf("error: %v", err)
		return pt, clearStatusAfterDelay()
	}
	if data.Report != nil {
		pt.statusText = fmt.Sprintf("applied %d pane(s) in %dms", len(data.Report.Applied), data.Report.DurationMS)
		if data.Report.Failed > 0 {
			pt.statusText += fmt.Sprintf(", %d failed", data.Report.Failed)
		}
	} else {
		pt.statusText = fmt.Sprintf("generated %d pane(s)", data.Count)
	}
	return pt, tea.Batch(
		clearStatusAfterDelay(),
		func() tea.Msg { return refreshStatusMsg{} },
	)
}

// View implements tea.Model.
func (pt PresetsTab) View() string {
	if !pt.ready || pt.width == 0 || pt.height == 0 {
		return ""
	}

	preset := pt.presets[pt.count]
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(fmt.Sprintf(" %d window(s)  preset %d/%d", pt.count, preset+1, layout.PresetCount(pt.count)))

	panes, err := layout.Generate(pt.count, preset, pt.screen)

	var summary string
	if err != nil {
		summary = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Render(" " + err.Error())
	} else {
		summary = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Render(" " + summarizePanes(panes))
	}

	// Size the canvas to keep the 16:9 simulated screen roughly
	// proportional; terminal cells are about twice as tall as wide.
	asciiH := pt.height - 7
	if asciiH < 5 {
		asciiH = 5
	}
	asciiW := asciiH * 32 / 9
	if asciiW > pt.width-4 {
		asciiW = pt.width - 4
	}
	if asciiW < 5 {
		asciiW = 5
	}

	lines := renderASCIIPreview(panes, pt.screen, asciiW, asciiH)
	previewBlock := lipgloss.NewStyle().
		Foreground(lipgloss.Color("247")).
		PaddingLeft(1).
		Render(strings.Join(lines, "\n"))

	content := lipgloss.JoinVertical(lipgloss.Left, title, summary, "", previewBlock)
	status := pt.renderTabStatus()

	body := lipgloss.NewStyle().
		Width(pt.width).
		Height(pt.height - 1).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, body, status)
}

func (pt PresetsTab) renderTabStatus() string {
	left := ""
	if pt.statusText != "" {
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render(pt.statusText)
	}

	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("1-4:count  n/p:preset  c:daemon cursor  enter/a:apply")

	gap := pt.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(pt.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}
