package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tab identifies a TUI tab.
type Tab int

const (
	TabProfiles Tab = iota
	TabWindows
	TabPresets
	tabCount // sentinel for iteration
)

var tabNames = [tabCount]string{"Profiles", "Windows", "Presets"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "?"
	}
	return tabNames[t]
}

var (
	tabBase     = lipgloss.NewStyle().Padding(0, 2)
	tabActive   = tabBase.Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	tabInactive = tabBase.Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236"))
	tabGap      = lipgloss.NewStyle().Background(lipgloss.Color("235"))

	barRow = lipgloss.NewStyle().MarginBottom(1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	helpBarStyle = dimStyle.Padding(0, 1)
)

// tabBarView renders the tab bar. Each tab is prefixed with its jump key.
func tabBarView(active Tab, width int) string {
	var row strings.Builder
	gap := tabGap.Render(" ")
	for i := Tab(0); i < tabCount; i++ {
		if i > 0 {
			row.WriteString(gap)
		}
		label := strconv.Itoa(int(i)+1) + ":" + i.String()
		style := tabInactive
		if i == active {
			style = tabActive
		}
		row.WriteString(style.Render(label))
	}
	return barRow.Width(width).Render(row.String())
}

// placeholderView fills the content area for tabs with nothing to show.
func placeholderView(tab Tab, width, height int) string {
	return dimStyle.
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(tab.String())
}

func statusDot(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

// statusBarView renders the daemon connection line under the tabs.
func statusBarView(connected bool, activeProfile, aotStatus string, watching bool, width int) string {
	line := statusDot("241") + " daemon not running"
	if connected {
		parts := []string{statusDot("42") + " daemon connected"}
		if activeProfile != "" {
			parts = append(parts, "active:"+activeProfile)
		}
		if watching {
			parts = append(parts, "drift watch on")
		}
		if aotStatus != "" {
			parts = append(parts, aotStatus)
		}
		line = strings.Join(parts, "  ")
	}
	return statusBarStyle.Width(width).Render(line)
}

// helpBarView renders the bottom keybinding reference.
func helpBarView(width int) string {
	help := "tab/shift-tab: switch tabs  1-3: jump to tab  ctrl-s: save profile  q/ctrl-c: quit"
	return helpBarStyle.Width(width).Render(help)
}
