package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ultratile/ultratile/internal/ipc"
)

type savePhase int

const (
	saveHidden savePhase = iota
	saveForm             // name prompt, awaiting submit
	saveResult           // showing outcome message
)

// SaveOverlay manages the capture-to-profile workflow: prompt for a name,
// ask the daemon to snapshot every live window under it, report the outcome.
type SaveOverlay struct {
	phase savePhase
	form  *huh.Form

	// name is heap-allocated so the form keeps writing through the same
	// pointer while the overlay itself is copied between updates.
	name *string

	saved *ipc.SaveData
	err   error
}

// Active reports whether the overlay is visible.
func (s SaveOverlay) Active() bool {
	return s.phase != saveHidden
}

// SaveSucceeded reports whether the last save completed without error.
func (s SaveOverlay) SaveSucceeded() bool {
	return s.phase == saveResult && s.err == nil
}

// Show opens the name prompt. Without a daemon there is nothing to capture,
// so it goes straight to an error result.
func (s *SaveOverlay) Show(connected bool) tea.Cmd {
	s.saved = nil
	s.err = nil

	if !connected {
		s.err = fmt.Errorf("daemon not running; profiles are captured from live windows")
		s.phase = saveResult
		return nil
	}

	s.name = new(string)
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Profile Name").
				Description("Snapshots every live window's position, size and style").
				Value(s.name).
				Validate(func(v string) error {
					if strings.TrimSpace(v) == "" {
						return fmt.Errorf("name must not be empty")
					}
					return nil
				}),
		),
	).WithWidth(48).WithShowHelp(true).WithShowErrors(true)

	s.phase = saveForm
	return s.form.Init()
}

// Update handles input while the overlay is active.
func (s SaveOverlay) Update(msg tea.Msg, client *ipc.Client) (SaveOverlay, tea.Cmd) {
	switch s.phase {
	case saveForm:
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
			s.phase = saveHidden
			s.form = nil
			return s, nil
		}

		form, cmd := s.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			s.form = f
		}

		if s.form.State == huh.StateAborted {
			s.phase = saveHidden
			s.form = nil
			return s, nil
		}
		if s.form.State == huh.StateCompleted {
			name := strings.TrimSpace(*s.name)
			s.saved, s.err = client.SaveProfile(name)
			s.phase = saveResult
			s.form = nil
			return s, nil
		}
		return s, cmd

	case saveResult:
		if _, ok := msg.(tea.KeyMsg); ok {
			s.phase = saveHidden
		}
	}
	return s, nil
}

// View renders the overlay for the given content area dimensions.
func (s SaveOverlay) View(width, height int) string {
	switch s.phase {
	case saveForm:
		return s.viewForm(width, height)
	case saveResult:
		return s.viewResult(width, height)
	}
	return ""
}

var overlayBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("62")).
	Padding(1, 2)

func (s SaveOverlay) viewForm(areaW, areaH int) string {
	if s.form == nil {
		return ""
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("Save Profile")
	content := title + "\n\n" + s.form.View() + "\n" + dimStyle.Render("enter: save  esc: cancel")

	return lipgloss.Place(areaW, areaH, lipgloss.Center, lipgloss.Center,
		overlayBox.Render(content))
}

func (s SaveOverlay) viewResult(areaW, areaH int) string {
	boxW := min(max(areaW-8, 30), 60)

	var msg string
	if s.err != nil {
		msg = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).
			Render("Error: " + s.err.Error())
	} else {
		msg = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true).
			Render(fmt.Sprintf("Saved %d window(s) to %q", s.saved.Windows, s.saved.Profile))
	}

	content := msg + "\n\n" + dimStyle.Render("press any key to dismiss")

	return lipgloss.Place(areaW, areaH, lipgloss.Center, lipgloss.Center,
		overlayBox.Width(boxW).Render(content))
}
