// Package tui implements the interactive dashboard. It is a pure IPC
// client: profiles, live windows and layout application all go through the
// daemon socket, so the dashboard never touches X11 itself.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/ultratile/ultratile/internal/ipc"
)

// Run starts the dashboard and blocks until the user quits.
func Run(client *ipc.Client) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
