// Package mcp exposes the daemon's profile and layout operations as MCP
// tools over stdio, so editors and agents can drive window management
// through the same IPC surface the CLI uses.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ultratile/ultratile/internal/ipc"
)

const (
	ServerName    = "ultratile"
	ServerVersion = "0.1.0"
)

// Server is the MCP server proxying tool calls to the daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates a new MCP server that talks to the daemon through the
// given IPC client.
func NewServer(client *ipc.Client) *Server {
	s := &Server{client: client}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_profile",
		Description: "Apply a stored window profile: match its entries against the live windows and run the ordered mutations (titlebar, position, size, always-on-top) on every match. Returns the apply report with any per-window failures.",
	}, s.handleApplyProfile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reset_windows",
		Description: "Restore windows to the state captured before they were first touched. Pass a profile to reset only its windows; omit it to restore every managed window and stop the drift watcher.",
	}, s.handleResetWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_profiles",
		Description: "List the stored window profile names.",
	}, s.handleListProfiles)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the manageable live windows with their geometry, PIDs and process names. Ignored titles are filtered out.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "find_matches",
		Description: "Resolve a stored profile against the live windows without mutating anything. Returns which entries matched and which are missing.",
	}, s.handleFindMatches)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "generate_layout",
		Description: "Generate pane geometry for 1-4 windows from the aspect-ratio preset tables, on the primary display. Omitting preset advances the daemon's cycler; apply moves the leftmost live windows into the panes.",
	}, s.handleGenerateLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "detect_profile",
		Description: "Pick the stored profile that best fits the live windows: a profile whose always-on-top anchor window is present wins outright, otherwise the profile with the most matches.",
	}, s.handleDetectProfile)
}
