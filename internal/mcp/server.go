// Package mcp exposes the floatdeck daemon's window operations as MCP tools
// over stdio, so agents and editors can drive the deck programmatically. Every
// tool call is forwarded to the daemon through the IPC socket.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/floatdeck/floatdeck/internal/ipc"
)

const (
	ServerName    = "floatdeck"
	ServerVersion = "0.1.0"
)

// Server is the MCP server bridging tool calls to the daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates the MCP server. The daemon must be reachable over IPC.
func NewServer() (*Server, error) {
	client := ipc.NewClient()
	if err := client.Ping(); err != nil {
		return nil, fmt.Errorf("floatdeck daemon is not reachable: %w", err)
	}

	s := &Server{client: client}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report daemon status: window count, active window, sync bridge state and uptime.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every window bottom to top in stacking order, including geometry, minimized/maximized state and linked task/workflow ids.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_window",
		Description: "Create a floating window and focus it. Omitted position gets a staggered default; omitted size falls back to the kind's default. Returns the new window's id and snapped geometry.",
	}, s.handleCreateWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window by id. Focus moves to the topmost remaining window.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize a window to the dock. Its geometry is kept for restore.",
	}, s.handleMinimizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "maximize_window",
		Description: "Maximize a window to fill the viewport. Its floating geometry is kept for restore.",
	}, s.handleMaximizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_window",
		Description: "Restore a minimized or maximized window to its floating geometry and raise it.",
	}, s.handleRestoreWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Focus a window and raise it to the top of the stack.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window to a new position. Coordinates are snapped to the placement grid.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window. Dimensions are snapped to the grid and clamped to the minimum size.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_windows",
		Description: "Arrange all visible windows: cascade staggers them diagonally, tile fills the viewport edge to edge, grid tiles with a margin around each cell.",
	}, s.handleArrange)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "save_layout",
		Description: "Persist the current window arrangement under a name for later restore.",
	}, s.handleSaveLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "load_layout",
		Description: "Replace the current windows with a previously saved layout. A missing or corrupt layout yields an empty deck.",
	}, s.handleLoadLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_layouts",
		Description: "List the names of all saved layouts.",
	}, s.handleListLayouts)
}
