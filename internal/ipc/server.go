package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/floatdeck/floatdeck/internal/geometry"
	"github.com/floatdeck/floatdeck/internal/layout"
	"github.com/floatdeck/floatdeck/internal/runtimepath"
	"github.com/floatdeck/floatdeck/internal/wm"
)

// SyncStateFunc reports the current remote bridge state for GET_STATUS.
type SyncStateFunc func() string

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	store        *wm.Store
	syncState    SyncStateFunc
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(store *wm.Store, syncState SyncStateFunc, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		socketPath: socketPath,
		store:      store,
		syncState:  syncState,
		logger:     logger,
		startTime:  time.Now(),
	}, nil
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

	s.logger.Info("IPC server listening", "socket", s.socketPath)

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
			s.logger.Error("IPC accept error", "error", err)
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
		s.logger.Error("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal IPC response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Error("failed to send IPC response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListWindows:
		return s.handleListWindows()
	case CommandCreateWindow:
		return s.handleCreateWindow(req.Payload)
	case CommandCloseWindow:
		return s.handleWindowOp(req.Payload, s.store.Close)
	case CommandMinimizeWindow:
		return s.handleWindowOp(req.Payload, s.store.Minimize)
	case CommandMaximizeWindow:
		return s.handleWindowOp(req.Payload, s.store.Maximize)
	case CommandRestoreWindow:
		return s.handleWindowOp(req.Payload, s.store.Restore)
	case CommandFocusWindow:
		return s.handleWindowOp(req.Payload, s.store.Focus)
	case CommandMoveWindow:
		return s.handleMoveWindow(req.Payload)
	case CommandResizeWindow:
		return s.handleResizeWindow(req.Payload)
	case CommandArrange:
		return s.handleArrange(req.Payload)
	case CommandSaveLayout:
		return s.handleSaveLayout(req.Payload)
	case CommandLoadLayout:
		return s.handleLoadLayout(req.Payload)
	case CommandListLayouts:
		return s.handleListLayouts()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	state := "disabled"
	if s.syncState != nil {
		state = s.syncState()
	}

	status := StatusData{
		WindowCount:    s.store.Len(),
		ActiveWindowID: s.store.ActiveID(),
		SyncState:      state,
		UptimeSeconds:  int64(time.Since(s.startTime).Seconds()),
		DaemonRunning:  true,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleListWindows() *Response {
	data := WindowsData{
		Windows:  s.store.Stacked(),
		ActiveID: s.store.ActiveID(),
	}

	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleCreateWindow(payload json.RawMessage) *Response {
	var req CreateWindowPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid create payload: %v", err))
		}
	}

	win := s.store.Create(wm.CreateOptions{
		Title:            req.Title,
		Kind:             wm.Kind(req.Kind),
		Position:         req.Position,
		Size:             req.Size,
		LinkedTaskID:     req.LinkedTaskID,
		LinkedWorkflowID: req.LinkedWorkflowID,
	})

	resp, _ := NewOKResponse(WindowData{Window: win})
	return resp
}

// handleWindowOp handles the commands whose payload is a bare window id.
func (s *Server) handleWindowOp(payload json.RawMessage, op func(string) error) *Response {
	var req WindowIDPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid window payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}

	if err := op(req.ID); err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleMoveWindow(payload json.RawMessage) *Response {
	var req MoveWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}

	if err := s.store.Move(req.ID, geometry.Point{X: req.X, Y: req.Y}); err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleResizeWindow(payload json.RawMessage) *Response {
	var req ResizeWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid resize payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}

	if err := s.store.Resize(req.ID, geometry.Size{Width: req.Width, Height: req.Height}); err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleArrange(payload json.RawMessage) *Response {
	var req ArrangePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid arrange payload: %v", err))
	}

	if err := s.store.Arrange(wm.Mode(req.Mode)); err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSaveLayout(payload json.RawMessage) *Response {
	var req LayoutNamePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid layout payload: %v", err))
	}
	if req.Name == "" {
		return NewErrorResponse("name is required")
	}

	lay := layout.Capture(req.Name, s.store)
	if err := layout.Write(lay); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to save layout: %v", err))
	}

	s.logger.Info("layout saved", "name", req.Name, "windows", len(lay.Windows))

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleLoadLayout(payload json.RawMessage) *Response {
	var req LayoutNamePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid layout payload: %v", err))
	}
	if req.Name == "" {
		return NewErrorResponse("name is required")
	}

	lay := layout.ReadOrEmpty(req.Name)
	lay.Apply(s.store)

	s.logger.Info("layout loaded", "name", req.Name, "windows", len(lay.Windows))

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleListLayouts() *Response {
	names, err := layout.List()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list layouts: %v", err))
	}

	resp, _ := NewOKResponse(LayoutsData{Layouts: names})
	return resp
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
