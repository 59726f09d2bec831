package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/floatdeck/floatdeck/internal/geometry"
	"github.com/floatdeck/floatdeck/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandListWindows    CommandType = "LIST_WINDOWS"
	CommandCreateWindow   CommandType = "CREATE_WINDOW"
	CommandCloseWindow    CommandType = "CLOSE_WINDOW"
	CommandMinimizeWindow CommandType = "MINIMIZE_WINDOW"
	CommandMaximizeWindow CommandType = "MAXIMIZE_WINDOW"
	CommandRestoreWindow  CommandType = "RESTORE_WINDOW"
	CommandFocusWindow    CommandType = "FOCUS_WINDOW"
	CommandMoveWindow     CommandType = "MOVE_WINDOW"
	CommandResizeWindow   CommandType = "RESIZE_WINDOW"
	CommandArrange        CommandType = "ARRANGE"
	CommandSaveLayout     CommandType = "SAVE_LAYOUT"
	CommandLoadLayout     CommandType = "LOAD_LAYOUT"
	CommandListLayouts    CommandType = "LIST_LAYOUTS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount    int    `json:"window_count"`
	ActiveWindowID string `json:"active_window_id"`
	SyncState      string `json:"sync_state"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	DaemonRunning  bool   `json:"daemon_running"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows  []wm.Window `json:"windows"`
	ActiveID string      `json:"active_id"`
}

// WindowData carries a single window, returned by CREATE_WINDOW.
type WindowData struct {
	Window wm.Window `json:"window"`
}

type CreateWindowPayload struct {
	Title            string          `json:"title,omitempty"`
	Kind             string          `json:"kind,omitempty"`
	Position         *geometry.Point `json:"position,omitempty"`
	Size             *geometry.Size  `json:"size,omitempty"`
	LinkedTaskID     string          `json:"linked_task_id,omitempty"`
	LinkedWorkflowID string          `json:"linked_workflow_id,omitempty"`
}

type WindowIDPayload struct {
	ID string `json:"id"`
}

type MoveWindowPayload struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

type ResizeWindowPayload struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ArrangePayload struct {
	Mode string `json:"mode"`
}

type LayoutNamePayload struct {
	Name string `json:"name"`
}

type LayoutsData struct {
	Layouts []string `json:"layouts"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
