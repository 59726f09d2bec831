package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/floatdeck/floatdeck/internal/geometry"
	"github.com/floatdeck/floatdeck/internal/runtimepath"
	"github.com/floatdeck/floatdeck/internal/wm"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) sendPayload(cmd CommandType, payload interface{}) (*Response, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		raw = data
	}
	return c.sendRequest(&Request{Command: cmd, Payload: raw})
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// ListWindows retrieves all windows in stacking order plus the active id.
func (c *Client) ListWindows() (*WindowsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListWindows})
	if err != nil {
		return nil, err
	}

	var data WindowsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}

	return &data, nil
}

// CreateWindow creates a window and returns the daemon's view of it.
func (c *Client) CreateWindow(payload CreateWindowPayload) (*wm.Window, error) {
	resp, err := c.sendPayload(CommandCreateWindow, payload)
	if err != nil {
		return nil, err
	}

	var data WindowData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse window data: %w", err)
	}

	return &data.Window, nil
}

func (c *Client) CloseWindow(id string) error {
	_, err := c.sendPayload(CommandCloseWindow, WindowIDPayload{ID: id})
	return err
}

func (c *Client) MinimizeWindow(id string) error {
	_, err := c.sendPayload(CommandMinimizeWindow, WindowIDPayload{ID: id})
	return err
}

func (c *Client) MaximizeWindow(id string) error {
	_, err := c.sendPayload(CommandMaximizeWindow, WindowIDPayload{ID: id})
	return err
}

func (c *Client) RestoreWindow(id string) error {
	_, err := c.sendPayload(CommandRestoreWindow, WindowIDPayload{ID: id})
	return err
}

func (c *Client) FocusWindow(id string) error {
	_, err := c.sendPayload(CommandFocusWindow, WindowIDPayload{ID: id})
	return err
}

func (c *Client) MoveWindow(id string, pos geometry.Point) error {
	_, err := c.sendPayload(CommandMoveWindow, MoveWindowPayload{ID: id, X: pos.X, Y: pos.Y})
	return err
}

func (c *Client) ResizeWindow(id string, size geometry.Size) error {
	_, err := c.sendPayload(CommandResizeWindow, ResizeWindowPayload{ID: id, Width: size.Width, Height: size.Height})
	return err
}

// Arrange applies one of the arrangement modes to all visible windows.
func (c *Client) Arrange(mode string) error {
	_, err := c.sendPayload(CommandArrange, ArrangePayload{Mode: mode})
	return err
}

func (c *Client) SaveLayout(name string) error {
	_, err := c.sendPayload(CommandSaveLayout, LayoutNamePayload{Name: name})
	return err
}

func (c *Client) LoadLayout(name string) error {
	_, err := c.sendPayload(CommandLoadLayout, LayoutNamePayload{Name: name})
	return err
}

func (c *Client) ListLayouts() ([]string, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListLayouts})
	if err != nil {
		return nil, err
	}

	var data LayoutsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse layouts data: %w", err)
	}

	return data.Layouts, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
