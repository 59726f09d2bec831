package mcp

// CreateWindowInput is the input for the create_window tool.
type CreateWindowInput struct {
	Title            string `json:"title,omitempty" jsonschema:"Window title (blank for a kind-based default)"`
	Kind             string `json:"kind,omitempty" jsonschema:"Window kind: chat, workflow, task, resource, code, browser or custom (default: custom). Picks the default size."`
	X                *int   `json:"x,omitempty" jsonschema:"Optional x position in pixels; snapped to the grid"`
	Y                *int   `json:"y,omitempty" jsonschema:"Optional y position in pixels; snapped to the grid"`
	Width            *int   `json:"width,omitempty" jsonschema:"Optional width in pixels; snapped and clamped to the minimum"`
	Height           *int   `json:"height,omitempty" jsonschema:"Optional height in pixels; snapped and clamped to the minimum"`
	LinkedTaskID     string `json:"linked_task_id,omitempty" jsonschema:"Optional id of the task this window belongs to"`
	LinkedWorkflowID string `json:"linked_workflow_id,omitempty" jsonschema:"Optional id of the workflow this window belongs to"`
}

// CreateWindowOutput is the output for the create_window tool.
type CreateWindowOutput struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Kind   string `json:"kind"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	ZIndex int    `json:"z_index"`
}

// WindowIDInput is the input for tools addressing one window by id.
type WindowIDInput struct {
	ID string `json:"id" jsonschema:"required,Window id"`
}

// WindowOpOutput reports a completed single-window operation.
type WindowOpOutput struct {
	ID string `json:"id"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID string `json:"id" jsonschema:"required,Window id"`
	X  int    `json:"x" jsonschema:"required,New x position in pixels; snapped to the grid"`
	Y  int    `json:"y" jsonschema:"required,New y position in pixels; snapped to the grid"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	ID     string `json:"id" jsonschema:"required,Window id"`
	Width  int    `json:"width" jsonschema:"required,New width in pixels; snapped and clamped to the minimum"`
	Height int    `json:"height" jsonschema:"required,New height in pixels; snapped and clamped to the minimum"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowInfo describes one window in list_windows output, bottom to top.
type WindowInfo struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Kind             string `json:"kind"`
	X                int    `json:"x"`
	Y                int    `json:"y"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	ZIndex           int    `json:"z_index"`
	Minimized        bool   `json:"minimized"`
	Maximized        bool   `json:"maximized"`
	Active           bool   `json:"active"`
	LinkedTaskID     string `json:"linked_task_id,omitempty"`
	LinkedWorkflowID string `json:"linked_workflow_id,omitempty"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows  []WindowInfo `json:"windows"`
	ActiveID string       `json:"active_id"`
}

// ArrangeInput is the input for the arrange_windows tool.
type ArrangeInput struct {
	Mode string `json:"mode" jsonschema:"required,Arrangement mode: cascade, tile or grid"`
}

// ArrangeOutput is the output for the arrange_windows tool.
type ArrangeOutput struct {
	Mode string `json:"mode"`
}

// LayoutInput names a layout for save_layout and load_layout.
type LayoutInput struct {
	Name string `json:"name" jsonschema:"required,Layout name"`
}

// LayoutOutput reports a completed layout operation.
type LayoutOutput struct {
	Name string `json:"name"`
}

// ListLayoutsInput is the input for the list_layouts tool.
type ListLayoutsInput struct{}

// ListLayoutsOutput is the output for the list_layouts tool.
type ListLayoutsOutput struct {
	Layouts []string `json:"layouts"`
}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	WindowCount    int    `json:"window_count"`
	ActiveWindowID string `json:"active_window_id"`
	SyncState      string `json:"sync_state"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}
