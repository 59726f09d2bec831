package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/floatdeck/floatdeck/internal/geometry"
	"github.com/floatdeck/floatdeck/internal/ipc"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		WindowCount:    status.WindowCount,
		ActiveWindowID: status.ActiveWindowID,
		SyncState:      status.SyncState,
		UptimeSeconds:  status.UptimeSeconds,
	}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	out := ListWindowsOutput{ActiveID: data.ActiveID}
	for _, w := range data.Windows {
		out.Windows = append(out.Windows, WindowInfo{
			ID:               w.ID,
			Title:            w.Title,
			Kind:             string(w.Kind),
			X:                w.Position.X,
			Y:                w.Position.Y,
			Width:            w.Size.Width,
			Height:           w.Size.Height,
			ZIndex:           w.ZIndex,
			Minimized:        w.Minimized,
			Maximized:        w.Maximized,
			Active:           w.ID == data.ActiveID,
			LinkedTaskID:     w.LinkedTaskID,
			LinkedWorkflowID: w.LinkedWorkflowID,
		})
	}
	return nil, out, nil
}

func (s *Server) handleCreateWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CreateWindowInput) (*mcpsdk.CallToolResult, CreateWindowOutput, error) {
	payload := ipc.CreateWindowPayload{
		Title:            args.Title,
		Kind:             args.Kind,
		LinkedTaskID:     args.LinkedTaskID,
		LinkedWorkflowID: args.LinkedWorkflowID,
	}
	if args.X != nil && args.Y != nil {
		payload.Position = &geometry.Point{X: *args.X, Y: *args.Y}
	}
	if args.Width != nil && args.Height != nil {
		payload.Size = &geometry.Size{Width: *args.Width, Height: *args.Height}
	}

	win, err := s.client.CreateWindow(payload)
	if err != nil {
		return nil, CreateWindowOutput{}, err
	}
	return nil, CreateWindowOutput{
		ID:     win.ID,
		Title:  win.Title,
		Kind:   string(win.Kind),
		X:      win.Position.X,
		Y:      win.Position.Y,
		Width:  win.Size.Width,
		Height: win.Size.Height,
		ZIndex: win.ZIndex,
	}, nil
}

func (s *Server) windowOp(id string, op func(string) error) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	if id == "" {
		return nil, WindowOpOutput{}, fmt.Errorf("id is required")
	}
	if err := op(id); err != nil {
		return nil, WindowOpOutput{}, err
	}
	return nil, WindowOpOutput{ID: id}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp(args.ID, s.client.CloseWindow)
}

func (s *Server) handleMinimizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp(args.ID, s.client.MinimizeWindow)
}

func (s *Server) handleMaximizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp(args.ID, s.client.MaximizeWindow)
}

func (s *Server) handleRestoreWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp(args.ID, s.client.RestoreWindow)
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp(args.ID, s.client.FocusWindow)
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp(args.ID, func(id string) error {
		return s.client.MoveWindow(id, geometry.Point{X: args.X, Y: args.Y})
	})
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp(args.ID, func(id string) error {
		return s.client.ResizeWindow(id, geometry.Size{Width: args.Width, Height: args.Height})
	})
}

func (s *Server) handleArrange(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangeInput) (*mcpsdk.CallToolResult, ArrangeOutput, error) {
	if args.Mode == "" {
		return nil, ArrangeOutput{}, fmt.Errorf("mode is required")
	}
	if err := s.client.Arrange(args.Mode); err != nil {
		return nil, ArrangeOutput{}, err
	}
	return nil, ArrangeOutput{Mode: args.Mode}, nil
}

func (s *Server) handleSaveLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args LayoutInput) (*mcpsdk.CallToolResult, LayoutOutput, error) {
	if args.Name == "" {
		return nil, LayoutOutput{}, fmt.Errorf("name is required")
	}
	if err := s.client.SaveLayout(args.Name); err != nil {
		return nil, LayoutOutput{}, err
	}
	return nil, LayoutOutput{Name: args.Name}, nil
}

func (s *Server) handleLoadLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args LayoutInput) (*mcpsdk.CallToolResult, LayoutOutput, error) {
	if args.Name == "" {
		return nil, LayoutOutput{}, fmt.Errorf("name is required")
	}
	if err := s.client.LoadLayout(args.Name); err != nil {
		return nil, LayoutOutput{}, err
	}
	return nil, LayoutOutput{Name: args.Name}, nil
}

func (s *Server) handleListLayouts(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListLayoutsInput) (*mcpsdk.CallToolResult, ListLayoutsOutput, error) {
	names, err := s.client.ListLayouts()
	if err != nil {
		return nil, ListLayoutsOutput{}, err
	}
	return nil, ListLayoutsOutput{Layouts: names}, nil
}
