package ipc

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/floatdeck/floatdeck/internal/wm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("FLOATDECK_LAYOUT_DIR", t.TempDir())
	return &Server{
		store:  wm.NewStore(nil),
		logger: discardLogger(),
	}
}

func mustPayload(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return data
}

func TestHandleCommand_CreateAndList(t *testing.T) {
	s := newTestServer(t)

	resp := s.handleCommand(&Request{
		Command: CommandCreateWindow,
		Payload: mustPayload(t, CreateWindowPayload{Title: "Chat", Kind: "chat"}),
	})
	if resp.Status != "OK" {
		t.Fatalf("create failed: %s", resp.Error)
	}

	var created WindowData
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("parse create response: %v", err)
	}
	if created.Window.Title != "Chat" || created.Window.Kind != wm.KindChat {
		t.Errorf("created window = %+v", created.Window)
	}

	resp = s.handleCommand(&Request{Command: CommandListWindows})
	if resp.Status != "OK" {
		t.Fatalf("list failed: %s", resp.Error)
	}
	var list WindowsData
	if err := json.Unmarshal(resp.Data, &list); err != nil {
		t.Fatalf("parse list response: %v", err)
	}
	if len(list.Windows) != 1 || list.ActiveID != created.Window.ID {
		t.Errorf("list = %d windows, active %q, want 1 window active %q",
			len(list.Windows), list.ActiveID, created.Window.ID)
	}
}

func TestHandleCommand_WindowOpsRequireKnownID(t *testing.T) {
	s := newTestServer(t)

	for _, cmd := range []CommandType{
		CommandCloseWindow, CommandMinimizeWindow, CommandMaximizeWindow,
		CommandRestoreWindow, CommandFocusWindow,
	} {
		resp := s.handleCommand(&Request{
			Command: cmd,
			Payload: mustPayload(t, WindowIDPayload{ID: "missing"}),
		})
		if resp.Status != "ERROR" {
			t.Errorf("%s on unknown id: status %q, want ERROR", cmd, resp.Status)
		}
		if !strings.Contains(resp.Error, "not found") {
			t.Errorf("%s error = %q, want mention of not found", cmd, resp.Error)
		}
	}
}

func TestHandleCommand_MoveSnapsToGrid(t *testing.T) {
	s := newTestServer(t)
	win := s.store.Create(wm.CreateOptions{Kind: wm.KindTask})

	resp := s.handleCommand(&Request{
		Command: CommandMoveWindow,
		Payload: mustPayload(t, MoveWindowPayload{ID: win.ID, X: 123, Y: 77}),
	})
	if resp.Status != "OK" {
		t.Fatalf("move failed: %s", resp.Error)
	}

	got, err := s.store.Get(win.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Position.X != 120 || got.Position.Y != 80 {
		t.Errorf("position = %+v, want (120, 80)", got.Position)
	}
}

func TestHandleCommand_ArrangeRejectsUnknownMode(t *testing.T) {
	s := newTestServer(t)
	s.store.Create(wm.CreateOptions{})

	resp := s.handleCommand(&Request{
		Command: CommandArrange,
		Payload: mustPayload(t, ArrangePayload{Mode: "spiral"}),
	})
	if resp.Status != "ERROR" {
		t.Fatalf("arrange spiral: status %q, want ERROR", resp.Status)
	}

	resp = s.handleCommand(&Request{
		Command: CommandArrange,
		Payload: mustPayload(t, ArrangePayload{Mode: "tile"}),
	})
	if resp.Status != "OK" {
		t.Fatalf("arrange tile failed: %s", resp.Error)
	}
}

func TestHandleCommand_SaveLoadLayoutRoundTrip(t *testing.T) {
	s := newTestServer(t)
	a := s.store.Create(wm.CreateOptions{Title: "A"})
	s.store.Create(wm.CreateOptions{Title: "B"})

	resp := s.handleCommand(&Request{
		Command: CommandSaveLayout,
		Payload: mustPayload(t, LayoutNamePayload{Name: "workbench"}),
	})
	if resp.Status != "OK" {
		t.Fatalf("save failed: %s", resp.Error)
	}

	if err := s.store.Close(a.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if s.store.Len() != 1 {
		t.Fatalf("len after close = %d", s.store.Len())
	}

	resp = s.handleCommand(&Request{
		Command: CommandLoadLayout,
		Payload: mustPayload(t, LayoutNamePayload{Name: "workbench"}),
	})
	if resp.Status != "OK" {
		t.Fatalf("load failed: %s", resp.Error)
	}
	if s.store.Len() != 2 {
		t.Errorf("len after load = %d, want 2", s.store.Len())
	}

	resp = s.handleCommand(&Request{Command: CommandListLayouts})
	var layouts LayoutsData
	if err := json.Unmarshal(resp.Data, &layouts); err != nil {
		t.Fatalf("parse layouts: %v", err)
	}
	if len(layouts.Layouts) != 1 || layouts.Layouts[0] != "workbench" {
		t.Errorf("layouts = %v, want [workbench]", layouts.Layouts)
	}
}

func TestHandleCommand_StatusReportsSyncState(t *testing.T) {
	s := newTestServer(t)
	s.syncState = func() string { return "connected" }

	resp := s.handleCommand(&Request{Command: CommandGetStatus})
	if resp.Status != "OK" {
		t.Fatalf("status failed: %s", resp.Error)
	}
	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		t.Fatalf("parse status: %v", err)
	}
	if !status.DaemonRunning || status.SyncState != "connected" {
		t.Errorf("status = %+v", status)
	}
}

func TestHandleCommand_UnknownCommand(t *testing.T) {
	s := newTestServer(t)

	resp := s.handleCommand(&Request{Command: "EXPLODE"})
	if resp.Status != "ERROR" || !strings.Contains(resp.Error, "Unknown command") {
		t.Errorf("resp = %+v", resp)
	}
}
