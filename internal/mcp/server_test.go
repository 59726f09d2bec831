package mcp

import (
	"io"
	"log/slog"
	"testing"

	"github.com/floatdeck/floatdeck/internal/ipc"
	"github.com/floatdeck/floatdeck/internal/wm"
)

// startDaemon runs a real IPC server on a per-test socket so tool handlers
// exercise the full client/server path.
func startDaemon(t *testing.T) *wm.Store {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("FLOATDECK_LAYOUT_DIR", t.TempDir())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := wm.NewStore(logger)

	srv, err := ipc.NewServer(store, func() string { return "disabled" }, logger)
	if err != nil {
		t.Fatalf("ipc.NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("ipc server start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return store
}

func TestNewServerRequiresDaemon(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	if _, err := NewServer(); err == nil {
		t.Fatal("NewServer succeeded without a daemon")
	}
}

func TestCreateListCloseRoundTrip(t *testing.T) {
	store := startDaemon(t)

	s, err := NewServer()
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	x, y, w, h := 200, 100, 400, 300
	_, created, err := s.handleCreateWindow(nil, nil, CreateWindowInput{
		Title: "Build log", Kind: "code",
		X: &x, Y: &y, Width: &w, Height: &h,
		LinkedTaskID: "task-9",
	})
	if err != nil {
		t.Fatalf("create_window: %v", err)
	}
	if created.Kind != "code" || created.X != 200 || created.Width != 400 {
		t.Errorf("created = %+v", created)
	}

	_, list, err := s.handleListWindows(nil, nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if len(list.Windows) != 1 || list.ActiveID != created.ID {
		t.Errorf("list = %+v", list)
	}
	if !list.Windows[0].Active || list.Windows[0].LinkedTaskID != "task-9" {
		t.Errorf("window info = %+v", list.Windows[0])
	}

	if _, _, err := s.handleCloseWindow(nil, nil, WindowIDInput{ID: created.ID}); err != nil {
		t.Fatalf("close_window: %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("store still has %d windows", store.Len())
	}
}

func TestWindowOpsSurfaceDaemonErrors(t *testing.T) {
	startDaemon(t)

	s, err := NewServer()
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	if _, _, err := s.handleFocusWindow(nil, nil, WindowIDInput{ID: "missing"}); err == nil {
		t.Error("focus_window on unknown id succeeded")
	}
	if _, _, err := s.handleCloseWindow(nil, nil, WindowIDInput{}); err == nil {
		t.Error("close_window without id succeeded")
	}
	if _, _, err := s.handleArrange(nil, nil, ArrangeInput{Mode: "spiral"}); err == nil {
		t.Error("arrange_windows with unknown mode succeeded")
	}
}

func TestArrangeAndLayoutTools(t *testing.T) {
	store := startDaemon(t)

	s, err := NewServer()
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, _, err := s.handleCreateWindow(nil, nil, CreateWindowInput{Kind: "task"}); err != nil {
			t.Fatalf("create_window: %v", err)
		}
	}

	if _, out, err := s.handleArrange(nil, nil, ArrangeInput{Mode: "tile"}); err != nil || out.Mode != "tile" {
		t.Fatalf("arrange_windows = %+v, %v", out, err)
	}

	if _, _, err := s.handleSaveLayout(nil, nil, LayoutInput{Name: "pair"}); err != nil {
		t.Fatalf("save_layout: %v", err)
	}

	_, layouts, err := s.handleListLayouts(nil, nil, ListLayoutsInput{})
	if err != nil || len(layouts.Layouts) != 1 || layouts.Layouts[0] != "pair" {
		t.Fatalf("list_layouts = %+v, %v", layouts, err)
	}

	// Drop a window, then restore the saved pair.
	stacked := store.Stacked()
	if err := store.Close(stacked[0].ID); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.handleLoadLayout(nil, nil, LayoutInput{Name: "pair"}); err != nil {
		t.Fatalf("load_layout: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("store has %d windows after load, want 2", store.Len())
	}

	_, status, err := s.handleGetStatus(nil, nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("get_status: %v", err)
	}
	if status.WindowCount != 2 || status.SyncState != "disabled" {
		t.Errorf("status = %+v", status)
	}
}
