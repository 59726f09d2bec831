package wm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/floatdeck/floatdeck/internal/geometry"
)

// newTestStore returns a store with deterministic ids and placement.
func newTestStore() *Store {
	s := NewStore(nil)
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("win-%d", n)
	}
	s.randInt = func(int) int { return 0 }
	return s
}

func TestCreateAssignsDefaultsAndFocus(t *testing.T) {
	s := newTestStore()
	w := s.Create(CreateOptions{Kind: KindChat, Title: "scout chat"})

	if w.Size.Width != 500 || w.Size.Height != 600 {
		t.Errorf("chat default size should be 500x600, got %dx%d", w.Size.Width, w.Size.Height)
	}
	if w.Position.X%geometry.GridUnit != 0 || w.Position.Y%geometry.GridUnit != 0 {
		t.Errorf("default position not grid aligned: %+v", w.Position)
	}
	if w.Minimized || w.Maximized {
		t.Error("new window must start neither minimized nor maximized")
	}
	if !w.Visible {
		t.Error("new window must be visible")
	}
	if s.ActiveID() != w.ID {
		t.Errorf("new window should be active, active=%q", s.ActiveID())
	}

	w2 := s.Create(CreateOptions{Kind: KindTask})
	if w2.ZIndex <= w.ZIndex {
		t.Errorf("second window must stack above the first: %d <= %d", w2.ZIndex, w.ZIndex)
	}
}

func TestCreateUnknownKindFallsBackToCustom(t *testing.T) {
	s := newTestStore()
	w := s.Create(CreateOptions{Kind: Kind("nope")})
	if w.Kind != KindCustom {
		t.Fatalf("expected custom, got %q", w.Kind)
	}
	if w.Size != (geometry.Size{Width: 600, Height: 400}) {
		t.Fatalf("expected custom default size, got %+v", w.Size)
	}
}

func TestMoveResizeStayOnGridAndAboveFloor(t *testing.T) {
	s := newTestStore()
	w := s.Create(CreateOptions{Kind: KindTask})

	steps := []struct {
		pos  geometry.Point
		size geometry.Size
	}{
		{geometry.Point{X: 123, Y: 47}, geometry.Size{Width: 333, Height: 217}},
		{geometry.Point{X: -50, Y: 9}, geometry.Size{Width: 10, Height: 10}},
		{geometry.Point{X: 1004, Y: 998}, geometry.Size{Width: 205, Height: 155}},
	}
	for _, st := range steps {
		if err := s.Move(w.ID, st.pos); err != nil {
			t.Fatalf("move: %v", err)
		}
		if err := s.Resize(w.ID, st.size); err != nil {
			t.Fatalf("resize: %v", err)
		}
		got, _ := s.Get(w.ID)
		if got.Position.X < 0 || got.Position.Y < 0 {
			t.Errorf("position went negative: %+v", got.Position)
		}
		if got.Position.X%geometry.GridUnit != 0 || got.Position.Y%geometry.GridUnit != 0 {
			t.Errorf("position off grid: %+v", got.Position)
		}
		if got.Size.Width%geometry.GridUnit != 0 || got.Size.Height%geometry.GridUnit != 0 {
			t.Errorf("size off grid: %+v", got.Size)
		}
		if got.Size.Width < geometry.MinWidth || got.Size.Height < geometry.MinHeight {
			t.Errorf("size below floor: %+v", got.Size)
		}
	}
}

func TestMinimizeRestoreRoundTrip(t *testing.T) {
	s := newTestStore()
	w := s.Create(CreateOptions{Kind: KindChat})
	s.Move(w.ID, geometry.Point{X: 200, Y: 100})
	s.Resize(w.ID, geometry.Size{Width: 400, Height: 300})
	before, _ := s.Get(w.ID)

	if err := s.Minimize(w.ID); err != nil {
		t.Fatalf("minimize: %v", err)
	}
	mid, _ := s.Get(w.ID)
	if !mid.Minimized || mid.Maximized {
		t.Fatalf("after minimize: minimized=%v maximized=%v", mid.Minimized, mid.Maximized)
	}

	if err := s.Restore(w.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	after, _ := s.Get(w.ID)
	if after.Minimized || after.Maximized {
		t.Fatalf("after restore: minimized=%v maximized=%v", after.Minimized, after.Maximized)
	}
	if after.Position != before.Position || after.Size != before.Size {
		t.Errorf("geometry changed across minimize/restore: %+v/%+v -> %+v/%+v",
			before.Position, before.Size, after.Position, after.Size)
	}
	if s.ActiveID() != w.ID {
		t.Error("restored window should be active")
	}
}

func TestMaximizeMinimizeMutuallyExclusive(t *testing.T) {
	s := newTestStore()
	w := s.Create(CreateOptions{Kind: KindCode})

	s.Maximize(w.ID)
	got, _ := s.Get(w.ID)
	if !got.Maximized || got.Minimized {
		t.Fatalf("after maximize: %+v", got)
	}

	s.Minimize(w.ID)
	got, _ = s.Get(w.ID)
	if got.Maximized || !got.Minimized {
		t.Fatalf("after minimize: %+v", got)
	}
}

func TestCloseReassignsActiveToHighestZ(t *testing.T) {
	s := newTestStore()
	a := s.Create(CreateOptions{Kind: KindChat})
	b := s.Create(CreateOptions{Kind: KindTask})
	c := s.Create(CreateOptions{Kind: KindCode})

	// Raise a above b, leaving stacking order (low to high): b, c, a.
	s.Focus(a.ID)

	if err := s.Close(a.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if s.ActiveID() != c.ID {
		t.Errorf("expected %q active after close, got %q", c.ID, s.ActiveID())
	}

	s.Close(c.ID)
	if s.ActiveID() != b.ID {
		t.Errorf("expected %q active, got %q", b.ID, s.ActiveID())
	}

	s.Close(b.ID)
	if s.ActiveID() != "" {
		t.Errorf("expected empty active id, got %q", s.ActiveID())
	}
}

func TestFocusIdempotentAndRaising(t *testing.T) {
	s := newTestStore()
	a := s.Create(CreateOptions{Kind: KindChat})
	b := s.Create(CreateOptions{Kind: KindTask})

	var events int
	s.Subscribe(func(ev Event) {
		if ev.Op == OpFocus {
			events++
		}
	})

	// b is already active: no event, no z change.
	beforeB, _ := s.Get(b.ID)
	if err := s.Focus(b.ID); err != nil {
		t.Fatalf("focus active: %v", err)
	}
	afterB, _ := s.Get(b.ID)
	if afterB.ZIndex != beforeB.ZIndex {
		t.Errorf("focusing the active window changed z: %d -> %d", beforeB.ZIndex, afterB.ZIndex)
	}
	if events != 0 {
		t.Errorf("focus on active window emitted %d events", events)
	}

	if err := s.Focus(a.ID); err != nil {
		t.Fatalf("focus: %v", err)
	}
	gotA, _ := s.Get(a.ID)
	gotB, _ := s.Get(b.ID)
	if gotA.ZIndex <= gotB.ZIndex {
		t.Errorf("focused window not on top: %d <= %d", gotA.ZIndex, gotB.ZIndex)
	}
	if events != 1 {
		t.Errorf("expected 1 focus event, got %d", events)
	}
}

func TestFocusMinimizedIsNoOp(t *testing.T) {
	s := newTestStore()
	a := s.Create(CreateOptions{Kind: KindChat})
	b := s.Create(CreateOptions{Kind: KindTask})
	s.Minimize(a.ID)

	if err := s.Focus(a.ID); err != nil {
		t.Fatalf("focus minimized should not error: %v", err)
	}
	if s.ActiveID() != b.ID {
		t.Errorf("minimized window must not take focus, active=%q", s.ActiveID())
	}
}

func TestOperationsOnUnknownIDReturnNotFound(t *testing.T) {
	s := newTestStore()
	ops := map[string]error{
		"close":    s.Close("ghost"),
		"minimize": s.Minimize("ghost"),
		"maximize": s.Maximize("ghost"),
		"restore":  s.Restore("ghost"),
		"focus":    s.Focus("ghost"),
		"move":     s.Move("ghost", geometry.Point{}),
		"resize":   s.Resize("ghost", geometry.Size{}),
	}
	for name, err := range ops {
		if !errors.Is(err, ErrWindowNotFound) {
			t.Errorf("%s on unknown id: got %v, want ErrWindowNotFound", name, err)
		}
	}
	if s.Len() != 0 {
		t.Error("failed operations must not fabricate records")
	}
}

func TestDragAndResizeFlagsAreTransient(t *testing.T) {
	s := newTestStore()
	a := s.Create(CreateOptions{Kind: KindChat})
	s.Create(CreateOptions{Kind: KindTask})

	s.StartDrag(a.ID)
	got, _ := s.Get(a.ID)
	if !got.Dragging {
		t.Error("dragging flag not set")
	}
	if s.ActiveID() != a.ID {
		t.Error("drag start must focus the window")
	}
	s.EndDrag(a.ID)
	got, _ = s.Get(a.ID)
	if got.Dragging {
		t.Error("dragging flag not cleared")
	}

	s.StartResize(a.ID)
	got, _ = s.Get(a.ID)
	if !got.Resizing {
		t.Error("resizing flag not set")
	}
	s.EndResize(a.ID)
	got, _ = s.Get(a.ID)
	if got.Resizing {
		t.Error("resizing flag not cleared")
	}
}

func TestReplaceAllResetsZPool(t *testing.T) {
	s := newTestStore()
	s.Create(CreateOptions{Kind: KindChat})

	s.ReplaceAll([]Window{
		{ID: "r1", Kind: KindChat, Position: geometry.Point{X: 13, Y: 20}, Size: geometry.Size{Width: 300, Height: 200}, Dragging: true},
		{ID: "r2", Kind: KindTask, Size: geometry.Size{Width: 400, Height: 300}, Minimized: true},
	})

	if s.Len() != 2 {
		t.Fatalf("expected 2 windows, got %d", s.Len())
	}
	r1, _ := s.Get("r1")
	if r1.Dragging {
		t.Error("transient flags must be cleared on load")
	}
	if r1.Position.X != 10 {
		t.Errorf("loaded position not snapped: %+v", r1.Position)
	}
	if r1.ZIndex != 101 {
		t.Errorf("expected z 101, got %d", r1.ZIndex)
	}

	// The pool restarts at 100 + count.
	w := s.Create(CreateOptions{Kind: KindCode})
	if w.ZIndex != 103 {
		t.Errorf("expected next z 103, got %d", w.ZIndex)
	}
}

func TestRemoteFullSyncUpserts(t *testing.T) {
	s := newTestStore()
	a := s.Create(CreateOptions{Kind: KindChat})

	s.Remote().FullSync([]Window{
		{ID: a.ID, Kind: KindChat, Position: geometry.Point{X: 100, Y: 100}, Size: geometry.Size{Width: 300, Height: 200}, ZIndex: 5, Visible: true},
		{ID: "peer-b", Kind: KindTask, Position: geometry.Point{X: 400, Y: 0}, Size: geometry.Size{Width: 400, Height: 300}, ZIndex: 6, Visible: true},
	})

	if s.Len() != 2 {
		t.Fatalf("expected 2 windows after full sync, got %d", s.Len())
	}
	gotA, _ := s.Get(a.ID)
	if gotA.Position != (geometry.Point{X: 100, Y: 100}) {
		t.Errorf("remote geometry not applied: %+v", gotA.Position)
	}
	if _, err := s.Get("peer-b"); err != nil {
		t.Errorf("peer window missing: %v", err)
	}
}

func TestRemoteCreateIgnoresDuplicateID(t *testing.T) {
	s := newTestStore()
	a := s.Create(CreateOptions{Kind: KindChat, Title: "local"})

	s.Remote().Create(Window{ID: a.ID, Kind: KindChat, Title: "remote", Size: geometry.Size{Width: 300, Height: 200}})

	got, _ := s.Get(a.ID)
	if got.Title != "local" {
		t.Errorf("duplicate remote create must be ignored, title=%q", got.Title)
	}
}

func TestObserverPanicDoesNotPoisonStore(t *testing.T) {
	s := newTestStore()
	s.Subscribe(func(Event) { panic("bad observer") })
	w := s.Create(CreateOptions{Kind: KindChat})
	if _, err := s.Get(w.ID); err != nil {
		t.Fatalf("store unusable after observer panic: %v", err)
	}
}

func TestEventsCarryRecordSnapshots(t *testing.T) {
	s := newTestStore()
	var seen []Event
	s.Subscribe(func(ev Event) { seen = append(seen, ev) })

	w := s.Create(CreateOptions{Kind: KindChat})
	s.Move(w.ID, geometry.Point{X: 300, Y: 300})

	if len(seen) != 2 {
		t.Fatalf("expected 2 events, got %d", len(seen))
	}
	if seen[0].Op != OpCreate || seen[1].Op != OpMove {
		t.Fatalf("unexpected ops %v %v", seen[0].Op, seen[1].Op)
	}
	if seen[1].Window == nil || seen[1].Window.Position.X != 300 {
		t.Fatalf("move event should carry post-mutation snapshot, got %+v", seen[1].Window)
	}
	// Mutating the snapshot must not touch the store.
	seen[1].Window.Position.X = 999
	got, _ := s.Get(w.ID)
	if got.Position.X != 300 {
		t.Error("event snapshot aliases the live record")
	}
}
