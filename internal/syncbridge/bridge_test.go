package syncbridge

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/floatdeck/floatdeck/internal/geometry"
	"github.com/floatdeck/floatdeck/internal/wm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnvelopeForMapsStoreEvents(t *testing.T) {
	win := wm.Window{ID: "w1", Position: geometry.Point{X: 100, Y: 50}, Size: geometry.Size{Width: 400, Height: 300}}

	tests := []struct {
		op   wm.Op
		want EventType
	}{
		{wm.OpCreate, EventWindowCreate},
		{wm.OpClose, EventWindowClose},
		{wm.OpMinimize, EventWindowMinimize},
		{wm.OpMaximize, EventWindowMaximize},
		{wm.OpRestore, EventWindowRestore},
		{wm.OpFocus, EventWindowFocus},
		{wm.OpMove, EventWindowMove},
		{wm.OpResize, EventWindowResize},
		{wm.OpDragEnd, EventWindowUpdate},
		{wm.OpResizeEnd, EventWindowUpdate},
	}

	for _, tt := range tests {
		env, err := envelopeFor(wm.Event{Op: tt.op, ID: win.ID, Window: &win})
		if err != nil {
			t.Fatalf("envelopeFor(%s): %v", tt.op, err)
		}
		if env == nil || env.Event != tt.want {
			t.Errorf("envelopeFor(%s) = %v, want event %s", tt.op, env, tt.want)
		}
	}

	// Transient start markers stay local.
	for _, op := range []wm.Op{wm.OpDragStart, wm.OpResizeStart, wm.OpFocus + "_bogus"} {
		env, err := envelopeFor(wm.Event{Op: op, ID: win.ID, Window: &win})
		if err != nil || env != nil {
			t.Errorf("envelopeFor(%s) = %v, %v; want nil, nil", op, env, err)
		}
	}

	if !needsFullSync(wm.Event{Op: wm.OpArrange}) || !needsFullSync(wm.Event{Op: wm.OpLoadLayout}) {
		t.Error("arrange and load_layout should force a full sync")
	}
	if needsFullSync(wm.Event{Op: wm.OpMove}) {
		t.Error("move should not force a full sync")
	}
}

func TestApplyRemoteMutations(t *testing.T) {
	store := wm.NewStore(discardLogger())
	b := New("ws://unused", store, time.Minute, discardLogger())

	env, err := NewEnvelope(EventWindowCreate, WindowPayload{Window: wm.Window{
		ID:       "r1",
		Title:    "Remote",
		Kind:     wm.KindTask,
		Position: geometry.Point{X: 40, Y: 40},
		Size:     geometry.Size{Width: 400, Height: 300},
		ZIndex:   5,
		Visible:  true,
	}})
	if err != nil {
		t.Fatal(err)
	}
	if err := b.apply(env); err != nil {
		t.Fatalf("apply create: %v", err)
	}

	got, err := store.Get("r1")
	if err != nil {
		t.Fatalf("remote-created window missing: %v", err)
	}
	if got.Title != "Remote" {
		t.Errorf("title = %q", got.Title)
	}

	env, _ = NewEnvelope(EventWindowMove, MovePayload{ID: "r1", Position: geometry.Point{X: 207, Y: 93}})
	if err := b.apply(env); err != nil {
		t.Fatalf("apply move: %v", err)
	}
	got, _ = store.Get("r1")
	if got.Position.X != 210 || got.Position.Y != 90 {
		t.Errorf("position after remote move = %+v, want snapped (210, 90)", got.Position)
	}

	// Operations on unknown ids are reconciliation noise, not failures.
	env, _ = NewEnvelope(EventWindowClose, IDPayload{ID: "ghost"})
	if err := b.apply(env); err != nil {
		t.Errorf("apply close on unknown id: %v", err)
	}

	env, _ = NewEnvelope(EventFullSync, FullSyncPayload{Windows: []wm.Window{
		{ID: "r1", Kind: wm.KindTask, Size: geometry.Size{Width: 400, Height: 300}, ZIndex: 7, Visible: true},
		{ID: "r2", Kind: wm.KindChat, Size: geometry.Size{Width: 500, Height: 600}, ZIndex: 8, Visible: true},
	}})
	if err := b.apply(env); err != nil {
		t.Fatalf("apply full sync: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("window count after full sync = %d, want 2", store.Len())
	}
}

func TestApplyLayoutRequestsInvokeHooks(t *testing.T) {
	store := wm.NewStore(discardLogger())
	b := New("ws://unused", store, time.Minute, discardLogger())

	var saved, loaded string
	b.OnSaveLayout = func(name string) { saved = name }
	b.OnLoadLayout = func(name string) { loaded = name }

	env, _ := NewEnvelope(EventRequestSaveLayout, LayoutPayload{Name: "desk"})
	if err := b.apply(env); err != nil {
		t.Fatal(err)
	}
	env, _ = NewEnvelope(EventRequestLoadLayout, LayoutPayload{Name: "bench"})
	if err := b.apply(env); err != nil {
		t.Fatal(err)
	}

	if saved != "desk" || loaded != "bench" {
		t.Errorf("hooks got save=%q load=%q", saved, loaded)
	}
}

func TestParseEnvelopeRejectsGarbage(t *testing.T) {
	if _, err := ParseEnvelope([]byte("not json")); err == nil {
		t.Error("ParseEnvelope accepted non-JSON input")
	}
	if _, err := ParseEnvelope([]byte(`{"payload": {}}`)); err == nil {
		t.Error("ParseEnvelope accepted envelope without event type")
	}
}

// syncPeer is a minimal websocket endpoint for end-to-end bridge tests. It
// records every inbound envelope and can push frames to the bridge.
type syncPeer struct {
	t        *testing.T
	server   *httptest.Server
	upgrader websocket.Upgrader
	conns    chan *websocket.Conn
	inbound  chan *Envelope
}

func newSyncPeer(t *testing.T) *syncPeer {
	p := &syncPeer{
		t:       t,
		conns:   make(chan *websocket.Conn, 1),
		inbound: make(chan *Envelope, 64),
	}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := p.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		p.conns <- conn
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			env, err := ParseEnvelope(data)
			if err != nil {
				continue
			}
			p.inbound <- env
		}
	}))
	t.Cleanup(p.server.Close)
	return p
}

func (p *syncPeer) url() string {
	return "ws" + strings.TrimPrefix(p.server.URL, "http")
}

func (p *syncPeer) waitConn() *websocket.Conn {
	select {
	case conn := <-p.conns:
		return conn
	case <-time.After(5 * time.Second):
		p.t.Fatal("bridge never connected")
		return nil
	}
}

func (p *syncPeer) next() *Envelope {
	select {
	case env := <-p.inbound:
		return env
	case <-time.After(5 * time.Second):
		p.t.Fatal("timed out waiting for sync frame")
		return nil
	}
}

func (p *syncPeer) nextOfType(et EventType) *Envelope {
	deadline := time.After(5 * time.Second)
	for {
		select {
		case env := <-p.inbound:
			if env.Event == et {
				return env
			}
		case <-deadline:
			p.t.Fatalf("timed out waiting for %s frame", et)
			return nil
		}
	}
}

func TestBridgeHandshakeAndMirroring(t *testing.T) {
	peer := newSyncPeer(t)
	store := wm.NewStore(discardLogger())
	b := New(peer.url(), store, time.Minute, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx)
	}()

	conn := peer.waitConn()
	defer conn.Close()

	// Handshake: the bridge asks for our state, then announces its own.
	if env := peer.next(); env.Event != EventRequestFullSync {
		t.Fatalf("first frame = %s, want %s", env.Event, EventRequestFullSync)
	}
	if env := peer.next(); env.Event != EventFullSync {
		t.Fatalf("second frame = %s, want %s", env.Event, EventFullSync)
	}

	waitState(t, b, StateConnected)

	// A local mutation is mirrored out.
	win := store.Create(wm.CreateOptions{Title: "Mirrored", Kind: wm.KindChat})
	env := peer.nextOfType(EventWindowCreate)
	var wp WindowPayload
	if err := json.Unmarshal(env.Payload, &wp); err != nil {
		t.Fatalf("parse window payload: %v", err)
	}
	if wp.Window.ID != win.ID || wp.Window.Title != "Mirrored" {
		t.Errorf("mirrored window = %+v", wp.Window)
	}

	// A peer mutation reaches the store and is not echoed back.
	update, _ := NewEnvelope(EventWindowMove, MovePayload{ID: win.ID, Position: geometry.Point{X: 300, Y: 200}})
	if err := conn.WriteJSON(update); err != nil {
		t.Fatalf("peer write: %v", err)
	}
	waitFor(t, func() bool {
		got, err := store.Get(win.ID)
		return err == nil && got.Position.X == 300 && got.Position.Y == 200
	})

	// Arrange goes out as a full sync rather than a per-window frame.
	if err := store.Arrange(wm.ModeTile); err != nil {
		t.Fatalf("arrange: %v", err)
	}
	peer.nextOfType(EventFullSync)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("bridge did not stop on cancel")
	}
	waitState(t, b, StateDisconnected)
}

func TestBridgeReconnectsAfterPeerDrop(t *testing.T) {
	peer := newSyncPeer(t)
	store := wm.NewStore(discardLogger())
	b := New(peer.url(), store, time.Minute, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	first := peer.waitConn()
	waitState(t, b, StateConnected)
	first.Close()

	// The bridge should come back on its own.
	second := peer.waitConn()
	defer second.Close()
	waitState(t, b, StateConnected)
}

func waitState(t *testing.T, b *Bridge, want State) {
	t.Helper()
	waitFor(t, func() bool { return b.State() == want })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition never became true")
}
