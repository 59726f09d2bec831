package syncbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/floatdeck/floatdeck/internal/wm"
)

// State is the bridge connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
)

const (
	eventBuffer       = 256
	writeTimeout      = 5 * time.Second
	initialBackoff    = time.Second
	maxBackoff        = 30 * time.Second
	defaultInterval   = 30 * time.Second
	maxInboundMessage = 1 << 20
)

// Bridge mirrors local store mutations to a remote peer over a websocket and
// applies the peer's mutations back to the store. While disconnected, outbound
// events are dropped; the periodic full sync reconciles any divergence once
// the connection returns.
type Bridge struct {
	url      string
	store    *wm.Store
	logger   *slog.Logger
	dialer   *websocket.Dialer
	interval time.Duration

	// OnSaveLayout and OnLoadLayout service layout requests from the peer.
	// Either may be nil, in which case the request is logged and ignored.
	OnSaveLayout func(name string)
	OnLoadLayout func(name string)

	mu      sync.Mutex
	state   State
	dropped bool

	events  chan wm.Event
	replies chan *Envelope
}

// New builds a bridge for the given websocket URL and subscribes it to the
// store. Call Run to start connecting. A zero interval uses the default
// full-sync period.
func New(url string, store *wm.Store, interval time.Duration, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = defaultInterval
	}

	b := &Bridge{
		url:      url,
		store:    store,
		logger:   logger,
		dialer:   websocket.DefaultDialer,
		interval: interval,
		state:    StateDisconnected,
		events:   make(chan wm.Event, eventBuffer),
		replies:  make(chan *Envelope, 8),
	}

	store.Subscribe(b.observe)
	return b
}

// State returns the current connection state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Bridge) setState(s State) {
	b.mu.Lock()
	prev := b.state
	b.state = s
	b.mu.Unlock()
	if prev != s {
		b.logger.Info("sync state changed", "from", string(prev), "to", string(s))
	}
}

// observe runs synchronously inside store mutations, so it must never block
// or call back into the store. Events land in a buffered channel drained by
// the connection writer.
func (b *Bridge) observe(ev wm.Event) {
	if ev.Origin != wm.OriginLocal {
		return
	}
	if !needsFullSync(ev) {
		if env, err := envelopeFor(ev); env == nil && err == nil {
			return
		}
	}

	select {
	case b.events <- ev:
	default:
		b.mu.Lock()
		b.dropped = true
		b.mu.Unlock()
		b.logger.Debug("sync event buffer full, will reconcile via full sync", "op", string(ev.Op))
	}
}

func (b *Bridge) takeDropped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.dropped
	b.dropped = false
	return d
}

// Run connects to the peer and keeps the connection alive until ctx is
// canceled, reconnecting with exponential backoff.
func (b *Bridge) Run(ctx context.Context) error {
	backoff := initialBackoff

	for {
		b.setState(StateConnecting)

		conn, _, err := b.dialer.DialContext(ctx, b.url, nil)
		if err != nil {
			b.setState(StateDisconnected)
			if ctx.Err() != nil {
				return nil
			}
			b.logger.Warn("sync dial failed", "url", b.url, "error", err, "retry_in", backoff.String())
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		backoff = initialBackoff
		b.setState(StateConnected)
		b.runConn(ctx, conn)
		b.setState(StateDisconnected)

		if ctx.Err() != nil {
			return nil
		}
	}
}

// runConn services one live connection until it fails or ctx is canceled.
func (b *Bridge) runConn(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	conn.SetReadLimit(maxInboundMessage)

	readErr := make(chan error, 1)
	go b.readLoop(conn, readErr)

	// Ask the peer for its state, then announce ours. Upserts on both sides
	// make the exchange converge regardless of ordering.
	if err := b.write(conn, &Envelope{Event: EventRequestFullSync}); err != nil {
		b.logger.Warn("sync handshake failed", "error", err)
		return
	}
	if err := b.writeFullSync(conn); err != nil {
		b.logger.Warn("sync handshake failed", "error", err)
		return
	}

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeTimeout))
			return

		case err := <-readErr:
			if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				b.logger.Warn("sync read failed", "error", err)
			}
			return

		case env := <-b.replies:
			if err := b.write(conn, env); err != nil {
				b.logger.Warn("sync write failed", "error", err)
				return
			}

		case ev := <-b.events:
			if err := b.writeEvent(conn, ev); err != nil {
				b.logger.Warn("sync write failed", "error", err)
				return
			}

		case <-ticker.C:
			if err := b.writeFullSync(conn); err != nil {
				b.logger.Warn("sync full-sync write failed", "error", err)
				return
			}
		}
	}
}

func (b *Bridge) writeEvent(conn *websocket.Conn, ev wm.Event) error {
	if b.takeDropped() || needsFullSync(ev) {
		return b.writeFullSync(conn)
	}

	env, err := envelopeFor(ev)
	if err != nil {
		return err
	}
	if env == nil {
		return nil
	}
	return b.write(conn, env)
}

func (b *Bridge) writeFullSync(conn *websocket.Conn) error {
	env, err := NewEnvelope(EventFullSync, FullSyncPayload{Windows: b.store.Snapshot()})
	if err != nil {
		return err
	}
	return b.write(conn, env)
}

func (b *Bridge) write(conn *websocket.Conn, env *Envelope) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(env)
}

// readLoop parses and applies inbound frames until the connection fails.
func (b *Bridge) readLoop(conn *websocket.Conn, done chan<- error) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			done <- err
			return
		}

		env, err := ParseEnvelope(data)
		if err != nil {
			b.logger.Warn("dropping malformed sync message", "error", err)
			continue
		}

		if err := b.apply(env); err != nil {
			b.logger.Warn("failed to apply sync message", "event", string(env.Event), "error", err)
		}
	}
}

// apply dispatches one inbound frame against the store's remote facade.
// Unknown-window errors are expected during reconciliation races and are
// reported to the caller for logging only.
func (b *Bridge) apply(env *Envelope) error {
	remote := b.store.Remote()

	switch env.Event {
	case EventWindowCreate, EventWindowUpdate:
		var p WindowPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("bad window payload: %w", err)
		}
		if env.Event == EventWindowCreate {
			remote.Create(p.Window)
		} else {
			remote.Update(p.Window)
		}
		return nil

	case EventWindowClose:
		return b.applyID(env, remote.Close)
	case EventWindowMinimize:
		return b.applyID(env, remote.Minimize)
	case EventWindowMaximize:
		return b.applyID(env, remote.Maximize)
	case EventWindowRestore:
		return b.applyID(env, remote.Restore)
	case EventWindowFocus:
		return b.applyID(env, remote.Focus)

	case EventWindowMove:
		var p MovePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("bad move payload: %w", err)
		}
		return ignoreNotFound(remote.Move(p.ID, p.Position))

	case EventWindowResize:
		var p ResizePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("bad resize payload: %w", err)
		}
		return ignoreNotFound(remote.Resize(p.ID, p.Size))

	case EventFullSync:
		var p FullSyncPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("bad full-sync payload: %w", err)
		}
		remote.FullSync(p.Windows)
		return nil

	case EventRequestFullSync:
		env, err := NewEnvelope(EventFullSync, FullSyncPayload{Windows: b.store.Snapshot()})
		if err != nil {
			return err
		}
		select {
		case b.replies <- env:
		default:
			b.logger.Warn("sync reply buffer full, dropping full-sync reply")
		}
		return nil

	case EventRequestSaveLayout:
		return b.applyLayout(env, b.OnSaveLayout, "save")
	case EventRequestLoadLayout:
		return b.applyLayout(env, b.OnLoadLayout, "load")

	default:
		b.logger.Debug("ignoring unknown sync event", "event", string(env.Event))
		return nil
	}
}

func (b *Bridge) applyID(env *Envelope, op func(string) error) error {
	var p IDPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return fmt.Errorf("bad id payload: %w", err)
	}
	return ignoreNotFound(op(p.ID))
}

func (b *Bridge) applyLayout(env *Envelope, hook func(string), verb string) error {
	var p LayoutPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return fmt.Errorf("bad layout payload: %w", err)
	}
	if hook == nil {
		b.logger.Debug("no handler for layout request", "verb", verb, "name", p.Name)
		return nil
	}
	hook(p.Name)
	return nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, wm.ErrWindowNotFound) {
		return nil
	}
	return err
}
