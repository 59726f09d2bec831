package syncbridge

import (
	"encoding/json"
	"fmt"

	"github.com/floatdeck/floatdeck/internal/geometry"
	"github.com/floatdeck/floatdeck/internal/wm"
)

// EventType names a message on the sync channel.
type EventType string

const (
	EventWindowCreate   EventType = "window.create"
	EventWindowClose    EventType = "window.close"
	EventWindowMinimize EventType = "window.minimize"
	EventWindowMaximize EventType = "window.maximize"
	EventWindowRestore  EventType = "window.restore"
	EventWindowFocus    EventType = "window.focus"
	EventWindowMove     EventType = "window.move"
	EventWindowResize   EventType = "window.resize"
	EventWindowUpdate   EventType = "window.update"

	EventFullSync        EventType = "fullSync"
	EventRequestFullSync EventType = "requestFullSync"

	EventRequestSaveLayout EventType = "requestSaveLayout"
	EventRequestLoadLayout EventType = "requestLoadLayout"
)

// Envelope is the wire frame for every sync message.
type Envelope struct {
	Event   EventType       `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WindowPayload carries a full window record.
type WindowPayload struct {
	Window wm.Window `json:"window"`
}

// IDPayload carries a bare window id, for close and focus.
type IDPayload struct {
	ID string `json:"id"`
}

// MovePayload carries a window's new top-left corner.
type MovePayload struct {
	ID       string         `json:"id"`
	Position geometry.Point `json:"position"`
}

// ResizePayload carries a window's new dimensions.
type ResizePayload struct {
	ID   string        `json:"id"`
	Size geometry.Size `json:"size"`
}

// FullSyncPayload carries the complete window collection.
type FullSyncPayload struct {
	Windows []wm.Window `json:"windows"`
}

// LayoutPayload names a persisted layout for save and load requests.
type LayoutPayload struct {
	Name string `json:"name"`
}

// NewEnvelope wraps a payload in a wire frame.
func NewEnvelope(event EventType, payload interface{}) (*Envelope, error) {
	env := &Envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", event, err)
		}
		env.Payload = data
	}
	return env, nil
}

// ParseEnvelope decodes a wire frame.
func ParseEnvelope(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse sync envelope: %w", err)
	}
	if env.Event == "" {
		return nil, fmt.Errorf("sync envelope missing event type")
	}
	return &env, nil
}

// envelopeFor maps a local store event to its outbound wire frame. It returns
// nil for events with no wire representation of their own; collection-wide
// events (arrange, layout load) are instead covered by a full sync, which the
// caller handles.
func envelopeFor(ev wm.Event) (*Envelope, error) {
	switch ev.Op {
	case wm.OpCreate:
		if ev.Window == nil {
			return nil, nil
		}
		return NewEnvelope(EventWindowCreate, WindowPayload{Window: *ev.Window})
	case wm.OpClose:
		return NewEnvelope(EventWindowClose, IDPayload{ID: ev.ID})
	case wm.OpMinimize:
		return NewEnvelope(EventWindowMinimize, IDPayload{ID: ev.ID})
	case wm.OpMaximize:
		return NewEnvelope(EventWindowMaximize, IDPayload{ID: ev.ID})
	case wm.OpRestore:
		return NewEnvelope(EventWindowRestore, IDPayload{ID: ev.ID})
	case wm.OpFocus:
		return NewEnvelope(EventWindowFocus, IDPayload{ID: ev.ID})
	case wm.OpMove:
		if ev.Window == nil {
			return nil, nil
		}
		return NewEnvelope(EventWindowMove, MovePayload{ID: ev.ID, Position: ev.Window.Position})
	case wm.OpResize:
		if ev.Window == nil {
			return nil, nil
		}
		return NewEnvelope(EventWindowResize, ResizePayload{ID: ev.ID, Size: ev.Window.Size})
	case wm.OpDragEnd, wm.OpResizeEnd:
		// Settled geometry goes out as a full record so the peer also clears
		// the transient flag.
		if ev.Window == nil {
			return nil, nil
		}
		return NewEnvelope(EventWindowUpdate, WindowPayload{Window: *ev.Window})
	default:
		return nil, nil
	}
}

// needsFullSync reports whether a local event has no per-window wire form and
// must be reconciled by broadcasting the whole collection.
func needsFullSync(ev wm.Event) bool {
	switch ev.Op {
	case wm.OpArrange, wm.OpLoadLayout:
		return true
	}
	return false
}
