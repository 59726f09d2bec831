// Package wm owns the floating window collection and every operation that
// mutates it. The store is the single source of truth: views and the sync
// bridge request mutations through its operations and re-render from the
// events it emits, never touching records directly.
package wm

import (
	"github.com/floatdeck/floatdeck/internal/content"
	"github.com/floatdeck/floatdeck/internal/geometry"
)

// Kind categorizes a window. The kind picks the default size at creation and
// nothing else; every window behaves identically once it exists.
type Kind string

const (
	KindChat     Kind = "chat"
	KindWorkflow Kind = "workflow"
	KindTask     Kind = "task"
	KindResource Kind = "resource"
	KindCode     Kind = "code"
	KindBrowser  Kind = "browser"
	KindCustom   Kind = "custom"
)

// Kinds lists every window kind in display order.
func Kinds() []Kind {
	return []Kind{KindChat, KindWorkflow, KindTask, KindResource, KindCode, KindBrowser, KindCustom}
}

// Valid reports whether k is a recognized kind.
func (k Kind) Valid() bool {
	switch k {
	case KindChat, KindWorkflow, KindTask, KindResource, KindCode, KindBrowser, KindCustom:
		return true
	}
	return false
}

// DefaultSize returns the kind's default window size.
func (k Kind) DefaultSize() geometry.Size {
	switch k {
	case KindChat:
		return geometry.Size{Width: 500, Height: 600}
	case KindWorkflow:
		return geometry.Size{Width: 700, Height: 500}
	case KindTask:
		return geometry.Size{Width: 400, Height: 300}
	case KindResource:
		return geometry.Size{Width: 350, Height: 450}
	case KindCode:
		return geometry.Size{Width: 800, Height: 600}
	case KindBrowser:
		return geometry.Size{Width: 900, Height: 700}
	default:
		return geometry.Size{Width: 600, Height: 400}
	}
}

// Window is one floating panel's full state. Position and Size are always
// grid-snapped; Size never falls below the minimum floor. Minimized and
// Maximized are mutually exclusive. Dragging and Resizing are transient
// interaction flags and are neither persisted nor synced as part of a layout.
type Window struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Kind             Kind           `json:"kind"`
	Position         geometry.Point `json:"position"`
	Size             geometry.Size  `json:"size"`
	ZIndex           int            `json:"z_index"`
	Minimized        bool           `json:"minimized"`
	Maximized        bool           `json:"maximized"`
	Dragging         bool           `json:"dragging,omitempty"`
	Resizing         bool           `json:"resizing,omitempty"`
	Visible          bool           `json:"visible"`
	LinkedTaskID     string         `json:"linked_task_id,omitempty"`
	LinkedWorkflowID string         `json:"linked_workflow_id,omitempty"`
	Content          content.Ref    `json:"content,omitempty"`
}

// Rect returns the window's frame.
func (w *Window) Rect() geometry.Rect {
	return geometry.Rect{X: w.Position.X, Y: w.Position.Y, Width: w.Size.Width, Height: w.Size.Height}
}

// CreateOptions are the caller-settable fields for Create. Zero values fall
// back to kind defaults: an empty kind becomes custom, a zero size becomes the
// kind's default size, and a nil position becomes a pseudo-random grid-aligned
// point so freshly created windows don't stack exactly on top of each other.
type CreateOptions struct {
	Title            string
	Kind             Kind
	Position         *geometry.Point
	Size             *geometry.Size
	LinkedTaskID     string
	LinkedWorkflowID string
	Content          content.Ref
}
