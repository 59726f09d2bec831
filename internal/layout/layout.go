// Package layout persists named window layouts as JSON files under the user
// config directory and restores them into the window store.
package layout

import (
	"time"

	"github.com/floatdeck/floatdeck/internal/geometry"
	"github.com/floatdeck/floatdeck/internal/wm"
)

// WindowEntry is the persisted form of one window. Transient interaction
// flags, visibility, and the live content payload are deliberately excluded:
// a restored window is always visible and idle, and content is re-attached by
// the host through the registry.
type WindowEntry struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Kind             wm.Kind        `json:"kind"`
	Position         geometry.Point `json:"position"`
	Size             geometry.Size  `json:"size"`
	Minimized        bool           `json:"minimized"`
	Maximized        bool           `json:"maximized"`
	LinkedTaskID     string         `json:"linked_task_id,omitempty"`
	LinkedWorkflowID string         `json:"linked_workflow_id,omitempty"`
}

// Layout is a named snapshot of the window collection.
type Layout struct {
	Name    string        `json:"name"`
	SavedAt time.Time     `json:"saved_at"`
	Windows []WindowEntry `json:"windows"`
}

// Capture snapshots the store into a layout named name.
func Capture(name string, store *wm.Store) *Layout {
	windows := store.Snapshot()
	l := &Layout{
		Name:    name,
		SavedAt: time.Now(),
		Windows: make([]WindowEntry, 0, len(windows)),
	}
	for _, w := range windows {
		l.Windows = append(l.Windows, WindowEntry{
			ID:               w.ID,
			Title:            w.Title,
			Kind:             w.Kind,
			Position:         w.Position,
			Size:             w.Size,
			Minimized:        w.Minimized,
			Maximized:        w.Maximized,
			LinkedTaskID:     w.LinkedTaskID,
			LinkedWorkflowID: w.LinkedWorkflowID,
		})
	}
	return l
}

// Apply replaces the store's collection with the layout's windows.
func (l *Layout) Apply(store *wm.Store) {
	windows := make([]wm.Window, 0, len(l.Windows))
	for _, e := range l.Windows {
		windows = append(windows, wm.Window{
			ID:               e.ID,
			Title:            e.Title,
			Kind:             e.Kind,
			Position:         e.Position,
			Size:             e.Size,
			Minimized:        e.Minimized,
			Maximized:        e.Maximized,
			LinkedTaskID:     e.LinkedTaskID,
			LinkedWorkflowID: e.LinkedWorkflowID,
		})
	}
	store.ReplaceAll(windows)
}
