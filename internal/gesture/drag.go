// Package gesture turns raw pointer input into window store mutations. A
// gesture object lives for one press-move-release interaction and keeps the
// anchoring math out of the views.
package gesture

import (
	"errors"
	"fmt"

	"github.com/floatdeck/floatdeck/internal/geometry"
	"github.com/floatdeck/floatdeck/internal/wm"
)

// ErrMaximized is returned when a drag or resize is started on a maximized
// window. Maximized windows do not move or resize until restored.
var ErrMaximized = errors.New("window is maximized")

// Drag tracks one pointer drag. The offset between the pointer and the
// window's top-left corner is captured at press time and held constant, so
// the window does not jump under the cursor.
type Drag struct {
	store  *wm.Store
	id     string
	offset geometry.Point
}

// BeginDrag starts dragging the window under the pointer. The window is
// focused and its dragging flag set.
func BeginDrag(store *wm.Store, id string, pointer geometry.Point) (*Drag, error) {
	win, err := store.Get(id)
	if err != nil {
		return nil, err
	}
	if win.Maximized {
		return nil, fmt.Errorf("drag %s: %w", id, ErrMaximized)
	}

	if err := store.StartDrag(id); err != nil {
		return nil, err
	}

	return &Drag{
		store: store,
		id:    id,
		offset: geometry.Point{
			X: pointer.X - win.Position.X,
			Y: pointer.Y - win.Position.Y,
		},
	}, nil
}

// Move repositions the window so the grab point stays under the pointer.
func (d *Drag) Move(pointer geometry.Point) error {
	return d.store.Move(d.id, geometry.Point{
		X: pointer.X - d.offset.X,
		Y: pointer.Y - d.offset.Y,
	})
}

// End settles the drag and clears the transient flag.
func (d *Drag) End() error {
	return d.store.EndDrag(d.id)
}
