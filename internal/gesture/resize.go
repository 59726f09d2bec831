package gesture

import (
	"fmt"

	"github.com/floatdeck/floatdeck/internal/geometry"
	"github.com/floatdeck/floatdeck/internal/wm"
)

// Handle names one of the eight resize grips on a window border.
type Handle string

const (
	HandleN  Handle = "n"
	HandleNE Handle = "ne"
	HandleE  Handle = "e"
	HandleSE Handle = "se"
	HandleS  Handle = "s"
	HandleSW Handle = "sw"
	HandleW  Handle = "w"
	HandleNW Handle = "nw"
)

func (h Handle) west() bool  { return h == HandleW || h == HandleNW || h == HandleSW }
func (h Handle) east() bool  { return h == HandleE || h == HandleNE || h == HandleSE }
func (h Handle) north() bool { return h == HandleN || h == HandleNW || h == HandleNE }
func (h Handle) south() bool { return h == HandleS || h == HandleSW || h == HandleSE }

// Valid reports whether h names a known grip.
func (h Handle) Valid() bool {
	return h.west() || h.east() || h.north() || h.south()
}

// Resize tracks one pointer resize. Geometry at press time is the anchor:
// every Move recomputes from it, so clamping never accumulates drift. When a
// north or west edge is dragged, the opposite edge stays fixed by moving the
// window as it shrinks or grows.
type Resize struct {
	store     *wm.Store
	id        string
	handle    Handle
	startPos  geometry.Point
	startSize geometry.Size
	anchor    geometry.Point
}

// BeginResize starts resizing via the given handle. The window is focused and
// its resizing flag set.
func BeginResize(store *wm.Store, id string, handle Handle, pointer geometry.Point) (*Resize, error) {
	if !handle.Valid() {
		return nil, fmt.Errorf("resize %s: unknown handle %q", id, handle)
	}

	win, err := store.Get(id)
	if err != nil {
		return nil, err
	}
	if win.Maximized {
		return nil, fmt.Errorf("resize %s: %w", id, ErrMaximized)
	}

	if err := store.StartResize(id); err != nil {
		return nil, err
	}

	return &Resize{
		store:     store,
		id:        id,
		handle:    handle,
		startPos:  win.Position,
		startSize: win.Size,
		anchor:    pointer,
	}, nil
}

// Move applies the pointer position to the window's geometry.
func (r *Resize) Move(pointer geometry.Point) error {
	dx := pointer.X - r.anchor.X
	dy := pointer.Y - r.anchor.Y

	raw := r.startSize
	switch {
	case r.handle.east():
		raw.Width += dx
	case r.handle.west():
		raw.Width -= dx
	}
	switch {
	case r.handle.south():
		raw.Height += dy
	case r.handle.north():
		raw.Height -= dy
	}

	// The store snaps and clamps the same way, so position and size stay
	// consistent.
	effective := geometry.SnapSize(raw)

	if err := r.store.Resize(r.id, raw); err != nil {
		return err
	}

	pos := r.startPos
	if r.handle.west() {
		pos.X = r.startPos.X + (r.startSize.Width - effective.Width)
	}
	if r.handle.north() {
		pos.Y = r.startPos.Y + (r.startSize.Height - effective.Height)
	}
	if pos != r.startPos || r.handle.west() || r.handle.north() {
		return r.store.Move(r.id, pos)
	}
	return nil
}

// End settles the resize and clears the transient flag.
func (r *Resize) End() error {
	return r.store.EndResize(r.id)
}
