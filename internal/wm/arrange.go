package wm

import (
	"fmt"
	"math"

	"github.com/floatdeck/floatdeck/internal/geometry"
)

// Mode selects an arrangement algorithm.
type Mode string

const (
	// ModeCascade steps windows diagonally, keeping their sizes.
	ModeCascade Mode = "cascade"
	// ModeTile fills the viewport edge to edge with equal cells.
	ModeTile Mode = "tile"
	// ModeGrid is tile with a fixed margin reserved around every cell.
	ModeGrid Mode = "grid"
)

const (
	cascadeStep = 30
	gridMargin  = 10
)

// Modes lists the arrangement modes in display order.
func Modes() []Mode {
	return []Mode{ModeCascade, ModeTile, ModeGrid}
}

// Valid reports whether m names a known arrangement.
func (m Mode) Valid() bool {
	switch m {
	case ModeCascade, ModeTile, ModeGrid:
		return true
	}
	return false
}

// gridDims returns the cell grid for n windows: columns is the ceiling of the
// square root, rows whatever is needed to hold the remainder.
func gridDims(n int) (rows, cols int) {
	if n == 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = int(math.Ceil(float64(n) / float64(cols)))
	return rows, cols
}

// Arrange recomputes position and size for every visible, non-minimized
// window in creation order. Maximized is cleared on every affected window.
// Zero eligible windows is a successful no-op.
func (s *Store) Arrange(mode Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !mode.Valid() {
		return fmt.Errorf("arrange %q: %w", mode, ErrUnknownMode)
	}

	var eligible []*Window
	for _, id := range s.order {
		w := s.windows[id]
		if w.Visible && !w.Minimized {
			eligible = append(eligible, w)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	switch mode {
	case ModeCascade:
		arrangeCascade(eligible)
	case ModeTile:
		arrangeCells(eligible, s.viewport, 0)
	case ModeGrid:
		arrangeCells(eligible, s.viewport, gridMargin)
	}

	for _, w := range eligible {
		w.Maximized = false
	}

	s.emit(Event{Op: OpArrange, Origin: OriginLocal})
	return nil
}

func arrangeCascade(wins []*Window) {
	for i, w := range wins {
		w.Position = geometry.SnapPoint(geometry.Point{
			X: cascadeStep * i,
			Y: cascadeStep * i,
		})
	}
}

// arrangeCells lays windows into a rows×cols grid over the viewport. With a
// zero margin the cells tile the viewport with no gaps; a positive margin is
// reserved on all four sides of every cell.
func arrangeCells(wins []*Window, viewport geometry.Size, margin int) {
	rows, cols := gridDims(len(wins))
	cellW := viewport.Width / cols
	cellH := viewport.Height / rows

	for i, w := range wins {
		row := i / cols
		col := i % cols
		w.Position = geometry.SnapPoint(geometry.Point{
			X: col*cellW + margin,
			Y: row*cellH + margin,
		})
		w.Size = geometry.SnapSize(geometry.Size{
			Width:  cellW - 2*margin,
			Height: cellH - 2*margin,
		})
	}
}
