// Package geometry provides grid-snapped pixel geometry for the window deck.
package geometry

const (
	// GridUnit is the snap grid size in pixels. Every stored position and
	// size component is a multiple of this unit.
	GridUnit = 10

	// MinWidth and MinHeight are the smallest size a window may take.
	MinWidth  = 200
	MinHeight = 150
)

// Point is a pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a pixel extent.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is a positioned extent.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether the point (x, y) falls inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Snap rounds v to the nearest multiple of GridUnit. Negative values snap
// toward zero's side the same way positive ones do.
func Snap(v int) int {
	if v < 0 {
		return -Snap(-v)
	}
	return (v + GridUnit/2) / GridUnit * GridUnit
}

// SnapPoint snaps both components of p and clamps negatives to zero.
// Positions are never negative: a window dragged past the viewport origin
// pins to the edge instead.
func SnapPoint(p Point) Point {
	x := Snap(p.X)
	y := Snap(p.Y)
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return Point{X: x, Y: y}
}

// SnapSize snaps both components of s and clamps to the minimum floor.
func SnapSize(s Size) Size {
	w := Snap(s.Width)
	h := Snap(s.Height)
	if w < MinWidth {
		w = MinWidth
	}
	if h < MinHeight {
		h = MinHeight
	}
	return Size{Width: w, Height: h}
}
