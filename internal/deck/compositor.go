package deck

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/floatdeck/floatdeck/internal/geometry"
	"github.com/floatdeck/floatdeck/internal/wm"
)

// One terminal cell stands for a pxPerCol x pxPerRow pixel block, so the
// default 1600x900 viewport maps to a 160x45 cell canvas.
const (
	pxPerCol = 10
	pxPerRow = 20
)

type cellStyle uint8

const (
	styleNone cellStyle = iota
	styleFrame
	styleFrameActive
	styleTitle
	styleTitleActive
	styleContent
)

var cellStyles = map[cellStyle]lipgloss.Style{
	styleFrame:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	styleFrameActive: lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
	styleTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	styleTitleActive: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	styleContent:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

type cell struct {
	r     rune
	style cellStyle
}

// canvas is a cell grid the windows are painted onto in stacking order.
type canvas struct {
	width  int
	height int
	cells  []cell
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height, cells: make([]cell, width*height)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, s cellStyle) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y*c.width+x] = cell{r: r, style: s}
}

func (c *canvas) text(x, y int, s string, style cellStyle) {
	for i, r := range s {
		c.set(x+i, y, r, style)
	}
}

// cellRect converts a window's pixel geometry to canvas cells. A maximized
// window covers the whole canvas. The frame needs at least 2x2 cells.
func cellRect(w wm.Window, viewport geometry.Size, canvasW, canvasH int) (x, y, cw, ch int) {
	if w.Maximized {
		return 0, 0, canvasW, canvasH
	}
	x = w.Position.X / pxPerCol
	y = w.Position.Y / pxPerRow
	cw = w.Size.Width / pxPerCol
	ch = w.Size.Height / pxPerRow
	if cw < 2 {
		cw = 2
	}
	if ch < 2 {
		ch = 2
	}
	return x, y, cw, ch
}

// paintWindow draws one window frame, title bar and content onto the canvas.
func (c *canvas) paintWindow(w wm.Window, viewport geometry.Size, active bool, body string) {
	x, y, cw, ch := cellRect(w, viewport, c.width, c.height)

	frame := styleFrame
	title := styleTitle
	if active {
		frame = styleFrameActive
		title = styleTitleActive
	}

	// Clear the footprint so lower windows never show through.
	for row := y; row < y+ch; row++ {
		for col := x; col < x+cw; col++ {
			c.set(col, row, ' ', styleNone)
		}
	}

	// Frame.
	for col := x + 1; col < x+cw-1; col++ {
		c.set(col, y, '─', frame)
		c.set(col, y+ch-1, '─', frame)
	}
	for row := y + 1; row < y+ch-1; row++ {
		c.set(x, row, '│', frame)
		c.set(x+cw-1, row, '│', frame)
	}
	c.set(x, y, '╭', frame)
	c.set(x+cw-1, y, '╮', frame)
	c.set(x, y+ch-1, '╰', frame)
	c.set(x+cw-1, y+ch-1, '╯', frame)

	// Title bar: name on the left, controls on the right.
	label := " " + w.Title + " "
	maxLabel := cw - 2 - len(windowButtons)
	if maxLabel < 0 {
		maxLabel = 0
	}
	if len(label) > maxLabel {
		label = truncate(label, maxLabel)
	}
	c.text(x+1, y, label, title)
	if cw-1-len(windowButtons) > 0 {
		c.text(x+cw-1-len(windowButtons), y, windowButtons, frame)
	}

	// Content area.
	innerW := cw - 2
	innerH := ch - 2
	if innerW <= 0 || innerH <= 0 {
		return
	}
	lines := strings.Split(body, "\n")
	for i := 0; i < innerH && i < len(lines); i++ {
		line := truncate(lines[i], innerW)
		c.text(x+1, y+1+i, line, styleContent)
	}
}

// render joins the cell grid into styled terminal rows.
func (c *canvas) render() string {
	var b strings.Builder
	for row := 0; row < c.height; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		runStyle := c.cells[row*c.width].style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if s, ok := cellStyles[runStyle]; ok {
				b.WriteString(s.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for col := 0; col < c.width; col++ {
			cl := c.cells[row*c.width+col]
			if cl.style != runStyle {
				flush()
				runStyle = cl.style
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return b.String()
}

// windowButtons are the title bar controls, right aligned: minimize,
// maximize, close.
const windowButtons = "[-][+][x]"

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return string(r[:1])
	}
	return string(r[:max-1]) + "…"
}
