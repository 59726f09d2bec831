package deck

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/floatdeck/floatdeck/internal/wm"
)

var (
	dockStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("250"))

	dockChipStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("238")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	dockEmptyStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("241"))
)

// dockSpan is one minimized-window chip and the columns it occupies.
type dockSpan struct {
	id         string
	label      string
	start, end int // inclusive columns
}

// dockSpans lays out one chip per minimized window, in creation order,
// dropping chips that no longer fit. Both rendering and hit testing derive
// from the same layout so clicks always land on what is drawn.
func dockSpans(windows []wm.Window, width int) []dockSpan {
	var spans []dockSpan
	col := 0
	for _, w := range windows {
		if !w.Minimized {
			continue
		}
		label := w.Title
		if label == "" {
			label = string(w.Kind)
		}
		chipW := lipgloss.Width(dockChipStyle.Render(label))
		if col+chipW+1 > width {
			break
		}
		spans = append(spans, dockSpan{id: w.ID, label: label, start: col, end: col + chipW - 1})
		col += chipW + 1
	}
	return spans
}

// renderDock draws the minimized-window bar.
func renderDock(windows []wm.Window, width int) string {
	spans := dockSpans(windows, width)
	if len(spans) == 0 {
		return dockEmptyStyle.Width(width).Render(" no minimized windows")
	}

	var b strings.Builder
	col := 0
	for _, s := range spans {
		b.WriteString(dockChipStyle.Render(s.label))
		b.WriteString(dockStyle.Render(" "))
		col = s.end + 2
	}
	if col < width {
		b.WriteString(dockStyle.Width(width - col).Render(""))
	}
	return b.String()
}

// dockHit returns the window id of the chip at the given column, if any.
func dockHit(windows []wm.Window, width, col int) (string, bool) {
	for _, s := range dockSpans(windows, width) {
		if col >= s.start && col <= s.end {
			return s.id, true
		}
	}
	return "", false
}
