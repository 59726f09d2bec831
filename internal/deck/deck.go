// Package deck is the interactive floating-window surface: a bubbletea
// program that renders the window store onto a cell canvas and turns key and
// mouse input into store operations.
package deck

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/floatdeck/floatdeck/internal/content"
	"github.com/floatdeck/floatdeck/internal/geometry"
	"github.com/floatdeck/floatdeck/internal/gesture"
	"github.com/floatdeck/floatdeck/internal/layout"
	"github.com/floatdeck/floatdeck/internal/wm"
)

// storeChangedMsg redraws the deck when the store mutates outside the update
// loop, e.g. from the sync bridge.
type storeChangedMsg struct{}

var (
	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	statusDimStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("189"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Model is the root bubbletea model for the deck.
type Model struct {
	store    *wm.Store
	registry *content.Registry
	logger   *slog.Logger

	keys keyMap
	help help.Model

	width  int
	height int

	// Active pointer gesture, at most one at a time.
	drag   *gesture.Drag
	resize *gesture.Resize

	// Overlay form state.
	form     *huh.Form
	formMode formKind
	fTitle   string
	fKind    string
	fTask    string
	fWork    string
	fLayout  string

	// SyncState, when set, is shown in the status bar.
	SyncState func() string

	notice string
}

// New builds the deck model over a store. registry may be nil for plain
// placeholder content.
func New(store *wm.Store, registry *content.Registry, logger *slog.Logger) Model {
	if registry == nil {
		registry = content.NewRegistry(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		store:    store,
		registry: registry,
		logger:   logger,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
}

// Run starts the deck program and blocks until it exits. Store events from
// any origin trigger a redraw.
func Run(store *wm.Store, registry *content.Registry, logger *slog.Logger, syncState func() string) error {
	m := New(store, registry, logger)
	m.SyncState = syncState

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	store.Subscribe(func(wm.Event) {
		go p.Send(storeChangedMsg{})
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("deck exited: %w", err)
	}
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// canvasHeight is the rows left for windows after dock, status and help.
func (m Model) canvasHeight() int {
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) canvasWidth() int {
	vp := m.store.Viewport()
	w := vp.Width / pxPerCol
	if m.width > 0 && m.width < w {
		w = m.width
	}
	return w
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case storeChangedMsg:
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	if m.formMode != formNone {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	}

	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.form = nil
			m.formMode = formNone
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		mode := m.formMode
		m.form = nil
		m.formMode = formNone
		m.applyForm(mode)
	}

	return m, cmd
}

func (m *Model) applyForm(mode formKind) {
	switch mode {
	case formCreate:
		win := m.store.Create(wm.CreateOptions{
			Title:            m.fTitle,
			Kind:             wm.Kind(m.fKind),
			LinkedTaskID:     m.fTask,
			LinkedWorkflowID: m.fWork,
		})
		m.notice = fmt.Sprintf("created %q", win.Title)

	case formSave:
		if m.fLayout == "" {
			return
		}
		lay := layout.Capture(m.fLayout, m.store)
		if err := layout.Write(lay); err != nil {
			m.logger.Error("failed to save layout", "name", m.fLayout, "error", err)
			m.notice = fmt.Sprintf("save failed: %v", err)
			return
		}
		m.notice = fmt.Sprintf("saved layout %q", m.fLayout)

	case formLoad:
		if m.fLayout == "" {
			return
		}
		layout.ReadOrEmpty(m.fLayout).Apply(m.store)
		m.notice = fmt.Sprintf("loaded layout %q", m.fLayout)
	}
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, keys.New):
		m.fTitle, m.fKind, m.fTask, m.fWork = "", string(wm.KindCustom), "", ""
		m.form = newCreateForm(&m.fTitle, &m.fKind, &m.fTask, &m.fWork, m.width)
		m.formMode = formCreate
		return m, m.form.Init()

	case key.Matches(msg, keys.Save):
		m.fLayout = ""
		m.form = newSaveForm(&m.fLayout, m.width)
		m.formMode = formSave
		return m, m.form.Init()

	case key.Matches(msg, keys.Load):
		m.fLayout = ""
		if form := newLoadForm(&m.fLayout, m.width); form != nil {
			m.form = form
			m.formMode = formLoad
			return m, m.form.Init()
		}
		m.notice = "no saved layouts"
		return m, nil

	case key.Matches(msg, keys.Close):
		m.activeOp(m.store.Close)
	case key.Matches(msg, keys.Minimize):
		m.activeOp(m.store.Minimize)
	case key.Matches(msg, keys.Maximize):
		m.activeOp(m.store.Maximize)
	case key.Matches(msg, keys.Restore):
		m.activeOp(m.store.Restore)

	case key.Matches(msg, keys.Cycle):
		m.cycleFocus()

	case key.Matches(msg, keys.Cascade):
		m.arrange(wm.ModeCascade)
	case key.Matches(msg, keys.Tile):
		m.arrange(wm.ModeTile)
	case key.Matches(msg, keys.Grid):
		m.arrange(wm.ModeGrid)
	}

	return m, nil
}

func (m *Model) activeOp(op func(string) error) {
	id := m.store.ActiveID()
	if id == "" {
		return
	}
	if err := op(id); err != nil {
		m.logger.Debug("window op failed", "id", id, "error", err)
	}
}

// cycleFocus raises the bottom-most restorable window, like alt-tabbing to
// the least recently used one.
func (m *Model) cycleFocus() {
	for _, w := range m.store.Stacked() {
		if w.Visible && !w.Minimized {
			if err := m.store.Focus(w.ID); err == nil {
				return
			}
		}
	}
}

func (m *Model) arrange(mode wm.Mode) {
	if err := m.store.Arrange(mode); err != nil {
		m.logger.Debug("arrange failed", "mode", string(mode), "error", err)
	}
}

// hitRegion names what a canvas cell belongs to within a window.
type hitRegion int

const (
	hitContent hitRegion = iota
	hitTitle
	hitMinimize
	hitMaximize
	hitClose
	hitHandle
)

// hitTest finds the topmost window under a canvas cell and classifies the
// region. Minimized windows live in the dock, not on the canvas.
func (m Model) hitTest(cx, cy int) (wm.Window, hitRegion, gesture.Handle, bool) {
	stacked := m.store.Stacked()
	vp := m.store.Viewport()
	cw, ch := m.canvasWidth(), m.canvasHeight()

	for i := len(stacked) - 1; i >= 0; i-- {
		w := stacked[i]
		if !w.Visible || w.Minimized {
			continue
		}
		x, y, ww, wh := cellRect(w, vp, cw, ch)
		if cx < x || cx >= x+ww || cy < y || cy >= y+wh {
			continue
		}

		region, handle := classify(cx-x, cy-y, ww, wh)
		if w.Maximized && region == hitHandle {
			// Maximized windows have no live edges.
			region, handle = hitContent, ""
		}
		return w, region, handle, true
	}
	return wm.Window{}, hitContent, "", false
}

// classify maps window-relative cell coordinates to a region. Corners win
// over edges so diagonal handles stay reachable on small windows.
func classify(rx, ry, w, h int) (hitRegion, gesture.Handle) {
	left := rx == 0
	right := rx == w-1
	top := ry == 0
	bottom := ry == h-1

	switch {
	case top && left:
		return hitHandle, gesture.HandleNW
	case top && right:
		return hitHandle, gesture.HandleNE
	case bottom && left:
		return hitHandle, gesture.HandleSW
	case bottom && right:
		return hitHandle, gesture.HandleSE
	}

	if top {
		bx := w - 1 - len(windowButtons)
		if bx > 0 && rx >= bx {
			switch (rx - bx) / 3 {
			case 0:
				return hitMinimize, ""
			case 1:
				return hitMaximize, ""
			default:
				return hitClose, ""
			}
		}
		return hitTitle, ""
	}
	if bottom {
		return hitHandle, gesture.HandleS
	}
	if left {
		return hitHandle, gesture.HandleW
	}
	if right {
		return hitHandle, gesture.HandleE
	}
	return hitContent, ""
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	pointer := geometry.Point{X: msg.X * pxPerCol, Y: msg.Y * pxPerRow}

	switch msg.Action {
	case tea.MouseActionMotion:
		if m.drag != nil {
			if err := m.drag.Move(pointer); err != nil {
				m.drag = nil
			}
		}
		if m.resize != nil {
			if err := m.resize.Move(pointer); err != nil {
				m.resize = nil
			}
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.drag != nil {
			m.drag.End()
			m.drag = nil
		}
		if m.resize != nil {
			m.resize.End()
			m.resize = nil
		}
		return m, nil

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}

		// Dock row sits right below the canvas.
		if msg.Y == m.canvasHeight() {
			if id, ok := dockHit(m.store.Windows(), m.width, msg.X); ok {
				if err := m.store.Restore(id); err != nil {
					m.logger.Debug("dock restore failed", "id", id, "error", err)
				}
			}
			return m, nil
		}

		win, region, handle, ok := m.hitTest(msg.X, msg.Y)
		if !ok {
			return m, nil
		}

		switch region {
		case hitClose:
			m.store.Close(win.ID)
		case hitMinimize:
			m.store.Minimize(win.ID)
		case hitMaximize:
			if win.Maximized {
				m.store.Restore(win.ID)
			} else {
				m.store.Maximize(win.ID)
			}
		case hitTitle:
			if d, err := gesture.BeginDrag(m.store, win.ID, pointer); err == nil {
				m.drag = d
			} else {
				m.store.Focus(win.ID)
			}
		case hitHandle:
			if r, err := gesture.BeginResize(m.store, win.ID, handle, pointer); err == nil {
				m.resize = r
			} else {
				m.store.Focus(win.ID)
			}
		default:
			m.store.Focus(win.ID)
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.formMode != formNone && m.form != nil {
		header := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Render(m.formTitle()) +
			noticeStyle.Render("  (esc to cancel)")
		return lipgloss.NewStyle().Padding(1, 2).Render(header + "\n\n" + m.form.View())
	}

	canvas := newCanvas(m.canvasWidth(), m.canvasHeight())
	vp := m.store.Viewport()
	active := m.store.ActiveID()

	for _, w := range m.store.Stacked() {
		if !w.Visible || w.Minimized {
			continue
		}
		canvas.paintWindow(w, vp, w.ID == active, m.windowBody(w))
	}

	dockBar := renderDock(m.store.Windows(), m.width)
	statusBar := m.renderStatus()
	helpBar := m.help.View(m.keys)

	return lipgloss.JoinVertical(lipgloss.Left,
		canvas.render(),
		dockBar,
		statusBar,
		helpBar,
	)
}

func (m Model) formTitle() string {
	switch m.formMode {
	case formCreate:
		return "New Window"
	case formSave:
		return "Save Layout"
	case formLoad:
		return "Load Layout"
	}
	return ""
}

// windowBody renders a window's interior: its content plus linked ids.
func (m Model) windowBody(w wm.Window) string {
	body := m.registry.Render(w.Content)
	if w.LinkedTaskID != "" {
		body += "\ntask: " + w.LinkedTaskID
	}
	if w.LinkedWorkflowID != "" {
		body += "\nworkflow: " + w.LinkedWorkflowID
	}
	return body
}

func (m Model) renderStatus() string {
	left := statusStyle.Render(fmt.Sprintf("%d windows", m.store.Len()))

	sync := ""
	if m.SyncState != nil {
		sync = statusDimStyle.Render(" sync: " + m.SyncState() + " ")
	}

	notice := ""
	if m.notice != "" {
		notice = statusDimStyle.Render(" " + m.notice)
	}

	bar := left + sync + notice
	gap := m.width - lipgloss.Width(bar)
	if gap > 0 {
		bar += statusDimStyle.Width(gap).Render("")
	}
	return bar
}
