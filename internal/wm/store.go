package wm

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/floatdeck/floatdeck/internal/geometry"
)

// loadZBase is where the z-order pool restarts after a layout load: the
// counter becomes loadZBase + window count so later focus operations stack
// above everything restored.
const loadZBase = 100

// DefaultViewport is used for arrangement when the host never reports a
// viewport size.
var DefaultViewport = geometry.Size{Width: 1600, Height: 900}

// Store is the authoritative window collection. All mutations go through its
// operations, each of which runs to completion under the store lock and then
// notifies observers synchronously, so callers on any goroutine observe a
// serialized history and "last focused wins the top" holds.
type Store struct {
	mu        sync.Mutex
	windows   map[string]*Window
	order     []string // creation order, drives arrangement
	zCounter  int
	activeID  string
	viewport  geometry.Size
	observers []Observer
	logger    *slog.Logger

	// injection points for deterministic tests
	newID   func() string
	randInt func(n int) int
}

// NewStore creates an empty store. A nil logger falls back to slog.Default.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		windows:  make(map[string]*Window),
		viewport: DefaultViewport,
		logger:   logger,
		newID:    func() string { return uuid.New().String() },
		randInt:  rand.Intn,
	}
}

// Subscribe registers an observer for every subsequent mutation.
func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// SetViewport records the viewport used by arrangement operations.
func (s *Store) SetViewport(size geometry.Size) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if size.Width > 0 && size.Height > 0 {
		s.viewport = size
	}
}

// Viewport returns the current arrangement viewport.
func (s *Store) Viewport() geometry.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// emit delivers an event to all observers. Called with the lock held; the
// event carries copies only, so observers may call back into the store from
// another goroutine but must not block forever. A panicking observer is
// recovered and logged.
func (s *Store) emit(ev Event) {
	for _, fn := range s.observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("window store observer panicked", "op", ev.Op, "id", ev.ID, "panic", r)
				}
			}()
			fn(ev)
		}()
	}
}

func (s *Store) snapshotOf(w *Window) *Window {
	cp := *w
	return &cp
}

// Create adds a window, filling unset fields from kind defaults, and makes it
// the active, topmost window. Returns a copy of the new record.
func (s *Store) Create(opts CreateOptions) Window {
	return s.create(opts, OriginLocal)
}

func (s *Store) create(opts CreateOptions, origin Origin) Window {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind := opts.Kind
	if !kind.Valid() {
		kind = KindCustom
	}

	size := kind.DefaultSize()
	if opts.Size != nil {
		size = geometry.SnapSize(*opts.Size)
	}

	var pos geometry.Point
	if opts.Position != nil {
		pos = geometry.SnapPoint(*opts.Position)
	} else {
		pos = geometry.SnapPoint(geometry.Point{
			X: 40 + s.randInt(400),
			Y: 40 + s.randInt(200),
		})
	}

	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("%s window", kind)
	}

	s.zCounter++
	w := &Window{
		ID:               s.newID(),
		Title:            title,
		Kind:             kind,
		Position:         pos,
		Size:             size,
		ZIndex:           s.zCounter,
		Visible:          true,
		LinkedTaskID:     opts.LinkedTaskID,
		LinkedWorkflowID: opts.LinkedWorkflowID,
		Content:          opts.Content,
	}
	s.windows[w.ID] = w
	s.order = append(s.order, w.ID)
	s.activeID = w.ID

	s.emit(Event{Op: OpCreate, Origin: origin, ID: w.ID, Window: s.snapshotOf(w)})
	return *w
}

// Close removes the window. When the active window closes, the survivor with
// the highest z-index becomes active; closing the last window clears the
// active pointer.
func (s *Store) Close(id string) error {
	return s.close(id, OriginLocal)
}

func (s *Store) close(id string, origin Origin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.windows[id]; !ok {
		return fmt.Errorf("close %q: %w", id, ErrWindowNotFound)
	}
	delete(s.windows, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	if s.activeID == id {
		s.activeID = ""
		top := -1
		for _, w := range s.windows {
			if w.ZIndex > top {
				top = w.ZIndex
				s.activeID = w.ID
			}
		}
	}

	s.emit(Event{Op: OpClose, Origin: origin, ID: id})
	return nil
}

// Minimize hides the window into the dock. Z-order and the active pointer are
// left untouched.
func (s *Store) Minimize(id string) error {
	return s.minimize(id, OriginLocal)
}

func (s *Store) minimize(id string, origin Origin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("minimize %q: %w", id, ErrWindowNotFound)
	}
	w.Minimized = true
	w.Maximized = false
	s.emit(Event{Op: OpMinimize, Origin: origin, ID: id, Window: s.snapshotOf(w)})
	return nil
}

// Maximize expands the window, raising it to the top of the stack.
func (s *Store) Maximize(id string) error {
	return s.maximize(id, OriginLocal)
}

func (s *Store) maximize(id string, origin Origin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("maximize %q: %w", id, ErrWindowNotFound)
	}
	w.Maximized = true
	w.Minimized = false
	s.raise(w)
	s.emit(Event{Op: OpMaximize, Origin: origin, ID: id, Window: s.snapshotOf(w)})
	return nil
}

// Restore clears both the minimized and maximized states and raises the
// window to the top of the stack.
func (s *Store) Restore(id string) error {
	return s.restore(id, OriginLocal)
}

func (s *Store) restore(id string, origin Origin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("restore %q: %w", id, ErrWindowNotFound)
	}
	w.Minimized = false
	w.Maximized = false
	s.raise(w)
	s.emit(Event{Op: OpRestore, Origin: origin, ID: id, Window: s.snapshotOf(w)})
	return nil
}

// Focus raises the window and makes it active. Focusing the already-active
// window is an idempotent no-op that emits nothing; minimized windows are not
// focusable until restored.
func (s *Store) Focus(id string) error {
	return s.focus(id, OriginLocal)
}

func (s *Store) focus(id string, origin Origin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("focus %q: %w", id, ErrWindowNotFound)
	}
	if s.activeID == id || w.Minimized {
		return nil
	}
	s.raise(w)
	s.emit(Event{Op: OpFocus, Origin: origin, ID: id, Window: s.snapshotOf(w)})
	return nil
}

// Move snaps the position to the grid and stores it. Z-order is unchanged.
func (s *Store) Move(id string, pos geometry.Point) error {
	return s.move(id, pos, OriginLocal)
}

func (s *Store) move(id string, pos geometry.Point, origin Origin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("move %q: %w", id, ErrWindowNotFound)
	}
	w.Position = geometry.SnapPoint(pos)
	s.emit(Event{Op: OpMove, Origin: origin, ID: id, Window: s.snapshotOf(w)})
	return nil
}

// Resize snaps the size to the grid, clamps it to the minimum floor, and
// stores it. An undersized request is resolved by clamping, never rejected.
func (s *Store) Resize(id string, size geometry.Size) error {
	return s.resize(id, size, OriginLocal)
}

func (s *Store) resize(id string, size geometry.Size, origin Origin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("resize %q: %w", id, ErrWindowNotFound)
	}
	w.Size = geometry.SnapSize(size)
	s.emit(Event{Op: OpResize, Origin: origin, ID: id, Window: s.snapshotOf(w)})
	return nil
}

// StartDrag marks the window as mid-drag and raises it to the top.
func (s *Store) StartDrag(id string) error {
	return s.setInteraction(id, OpDragStart)
}

// EndDrag clears the drag flag.
func (s *Store) EndDrag(id string) error {
	return s.setInteraction(id, OpDragEnd)
}

// StartResize marks the window as mid-resize and raises it to the top.
func (s *Store) StartResize(id string) error {
	return s.setInteraction(id, OpResizeStart)
}

// EndResize clears the resize flag.
func (s *Store) EndResize(id string) error {
	return s.setInteraction(id, OpResizeEnd)
}

func (s *Store) setInteraction(id string, op Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return fmt.Errorf("%s %q: %w", op, id, ErrWindowNotFound)
	}
	switch op {
	case OpDragStart:
		w.Dragging = true
		s.raise(w)
	case OpDragEnd:
		w.Dragging = false
	case OpResizeStart:
		w.Resizing = true
		s.raise(w)
	case OpResizeEnd:
		w.Resizing = false
	}
	s.emit(Event{Op: op, Origin: OriginLocal, ID: id, Window: s.snapshotOf(w)})
	return nil
}

// raise moves w to the top of the stack and makes it active. Called with the
// lock held. The counter only ever advances, so z-indices need not be
// contiguous but the highest always identifies the most recently raised
// window.
func (s *Store) raise(w *Window) {
	s.zCounter++
	w.ZIndex = s.zCounter
	s.activeID = w.ID
}

// Get returns a copy of the window.
func (s *Store) Get(id string) (Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return Window{}, fmt.Errorf("get %q: %w", id, ErrWindowNotFound)
	}
	return *w, nil
}

// Windows returns copies of all records in creation order.
func (s *Store) Windows() []Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.windowsLocked()
}

func (s *Store) windowsLocked() []Window {
	out := make([]Window, 0, len(s.order))
	for _, id := range s.order {
		if w, ok := s.windows[id]; ok {
			out = append(out, *w)
		}
	}
	return out
}

// Stacked returns copies of all records sorted by z-index ascending, so the
// last element renders on top.
func (s *Store) Stacked() []Window {
	wins := s.Windows()
	for i := 1; i < len(wins); i++ {
		for j := i; j > 0 && wins[j-1].ZIndex > wins[j].ZIndex; j-- {
			wins[j-1], wins[j] = wins[j], wins[j-1]
		}
	}
	return wins
}

// ActiveID returns the id of the active window, or "" when none exists.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Len returns the number of windows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// Snapshot returns copies of every record in creation order, for persistence
// and full-state sync.
func (s *Store) Snapshot() []Window {
	return s.Windows()
}

// ReplaceAll swaps in a restored collection wholesale, as after loading a
// persisted layout. Transient flags are cleared, every window becomes
// visible, z-indices are reassigned in slice order above loadZBase, and the
// z-counter restarts at loadZBase + count.
func (s *Store) ReplaceAll(windows []Window) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.windows = make(map[string]*Window, len(windows))
	s.order = s.order[:0]
	s.activeID = ""

	for i := range windows {
		w := windows[i]
		if w.ID == "" || !w.Kind.Valid() {
			continue
		}
		w.Dragging = false
		w.Resizing = false
		w.Visible = true
		w.Position = geometry.SnapPoint(w.Position)
		w.Size = geometry.SnapSize(w.Size)
		if w.Minimized && w.Maximized {
			w.Maximized = false
		}
		w.ZIndex = loadZBase + len(s.order) + 1
		s.windows[w.ID] = &w
		s.order = append(s.order, w.ID)
		s.activeID = w.ID
	}
	s.zCounter = loadZBase + len(s.order)

	s.emit(Event{Op: OpLoadLayout, Origin: OriginLocal})
}

// Remote returns the facade the sync bridge uses to apply mutations received
// from the peer. Remote-origin events are emitted so local views re-render,
// but the bridge recognizes the origin and does not echo them outward.
func (s *Store) Remote() Remote {
	return Remote{s: s}
}

// Remote applies peer-originated mutations to the store. Single-record
// upserts trust the remote as authoritative for that record.
type Remote struct {
	s *Store
}

// Create inserts a remote-created window. A duplicate id is ignored: the
// local record already reflects the creation.
func (r Remote) Create(w Window) {
	r.s.mu.Lock()
	if _, exists := r.s.windows[w.ID]; exists || w.ID == "" {
		r.s.mu.Unlock()
		return
	}
	r.s.mu.Unlock()
	r.s.Update(w)
}

func (r Remote) Close(id string) error    { return r.s.close(id, OriginRemote) }
func (r Remote) Minimize(id string) error { return r.s.minimize(id, OriginRemote) }
func (r Remote) Maximize(id string) error { return r.s.maximize(id, OriginRemote) }
func (r Remote) Restore(id string) error  { return r.s.restore(id, OriginRemote) }
func (r Remote) Focus(id string) error    { return r.s.focus(id, OriginRemote) }

func (r Remote) Move(id string, pos geometry.Point) error {
	return r.s.move(id, pos, OriginRemote)
}

func (r Remote) Resize(id string, size geometry.Size) error {
	return r.s.resize(id, size, OriginRemote)
}

// Update upserts a full record from the peer.
func (r Remote) Update(w Window) { r.s.Update(w) }

// FullSync upserts every record in the reconciliation payload.
func (r Remote) FullSync(windows []Window) {
	for _, w := range windows {
		r.s.upsert(w, OpFullSync)
	}
}

// Update upserts a single record, bypassing normal creation defaults: the
// source is trusted as authoritative for that record.
func (s *Store) Update(w Window) {
	s.upsert(w, OpUpdate)
}

func (s *Store) upsert(w Window, op Op) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.ID == "" {
		return
	}
	w.Position = geometry.SnapPoint(w.Position)
	w.Size = geometry.SnapSize(w.Size)
	if _, exists := s.windows[w.ID]; !exists {
		s.order = append(s.order, w.ID)
	}
	cp := w
	s.windows[w.ID] = &cp
	if w.ZIndex > s.zCounter {
		s.zCounter = w.ZIndex
	}
	if s.activeID == "" {
		s.activeID = w.ID
	}

	s.emit(Event{Op: op, Origin: OriginRemote, ID: w.ID, Window: s.snapshotOf(&cp)})
}
