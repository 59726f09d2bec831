package wm

// Op identifies a store mutation. Every operation emits exactly one event to
// registered observers, synchronously, while the mutation's effects are
// already visible in the store.
type Op string

const (
	OpCreate      Op = "create"
	OpClose       Op = "close"
	OpMinimize    Op = "minimize"
	OpMaximize    Op = "maximize"
	OpRestore     Op = "restore"
	OpFocus       Op = "focus"
	OpMove        Op = "move"
	OpResize      Op = "resize"
	OpDragStart   Op = "drag_start"
	OpDragEnd     Op = "drag_end"
	OpResizeStart Op = "resize_start"
	OpResizeEnd   Op = "resize_end"
	OpArrange     Op = "arrange"
	OpUpdate      Op = "update"
	OpFullSync    Op = "full_sync"
	OpLoadLayout  Op = "load_layout"
)

// Origin tells an observer whether a mutation was requested locally or
// applied on behalf of the remote peer. The sync bridge mirrors local
// mutations outward and must not echo remote-applied ones back.
type Origin int

const (
	OriginLocal Origin = iota
	OriginRemote
)

// Event describes one completed store mutation. Window is a copy of the
// affected record taken after the mutation (nil for close and collection-wide
// operations).
type Event struct {
	Op     Op
	Origin Origin
	ID     string
	Window *Window
}

// Observer receives store events. Observers run synchronously on the mutating
// call; a panicking observer is recovered and logged so it can never corrupt
// or wedge the store.
type Observer func(Event)
