package trace

import (
	"slices"
	"sync"

	"github.com/theotherphil/prism/imagebuf"
)

// TraceId identifies one traced buffer within a Trace, assigned in
// [Trace.CreateTraceID] call order.
type TraceId int

// ActionKind discriminates the variant of an [Action].
type ActionKind uint8

const (
	// ActionRead records a pixel read.
	ActionRead ActionKind = iota
	// ActionWrite records a pixel write.
	ActionWrite
	// ActionClear records an image being reset to empty.
	ActionClear
	// ActionActive records a region of an image becoming "active", a
	// visualisation-only concept with no precise meaning in terms of
	// schedules.
	ActionActive
)

func (k ActionKind) String() string {
	switch k {
	case ActionRead:
		return "read"
	case ActionWrite:
		return "write"
	case ActionClear:
		return "clear"
	case ActionActive:
		return "active"
	default:
		return "unknown"
	}
}

// ActiveRegion is a rectangular region of a buffer, used only by
// [ActionActive] entries.
type ActiveRegion struct {
	X, Y, Width, Height int
}

// Action is one recorded event. Only the fields relevant to Kind are
// populated; see [ActionKind]'s constants for which.
type Action struct {
	Kind   ActionKind
	ID     TraceId
	X, Y   int
	Value  byte
	Region ActiveRegion
}

// Trace is an append-only record of actions performed against a set of
// traced buffers, plus a snapshot of each buffer's contents at the moment
// it was registered.
//
// Trace is safe for concurrent use; every method acquires an internal
// mutex before mutating state.
type Trace struct {
	mu            sync.Mutex
	actions       []Action
	initialImages []*imagebuf.Image
}

// New returns an empty Trace.
func New() *Trace {
	return &Trace{}
}

// CreateTraceID registers a new traced buffer, snapshotting initial (the
// snapshot is a copy; later mutations to initial are not reflected), and
// returns the TraceId subsequent actions should reference.
func (t *Trace) CreateTraceID(initial *imagebuf.Image) TraceId {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := imagebuf.FromRows(initial.Rows())
	id := TraceId(len(t.initialImages))
	t.initialImages = append(t.initialImages, snapshot)
	return id
}

// Get records a read of (x, y) from the buffer identified by id.
func (t *Trace) Get(id TraceId, x, y int) {
	t.append(Action{Kind: ActionRead, ID: id, X: x, Y: y})
}

// Set records a write of v to (x, y) in the buffer identified by id.
func (t *Trace) Set(id TraceId, x, y int, v byte) {
	t.append(Action{Kind: ActionWrite, ID: id, X: x, Y: y, Value: v})
}

// Clear records the buffer identified by id being reset to empty.
func (t *Trace) Clear(id TraceId) {
	t.append(Action{Kind: ActionClear, ID: id})
}

// Active records region becoming active in the buffer identified by id.
func (t *Trace) Active(id TraceId, region ActiveRegion) {
	t.append(Action{Kind: ActionActive, ID: id, Region: region})
}

func (t *Trace) append(a Action) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.actions = append(t.actions, a)
}

// Actions returns every recorded action, in the order it was recorded.
func (t *Trace) Actions() []Action {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.actions)
}

// InitialImages returns the snapshot taken by CreateTraceID for each
// TraceId, indexed by TraceId.
func (t *Trace) InitialImages() []*imagebuf.Image {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.initialImages)
}
