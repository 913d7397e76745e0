package flow

import "time"

// InvalidID is the reserved free-marker for Entry.ID.
const InvalidID uint64 = 0

// State is a flow entry's lifecycle state.
type State uint8

const (
	// StateFree marks a pool slot that holds no live entry. Only
	// slots in this state live on the free list.
	StateFree State = iota

	// StateNew is a live, not-yet-deleted entry.
	StateNew

	// StateDeleteMarked is a live entry that has been marked for
	// deletion but not yet reclaimed by Delete.
	StateDeleteMarked
)

// IsDeleted reports whether a state is one of the deleting states.
// Today that is only StateDeleteMarked, but callers should use this
// predicate rather than comparing to StateDeleteMarked directly, since
// the lifecycle may grow additional deleting states.
func IsDeleted(s State) bool {
	return s == StateDeleteMarked
}

// WildcardOutPort, used in Query.OutPort, disables the output-port
// filter.
const WildcardOutPort uint32 = 0xFFFFFFFF

// AnyTableID, used in Query.TableID, disables the table-ID filter.
const AnyTableID uint8 = 0xFF

// Entry is one flow rule. The table hands out *Entry pointers into its
// own fixed pool; they stay stable for the table's lifetime but are
// only valid as read-only references until the next operation that
// mutates this entry or the table's index membership.
type Entry struct {
	ID       uint64
	State    State
	Match    []byte
	Priority uint16
	Cookie   uint64

	Flags       uint32
	IdleTimeout uint16
	HardTimeout uint16
	TableID     uint8

	FlowAdd     FlowAdd
	Effects     Effects
	OutputPorts []uint32

	QueuedReqs []any

	Packets uint64
	Bytes   uint64

	InsertTime        time.Time
	LastCounterChange time.Time
	RemovedReason     uint32

	slot int32
}

// hasOutPort reports whether the entry's output port list contains
// port. Used by the query engine's step 6 filter.
func (e *Entry) hasOutPort(port uint32) bool {
	for _, p := range e.OutputPorts {
		if p == port {
			return true
		}
	}

	return false
}

// ClearCounters writes out the current packet/byte counters and zeroes
// them. Either pointer may be nil if the caller does not need that
// value.
func (e *Entry) ClearCounters(packets, bytes *uint64) {
	if packets != nil {
		*packets = e.Packets
	}

	if bytes != nil {
		*bytes = e.Bytes
	}

	e.Packets = 0
	e.Bytes = 0
}

func (e *Entry) reset() {
	e.ID = InvalidID
	e.State = StateFree
	e.Match = nil
	e.Priority = 0
	e.Cookie = 0
	e.Flags = 0
	e.IdleTimeout = 0
	e.HardTimeout = 0
	e.TableID = 0
	e.FlowAdd = nil
	e.Effects = nil
	e.OutputPorts = nil
	e.QueuedReqs = nil
	e.Packets = 0
	e.Bytes = 0
	e.RemovedReason = 0
}
