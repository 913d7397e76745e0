package flow

import "time"

// FlowAdd is an opaque, externally-owned flow-mod add message. The
// table never inspects it beyond the capabilities below; it only
// stores the deep copy handed back by a Duplicator.
type FlowAdd any

// Effects is an opaque, externally-owned action or instruction list
// (OpenFlow 1.0 actions vs. 1.1+ instructions — the table treats both
// the same way).
type Effects any

// Duplicator performs deep copy and deep delete of the externally
// defined FlowAdd and Effects payloads the table stores by reference.
// The table owns what a Duplicator hands it and calls Delete exactly
// once, when that copy is no longer reachable from any entry.
type Duplicator interface {
	DupFlowAdd(src FlowAdd) FlowAdd
	DeleteFlowAdd(fa FlowAdd)
	DeleteEffects(e Effects)
}

// FlowMod is an opaque externally-owned flow-mod modify message,
// passed to ModifyEffects.
type FlowMod any

// EffectsBuilder derives an entry's match key, effects and output
// ports from the add/modify messages the table is handed. MatchKey
// must return a stable-length byte slice free of uninitialized
// padding, since it is hashed and compared byte-for-byte by the
// match index.
type EffectsBuilder interface {
	MatchKey(fa FlowAdd) []byte
	Priority(fa FlowAdd) uint16
	Cookie(fa FlowAdd) uint64
	Flags(fa FlowAdd) uint32
	IdleTimeout(fa FlowAdd) uint16
	HardTimeout(fa FlowAdd) uint16

	// BuildEffects derives the effects list and the output ports
	// distilled from it.
	BuildEffects(fa FlowAdd) (Effects, []uint32)

	// BuildModifiedEffects re-derives effects and output ports from a
	// modify message, for ModifyEffects.
	BuildModifiedEffects(fm FlowMod) (Effects, []uint32)
}

// MatchPredicates are the external match comparisons the query engine
// cannot implement itself, since match bytes are opaque to the table.
type MatchPredicates interface {
	// Equal reports byte-exact equality, used in STRICT mode.
	Equal(a, b []byte) bool

	// MoreSpecific reports whether candidate is at least as specific
	// as query (NON_STRICT mode: does candidate's match subsume the
	// queried match?).
	MoreSpecific(candidate, query []byte) bool

	// Overlap reports whether two matches can both match some common
	// packet (OVERLAP mode).
	Overlap(a, b []byte) bool
}

// Clock supplies monotonic timestamps for InsertTime and
// LastCounterChange. A fixed clock is useful in tests.
type Clock interface {
	Now() time.Time
}

// Scheduler registers a tick function to be driven cooperatively by
// the host event loop, at the given priority.
type Scheduler interface {
	Register(priority int, tick func() TickResult) error
}

// YieldOracle reports whether the current cooperative task should
// suspend and be resumed on a later tick.
type YieldOracle interface {
	ShouldYield() bool
}

// EventSink, if supplied to a Table, is notified after Add, Delete and
// ModifyEffects/ModifyCookie succeed. It is an expansion beyond the
// core invariants: a nil sink is always safe to use.
type EventSink interface {
	OnAdd(id uint64)
	OnDelete(id uint64, reason uint32)
	OnModify(id uint64)
}
