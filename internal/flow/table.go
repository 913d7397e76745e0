package flow

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ofcore/flowtable/pkg/hmap"
)

// Status reports live/pending-delete counts and cumulative operation
// counters for a Table.
type Status struct {
	LiveCount      int
	PendingDeletes int

	Adds             uint64
	Deletes          uint64
	Modifies         uint64
	HardExpirations  uint64
	IdleExpirations  uint64
	TableFullErrors  uint64
	ForwardingErrors uint64
}

// Config configures a new Table.
type Config struct {
	// MaxEntries is the fixed capacity of the entry pool. Must be > 0.
	MaxEntries int

	// Duplicator deep-copies and deep-deletes flow-add payloads and
	// effects lists. Required.
	Duplicator Duplicator

	// Builder derives match/priority/cookie/effects from flow-add and
	// flow-mod messages. Required.
	Builder EffectsBuilder

	// Clock supplies InsertTime/LastCounterChange timestamps. Defaults
	// to the system clock.
	Clock Clock

	// EventSink, if set, observes successful Add/Delete/Modify calls.
	EventSink EventSink
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Table is a fixed-capacity pool of flow entries indexed by ID,
// priority and exact-match key, threaded through an all-entries list
// and a free list. It is not safe for concurrent use.
type Table struct {
	entries  []Entry
	allNext  []int32
	allPrev  []int32
	freeNext []int32
	allHead  int32
	allTail  int32
	freeHead int32

	byID       *hmap.Map[*Entry, uint64]
	byPriority *hmap.Map[*Entry, uint16]
	byMatch    *hmap.Map[*Entry, []byte]

	dup     Duplicator
	builder EffectsBuilder
	clock   Clock
	sink    EventSink

	status     Status
	taskActive bool
}

// New creates a Table with a fixed-capacity entry pool, all slots
// pushed onto the free list, and the three HMAP indexes wired with the
// appropriate hash/equality pairs.
func New(cfg Config) (*Table, error) {
	if cfg.MaxEntries <= 0 {
		return nil, fmt.Errorf("%w: MaxEntries must be positive, got %d", ErrInvalidConfig, cfg.MaxEntries)
	}

	if cfg.Duplicator == nil || cfg.Builder == nil {
		return nil, fmt.Errorf("%w: Duplicator and Builder are required", ErrInvalidConfig)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = systemClock{}
	}

	t := &Table{
		entries:  make([]Entry, cfg.MaxEntries),
		allNext:  make([]int32, cfg.MaxEntries),
		allPrev:  make([]int32, cfg.MaxEntries),
		freeNext: make([]int32, cfg.MaxEntries),
		allHead:  -1,
		allTail:  -1,
		dup:      cfg.Duplicator,
		builder:  cfg.Builder,
		clock:    clock,
		sink:     cfg.EventSink,
	}

	t.freeHead = -1
	for i := cfg.MaxEntries - 1; i >= 0; i-- {
		t.entries[i].slot = int32(i)
		t.entries[i].State = StateFree
		t.freeNext[i] = t.freeHead
		t.freeHead = int32(i)
	}

	t.byID = hmap.New(hmap.Config[*Entry, uint64]{
		Hash:  hmap.U64Hash,
		Equal: hmap.U64Equal,
		KeyOf: func(e *Entry) uint64 { return e.ID },
	})
	t.byPriority = hmap.New(hmap.Config[*Entry, uint16]{
		Hash:  hmap.U16Hash,
		Equal: hmap.U16Equal,
		KeyOf: func(e *Entry) uint16 { return e.Priority },
	})
	t.byMatch = hmap.New(hmap.Config[*Entry, []byte]{
		Hash:  func(k []byte) uint32 { return hmap.HashBytes32(0, k) },
		Equal: bytes.Equal,
		KeyOf: func(e *Entry) []byte { return e.Match },
	})

	return t, nil
}

// MaxEntries returns the pool's fixed capacity.
func (t *Table) MaxEntries() int {
	return len(t.entries)
}

// Status returns a snapshot of the table's counters.
func (t *Table) Status() Status {
	return t.status
}

// IDIndexStats, PriorityIndexStats and MatchIndexStats expose the
// underlying HMAP diagnostics for each secondary index, for use by a
// diagnostics/stats reporter. They never affect table behavior.
func (t *Table) IDIndexStats() hmap.Stats       { return t.byID.Stats() }
func (t *Table) PriorityIndexStats() hmap.Stats { return t.byPriority.Stats() }
func (t *Table) MatchIndexStats() hmap.Stats    { return t.byMatch.Stats() }

// FreeCount returns the number of unused slots in the pool.
// FreeCount()+Status().LiveCount always equals MaxEntries() at a
// quiescent point.
func (t *Table) FreeCount() int {
	n := 0
	for s := t.freeHead; s != -1; s = t.freeNext[s] {
		n++
	}

	return n
}

// Add inserts a new flow entry under id, deep-copying fa via the
// configured Duplicator and deriving match/priority/cookie/effects via
// the configured Builder. It returns ErrExists if id is already
// present and ErrResource if the pool is exhausted.
func (t *Table) Add(id uint64, fa FlowAdd) (*Entry, error) {
	if _, found := t.byID.Get(id); found {
		return nil, fmt.Errorf("%w: id %d", ErrExists, id)
	}

	if t.freeHead == -1 {
		t.status.TableFullErrors++

		return nil, ErrResource
	}

	slot := t.freeHead

	faCopy := t.dup.DupFlowAdd(fa)
	match := t.builder.MatchKey(faCopy)

	if match == nil {
		t.dup.DeleteFlowAdd(faCopy)

		return nil, fmt.Errorf("%w: could not extract match key from flow-add", ErrUnknown)
	}

	t.freeHead = t.freeNext[slot]

	effects, ports := t.builder.BuildEffects(faCopy)
	now := t.clock.Now()

	e := &t.entries[slot]
	e.ID = id
	e.Match = match
	e.Priority = t.builder.Priority(faCopy)
	e.Cookie = t.builder.Cookie(faCopy)
	e.Flags = t.builder.Flags(faCopy)
	e.IdleTimeout = t.builder.IdleTimeout(faCopy)
	e.HardTimeout = t.builder.HardTimeout(faCopy)
	e.FlowAdd = faCopy
	e.Effects = effects
	e.OutputPorts = ports
	e.InsertTime = now
	e.LastCounterChange = now
	e.State = StateNew

	t.linkAll(slot)
	t.byID.Insert(e)
	t.byPriority.Insert(e)
	t.byMatch.Insert(e)

	t.status.LiveCount++
	t.status.Adds++

	if t.sink != nil {
		t.sink.OnAdd(id)
	}

	return e, nil
}

// Delete unlinks entry from all three indexes and the all-list,
// releases its owned resources via the Duplicator, and returns its
// slot to the free list. e must be a live entry previously returned by
// Add; passing an invalid entry is a precondition violation and
// panics.
func (t *Table) Delete(e *Entry) {
	if e == nil || e.ID == InvalidID {
		panic("flow: Delete requires a valid, currently-live entry")
	}

	slot := e.slot

	t.byID.Remove(e)
	t.byPriority.Remove(e)
	t.byMatch.Remove(e)
	t.unlinkAll(slot)

	wasDeleted := IsDeleted(e.State)
	id := e.ID
	reason := e.RemovedReason

	t.dup.DeleteEffects(e.Effects)
	t.dup.DeleteFlowAdd(e.FlowAdd)

	e.reset()

	t.freeNext[slot] = t.freeHead
	t.freeHead = slot

	t.status.LiveCount--
	t.status.Deletes++

	if wasDeleted {
		t.status.PendingDeletes--
	}

	if t.sink != nil {
		t.sink.OnDelete(id, reason)
	}
}

// DeleteByID looks up id in the ID index and deletes the match. It
// returns ErrNotFound if id is not present.
func (t *Table) DeleteByID(id uint64) error {
	e, found := t.byID.Get(id)
	if !found {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	t.Delete(e)

	return nil
}

// Lookup returns the live entry for id, if any.
func (t *Table) Lookup(id uint64) (*Entry, bool) {
	return t.byID.Get(id)
}

// ModifyEffects replaces entry's effects and output ports, releasing
// the previous effects via the Duplicator. Index membership is
// untouched since none of the three keys the table indexes on is
// affected.
func (t *Table) ModifyEffects(e *Entry, fm FlowMod) {
	if e == nil || e.ID == InvalidID {
		panic("flow: ModifyEffects requires a valid, currently-live entry")
	}

	oldEffects := e.Effects
	effects, ports := t.builder.BuildModifiedEffects(fm)
	e.Effects = effects
	e.OutputPorts = ports

	t.dup.DeleteEffects(oldEffects)

	t.status.Modifies++

	if t.sink != nil {
		t.sink.OnModify(e.ID)
	}
}

// ModifyCookie applies the literal formula from the originating
// control-plane code: entry.cookie = (entry.cookie & mask) | (cookie &
// mask). This is almost certainly not what was intended — see
// ModifyCookieMasked — but is kept for bug-compatible callers that
// depend on the existing behavior.
func (t *Table) ModifyCookie(e *Entry, cookie, mask uint64) {
	e.Cookie = (e.Cookie & mask) | (cookie & mask)

	t.status.Modifies++

	if t.sink != nil {
		t.sink.OnModify(e.ID)
	}
}

// ModifyCookieMasked applies the corrected clear-then-set formula:
// entry.cookie = (entry.cookie &^ mask) | (cookie & mask). New callers
// should prefer this over ModifyCookie.
func (t *Table) ModifyCookieMasked(e *Entry, cookie, mask uint64) {
	e.Cookie = (e.Cookie &^ mask) | (cookie & mask)

	t.status.Modifies++

	if t.sink != nil {
		t.sink.OnModify(e.ID)
	}
}

// MarkDeleted transitions entry to StateDeleteMarked with the given
// reason. A no-op if the entry is already in a deleted state.
func (t *Table) MarkDeleted(e *Entry, reason uint32) {
	if IsDeleted(e.State) {
		return
	}

	e.State = StateDeleteMarked
	e.RemovedReason = reason
	t.status.PendingDeletes++
}

// Close releases every live entry's owned resources and tears down the
// table. It returns ErrBusy if an iteration task spawned against this
// table has not yet reached Finished.
func (t *Table) Close() error {
	if t.taskActive {
		return ErrBusy
	}

	for slot := t.allHead; slot != -1; {
		next := t.allNext[slot]
		e := &t.entries[slot]

		t.dup.DeleteEffects(e.Effects)
		t.dup.DeleteFlowAdd(e.FlowAdd)
		e.reset()

		slot = next
	}

	t.allHead = -1
	t.allTail = -1
	t.byID = nil
	t.byPriority = nil
	t.byMatch = nil
	t.entries = nil

	return nil
}

func (t *Table) linkAll(slot int32) {
	t.allNext[slot] = t.allHead
	t.allPrev[slot] = -1

	if t.allHead != -1 {
		t.allPrev[t.allHead] = slot
	}

	t.allHead = slot
	if t.allTail == -1 {
		t.allTail = slot
	}
}

func (t *Table) unlinkAll(slot int32) {
	prev := t.allPrev[slot]
	next := t.allNext[slot]

	if prev != -1 {
		t.allNext[prev] = next
	} else {
		t.allHead = next
	}

	if next != -1 {
		t.allPrev[next] = prev
	} else {
		t.allTail = prev
	}

	t.allNext[slot] = -1
	t.allPrev[slot] = -1
}
