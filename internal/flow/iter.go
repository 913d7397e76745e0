package flow

// TickResult is returned by a Task's tick function to tell the host
// scheduler whether to call it again.
type TickResult uint8

const (
	// Continue indicates the walk has not finished; the scheduler
	// should call the tick function again later.
	Continue TickResult = iota

	// Finished indicates the walk has completed and the scheduler may
	// discard the tick function.
	Finished
)

// Task walks every slot in a Table's entry pool, yielding to the host
// scheduler between slots. No snapshot is taken: entries added during
// the walk at indices at or past the cursor may be observed, entries
// deleted during the walk are skipped.
type Task struct {
	table    *Table
	query    *Query
	mp       MatchPredicates
	callback func(cookie any, e *Entry)
	cookie   any
	yielder  YieldOracle
	idx      int
}

// Spawn registers a new iteration task with sched at the given
// priority. If query is non-nil, only entries satisfying it (via mp)
// are delivered to callback. callback is invoked once per matching
// live entry and finally once with a nil entry as an end-of-stream
// sentinel.
//
// Only one outstanding task per table is tracked for the purposes of
// Close's ErrBusy guard; spawning a second concurrent task is the
// caller's responsibility to avoid.
func Spawn(
	t *Table,
	query *Query,
	mp MatchPredicates,
	sched Scheduler,
	yielder YieldOracle,
	callback func(cookie any, e *Entry),
	cookie any,
	priority int,
) error {
	task := &Task{
		table:    t,
		query:    query,
		mp:       mp,
		callback: callback,
		cookie:   cookie,
		yielder:  yielder,
	}

	t.taskActive = true

	if err := sched.Register(priority, task.tick); err != nil {
		t.taskActive = false

		return err
	}

	return nil
}

func (task *Task) tick() TickResult {
	t := task.table

	for {
		if task.idx >= len(t.entries) {
			task.callback(task.cookie, nil)
			t.taskActive = false

			return Finished
		}

		e := &t.entries[task.idx]
		task.idx++

		switch {
		case e.State == StateFree || IsDeleted(e.State):
			// skip
		case task.query != nil && !metaMatch(e, *task.query, task.mp):
			// skip
		default:
			task.callback(task.cookie, e)
		}

		if task.yielder != nil && task.yielder.ShouldYield() {
			return Continue
		}
	}
}
