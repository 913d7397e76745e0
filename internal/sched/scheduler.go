package sched

import (
	"sort"
	"time"

	"github.com/ofcore/flowtable/internal/flow"
)

type registration struct {
	priority int
	tick     func() flow.TickResult
}

// Scheduler is a cooperative round-robin driver for iteration tasks.
// It is not safe for concurrent use; Run is expected to be called from
// a single host event loop goroutine.
type Scheduler struct {
	slice    time.Duration
	tasks    []registration
	deadline time.Time
}

// New creates a Scheduler that yields control back to its caller once
// slice has elapsed within a single Run call.
func New(slice time.Duration) *Scheduler {
	return &Scheduler{slice: slice}
}

// Register implements flow.Scheduler. Higher-priority tasks (larger
// priority value) tick before lower-priority ones within a Run call.
func (s *Scheduler) Register(priority int, tick func() flow.TickResult) error {
	s.tasks = append(s.tasks, registration{priority: priority, tick: tick})

	sort.SliceStable(s.tasks, func(i, j int) bool {
		return s.tasks[i].priority > s.tasks[j].priority
	})

	return nil
}

// ShouldYield implements flow.YieldOracle: true once the current Run
// call's time slice has elapsed.
func (s *Scheduler) ShouldYield() bool {
	return !s.deadline.IsZero() && time.Now().After(s.deadline)
}

// Pending reports how many registered tasks have not yet finished.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Run makes one pass over the registered tasks in priority order,
// ticking each once, and stops early if the time slice elapses.
// Finished tasks are removed; unfinished tasks remain registered for
// the next Run call.
func (s *Scheduler) Run() {
	s.deadline = time.Now().Add(s.slice)
	defer func() { s.deadline = time.Time{} }()

	for i := 0; i < len(s.tasks); {
		if s.tasks[i].tick() == flow.Finished {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)

			continue
		}

		i++

		if s.ShouldYield() {
			return
		}
	}
}
