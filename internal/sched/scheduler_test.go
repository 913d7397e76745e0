package sched_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofcore/flowtable/internal/flow"
	"github.com/ofcore/flowtable/internal/sched"
)

func Test_Scheduler_Runs_A_Task_To_Completion_Across_Multiple_Run_Calls(t *testing.T) {
	t.Parallel()

	s := sched.New(time.Millisecond)

	remaining := 5
	err := s.Register(0, func() flow.TickResult {
		remaining--
		if remaining == 0 {
			return flow.Finished
		}

		return flow.Continue
	})
	require.NoError(t, err)

	for s.Pending() > 0 {
		s.Run()
	}

	assert.Equal(t, 0, remaining)
}

func Test_Scheduler_Runs_Higher_Priority_Tasks_First(t *testing.T) {
	t.Parallel()

	s := sched.New(time.Second)

	var order []string

	require.NoError(t, s.Register(1, func() flow.TickResult {
		order = append(order, "low")

		return flow.Finished
	}))
	require.NoError(t, s.Register(10, func() flow.TickResult {
		order = append(order, "high")

		return flow.Finished
	}))

	s.Run()

	assert.Equal(t, []string{"high", "low"}, order)
}
