package flow_test

import (
	"bytes"

	"github.com/ofcore/flowtable/internal/flow"
)

// fakeFlowAdd stands in for the externally-owned OpenFlow add message;
// the table only ever sees it through the Duplicator/EffectsBuilder
// capabilities.
type fakeFlowAdd struct {
	match    []byte
	priority uint16
	cookie   uint64
	flags    uint32
	idle     uint16
	hard     uint16
	ports    []uint32
}

type fakeDup struct {
	deletedFlowAdds int
	deletedEffects  int
}

func (d *fakeDup) DupFlowAdd(src flow.FlowAdd) flow.FlowAdd {
	fa := src.(*fakeFlowAdd)
	cp := *fa
	cp.match = append([]byte(nil), fa.match...)
	cp.ports = append([]uint32(nil), fa.ports...)

	return &cp
}

func (d *fakeDup) DeleteFlowAdd(flow.FlowAdd) { d.deletedFlowAdds++ }
func (d *fakeDup) DeleteEffects(flow.Effects) { d.deletedEffects++ }

type fakeBuilder struct{}

func (fakeBuilder) MatchKey(fa flow.FlowAdd) []byte    { return fa.(*fakeFlowAdd).match }
func (fakeBuilder) Priority(fa flow.FlowAdd) uint16    { return fa.(*fakeFlowAdd).priority }
func (fakeBuilder) Cookie(fa flow.FlowAdd) uint64      { return fa.(*fakeFlowAdd).cookie }
func (fakeBuilder) Flags(fa flow.FlowAdd) uint32       { return fa.(*fakeFlowAdd).flags }
func (fakeBuilder) IdleTimeout(fa flow.FlowAdd) uint16 { return fa.(*fakeFlowAdd).idle }
func (fakeBuilder) HardTimeout(fa flow.FlowAdd) uint16 { return fa.(*fakeFlowAdd).hard }

func (fakeBuilder) BuildEffects(fa flow.FlowAdd) (flow.Effects, []uint32) {
	f := fa.(*fakeFlowAdd)

	return f.ports, append([]uint32(nil), f.ports...)
}

func (fakeBuilder) BuildModifiedEffects(fm flow.FlowMod) (flow.Effects, []uint32) {
	ports := fm.([]uint32)

	return ports, ports
}

type fakeMatchPredicates struct{}

func (fakeMatchPredicates) Equal(a, b []byte) bool { return bytes.Equal(a, b) }

func (fakeMatchPredicates) MoreSpecific(candidate, query []byte) bool {
	return bytes.HasPrefix(candidate, query)
}

func (fakeMatchPredicates) Overlap(a, b []byte) bool {
	return bytes.HasPrefix(a, b) || bytes.HasPrefix(b, a)
}

type fakeScheduler struct {
	tick func() flow.TickResult
}

func (s *fakeScheduler) Register(_ int, tick func() flow.TickResult) error {
	s.tick = tick

	return nil
}

// runToCompletion drives a spawned task's tick function until it
// reports Finished, counting how many times it reported Continue.
func (s *fakeScheduler) runToCompletion() (continues int) {
	for {
		result := s.tick()
		if result == flow.Finished {
			return continues
		}

		continues++
	}
}

// everyNYielder reports ShouldYield true once every n calls.
type everyNYielder struct {
	n     int
	calls int
}

func (y *everyNYielder) ShouldYield() bool {
	y.calls++

	return y.n > 0 && y.calls%y.n == 0
}

func newTestTable(maxEntries int, sink flow.EventSink) (*flow.Table, *fakeDup) {
	dup := &fakeDup{}

	t, err := flow.New(flow.Config{
		MaxEntries: maxEntries,
		Duplicator: dup,
		Builder:    fakeBuilder{},
		EventSink:  sink,
	})
	if err != nil {
		panic(err)
	}

	return t, dup
}
