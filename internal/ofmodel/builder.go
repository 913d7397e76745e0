package ofmodel

import "github.com/ofcore/flowtable/internal/flow"

// Duplicator implements flow.Duplicator over *Add and []Action. Go's
// garbage collector reclaims the copies once unreachable, so
// DeleteFlowAdd and DeleteEffects are no-ops; they exist to keep the
// table's release points explicit and to give an audit sink a place
// to hook a "deleted" observation if one is ever needed.
type Duplicator struct{}

func (Duplicator) DupFlowAdd(src flow.FlowAdd) flow.FlowAdd {
	add := src.(*Add)
	cp := *add
	cp.Actions = append([]Action(nil), add.Actions...)

	return &cp
}

func (Duplicator) DeleteFlowAdd(flow.FlowAdd) {}
func (Duplicator) DeleteEffects(flow.Effects) {}

// Builder implements flow.EffectsBuilder over *Add and *Mod.
type Builder struct{}

func (Builder) MatchKey(fa flow.FlowAdd) []byte { return fa.(*Add).Match.Encode() }
func (Builder) Priority(fa flow.FlowAdd) uint16 { return fa.(*Add).Priority }
func (Builder) Cookie(fa flow.FlowAdd) uint64   { return fa.(*Add).Cookie }
func (Builder) Flags(fa flow.FlowAdd) uint32    { return fa.(*Add).Flags }

func (Builder) IdleTimeout(fa flow.FlowAdd) uint16 { return fa.(*Add).IdleTimeout }
func (Builder) HardTimeout(fa flow.FlowAdd) uint16 { return fa.(*Add).HardTimeout }

func (Builder) BuildEffects(fa flow.FlowAdd) (flow.Effects, []uint32) {
	actions := fa.(*Add).Actions

	return actions, outputPorts(actions)
}

func (Builder) BuildModifiedEffects(fm flow.FlowMod) (flow.Effects, []uint32) {
	actions := fm.(*Mod).Actions

	return actions, outputPorts(actions)
}
