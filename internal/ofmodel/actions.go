package ofmodel

// ActionType enumerates the small action vocabulary this reference
// model understands. A real OpenFlow stack would carry many more (set
// field, push/pop tag, group, meter...); this package only needs
// enough to exercise output-port distillation.
type ActionType uint8

const (
	ActionOutput ActionType = iota
	ActionDrop
	ActionSetField
)

// Action is one entry in a flow's action or instruction list.
type Action struct {
	Type    ActionType
	OutPort uint32
}

// Add is the flow-mod add message the table deep-copies via Duplicator
// and reads through EffectsBuilder.
type Add struct {
	Match       Match
	Priority    uint16
	Cookie      uint64
	Flags       uint32
	IdleTimeout uint16
	HardTimeout uint16
	TableID     uint8
	Actions     []Action
}

// Mod is a flow-mod modify message; it carries a fresh action list to
// replace an entry's effects.
type Mod struct {
	Actions []Action
}

// outputPorts distills the ports named by ActionOutput entries out of
// an action list, in order, duplicates included — callers that need a
// distinct port set are expected to dedupe themselves.
func outputPorts(actions []Action) []uint32 {
	var ports []uint32

	for _, a := range actions {
		if a.Type == ActionOutput {
			ports = append(ports, a.OutPort)
		}
	}

	return ports
}
