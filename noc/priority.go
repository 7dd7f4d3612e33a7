package noc

import "fmt"

// PriorityPolicy computes a flit's priority at injection time. Higher
// scores win strict-greater comparisons in the injection VC selector
// (spec.md §4.3). Implementations must not mutate the flit beyond the
// returned score being written into Flit.Priority by the caller.
type PriorityPolicy interface {
	Compute(f *Flit, clock int64, queueLen int) int
}

type classPriority struct{}

func (classPriority) Compute(f *Flit, _ int64, _ int) int { return -f.Class }

type agePriority struct{}

func (agePriority) Compute(f *Flit, clock int64, _ int) int { return int(clock - f.CTime) }

// networkAgePriority rewrites priority to PriorityMaxAge - current cycle
// on injection, so older packets win strict-greater comparisons
// (spec.md §4.3, §9).
type networkAgePriority struct{}

func (networkAgePriority) Compute(_ *Flit, clock int64, _ int) int {
	return PriorityMaxAge - int(clock)
}

type localAgePriority struct{}

func (localAgePriority) Compute(f *Flit, clock int64, _ int) int { return int(clock - f.ITime) }

type queueLengthPriority struct{}

func (queueLengthPriority) Compute(_ *Flit, _ int64, queueLen int) int { return queueLen }

type hopCountPriority struct{}

func (hopCountPriority) Compute(f *Flit, _ int64, _ int) int { return f.Hops }

type sequencePriority struct{}

func (sequencePriority) Compute(f *Flit, _ int64, _ int) int { return int(f.ID) }

type nonePriority struct{}

func (nonePriority) Compute(*Flit, int64, int) int { return 0 }

// NewPriorityPolicy builds a PriorityPolicy by mode. Config.Validate
// already rejects unknown modes as InvalidConfig before a TrafficManager
// is constructed, so an unresolvable mode reaching here is a programming
// error — this panics rather than returning an error, mirroring the
// teacher's NewPriorityPolicy construction-time precedent.
func NewPriorityPolicy(mode PriorityMode) PriorityPolicy {
	switch mode {
	case PriorityClass:
		return classPriority{}
	case PriorityAge:
		return agePriority{}
	case PriorityNetworkAge:
		return networkAgePriority{}
	case PriorityLocalAge:
		return localAgePriority{}
	case PriorityQueueLength:
		return queueLengthPriority{}
	case PriorityHopCount:
		return hopCountPriority{}
	case PrioritySequence:
		return sequencePriority{}
	case PriorityNone, "":
		return nonePriority{}
	default:
		panic(fmt.Sprintf("unknown priority mode %q", mode))
	}
}
