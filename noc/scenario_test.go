package noc_test

import (
	"testing"

	"github.com/noc-sim/noc-sim/noc"
	"github.com/noc-sim/noc-sim/noc/network"
	_ "github.com/noc-sim/noc-sim/noc/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stuckNetwork never surfaces an ejected flit or credit, so an admitted
// packet stays in flight forever (spec.md §8 scenario 6: "network-adapter
// stub refuses to advance").
type stuckNetwork struct{ numNodes int }

func (n *stuckNetwork) ReadFlit(node int) (*noc.Flit, bool)           { return nil, false }
func (n *stuckNetwork) ReadCredit(node int) (noc.Credit, bool)        { return noc.Credit{}, false }
func (n *stuckNetwork) WriteFlit(flit *noc.Flit, node int) error      { return nil }
func (n *stuckNetwork) WriteCredit(credit noc.Credit, node int) error { return nil }
func (n *stuckNetwork) ReadInputs()                                   {}
func (n *stuckNetwork) Evaluate()                                     {}
func (n *stuckNetwork) WriteOutputs()                                 {}
func (n *stuckNetwork) GetInject(node int) noc.RouterHandle {
	return stuckRouterHandle{node: node}
}
func (n *stuckNetwork) GetInjectCredit(node int) noc.RouterHandle {
	return stuckRouterHandle{node: node}
}
func (n *stuckNetwork) NumNodes() int   { return n.numNodes }
func (n *stuckNetwork) NumRouters() int { return n.numNodes }

type stuckRouterHandle struct{ node int }

func (r stuckRouterHandle) NodeID() int { return r.node }

// meshScenarioTM builds a TrafficManager against a real noc/network
// MeshNetwork, matching spec.md §8's "use a 4x4 mesh with 1 subnet, 4
// VCs/port, VC buf 8, flit size 16B, dimension-order routing, packet size
// 5" fixture exactly via DefaultConfig. Returns the per-hop pipeline delay
// alongside, since tests need it to compute expected completion cycles.
func meshScenarioTM(t *testing.T) (*noc.TrafficManager, int64) {
	t.Helper()
	cfg := noc.DefaultConfig()
	routeFn, err := noc.ResolveRouting(cfg.Routing.Name())
	require.NoError(t, err)
	net := network.NewMeshNetwork(cfg.Routing.K, cfg.Routing.N, cfg.Subnet.NumVCs, cfg.Routing.HopDelay(), routeFn)
	tm, err := noc.NewTrafficManager(cfg, []noc.Network{net})
	require.NoError(t, err)
	return tm, int64(cfg.Routing.HopDelay())
}

func TestScenario1_SinglePacketSameNode(t *testing.T) {
	tm, hopDelay := meshScenarioTM(t)

	var calls int
	var gotPID uint64
	var gotSource uint
	var gotStatus uint64
	tm.RegisterCallback(func(source uint, pid uint64, status uint64) {
		calls++
		gotSource, gotPID, gotStatus = source, pid, status
	}, nil, noc.Handle(1))

	pid, err := tm.Admit(5, 5, 5, 0, noc.Handle(1))
	require.NoError(t, err)

	// Zero-load latency for a zero-hop packet (spec.md glossary): one
	// hop_delay plus (packet_size-1) cycles to drain the last flit, plus
	// up to size-1 cycles of injection stagger (one flit committed per
	// cycle) before the tail is even offered to the network.
	bound := 2*hopDelay + 2*4 + 2

	steps := int64(0)
	for steps < bound && calls == 0 {
		require.NoError(t, tm.Step())
		steps++
	}

	assert.Equal(t, 1, calls)
	assert.Equal(t, pid, gotPID)
	// spec.md §4.1: "the core calls read_done(0, pid, 1) on tail ejection" —
	// sourceID is always the literal 0, never the ejection node.
	assert.Equal(t, uint(0), gotSource)
	assert.Equal(t, uint64(1), gotStatus)
	assert.Equal(t, steps, tm.CurrentCycle())
}

func TestScenario2_SinglePacketDiagonal(t *testing.T) {
	tm, hopDelay := meshScenarioTM(t)

	var calls int
	tm.RegisterCallback(func(source uint, pid uint64, status uint64) { calls++ }, nil, noc.Handle(2))

	_, err := tm.Admit(0, 15, 5, 0, noc.Handle(2))
	require.NoError(t, err)

	minCycles := (6+1)*hopDelay + int64(5-1)

	steps := int64(0)
	for steps < minCycles*3 && calls == 0 {
		require.NoError(t, tm.Step())
		steps++
	}

	require.Equal(t, 1, calls)
	assert.GreaterOrEqual(t, steps, minCycles)
	assert.Equal(t, int64(1), tm.Stats.HopCountSamples(0))
	assert.InDelta(t, 6, tm.Stats.HopCountMean(0), 0.0001)
}

func TestScenario3_TwoCollidingPacketsBothComplete(t *testing.T) {
	tm, _ := meshScenarioTM(t)

	var calls int
	tm.RegisterCallback(func(source uint, pid uint64, status uint64) { calls++ }, nil, noc.Handle(3))
	tm.RegisterCallback(func(source uint, pid uint64, status uint64) { calls++ }, nil, noc.Handle(4))

	_, err := tm.Admit(0, 3, 5, 0, noc.Handle(3))
	require.NoError(t, err)
	_, err = tm.Admit(1, 3, 5, 0, noc.Handle(4))
	require.NoError(t, err)

	for i := 0; i < 80 && calls < 2; i++ {
		require.NoError(t, tm.Step())
	}

	assert.Equal(t, 2, calls)
	assert.Equal(t, int64(2), tm.Stats.AcceptedPackets[0])
}

func TestScenario4_FutureDatedCTimeHoldsPacketOutOfNetwork(t *testing.T) {
	tm, _ := meshScenarioTM(t)

	var calls int
	tm.RegisterCallback(func(source uint, pid uint64, status uint64) { calls++ }, nil, noc.Handle(5))

	_, err := tm.Admit(2, 7, 3, 100, noc.Handle(5))
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		require.NoError(t, tm.Step())
	}

	assert.Equal(t, 0, calls)
	assert.Equal(t, 3, tm.MeasuredInFlightCount(0))
	assert.Greater(t, tm.PartialQueueLen(2, 0), 0)
}

func TestScenario5_SkipStepIdle(t *testing.T) {
	tm, _ := meshScenarioTM(t)

	var calls int
	tm.RegisterCallback(func(source uint, pid uint64, status uint64) { calls++ }, nil, noc.Handle(6))

	for i := 0; i < 1000; i++ {
		require.NoError(t, tm.Step())
	}

	assert.Equal(t, int64(1000), tm.CurrentCycle())
	assert.Equal(t, int64(1000), tm.Stats.SkippedSteps)
	assert.Equal(t, int64(0), tm.Stats.NonSkippedSteps)
	assert.Equal(t, 0, calls)
}

func TestScenario6_DeadlockWatchdogWarnsOnceThenResets(t *testing.T) {
	cfg := noc.DefaultConfig()
	cfg.Run.DeadlockWarnTimeout = 100
	net := &stuckNetwork{numNodes: cfg.Routing.K * cfg.Routing.K}
	tm, err := noc.NewTrafficManager(cfg, []noc.Network{net})
	require.NoError(t, err)

	_, err = tm.Admit(0, 1, 5, 0, noc.Handle(7))
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.NoError(t, tm.Step())
	}
	assert.Equal(t, int64(1), tm.Stats.DeadlockWarnings)

	for i := 0; i < 99; i++ {
		require.NoError(t, tm.Step())
	}
	assert.Equal(t, int64(1), tm.Stats.DeadlockWarnings)

	require.NoError(t, tm.Step())
	assert.Equal(t, int64(2), tm.Stats.DeadlockWarnings)
}
