package noc

import (
	"github.com/sirupsen/logrus"
)

// RetiredHead is the small header snapshot of a packet's head flit, kept
// alive from head-retirement until tail-retirement so packet-level
// latency can be computed at tail without aliasing the head and tail
// flit objects (spec.md §3 RetiredHeads, §9 design note: "Head-retirement
// simply copies the head's header fields into a small RetiredHead value
// keyed by pid, avoiding head/tail aliasing").
type RetiredHead struct {
	ID     uint64
	PID    uint64
	Class  int
	Type   PacketType
	Src    int
	CTime  int64
	ITime  int64
	ATime  int64
	Watch  bool
	Record bool
}

// TrafficManager is the per-cycle driver described in spec.md §2-§4: it
// assembles injected packets into flits, selects output VCs and injects
// flits, advances all channels and routers one cycle, ejects completed
// flits, retires packets, records statistics, and fires host callbacks at
// packet completion.
//
// The core exclusively owns all Flit, Credit, BufferState, and queue
// objects (spec.md §3 Ownership); the host only ever holds a Handle.
type TrafficManager struct {
	cfg        *Config
	networks   []Network // one per subnet
	routingFn  RoutingFunc
	priority   PriorityPolicy
	rng        *PartitionedRNG
	callbacks  *CallbackRegistry
	Stats      *Stats
	replyGen   ReplyGenerator

	numNodes   int
	numClasses int
	numSubnets int
	numVCs     int

	clock int64

	nextFlitID uint64
	nextPID    uint64

	partials     *PartialPackets
	bufferStates [][]*BufferState // [subnet][node]

	inFlight         []map[uint64]*Flit // per class: flit id -> flit
	measuredInFlight []map[uint64]*Flit // per class: subset with Record set
	retiredHeads     []map[uint64]*RetiredHead // per class: pid -> head

	inFlightPackets map[uint64]Handle // pid -> handle

	repliesPending      [][]ReplyInfo // per node
	requestsOutstanding []int         // per node

	// outstandingFlits gates the eject-read in ejectAndCreditPhase
	// (spec.md §4.5 step 2: "If OutstandingFlits[subnet][node] > 0, read
	// at most one ejected flit"). admitTyped bumps it at both source and
	// destination (the latter is a supplement beyond spec.md's literal
	// admit() text, needed so the gate can ever open at a node that only
	// ever receives, never sources, a packet — see DESIGN.md) and
	// ejectAndCreditPhase decrements it at the node the read succeeded
	// at, keeping the gate and its bookkeeping on the same index.
	outstandingFlits   [][]int64 // [subnet][node]
	outstandingPackets int64

	lastClass         [][]int   // [subnet][node]: round-robin class scan pointer
	lastVC             [][][]int // [node][subnet][class]: last assigned VC
	lastInjectedClass  [][]int   // [subnet][node]: for hold-switch-for-packet

	deadlockTimer int64

	// SkipStepEnabled toggles the skip-step optimization (spec.md §4.5).
	// Defaults to true; the host may disable it (e.g. for the "empty
	// step" calibration mode, which never goes through Step at all —
	// see EmptyStepDriver).
	SkipStepEnabled bool
}

// NewTrafficManager constructs a TrafficManager from cfg and one Network
// per subnet. Fails with InvalidConfig if cfg is invalid or the routing
// function cannot be resolved (spec.md §7).
func NewTrafficManager(cfg *Config, networks []Network) (*TrafficManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(networks) != cfg.Subnet.Subnets {
		return nil, NewInvalidConfig("expected %d networks (one per subnet), got %d", cfg.Subnet.Subnets, len(networks))
	}
	routingFn, err := ResolveRouting(cfg.Routing.Name())
	if err != nil {
		return nil, err
	}

	numNodes := networks[0].NumNodes()
	for i, n := range networks {
		if n.NumNodes() != numNodes {
			return nil, NewInvalidConfig("subnet %d has %d nodes, expected %d", i, n.NumNodes(), numNodes)
		}
	}

	tm := &TrafficManager{
		cfg:        cfg,
		networks:   networks,
		routingFn:  routingFn,
		priority:   NewPriorityPolicy(cfg.Priority),
		rng:        NewPartitionedRNG(cfg.Run.Seed),
		callbacks:  NewCallbackRegistry(),
		Stats:      NewStats(cfg.Subnet.Classes, cfg.Subnet.Subnets),
		replyGen:   NullReplyGenerator{},

		numNodes:   numNodes,
		numClasses: cfg.Subnet.Classes,
		numSubnets: cfg.Subnet.Subnets,
		numVCs:     cfg.Subnet.NumVCs,

		partials:        NewPartialPackets(numNodes, cfg.Subnet.Classes),
		inFlightPackets: make(map[uint64]Handle),

		repliesPending:      make([][]ReplyInfo, numNodes),
		requestsOutstanding: make([]int, numNodes),

		SkipStepEnabled: true,
	}

	tm.inFlight = make([]map[uint64]*Flit, tm.numClasses)
	tm.measuredInFlight = make([]map[uint64]*Flit, tm.numClasses)
	tm.retiredHeads = make([]map[uint64]*RetiredHead, tm.numClasses)
	for c := 0; c < tm.numClasses; c++ {
		tm.inFlight[c] = make(map[uint64]*Flit)
		tm.measuredInFlight[c] = make(map[uint64]*Flit)
		tm.retiredHeads[c] = make(map[uint64]*RetiredHead)
	}

	tm.bufferStates = make([][]*BufferState, tm.numSubnets)
	tm.outstandingFlits = make([][]int64, tm.numSubnets)
	tm.lastClass = make([][]int, tm.numSubnets)
	tm.lastInjectedClass = make([][]int, tm.numSubnets)
	for s := 0; s < tm.numSubnets; s++ {
		tm.bufferStates[s] = make([]*BufferState, numNodes)
		tm.outstandingFlits[s] = make([]int64, numNodes)
		tm.lastClass[s] = make([]int, numNodes)
		tm.lastInjectedClass[s] = make([]int, numNodes)
		for n := 0; n < numNodes; n++ {
			tm.bufferStates[s][n] = NewBufferState(tm.numVCs, cfg.Buffer.VCBufSize)
			tm.lastClass[s][n] = -1
			tm.lastInjectedClass[s][n] = -1
		}
	}

	tm.lastVC = make([][][]int, numNodes)
	for n := 0; n < numNodes; n++ {
		tm.lastVC[n] = make([][]int, tm.numSubnets)
		for s := 0; s < tm.numSubnets; s++ {
			tm.lastVC[n][s] = make([]int, tm.numClasses)
			for c := 0; c < tm.numClasses; c++ {
				tm.lastVC[n][s][c] = -1
			}
		}
	}

	return tm, nil
}

// SetReplyGenerator overrides the default NullReplyGenerator (spec.md
// §4.6 item 5).
func (tm *TrafficManager) SetReplyGenerator(g ReplyGenerator) { tm.replyGen = g }

// CurrentCycle returns the core's monotonically increasing cycle counter
// (spec.md §4.1).
func (tm *TrafficManager) CurrentCycle() int64 { return tm.clock }

// NumNodes returns the number of nodes in the topology.
func (tm *TrafficManager) NumNodes() int { return tm.numNodes }

func (tm *TrafficManager) validateNode(node int) bool {
	return node >= 0 && node < tm.numNodes
}

// Admit creates a packet of size flits from source to destination, using
// ANY_TYPE and class 0. See AdmitTyped for the full richer variant
// (spec.md §9 design note: "specify the richer variant").
func (tm *TrafficManager) Admit(source, destination, size int, ctime int64, handle Handle) (uint64, error) {
	return tm.AdmitTyped(source, destination, size, ctime, handle, AnyType, 0)
}

// AdmitTyped creates a packet of size flits from source to destination,
// assigning a fresh pid and contiguous fresh flit-ids (spec.md §4.1, §4.4).
//
// Fails with InvalidArgument if size <= 0 or source/destination are out of
// range. ctime == -1 means "use current cycle"; ctime > CurrentCycle() is
// legal — the flits are held in the FIFO and skipped by injection until
// current >= ctime.
func (tm *TrafficManager) AdmitTyped(source, destination, size int, ctime int64, handle Handle, pt PacketType, class int) (uint64, error) {
	return tm.admitTyped(source, destination, size, ctime, handle, pt, class)
}

func (tm *TrafficManager) admitTyped(source, destination, size int, ctime int64, handle Handle, pt PacketType, class int) (uint64, error) {
	if size <= 0 {
		return 0, NewInvalidArgument("packet size must be > 0, got %d", size)
	}
	if !tm.validateNode(source) {
		return 0, NewInvalidArgument("source node %d out of range [0,%d)", source, tm.numNodes)
	}
	if !tm.validateNode(destination) {
		return 0, NewInvalidArgument("destination node %d out of range [0,%d)", destination, tm.numNodes)
	}
	if class < 0 || class >= tm.numClasses {
		return 0, NewInvalidArgument("class %d out of range [0,%d)", class, tm.numClasses)
	}

	if ctime == -1 {
		ctime = tm.clock
	}

	subnet, ok := tm.cfg.Traffic.SubnetFor(pt)
	if !ok {
		subnet = tm.rng.ForSubsystem(SubsystemSubnetSelect).Intn(tm.numSubnets)
	}

	pid := tm.nextPID
	tm.nextPID++

	record := tm.clock >= int64(tm.cfg.Stats.WarmupPeriods)

	firstID := tm.nextFlitID
	for i := 0; i < size; i++ {
		f := &Flit{
			ID:     firstID + uint64(i),
			PID:    pid,
			Head:   i == 0,
			Tail:   i == size-1,
			Src:    source,
			Dst:    NoDestination,
			VC:     UnassignedVC,
			Subnet: subnet,
			Class:  class,
			Type:   pt,
			CTime:  ctime,
			Record: record,
			Handle: handle,
		}
		if f.Head {
			f.Dst = destination
		}
		tm.partials.Queue(source, class).Enqueue(f)
		tm.inFlight[class][f.ID] = f
		if f.Record {
			tm.measuredInFlight[class][f.ID] = f
		}
	}
	tm.nextFlitID += uint64(size)

	tm.inFlightPackets[pid] = handle
	tm.outstandingFlits[subnet][source] += int64(size)
	if destination != source {
		tm.outstandingFlits[subnet][destination] += int64(size)
	}
	tm.outstandingPackets++
	if pt.IsRequest() {
		tm.requestsOutstanding[source]++
	}

	logrus.Debugf("admitted pid=%d src=%d dst=%d size=%d class=%d type=%s subnet=%d ctime=%d",
		pid, source, destination, size, class, pt, subnet, ctime)

	return pid, nil
}

// RegisterCallback records the two callbacks keyed by handle. The core
// calls readDone(0, pid, 1) on tail ejection; write completions reuse the
// same path (spec.md §4.1, §9).
func (tm *TrafficManager) RegisterCallback(readDone, writeDone CompletionCallback, handle Handle) {
	tm.callbacks.Register(handle, readDone, writeDone)
}

// InFlightCount returns the number of flits of class still in flight.
// Exposed for tests asserting conservation-of-flits (spec.md §8).
func (tm *TrafficManager) InFlightCount(class int) int {
	return len(tm.inFlight[class])
}

// MeasuredInFlightCount returns the number of recorded flits of class
// still in flight.
func (tm *TrafficManager) MeasuredInFlightCount(class int) int {
	return len(tm.measuredInFlight[class])
}

// OutstandingPackets returns the number of packets admitted but not yet
// fully retired — the gate for the skip-step optimization (spec.md §3
// OutstandingFlits, §4.5).
func (tm *TrafficManager) OutstandingPackets() int64 { return tm.outstandingPackets }

// PartialQueueLen returns the number of flits still queued at (node, class)
// waiting for injection. Exposed for tests asserting that a future-dated
// ctime holds a packet out of the network (spec.md §8 scenario 4).
func (tm *TrafficManager) PartialQueueLen(node, class int) int {
	return tm.partials.Queue(node, class).Len()
}
