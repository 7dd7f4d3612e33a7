package noc

// PriorityMode selects how per-flit priority is computed at injection time
// (spec.md §4.3, §6, §9).
type PriorityMode string

const (
	PriorityClass       PriorityMode = "class"
	PriorityAge         PriorityMode = "age"
	PriorityNetworkAge  PriorityMode = "network_age"
	PriorityLocalAge    PriorityMode = "local_age"
	PriorityQueueLength PriorityMode = "queue_length"
	PriorityHopCount    PriorityMode = "hop_count"
	PrioritySequence    PriorityMode = "sequence"
	PriorityNone        PriorityMode = "none"
)

var validPriorityModes = map[PriorityMode]bool{
	PriorityClass: true, PriorityAge: true, PriorityNetworkAge: true,
	PriorityLocalAge: true, PriorityQueueLength: true, PriorityHopCount: true,
	PrioritySequence: true, PriorityNone: true,
}

// SimType selects the overall simulation mode (spec.md §6). All three
// values are accepted by Validate, but none selects a distinct code path:
// "throughput" and "batch" behave identically to "latency".
type SimType string

const (
	SimLatency    SimType = "latency"
	SimThroughput SimType = "throughput"
	SimBatch      SimType = "batch"
)

var validSimTypes = map[SimType]bool{SimLatency: true, SimThroughput: true, SimBatch: true}

// SubnetConfig groups the parallel-network topology parameters.
type SubnetConfig struct {
	Subnets int `yaml:"subnets"` // number of parallel network copies, >= 1
	NumVCs  int `yaml:"num_vcs"`
	Classes int `yaml:"classes"`
}

// BufferConfig groups per-port buffer capacities (spec.md §4.2, §6).
type BufferConfig struct {
	EjectionBufferSize int `yaml:"ejection_buffer_size"`
	BoundaryBufferSize int `yaml:"boundary_buffer_size"`
	InputBufferSize    int `yaml:"input_buffer_size"` // default 9 when unset
	VCBufSize          int `yaml:"vc_buf_size"`
}

// TrafficConfig groups packet-size and injection-rate parameters, and the
// type-to-subnet pinning used by Admit to choose a subnet (spec.md §4.4).
type TrafficConfig struct {
	FlitSize        int       `yaml:"flit_size"`
	PacketSize      []int     `yaml:"packet_size"`      // decoded from a YAML list only; a bare scalar is a decode error
	PacketSizeRate  []float64 `yaml:"packet_size_rate"` // selection weights parallel to PacketSize
	InjectionRate   []float64 `yaml:"injection_rate"`   // per class

	ReadRequestSize  int `yaml:"read_request_size"`
	ReadReplySize    int `yaml:"read_reply_size"`
	WriteRequestSize int `yaml:"write_request_size"`
	WriteReplySize   int `yaml:"write_reply_size"`

	ReadRequestSubnet  int `yaml:"read_request_subnet"`
	ReadReplySubnet    int `yaml:"read_reply_subnet"`
	WriteRequestSubnet int `yaml:"write_request_subnet"`
	WriteReplySubnet   int `yaml:"write_reply_subnet"`
}

// SubnetFor returns the configured subnet for a given packet type. AnyType
// has no fixed subnet — the caller must pick one (randomly, via RNG).
func (t *TrafficConfig) SubnetFor(pt PacketType) (int, bool) {
	switch pt {
	case ReadRequest:
		return t.ReadRequestSubnet, true
	case ReadReply:
		return t.ReadReplySubnet, true
	case WriteRequest:
		return t.WriteRequestSubnet, true
	case WriteReply:
		return t.WriteReplySubnet, true
	default:
		return 0, false
	}
}

// RoutingConfig groups the pluggable routing function selection and the
// per-hop pipeline delays that make up Hop delay (spec.md glossary).
//
// K and N describe the topology's shape (a k-ary n-mesh/torus: K nodes
// per dimension, N dimensions, NumNodes = K^N). The source spec treats
// topology purely as a registry-lookup string; K/N are a SPEC_FULL
// addition needed by noc/network.MeshNetwork and noc/routing's
// dimension-order implementations, which must decompose a node id into
// Cartesian coordinates.
type RoutingConfig struct {
	RoutingFunction string `yaml:"routing_function"`
	Topology        string `yaml:"topology"`
	K               int    `yaml:"k"`
	N               int    `yaml:"n"`

	RoutingDelay   int `yaml:"routing_delay"`
	VCAllocDelay   int `yaml:"vc_alloc_delay"`
	SwAllocDelay   int `yaml:"sw_alloc_delay"`
	STPrepareDelay int `yaml:"st_prepare_delay"`
	STFinalDelay   int `yaml:"st_final_delay"`

	Speculative       bool `yaml:"speculative"`
	NOQ               bool `yaml:"noq"` // next-output-queueing (spec.md §4.3)
	HoldSwitchForPacket bool `yaml:"hold_switch_for_packet"`
}

// Name returns the registry key routing functions are looked up under:
// "<routing_function>_<topology>", matching booksim2's config convention
// and the design note in spec.md §9.
func (r *RoutingConfig) Name() string {
	return r.RoutingFunction + "_" + r.Topology
}

// HopDelay computes cycles spent in one router: routing +
// (speculative ? max : sum of) VC/switch allocation + crossbar + link,
// per the spec.md glossary's Hop delay definition. Link delay is fixed at 1.
func (r *RoutingConfig) HopDelay() int {
	const linkDelay = 1
	crossbar := r.STPrepareDelay + r.STFinalDelay
	var alloc int
	if r.Speculative {
		alloc = max(r.VCAllocDelay, r.SwAllocDelay)
	} else {
		alloc = r.VCAllocDelay + r.SwAllocDelay
	}
	return r.RoutingDelay + crossbar + linkDelay + alloc
}

// StatsConfig groups statistics sampling parameters (non-functional; §6).
type StatsConfig struct {
	SamplePeriod   int `yaml:"sample_period"`
	MaxSamples     int `yaml:"max_samples"`
	WarmupPeriods  int `yaml:"warmup_periods"`
}

// RunConfig groups top-level run parameters.
type RunConfig struct {
	DeadlockWarnTimeout int64   `yaml:"deadlock_warn_timeout"`
	SimType             SimType `yaml:"sim_type"`
	Seed                int64   `yaml:"seed"`
	StepCntUpdate       int     `yaml:"step_cnt_update"`
	NoCFrequencyMHz     int     `yaml:"noc_frequency_mhz"`
}

// Config is the full configuration tree consumed by NewTrafficManager.
// All top-level sections are listed so yaml.Decoder.KnownFields(true)
// strict parsing catches typos at load time (mirrors cmd/default_config.go
// in the teacher).
type Config struct {
	Subnet   SubnetConfig   `yaml:"subnet"`
	Buffer   BufferConfig   `yaml:"buffer"`
	Traffic  TrafficConfig  `yaml:"traffic"`
	Priority PriorityMode   `yaml:"priority"`
	Routing  RoutingConfig  `yaml:"routing"`
	Stats    StatsConfig    `yaml:"stats"`
	Run      RunConfig      `yaml:"run"`
}

// Validate checks required fields and fails fast on an unknown priority
// mode or missing routing function/topology name (spec.md §6, §7:
// InvalidConfig). Defaults absent from the YAML (InputBufferSize,
// EjectionBufferSize) are filled in here, matching
// InterconnectInterface::CreateInterconnect in original_source.
func (c *Config) Validate() error {
	if c.Subnet.Subnets < 1 {
		return NewInvalidConfig("subnets must be >= 1, got %d", c.Subnet.Subnets)
	}
	if c.Subnet.NumVCs < 1 {
		return NewInvalidConfig("num_vcs must be >= 1, got %d", c.Subnet.NumVCs)
	}
	if c.Subnet.Classes < 1 {
		return NewInvalidConfig("classes must be >= 1, got %d", c.Subnet.Classes)
	}
	if c.Buffer.InputBufferSize == 0 {
		c.Buffer.InputBufferSize = 9
	}
	if c.Buffer.EjectionBufferSize == 0 {
		c.Buffer.EjectionBufferSize = c.Buffer.VCBufSize
	}
	if c.Buffer.BoundaryBufferSize <= 0 {
		return NewInvalidConfig("boundary_buffer_size must be > 0")
	}
	if !validPriorityModes[c.Priority] {
		return NewInvalidConfig("unknown priority mode %q", c.Priority)
	}
	if c.Routing.RoutingFunction == "" || c.Routing.Topology == "" {
		return NewInvalidConfig("routing_function and topology are required")
	}
	if c.Routing.K < 1 || c.Routing.N < 1 {
		return NewInvalidConfig("routing.k and routing.n must be >= 1, got k=%d n=%d", c.Routing.K, c.Routing.N)
	}
	if c.Run.SimType == "" {
		c.Run.SimType = SimLatency
	}
	if !validSimTypes[c.Run.SimType] {
		return NewInvalidConfig("unknown sim_type %q", c.Run.SimType)
	}
	if len(c.Traffic.InjectionRate) != 0 && len(c.Traffic.InjectionRate) != c.Subnet.Classes {
		return NewInvalidConfig("injection_rate must have %d entries (one per class), got %d",
			c.Subnet.Classes, len(c.Traffic.InjectionRate))
	}
	return nil
}

// DefaultConfig returns a configuration matching the §8 end-to-end
// scenario fixture: a 4x4 mesh, 1 subnet, 4 VCs/port, VC buf 8, flit size
// 16B, dimension-order routing, packet size 5.
func DefaultConfig() *Config {
	return &Config{
		Subnet: SubnetConfig{Subnets: 1, NumVCs: 4, Classes: 1},
		Buffer: BufferConfig{BoundaryBufferSize: 8, InputBufferSize: 9, VCBufSize: 8},
		Traffic: TrafficConfig{
			FlitSize:           16,
			PacketSize:         []int{5},
			PacketSizeRate:     []float64{1.0},
			ReadRequestSize:    5,
			ReadReplySize:      5,
			WriteRequestSize:   5,
			WriteReplySize:     5,
			ReadRequestSubnet:  0,
			ReadReplySubnet:    0,
			WriteRequestSubnet: 0,
			WriteReplySubnet:   0,
		},
		Priority: PriorityNone,
		Routing: RoutingConfig{
			RoutingFunction: "dimension_order",
			Topology:        "mesh",
			K:               4,
			N:               2,
			RoutingDelay:    1,
			VCAllocDelay:    1,
			SwAllocDelay:    1,
			STPrepareDelay:  1,
			STFinalDelay:    1,
		},
		Stats: StatsConfig{SamplePeriod: 1000, MaxSamples: 10, WarmupPeriods: 0},
		Run:   RunConfig{DeadlockWarnTimeout: 100, SimType: SimLatency, Seed: 1, StepCntUpdate: 1000, NoCFrequencyMHz: 1000},
	}
}
