package noc

import "math"

// NoDestination is the sentinel destination carried by every non-head flit.
// Only the head flit of a packet carries the packet's real destination —
// this models destination being part of the head's header only.
const NoDestination = -1

// UnassignedVC is the sentinel VC index a flit carries until the injection
// VC selector assigns it one. Once assigned, a flit's VC never changes.
const UnassignedVC = -1

// PacketType distinguishes traffic classes that may be pinned to distinct
// subnets to avoid protocol deadlock.
type PacketType int

const (
	ReadRequest PacketType = iota
	ReadReply
	WriteRequest
	WriteReply
	AnyType
)

func (t PacketType) String() string {
	switch t {
	case ReadRequest:
		return "READ_REQUEST"
	case ReadReply:
		return "READ_REPLY"
	case WriteRequest:
		return "WRITE_REQUEST"
	case WriteReply:
		return "WRITE_REPLY"
	case AnyType:
		return "ANY_TYPE"
	default:
		return "UNKNOWN_TYPE"
	}
}

// IsRequest reports whether t is a request type (READ_REQUEST or
// WRITE_REQUEST), the condition that pushes a reply-info record into
// RepliesPending on tail retirement (spec.md §4.6 item 5).
func (t PacketType) IsRequest() bool {
	return t == ReadRequest || t == WriteRequest
}

// IsReplyLike reports whether t decrements the requests-outstanding
// counter on tail retirement: READ_REPLY, WRITE_REPLY, or ANY.
func (t PacketType) IsReplyLike() bool {
	return t == ReadReply || t == WriteReply || t == AnyType
}

// Flit is the smallest unit of data that moves across one channel per
// cycle. It is immutable after creation except for the fields explicitly
// called out below (VC, which is set exactly once; ITime, ATime, Hops,
// Priority, which accumulate over the flit's lifetime).
type Flit struct {
	ID    uint64 // unique, monotonically increasing
	PID   uint64 // packet id shared by all flits of the same packet
	Head  bool   // first flit of the packet
	Tail  bool   // last flit of the packet (size=1 packets set both)
	Src   int
	Dst   int // NoDestination unless Head
	VC    int // UnassignedVC until injection VC selection runs
	Subnet int
	Class  int
	Type   PacketType

	CTime int64 // host-supplied issue cycle, may be in the future
	ITime int64 // set when the flit leaves the partial-packet queue
	ATime int64 // set on ejection

	Hops     int
	Watch    bool
	Record   bool // counted in measured statistics
	Priority int

	// LookaheadRoute caches the route computed one hop in advance so
	// routing can overlap with switch allocation (spec.md glossary:
	// Lookahead routing). Nil until a router first precomputes it.
	LookaheadRoute *OutputSet

	// Handle is the opaque host tag identifying which external caller
	// owns the packet this flit belongs to. The core never dereferences
	// it — only InFlightPackets[pid] does, and only to look up a
	// registered callback.
	Handle Handle
}

// PriorityMaxAge is used by the network_age priority mode: priority is set
// to PriorityMaxAge - currentCycle at injection so strictly older packets
// win strict-greater comparisons (spec.md §4.3).
const PriorityMaxAge = math.MaxInt32

// Credit carries the set of VC indices being freed from a downstream
// buffer back toward the upstream router or node.
type Credit struct {
	VCs []int
}

// NewCredit builds a credit for a single VC, the common case (spec.md
// §4.5 step 4: "manufacture a credit carrying that flit's VC").
func NewCredit(vc int) Credit {
	return Credit{VCs: []int{vc}}
}
