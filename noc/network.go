package noc

import "fmt"

// RouterHandle identifies a router for routing-function purposes. The
// core never looks inside a router — it only ever passes handles back to
// the Network and to routing functions (spec.md §1: router
// microarchitecture is out of scope).
type RouterHandle interface {
	// NodeID returns the node this router is associated with, the only
	// piece of router identity a routing function needs.
	NodeID() int
}

// EjectPort is the sentinel OutputSetEntry.Port value a routing function
// returns when a flit has reached its destination and should be handed
// to the ejection buffer rather than forwarded to another router.
const EjectPort = -1

// OutputSetEntry names one candidate (output port, VC range) pair a
// routing function offers for a flit. Port is a topology-specific output
// link index, or EjectPort.
type OutputSetEntry struct {
	Port    int
	VCStart int
	VCEnd   int
}

// OutputSet is the set of candidate output port/VC-range pairs a routing
// function computes for one flit at one router (spec.md §4.3). At
// injection (injectPhase true) the routing functions in noc/routing
// return exactly one entry, whose VC range is the router's full VC range.
type OutputSet struct {
	Entries []OutputSetEntry
}

// RoutingFunc computes the OutputSet for flit f arriving at router on
// inChannel. injectPhase is true during injection VC selection (spec.md
// §4.3); the core still passes a real router handle (from
// Network.GetInject) rather than nil in that case, since an
// implementation needs topology/VC-range information for the injection
// candidate range regardless of phase — injectPhase is the phase
// discriminant the spec's "router=null" wording signals.
// Implementations must not mutate f except through the returned
// OutputSet. Grounded on the first-class-function-value design note in
// spec.md §9 and the teacher's init()-registered-factory pattern
// (sim/kv/register.go, sim/latency/register.go).
type RoutingFunc func(router RouterHandle, f *Flit, inChannel int, out *OutputSet, injectPhase bool) error

// routingRegistry maps "<routing_function>_<topology>" names to
// implementations. Populated by sub-package init() functions (e.g.
// noc/routing) calling RegisterRouting, breaking the import cycle between
// this package (interface owner) and the implementation package, exactly
// as sim.NewLatencyModelFunc / sim.NewKVStoreFromConfig are populated in
// the teacher.
var routingRegistry = make(map[string]RoutingFunc)

// RegisterRouting registers fn under name. Intended to be called from an
// init() function in a routing-implementation package. Panics on a
// duplicate name — a programming error, not a runtime condition.
func RegisterRouting(name string, fn RoutingFunc) {
	if _, exists := routingRegistry[name]; exists {
		panic(fmt.Sprintf("routing function %q already registered", name))
	}
	routingRegistry[name] = fn
}

// ResolveRouting looks up a registered routing function by name. Returns
// InvalidConfig if name was never registered (spec.md §7, §9).
func ResolveRouting(name string) (RoutingFunc, error) {
	fn, ok := routingRegistry[name]
	if !ok {
		return nil, NewInvalidConfig("unknown routing function %q (forgot to import a noc/routing implementation package?)", name)
	}
	return fn, nil
}

// Network is the per-subnet contract the core requires from the embedding
// network adapter (spec.md §4.7). The core never reaches inside a Network
// — it only calls these methods, once per phase, per node.
type Network interface {
	// ReadFlit returns the flit ready at node's ejection port, if any.
	ReadFlit(node int) (*Flit, bool)
	// ReadCredit returns the credit ready at node's credit-return port,
	// if any.
	ReadCredit(node int) (Credit, bool)
	// WriteFlit injects flit into node's input port.
	WriteFlit(flit *Flit, node int) error
	// WriteCredit returns credit upstream to node.
	WriteCredit(credit Credit, node int) error

	// ReadInputs propagates channel-delay queues into router input
	// buffers. Called once per cycle, after all nodes' eject/credit
	// reads (spec.md §4.5 step 2).
	ReadInputs()
	// Evaluate runs one router cycle: routing, VC allocation, switch
	// allocation, crossbar traversal (spec.md §4.5 step 5).
	Evaluate()
	// WriteOutputs publishes outgoing channel state computed by
	// Evaluate (spec.md §4.5 step 5).
	WriteOutputs()

	// GetInject returns a handle usable to compute minimum injection
	// latency for node.
	GetInject(node int) RouterHandle
	// GetInjectCredit returns the credit-side counterpart of GetInject.
	GetInjectCredit(node int) RouterHandle

	NumNodes() int
	NumRouters() int
}
