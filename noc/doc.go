// Package noc implements the traffic manager of a credit-based,
// virtual-channel, wormhole-routed on-chip interconnection network.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - flit.go: Flit and Credit, the transport units
//   - buffer_state.go: per-(node,subnet) downstream buffer mirror
//   - partial_packets.go: per-(node,class) FIFOs of flits awaiting injection
//   - injection.go: the injection VC selector
//   - traffic_manager.go: Admit/RegisterCallback/Step, the host-facing interface
//
// # Architecture
//
// The noc package defines interfaces and the core step driver; concrete
// implementations of the collaborators it treats as external live in
// sub-packages:
//   - noc/routing: pluggable topology routing functions
//   - noc/network: a reference network adapter (per-link channel-delay
//     queues with a fixed per-hop delay, no VC or switch allocation)
//     satisfying the Network Adapter Contract
//
// Sub-packages register their implementations via init() functions that set
// a package-level registry (RegisterRouting), the same way the teacher's
// sim/kv and sim/latency packages register factory functions to avoid an
// import cycle with the package that owns the interface.
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - Network: eject/credit/inject ports plus the per-cycle state machine
//   - RoutingFunc: computes an OutputSet for a flit at a router (or at
//     injection, when injectPhase is true)
//   - ReplyGenerator: turns a completed request into a reply admission
package noc
