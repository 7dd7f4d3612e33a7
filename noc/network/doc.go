// Package network provides MeshNetwork, a concrete implementation of the
// noc.Network adapter contract (spec.md §4.7) over a k-ary n-mesh. It
// exists so the core is runnable and testable standalone without
// claiming to be a faithful switch/crossbar microarchitecture model —
// router microarchitecture stays out of scope (spec.md §1). MeshNetwork
// is intentionally the simplest adapter that satisfies the contract's
// timing: hop delay = routing + allocation + crossbar + link delay, per
// the Hop delay glossary entry, implemented with a container/heap-backed
// ChannelQueue generalized from the teacher's sim/cluster/event_heap.go.
package network
