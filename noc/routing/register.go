package routing

import "github.com/noc-sim/noc-sim/noc"

// MeshRouter is the topology information a dimension-order routing
// function needs beyond noc.RouterHandle's bare NodeID: the mesh radix
// (nodes per dimension) and dimension count, enough to decompose a node
// ID into Cartesian coordinates. noc/network's router handles implement
// this; a RouterHandle that doesn't is a wiring bug between the network
// adapter and the configured routing function, not a runtime condition.
type MeshRouter interface {
	noc.RouterHandle
	K() int      // radix: nodes per dimension
	N() int      // number of dimensions
	NumVCs() int // VCs per port, for the full-range VC reply this package returns
}

func init() {
	noc.RegisterRouting("dimension_order_mesh", DimensionOrderMesh)
	noc.RegisterRouting("dimension_order_torus", DimensionOrderTorus)
}
