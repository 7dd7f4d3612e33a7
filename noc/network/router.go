package network

// routerHandle is MeshNetwork's noc.RouterHandle (and noc/routing's
// MeshRouter) implementation: identifies one router by node id plus the
// topology parameters a dimension-order routing function needs to
// decompose that id into Cartesian coordinates.
type routerHandle struct {
	node   int
	k, n   int
	numVCs int
}

func (r routerHandle) NodeID() int { return r.node }
func (r routerHandle) K() int      { return r.k }
func (r routerHandle) N() int      { return r.n }
func (r routerHandle) NumVCs() int { return r.numVCs }
