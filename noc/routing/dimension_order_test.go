package routing

import (
	"testing"

	"github.com/noc-sim/noc-sim/noc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMeshRouter struct {
	node   int
	k, n   int
	numVCs int
}

func (r fakeMeshRouter) NodeID() int { return r.node }
func (r fakeMeshRouter) K() int      { return r.k }
func (r fakeMeshRouter) N() int      { return r.n }
func (r fakeMeshRouter) NumVCs() int { return r.numVCs }

func TestCoords_DecomposesMixedRadixLowToHigh(t *testing.T) {
	assert.Equal(t, []int{0, 0}, coords(0, 4, 2))
	assert.Equal(t, []int{3, 0}, coords(3, 4, 2))
	assert.Equal(t, []int{0, 1}, coords(4, 4, 2))
	assert.Equal(t, []int{3, 3}, coords(15, 4, 2))
}

func TestPortFor_EncodesDimensionAndDirection(t *testing.T) {
	assert.Equal(t, 0, portFor(0, 0))
	assert.Equal(t, 1, portFor(0, 1))
	assert.Equal(t, 2, portFor(1, 0))
	assert.Equal(t, 3, portFor(1, 1))
}

func TestDimensionOrderMesh_InjectPhaseOffersFullVCRange(t *testing.T) {
	r := fakeMeshRouter{node: 0, k: 4, n: 2, numVCs: 4}
	var out noc.OutputSet
	require.NoError(t, DimensionOrderMesh(r, &noc.Flit{}, -1, &out, true))
	require.Len(t, out.Entries, 1)
	assert.Equal(t, noc.EjectPort, out.Entries[0].Port)
	assert.Equal(t, 0, out.Entries[0].VCStart)
	assert.Equal(t, 3, out.Entries[0].VCEnd)
}

func TestDimensionOrderMesh_EjectsAtDestination(t *testing.T) {
	r := fakeMeshRouter{node: 5, k: 4, n: 2, numVCs: 4}
	var out noc.OutputSet
	require.NoError(t, DimensionOrderMesh(r, &noc.Flit{Dst: 5}, 0, &out, false))
	require.Len(t, out.Entries, 1)
	assert.Equal(t, noc.EjectPort, out.Entries[0].Port)
}

func TestDimensionOrderMesh_RoutesLowestDimensionFirst(t *testing.T) {
	// node 0 -> node 15 on a 4x4 mesh: coords (0,0) -> (3,3); dimension 0
	// (x) mismatches first, so the first hop is the +x port.
	r := fakeMeshRouter{node: 0, k: 4, n: 2, numVCs: 4}
	var out noc.OutputSet
	require.NoError(t, DimensionOrderMesh(r, &noc.Flit{Dst: 15}, -1, &out, false))
	require.Len(t, out.Entries, 1)
	assert.Equal(t, portFor(0, 0), out.Entries[0].Port)
}

func TestDimensionOrderMesh_BackwardDirectionWhenDestinationIsSmaller(t *testing.T) {
	r := fakeMeshRouter{node: 3, k: 4, n: 2, numVCs: 4}
	var out noc.OutputSet
	require.NoError(t, DimensionOrderMesh(r, &noc.Flit{Dst: 0}, -1, &out, false))
	require.Len(t, out.Entries, 1)
	assert.Equal(t, portFor(0, 1), out.Entries[0].Port)
}

func TestDimensionOrderMesh_RejectsNonMeshRouterHandle(t *testing.T) {
	type plainHandle struct{ noc.RouterHandle }
	var out noc.OutputSet
	err := DimensionOrderMesh(plainHandle{}, &noc.Flit{}, 0, &out, false)
	assert.Error(t, err)
}

func TestDimensionOrderTorus_WrapsAroundWhenShorter(t *testing.T) {
	// k=4: node at x=0 going to x=3 is 1 hop the "backward" way around the
	// ring (wrap), versus 3 hops forward — torus must pick the wrap.
	r := fakeMeshRouter{node: 0, k: 4, n: 1, numVCs: 4}
	var out noc.OutputSet
	require.NoError(t, DimensionOrderTorus(r, &noc.Flit{Dst: 3}, -1, &out, false))
	require.Len(t, out.Entries, 1)
	assert.Equal(t, portFor(0, 1), out.Entries[0].Port)
}

func TestDimensionOrderTorus_EjectsAtDestination(t *testing.T) {
	r := fakeMeshRouter{node: 7, k: 4, n: 2, numVCs: 4}
	var out noc.OutputSet
	require.NoError(t, DimensionOrderTorus(r, &noc.Flit{Dst: 7}, 0, &out, false))
	assert.Equal(t, noc.EjectPort, out.Entries[0].Port)
}
