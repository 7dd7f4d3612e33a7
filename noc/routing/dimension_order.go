package routing

import "github.com/noc-sim/noc-sim/noc"

// Output link ports are numbered dim*2+dir, dir 0 for the
// increasing-coordinate direction and dir 1 for decreasing — the
// convention noc/network's MeshNetwork router handles use to index their
// per-port channel-delay queues.
func portFor(dim, dir int) int { return dim*2 + dir }

func coords(id, k, n int) []int {
	c := make([]int, n)
	for i := 0; i < n; i++ {
		c[i] = id % k
		id /= k
	}
	return c
}

func fullVCRange(router MeshRouter) (int, int) {
	if router.NumVCs() <= 0 {
		return 0, 0
	}
	return 0, router.NumVCs() - 1
}

func asMeshRouter(router noc.RouterHandle) (MeshRouter, error) {
	mr, ok := router.(MeshRouter)
	if !ok {
		return nil, noc.NewInternalInvariant("dimension-order routing requires a MeshRouter-capable network adapter, got %T", router)
	}
	return mr, nil
}

// DimensionOrderMesh is the canonical k-ary n-mesh dimension-order
// routing function (spec.md §4.3, §9; grounded on booksim2's routing
// function call sites in trafficmanager.cpp under original_source, which
// the spec's §8 worked examples assume). At injection it offers the full
// configured VC range with no real port decision; at a router it
// resolves the single next hop by scanning dimensions low-to-high for the
// first coordinate mismatch, or EjectPort if the flit has arrived.
func DimensionOrderMesh(router noc.RouterHandle, f *noc.Flit, inChannel int, out *noc.OutputSet, injectPhase bool) error {
	out.Entries = out.Entries[:0]

	mr, err := asMeshRouter(router)
	if err != nil {
		return err
	}
	vcStart, vcEnd := fullVCRange(mr)

	if injectPhase {
		out.Entries = append(out.Entries, noc.OutputSetEntry{Port: noc.EjectPort, VCStart: vcStart, VCEnd: vcEnd})
		return nil
	}

	k, n := mr.K(), mr.N()
	here := coords(mr.NodeID(), k, n)
	dst := coords(f.Dst, k, n)

	for dim := 0; dim < n; dim++ {
		if here[dim] == dst[dim] {
			continue
		}
		dir := 0
		if dst[dim] < here[dim] {
			dir = 1
		}
		out.Entries = append(out.Entries, noc.OutputSetEntry{Port: portFor(dim, dir), VCStart: vcStart, VCEnd: vcEnd})
		return nil
	}

	out.Entries = append(out.Entries, noc.OutputSetEntry{Port: noc.EjectPort, VCStart: vcStart, VCEnd: vcEnd})
	return nil
}

// DimensionOrderTorus is DimensionOrderMesh with wraparound: for each
// dimension it picks whichever of the two directions is the shorter path
// around the ring, matching booksim2's torus counterpart to dor_next_mesh
// (original_source ships both; spec.md §9 names only the mesh case, so
// this supplements the worked examples rather than replacing them).
func DimensionOrderTorus(router noc.RouterHandle, f *noc.Flit, inChannel int, out *noc.OutputSet, injectPhase bool) error {
	out.Entries = out.Entries[:0]

	mr, err := asMeshRouter(router)
	if err != nil {
		return err
	}
	vcStart, vcEnd := fullVCRange(mr)

	if injectPhase {
		out.Entries = append(out.Entries, noc.OutputSetEntry{Port: noc.EjectPort, VCStart: vcStart, VCEnd: vcEnd})
		return nil
	}

	k, n := mr.K(), mr.N()
	here := coords(mr.NodeID(), k, n)
	dst := coords(f.Dst, k, n)

	for dim := 0; dim < n; dim++ {
		if here[dim] == dst[dim] {
			continue
		}
		forward := (dst[dim] - here[dim] + k) % k
		backward := (here[dim] - dst[dim] + k) % k
		dir := 0
		if backward < forward {
			dir = 1
		}
		out.Entries = append(out.Entries, noc.OutputSetEntry{Port: portFor(dim, dir), VCStart: vcStart, VCEnd: vcEnd})
		return nil
	}

	out.Entries = append(out.Entries, noc.OutputSetEntry{Port: noc.EjectPort, VCStart: vcStart, VCEnd: vcEnd})
	return nil
}
