package cmd

import (
	"github.com/sirupsen/logrus"

	"github.com/noc-sim/noc-sim/noc"
	"github.com/noc-sim/noc-sim/noc/network"
	_ "github.com/noc-sim/noc-sim/noc/routing"
)

// buildNetworks resolves cfg's routing function and constructs one
// noc/network.MeshNetwork per subnet — the reference Network adapter
// (SPEC_FULL.md §5.2). The blank import above registers the
// dimension-order routing functions noc/routing ships.
func buildNetworks(cfg *noc.Config) []noc.Network {
	routeFn, err := noc.ResolveRouting(cfg.Routing.Name())
	if err != nil {
		logrus.Fatalf("failed to resolve routing function: %v", err)
	}

	hopDelay := cfg.Routing.HopDelay()
	networks := make([]noc.Network, cfg.Subnet.Subnets)
	for i := range networks {
		networks[i] = network.NewMeshNetwork(cfg.Routing.K, cfg.Routing.N, cfg.Subnet.NumVCs, hopDelay, routeFn)
	}
	return networks
}
