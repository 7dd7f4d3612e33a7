package cmd

import (
	"math"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/noc-sim/noc-sim/noc"
)

var (
	stressRate     float64
	stressHorizon  int64
	stressNumNodes int
)

// stressCmd is the standalone out-of-scope traffic generator spec.md §1
// mentions but excludes from the core ("random traffic generators and
// injection processes" are not the traffic manager's job). It exists
// purely to exercise noc.TrafficManager and noc/network.MeshNetwork under
// load, grounded on the teacher's GeneratePoissonArrivals
// (sim/simulator.go) and sim/cluster/rng.go's per-subsystem RNG pattern —
// here noc.PartitionedRNG's SubsystemWorkload stream drives both
// interarrival gaps and uniformly random (src, dst) pairs.
var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Inject synthetic Poisson-ish traffic and run for a fixed horizon",
	Run: func(cmd *cobra.Command, args []string) {
		applyLogLevel()

		cfg := loadConfig(configPath)
		networks := buildNetworks(cfg)

		tm, err := noc.NewTrafficManager(cfg, networks)
		if err != nil {
			logrus.Fatalf("failed to construct traffic manager: %v", err)
		}

		rng := noc.NewPartitionedRNG(cfg.Run.Seed)
		workloadRNG := rng.ForSubsystem(noc.SubsystemWorkload)

		var completed int64
		tm.RegisterCallback(func(sourceID uint, packetID uint64, status uint64) {
			completed++
		}, nil, 1)

		nextArrival := int64(0)
		if stressRate > 0 {
			nextArrival = poissonGap(workloadRNG.Float64(), stressRate)
		}

		for step := int64(0); step < stressHorizon; step++ {
			for stressRate > 0 && nextArrival <= step {
				src := workloadRNG.Intn(stressNumNodes)
				dst := workloadRNG.Intn(stressNumNodes)
				size := cfg.Traffic.PacketSize[workloadRNG.Intn(len(cfg.Traffic.PacketSize))]
				if _, err := tm.Admit(src, dst, size, -1, 1); err != nil {
					logrus.Warnf("stress admit rejected: %v", err)
				}
				nextArrival += poissonGap(workloadRNG.Float64(), stressRate)
			}
			if err := tm.Step(); err != nil {
				logrus.Fatalf("step %d failed: %v", step, err)
			}
		}

		logrus.Infof("stress run complete: %d cycles, %d packets completed", stressHorizon, completed)
		tm.Stats.Display()
	},
}

// poissonGap draws one exponential interarrival gap (in cycles) from a
// uniform sample u, matching GeneratePoissonArrivals' inverse-transform
// approach of deriving Poisson-process gaps from the configured rate.
func poissonGap(u, rate float64) int64 {
	if u <= 0 {
		u = 1e-9
	}
	gap := -math.Log(u) / rate
	if gap < 1 {
		gap = 1
	}
	return int64(gap)
}

func init() {
	stressCmd.Flags().Float64Var(&stressRate, "rate", 0.1, "packets injected per cycle across the whole network (random source node each), Poisson-ish")
	stressCmd.Flags().Int64Var(&stressHorizon, "horizon", 100000, "total cycles to run")
	stressCmd.Flags().IntVar(&stressNumNodes, "nodes", 16, "number of nodes in the topology (must match routing.k^routing.n)")
}
