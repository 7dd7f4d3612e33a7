package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/noc-sim/noc-sim/noc"
)

var (
	runSource  int
	runDest    int
	runSize    int
	runMaxStep int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Admit a single packet and step the network until it completes",
	Run: func(cmd *cobra.Command, args []string) {
		applyLogLevel()

		cfg := loadConfig(configPath)
		networks := buildNetworks(cfg)

		tm, err := noc.NewTrafficManager(cfg, networks)
		if err != nil {
			logrus.Fatalf("failed to construct traffic manager: %v", err)
		}

		done := false
		tm.RegisterCallback(func(sourceID uint, packetID uint64, status uint64) {
			logrus.Infof("packet %d completed, status=%d", packetID, status)
			done = true
		}, nil, 1)

		pid, err := tm.Admit(runSource, runDest, runSize, -1, 1)
		if err != nil {
			logrus.Fatalf("admit failed: %v", err)
		}
		logrus.Infof("admitted pid=%d src=%d dst=%d size=%d", pid, runSource, runDest, runSize)

		for step := int64(0); step < runMaxStep && !done; step++ {
			if err := tm.Step(); err != nil {
				logrus.Fatalf("step %d failed: %v", step, err)
			}
		}
		if !done {
			logrus.Warnf("packet did not complete within %d steps", runMaxStep)
		}

		tm.Stats.Display()
	},
}

func init() {
	runCmd.Flags().IntVar(&runSource, "src", 0, "source node")
	runCmd.Flags().IntVar(&runDest, "dst", 0, "destination node")
	runCmd.Flags().IntVar(&runSize, "size", 5, "packet size in flits")
	runCmd.Flags().Int64Var(&runMaxStep, "max-steps", 10000, "maximum cycles to step before giving up")
}
