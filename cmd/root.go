// Package cmd wires the noc-sim CLI: a root cobra command with "run" (a
// single scripted admission sequence against a configured network,
// driven to completion) and "stress" (synthetic Poisson-ish traffic,
// spec.md's out-of-scope "standalone stress driver").
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "noc-sim",
	Short: "Cycle-accurate credit-based virtual-channel network simulator",
}

// Execute runs the root command, exiting non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration file (defaults built in when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(stressCmd)
}

func applyLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("invalid log level %q: %v", logLevel, err)
	}
	logrus.SetLevel(level)
}
