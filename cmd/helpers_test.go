package cmd

import "github.com/noc-sim/noc-sim/noc"

func defaultTestConfig() *noc.Config {
	return noc.DefaultConfig()
}
