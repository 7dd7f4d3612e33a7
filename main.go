package main

import "github.com/noc-sim/noc-sim/cmd"

func main() {
	cmd.Execute()
}
