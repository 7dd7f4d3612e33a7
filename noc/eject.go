package noc

// ejectedFlit pairs a flit ejected this cycle with the node it was
// ejected at, staged for the retire phase (spec.md §4.5 steps 2 and 4).
type ejectedFlit struct {
	flit *Flit
	node int
}

// ejectAndCreditPhase implements spec.md §4.5 step 2: for each (subnet,
// node), the ejected-flit read is gated on OutstandingFlits[subnet][node]
// (cheap skip when no flit admitted from or to that node is still
// outstanding in the subnet) and decrements that same counter on a hit; the credit
// read is unconditional. Afterward propagates channel-delay queues via
// Network.ReadInputs.
func (tm *TrafficManager) ejectAndCreditPhase() ([]ejectedFlit, error) {
	var staged []ejectedFlit

	for subnet := 0; subnet < tm.numSubnets; subnet++ {
		network := tm.networks[subnet]
		for node := 0; node < tm.numNodes; node++ {
			if tm.outstandingFlits[subnet][node] > 0 {
				if f, ok := network.ReadFlit(node); ok {
					f.ATime = tm.clock
					tm.Stats.RecordAccepted(subnet, f.Tail)
					tm.outstandingFlits[subnet][node]--
					staged = append(staged, ejectedFlit{flit: f, node: node})
				}
			}
			if c, ok := network.ReadCredit(node); ok {
				if err := tm.bufferStates[subnet][node].ProcessCredit(c); err != nil {
					return nil, err
				}
			}
		}
		network.ReadInputs()
	}

	return staged, nil
}

// retireEjectedPhase implements spec.md §4.5 step 4: for each staged
// ejected flit, manufacture a credit and return it upstream, retire the
// flit (§4.6), and on a tail, fire the host's registered callback and
// erase the InFlightPackets mapping.
func (tm *TrafficManager) retireEjectedPhase(staged []ejectedFlit) error {
	for _, e := range staged {
		f, node := e.flit, e.node
		subnet := f.Subnet

		credit := NewCredit(f.VC)
		if err := tm.networks[subnet].WriteCredit(credit, f.Src); err != nil {
			return err
		}

		if err := tm.retireFlit(f, node); err != nil {
			return err
		}

		if f.Tail {
			if handle, ok := tm.inFlightPackets[f.PID]; ok {
				tm.callbacks.FireReadDone(handle, 0, f.PID, 1)
				delete(tm.inFlightPackets, f.PID)
				tm.outstandingPackets--
			}
		}
	}
	return nil
}
