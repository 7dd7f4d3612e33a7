package noc

import "github.com/sirupsen/logrus"

// Step advances the simulator by exactly one cycle and then increments
// the cycle counter. The phase order is fixed per spec.md §4.5 and must
// not be reordered: inject-before-eject would lose a cycle of buffer
// availability; evaluate-before-read-inputs would stall channels by one
// cycle.
func (tm *TrafficManager) Step() error {
	tm.runDeadlockWatchdog()

	if tm.SkipStepEnabled && tm.outstandingPackets == 0 {
		tm.Stats.SkippedSteps++
		tm.clock++
		return nil
	}
	tm.Stats.NonSkippedSteps++

	staged, err := tm.ejectAndCreditPhase()
	if err != nil {
		return err
	}

	if err := tm.injectPhase(); err != nil {
		return err
	}

	if err := tm.retireEjectedPhase(staged); err != nil {
		return err
	}

	for subnet := 0; subnet < tm.numSubnets; subnet++ {
		tm.networks[subnet].Evaluate()
		tm.networks[subnet].WriteOutputs()
	}

	tm.clock++
	return nil
}

// runDeadlockWatchdog implements spec.md §4.5 step 1: if any class has
// in-flight flits, increment the deadlock timer; when it crosses the
// configured threshold, emit a warning and reset the timer. This is a
// warning only — it does not abort the simulation (spec.md §7).
func (tm *TrafficManager) runDeadlockWatchdog() {
	anyInFlight := false
	for c := 0; c < tm.numClasses; c++ {
		if len(tm.inFlight[c]) > 0 {
			anyInFlight = true
			break
		}
	}
	if !anyInFlight {
		tm.deadlockTimer = 0
		return
	}

	tm.deadlockTimer++
	if tm.deadlockTimer >= tm.cfg.Run.DeadlockWarnTimeout {
		tm.Stats.DeadlockWarnings++
		logrus.Warnf("deadlock suspected at cycle %d: flits have been in flight for %d cycles with no progress",
			tm.clock, tm.deadlockTimer)
		tm.deadlockTimer = 0
	}
}
