package noc

// candidate is the flit chosen for injection at one (subnet, node) this
// cycle, along with the class it was drawn from and its (possibly
// freshly selected) VC.
type candidate struct {
	flit     *Flit
	class    int
	vc       int
	priority int
}

// injectPhase runs the injection VC selector (spec.md §4.3) for every
// (subnet, node), writing at most one flit per port into the network.
func (tm *TrafficManager) injectPhase() error {
	for subnet := 0; subnet < tm.numSubnets; subnet++ {
		for node := 0; node < tm.numNodes; node++ {
			if err := tm.injectNode(subnet, node); err != nil {
				return err
			}
		}
	}
	return nil
}

// injectNode implements the per-(subnet,node) injection policy of
// spec.md §4.3: at most one flit is selected and committed per cycle.
// When hold-switch-for-packet is enabled, the held candidate never
// short-circuits the round-robin scan (the scan simply excludes the held
// class, since that FIFO's front is already the held candidate itself):
// a scanned flit from another class overrides it only when that flit's
// priority is strictly greater, matching the original trafficmanager's
// "if (f && (f->pri >= cf->pri)) continue" tie-break in favor of the held
// flit.
func (tm *TrafficManager) injectNode(subnet, node int) error {
	var held *candidate
	excludeClass := -1
	if tm.cfg.Routing.HoldSwitchForPacket {
		held = tm.heldCandidate(subnet, node)
		if held != nil {
			excludeClass = held.class
		}
	}

	scanned := tm.scanForCandidate(subnet, node, excludeClass)

	cand := held
	if scanned != nil && (cand == nil || scanned.priority > cand.priority) {
		cand = scanned
	}
	if cand == nil {
		return nil
	}
	return tm.commitInjection(subnet, node, cand)
}

// heldCandidate implements step 1 of §4.3: if hold-switch-for-packet is
// enabled and the last-injected class still has a non-empty FIFO whose
// front is a body flit on a non-full VC, that flit is picked directly,
// with its priority computed the same way a scanned candidate's would be
// so it can be compared against the scan's result.
func (tm *TrafficManager) heldCandidate(subnet, node int) *candidate {
	lc := tm.lastInjectedClass[subnet][node]
	if lc < 0 {
		return nil
	}
	q := tm.partials.Queue(node, lc)
	f := q.Front()
	if f == nil || f.Subnet != subnet || f.Head {
		return nil
	}
	if f.VC == UnassignedVC {
		return nil
	}
	if tm.bufferStates[subnet][node].IsFullFor(f.VC) {
		return nil
	}
	prio := tm.priority.Compute(f, tm.clock, q.Len())
	return &candidate{flit: f, class: lc, vc: f.VC, priority: prio}
}

// scanForCandidate implements step 2 of §4.3: round-robin scan over
// classes starting at (last_class+1) mod num_classes, applying strict
// priority tie-breaks. excludeClass skips re-checking the held class's
// own queue (that candidate is already carried separately); pass -1 when
// there is no held candidate.
func (tm *TrafficManager) scanForCandidate(subnet, node, excludeClass int) *candidate {
	var best *candidate
	last := tm.lastClass[subnet][node]
	bs := tm.bufferStates[subnet][node]

	for i := 1; i <= tm.numClasses; i++ {
		class := (last + i) % tm.numClasses
		if class == excludeClass {
			continue
		}
		q := tm.partials.Queue(node, class)
		f := q.Front()
		if f == nil || f.Subnet != subnet || f.CTime > tm.clock {
			continue
		}

		vc := f.VC
		if f.Head && vc == UnassignedVC {
			selected, err := tm.selectVC(f, node, subnet, class)
			if err != nil {
				continue
			}
			vc = selected
		}
		if vc == UnassignedVC {
			continue
		}
		if bs.IsFullFor(vc) {
			continue
		}

		prio := tm.priority.Compute(f, tm.clock, q.Len())
		if best != nil && prio <= best.priority {
			continue
		}
		best = &candidate{flit: f, class: class, vc: vc, priority: prio}
	}
	return best
}

// selectVC implements "VC selection for a head flit" (spec.md §4.3): it
// resolves the injection-time OutputSet, optionally narrows it via
// next-output-queueing, then scans for the first available, non-full VC
// starting after the class's last assigned VC. Assignment is permanent —
// once selectVC assigns f.VC, that assignment stands even if this flit is
// not the cycle's chosen candidate (spec.md §3: "set once ... and never
// changes").
func (tm *TrafficManager) selectVC(f *Flit, node, subnet, class int) (int, error) {
	network := tm.networks[subnet]
	injRouter := network.GetInject(node)

	var out OutputSet
	if err := tm.routingFn(injRouter, f, -1, &out, true); err != nil {
		return UnassignedVC, err
	}
	if len(out.Entries) == 0 {
		return UnassignedVC, NewInternalInvariant("routing function returned no candidate for flit %d at injection", f.ID)
	}
	vcStart, vcEnd := out.Entries[0].VCStart, out.Entries[0].VCEnd

	if tm.cfg.Routing.NOQ {
		saved := f.VC
		f.VC = vcStart
		var out2 OutputSet
		err := tm.routingFn(injRouter, f, 0, &out2, false)
		f.VC = saved
		if err != nil {
			return UnassignedVC, err
		}
		if len(out2.Entries) > 0 {
			vcStart, vcEnd = out2.Entries[0].VCStart, out2.Entries[0].VCEnd
		}
	}

	rangeLen := vcEnd - vcStart + 1
	if rangeLen <= 0 {
		return UnassignedVC, nil
	}

	bs := tm.bufferStates[subnet][node]
	start := tm.lastVC[node][subnet][class] + 1
	offset := ((start - vcStart) % rangeLen + rangeLen) % rangeLen
	for i := 0; i < rangeLen; i++ {
		vc := vcStart + (offset+i)%rangeLen
		if bs.IsAvailableFor(vc) && !bs.IsFullFor(vc) {
			f.VC = vc
			tm.lastVC[node][subnet][class] = vc
			return vc, nil
		}
	}
	return UnassignedVC, nil
}

// commitInjection performs step 3 of §4.3: buffer reservation, FIFO pop,
// timestamping, occupancy update, priority assignment, VC propagation to
// the next body flit, and the write into the network's injection port.
func (tm *TrafficManager) commitInjection(subnet, node int, cand *candidate) error {
	f := cand.flit
	class := cand.class
	bs := tm.bufferStates[subnet][node]

	if f.Head {
		if err := bs.TakeBuffer(cand.vc, f.PID); err != nil {
			return err
		}
	}

	tm.lastClass[subnet][node] = class
	tm.lastInjectedClass[subnet][node] = class

	q := tm.partials.Queue(node, class)
	popped := q.Pop()
	popped.ITime = tm.clock

	if err := bs.SendingFlit(popped); err != nil {
		return err
	}

	if tm.cfg.Priority == PriorityNetworkAge {
		popped.Priority = tm.priority.Compute(popped, tm.clock, q.Len())
	} else {
		popped.Priority = cand.priority
	}

	if !popped.Tail {
		if next := q.Front(); next != nil && next.PID == popped.PID {
			next.VC = cand.vc
		}
	}

	if err := tm.networks[subnet].WriteFlit(popped, node); err != nil {
		return err
	}
	tm.Stats.RecordSent(subnet)
	return nil
}
