package noc

// retireFlit implements spec.md §4.6: removes f from the in-flight sets,
// checks the head-only-destination invariant, records latency histograms,
// and manages the RetiredHeads lifecycle. Called once per ejected flit
// from the Step driver's retire phase (spec.md §4.5 step 4). Reports
// InternalInvariant if f was already retired, RoutingViolation if a head
// flit ejected somewhere other than its destination.
func (tm *TrafficManager) retireFlit(f *Flit, atNode int) error {
	class := f.Class

	if _, ok := tm.inFlight[class][f.ID]; !ok {
		return NewInternalInvariant("flit %d (pid %d) not in InFlightFlits[class %d]; already retired?", f.ID, f.PID, class)
	}
	delete(tm.inFlight[class], f.ID)
	if f.Record {
		delete(tm.measuredInFlight[class], f.ID)
	}

	if f.Head && f.Dst != atNode {
		return NewRoutingViolation("head flit %d (pid %d) ejected at node %d, destination is %d", f.ID, f.PID, atNode, f.Dst)
	}

	tm.Stats.RecordFlitLatency(class, f.Src, atNode, f.ATime-f.ITime)

	if !f.Tail {
		// Head but not tail: retain a RetiredHead so the tail can later
		// compute packet-level latency without the head/tail flit
		// objects aliasing each other (spec.md §3, §9).
		if f.Head {
			tm.retiredHeads[class][f.PID] = &RetiredHead{
				ID: f.ID, PID: f.PID, Class: class, Type: f.Type, Src: f.Src,
				CTime: f.CTime, ITime: f.ITime, ATime: f.ATime, Watch: f.Watch, Record: f.Record,
			}
		}
		return nil
	}

	var head *RetiredHead
	if f.Head {
		head = &RetiredHead{
			ID: f.ID, PID: f.PID, Class: class, Type: f.Type, Src: f.Src,
			CTime: f.CTime, ITime: f.ITime, ATime: f.ATime, Watch: f.Watch, Record: f.Record,
		}
	} else {
		h, ok := tm.retiredHeads[class][f.PID]
		if !ok {
			return NewInternalInvariant("tail flit %d (pid %d) retiring with no retained head", f.ID, f.PID)
		}
		head = h
		delete(tm.retiredHeads[class], f.PID)
	}

	packetLatency := f.ATime - head.CTime
	networkLatency := f.ATime - head.ITime
	fragmentation := (f.ATime - head.ATime) - int64(f.ID-head.ID)

	if f.Record || tm.clock < int64(tm.cfg.Stats.WarmupPeriods) {
		tm.Stats.RecordPacketCompletion(class, packetLatency, networkLatency, fragmentation, f.Hops)
	}

	if head.Type.IsRequest() {
		info := ReplyInfo{PID: f.PID, Src: head.Src, Dst: atNode, Class: class, Type: head.Type}
		tm.repliesPending[atNode] = append(tm.repliesPending[atNode], info)
		if err := tm.replyGen.OnRequestCompleted(tm, info, tm.clock); err != nil {
			return err
		}
	}
	// A reply's destination is the original requester, whose counter
	// admitTyped incremented when the request was admitted.
	if head.Type.IsReplyLike() && tm.requestsOutstanding[atNode] > 0 {
		tm.requestsOutstanding[atNode]--
	}

	// head object (if distinct from tail) is freed here by going out of
	// scope; Go's GC reclaims it, unlike the arena the C++ original uses.

	return nil
}

// RepliesPending returns every ReplyInfo record accumulated for node so
// far; reading does not clear them. Intended for host introspection/tests;
// each record was also handed to the registered ReplyGenerator
// synchronously at retirement.
func (tm *TrafficManager) RepliesPending(node int) []ReplyInfo {
	return tm.repliesPending[node]
}

// RequestsOutstanding returns the outstanding-request counter for node.
func (tm *TrafficManager) RequestsOutstanding(node int) int {
	return tm.requestsOutstanding[node]
}
