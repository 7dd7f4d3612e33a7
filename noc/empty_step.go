package noc

// EmptyStepDriver implements the "empty step" calibration mode described
// in spec.md §4.5: a latency-only precomputed-ZLL model that skips all
// real network simulation. It maintains its own InFlightPackets ->
// countdown map keyed by pid; each tick decrements every countdown, and
// on reaching zero fires the completion callback and deletes the
// mapping. It is a separate, additive driver rather than a branch inside
// Step — the two are mutually exclusive per run, matching the source's
// build-time _EMPTY_STEP_ mode (spec.md §9 design note).
type EmptyStepDriver struct {
	callbacks  *CallbackRegistry
	countdowns map[uint64]emptyStepEntry
	clock      int64
}

type emptyStepEntry struct {
	handle    Handle
	remaining int64
}

// NewEmptyStepDriver creates an EmptyStepDriver sharing callbacks with a
// TrafficManager (or standalone, for pure calibration runs).
func NewEmptyStepDriver(callbacks *CallbackRegistry) *EmptyStepDriver {
	return &EmptyStepDriver{callbacks: callbacks, countdowns: make(map[uint64]emptyStepEntry)}
}

// Admit registers pid to complete after zll cycles (the precomputed
// zero-load latency for the packet), rather than actually simulating
// flit motion.
func (d *EmptyStepDriver) Admit(pid uint64, handle Handle, zll int64) {
	d.countdowns[pid] = emptyStepEntry{handle: handle, remaining: zll}
}

// Step decrements every outstanding countdown by one cycle, firing the
// completion callback and deleting the mapping for any that reach zero.
// The callback's sourceID is always 0, per spec.md §4.1 ("the core calls
// read_done(0, pid, 1) on tail ejection").
func (d *EmptyStepDriver) Step() {
	for pid, entry := range d.countdowns {
		entry.remaining--
		if entry.remaining <= 0 {
			d.callbacks.FireReadDone(entry.handle, 0, pid, 1)
			delete(d.countdowns, pid)
			continue
		}
		d.countdowns[pid] = entry
	}
	d.clock++
}

// CurrentCycle returns the driver's own cycle counter.
func (d *EmptyStepDriver) CurrentCycle() int64 { return d.clock }

// OutstandingCount returns the number of packets still counting down.
func (d *EmptyStepDriver) OutstandingCount() int { return len(d.countdowns) }
