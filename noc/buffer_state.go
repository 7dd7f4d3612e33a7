package noc

// vcSlot tracks one output VC's ownership and occupancy (spec.md §3
// BufferState, §4.2).
type vcSlot struct {
	inUseBy  uint64 // owning pid, valid only when inUse is true
	inUse    bool
	occupancy int
}

// BufferState mirrors a single downstream router's buffer for one source
// node on one subnet: for each output VC, which packet owns it, its
// occupancy, and the configured capacity. It is the core's only view of
// downstream buffer availability, kept consistent purely through
// take_buffer/sending_flit/process_credit calls (spec.md §4.2).
type BufferState struct {
	capacity    int
	slots       []vcSlot
	minLatency  int64 // shortest observed credit round-trip; debug only
	haveMinLatency bool
}

// NewBufferState allocates a BufferState for numVCs output VCs each with
// the given capacity. BufferState entries are allocated once at
// construction and live for the life of the simulator (spec.md §3).
func NewBufferState(numVCs, capacity int) *BufferState {
	return &BufferState{
		capacity: capacity,
		slots:    make([]vcSlot, numVCs),
	}
}

// NumVCs returns the number of VCs this buffer tracks.
func (b *BufferState) NumVCs() int { return len(b.slots) }

// IsAvailableFor reports whether no packet currently owns vc.
func (b *BufferState) IsAvailableFor(vc int) bool {
	return !b.slots[vc].inUse
}

// IsFullFor reports whether vc's occupancy has reached capacity.
func (b *BufferState) IsFullFor(vc int) bool {
	return b.slots[vc].occupancy >= b.capacity
}

// TakeBuffer marks vc as owned by pid. Must only be called on head flit
// injection, and only when IsAvailableFor(vc) is true — callers violating
// VC ownership exclusivity (spec.md §8) get an InternalInvariant error.
func (b *BufferState) TakeBuffer(vc int, pid uint64) error {
	if b.slots[vc].inUse {
		return NewInternalInvariant("vc %d already owned by pid %d, cannot assign to pid %d", vc, b.slots[vc].inUseBy, pid)
	}
	b.slots[vc].inUse = true
	b.slots[vc].inUseBy = pid
	return nil
}

// SendingFlit increments vc's occupancy for the flit being injected, and,
// on a tail flit, releases ownership of vc (spec.md §4.2).
func (b *BufferState) SendingFlit(f *Flit) error {
	vc := f.VC
	if vc < 0 || vc >= len(b.slots) {
		return NewInternalInvariant("flit %d has out-of-range vc %d", f.ID, vc)
	}
	b.slots[vc].occupancy++
	if f.Tail {
		b.slots[vc].inUse = false
		b.slots[vc].inUseBy = 0
	}
	return nil
}

// ProcessCredit decrements occupancy for every VC named in the credit,
// freeing the buffer slots the downstream side has consumed.
func (b *BufferState) ProcessCredit(c Credit) error {
	for _, vc := range c.VCs {
		if vc < 0 || vc >= len(b.slots) {
			return NewInternalInvariant("credit names out-of-range vc %d", vc)
		}
		if b.slots[vc].occupancy == 0 {
			return NewInternalInvariant("credit for vc %d would make occupancy negative", vc)
		}
		b.slots[vc].occupancy--
	}
	return nil
}

// SetMinLatency records the shortest credit round-trip seen so far. Used
// only for debug sanity checks (spec.md §4.2); never affects behavior.
func (b *BufferState) SetMinLatency(cycles int64) {
	if !b.haveMinLatency || cycles < b.minLatency {
		b.minLatency = cycles
		b.haveMinLatency = true
	}
}

// MinLatency returns the recorded minimum latency and whether one has
// been observed yet.
func (b *BufferState) MinLatency() (int64, bool) {
	return b.minLatency, b.haveMinLatency
}

// OwnerOf returns the pid owning vc, if any.
func (b *BufferState) OwnerOf(vc int) (uint64, bool) {
	s := b.slots[vc]
	return s.inUseBy, s.inUse
}

// Occupancy returns the current occupancy of vc.
func (b *BufferState) Occupancy(vc int) int {
	return b.slots[vc].occupancy
}
