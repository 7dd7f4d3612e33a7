package noc

// Handle is the opaque host tag identifying a caller's completion
// callbacks. The core stores it on each pid and passes it back to
// CallbackRegistry on retirement; it never dereferences it (spec.md §3,
// Ownership; §9 design note: "represent the opaque handle as an integer
// tag").
type Handle int64

// CompletionCallback matches the host callback signature in spec.md §6:
// status 1 means success.
type CompletionCallback func(sourceID uint, packetID uint64, status uint64)

// callbackPair holds the two callbacks registered for one handle. Write
// completions are never fired separately in the source this was modeled
// on (spec.md §9 Open Question) — WriteDone is still stored, for API
// completeness, but RegisterCallback is the only path that can set it,
// and the core never calls it.
type callbackPair struct {
	ReadDone  CompletionCallback
	WriteDone CompletionCallback
}

// CallbackRegistry maps opaque handles to their registered callbacks.
type CallbackRegistry struct {
	callbacks map[Handle]callbackPair
}

// NewCallbackRegistry creates an empty registry.
func NewCallbackRegistry() *CallbackRegistry {
	return &CallbackRegistry{callbacks: make(map[Handle]callbackPair)}
}

// Register records the read/write-done callbacks for handle, replacing
// any previously registered pair (spec.md §4.1 register_callback).
func (r *CallbackRegistry) Register(handle Handle, readDone, writeDone CompletionCallback) {
	r.callbacks[handle] = callbackPair{ReadDone: readDone, WriteDone: writeDone}
}

// FireReadDone invokes the ReadDone callback registered for handle, if
// any. The core calls this on tail ejection for every completed packet —
// write completions reuse this same path (spec.md §4.1, §9).
func (r *CallbackRegistry) FireReadDone(handle Handle, sourceID uint, pid uint64, status uint64) {
	if cb, ok := r.callbacks[handle]; ok && cb.ReadDone != nil {
		cb.ReadDone(sourceID, pid, status)
	}
}
