package noc

// ReplyInfo is the record pushed into RepliesPending when a request
// packet's tail retires at its destination (spec.md §4.6 item 5). It
// carries enough of the original packet's header for a reply generator to
// turn it into a reply packet addressed back to the requester.
type ReplyInfo struct {
	PID   uint64
	Src   int // original requester, and the reply's destination
	Dst   int // request's destination, and the reply's source
	Class int
	Type  PacketType // the request type this reply answers
}

// ReplyGenerator consumes a completed request's ReplyInfo and optionally
// admits a reply packet. Not part of the core's scope (spec.md §4.6 item
// 5: "consumed by an optional reply generator not in scope here") — the
// core appends each record to RepliesPending and hands it to whatever
// ReplyGenerator the host configured; it never drains RepliesPending.
type ReplyGenerator interface {
	OnRequestCompleted(tm *TrafficManager, info ReplyInfo, ctime int64) error
}

// NullReplyGenerator drops every completed request without generating a
// reply. The default when the host has no reply protocol.
type NullReplyGenerator struct{}

func (NullReplyGenerator) OnRequestCompleted(*TrafficManager, ReplyInfo, int64) error { return nil }

// replyType maps a request type to its matching reply type.
func replyType(t PacketType) PacketType {
	switch t {
	case ReadRequest:
		return ReadReply
	case WriteRequest:
		return WriteReply
	default:
		return AnyType
	}
}

// EchoReplyGenerator immediately admits a reply packet of ReplySize flits
// from the request's destination back to its original source, on the
// subnet configured for the reply type. Grounded on
// original_source/zsim/src/booksim_net_ctrl.cpp, which performs this same
// request/reply turnaround at the zsim/booksim boundary.
type EchoReplyGenerator struct {
	ReplySize func(reqType PacketType) int
}

func (g EchoReplyGenerator) OnRequestCompleted(tm *TrafficManager, info ReplyInfo, ctime int64) error {
	size := g.ReplySize(info.Type)
	if size <= 0 {
		return nil
	}
	_, err := tm.admitTyped(info.Dst, info.Src, size, ctime, 0, replyType(info.Type), info.Class)
	return err
}
