package noc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetireFlit_RejectsDoubleRetirement(t *testing.T) {
	tm, _ := newTestTM(t, 4)
	f := &Flit{ID: 1, PID: 1, Head: true, Tail: true, Src: 0, Dst: 0, Class: 0}
	tm.inFlight[0][f.ID] = f

	require.NoError(t, tm.retireFlit(f, 0))
	err := tm.retireFlit(f, 0)
	assert.Error(t, err)
	var e *Error
	assert.ErrorAs(t, err, &e)
	assert.Equal(t, InternalInvariant, e.Kind)
}

func TestRetireFlit_HeadEjectedAtWrongNodeIsRoutingViolation(t *testing.T) {
	tm, _ := newTestTM(t, 4)
	f := &Flit{ID: 1, PID: 1, Head: true, Tail: false, Src: 0, Dst: 3, Class: 0}
	tm.inFlight[0][f.ID] = f

	err := tm.retireFlit(f, 7)
	assert.Error(t, err)
	var e *Error
	assert.ErrorAs(t, err, &e)
	assert.Equal(t, RoutingViolation, e.Kind)
}

func TestRetireFlit_MultiFlitPacket_RetainsHeadUntilTail(t *testing.T) {
	tm, _ := newTestTM(t, 4)
	head := &Flit{ID: 1, PID: 5, Head: true, Tail: false, Src: 0, Dst: 3, Class: 0, CTime: 0, ITime: 0, ATime: 2}
	body := &Flit{ID: 2, PID: 5, Head: false, Tail: false, Src: 0, Dst: 3, Class: 0}
	tail := &Flit{ID: 3, PID: 5, Head: false, Tail: true, Src: 0, Dst: 3, Class: 0, ATime: 5, CTime: 0, ITime: 0}
	tm.inFlight[0][head.ID] = head
	tm.inFlight[0][body.ID] = body
	tm.inFlight[0][tail.ID] = tail

	require.NoError(t, tm.retireFlit(head, 3))
	_, held := tm.retiredHeads[0][head.PID]
	assert.True(t, held)

	require.NoError(t, tm.retireFlit(body, 3))

	err := tm.retireFlit(tail, 3)
	require.NoError(t, err)
	_, stillHeld := tm.retiredHeads[0][head.PID]
	assert.False(t, stillHeld)
}

func TestRetireFlit_TailWithNoRetainedHeadIsInternalInvariant(t *testing.T) {
	tm, _ := newTestTM(t, 4)
	tail := &Flit{ID: 9, PID: 99, Head: false, Tail: true, Src: 0, Dst: 0, Class: 0}
	tm.inFlight[0][tail.ID] = tail

	err := tm.retireFlit(tail, 0)
	assert.Error(t, err)
	var e *Error
	assert.ErrorAs(t, err, &e)
	assert.Equal(t, InternalInvariant, e.Kind)
}

func TestRetireFlit_RequestCompletion_PushesReplyInfoAndDecrementsOutstandingOnReply(t *testing.T) {
	tm, _ := newTestTM(t, 4)
	tm.requestsOutstanding[5] = 1

	req := &Flit{ID: 1, PID: 1, Head: true, Tail: true, Src: 5, Dst: 9, Class: 0, Type: ReadRequest}
	tm.inFlight[0][req.ID] = req
	require.NoError(t, tm.retireFlit(req, 9))

	pending := tm.RepliesPending(9)
	require.Len(t, pending, 1)
	assert.Equal(t, ReadRequest, pending[0].Type)
	assert.Equal(t, 5, pending[0].Src)
	assert.Equal(t, 9, pending[0].Dst)

	rep := &Flit{ID: 2, PID: 2, Head: true, Tail: true, Src: 9, Dst: 5, Class: 0, Type: ReadReply}
	tm.inFlight[0][rep.ID] = rep
	require.NoError(t, tm.retireFlit(rep, 5))

	assert.Equal(t, 0, tm.RequestsOutstanding(5))
}
