package noc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferState_TakeBuffer_RejectsDoubleOwnership(t *testing.T) {
	bs := NewBufferState(4, 8)
	assert.NoError(t, bs.TakeBuffer(0, 42))
	err := bs.TakeBuffer(0, 43)
	assert.Error(t, err)
	var e *Error
	assert.ErrorAs(t, err, &e)
	assert.Equal(t, InternalInvariant, e.Kind)
}

func TestBufferState_SendingFlit_ReleasesOwnershipOnTail(t *testing.T) {
	bs := NewBufferState(4, 8)
	require := assert.New(t)
	require.NoError(bs.TakeBuffer(0, 1))

	require.NoError(bs.SendingFlit(&Flit{ID: 0, VC: 0, Tail: false}))
	require.False(bs.IsAvailableFor(0))

	require.NoError(bs.SendingFlit(&Flit{ID: 1, VC: 0, Tail: true}))
	require.True(bs.IsAvailableFor(0))
	require.Equal(2, bs.Occupancy(0))
}

func TestBufferState_IsFullFor_RespectsCapacity(t *testing.T) {
	bs := NewBufferState(1, 2)
	require := assert.New(t)
	require.NoError(bs.TakeBuffer(0, 1))
	require.NoError(bs.SendingFlit(&Flit{ID: 0, VC: 0}))
	require.False(bs.IsFullFor(0))
	require.NoError(bs.SendingFlit(&Flit{ID: 1, VC: 0}))
	require.True(bs.IsFullFor(0))
}

func TestBufferState_ProcessCredit_DecrementsOccupancy(t *testing.T) {
	bs := NewBufferState(2, 4)
	require := assert.New(t)
	require.NoError(bs.TakeBuffer(0, 1))
	require.NoError(bs.SendingFlit(&Flit{ID: 0, VC: 0}))
	require.Equal(1, bs.Occupancy(0))

	require.NoError(bs.ProcessCredit(NewCredit(0)))
	require.Equal(0, bs.Occupancy(0))
}

func TestBufferState_ProcessCredit_RejectsNegativeOccupancy(t *testing.T) {
	bs := NewBufferState(1, 4)
	err := bs.ProcessCredit(NewCredit(0))
	assert.Error(t, err)
}

func TestBufferState_SetMinLatency_KeepsSmallest(t *testing.T) {
	bs := NewBufferState(1, 4)
	bs.SetMinLatency(10)
	bs.SetMinLatency(4)
	bs.SetMinLatency(7)
	got, ok := bs.MinLatency()
	assert.True(t, ok)
	assert.Equal(t, int64(4), got)
}
