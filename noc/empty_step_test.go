package noc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyStepDriver_FiresCallbackWhenCountdownReachesZero(t *testing.T) {
	reg := NewCallbackRegistry()
	var gotPID uint64
	var gotSource uint
	reg.Register(1, func(source uint, pid uint64, status uint64) {
		gotSource, gotPID = source, pid
	}, nil)

	d := NewEmptyStepDriver(reg)
	d.Admit(42, 1, 3)

	d.Step()
	d.Step()
	assert.Equal(t, 1, d.OutstandingCount())
	d.Step()

	assert.Equal(t, 0, d.OutstandingCount())
	assert.Equal(t, uint64(42), gotPID)
	assert.Equal(t, uint(0), gotSource)
}

func TestEmptyStepDriver_CurrentCycle_AdvancesPerStep(t *testing.T) {
	d := NewEmptyStepDriver(NewCallbackRegistry())
	d.Step()
	d.Step()
	d.Step()
	assert.Equal(t, int64(3), d.CurrentCycle())
}

func TestEmptyStepDriver_TracksMultipleIndependentCountdowns(t *testing.T) {
	d := NewEmptyStepDriver(NewCallbackRegistry())
	d.Admit(1, 0, 1)
	d.Admit(2, 0, 5)

	d.Step()
	assert.Equal(t, 1, d.OutstandingCount())
}
