package noc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbackRegistry_FireReadDone_InvokesRegisteredCallback(t *testing.T) {
	r := NewCallbackRegistry()
	var gotSource uint
	var gotPID uint64
	var gotStatus uint64
	r.Register(1, func(source uint, pid uint64, status uint64) {
		gotSource, gotPID, gotStatus = source, pid, status
	}, nil)

	r.FireReadDone(1, 4, 99, 1)

	assert.Equal(t, uint(4), gotSource)
	assert.Equal(t, uint64(99), gotPID)
	assert.Equal(t, uint64(1), gotStatus)
}

func TestCallbackRegistry_FireReadDone_SilentOnUnknownHandle(t *testing.T) {
	r := NewCallbackRegistry()
	assert.NotPanics(t, func() { r.FireReadDone(404, 0, 0, 1) })
}
