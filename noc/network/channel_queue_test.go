package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelQueue_PopReady_WithholdsUntilReadyCycle(t *testing.T) {
	q := NewChannelQueue[int]()
	q.Schedule(42, 5)

	_, ok := q.PopReady(4)
	assert.False(t, ok)

	v, ok := q.PopReady(5)
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestChannelQueue_PopReady_OrdersByReadyAtThenSequence(t *testing.T) {
	q := NewChannelQueue[string]()
	q.Schedule("second", 3)
	q.Schedule("first", 1)
	q.Schedule("third-tied-a", 3)

	v, ok := q.PopReady(3)
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	v, ok = q.PopReady(3)
	assert.True(t, ok)
	assert.Equal(t, "second", v)

	v, ok = q.PopReady(3)
	assert.True(t, ok)
	assert.Equal(t, "third-tied-a", v)

	_, ok = q.PopReady(3)
	assert.False(t, ok)
}

func TestChannelQueue_Peek_DoesNotRemove(t *testing.T) {
	q := NewChannelQueue[int]()
	q.Schedule(7, 0)

	v, ok := q.Peek()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, q.Len())
}
