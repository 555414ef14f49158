package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueue_FIFOAcrossGrowth(t *testing.T) {
	q := newRingQueue[int](2)

	q.Push(1)
	q.Push(2)
	v, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// wrap the write position, then force growth while wrapped
	for i := 3; i <= 10; i++ {
		q.Push(i)
	}
	assert.Equal(t, 9, q.Len())

	for want := 2; want <= 10; want++ {
		head, ok := q.Peek()
		require.True(t, ok)
		assert.Equal(t, want, head)
		v, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, v)
	}

	_, ok = q.Pop()
	assert.False(t, ok)
	_, ok = q.Peek()
	assert.False(t, ok)
}

func TestRingQueue_Clear(t *testing.T) {
	q := newRingQueue[string](0)
	q.Push("a")
	q.Push("b")
	q.Clear()
	assert.Zero(t, q.Len())

	q.Push("c")
	v, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "c", v)
}
