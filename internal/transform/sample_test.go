package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBuffer_SetCurrentLength(t *testing.T) {
	b := NewMemoryBuffer(8)
	assert.Equal(t, 8, b.MaxLength())
	assert.Equal(t, 0, b.CurrentLength())

	require.NoError(t, b.SetCurrentLength(5))
	assert.Len(t, b.Bytes(), 5)

	require.Error(t, b.SetCurrentLength(9))
	require.Error(t, b.SetCurrentLength(-1))
	assert.Equal(t, 5, b.CurrentLength(), "failed set must not change length")
}

func TestSample_EnsureCapacityGrowsNeverShrinks(t *testing.T) {
	s := &Sample{}

	assert.True(t, s.EnsureCapacity(100), "nil buffer must allocate")
	first := s.Buffer()
	assert.Equal(t, 100, first.MaxLength())

	require.NoError(t, first.SetCurrentLength(60))
	assert.False(t, s.EnsureCapacity(50), "smaller request must reuse")
	assert.Same(t, first, s.Buffer())
	assert.Equal(t, 0, s.Buffer().CurrentLength(), "reuse resets current length")
	assert.Equal(t, 100, s.Buffer().MaxLength())

	assert.True(t, s.EnsureCapacity(200))
	assert.Equal(t, 200, s.Buffer().MaxLength())
}

func TestMessageAndSubtypeStrings(t *testing.T) {
	assert.Equal(t, "drain", MessageDrain.String())
	assert.Equal(t, "begin-streaming", MessageBeginStreaming.String())
	assert.Equal(t, "aac", SubtypeAAC.String())
	assert.Equal(t, "pcm", SubtypePCM.String())
	assert.Equal(t, "unknown", Subtype(99).String())
}
