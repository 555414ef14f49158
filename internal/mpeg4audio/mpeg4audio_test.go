package mpeg4audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleRateIndex(t *testing.T) {
	tests := []struct {
		rate  int
		index int
	}{
		{96000, 0},
		{48000, 3},
		{44100, 4},
		{32000, 5},
		{8000, 11},
		{7350, 12},
	}
	for _, tt := range tests {
		idx, err := SampleRateIndex(tt.rate)
		require.NoError(t, err)
		assert.Equal(t, tt.index, idx, "rate %d", tt.rate)

		rate, err := SampleRate(idx)
		require.NoError(t, err)
		assert.Equal(t, tt.rate, rate)
	}
}

func TestSampleRateIndex_Unknown(t *testing.T) {
	_, err := SampleRateIndex(44000)
	require.Error(t, err)

	_, err = SampleRate(13)
	require.Error(t, err)
	_, err = SampleRate(-1)
	require.Error(t, err)
}

func TestObjectTypeName(t *testing.T) {
	assert.Equal(t, "AAC LC", ObjectTypeName(ObjectTypeLC))
	assert.Equal(t, "SBR", ObjectTypeName(ObjectTypeSBR))
	assert.Equal(t, "reserved", ObjectTypeName(0))
}
