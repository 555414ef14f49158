// Package testutil provides reusable test helpers for PCM generation and
// encoder assertions.
package testutil

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// SampleTolerance is the default allowed deviation in int16 LSBs.
const SampleTolerance = 2

// sineAmplitude keeps generated tones 6 dB below full scale.
const sineAmplitude = 0.5 * math.MaxInt16

// SinePCM16 returns frames of interleaved little-endian int16 PCM holding the
// same sine tone on every channel.
func SinePCM16(freq float64, sampleRate, channels, frames int) []byte {
	out := make([]byte, frames*channels*2)
	for i := range frames {
		v := int16(math.Round(sineAmplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))))
		for ch := range channels {
			off := (i*channels + ch) * 2
			binary.LittleEndian.PutUint16(out[off:], uint16(v))
		}
	}
	return out
}

// SineInt16 is SinePCM16 returning samples instead of bytes.
func SineInt16(freq float64, sampleRate, channels, frames int) []int16 {
	return Int16s(SinePCM16(freq, sampleRate, channels, frames))
}

// ConstantInt16 returns frames*channels samples of value v.
func ConstantInt16(v int16, channels, frames int) []int16 {
	out := make([]int16, frames*channels)
	for i := range out {
		out[i] = v
	}
	return out
}

// Int16s decodes little-endian int16 PCM.
func Int16s(pcm []byte) []int16 {
	out := make([]int16, len(pcm)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(pcm[2*i:]))
	}
	return out
}

// AssertAllNear verifies every sample in s is within tolerance of want.
func AssertAllNear(t *testing.T, s []int16, want int16, tolerance int, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if d := int(v) - int(want); d > tolerance || d < -tolerance {
			return assert.Fail(t, "sample out of tolerance",
				"s[%d]=%d, want %d±%d", i, v, want, tolerance)
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertSymmetric verifies that a slice is symmetric (s[i] == s[n-1-i]).
func AssertSymmetric(t *testing.T, s []float64, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	n := len(s)
	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		if !assert.InDelta(t, s[i], s[j], tolerance,
			"slice not symmetric at i=%d: s[%d]=%f != s[%d]=%f", i, i, s[i], j, s[j]) {
			return false
		}
	}
	return true
}
