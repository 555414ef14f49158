package resample

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-aac-encoder/internal/testutil"
)

func resampleAll(t *testing.T, r *Resampler, in []int16, chunk int) []int16 {
	t.Helper()
	var out []int16
	step := chunk * r.Channels()
	for off := 0; off < len(in); off += step {
		end := min(off+step, len(in))
		out = append(out, r.Process(in[off:end])...)
	}
	return append(out, r.Flush()...)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(0, 48000, 2, QualityMedium)
	require.ErrorIs(t, err, ErrInvalidRate)
	_, err = New(44100, -1, 2, QualityMedium)
	require.ErrorIs(t, err, ErrInvalidRate)
	_, err = New(44100, 48000, 0, QualityMedium)
	require.ErrorIs(t, err, ErrInvalidChannels)
	_, err = New(44100, 48000, 2, Quality(42))
	require.ErrorIs(t, err, ErrInvalidQuality)
	_, err = New(44101, 48000, 2, QualityMedium)
	require.ErrorIs(t, err, ErrRatioTooComplex)
}

func TestPassthrough(t *testing.T) {
	r, err := New(48000, 48000, 2, QualityHigh)
	require.NoError(t, err)

	in := testutil.SineInt16(440, 48000, 2, 1000)
	out := r.Process(in)
	assert.Equal(t, in, out)
	assert.Nil(t, r.Flush())

	// the output must not alias the input
	out[0]++
	assert.NotEqual(t, in[0], out[0])
}

func TestOutputLength(t *testing.T) {
	tests := []struct {
		in, out int
	}{
		{44100, 48000},
		{48000, 44100},
		{96000, 48000},
		{22050, 44100},
		{32000, 48000},
		{88200, 44100},
	}
	const frames = 10000
	for _, tt := range tests {
		for _, q := range []Quality{QualityLow, QualityMedium, QualityHigh} {
			r, err := New(tt.in, tt.out, 2, q)
			require.NoError(t, err)

			out := resampleAll(t, r, testutil.SineInt16(1000, tt.in, 2, frames), 777)
			want := (frames*tt.out + tt.in - 1) / tt.in
			assert.Equal(t, want*2, len(out), "%d -> %d (%s)", tt.in, tt.out, q)
		}
	}
}

func TestChunkingInvariance(t *testing.T) {
	in := testutil.SineInt16(997, 44100, 2, 8192)

	whole, err := New(44100, 48000, 2, QualityMedium)
	require.NoError(t, err)
	chunked, err := New(44100, 48000, 2, QualityMedium)
	require.NoError(t, err)

	a := resampleAll(t, whole, in, len(in))
	b := resampleAll(t, chunked, in, 13)
	assert.Equal(t, a, b)
}

func TestDCPreserved(t *testing.T) {
	const level = 8000
	for _, rates := range [][2]int{{44100, 48000}, {48000, 44100}, {96000, 48000}} {
		r, err := New(rates[0], rates[1], 1, QualityMedium)
		require.NoError(t, err)

		out := resampleAll(t, r, testutil.ConstantInt16(level, 1, 20000), 1024)
		// skip the filter edges at both ends
		edge := 200
		require.Greater(t, len(out), 2*edge)
		testutil.AssertAllNear(t, out[edge:len(out)-edge], level, testutil.SampleTolerance)
	}
}

func TestTonePreserved(t *testing.T) {
	const (
		inRate  = 44100
		outRate = 48000
		n       = 8192
		bin     = 171
	)
	// lands exactly on an FFT bin at the output rate
	const freq = float64(bin) * outRate / n

	r, err := New(inRate, outRate, 1, QualityHigh)
	require.NoError(t, err)

	out := resampleAll(t, r, testutil.SineInt16(freq, inRate, 1, 3*n), 4096)
	require.GreaterOrEqual(t, len(out), 2*n)

	seq := make([]float64, n)
	for i := range seq {
		seq[i] = float64(out[n/2+i])
	}
	coeffs := fourier.NewFFT(n).Coefficients(nil, seq)

	peak, peakIdx := 0.0, 0
	for i := 1; i < len(coeffs); i++ {
		if m := cmplx.Abs(coeffs[i]); m > peak {
			peak, peakIdx = m, i
		}
	}
	binHz := float64(outRate) / n
	assert.InDelta(t, freq, float64(peakIdx)*binHz, binHz)

	// amplitude of a full-length sine is n/2 times its peak
	amp := 2 * peak / n
	testutil.AssertRelativeError(t, 0.5*math.MaxInt16, amp, 0.05)
}

func TestReset(t *testing.T) {
	r, err := New(48000, 44100, 2, QualityLow)
	require.NoError(t, err)

	in := testutil.SineInt16(300, 48000, 2, 4000)
	first := resampleAll(t, r, in, 500)
	assert.Empty(t, r.Process(in))

	r.Reset()
	second := resampleAll(t, r, in, 500)
	assert.Equal(t, first, second)
}

func TestKaiserWindowSymmetric(t *testing.T) {
	w := kaiserWindow(65, kaiserBeta(80))
	testutil.AssertSymmetric(t, w, 1e-12)
	assert.InDelta(t, 1.0, w[32], 1e-12)
	assert.Less(t, w[0], w[16])
}

func TestBesselI0(t *testing.T) {
	assert.InDelta(t, 1.0, besselI0(0), 1e-7)
	assert.InDelta(t, 2.2795853, besselI0(2), 1e-6)
	testutil.AssertRelativeError(t, 2815.716628, besselI0(10), 1e-6)
}

func TestQualityString(t *testing.T) {
	assert.Equal(t, "medium", QualityMedium.String())
	assert.Equal(t, "quality(9)", Quality(9).String())
}

func TestPhasesUnityGain(t *testing.T) {
	r, err := New(44100, 48000, 1, QualityMedium)
	require.NoError(t, err)
	require.Len(t, r.phases, 160)

	for p, coeffs := range r.phases {
		assert.InDelta(t, 1.0, floats.Sum(coeffs), 1e-3, "phase %d", p)
	}
}

func TestLowPassGain(t *testing.T) {
	h := lowPass(101, 0.2, 80, 3)
	assert.InDelta(t, 3.0, floats.Sum(h), 1e-9)
	assert.Equal(t, 50, floats.MaxIdx(h))
}
