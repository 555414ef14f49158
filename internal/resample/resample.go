// Package resample converts interleaved 16-bit PCM between sample rates using
// a rational polyphase filter built from a Kaiser-windowed sinc.
//
// The resampler is streaming: Process may be called with arbitrarily sized
// blocks and Flush emits the filter tail. Output is delay compensated so the
// total number of frames is ceil(in * outRate / inRate).
package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
)

// Quality selects the filter length and stopband attenuation.
type Quality int

// Quality presets.
const (
	QualityLow Quality = iota
	QualityMedium
	QualityHigh
)

func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return fmt.Sprintf("quality(%d)", int(q))
	}
}

type qualitySpec struct {
	tapsPerPhase int
	attenuation  float64
	rolloff      float64
}

var qualitySpecs = map[Quality]qualitySpec{
	QualityLow:    {tapsPerPhase: 16, attenuation: 60, rolloff: 0.85},
	QualityMedium: {tapsPerPhase: 32, attenuation: 80, rolloff: 0.91},
	QualityHigh:   {tapsPerPhase: 64, attenuation: 100, rolloff: 0.95},
}

// maxUpFactor bounds the number of filter phases.
const maxUpFactor = 1024

// Errors returned by New.
var (
	ErrInvalidRate     = errors.New("resample: sample rate must be positive")
	ErrInvalidChannels = errors.New("resample: channel count must be positive")
	ErrRatioTooComplex = errors.New("resample: rate ratio needs too many filter phases")
	ErrInvalidQuality  = errors.New("resample: unknown quality preset")
)

// Resampler converts one interleaved stream. It is not safe for concurrent use.
type Resampler struct {
	inRate, outRate int
	channels        int
	passthrough     bool

	up, down int64
	taps     int64
	delay    int64
	phases   [][]float64

	hist    [][]float64
	start   int64
	next    int64
	inTotal int64
	flushed bool
}

// New creates a resampler from inRate to outRate for the given channel count.
func New(inRate, outRate, channels int, q Quality) (*Resampler, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidRate, inRate, outRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	spec, ok := qualitySpecs[q]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuality, int(q))
	}

	r := &Resampler{inRate: inRate, outRate: outRate, channels: channels}
	if inRate == outRate {
		r.passthrough = true
		return r, nil
	}

	g := gcd(inRate, outRate)
	r.up = int64(outRate / g)
	r.down = int64(inRate / g)
	if r.up > maxUpFactor {
		return nil, fmt.Errorf("%w: %d/%d", ErrRatioTooComplex, r.up, r.down)
	}
	r.taps = int64(spec.tapsPerPhase)

	numTaps := int(r.taps * r.up)
	cutoff := spec.rolloff * 0.5 / float64(max(r.up, r.down))
	proto := lowPass(numTaps, cutoff, spec.attenuation, float64(r.up))
	r.delay = int64(numTaps / 2)

	// Each phase is stored reversed so the newest input sample lines up with
	// the last coefficient of the dot product.
	r.phases = make([][]float64, r.up)
	for p := range r.phases {
		coeffs := make([]float64, r.taps)
		for j := range coeffs {
			coeffs[j] = proto[int64(p)+(r.taps-1-int64(j))*r.up]
		}
		r.phases[p] = coeffs
	}

	r.Reset()
	return r, nil
}

// InRate returns the input sample rate.
func (r *Resampler) InRate() int { return r.inRate }

// OutRate returns the output sample rate.
func (r *Resampler) OutRate() int { return r.outRate }

// Channels returns the interleaved channel count.
func (r *Resampler) Channels() int { return r.channels }

// Reset clears filter history so the resampler can start a new stream.
func (r *Resampler) Reset() {
	r.start, r.next, r.inTotal = 0, 0, 0
	r.flushed = false
	if r.passthrough {
		return
	}
	r.hist = make([][]float64, r.channels)
	for ch := range r.hist {
		r.hist[ch] = make([]float64, r.taps-1, 4*r.taps)
	}
}

// Process consumes interleaved samples and returns the output frames that
// are ready. A trailing partial frame is ignored.
func (r *Resampler) Process(in []int16) []int16 {
	frames := len(in) / r.channels
	if r.passthrough {
		out := make([]int16, frames*r.channels)
		copy(out, in)
		return out
	}
	if r.flushed {
		return nil
	}

	for ch := range r.channels {
		h := r.hist[ch]
		for i := range frames {
			h = append(h, float64(in[i*r.channels+ch]))
		}
		r.hist[ch] = h
	}
	r.inTotal += int64(frames)
	return r.emit(math.MaxInt64)
}

// Flush pads the input with silence and returns the remaining output.
// Further calls to Process return nothing until Reset.
func (r *Resampler) Flush() []int16 {
	if r.passthrough || r.flushed {
		return nil
	}
	r.flushed = true

	pad := int(r.delay/r.up + r.taps + 1)
	for ch := range r.channels {
		r.hist[ch] = append(r.hist[ch], make([]float64, pad)...)
	}
	want := (r.inTotal*r.up + r.down - 1) / r.down
	return r.emit(want)
}

// emit produces outputs until history runs out or limit frames have been
// produced in total.
func (r *Resampler) emit(limit int64) []int16 {
	end := r.start + int64(len(r.hist[0]))
	var out []int16
	for r.next < limit {
		t := r.next*r.down + r.delay
		base := t / r.up
		if base+r.taps > end {
			break
		}
		coeffs := r.phases[t%r.up]
		off := base - r.start
		for ch := range r.channels {
			v := f64.DotProductUnsafe(coeffs, r.hist[ch][off:off+r.taps])
			out = append(out, toInt16(v))
		}
		r.next++
	}

	if keep := min((r.next*r.down+r.delay)/r.up, end); keep > r.start {
		drop := keep - r.start
		for ch := range r.channels {
			h := r.hist[ch]
			r.hist[ch] = append(h[:0], h[drop:]...)
		}
		r.start = keep
	}
	return out
}

func toInt16(v float64) int16 {
	v = math.Round(v)
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	default:
		return int16(v)
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
