package aacenc

import (
	"cmp"
	"fmt"
	"slices"
)

// Supported parameter tables, in ascending order.
var (
	validBitrates      = []int{96, 128, 160, 192}
	validChannels      = []int{1, 2}
	validBitsPerSample = []int{16}
	validSampleRates   = []int{RateCD, RateDAT}
)

// Valid reports whether v is exactly a member of set.
func Valid[T cmp.Ordered](set []T, v T) bool {
	return slices.Contains(set, v)
}

// BestMatch returns the first value in the ascending set that is >= v.
// Values above the largest supported value saturate to it. An empty set
// yields the zero value.
func BestMatch[T cmp.Ordered](set []T, v T) T {
	for _, s := range set {
		if s >= v {
			return s
		}
	}

	// Only downgrade if no values are better
	if len(set) == 0 {
		var zero T
		return zero
	}
	return set[len(set)-1]
}

// SupportedBitrates returns the supported bitrates in kbps.
func SupportedBitrates() []int { return slices.Clone(validBitrates) }

// SupportedChannels returns the supported channel counts.
func SupportedChannels() []int { return slices.Clone(validChannels) }

// SupportedBitsPerSample returns the supported PCM sample widths.
func SupportedBitsPerSample() []int { return slices.Clone(validBitsPerSample) }

// SupportedSampleRates returns the supported sample rates in Hz.
func SupportedSampleRates() []int { return slices.Clone(validSampleRates) }

// BitrateValid reports whether kbps is a supported bitrate.
func BitrateValid(kbps int) bool { return Valid(validBitrates, kbps) }

// ChannelsValid reports whether n is a supported channel count.
func ChannelsValid(n int) bool { return Valid(validChannels, n) }

// BitsPerSampleValid reports whether bits is a supported sample width.
func BitsPerSampleValid(bits int) bool { return Valid(validBitsPerSample, bits) }

// SampleRateValid reports whether hz is a supported sample rate.
func SampleRateValid(hz int) bool { return Valid(validSampleRates, hz) }

// BestBitrateMatch snaps kbps to a supported bitrate.
func BestBitrateMatch(kbps int) int { return BestMatch(validBitrates, kbps) }

// BestChannelsMatch snaps n to a supported channel count.
func BestChannelsMatch(n int) int { return BestMatch(validChannels, n) }

// BestBitsPerSampleMatch snaps bits to a supported sample width.
func BestBitsPerSampleMatch(bits int) int { return BestMatch(validBitsPerSample, bits) }

// BestSampleRateMatch snaps hz to a supported sample rate.
func BestSampleRateMatch(hz int) int { return BestMatch(validSampleRates, hz) }

// Params holds the encoding parameters of one session.
type Params struct {
	// Bitrate is the target bitrate in kbps.
	Bitrate int

	// Channels is the number of interleaved PCM channels.
	Channels int

	// SampleRate is the PCM sample rate in Hz.
	SampleRate int

	// BitsPerSample is the PCM sample width.
	BitsPerSample int
}

// DefaultParams returns 128 kbps stereo 16-bit at 48 kHz.
func DefaultParams() Params {
	return Params{
		Bitrate:       defaultBitrate,
		Channels:      stereoChannels,
		SampleRate:    RateDAT,
		BitsPerSample: bitsPerSample16,
	}
}

// Validate checks every parameter against its supported table. The first
// invalid field is reported.
func (p Params) Validate() error {
	if !BitrateValid(p.Bitrate) {
		return fmt.Errorf("%w: invalid bitrate (kbps) %d", ErrInvalidConfig, p.Bitrate)
	}
	if !ChannelsValid(p.Channels) {
		return fmt.Errorf("%w: invalid channel count %d", ErrInvalidConfig, p.Channels)
	}
	if !SampleRateValid(p.SampleRate) {
		return fmt.Errorf("%w: invalid sample rate (hz) %d", ErrInvalidConfig, p.SampleRate)
	}
	if !BitsPerSampleValid(p.BitsPerSample) {
		return fmt.Errorf("%w: invalid bits-per-sample %d", ErrInvalidConfig, p.BitsPerSample)
	}
	return nil
}

// BestMatch returns a copy of p with every field snapped to its nearest
// supported value.
func (p Params) BestMatch() Params {
	return Params{
		Bitrate:       BestBitrateMatch(p.Bitrate),
		Channels:      BestChannelsMatch(p.Channels),
		SampleRate:    BestSampleRateMatch(p.SampleRate),
		BitsPerSample: BestBitsPerSampleMatch(p.BitsPerSample),
	}
}

// BytesPerFrame returns the size of one interleaved PCM frame.
func (p Params) BytesPerFrame() int {
	return p.Channels * (p.BitsPerSample / bitsPerByte)
}

// AvgBytesPerSecond returns the encoded byte rate implied by Bitrate.
func (p Params) AvgBytesPerSecond() int {
	return p.Bitrate * kbpsToBps / bitsPerByte
}
