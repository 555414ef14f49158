// Package mpeg4audio holds MPEG-4 Audio (ISO/IEC 14496-3) tables shared by the
// AudioSpecificConfig and ADTS code.
package mpeg4audio

import "fmt"

const (
	// ObjectTypeLC is the AAC Low Complexity audio object type.
	ObjectTypeLC = 2

	// ObjectTypeSBR is the SBR (HE-AAC) extension audio object type.
	ObjectTypeSBR = 5

	// SamplesPerAccessUnit is the number of samples per channel in one AAC-LC frame.
	SamplesPerAccessUnit = 1024

	// MaxAccessUnitSize bounds one raw AAC access unit (6144 bits per channel, two channels).
	MaxAccessUnitSize = 6144 / 8 * 2

	// ExplicitSampleRateIndex signals a 24-bit explicit rate in the bitstream.
	ExplicitSampleRateIndex = 0x0F
)

// sampleRates is Table 1.18 "Sampling Frequency Index".
var sampleRates = [...]int{
	96000, 88200, 64000, 48000, 44100, 32000,
	24000, 22050, 16000, 12000, 11025, 8000, 7350,
}

// SampleRateIndex returns the sampling-frequency index for rate.
func SampleRateIndex(rate int) (int, error) {
	for i, r := range sampleRates {
		if r == rate {
			return i, nil
		}
	}
	return 0, fmt.Errorf("sample rate %d Hz has no MPEG-4 sampling index", rate)
}

// SampleRate returns the rate for a sampling-frequency index.
func SampleRate(index int) (int, error) {
	if index < 0 || index >= len(sampleRates) {
		return 0, fmt.Errorf("sampling index %d is reserved", index)
	}
	return sampleRates[index], nil
}

// ObjectTypeName returns a human readable name for an audio object type.
func ObjectTypeName(aot int) string {
	switch aot {
	case 1:
		return "AAC Main"
	case ObjectTypeLC:
		return "AAC LC"
	case 3:
		return "AAC SSR"
	case 4:
		return "AAC LTP"
	case ObjectTypeSBR:
		return "SBR"
	case 29:
		return "PS"
	default:
		return "reserved"
	}
}
