package aacenc

// Common sample rates.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000
)

// FrameSize is the number of samples per channel in one AAC-LC access unit.
const FrameSize = 1024

// ExtraDataSize is the length of the AudioSpecificConfig blob.
const ExtraDataSize = 5

// Channel and sample format constants
const (
	monoChannels    = 1
	stereoChannels  = 2
	bitsPerSample16 = 16
	bitsPerByte     = 8

	// maxChannelConfig is the largest channel configuration an
	// AudioSpecificConfig can signal without a program config element.
	maxChannelConfig = 7
)

// Bitrate constants
const (
	defaultBitrate = 128  // kbps
	kbpsToBps      = 1000 // kbps to bits per second
)

// Timestamp conversion between caller PTS and transform sample time.
const (
	// ptsScale divides caller PTS into transform sample time and multiplies it back.
	ptsScale = 100

	// durationScale is the multiplier of the per-chunk duration formula.
	durationScale = 10000

	// ticksPerSecond is the caller PTS clock (100 ns units).
	ticksPerSecond = 10_000_000
)

// AudioSpecificConfig bit positions
const (
	profileShift     = 11
	sampleIndexShift = 7
	channelsShift    = 3
	extensionShift   = 5

	// extensionSyncID is the 11-bit sync extension type marker written after
	// the core config.
	extensionSyncID = 0x2B7
)

const defaultEncoderName = "aac"
