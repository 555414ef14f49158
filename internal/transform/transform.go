// Package transform defines the push/pull seam between an encoder session and
// the component that actually produces AAC access units.
//
// The model follows a hardware/OS media transform: the caller negotiates input
// and output media types, signals the start of streaming, then alternates
// between pushing samples and pulling output while honouring the transform's
// readiness signals.
package transform

import "errors"

// Flow-control and negotiation errors reported by transforms.
var (
	// ErrNotAccepting is returned by ProcessInput when the transform holds too
	// much pending output. The caller should pull output and retry.
	ErrNotAccepting = errors.New("transform not accepting input")

	// ErrNeedMoreInput is returned by ProcessOutput when no output unit can be
	// produced until more input arrives.
	ErrNeedMoreInput = errors.New("transform needs more input")

	// ErrBufferTooSmall indicates the output sample cannot hold the next unit.
	ErrBufferTooSmall = errors.New("output buffer too small")

	// ErrInvalidMediaType indicates a media type the transform cannot accept.
	ErrInvalidMediaType = errors.New("invalid media type")

	// ErrNotStreaming is returned when samples are pushed before BeginStreaming.
	ErrNotStreaming = errors.New("transform not streaming")
)

// ClockRate is the number of sample-time ticks per second. Sample times are
// the caller's 100 ns presentation timestamps divided by 100.
const ClockRate = 100_000

// FrameTime returns the time of the n-th output frame of frameSize samples
// that starts at base.
func FrameTime(base int64, n int64, frameSize, sampleRate int) int64 {
	if sampleRate <= 0 {
		return base
	}
	return base + n*int64(frameSize)*ClockRate/int64(sampleRate)
}

// MajorType is the broad media category of a MediaType.
type MajorType int

// Major types.
const (
	MajorUnknown MajorType = iota
	MajorAudio
)

// Subtype identifies the encoding within a major type.
type Subtype int

// Audio subtypes.
const (
	SubtypeUnknown Subtype = iota
	SubtypePCM
	SubtypeAAC
)

func (s Subtype) String() string {
	switch s {
	case SubtypePCM:
		return "pcm"
	case SubtypeAAC:
		return "aac"
	default:
		return "unknown"
	}
}

// MediaType describes one side of the transform.
type MediaType struct {
	Major         MajorType
	Subtype       Subtype
	BitsPerSample int
	SampleRate    int
	Channels      int

	// AvgBytesPerSecond is the target encoded byte rate. Only meaningful on
	// compressed output types.
	AvgBytesPerSecond int
}

// Message is a streaming notification sent through ProcessMessage.
type Message int

// Streaming messages.
const (
	MessageBeginStreaming Message = iota
	MessageStartOfStream
	MessageEndOfStream
	MessageDrain
)

func (m Message) String() string {
	switch m {
	case MessageBeginStreaming:
		return "begin-streaming"
	case MessageStartOfStream:
		return "start-of-stream"
	case MessageEndOfStream:
		return "end-of-stream"
	case MessageDrain:
		return "drain"
	default:
		return "unknown"
	}
}

// OutputStatus reports whether ProcessOutput can produce a unit right now.
type OutputStatus int

// Output readiness values.
const (
	OutputNotReady OutputStatus = iota
	OutputSampleReady
)

// OutputStreamInfo describes the buffer the caller must supply to ProcessOutput.
type OutputStreamInfo struct {
	// Size is the minimum buffer size in bytes for one output unit.
	Size int
}

// Transform is the external encoder the session drives.
//
// Implementations are used from a single goroutine at a time.
type Transform interface {
	// SetInputType negotiates the raw input format.
	SetInputType(mt MediaType) error

	// SetOutputType negotiates the encoded output format.
	SetOutputType(mt MediaType) error

	// ProcessMessage delivers a streaming notification.
	ProcessMessage(msg Message) error

	// ProcessInput submits one input sample. It returns ErrNotAccepting when
	// the transform cannot take input until output is drained.
	ProcessInput(s *Sample) error

	// OutputStatus reports output readiness.
	OutputStatus() (OutputStatus, error)

	// OutputStreamInfo reports the required output buffer size.
	OutputStreamInfo() (OutputStreamInfo, error)

	// ProcessOutput fills s with one output unit, setting its time and the
	// buffer's current length. It returns ErrNeedMoreInput when nothing can
	// be produced.
	ProcessOutput(s *Sample) error

	// Close releases the transform.
	Close() error
}

// Factory creates a transform instance.
type Factory func() (Transform, error)
