package aacenc

import "github.com/tphakala/go-aac-encoder/internal/transform"

// Transform is the external encoder driven by a session. Implementations may
// wrap a platform codec, a software encoder library or a child process.
type Transform = transform.Transform

// TransformFactory creates one Transform per session.
type TransformFactory = transform.Factory

// MediaType describes one side of a Transform.
type MediaType = transform.MediaType

// Sample is a timestamped unit passed to and from a Transform.
type Sample = transform.Sample

// OutputStreamInfo describes the output buffer a Transform requires.
type OutputStreamInfo = transform.OutputStreamInfo

// Transform flow-control errors.
var (
	ErrNotAccepting  = transform.ErrNotAccepting
	ErrNeedMoreInput = transform.ErrNeedMoreInput
)

// inputMediaType returns the raw PCM type negotiated for p.
func inputMediaType(p Params) MediaType {
	return MediaType{
		Major:         transform.MajorAudio,
		Subtype:       transform.SubtypePCM,
		BitsPerSample: p.BitsPerSample,
		SampleRate:    p.SampleRate,
		Channels:      p.Channels,
	}
}

// outputMediaType returns the AAC type negotiated for p.
func outputMediaType(p Params) MediaType {
	return MediaType{
		Major:             transform.MajorAudio,
		Subtype:           transform.SubtypeAAC,
		BitsPerSample:     p.BitsPerSample,
		SampleRate:        p.SampleRate,
		Channels:          p.Channels,
		AvgBytesPerSecond: p.AvgBytesPerSecond(),
	}
}
