package aacenc

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tphakala/go-aac-encoder/internal/ffmpeg"
)

// FFmpegConfig configures the ffmpeg-backed transform.
type FFmpegConfig struct {
	// Path is the ffmpeg executable. Empty means "ffmpeg" on PATH.
	Path string

	// MaxPending is the encoded-frame backlog at which input is refused.
	MaxPending int

	// Logger receives process lifecycle events. Nil discards them.
	Logger *zap.Logger
}

// NewFFmpegTransformFactory returns a factory producing transforms that
// encode through an ffmpeg child process. The executable is looked up when
// the factory is called, so a missing ffmpeg fails Initialize.
func NewFFmpegTransformFactory(cfg FFmpegConfig) TransformFactory {
	return ffmpeg.Factory(ffmpeg.Config{
		Path:       cfg.Path,
		MaxPending: cfg.MaxPending,
		Logger:     cfg.Logger,
	})
}

// PTSForFrames returns the presentation timestamp, in 100 ns ticks, of the
// PCM frame at the given index.
func PTSForFrames(frames int64, sampleRate int) uint64 {
	if frames <= 0 || sampleRate <= 0 {
		return 0
	}
	return uint64(frames) * ticksPerSecond / uint64(sampleRate)
}

// Encode pushes pcm through an initialized session in chunks of chunkFrames
// frames, drains it, and hands every packet to sink in order. Packet data is
// only valid for the duration of the sink call. A trailing partial frame is
// dropped.
func Encode(enc *Encoder, pcm []byte, chunkFrames int, sink func(Packet) error) error {
	if chunkFrames <= 0 {
		chunkFrames = FrameSize
	}
	bpf := enc.params.BytesPerFrame()
	step := chunkFrames * bpf

	var frames int64
	for off := 0; off+bpf <= len(pcm); {
		end := off + (min(step, len(pcm)-off)/bpf)*bpf
		chunk := pcm[off:end]

		status, err := enc.ProcessInput(chunk, PTSForFrames(frames, enc.params.SampleRate))
		if err != nil {
			return err
		}
		pulled, err := pull(enc, sink)
		if err != nil {
			return err
		}
		if status == StatusNotAccepting {
			if pulled == 0 {
				return fmt.Errorf("%w at frame %d", ErrStalled, frames)
			}
			continue
		}
		off = end
		frames += int64(len(chunk) / bpf)
	}

	if err := enc.Drain(); err != nil {
		return err
	}
	_, err := pull(enc, sink)
	return err
}

// pull collects packets until the session needs more input.
func pull(enc *Encoder, sink func(Packet) error) (int, error) {
	var n int
	for {
		pkt, status, err := enc.ProcessOutput()
		if err != nil {
			return n, err
		}
		if status != StatusSuccess {
			return n, nil
		}
		if err := sink(pkt); err != nil {
			return n, err
		}
		n++
	}
}

// EncodePCM is a one-shot helper: it creates a session for params, encodes
// all of pcm and returns the packets together with the AudioSpecificConfig.
// Packet data is copied and owned by the caller.
func EncodePCM(params Params, pcm []byte, opts ...Option) ([]Packet, []byte, error) {
	enc := NewEncoder(params, opts...)
	defer func() { _ = enc.Close() }()

	if err := enc.Initialize(); err != nil {
		return nil, nil, err
	}
	extra := append([]byte(nil), enc.ExtraData()...)

	var packets []Packet
	err := Encode(enc, pcm, FrameSize, func(p Packet) error {
		packets = append(packets, Packet{Data: append([]byte(nil), p.Data...), PTS: p.PTS})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return packets, extra, nil
}
