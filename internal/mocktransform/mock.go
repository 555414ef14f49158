// Package mocktransform provides a scripted in-memory transform for tests.
//
// It does not encode audio. Every FrameSize PCM frames pushed produce one
// packet whose payload is the first PacketSize bytes of those frames, so
// tests can trace packets back to the input that produced them.
package mocktransform

import (
	"fmt"

	"github.com/tphakala/go-aac-encoder/internal/transform"
)

// Op names a Transform method for error injection.
type Op string

// Transform operations.
const (
	OpSetInputType     Op = "SetInputType"
	OpSetOutputType    Op = "SetOutputType"
	OpProcessMessage   Op = "ProcessMessage"
	OpProcessInput     Op = "ProcessInput"
	OpOutputStatus     Op = "OutputStatus"
	OpOutputStreamInfo Op = "OutputStreamInfo"
	OpProcessOutput    Op = "ProcessOutput"
	OpClose            Op = "Close"
)

const (
	defaultFrameSize  = 1024
	defaultPacketSize = 64
)

// Transform is the scripted transform. Zero-valued configuration fields use
// defaults. It is not safe for concurrent use.
type Transform struct {
	// FrameSize is the number of PCM frames per packet.
	FrameSize int

	// PacketSize caps the payload copied into each packet.
	PacketSize int

	// OutputSize is reported by OutputStreamInfo; defaults to PacketSize.
	OutputSize int

	// MaxPending makes ProcessInput return ErrNotAccepting once that many
	// packets wait to be pulled. Zero means unlimited.
	MaxPending int

	// Errors injects a failure for every call of an operation.
	Errors map[Op]error

	// Recorded interactions.
	InputType  transform.MediaType
	OutputType transform.MediaType
	Messages   []transform.Message
	Inputs     []InputRecord
	Closed     bool
	CloseCalls int

	pcm       []byte
	pending   [][]byte
	produced  int64
	baseTime  int64
	haveBase  bool
	streaming bool
}

// InputRecord is what ProcessInput received.
type InputRecord struct {
	Time     int64
	Duration int64
	Length   int
}

// New returns a transform with default sizes.
func New() *Transform {
	return &Transform{}
}

// Factory returns a transform.Factory that always hands out t.
func Factory(t *Transform) transform.Factory {
	return func() (transform.Transform, error) {
		return t, nil
	}
}

// FailOn injects err for every call of op.
func (t *Transform) FailOn(op Op, err error) *Transform {
	if t.Errors == nil {
		t.Errors = make(map[Op]error)
	}
	t.Errors[op] = err
	return t
}

// Pending returns the number of packets waiting to be pulled.
func (t *Transform) Pending() int {
	return len(t.pending)
}

func (t *Transform) injected(op Op) error {
	return t.Errors[op]
}

// SetInputType implements transform.Transform.
func (t *Transform) SetInputType(mt transform.MediaType) error {
	if err := t.injected(OpSetInputType); err != nil {
		return err
	}
	if mt.Major != transform.MajorAudio || mt.Subtype != transform.SubtypePCM {
		return fmt.Errorf("%w: input must be audio/pcm, got %s", transform.ErrInvalidMediaType, mt.Subtype)
	}
	t.InputType = mt
	return nil
}

// SetOutputType implements transform.Transform.
func (t *Transform) SetOutputType(mt transform.MediaType) error {
	if err := t.injected(OpSetOutputType); err != nil {
		return err
	}
	if mt.Major != transform.MajorAudio || mt.Subtype != transform.SubtypeAAC {
		return fmt.Errorf("%w: output must be audio/aac, got %s", transform.ErrInvalidMediaType, mt.Subtype)
	}
	t.OutputType = mt
	return nil
}

// ProcessMessage implements transform.Transform.
func (t *Transform) ProcessMessage(msg transform.Message) error {
	if err := t.injected(OpProcessMessage); err != nil {
		return err
	}
	t.Messages = append(t.Messages, msg)
	switch msg {
	case transform.MessageBeginStreaming:
		t.streaming = true
	case transform.MessageDrain:
		t.flushPartial()
	}
	return nil
}

// ProcessInput implements transform.Transform.
func (t *Transform) ProcessInput(s *transform.Sample) error {
	if err := t.injected(OpProcessInput); err != nil {
		return err
	}
	if !t.streaming {
		return transform.ErrNotStreaming
	}
	if t.MaxPending > 0 && len(t.pending) >= t.MaxPending {
		return transform.ErrNotAccepting
	}

	data := s.Buffer().Bytes()
	t.Inputs = append(t.Inputs, InputRecord{Time: s.Time, Duration: s.Duration, Length: len(data)})
	if !t.haveBase {
		t.baseTime = s.Time
		t.haveBase = true
	}

	t.pcm = append(t.pcm, data...)
	chunk := t.frameBytes()
	for chunk > 0 && len(t.pcm) >= chunk {
		t.emit(t.pcm[:chunk])
		t.pcm = t.pcm[chunk:]
	}
	return nil
}

// OutputStatus implements transform.Transform.
func (t *Transform) OutputStatus() (transform.OutputStatus, error) {
	if err := t.injected(OpOutputStatus); err != nil {
		return transform.OutputNotReady, err
	}
	if len(t.pending) == 0 {
		return transform.OutputNotReady, nil
	}
	return transform.OutputSampleReady, nil
}

// OutputStreamInfo implements transform.Transform.
func (t *Transform) OutputStreamInfo() (transform.OutputStreamInfo, error) {
	if err := t.injected(OpOutputStreamInfo); err != nil {
		return transform.OutputStreamInfo{}, err
	}
	size := t.OutputSize
	if size == 0 {
		size = t.packetSize()
	}
	return transform.OutputStreamInfo{Size: size}, nil
}

// ProcessOutput implements transform.Transform.
func (t *Transform) ProcessOutput(s *transform.Sample) error {
	if err := t.injected(OpProcessOutput); err != nil {
		return err
	}
	if len(t.pending) == 0 {
		return transform.ErrNeedMoreInput
	}

	pkt := t.pending[0]
	buf := s.Buffer()
	if buf == nil || buf.MaxLength() < len(pkt) {
		return transform.ErrBufferTooSmall
	}
	copy(buf.Raw(), pkt)
	if err := buf.SetCurrentLength(len(pkt)); err != nil {
		return err
	}
	s.Time = transform.FrameTime(t.baseTime, t.produced, t.frameSize(), t.InputType.SampleRate)
	s.Duration = transform.FrameTime(0, 1, t.frameSize(), t.InputType.SampleRate)

	t.pending = t.pending[1:]
	t.produced++
	return nil
}

// Close implements transform.Transform.
func (t *Transform) Close() error {
	t.CloseCalls++
	t.Closed = true
	return t.injected(OpClose)
}

func (t *Transform) emit(frame []byte) {
	n := min(len(frame), t.packetSize())
	pkt := make([]byte, n)
	copy(pkt, frame[:n])
	t.pending = append(t.pending, pkt)
}

// flushPartial zero-pads the leftover PCM into a final packet.
func (t *Transform) flushPartial() {
	if len(t.pcm) == 0 {
		return
	}
	frame := make([]byte, t.frameBytes())
	copy(frame, t.pcm)
	t.emit(frame)
	t.pcm = t.pcm[:0]
}

func (t *Transform) frameSize() int {
	if t.FrameSize > 0 {
		return t.FrameSize
	}
	return defaultFrameSize
}

func (t *Transform) packetSize() int {
	if t.PacketSize > 0 {
		return t.PacketSize
	}
	return defaultPacketSize
}

func (t *Transform) frameBytes() int {
	return t.frameSize() * t.InputType.Channels * (t.InputType.BitsPerSample / 8)
}
