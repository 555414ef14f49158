package aacenc

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/tphakala/go-aac-encoder/internal/transform"
)

// Status reports the flow-control outcome of ProcessInput and ProcessOutput.
type Status int

const (
	// StatusFailure means the call failed; the accompanying error says why.
	StatusFailure Status = iota

	// StatusSuccess means input was accepted or a packet was produced.
	StatusSuccess

	// StatusNotAccepting means the transform refused input. Pull output and
	// push the same chunk again.
	StatusNotAccepting

	// StatusNeedMoreInput means no packet is available yet.
	StatusNeedMoreInput
)

func (s Status) String() string {
	switch s {
	case StatusFailure:
		return "failure"
	case StatusSuccess:
		return "success"
	case StatusNotAccepting:
		return "not_accepting"
	case StatusNeedMoreInput:
		return "need_more_input"
	default:
		return "unknown"
	}
}

// Packet is one encoded AAC access unit.
type Packet struct {
	// Data aliases storage owned by the Encoder. It is valid only until the
	// next call to ProcessOutput; copy it to keep it.
	Data []byte

	// PTS is the presentation timestamp in the caller's 100 ns ticks.
	PTS uint64
}

type sessionState int

const (
	stateNew sessionState = iota
	stateReady
	stateFailed
	stateClosed
)

// Encoder is one AAC encoding session wrapping a single Transform.
//
// An Encoder is not safe for concurrent use. It starts no goroutines; every
// method blocks until the transform call it makes returns.
type Encoder struct {
	params  Params
	name    string
	factory TransformFactory
	logger  *zap.Logger
	metrics *Metrics

	state     sessionState
	transform Transform

	// outputSample is reused across ProcessOutput calls and only grows.
	outputSample *transform.Sample

	// packetBuffer holds the most recent packet; overwritten on each pull.
	packetBuffer []byte

	extraData      [ExtraDataSize]byte
	extraDataReady bool
}

// NewEncoder creates a session for params. Nothing is validated or acquired
// until Initialize.
func NewEncoder(params Params, opts ...Option) *Encoder {
	e := &Encoder{
		params: params,
		name:   defaultEncoderName,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.String("encoder", e.name))
	return e
}

// Params returns the session parameters.
func (e *Encoder) Params() Params { return e.params }

// Bitrate returns the bitrate in kbps.
func (e *Encoder) Bitrate() int { return e.params.Bitrate }

// Channels returns the channel count.
func (e *Encoder) Channels() int { return e.params.Channels }

// SampleRate returns the sample rate in Hz.
func (e *Encoder) SampleRate() int { return e.params.SampleRate }

// BitsPerSample returns the PCM sample width.
func (e *Encoder) BitsPerSample() int { return e.params.BitsPerSample }

// Initialize validates the parameters, builds the AudioSpecificConfig and
// creates and configures the transform. It must be called exactly once. On
// failure the session is unusable and must be recreated.
func (e *Encoder) Initialize() (err error) {
	switch e.state {
	case stateReady:
		return ErrAlreadyInitialized
	case stateFailed, stateClosed:
		return ErrNotInitialized
	}

	defer func() {
		if err != nil {
			e.state = stateFailed
		}
	}()

	if err := e.params.Validate(); err != nil {
		e.logger.Warn("invalid encoder parameters", zap.Error(err))
		return err
	}

	asc, err := BuildAudioSpecificConfig(e.params.SampleRate, e.params.Channels)
	if err != nil {
		e.logger.Warn("cannot build audio specific config", zap.Error(err))
		return err
	}
	e.extraData = asc
	e.extraDataReady = true

	if e.factory == nil {
		e.logger.Error("cannot create transform", zap.Error(ErrNoTransform))
		return ErrNoTransform
	}

	t, err := e.factory()
	if err != nil {
		return e.fail("create transform", err)
	}
	if t == nil {
		return e.fail("create transform", ErrNoTransform)
	}
	defer func() {
		if err != nil {
			_ = t.Close()
		}
	}()

	if err := t.SetInputType(inputMediaType(e.params)); err != nil {
		return e.fail("set input type", err)
	}
	if err := t.SetOutputType(outputMediaType(e.params)); err != nil {
		return e.fail("set output type", err)
	}
	if err := t.ProcessMessage(transform.MessageBeginStreaming); err != nil {
		return e.fail("begin streaming", err)
	}
	if err := t.ProcessMessage(transform.MessageStartOfStream); err != nil {
		return e.fail("start of stream", err)
	}

	e.logger.Info("encoder created",
		zap.Int("bitrate", e.params.Bitrate),
		zap.Int("channels", e.params.Channels),
		zap.Int("sampleRate", e.params.SampleRate),
		zap.Int("bitsPerSample", e.params.BitsPerSample))

	e.transform = t
	e.state = stateReady
	return nil
}

// ProcessInput submits one chunk of interleaved PCM with its presentation
// timestamp in 100 ns ticks. Chunks may be any whole number of frames.
//
// StatusNotAccepting is returned with a nil error when the transform is full;
// the chunk was not consumed and should be pushed again after pulling output.
func (e *Encoder) ProcessInput(data []byte, pts uint64) (Status, error) {
	if e.state != stateReady {
		return StatusFailure, ErrNotInitialized
	}

	frames := len(data) / e.params.BytesPerFrame()
	if frames == 0 {
		return StatusFailure, ErrShortInput
	}

	sample := transform.NewSample(len(data))
	buf := sample.Buffer()
	copy(buf.Raw(), data)
	if err := buf.SetCurrentLength(len(data)); err != nil {
		return StatusFailure, e.fail("set buffer length", err)
	}
	sample.Time = int64(pts / ptsScale)
	sample.Duration = chunkDuration(e.params.SampleRate, e.params.Channels, frames)

	err := e.transform.ProcessInput(sample)
	switch {
	case errors.Is(err, transform.ErrNotAccepting):
		e.metrics.observeBackpressure(StatusNotAccepting)
		return StatusNotAccepting, nil
	case err != nil:
		return StatusFailure, e.fail("process input", err)
	}

	e.metrics.observeInput(len(data))
	return StatusSuccess, nil
}

// ProcessOutput pulls one packet from the transform.
//
// When nothing is ready it returns StatusNeedMoreInput with a nil error and
// leaves the previous packet untouched. On StatusSuccess the packet's Data
// aliases the session buffer until the next call.
func (e *Encoder) ProcessOutput() (Packet, Status, error) {
	if e.state != stateReady {
		return Packet{}, StatusFailure, ErrNotInitialized
	}

	ready, err := e.transform.OutputStatus()
	if err != nil {
		return Packet{}, StatusFailure, e.fail("get output status", err)
	}
	if ready != transform.OutputSampleReady {
		e.metrics.observeBackpressure(StatusNeedMoreInput)
		return Packet{}, StatusNeedMoreInput, nil
	}

	info, err := e.transform.OutputStreamInfo()
	if err != nil {
		return Packet{}, StatusFailure, e.fail("get output stream info", err)
	}
	e.ensureCapacity(info.Size)

	err = e.transform.ProcessOutput(e.outputSample)
	switch {
	case errors.Is(err, transform.ErrNeedMoreInput):
		e.metrics.observeBackpressure(StatusNeedMoreInput)
		return Packet{}, StatusNeedMoreInput, nil
	case err != nil:
		return Packet{}, StatusFailure, e.fail("process output", err)
	}

	e.packetBuffer = append(e.packetBuffer[:0], e.outputSample.Buffer().Bytes()...)

	var pts uint64
	if t := e.outputSample.Time; t > 0 {
		pts = uint64(t) * ptsScale
	}

	e.metrics.observePacket(len(e.packetBuffer))
	return Packet{Data: e.packetBuffer, PTS: pts}, StatusSuccess, nil
}

// ExtraData returns the 5-byte AudioSpecificConfig to hand to a muxer before
// the first packet. It is nil until Initialize has built it. The slice aliases
// session storage and must not be modified.
func (e *Encoder) ExtraData() []byte {
	if !e.extraDataReady {
		return nil
	}
	return e.extraData[:]
}

// Drain signals end of stream so the transform flushes buffered audio. Keep
// calling ProcessOutput until it reports StatusNeedMoreInput to collect the
// remaining packets.
func (e *Encoder) Drain() error {
	if e.state != stateReady {
		return ErrNotInitialized
	}
	if err := e.transform.ProcessMessage(transform.MessageEndOfStream); err != nil {
		return e.fail("end of stream", err)
	}
	if err := e.transform.ProcessMessage(transform.MessageDrain); err != nil {
		return e.fail("drain", err)
	}
	return nil
}

// Close releases the transform and buffers. It is safe to call more than once.
func (e *Encoder) Close() error {
	if e.state == stateClosed {
		return nil
	}
	e.state = stateClosed

	var err error
	if e.transform != nil {
		if cerr := e.transform.Close(); cerr != nil {
			err = e.fail("close transform", cerr)
		}
		e.transform = nil
	}
	e.outputSample = nil
	e.packetBuffer = nil
	return err
}

// ensureCapacity grows the reusable output sample to hold size bytes and
// reserves the same room in the packet buffer.
func (e *Encoder) ensureCapacity(size int) {
	if e.outputSample == nil {
		e.outputSample = &transform.Sample{}
	}
	e.outputSample.EnsureCapacity(size)
	if cap(e.packetBuffer) < size {
		grown := make([]byte, len(e.packetBuffer), size)
		copy(grown, e.packetBuffer)
		e.packetBuffer = grown
	}
}

// fail logs a transform failure and wraps it.
func (e *Encoder) fail(op string, err error) error {
	e.metrics.observeError(op)
	e.logger.Error("transform call failed", zap.String("operation", op), zap.Error(err))
	return &TransformError{Op: op, Err: err}
}

// chunkDuration derives a chunk's duration from the frames it actually holds:
// round(sampleRate / channels / frames * 10000).
func chunkDuration(sampleRate, channels, frames int) int64 {
	return int64(math.Round(float64(sampleRate) / float64(channels) / float64(frames) * durationScale))
}
