// Package ffmpeg implements a transform that encodes AAC-LC by piping PCM
// through an ffmpeg child process and splitting its ADTS output into access
// units.
package ffmpeg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tphakala/go-aac-encoder/internal/adts"
	"github.com/tphakala/go-aac-encoder/internal/mpeg4audio"
	"github.com/tphakala/go-aac-encoder/internal/transform"
)

const (
	defaultPath       = "ffmpeg"
	defaultMaxPending = 64

	// readChunkSize is the stdout read size; larger than any single AAC frame.
	readChunkSize = 4096

	bitsPerSample16 = 16
	bitsPerByte     = 8
	kbpsDivisor     = 1000
)

// Errors specific to the ffmpeg transform.
var (
	ErrNotConfigured = errors.New("ffmpeg: media types not negotiated")
	ErrClosed        = errors.New("ffmpeg: transform closed")
	ErrEndOfStream   = errors.New("ffmpeg: input after end of stream")
)

// Config configures the ffmpeg transform.
type Config struct {
	// Path is the ffmpeg executable. Defaults to "ffmpeg" on PATH.
	Path string

	// MaxPending is the number of encoded frames that may wait to be pulled
	// before ProcessInput reports ErrNotAccepting.
	MaxPending int

	// Logger receives process lifecycle events.
	Logger *zap.Logger
}

// Transform is a transform.Transform backed by an ffmpeg process.
type Transform struct {
	path       string
	maxPending int
	logger     *zap.Logger

	input, output         transform.MediaType
	haveInput, haveOutput bool

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	done   chan struct{}

	frames *ringQueue[adts.Frame]

	mu      sync.Mutex
	readErr error
	skipped int

	baseTime  int64
	haveBase  bool
	produced  int64
	eos       bool
	drained   bool
	closed    bool
	bytesIn   int64
	framesOut int64
}

// New creates an idle transform. The process starts on MessageBeginStreaming.
func New(cfg Config) *Transform {
	t := &Transform{
		path:       cfg.Path,
		maxPending: cfg.MaxPending,
		logger:     cfg.Logger,
		frames:     newRingQueue[adts.Frame](defaultMaxPending),
	}
	if t.path == "" {
		t.path = defaultPath
	}
	if t.maxPending <= 0 {
		t.maxPending = defaultMaxPending
	}
	if t.logger == nil {
		t.logger = zap.NewNop()
	}
	return t
}

// Factory returns a transform.Factory creating one process-backed transform
// per call.
func Factory(cfg Config) transform.Factory {
	return func() (transform.Transform, error) {
		path := cfg.Path
		if path == "" {
			path = defaultPath
		}
		if _, err := exec.LookPath(path); err != nil {
			return nil, fmt.Errorf("ffmpeg executable: %w", err)
		}
		return New(cfg), nil
	}
}

// SetInputType accepts 16-bit interleaved PCM.
func (t *Transform) SetInputType(mt transform.MediaType) error {
	if mt.Major != transform.MajorAudio || mt.Subtype != transform.SubtypePCM {
		return fmt.Errorf("%w: input must be audio/pcm, got %s", transform.ErrInvalidMediaType, mt.Subtype)
	}
	if mt.BitsPerSample != bitsPerSample16 {
		return fmt.Errorf("%w: only s16le input is supported, got %d bits", transform.ErrInvalidMediaType, mt.BitsPerSample)
	}
	if mt.SampleRate <= 0 || mt.Channels <= 0 {
		return fmt.Errorf("%w: rate %d, channels %d", transform.ErrInvalidMediaType, mt.SampleRate, mt.Channels)
	}
	t.input = mt
	t.haveInput = true
	return nil
}

// SetOutputType accepts AAC matching the input rate and channel count.
func (t *Transform) SetOutputType(mt transform.MediaType) error {
	if mt.Major != transform.MajorAudio || mt.Subtype != transform.SubtypeAAC {
		return fmt.Errorf("%w: output must be audio/aac, got %s", transform.ErrInvalidMediaType, mt.Subtype)
	}
	if !t.haveInput {
		return ErrNotConfigured
	}
	if mt.SampleRate != t.input.SampleRate || mt.Channels != t.input.Channels {
		return fmt.Errorf("%w: output %d Hz/%d ch does not match input %d Hz/%d ch",
			transform.ErrInvalidMediaType, mt.SampleRate, mt.Channels, t.input.SampleRate, t.input.Channels)
	}
	if mt.AvgBytesPerSecond <= 0 {
		return fmt.Errorf("%w: missing average byte rate", transform.ErrInvalidMediaType)
	}
	t.output = mt
	t.haveOutput = true
	return nil
}

// Args returns the ffmpeg command line for the negotiated types.
func (t *Transform) Args() []string {
	kbps := t.output.AvgBytesPerSecond * bitsPerByte / kbpsDivisor
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "s16le",
		"-ar", strconv.Itoa(t.input.SampleRate),
		"-ac", strconv.Itoa(t.input.Channels),
		"-i", "pipe:0",
		"-vn",
		"-c:a", "aac",
		"-profile:a", "aac_low",
		"-b:a", strconv.Itoa(kbps) + "k",
		"-f", "adts",
		"pipe:1",
	}
}

// ProcessMessage starts the process on begin-streaming and flushes it on drain.
func (t *Transform) ProcessMessage(msg transform.Message) error {
	if t.closed {
		return ErrClosed
	}
	switch msg {
	case transform.MessageBeginStreaming:
		return t.start()
	case transform.MessageStartOfStream:
		t.haveBase = false
		t.produced = 0
		return nil
	case transform.MessageEndOfStream:
		t.eos = true
		return nil
	case transform.MessageDrain:
		return t.drain()
	default:
		return fmt.Errorf("ffmpeg: unsupported message %d", msg)
	}
}

func (t *Transform) start() error {
	if !t.haveInput || !t.haveOutput {
		return ErrNotConfigured
	}
	if t.cmd != nil {
		return nil
	}

	cmd := exec.Command(t.path, t.Args()...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = &t.stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start: %w", err)
	}

	t.cmd = cmd
	t.stdin = stdin
	t.done = make(chan struct{})
	go t.readLoop(stdout)

	t.logger.Info("ffmpeg started",
		zap.Int("pid", cmd.Process.Pid),
		zap.Int("sampleRate", t.input.SampleRate),
		zap.Int("channels", t.input.Channels),
		zap.Int("avgBytesPerSecond", t.output.AvgBytesPerSecond))
	return nil
}

// readLoop splits ffmpeg's ADTS output into frames until EOF.
func (t *Transform) readLoop(r io.Reader) {
	defer close(t.done)

	var splitter adts.Splitter
	buf := make([]byte, readChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			_, _ = splitter.Write(buf[:n])
			for {
				f, ok := splitter.Next()
				if !ok {
					break
				}
				t.frames.Push(f)
			}
			t.mu.Lock()
			t.skipped = splitter.Skipped()
			t.mu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.mu.Lock()
				t.readErr = err
				t.mu.Unlock()
			}
			return
		}
	}
}

// ProcessInput writes the sample's PCM to ffmpeg's stdin.
func (t *Transform) ProcessInput(s *transform.Sample) error {
	switch {
	case t.closed:
		return ErrClosed
	case t.cmd == nil:
		return transform.ErrNotStreaming
	case t.eos:
		return ErrEndOfStream
	}

	t.mu.Lock()
	readErr := t.readErr
	t.mu.Unlock()
	if readErr != nil {
		return fmt.Errorf("ffmpeg output: %w", readErr)
	}
	if t.frames.Len() >= t.maxPending {
		return transform.ErrNotAccepting
	}

	if !t.haveBase {
		t.baseTime = s.Time
		t.haveBase = true
	}
	data := s.Buffer().Bytes()
	if _, err := t.stdin.Write(data); err != nil {
		return fmt.Errorf("ffmpeg stdin: %w", err)
	}
	t.bytesIn += int64(len(data))
	return nil
}

// OutputStatus reports ready while a frame is queued.
func (t *Transform) OutputStatus() (transform.OutputStatus, error) {
	if t.closed {
		return transform.OutputNotReady, ErrClosed
	}
	if t.frames.Len() > 0 {
		return transform.OutputSampleReady, nil
	}
	return transform.OutputNotReady, nil
}

// OutputStreamInfo reports the larger of the queued frame and one maximal access unit.
func (t *Transform) OutputStreamInfo() (transform.OutputStreamInfo, error) {
	if t.closed {
		return transform.OutputStreamInfo{}, ErrClosed
	}
	size := mpeg4audio.MaxAccessUnitSize
	if f, ok := t.frames.Peek(); ok {
		size = max(size, len(f.Payload))
	}
	return transform.OutputStreamInfo{Size: size}, nil
}

// ProcessOutput pops one raw access unit into s.
func (t *Transform) ProcessOutput(s *transform.Sample) error {
	if t.closed {
		return ErrClosed
	}

	frame, ok := t.frames.Peek()
	if !ok {
		return transform.ErrNeedMoreInput
	}

	buf := s.Buffer()
	if buf == nil || buf.MaxLength() < len(frame.Payload) {
		return transform.ErrBufferTooSmall
	}
	copy(buf.Raw(), frame.Payload)
	if err := buf.SetCurrentLength(len(frame.Payload)); err != nil {
		return err
	}
	s.Time = transform.FrameTime(t.baseTime, t.produced, mpeg4audio.SamplesPerAccessUnit, t.input.SampleRate)
	s.Duration = transform.FrameTime(0, 1, mpeg4audio.SamplesPerAccessUnit, t.input.SampleRate)

	t.frames.Pop()
	t.produced++
	t.framesOut++
	return nil
}

// drain closes stdin and waits for ffmpeg to flush and exit.
func (t *Transform) drain() error {
	if t.cmd == nil {
		return transform.ErrNotStreaming
	}
	if t.drained {
		return nil
	}
	t.drained = true
	t.eos = true

	if err := t.stdin.Close(); err != nil {
		t.logger.Warn("closing ffmpeg stdin", zap.Error(err))
	}
	<-t.done
	waitErr := t.cmd.Wait()

	t.mu.Lock()
	readErr, skipped := t.readErr, t.skipped
	t.mu.Unlock()
	queued := t.frames.Len()

	t.logger.Info("ffmpeg drained",
		zap.Int64("bytesIn", t.bytesIn),
		zap.Int64("framesOut", t.framesOut),
		zap.Int("queued", queued),
		zap.Int("skippedBytes", skipped))

	var err error
	if waitErr != nil {
		err = multierr.Append(err, fmt.Errorf("ffmpeg exited: %w: %s", waitErr, bytes.TrimSpace(t.stderr.Bytes())))
	}
	if readErr != nil {
		err = multierr.Append(err, fmt.Errorf("ffmpeg output: %w", readErr))
	}
	return err
}

// Close stops the process. Queued frames are discarded. Safe to call more than once.
func (t *Transform) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	if t.cmd == nil || t.drained {
		return nil
	}

	_ = t.stdin.Close()
	if t.cmd.Process != nil {
		_ = t.cmd.Process.Kill()
	}
	<-t.done
	_ = t.cmd.Wait()
	t.frames.Clear()
	t.logger.Debug("ffmpeg stopped")
	return nil
}
