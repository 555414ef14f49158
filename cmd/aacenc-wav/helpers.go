package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	aacenc "github.com/tphakala/go-aac-encoder"
	"github.com/tphakala/go-aac-encoder/internal/resample"
)

const (
	bitsPerSample8  = 8
	bitsPerSample16 = 16

	// 8-bit WAV samples are unsigned with this midpoint.
	unsigned8Offset = 128

	progressInterval = 10 // percent
	percentScale     = 100

	// silenceDBFS is reported as the peak of an all-zero signal.
	silenceDBFS = -120.0
	dbScale     = 20
)

// wavInput holds validated input file information.
type wavInput struct {
	file        *os.File
	decoder     *wav.Decoder
	rate        int
	channels    int
	bitDepth    int
	totalFrames int64
	format      *audio.Format
}

// openWAVInput opens and validates a WAV file.
func openWAVInput(path string, logger *zap.Logger) (*wavInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		_ = f.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	in := &wavInput{
		file:     f,
		decoder:  decoder,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: int(decoder.BitDepth),
		format:   format,
	}
	if in.channels <= 0 || in.rate <= 0 {
		_ = f.Close()
		return nil, fmt.Errorf("invalid WAV format: %d Hz, %d channels", in.rate, in.channels)
	}
	if d, err := decoder.Duration(); err == nil {
		in.totalFrames = int64(d.Seconds() * float64(in.rate))
	}

	logger.Info("input opened",
		zap.String("path", path),
		zap.Int("sampleRate", in.rate),
		zap.Int("channels", in.channels),
		zap.Int("bitDepth", in.bitDepth))
	return in, nil
}

// Close closes the input file.
func (w *wavInput) Close() error {
	return w.file.Close()
}

// parseQuality maps the -quality flag to a resampler preset.
func parseQuality(s string) (resample.Quality, error) {
	switch strings.ToLower(s) {
	case "low":
		return resample.QualityLow, nil
	case "medium", "":
		return resample.QualityMedium, nil
	case "high":
		return resample.QualityHigh, nil
	default:
		return 0, fmt.Errorf("unknown quality %q (want low, medium or high)", s)
	}
}

// pcm16 is the fully converted input.
type pcm16 struct {
	samples     []int16
	inputFrames int64
	resampled   bool
}

// readPCM16 decodes the whole input and converts it to interleaved 16-bit
// PCM at params' channel count and sample rate.
func readPCM16(in *wavInput, params aacenc.Params, q resample.Quality, logger *zap.Logger) (*pcm16, error) {
	rs, err := resample.New(in.rate, params.SampleRate, params.Channels, q)
	if err != nil {
		return nil, fmt.Errorf("create resampler: %w", err)
	}
	out := &pcm16{resampled: in.rate != params.SampleRate}
	if out.resampled {
		logger.Info("resampling input",
			zap.Int("from", in.rate),
			zap.Int("to", params.SampleRate),
			zap.Stringer("quality", q))
	}

	buf := &audio.IntBuffer{
		Data:   make([]int, bufferSize*in.channels),
		Format: in.format,
	}
	progress := newProgressTracker(in.totalFrames, logger)

	for {
		n, err := in.decoder.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		if n == 0 {
			break
		}
		n = min(n, len(buf.Data))
		frames := n / in.channels

		block := convertSamples(buf.Data[:frames*in.channels], in.channels, params.Channels, in.bitDepth)
		out.samples = append(out.samples, rs.Process(block)...)
		out.inputFrames += int64(frames)
		progress.report(out.inputFrames)
	}
	out.samples = append(out.samples, rs.Flush()...)
	return out, nil
}

// convertSamples keeps the first dstCh channels of each frame and scales
// samples of the given bit depth to 16 bits. When dstCh exceeds srcCh the
// last source channel is repeated.
func convertSamples(data []int, srcCh, dstCh, bitDepth int) []int16 {
	frames := len(data) / srcCh
	out := make([]int16, frames*dstCh)
	for i := range frames {
		frame := data[i*srcCh : (i+1)*srcCh]
		for ch := range dstCh {
			out[i*dstCh+ch] = to16(frame[min(ch, srcCh-1)], bitDepth)
		}
	}
	return out
}

// to16 rescales one integer sample of the given bit depth.
func to16(v, bitDepth int) int16 {
	switch {
	case bitDepth == bitsPerSample8:
		return int16((v - unsigned8Offset) << bitsPerSample8)
	case bitDepth > bitsPerSample16:
		return int16(v >> (bitDepth - bitsPerSample16))
	case bitDepth < bitsPerSample16 && bitDepth > 0:
		return int16(v << (bitsPerSample16 - bitDepth))
	default:
		return int16(v)
	}
}

// int16Bytes encodes samples as little-endian PCM.
func int16Bytes(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
	}
	return out
}

// peakDBFS returns the absolute peak of samples relative to full scale.
func peakDBFS(samples []int16) float64 {
	if len(samples) == 0 {
		return silenceDBFS
	}
	mags := make([]float64, len(samples))
	for i, v := range samples {
		mags[i] = math.Abs(float64(v))
	}
	peak := floats.Max(mags)
	if peak == 0 {
		return silenceDBFS
	}
	return dbScale * math.Log10(peak/math.MaxInt16)
}

// progressTracker logs read progress every progressInterval percent.
type progressTracker struct {
	totalFrames  int64
	lastProgress int
	logger       *zap.Logger
}

func newProgressTracker(totalFrames int64, logger *zap.Logger) *progressTracker {
	return &progressTracker{totalFrames: totalFrames, logger: logger}
}

func (p *progressTracker) report(frames int64) {
	if p.totalFrames == 0 {
		return
	}
	progress := int(float64(frames) / float64(p.totalFrames) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		p.logger.Debug("progress", zap.Int("percent", progress))
		p.lastProgress = progress
	}
}
