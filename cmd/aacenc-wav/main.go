// Command aacenc-wav encodes a WAV file to an AAC-LC ADTS stream.
//
// Usage:
//
//	aacenc-wav input.wav output.aac
//	aacenc-wav -bitrate 192 -v input.wav output.aac
//	aacenc-wav -ffmpeg /opt/ffmpeg/bin/ffmpeg -quality high input.wav output.aac
//
// Parameters the encoder cannot take are snapped to the nearest supported
// value: channels beyond stereo are dropped, samples are scaled to 16 bits and
// unsupported sample rates are resampled.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	aacenc "github.com/tphakala/go-aac-encoder"
	"github.com/tphakala/go-aac-encoder/internal/adts"
	"github.com/tphakala/go-aac-encoder/internal/resample"
	"github.com/tphakala/simd/cpu"
)

const (
	minRequiredArgs = 2

	// Number of frames read from the WAV file per iteration.
	bufferSize = 65536

	// Frames pushed to the encoder per ProcessInput call.
	chunkFrames = aacenc.FrameSize

	bitsPerKbit = 1000
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "aacenc-wav: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	bitrate := flag.Int("bitrate", 128, "Target bitrate in kbps (96, 128, 160, 192)")
	ffmpegPath := flag.String("ffmpeg", "ffmpeg", "Path to the ffmpeg executable")
	quality := flag.String("quality", "medium", "Resampling quality when the input rate is unsupported: low, medium, high")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.aac\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if *verbose {
		logger.Debug("cpu features", zap.String("simd", cpu.Info()))
	}

	q, err := parseQuality(*quality)
	if err != nil {
		return err
	}

	start := time.Now()
	stats, err := encodeWAV(args[0], args[1], *bitrate, *ffmpegPath, q, logger)
	if err != nil {
		return err
	}
	stats.elapsed = time.Since(start)
	printSummary(os.Stdout, args[1], stats)
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// encodeStats summarises one encode run.
type encodeStats struct {
	inputRate     int
	inputChannels int
	inputBitDepth int
	inputFrames   int64

	params    aacenc.Params
	resampled bool
	frames    int64
	packets   int
	bytes     int64
	peakDBFS  float64
	extraData []byte
	elapsed   time.Duration
}

func encodeWAV(inputPath, outputPath string, kbps int, ffmpegPath string, q resample.Quality, logger *zap.Logger) (stats *encodeStats, err error) {
	input, err := openWAVInput(inputPath, logger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	params := aacenc.Params{
		Bitrate:       kbps,
		Channels:      input.channels,
		SampleRate:    input.rate,
		BitsPerSample: input.bitDepth,
	}.BestMatch()
	if params.Bitrate != kbps {
		logger.Warn("bitrate snapped", zap.Int("requested", kbps), zap.Int("bitrate", params.Bitrate))
	}

	pcm, err := readPCM16(input, params, q, logger)
	if err != nil {
		return nil, err
	}

	stats = &encodeStats{
		inputRate:     input.rate,
		inputChannels: input.channels,
		inputBitDepth: input.bitDepth,
		inputFrames:   pcm.inputFrames,
		params:        params,
		resampled:     pcm.resampled,
		frames:        int64(len(pcm.samples) / params.Channels),
		peakDBFS:      peakDBFS(pcm.samples),
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
	}()

	enc := aacenc.NewEncoder(params,
		aacenc.WithLogger(logger),
		aacenc.WithName(inputPath),
		aacenc.WithTransformFactory(aacenc.NewFFmpegTransformFactory(aacenc.FFmpegConfig{
			Path:   ffmpegPath,
			Logger: logger.Named("ffmpeg"),
		})),
	)
	defer func() { _ = enc.Close() }()

	if err := enc.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize encoder: %w", err)
	}
	stats.extraData = append([]byte(nil), enc.ExtraData()...)

	w, err := newADTSWriter(out, stats.extraData)
	if err != nil {
		return nil, err
	}

	err = aacenc.Encode(enc, int16Bytes(pcm.samples), chunkFrames, func(p aacenc.Packet) error {
		stats.packets++
		stats.bytes += int64(len(p.Data))
		return w.WritePacket(p.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return stats, nil
}

// newADTSWriter derives the ADTS header fields from the session's
// AudioSpecificConfig.
func newADTSWriter(out *os.File, extraData []byte) (*adts.Writer, error) {
	asc, err := aacenc.ParseAudioSpecificConfig(extraData)
	if err != nil {
		return nil, fmt.Errorf("decode audio specific config: %w", err)
	}
	return adts.NewWriter(out, asc.ObjectType, asc.SampleRateIndex, asc.ChannelConfig), nil
}

func printSummary(f *os.File, outputPath string, s *encodeStats) {
	seconds := float64(s.frames) / float64(s.params.SampleRate)
	fmt.Fprintf(f, "Input:      %d Hz, %d ch, %d-bit, %d frames\n", s.inputRate, s.inputChannels, s.inputBitDepth, s.inputFrames)
	fmt.Fprintf(f, "Output:     %s\n", outputPath)
	fmt.Fprintf(f, "Encoding:   AAC-LC %d kbps, %d Hz, %d ch\n", s.params.Bitrate, s.params.SampleRate, s.params.Channels)
	if s.resampled {
		fmt.Fprintf(f, "Resampled:  %d Hz -> %d Hz\n", s.inputRate, s.params.SampleRate)
	}
	fmt.Fprintf(f, "Peak:       %.1f dBFS\n", s.peakDBFS)
	fmt.Fprintf(f, "Packets:    %d (%d bytes)\n", s.packets, s.bytes)
	if seconds > 0 {
		fmt.Fprintf(f, "Bitrate:    %.1f kbps actual over %.2f s\n", float64(s.bytes)*8/seconds/bitsPerKbit, seconds)
	}
	fmt.Fprintf(f, "ASC:        %s\n", hex.EncodeToString(s.extraData))
	fmt.Fprintf(f, "Elapsed:    %v\n", s.elapsed.Round(time.Millisecond))
}
