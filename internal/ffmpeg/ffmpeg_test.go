package ffmpeg

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tphakala/go-aac-encoder/internal/testutil"
	"github.com/tphakala/go-aac-encoder/internal/transform"
)

func pcmType(rate, channels int) transform.MediaType {
	return transform.MediaType{
		Major:         transform.MajorAudio,
		Subtype:       transform.SubtypePCM,
		BitsPerSample: 16,
		SampleRate:    rate,
		Channels:      channels,
	}
}

func aacType(rate, channels, avgBytes int) transform.MediaType {
	return transform.MediaType{
		Major:             transform.MajorAudio,
		Subtype:           transform.SubtypeAAC,
		BitsPerSample:     16,
		SampleRate:        rate,
		Channels:          channels,
		AvgBytesPerSecond: avgBytes,
	}
}

func TestNew_Defaults(t *testing.T) {
	tr := New(Config{})
	assert.Equal(t, defaultPath, tr.path)
	assert.Equal(t, defaultMaxPending, tr.maxPending)
	assert.NotNil(t, tr.logger)
}

func TestArgs(t *testing.T) {
	tr := New(Config{})
	require.NoError(t, tr.SetInputType(pcmType(44100, 1)))
	require.NoError(t, tr.SetOutputType(aacType(44100, 1, 16000)))

	args := tr.Args()
	assert.Equal(t, []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "s16le",
		"-ar", "44100",
		"-ac", "1",
		"-i", "pipe:0",
		"-vn",
		"-c:a", "aac",
		"-profile:a", "aac_low",
		"-b:a", "128k",
		"-f", "adts",
		"pipe:1",
	}, args)
}

func TestSetInputType_Rejects(t *testing.T) {
	tests := []struct {
		name string
		mt   transform.MediaType
	}{
		{"aac_subtype", aacType(48000, 2, 16000)},
		{"24_bit", func() transform.MediaType { m := pcmType(48000, 2); m.BitsPerSample = 24; return m }()},
		{"zero_rate", pcmType(0, 2)},
		{"zero_channels", pcmType(48000, 0)},
		{"unknown_major", transform.MediaType{Subtype: transform.SubtypePCM, BitsPerSample: 16, SampleRate: 48000, Channels: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(Config{}).SetInputType(tt.mt)
			require.ErrorIs(t, err, transform.ErrInvalidMediaType)
		})
	}
}

func TestSetOutputType_Rejects(t *testing.T) {
	tr := New(Config{})
	require.ErrorIs(t, tr.SetOutputType(aacType(48000, 2, 16000)), ErrNotConfigured)

	require.NoError(t, tr.SetInputType(pcmType(48000, 2)))
	require.ErrorIs(t, tr.SetOutputType(pcmType(48000, 2)), transform.ErrInvalidMediaType)
	require.ErrorIs(t, tr.SetOutputType(aacType(44100, 2, 16000)), transform.ErrInvalidMediaType)
	require.ErrorIs(t, tr.SetOutputType(aacType(48000, 1, 16000)), transform.ErrInvalidMediaType)
	require.ErrorIs(t, tr.SetOutputType(aacType(48000, 2, 0)), transform.ErrInvalidMediaType)
}

func TestBeforeStreaming(t *testing.T) {
	tr := New(Config{})
	require.ErrorIs(t, tr.ProcessMessage(transform.MessageBeginStreaming), ErrNotConfigured)

	s := transform.NewSample(4)
	require.ErrorIs(t, tr.ProcessInput(s), transform.ErrNotStreaming)
	require.ErrorIs(t, tr.ProcessMessage(transform.MessageDrain), transform.ErrNotStreaming)
	require.ErrorIs(t, tr.ProcessOutput(s), transform.ErrNeedMoreInput)

	status, err := tr.OutputStatus()
	require.NoError(t, err)
	assert.Equal(t, transform.OutputNotReady, status)
}

func TestClose_Idempotent(t *testing.T) {
	tr := New(Config{})
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())

	_, err := tr.OutputStatus()
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, tr.ProcessMessage(transform.MessageStartOfStream), ErrClosed)
}

func TestFactory_MissingExecutable(t *testing.T) {
	f := Factory(Config{Path: "definitely-not-an-ffmpeg-binary"})
	tr, err := f()
	require.Error(t, err)
	assert.Nil(t, tr)
}

func TestEncode_WithFFmpeg(t *testing.T) {
	if _, err := exec.LookPath(defaultPath); err != nil {
		t.Skip("ffmpeg not available")
	}
	if testing.Short() {
		t.Skip("skipping process test in short mode")
	}

	const (
		rate     = 48000
		channels = 2
		frames   = 48000
	)
	tr := New(Config{Logger: zaptest.NewLogger(t), MaxPending: 1 << 20})
	t.Cleanup(func() { _ = tr.Close() })

	require.NoError(t, tr.SetInputType(pcmType(rate, channels)))
	require.NoError(t, tr.SetOutputType(aacType(rate, channels, 16000)))
	require.NoError(t, tr.ProcessMessage(transform.MessageBeginStreaming))
	require.NoError(t, tr.ProcessMessage(transform.MessageStartOfStream))

	pcm := testutil.SinePCM16(440, rate, channels, frames)
	in := transform.NewSample(len(pcm))
	copy(in.Buffer().Raw(), pcm)
	require.NoError(t, in.Buffer().SetCurrentLength(len(pcm)))
	in.Time = 0
	require.NoError(t, tr.ProcessInput(in))

	require.NoError(t, tr.ProcessMessage(transform.MessageEndOfStream))
	require.NoError(t, tr.ProcessMessage(transform.MessageDrain))

	out := transform.NewSample(0)
	var units int
	var lastTime int64 = -1
	for {
		info, err := tr.OutputStreamInfo()
		require.NoError(t, err)
		out.EnsureCapacity(info.Size)
		err = tr.ProcessOutput(out)
		if err != nil {
			require.ErrorIs(t, err, transform.ErrNeedMoreInput)
			break
		}
		assert.Positive(t, out.Buffer().CurrentLength())
		assert.Greater(t, out.Time, lastTime)
		lastTime = out.Time
		units++
	}
	// One second at 48 kHz is 46.875 access units plus encoder priming.
	assert.GreaterOrEqual(t, units, 47)
}
