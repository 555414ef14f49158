package aacenc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-aac-encoder/internal/mocktransform"
	"github.com/tphakala/go-aac-encoder/internal/testutil"
	"github.com/tphakala/go-aac-encoder/internal/transform"
)

func TestPTSForFrames(t *testing.T) {
	assert.Equal(t, uint64(0), PTSForFrames(0, 48000))
	assert.Equal(t, uint64(10_000_000), PTSForFrames(48000, 48000))
	assert.Equal(t, uint64(213333), PTSForFrames(1024, 48000))
	assert.Equal(t, uint64(0), PTSForFrames(100, 0))
	assert.Equal(t, uint64(0), PTSForFrames(-5, 44100))
}

func TestEncodePCM_Mock(t *testing.T) {
	mock := mocktransform.New()
	pcm := testutil.SinePCM16(440, 48000, 2, 10*FrameSize+100)

	packets, extra, err := EncodePCM(stereo48k, pcm, WithTransformFactory(mocktransform.Factory(mock)))
	require.NoError(t, err)

	assert.Equal(t, []byte{0x11, 0x90, 0x56, 0xE5, 0x00}, extra)
	// 10 full frames plus the zero-padded remainder flushed by drain
	require.Len(t, packets, 11)
	for i, p := range packets {
		assert.Equal(t, uint64(i*FrameSize*transform.ClockRate/48000)*100, p.PTS, "packet %d", i)
	}
	assert.Equal(t, pcm[:64], packets[0].Data)
	assert.Equal(t, pcm[FrameSize*4:FrameSize*4+64], packets[1].Data)

	assert.Contains(t, mock.Messages, transform.MessageDrain)
	assert.True(t, mock.Closed, "EncodePCM must close the session")
}

func TestEncode_ChunkTimestamps(t *testing.T) {
	mock := mocktransform.New()
	e := newTestEncoder(t, stereo48k, mock)
	require.NoError(t, e.Initialize())

	pcm := append(testutil.SinePCM16(440, 48000, 2, 3*480), 0)
	var count int
	require.NoError(t, Encode(e, pcm, 480, func(Packet) error {
		count++
		return nil
	}))

	require.Len(t, mock.Inputs, 3)
	assert.Equal(t, int64(0), mock.Inputs[0].Time)
	assert.Equal(t, int64(1000), mock.Inputs[1].Time)
	assert.Equal(t, int64(2000), mock.Inputs[2].Time)
	// the single trailing byte never reaches the transform
	assert.Equal(t, 480*4, mock.Inputs[2].Length)
	assert.Equal(t, 2, count)
}

func TestEncode_SinkError(t *testing.T) {
	e := newTestEncoder(t, stereo48k, mocktransform.New())
	require.NoError(t, e.Initialize())

	boom := errors.New("disk full")
	err := Encode(e, testutil.SinePCM16(440, 48000, 2, 2*FrameSize), 0, func(Packet) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
}

func TestEncode_Stalled(t *testing.T) {
	mock := mocktransform.New().FailOn(mocktransform.OpProcessInput, transform.ErrNotAccepting)
	e := newTestEncoder(t, stereo48k, mock)
	require.NoError(t, e.Initialize())

	err := Encode(e, testutil.SinePCM16(440, 48000, 2, FrameSize), 0, func(Packet) error { return nil })
	require.ErrorIs(t, err, ErrStalled)
}

func TestEncodePCM_InitializeError(t *testing.T) {
	_, _, err := EncodePCM(Params{Bitrate: 100, Channels: 2, SampleRate: 48000, BitsPerSample: 16}, nil,
		WithTransformFactory(mocktransform.Factory(mocktransform.New())))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewFFmpegTransformFactory_MissingBinary(t *testing.T) {
	e := NewEncoder(stereo48k, WithTransformFactory(NewFFmpegTransformFactory(FFmpegConfig{
		Path: "no-such-ffmpeg-binary",
	})))
	t.Cleanup(func() { _ = e.Close() })

	err := e.Initialize()
	require.Error(t, err)
	var te *TransformError
	assert.ErrorAs(t, err, &te)
}
