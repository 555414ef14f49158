package adts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader_Marshal(t *testing.T) {
	h := Header{
		ObjectType:       2,
		SampleRateIndex:  4,
		ChannelConfig:    2,
		FrameLength:      107,
		ProtectionAbsent: true,
	}
	b, err := h.Marshal()
	require.NoError(t, err)
	assert.Equal(t, [HeaderSize]byte{0xFF, 0xF1, 0x50, 0x80, 0x0D, 0x7F, 0xFC}, b)
}

func TestHeader_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		h    Header
	}{
		{"stereo_44k", Header{ObjectType: 2, SampleRateIndex: 4, ChannelConfig: 2, FrameLength: 380, ProtectionAbsent: true}},
		{"mono_48k", Header{ObjectType: 2, SampleRateIndex: 3, ChannelConfig: 1, FrameLength: 7, ProtectionAbsent: true}},
		{"max_length", Header{ObjectType: 2, SampleRateIndex: 3, ChannelConfig: 2, FrameLength: maxFrameLength, ProtectionAbsent: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tt.h.Marshal()
			require.NoError(t, err)

			got, err := ParseHeader(b[:])
			require.NoError(t, err)
			assert.Equal(t, tt.h, got)
		})
	}
}

func TestHeader_MarshalRejectsOversizedFrame(t *testing.T) {
	_, err := Header{FrameLength: maxFrameLength + 1}.Marshal()
	require.ErrorIs(t, err, ErrPayloadTooLong)
}

func TestParseHeader_Errors(t *testing.T) {
	_, err := ParseHeader([]byte{0xFF, 0xF1})
	require.ErrorIs(t, err, ErrShortHeader)

	_, err = ParseHeader([]byte{0x00, 0xF1, 0x50, 0x80, 0x0D, 0x7F, 0xFC})
	require.ErrorIs(t, err, ErrNoSync)

	// frame_length of 3 is shorter than the header itself
	_, err = ParseHeader([]byte{0xFF, 0xF1, 0x50, 0x80, 0x00, 0x7F, 0xFC})
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestWriterAndSplitter(t *testing.T) {
	var stream bytes.Buffer
	w := NewWriter(&stream, 2, 3, 2)

	payloads := [][]byte{
		bytes.Repeat([]byte{0x11}, 10),
		bytes.Repeat([]byte{0x22}, 300),
		{},
		bytes.Repeat([]byte{0x33}, 1),
	}
	for _, p := range payloads {
		require.NoError(t, w.WritePacket(p))
	}
	assert.Equal(t, len(payloads), w.Frames())

	// Feed in awkward chunk sizes to exercise partial frames.
	var s Splitter
	data := stream.Bytes()
	var got []Frame
	for len(data) > 0 {
		n := min(13, len(data))
		_, _ = s.Write(data[:n])
		data = data[n:]
		for {
			f, ok := s.Next()
			if !ok {
				break
			}
			got = append(got, f)
		}
	}

	require.Len(t, got, len(payloads))
	for i, f := range got {
		assert.Equal(t, payloads[i], f.Payload, "frame %d", i)
		assert.Equal(t, 3, f.Header.SampleRateIndex)
		assert.Equal(t, 2, f.Header.ChannelConfig)
	}
	assert.Zero(t, s.Buffered())
	assert.Zero(t, s.Skipped())
}

func TestSplitter_Resync(t *testing.T) {
	var frame bytes.Buffer
	require.NoError(t, NewWriter(&frame, 2, 4, 1).WritePacket([]byte{1, 2, 3}))

	var s Splitter
	_, _ = s.Write([]byte{0x00, 0x12, 0xFF, 0x00})
	_, _ = s.Write(frame.Bytes())

	f, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, f.Payload)
	assert.Equal(t, 4, s.Skipped())

	_, ok = s.Next()
	assert.False(t, ok)
}
