// Package adts reads and writes the Audio Data Transport Stream framing
// (ISO/IEC 13818-7 6.2) used to carry raw AAC access units in a byte stream.
package adts

import (
	"errors"
	"fmt"
	"io"
)

const (
	// HeaderSize is the header length without CRC (protection_absent = 1).
	HeaderSize = 7

	// headerSizeCRC is the header length with the 16-bit CRC present.
	headerSizeCRC = 9

	// maxFrameLength is the largest value of the 13-bit frame_length field.
	maxFrameLength = 1<<13 - 1

	syncByte      = 0xFF
	syncNibble    = 0xF0
	bufferFullVBR = 0x7FF
)

// Errors returned by header parsing.
var (
	ErrNoSync         = errors.New("adts: syncword not found")
	ErrShortHeader    = errors.New("adts: header truncated")
	ErrInvalidLength  = errors.New("adts: invalid frame length")
	ErrPayloadTooLong = errors.New("adts: payload exceeds 13-bit frame length")
)

// Header holds the fields of an ADTS header this package cares about.
type Header struct {
	// ObjectType is the MPEG-4 audio object type (profile field + 1).
	ObjectType      int
	SampleRateIndex int
	ChannelConfig   int

	// FrameLength is the total frame size including the header.
	FrameLength int

	// ProtectionAbsent is true when no CRC follows the header.
	ProtectionAbsent bool
}

// HeaderLength returns the header size implied by ProtectionAbsent.
func (h Header) HeaderLength() int {
	if h.ProtectionAbsent {
		return HeaderSize
	}
	return headerSizeCRC
}

// PayloadLength returns the raw access unit size.
func (h Header) PayloadLength() int {
	return h.FrameLength - h.HeaderLength()
}

// Marshal encodes the header (without CRC) into a 7-byte array.
func (h Header) Marshal() ([HeaderSize]byte, error) {
	var b [HeaderSize]byte
	if h.FrameLength < HeaderSize || h.FrameLength > maxFrameLength {
		return b, fmt.Errorf("%w: %d", ErrPayloadTooLong, h.FrameLength)
	}

	profile := byte(h.ObjectType-1) & 0x03
	sfi := byte(h.SampleRateIndex) & 0x0F
	ch := byte(h.ChannelConfig) & 0x07
	n := h.FrameLength

	b[0] = syncByte
	b[1] = 0xF1 // MPEG-4, layer 0, no CRC
	b[2] = profile<<6 | sfi<<2 | ch>>2
	b[3] = (ch&0x03)<<6 | byte(n>>11)&0x03
	b[4] = byte(n >> 3)
	b[5] = byte(n&0x07)<<5 | byte(bufferFullVBR>>6)
	b[6] = byte(bufferFullVBR&0x3F) << 2
	return b, nil
}

// ParseHeader decodes the header at the start of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, ErrShortHeader
	}
	if b[0] != syncByte || b[1]&syncNibble != syncNibble {
		return Header{}, ErrNoSync
	}

	h := Header{
		ProtectionAbsent: b[1]&0x01 == 1,
		ObjectType:       int(b[2]>>6) + 1,
		SampleRateIndex:  int(b[2]>>2) & 0x0F,
		ChannelConfig:    int(b[2]&0x01)<<2 | int(b[3]>>6),
		FrameLength:      int(b[3]&0x03)<<11 | int(b[4])<<3 | int(b[5]>>5),
	}
	if h.FrameLength < h.HeaderLength() {
		return Header{}, fmt.Errorf("%w: %d", ErrInvalidLength, h.FrameLength)
	}
	return h, nil
}

// Writer prefixes raw AAC access units with ADTS headers.
type Writer struct {
	w      io.Writer
	header Header
	frames int
}

// NewWriter creates a writer emitting frames with the given stream fields.
func NewWriter(w io.Writer, objectType, sampleRateIndex, channelConfig int) *Writer {
	return &Writer{
		w: w,
		header: Header{
			ObjectType:       objectType,
			SampleRateIndex:  sampleRateIndex,
			ChannelConfig:    channelConfig,
			ProtectionAbsent: true,
		},
	}
}

// WritePacket writes one ADTS frame carrying payload.
func (w *Writer) WritePacket(payload []byte) error {
	h := w.header
	h.FrameLength = HeaderSize + len(payload)
	hdr, err := h.Marshal()
	if err != nil {
		return err
	}
	if _, err := w.w.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := w.w.Write(payload); err != nil {
		return err
	}
	w.frames++
	return nil
}

// Frames returns the number of frames written.
func (w *Writer) Frames() int {
	return w.frames
}
