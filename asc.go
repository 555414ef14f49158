package aacenc

import (
	"encoding/binary"
	"fmt"

	"github.com/tphakala/go-aac-encoder/internal/mpeg4audio"
)

// BuildAudioSpecificConfig packs the 5-byte MPEG-4 AudioSpecificConfig for an
// AAC-LC stream:
//
//	word A: object type (5) | sampling index (4) | channel config (4) | 000
//	word B: sync extension type 0x2B7 (11) | extension object type SBR (5)
//	byte 4: sbrPresentFlag = 0 and alignment
//
// Both words are written in bitstream (big-endian) order. The result depends
// only on sampleRate and channels.
func BuildAudioSpecificConfig(sampleRate, channels int) ([ExtraDataSize]byte, error) {
	var asc [ExtraDataSize]byte

	index, err := mpeg4audio.SampleRateIndex(sampleRate)
	if err != nil {
		return asc, fmt.Errorf("%w: %w", ErrUnsupportedSampleRate, err)
	}
	if channels < monoChannels || channels > maxChannelConfig {
		return asc, fmt.Errorf("%w: channel configuration %d", ErrInvalidConfig, channels)
	}

	config := uint16(mpeg4audio.ObjectTypeLC) << profileShift
	config |= uint16(index) << sampleIndexShift
	config |= uint16(channels) << channelsShift
	binary.BigEndian.PutUint16(asc[0:2], config)

	extension := uint16(extensionSyncID) << extensionShift
	extension |= uint16(mpeg4audio.ObjectTypeSBR)
	binary.BigEndian.PutUint16(asc[2:4], extension)

	asc[4] = 0
	return asc, nil
}

// AudioSpecificConfig is the decoded form of an AudioSpecificConfig blob.
type AudioSpecificConfig struct {
	ObjectType      int
	SampleRateIndex int
	SampleRate      int
	ChannelConfig   int

	// HasSyncExtension is set when the backward compatible 0x2B7 extension follows.
	HasSyncExtension    bool
	ExtensionObjectType int
	SBRPresent          bool
}

// ParseAudioSpecificConfig decodes the fields written by BuildAudioSpecificConfig.
// Only the two-byte core and the explicit sync extension are understood.
func ParseAudioSpecificConfig(b []byte) (AudioSpecificConfig, error) {
	var c AudioSpecificConfig
	if len(b) < 2 {
		return c, fmt.Errorf("%w: %d bytes", ErrShortConfig, len(b))
	}

	core := binary.BigEndian.Uint16(b[0:2])
	c.ObjectType = int(core >> profileShift)
	c.SampleRateIndex = int(core>>sampleIndexShift) & 0x0F
	c.ChannelConfig = int(core>>channelsShift) & 0x0F

	if c.SampleRateIndex == mpeg4audio.ExplicitSampleRateIndex {
		return c, fmt.Errorf("%w: explicit sampling frequency not supported", ErrUnsupportedSampleRate)
	}
	rate, err := mpeg4audio.SampleRate(c.SampleRateIndex)
	if err != nil {
		return c, fmt.Errorf("%w: %w", ErrUnsupportedSampleRate, err)
	}
	c.SampleRate = rate

	if len(b) >= 4 {
		ext := binary.BigEndian.Uint16(b[2:4])
		if ext>>extensionShift == extensionSyncID {
			c.HasSyncExtension = true
			c.ExtensionObjectType = int(ext & 0x1F)
			if c.ExtensionObjectType == mpeg4audio.ObjectTypeSBR && len(b) >= ExtraDataSize {
				c.SBRPresent = b[4]&0x80 != 0
			}
		}
	}
	return c, nil
}

// String returns a one-line summary.
func (c AudioSpecificConfig) String() string {
	return fmt.Sprintf("%s, %d Hz (index %d), channel config %d, sbr %t",
		mpeg4audio.ObjectTypeName(c.ObjectType), c.SampleRate, c.SampleRateIndex,
		c.ChannelConfig, c.SBRPresent)
}
