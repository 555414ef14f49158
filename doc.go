// Package aacenc provides an AAC-LC encoding session that drives an external
// encoder transform through a push/pull protocol.
//
// The package does not implement the AAC codec itself. A session validates
// its parameters against the supported tables, derives the MPEG-4
// AudioSpecificConfig a muxer needs, negotiates media types with a
// [Transform] and then converts between caller timestamps and the
// transform's sample clock while PCM is pushed in and packets are pulled out.
//
// # Features
//
//   - Parameter validation and best-match snapping for bitrate, channels,
//     bits per sample and sample rate
//   - Deterministic 5-byte AudioSpecificConfig generation and decoding
//   - Backpressure-aware push/pull session with [Status] results
//   - Drain support to flush the encoder's look-ahead at end of stream
//   - An ffmpeg-backed [Transform] via [NewFFmpegTransformFactory]
//   - Structured logging with zap and optional Prometheus metrics
//
// # Quick Start
//
// For one-shot encoding of a PCM buffer:
//
//	params := aacenc.Params{Bitrate: 128, Channels: 2, SampleRate: 48000, BitsPerSample: 16}
//	factory := aacenc.NewFFmpegTransformFactory(aacenc.FFmpegConfig{})
//	packets, asc, err := aacenc.EncodePCM(params, pcm, aacenc.WithTransformFactory(factory))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For streaming, create a session and alternate pushes and pulls:
//
//	enc := aacenc.NewEncoder(params, aacenc.WithTransformFactory(factory))
//	defer enc.Close()
//	if err := enc.Initialize(); err != nil {
//	    log.Fatal(err)
//	}
//
//	status, err := enc.ProcessInput(chunk, pts)
//	// on StatusNotAccepting pull output, then push the same chunk again
//
//	for {
//	    pkt, status, err := enc.ProcessOutput()
//	    if err != nil || status != aacenc.StatusSuccess {
//	        break
//	    }
//	    writePacket(pkt.Data, pkt.PTS)
//	}
//
// # Supported Parameters
//
//   - Bitrate: 96, 128, 160 or 192 kbps
//   - Channels: 1 or 2
//   - Bits per sample: 16
//   - Sample rate: 44100 or 48000 Hz
//
// [BestMatch] picks the first supported value at or above a request and
// saturates to the largest value otherwise, so
// [Params.BestMatch] always yields parameters that pass [Params.Validate].
//
// # Timestamps
//
// Caller presentation timestamps are in 100 ns units. The transform clock runs
// at 100 kHz, so input times are PTS/100 and packet PTS values are the
// transform's output time multiplied by 100.
//
// # Thread Safety
//
// An [Encoder] is not safe for concurrent use. Distinct sessions are
// independent and may run on different goroutines.
package aacenc
