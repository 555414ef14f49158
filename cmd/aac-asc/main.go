// Command aac-asc prints the AudioSpecificConfig an encoder session would
// produce for the given parameters, or decodes one given in hex.
//
// Usage:
//
//	aac-asc -rate 44100 -channels 2
//	aac-asc -decode 1190 56e5 00
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	aacenc "github.com/tphakala/go-aac-encoder"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "aac-asc: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("aac-asc", flag.ContinueOnError)
	rate := fs.Int("rate", aacenc.RateDAT, "Sample rate in Hz")
	channels := fs.Int("channels", 2, "Channel count")
	bitrate := fs.Int("bitrate", 128, "Bitrate in kbps")
	decode := fs.Bool("decode", false, "Decode the hex config given as arguments")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *decode {
		return decodeConfig(strings.Join(fs.Args(), ""), out)
	}

	requested := aacenc.Params{Bitrate: *bitrate, Channels: *channels, SampleRate: *rate, BitsPerSample: 16}
	params := requested.BestMatch()
	if params != requested {
		fmt.Fprintf(out, "requested:  %d kbps, %d Hz, %d ch\n", requested.Bitrate, requested.SampleRate, requested.Channels)
	}
	fmt.Fprintf(out, "parameters: %d kbps, %d Hz, %d ch, %d-bit\n",
		params.Bitrate, params.SampleRate, params.Channels, params.BitsPerSample)

	asc, err := aacenc.BuildAudioSpecificConfig(params.SampleRate, params.Channels)
	if err != nil {
		return err
	}
	return printConfig(asc[:], out)
}

func decodeConfig(s string, out io.Writer) error {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}
	return printConfig(b, out)
}

func printConfig(b []byte, out io.Writer) error {
	c, err := aacenc.ParseAudioSpecificConfig(b)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "config:     %s\n", hex.EncodeToString(b))
	fmt.Fprintf(out, "decoded:    %s\n", c)
	return nil
}
