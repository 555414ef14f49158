package aacenc

import (
	"errors"
	"fmt"
)

// Common errors returned by the encoder.
var (
	// ErrInvalidConfig indicates a parameter outside its supported table.
	ErrInvalidConfig = errors.New("invalid encoder configuration")

	// ErrUnsupportedSampleRate indicates a rate with no MPEG-4 sampling index.
	ErrUnsupportedSampleRate = errors.New("unsupported sample rate")

	// ErrShortConfig indicates an AudioSpecificConfig too short to decode.
	ErrShortConfig = errors.New("audio specific config too short")

	// ErrNotInitialized is returned by operations on a session that has not
	// been initialized, failed initialization, or was closed.
	ErrNotInitialized = errors.New("encoder not initialized")

	// ErrAlreadyInitialized is returned when Initialize is called twice.
	ErrAlreadyInitialized = errors.New("encoder already initialized")

	// ErrNoTransform indicates no transform factory was configured.
	ErrNoTransform = errors.New("no transform factory configured")

	// ErrShortInput indicates an input chunk holding less than one PCM frame.
	ErrShortInput = errors.New("input shorter than one PCM frame")

	// ErrStalled indicates the transform refused input while holding no output.
	ErrStalled = errors.New("transform stalled")
)

// TransformError wraps a failure reported by the external transform.
type TransformError struct {
	// Op names the operation that failed, e.g. "process input".
	Op  string
	Err error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}
