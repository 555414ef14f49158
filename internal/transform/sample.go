package transform

import "fmt"

// MemoryBuffer is a fixed-capacity byte buffer with a used length.
type MemoryBuffer struct {
	data   []byte
	length int
}

// NewMemoryBuffer allocates a buffer with the given maximum length.
func NewMemoryBuffer(maxLength int) *MemoryBuffer {
	if maxLength < 0 {
		maxLength = 0
	}
	return &MemoryBuffer{data: make([]byte, maxLength)}
}

// MaxLength returns the buffer capacity in bytes.
func (b *MemoryBuffer) MaxLength() int {
	return len(b.data)
}

// CurrentLength returns the number of valid bytes.
func (b *MemoryBuffer) CurrentLength() int {
	return b.length
}

// SetCurrentLength sets the number of valid bytes.
func (b *MemoryBuffer) SetCurrentLength(n int) error {
	if n < 0 || n > len(b.data) {
		return fmt.Errorf("current length %d outside [0, %d]", n, len(b.data))
	}
	b.length = n
	return nil
}

// Raw returns the whole backing storage, regardless of the current length.
// Writers fill it and then call SetCurrentLength.
func (b *MemoryBuffer) Raw() []byte {
	return b.data
}

// Bytes returns the valid bytes. The slice aliases the buffer.
func (b *MemoryBuffer) Bytes() []byte {
	return b.data[:b.length]
}

// Sample is a timestamped media unit carrying a single buffer.
//
// Times and durations are in transform clock ticks.
type Sample struct {
	Time     int64
	Duration int64
	buffer   *MemoryBuffer
}

// NewSample creates a sample backed by a new buffer of maxLength bytes.
func NewSample(maxLength int) *Sample {
	return &Sample{buffer: NewMemoryBuffer(maxLength)}
}

// Buffer returns the sample's buffer.
func (s *Sample) Buffer() *MemoryBuffer {
	return s.buffer
}

// EnsureCapacity makes sure the sample's buffer holds at least length bytes.
// The buffer is replaced when too small and never shrunk. The current length
// is reset to zero either way. It reports whether a new buffer was allocated.
func (s *Sample) EnsureCapacity(length int) bool {
	if s.buffer == nil || s.buffer.MaxLength() < length {
		s.buffer = NewMemoryBuffer(length)
		return true
	}
	s.buffer.length = 0
	return false
}
