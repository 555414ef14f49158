package adts

import "errors"

// Frame is one parsed ADTS frame.
type Frame struct {
	Header  Header
	Payload []byte
}

// Splitter cuts a byte stream into ADTS frames. Bytes that do not start a
// valid header are skipped until the next syncword.
type Splitter struct {
	buf     []byte
	skipped int
}

// Write appends stream bytes.
func (s *Splitter) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}

// Next returns the next complete frame, if any. The payload is a copy.
func (s *Splitter) Next() (Frame, bool) {
	for {
		if len(s.buf) < HeaderSize {
			return Frame{}, false
		}
		h, err := ParseHeader(s.buf)
		if err != nil {
			if errors.Is(err, ErrShortHeader) {
				return Frame{}, false
			}
			s.resync()
			continue
		}
		if len(s.buf) < h.FrameLength {
			return Frame{}, false
		}

		payload := make([]byte, h.PayloadLength())
		copy(payload, s.buf[h.HeaderLength():h.FrameLength])
		s.consume(h.FrameLength)
		return Frame{Header: h, Payload: payload}, true
	}
}

// Buffered returns the number of bytes waiting for a complete frame.
func (s *Splitter) Buffered() int {
	return len(s.buf)
}

// Skipped returns the number of garbage bytes dropped while resyncing.
func (s *Splitter) Skipped() int {
	return s.skipped
}

func (s *Splitter) resync() {
	for i := 1; i < len(s.buf); i++ {
		if s.buf[i] == syncByte && (i+1 == len(s.buf) || s.buf[i+1]&syncNibble == syncNibble) {
			s.skipped += i
			s.consume(i)
			return
		}
	}
	s.skipped += len(s.buf)
	s.buf = s.buf[:0]
}

func (s *Splitter) consume(n int) {
	rest := copy(s.buf, s.buf[n:])
	s.buf = s.buf[:rest]
}
