package mic

import (
	"io"
	"time"
)

// stream adapts a chunked feed of PCM bytes (filled by a pump
// goroutine) into the poll and fill reads the capture loop performs.
// The pump owns the send side of frames and closes it when the feed
// dies; the reader side belongs to a single goroutine.
type stream struct {
	frames chan []byte
	rest   []byte       // unread tail of the last chunk
	onEnd  func() error // invoked once when frames closes
	err    error        // sticky stream failure
}

func newStream(depth int, onEnd func() error) *stream {
	return &stream{frames: make(chan []byte, depth), onEnd: onEnd}
}

// ReadSamples copies PCM into buf. A zero timeout polls what the pump
// already delivered; a positive timeout blocks until buf is full or
// the timer fires. A short count with a nil error means the deadline
// passed or nothing more was available.
func (s *stream) ReadSamples(buf []byte, timeout time.Duration) (int, error) {
	n := s.takeRest(buf)
	if n == len(buf) {
		return n, nil
	}

	if timeout <= 0 {
		for n < len(buf) {
			select {
			case chunk, ok := <-s.frames:
				if !ok {
					return n, s.endErr()
				}
				n += s.take(buf[n:], chunk)
			default:
				return n, nil
			}
		}
		return n, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for n < len(buf) {
		select {
		case chunk, ok := <-s.frames:
			if !ok {
				return n, s.endErr()
			}
			n += s.take(buf[n:], chunk)
		case <-timer.C:
			return n, nil
		}
	}
	return n, nil
}

// Flush drops unread audio: the leftover stash and everything the
// pump has queued so far.
func (s *stream) Flush() {
	s.rest = nil
	for {
		select {
		case _, ok := <-s.frames:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// take copies chunk into dst and stashes any overflow for the next
// read. Chunks come fresh from the pump, so keeping a tail reference
// is safe.
func (s *stream) take(dst, chunk []byte) int {
	c := copy(dst, chunk)
	if c < len(chunk) {
		s.rest = chunk[c:]
	}
	return c
}

func (s *stream) takeRest(buf []byte) int {
	if len(s.rest) == 0 {
		return 0
	}
	c := copy(buf, s.rest)
	s.rest = s.rest[c:]
	return c
}

func (s *stream) endErr() error {
	if s.err == nil {
		if s.onEnd != nil {
			s.err = s.onEnd()
		}
		if s.err == nil {
			s.err = io.EOF
		}
	}
	return s.err
}
