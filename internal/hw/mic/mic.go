package mic

import "time"

// Source delivers raw little-endian PCM from a microphone.
// Implementations are not safe for concurrent use; the capture loop
// is the only reader.
type Source interface {
	// ReadSamples copies captured PCM into buf. With timeout 0 it
	// returns immediately with whatever is available, possibly
	// nothing. With a positive timeout it blocks until buf is full,
	// the timeout expires, or the stream fails.
	ReadSamples(buf []byte, timeout time.Duration) (int, error)

	// Flush discards audio captured but not yet read, so sound from
	// before a cooldown cannot trigger the next recording.
	Flush()

	// Close stops capture and releases the device.
	Close() error
}
