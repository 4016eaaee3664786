package mic

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"

	"github.com/cjeanneret/TrapGo/internal/debug"
)

// WavFile replays a WAV recording as if it were a live microphone,
// looping forever. It exists to tune thresholds against real field
// recordings without any hardware attached.
type WavFile struct {
	pcm []byte
	pos int
}

// NewWavFile decodes path into memory. Only 16-bit files are
// accepted; of a multi-channel file only the first channel is used.
func NewWavFile(path string) (*WavFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav file: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%s is not a readable WAV file", path)
	}
	if d.BitDepth != 16 {
		return nil, fmt.Errorf("%s has %d-bit samples, only 16-bit replay is supported", path, d.BitDepth)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	channels := int(d.NumChans)
	if channels < 1 {
		channels = 1
	}
	samples := buf.Data
	pcm := make([]byte, 0, 2*(len(samples)/channels))
	for i := 0; i < len(samples); i += channels {
		s := int16(samples[i])
		pcm = append(pcm, byte(s), byte(s>>8))
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("%s contains no samples", path)
	}

	debug.Info("WavFile microphone: %s, %d samples at %d Hz", path, len(pcm)/2, d.SampleRate)
	return &WavFile{pcm: pcm}, nil
}

// ReadSamples fills buf from the recording, wrapping at the end.
// Replay is not paced to real time: data is always available, which
// makes desk runs fast rather than faithful.
func (w *WavFile) ReadSamples(buf []byte, _ time.Duration) (int, error) {
	n := 0
	for n < len(buf) {
		c := copy(buf[n:], w.pcm[w.pos:])
		n += c
		w.pos = (w.pos + c) % len(w.pcm)
	}
	return n, nil
}

// Flush is a no-op: a replay source has no real-time backlog.
func (w *WavFile) Flush() {}

func (w *WavFile) Close() error {
	return nil
}
