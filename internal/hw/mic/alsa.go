package mic

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/cjeanneret/TrapGo/internal/debug"
)

const (
	pumpChunkBytes   = 4096
	pumpDepth        = 64 // ~8s of queued audio at 16 kHz mono
	openProbeTimeout = 3 * time.Second
)

// ALSA captures PCM by running arecord and reading raw samples from
// its stdout. No cgo and no hand-rolled ioctls, and the plug layer
// handles devices that cannot do the requested rate natively.
type ALSA struct {
	*stream
	cmd     *exec.Cmd
	device  string
	stderr  *bytes.Buffer
	waitErr error // set by the pump before frames closes
}

// NewALSA starts arecord on the given device, capturing 16-bit mono
// at sampleRate. It waits for the first samples so a missing or dead
// microphone fails here instead of silently never triggering.
func NewALSA(device string, sampleRate int) (*ALSA, error) {
	cmd := exec.Command("arecord",
		"-q",
		"-D", device,
		"-t", "raw",
		"-f", "S16_LE",
		"-c", "1",
		"-r", strconv.Itoa(sampleRate),
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("arecord stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start arecord: %w", err)
	}

	a := &ALSA{
		cmd:    cmd,
		device: device,
		stderr: &stderr,
	}
	a.stream = newStream(pumpDepth, a.exitErr)
	go a.pump(stdout)

	probe := make([]byte, 2)
	n, err := a.ReadSamples(probe, openProbeTimeout)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("microphone %s: %w", device, err)
	}
	if n == 0 {
		a.Close()
		return nil, fmt.Errorf("microphone %s produced no data within %s", device, openProbeTimeout)
	}
	// Give the probed sample back to the stream.
	a.rest = append(append([]byte(nil), probe[:n]...), a.rest...)

	debug.Print("Microphone: capture stream running")
	debug.Info("Microphone %s: arecord 16-bit mono at %d Hz", device, sampleRate)
	return a, nil
}

// pump moves stdout into the frame channel until the process dies.
func (a *ALSA) pump(stdout io.Reader) {
	defer close(a.frames)
	for {
		chunk := make([]byte, pumpChunkBytes)
		n, err := stdout.Read(chunk)
		if n > 0 {
			a.frames <- chunk[:n]
		}
		if err != nil {
			a.waitErr = a.cmd.Wait()
			return
		}
	}
}

// exitErr builds the sticky error reported once the stream ends.
// arecord explains its failures on stderr, so prefer that text.
func (a *ALSA) exitErr() error {
	if msg := strings.TrimSpace(a.stderr.String()); msg != "" {
		return fmt.Errorf("arecord: %s", msg)
	}
	if a.waitErr != nil {
		return fmt.Errorf("arecord exited: %w", a.waitErr)
	}
	return fmt.Errorf("arecord stream ended: %w", io.EOF)
}

// Close kills arecord and drains the pump so it can finish.
func (a *ALSA) Close() error {
	if a.cmd.Process != nil {
		_ = a.cmd.Process.Kill()
	}
	for range a.frames {
	}
	debug.Trace("Microphone %s closed", a.device)
	return nil
}
