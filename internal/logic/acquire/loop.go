package acquire

import (
	"context"
	"fmt"
	"time"

	"github.com/cjeanneret/TrapGo/internal/debug"
	"github.com/cjeanneret/TrapGo/internal/hw/camera"
	"github.com/cjeanneret/TrapGo/internal/hw/led"
	"github.com/cjeanneret/TrapGo/internal/hw/mic"
	"github.com/cjeanneret/TrapGo/internal/logic/pcm"
	"github.com/cjeanneret/TrapGo/internal/storage"
	"github.com/cjeanneret/TrapGo/internal/wav"
)

// readGrace is added to the blocking clip read so a slightly slow
// source still delivers a full-length recording.
const readGrace = 2 * time.Second

// Params defines the behavior of the trap loop.
type Params struct {
	PhotoInterval time.Duration // time between periodic photos
	Threshold     int           // a sample must exceed this absolute amplitude to trigger
	RecordTime    time.Duration // length of one audio clip
	Cooldown      time.Duration // pause after a clip before listening resumes
	Gain          int           // left shift applied to recorded samples
	SampleRate    int           // capture rate in Hz
	SampleBits    int           // bits per sample
	PollInterval  time.Duration // pacing between microphone polls
	MaxClipBytes  int           // refuse clips larger than this. 0 = no limit.

	// Now and Sleep default to the real clock. Tests inject their own
	// so the schedule can be driven without waiting.
	Now   func() time.Time
	Sleep func(time.Duration)
}

// Stats counts what a session produced.
type Stats struct {
	Photos uint64
	Clips  uint64
	Skips  uint64
}

// Loop contains the high-level trap logic: periodic photos on a
// schedule, and threshold-triggered audio recordings, both written to
// storage under one shared sequence number.
type Loop struct {
	camera camera.Source
	mic    mic.Source
	store  storage.Store
	lamp   led.Indicator
	p      Params

	seq       uint64 // number of the next file to emit
	lastPhoto time.Time
	stats     Stats
	pollBuf   []byte
}

// NewLoop wires a loop from its devices. lamp may be nil when no
// status LED is fitted.
func NewLoop(cam camera.Source, m mic.Source, store storage.Store, lamp led.Indicator, p Params) *Loop {
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.Sleep == nil {
		p.Sleep = time.Sleep
	}
	if p.PollInterval <= 0 {
		p.PollInterval = 20 * time.Millisecond
	}
	if lamp == nil {
		lamp = (*led.StatusLED)(nil)
	}

	// One poll chunk covers a poll interval of audio.
	bps := p.SampleRate * p.SampleBits / 8
	chunk := int(p.PollInterval*time.Duration(bps)/time.Second) &^ 1
	if chunk < 64 {
		chunk = 64
	}

	return &Loop{
		camera:  cam,
		mic:     m,
		store:   store,
		lamp:    lamp,
		p:       p,
		seq:     1,
		pollBuf: make([]byte, chunk),
	}
}

// Run drives Tick until ctx is canceled, pacing iterations by the
// poll interval.
func (l *Loop) Run(ctx context.Context) error {
	debug.Summary(debug.Fmt("Trap armed: photo every %s, trigger above %d", l.p.PhotoInterval, l.p.Threshold))
	for {
		select {
		case <-ctx.Done():
			debug.Live("Trap loop stopping")
			debug.Totals(l.stats.Photos, l.stats.Clips, l.stats.Skips, l.seq-1)
			return ctx.Err()
		default:
		}
		l.Tick()
		l.p.Sleep(l.p.PollInterval)
	}
}

// Tick runs one pass of the trap loop: a periodic photo if one is
// due, then a microphone poll that may start a full recording.
//
// A fresh loop has lastPhoto at the zero time, so the first tick on a
// real clock takes a bootstrap photo immediately.
func (l *Loop) Tick() {
	now := l.p.Now()
	if now.Sub(l.lastPhoto) >= l.p.PhotoInterval {
		// The slot is consumed whether the capture succeeds or not: a
		// failed photo is dropped, never retried early.
		l.lastPhoto = now
		l.capturePhoto()
	}
	l.pollMicrophone()
}

// Stats returns the session counters so far.
func (l *Loop) Stats() Stats {
	return l.stats
}

func (l *Loop) capturePhoto() {
	frame, err := l.camera.Capture()
	if err != nil {
		l.stats.Skips++
		debug.Skip("photo capture", err)
		return
	}

	name := fmt.Sprintf("image%d.jpg", l.seq)
	if err := l.store.Write(name, frame); err != nil {
		l.stats.Skips++
		debug.Skip("photo write", err)
		return
	}

	debug.Photo(l.seq, name, len(frame))
	l.seq++
	l.stats.Photos++
	l.lamp.CaptureFlash()
}

func (l *Loop) pollMicrophone() {
	n, err := l.mic.ReadSamples(l.pollBuf, 0)
	if err != nil {
		l.stats.Skips++
		debug.Skip("microphone poll", err)
		return
	}
	if n == 0 {
		return
	}

	head := l.pollBuf[:n]
	peak := pcm.Peak(head)
	debug.Trace("poll: %d bytes, peak %d", n, peak)
	if peak <= l.p.Threshold {
		return
	}

	debug.Trigger(peak, l.p.Threshold)
	l.record(head)
}

// record captures one clip and then lets the scene settle. The
// cooldown runs however the capture went; a trigger always costs one
// cooldown before listening resumes.
func (l *Loop) record(head []byte) {
	l.captureClip(head)

	// Settle, then drop whatever the microphone heard while we were
	// recording and sleeping, so the same event cannot retrigger.
	if l.p.Cooldown > 0 {
		l.p.Sleep(l.p.Cooldown)
	}
	l.mic.Flush()
}

// captureClip records one clip. The poll chunk that tripped the
// threshold becomes the start of the recording, the rest is read
// blocking, and the whole clip is written as a single WAV file.
func (l *Loop) captureClip(head []byte) {
	bps := l.p.SampleRate * l.p.SampleBits / 8
	clipBytes := int(l.p.RecordTime*time.Duration(bps)/time.Second) &^ 1
	if clipBytes < len(head)&^1 {
		clipBytes = len(head) &^ 1
	}

	if l.p.MaxClipBytes > 0 && clipBytes+wav.HeaderSize > l.p.MaxClipBytes {
		l.stats.Skips++
		debug.Skip("recording", fmt.Errorf("clip of %d bytes exceeds limit %d", clipBytes, l.p.MaxClipBytes))
		return
	}

	buf := make([]byte, clipBytes)
	n := copy(buf, head)
	if n < clipBytes {
		readN, err := l.mic.ReadSamples(buf[n:], l.p.RecordTime+readGrace)
		if err != nil {
			// Keep what arrived; a truncated clip beats a lost one.
			debug.Info("Recording cut short: %v", err)
		}
		n += readN
	}
	n &^= 1 // whole samples only
	data := buf[:n]
	debug.Live("Recording: %d bytes captured", n)

	pcm.ApplyGain(data, l.p.Gain)
	clip := wav.Clip(data, l.p.SampleRate, l.p.SampleBits, 1)

	name := fmt.Sprintf("audio%d.wav", l.seq)
	if err := l.store.Write(name, clip); err != nil {
		l.stats.Skips++
		debug.Skip("clip write", err)
		return
	}
	debug.Clip(l.seq, name, len(clip), wav.Duration(n, l.p.SampleRate, l.p.SampleBits, 1))
	l.seq++
	l.stats.Clips++
	l.lamp.CaptureFlash()
}
