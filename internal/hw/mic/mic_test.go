package mic

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cjeanneret/TrapGo/internal/wav"
)

// ---------- stream ----------

func TestStream_PollReturnsQueuedData(t *testing.T) {
	s := newStream(4, nil)
	s.frames <- []byte{1, 2, 3}
	s.frames <- []byte{4, 5}

	buf := make([]byte, 8)
	n, err := s.ReadSamples(buf, 0)
	if err != nil {
		t.Fatalf("ReadSamples: %v", err)
	}
	if n != 5 {
		t.Fatalf("n = %d, want 5", n)
	}
	want := []byte{1, 2, 3, 4, 5}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %d, want %d", i, buf[i], want[i])
		}
	}
}

func TestStream_PollWithNothingQueued(t *testing.T) {
	s := newStream(4, nil)
	n, err := s.ReadSamples(make([]byte, 8), 0)
	if n != 0 || err != nil {
		t.Errorf("empty poll = (%d, %v), want (0, nil)", n, err)
	}
}

func TestStream_LeftoverCarriesToNextRead(t *testing.T) {
	s := newStream(4, nil)
	s.frames <- []byte{1, 2, 3, 4, 5, 6}

	buf := make([]byte, 4)
	n, err := s.ReadSamples(buf, 0)
	if err != nil || n != 4 {
		t.Fatalf("first read = (%d, %v), want (4, nil)", n, err)
	}

	n, err = s.ReadSamples(buf, 0)
	if err != nil || n != 2 {
		t.Fatalf("second read = (%d, %v), want (2, nil)", n, err)
	}
	if buf[0] != 5 || buf[1] != 6 {
		t.Errorf("leftover = %v, want [5 6]", buf[:2])
	}
}

func TestStream_BlockingFillAcrossChunks(t *testing.T) {
	s := newStream(4, nil)
	go func() {
		for i := 0; i < 4; i++ {
			time.Sleep(time.Millisecond)
			s.frames <- []byte{byte(i), byte(i)}
		}
	}()

	buf := make([]byte, 8)
	n, err := s.ReadSamples(buf, time.Second)
	if err != nil {
		t.Fatalf("ReadSamples: %v", err)
	}
	if n != 8 {
		t.Errorf("n = %d, want 8 (full fill)", n)
	}
}

func TestStream_BlockingTimesOutShort(t *testing.T) {
	s := newStream(4, nil)
	s.frames <- []byte{1, 2}

	start := time.Now()
	buf := make([]byte, 8)
	n, err := s.ReadSamples(buf, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("ReadSamples: %v", err)
	}
	if n != 2 {
		t.Errorf("n = %d, want 2 (short read on timeout)", n)
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("returned after %v, should have waited for the timeout", elapsed)
	}
}

func TestStream_ClosedFeedReportsError(t *testing.T) {
	s := newStream(4, nil)
	s.frames <- []byte{9}
	close(s.frames)

	buf := make([]byte, 4)
	n, err := s.ReadSamples(buf, 0)
	if n != 1 {
		t.Errorf("n = %d, want 1 (data before close)", n)
	}
	if err != io.EOF {
		t.Errorf("err = %v, want io.EOF", err)
	}

	// The error must be sticky.
	if _, err := s.ReadSamples(buf, 0); err != io.EOF {
		t.Errorf("second err = %v, want io.EOF", err)
	}
}

func TestStream_CustomEndError(t *testing.T) {
	wantErr := io.ErrUnexpectedEOF
	s := newStream(4, func() error { return wantErr })
	close(s.frames)

	if _, err := s.ReadSamples(make([]byte, 2), 0); err != wantErr {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestStream_FlushDropsQueuedAndLeftover(t *testing.T) {
	s := newStream(4, nil)
	s.frames <- []byte{1, 2, 3, 4}
	s.frames <- []byte{5, 6}

	// Create a leftover tail.
	if n, _ := s.ReadSamples(make([]byte, 1), 0); n != 1 {
		t.Fatal("setup read failed")
	}

	s.Flush()

	n, err := s.ReadSamples(make([]byte, 8), 0)
	if n != 0 || err != nil {
		t.Errorf("post-flush read = (%d, %v), want (0, nil)", n, err)
	}
}

// ---------- WavFile ----------

func encodeSamples(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

func writeWav(t *testing.T, samples []int16, channels int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.wav")
	clip := wav.Clip(encodeSamples(samples), 16000, 16, channels)
	if err := os.WriteFile(path, clip, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewWavFile_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wav")
	if err := os.WriteFile(path, []byte("not a wav"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewWavFile(path); err == nil {
		t.Error("expected error for junk file, got nil")
	}
}

func TestNewWavFile_MissingFile(t *testing.T) {
	if _, err := NewWavFile(filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestWavFile_ReplaysAndWraps(t *testing.T) {
	samples := []int16{100, 200, 300}
	src, err := NewWavFile(writeWav(t, samples, 1))
	if err != nil {
		t.Fatal(err)
	}

	// Read two full loops worth of data.
	buf := make([]byte, 12)
	n, err := src.ReadSamples(buf, 0)
	if err != nil || n != 12 {
		t.Fatalf("ReadSamples = (%d, %v), want (12, nil)", n, err)
	}

	want := []int16{100, 200, 300, 100, 200, 300}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(buf[2*i:]))
		if got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestWavFile_StereoKeepsFirstChannel(t *testing.T) {
	// Interleaved L R L R: left channel is 10, 30.
	src, err := NewWavFile(writeWav(t, []int16{10, -99, 30, -77}, 2))
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 4)
	if n, err := src.ReadSamples(buf, 0); err != nil || n != 4 {
		t.Fatalf("ReadSamples = (%d, %v), want (4, nil)", n, err)
	}
	if got := int16(binary.LittleEndian.Uint16(buf[0:])); got != 10 {
		t.Errorf("sample 0 = %d, want 10", got)
	}
	if got := int16(binary.LittleEndian.Uint16(buf[2:])); got != 30 {
		t.Errorf("sample 1 = %d, want 30", got)
	}
}

// Compile-time checks: both implementations satisfy Source.
var (
	_ Source = &ALSA{}
	_ Source = &WavFile{}
)
