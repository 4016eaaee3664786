package pcm

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func encode(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

func decode(buf []byte) []int16 {
	out := make([]int16, len(buf)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
	}
	return out
}

func TestApplyGain_ShiftDoubles(t *testing.T) {
	buf := encode(1, -1, 1000, -1000)
	ApplyGain(buf, 1)

	want := []int16{2, -2, 2000, -2000}
	got := decode(buf)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

// A gain of 3 multiplies by 8. 5000*8 = 40000 does not fit in int16
// and wraps to 40000-65536 = -25536.
func TestApplyGain_WrapsWithoutClipping(t *testing.T) {
	cases := []struct {
		name   string
		sample int16
		gain   int
		want   int16
	}{
		{"wrap_high", 5000, 3, -25536},
		{"wrap_to_min", 16384, 1, -32768},
		{"no_wrap", 100, 3, 800},
		{"zero_stays_zero", 0, 5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := encode(tc.sample)
			ApplyGain(buf, tc.gain)
			if got := decode(buf)[0]; got != tc.want {
				t.Errorf("%d << %d = %d, want %d", tc.sample, tc.gain, got, tc.want)
			}
		})
	}
}

func TestApplyGain_ZeroGainIsNoop(t *testing.T) {
	buf := encode(123, -456)
	orig := append([]byte(nil), buf...)
	ApplyGain(buf, 0)
	if !bytes.Equal(buf, orig) {
		t.Error("gain 0 must leave the buffer unchanged")
	}
}

func TestApplyGain_IgnoresTrailingOddByte(t *testing.T) {
	buf := append(encode(100), 0x7f)
	ApplyGain(buf, 1)
	if buf[2] != 0x7f {
		t.Errorf("trailing byte = %#x, want 0x7f untouched", buf[2])
	}
	if got := decode(buf[:2])[0]; got != 200 {
		t.Errorf("first sample = %d, want 200", got)
	}
}

func TestPeak(t *testing.T) {
	cases := []struct {
		name    string
		samples []int16
		want    int
	}{
		{"empty", nil, 0},
		{"silence", []int16{0, 0, 0}, 0},
		{"positive_peak", []int16{10, 5000, 30}, 5000},
		{"negative_peak", []int16{10, -6000, 30}, 6000},
		{"full_scale_negative", []int16{-32768}, 32768},
		{"full_scale_positive", []int16{32767}, 32767},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Peak(encode(tc.samples...)); got != tc.want {
				t.Errorf("Peak(%v) = %d, want %d", tc.samples, got, tc.want)
			}
		})
	}
}

func TestPeak_IgnoresTrailingOddByte(t *testing.T) {
	buf := append(encode(100), 0xff)
	if got := Peak(buf); got != 100 {
		t.Errorf("Peak = %d, want 100 (odd byte ignored)", got)
	}
}
