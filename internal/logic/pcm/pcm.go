package pcm

// ApplyGain left-shifts every 16-bit little-endian sample in buf by
// gain bits, in place. The shift wraps in int16; there is no clipping,
// matching what a fixed-point capture pipeline does.
func ApplyGain(buf []byte, gain int) {
	if gain <= 0 {
		return
	}
	n := len(buf) &^ 1 // whole samples only
	for i := 0; i < n; i += 2 {
		s := int16(buf[i]) | int16(buf[i+1])<<8
		s <<= uint(gain)
		buf[i] = byte(s)
		buf[i+1] = byte(s >> 8)
	}
}

// Peak returns the largest absolute sample value in buf, read as
// 16-bit little-endian samples. A full-scale negative sample reports
// 32768, one more than the positive maximum.
func Peak(buf []byte) int {
	peak := 0
	n := len(buf) &^ 1
	for i := 0; i < n; i += 2 {
		v := int(int16(buf[i]) | int16(buf[i+1])<<8)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return peak
}
