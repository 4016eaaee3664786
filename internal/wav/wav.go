package wav

import (
	"encoding/binary"
	"time"
)

// HeaderSize is the size of the canonical PCM WAV header in bytes.
const HeaderSize = 44

// Header builds the 44-byte RIFF/WAVE header for a PCM payload of
// dataSize bytes. Layout (all integers little-endian):
//
//	offset  0: "RIFF", file size - 8, "WAVE"
//	offset 12: "fmt ", chunk size 16, format 1 (PCM), channels,
//	           sample rate, byte rate, block align, bits per sample
//	offset 36: "data", payload size
func Header(dataSize, sampleRate, bitsPerSample, channels int) [HeaderSize]byte {
	var h [HeaderSize]byte
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], uint32(dataSize+HeaderSize-8))
	copy(h[8:12], "WAVE")
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16) // PCM format chunk size
	binary.LittleEndian.PutUint16(h[20:22], 1)  // format 1 = integer PCM
	binary.LittleEndian.PutUint16(h[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(h[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(h[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(h[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(h[34:36], uint16(bitsPerSample))
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], uint32(dataSize))
	return h
}

// Clip assembles a complete WAV file from a raw PCM payload.
// The result is a single buffer so storage can write it atomically.
func Clip(pcm []byte, sampleRate, bitsPerSample, channels int) []byte {
	h := Header(len(pcm), sampleRate, bitsPerSample, channels)
	out := make([]byte, 0, HeaderSize+len(pcm))
	out = append(out, h[:]...)
	out = append(out, pcm...)
	return out
}

// Duration returns the play time of a PCM payload of dataSize bytes.
func Duration(dataSize, sampleRate, bitsPerSample, channels int) time.Duration {
	byteRate := sampleRate * channels * bitsPerSample / 8
	if byteRate <= 0 {
		return 0
	}
	return time.Duration(dataSize) * time.Second / time.Duration(byteRate)
}
