package camera

import "strings"

// Source is the high-level interface used by the rest of the
// application. It represents an abstract "camera" that delivers one
// finished JPEG photo per call, regardless of how frames are produced
// (V4L2 device, directory of stills, test fake).
type Source interface {
	// Capture grabs a single photo and returns its encoded bytes.
	Capture() ([]byte, error)
	// Close releases the underlying device.
	Close() error
}

// FourCC codes of the compressed pixel formats whose frames can go
// straight to the card as .jpg files.
const (
	FourccMJPG = uint32('M') | uint32('J')<<8 | uint32('P')<<16 | uint32('G')<<24
	FourccJPEG = uint32('J') | uint32('P')<<8 | uint32('E')<<16 | uint32('G')<<24
)

// PickFormat selects a JPEG-compressed pixel format from the formats
// a device offers (FourCC code to description). MJPG is preferred,
// then plain JPEG, then any format whose description mentions JPEG.
// Uncompressed formats are rejected: re-encoding YUV on a small board
// is not worth it when every UVC camera speaks MJPG.
func PickFormat(formats map[uint32]string) (uint32, bool) {
	if _, ok := formats[FourccMJPG]; ok {
		return FourccMJPG, true
	}
	if _, ok := formats[FourccJPEG]; ok {
		return FourccJPEG, true
	}
	for code, desc := range formats {
		if strings.Contains(strings.ToUpper(desc), "JPEG") {
			return code, true
		}
	}
	return 0, false
}
