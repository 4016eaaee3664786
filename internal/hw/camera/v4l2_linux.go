//go:build linux

package camera

import (
	"fmt"
	"time"

	"github.com/blackjack/webcam"

	"github.com/cjeanneret/TrapGo/internal/debug"
)

// frameTimeoutSec is how long Capture waits for the sensor to deliver
// a frame before giving up.
const frameTimeoutSec = 2

// V4L2 captures stills from a Video4Linux2 device: USB UVC cameras,
// or the Raspberry Pi camera through its V4L2 driver. The device
// streams continuously and Capture grabs the next frame, so exposure
// and white balance have settled by the time a photo is due.
type V4L2 struct {
	cam    *webcam.Webcam
	device string
}

// NewV4L2 opens the device, negotiates a JPEG-compressed format as
// close to width x height as the sensor allows, and starts streaming.
func NewV4L2(device string, width, height int) (Source, error) {
	cam, err := webcam.Open(device)
	if err != nil {
		return nil, fmt.Errorf("open camera %s: %w", device, err)
	}

	formats := make(map[uint32]string)
	for f, desc := range cam.GetSupportedFormats() {
		formats[uint32(f)] = desc
	}
	code, ok := PickFormat(formats)
	if !ok {
		cam.Close()
		return nil, fmt.Errorf("camera %s offers no JPEG format (got %v)", device, formats)
	}

	_, w, h, err := cam.SetImageFormat(webcam.PixelFormat(code), uint32(width), uint32(height))
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("set image format on %s: %w", device, err)
	}
	debug.Info("Camera %s: %s at %dx%d", device, formats[code], w, h)

	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return nil, fmt.Errorf("start streaming on %s: %w", device, err)
	}

	return &V4L2{cam: cam, device: device}, nil
}

// Capture returns the next frame from the device as JPEG bytes.
func (v *V4L2) Capture() ([]byte, error) {
	start := time.Now()
	for {
		err := v.cam.WaitForFrame(frameTimeoutSec)
		switch err.(type) {
		case nil:
		case *webcam.Timeout:
			return nil, fmt.Errorf("camera %s: no frame within %ds", v.device, frameTimeoutSec)
		default:
			return nil, fmt.Errorf("wait for frame on %s: %w", v.device, err)
		}

		frame, err := v.cam.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("read frame from %s: %w", v.device, err)
		}
		if len(frame) == 0 {
			// Buffer not filled yet, wait for the next one.
			continue
		}

		// ReadFrame hands out the mmap'd kernel buffer, which is
		// recycled on the next read. Copy before returning.
		out := make([]byte, len(frame))
		copy(out, frame)
		debug.Printf("V4L2 capture: %d bytes in %v", len(out), time.Since(start))
		return out, nil
	}
}

func (v *V4L2) Close() error {
	_ = v.cam.StopStreaming()
	return v.cam.Close()
}
