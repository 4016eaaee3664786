//go:build !linux

package camera

import "fmt"

// NewV4L2 needs Video4Linux2, which only exists on Linux. Use the
// stilldir camera for development on other platforms.
func NewV4L2(device string, width, height int) (Source, error) {
	return nil, fmt.Errorf("v4l2 camera %s: only supported on linux", device)
}
