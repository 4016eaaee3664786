package camera

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cjeanneret/TrapGo/internal/debug"
)

// StillDir replays JPEG files from a directory in name order, looping
// forever. It stands in for a real camera so the whole pipeline can
// run on a desk without hardware.
type StillDir struct {
	files []string
	next  int
}

// NewStillDir scans dir for .jpg/.jpeg files. At least one is
// required.
func NewStillDir(dir string) (*StillDir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read still directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .jpg files in %s", dir)
	}

	debug.Info("StillDir camera: %d stills from %s", len(files), dir)
	return &StillDir{files: files}, nil
}

// Capture returns the next still, wrapping around at the end.
func (s *StillDir) Capture() ([]byte, error) {
	path := s.files[s.next]
	s.next = (s.next + 1) % len(s.files)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read still %s: %w", path, err)
	}
	debug.Printf("StillDir capture: %s (%d bytes)", path, len(data))
	return data, nil
}

func (s *StillDir) Close() error {
	return nil
}
