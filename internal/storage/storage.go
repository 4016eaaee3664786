package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cjeanneret/TrapGo/internal/debug"
)

// probeName is the temporary file used to verify the card is writable.
const probeName = ".trapgo-probe"

// Store persists finished captures. Write must create the file: an
// existing name is an error, never an overwrite, so a restart loop
// cannot destroy earlier captures.
type Store interface {
	Write(name string, data []byte) error
}

// DirStore writes captures into a single flat directory, normally the
// mount point of the removable card.
type DirStore struct {
	root    string
	minFree int64
}

// NewDirStore checks that root exists and is writable by creating and
// removing a small probe file, then returns the store. A missing or
// read-only card fails here, before any capture is attempted.
// minFree is a free-space floor in bytes below which writes are
// refused; 0 disables the floor.
func NewDirStore(root string, minFree int64) (*DirStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("storage root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage root %s is not a directory", root)
	}

	probe := filepath.Join(root, probeName)
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return nil, fmt.Errorf("storage root %s is not writable: %w", root, err)
	}
	if err := os.Remove(probe); err != nil {
		return nil, fmt.Errorf("remove probe file: %w", err)
	}

	debug.Info("Storage ready at %s", root)
	return &DirStore{root: root, minFree: minFree}, nil
}

// Write stores data under name inside the root directory, as a single
// create-and-write so a finished file is either fully there or absent.
func (s *DirStore) Write(name string, data []byte) error {
	if s.minFree > 0 {
		free, err := freeBytes(s.root)
		if err == nil && free >= 0 && free < s.minFree {
			return fmt.Errorf("card below free-space floor: %d bytes left, floor %d", free, s.minFree)
		}
	}

	path := filepath.Join(s.root, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	debug.IO("write", path, len(data))
	return nil
}
