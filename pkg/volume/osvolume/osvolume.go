// Package osvolume implements volume.Volume on top of the local
// filesystem via the standard library os package. This is the default
// backend for a single-binary deployment with a real host filesystem.
package osvolume

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/toshio/canistorage/pkg/volume"
)

// Volume roots every logical path under a base directory on disk.
type Volume struct {
	base string
}

// New creates a Volume rooted at base. The directory is created if it does
// not already exist.
func New(base string) (*Volume, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("osvolume: create base dir: %w", err)
	}
	return &Volume{base: base}, nil
}

// resolve maps a logical path ("/a/b") onto a real filesystem path rooted
// at v.base. Logical paths are validated upstream by pkg/storagepath, so
// this is a straight join, not a sanitizing function.
func (v *Volume) resolve(path string) string {
	return filepath.Join(v.base, filepath.FromSlash(path))
}

// Open implements volume.Volume.
func (v *Volume) Open(_ context.Context, path string) (volume.File, error) {
	f, err := os.Open(v.resolve(path))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Create implements volume.Volume.
func (v *Volume) Create(_ context.Context, path string) (volume.File, error) {
	real := v.resolve(path)
	if err := os.MkdirAll(filepath.Dir(real), 0o755); err != nil {
		return nil, fmt.Errorf("osvolume: create parent dir: %w", err)
	}
	f, err := os.OpenFile(real, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Remove implements volume.Volume.
func (v *Volume) Remove(_ context.Context, path string) error {
	return os.Remove(v.resolve(path))
}

// Rename implements volume.Volume.
func (v *Volume) Rename(_ context.Context, oldPath, newPath string) error {
	real := v.resolve(newPath)
	if err := os.MkdirAll(filepath.Dir(real), 0o755); err != nil {
		return fmt.Errorf("osvolume: create parent dir: %w", err)
	}
	return os.Rename(v.resolve(oldPath), real)
}

// ReadDir implements volume.Volume.
func (v *Volume) ReadDir(_ context.Context, path string) ([]volume.DirEntry, error) {
	entries, err := os.ReadDir(v.resolve(path))
	if err != nil {
		return nil, err
	}
	result := make([]volume.DirEntry, 0, len(entries))
	for _, e := range entries {
		typ := volume.TypeRegular
		if e.IsDir() {
			typ = volume.TypeDirectory
		}
		result = append(result, volume.DirEntry{Name: e.Name(), Type: typ})
	}
	return result, nil
}

// Stat implements volume.Volume.
func (v *Volume) Stat(_ context.Context, path string) (volume.FileType, error) {
	info, err := os.Stat(v.resolve(path))
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return volume.TypeDirectory, nil
	}
	return volume.TypeRegular, nil
}

// Mkdir implements volume.Volume.
func (v *Volume) Mkdir(_ context.Context, path string) error {
	real := v.resolve(path)
	info, err := os.Stat(real)
	if err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("osvolume: %s exists and is not a directory", path)
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(real, 0o755)
}

var _ volume.Volume = (*Volume)(nil)
