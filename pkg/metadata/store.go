package metadata

import (
	"context"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/toshio/canistorage/pkg/apperror"
	"github.com/toshio/canistorage/pkg/storagepath"
	"github.com/toshio/canistorage/pkg/volume"
)

// Store reads and writes Records through a Volume, keyed by the node's
// sidecar path (see pkg/storagepath.SidecarOf).
type Store struct {
	vol volume.Volume
}

// NewStore builds a Store over vol.
func NewStore(vol volume.Volume) *Store {
	return &Store{vol: vol}
}

// Get returns the Record at path, or (nil, nil) if no metadata exists
// there.
func (s *Store) Get(ctx context.Context, path string) (*Record, error) {
	f, err := s.vol.Open(ctx, storagepath.SidecarOf(path))
	if volume.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Unknown("read metadata for %s: %v", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperror.Unknown("read metadata for %s: %v", path, err)
	}

	var rec Record
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return nil, apperror.Unknown("decode metadata for %s: %v", path, err)
	}
	return &rec, nil
}

// Set writes rec to path's sidecar file, overwriting any existing record.
func (s *Store) Set(ctx context.Context, path string, rec *Record) error {
	data, err := cbor.Marshal(rec)
	if err != nil {
		return apperror.Unknown("encode metadata for %s: %v", path, err)
	}

	f, err := s.vol.Create(ctx, storagepath.SidecarOf(path))
	if err != nil {
		return apperror.Unknown("write metadata for %s: %v", path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return apperror.Unknown("write metadata for %s: %v", path, err)
	}
	return nil
}

// Remove deletes path's sidecar file. Removing an absent sidecar is not an
// error.
func (s *Store) Remove(ctx context.Context, path string) error {
	err := s.vol.Remove(ctx, storagepath.SidecarOf(path))
	if err != nil && !volume.IsNotExist(err) {
		return apperror.Unknown("remove metadata for %s: %v", path, err)
	}
	return nil
}
