// Package blobstore implements the permissioned hierarchical blob store's
// core operations: save, load, delete, directory management, listing,
// info/permission queries and mutation, and initialization. Every
// operation funnels through the same ordering: validate path, resolve
// permission, check operation-specific preconditions, stage the effect on
// the backing volume, then update metadata.
package blobstore

import (
	"github.com/toshio/canistorage/internal/bytesize"
	"github.com/toshio/canistorage/pkg/clock"
	"github.com/toshio/canistorage/pkg/metadata"
	"github.com/toshio/canistorage/pkg/upload"
	"github.com/toshio/canistorage/pkg/volume"
)

// MaxDownloadChunk is the largest slice of file content a single Load call
// returns; larger files must be read with successive calls advancing
// start_at.
const MaxDownloadChunk = uint64(bytesize.MiB)

// Store is the top-level service: everything in the system outside the
// host-provided Identity, Clock, and Volume collaborators lives behind
// this type.
type Store struct {
	vol     volume.Volume
	meta    *metadata.Store
	clock   clock.Clock
	Uploads *upload.Manager
}

// New wires a Store over vol, using clk for all timestamps and the default
// upload session idle timeout.
func New(vol volume.Volume, clk clock.Clock) *Store {
	return NewWithUploadExpiry(vol, clk, upload.ExpiryMs)
}

// NewWithUploadExpiry wires a Store whose upload sessions expire after
// uploadExpiryMs of inactivity, overriding upload.ExpiryMs (used to apply
// config.UploadConfig.IdleTimeout).
func NewWithUploadExpiry(vol volume.Volume, clk clock.Clock, uploadExpiryMs uint64) *Store {
	meta := metadata.NewStore(vol)
	return &Store{
		vol:     vol,
		meta:    meta,
		clock:   clk,
		Uploads: upload.NewWithExpiry(meta, vol, clk, uploadExpiryMs),
	}
}
