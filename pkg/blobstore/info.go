package blobstore

import (
	"context"

	"github.com/toshio/canistorage/pkg/apperror"
	"github.com/toshio/canistorage/pkg/identity"
	"github.com/toshio/canistorage/pkg/metadata"
	"github.com/toshio/canistorage/pkg/permission"
	"github.com/toshio/canistorage/pkg/storagepath"
)

// Info is a projection of a Record excluding its ACLs and signature,
// returned by GetInfo.
type Info struct {
	Size      uint64
	Creator   identity.Principal
	CreatedAt uint64
	Updater   identity.Principal
	UpdatedAt uint64
	MimeType  string
	SHA256    []byte
}

// Permission is the triple of capability booleans returned by
// HasPermission.
type Permission struct {
	Manageable bool
	Readable   bool
	Writable   bool
}

// GetInfo returns path's metadata, excluding its ACLs and signature.
func (s *Store) GetInfo(ctx context.Context, caller identity.Principal, path string) (*Info, error) {
	if err := storagepath.Validate(path); err != nil {
		return nil, err
	}

	rec, err := s.meta.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	ok, err := permission.Check(ctx, s.meta, caller, path, metadata.Read, rec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.PermissionDenied("read permission required for %s", path)
	}
	if rec == nil {
		return nil, apperror.NotFound("%s does not exist", path)
	}

	return &Info{
		Size:      rec.Size,
		Creator:   rec.Creator,
		CreatedAt: rec.CreatedAt,
		Updater:   rec.Updater,
		UpdatedAt: rec.UpdatedAt,
		MimeType:  rec.MimeType,
		SHA256:    rec.SHA256,
	}, nil
}

// HasPermission reports caller's manage/read/write capability at path.
// Fails NOT_FOUND if path itself carries no metadata.
func (s *Store) HasPermission(ctx context.Context, caller identity.Principal, path string) (*Permission, error) {
	if err := storagepath.Validate(path); err != nil {
		return nil, err
	}

	rec, err := s.meta.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperror.NotFound("%s does not exist", path)
	}

	manageable, err := permission.Check(ctx, s.meta, caller, path, metadata.Manage, rec)
	if err != nil {
		return nil, err
	}
	readable, err := permission.Check(ctx, s.meta, caller, path, metadata.Read, rec)
	if err != nil {
		return nil, err
	}
	writable, err := permission.Check(ctx, s.meta, caller, path, metadata.Write, rec)
	if err != nil {
		return nil, err
	}

	return &Permission{Manageable: manageable, Readable: readable, Writable: writable}, nil
}
