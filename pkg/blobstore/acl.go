package blobstore

import (
	"context"

	"github.com/toshio/canistorage/pkg/apperror"
	"github.com/toshio/canistorage/pkg/identity"
	"github.com/toshio/canistorage/pkg/metadata"
	"github.com/toshio/canistorage/pkg/permission"
	"github.com/toshio/canistorage/pkg/storagepath"
)

// AddPermission grants principal the capabilities flagged true at path.
// Requires manage capability. Granting an already-held capability is a
// silent no-op.
func (s *Store) AddPermission(ctx context.Context, caller, principal identity.Principal, path string, manageable, readable, writable bool) error {
	return s.editGrants(ctx, caller, principal, path, manageable, readable, writable, (*metadata.Record).AddGrant)
}

// RemovePermission revokes principal's capabilities flagged true at path.
// Requires manage capability. Revoking an absent capability is a silent
// no-op.
func (s *Store) RemovePermission(ctx context.Context, caller, principal identity.Principal, path string, manageable, readable, writable bool) error {
	return s.editGrants(ctx, caller, principal, path, manageable, readable, writable, (*metadata.Record).RemoveGrant)
}

func (s *Store) editGrants(ctx context.Context, caller, principal identity.Principal, path string, manageable, readable, writable bool, edit func(*metadata.Record, metadata.Capability, identity.Principal)) error {
	if err := storagepath.Validate(path); err != nil {
		return err
	}

	rec, err := s.meta.Get(ctx, path)
	if err != nil {
		return err
	}
	ok, err := permission.Check(ctx, s.meta, caller, path, metadata.Manage, rec)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.PermissionDenied("manage permission required for %s", path)
	}
	if rec == nil {
		return apperror.NotFound("%s does not exist", path)
	}

	if manageable {
		edit(rec, metadata.Manage, principal)
	}
	if readable {
		edit(rec, metadata.Read, principal)
	}
	if writable {
		edit(rec, metadata.Write, principal)
	}

	return s.meta.Set(ctx, path, rec)
}
