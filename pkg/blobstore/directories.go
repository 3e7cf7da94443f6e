package blobstore

import (
	"context"
	"sort"

	"github.com/toshio/canistorage/pkg/apperror"
	"github.com/toshio/canistorage/pkg/identity"
	"github.com/toshio/canistorage/pkg/metadata"
	"github.com/toshio/canistorage/pkg/permission"
	"github.com/toshio/canistorage/pkg/storagepath"
	"github.com/toshio/canistorage/pkg/volume"
)

// CreateDirectory creates path as an empty directory.
func (s *Store) CreateDirectory(ctx context.Context, caller identity.Principal, path string) error {
	if err := storagepath.Validate(path); err != nil {
		return err
	}

	rec, err := s.meta.Get(ctx, path)
	if err != nil {
		return err
	}
	ok, err := permission.Check(ctx, s.meta, caller, path, metadata.Write, rec)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.PermissionDenied("write permission required for %s", path)
	}
	if rec != nil {
		return apperror.AlreadyExists("%s already exists", path)
	}

	parent := storagepath.ContainingDirectory(path)
	parentRec, err := s.meta.Get(ctx, parent)
	if err != nil {
		return err
	}
	if parentRec == nil || !parentRec.IsDirectory() {
		return apperror.NotFound("parent directory %s does not exist", parent)
	}

	if err := s.vol.Mkdir(ctx, path); err != nil {
		return apperror.Unknown("create directory %s: %v", path, err)
	}

	now := s.clock.NowMs()
	return s.meta.Set(ctx, path, &metadata.Record{
		Creator:   caller,
		CreatedAt: now,
		Updater:   caller,
		UpdatedAt: now,
		MimeType:  metadata.DirectoryMimeType,
	})
}

// DeleteDirectory removes path. This requires read rather than write
// capability. If recursively is false, the directory must be empty.
func (s *Store) DeleteDirectory(ctx context.Context, caller identity.Principal, path string, recursively bool) error {
	if err := storagepath.Validate(path); err != nil {
		return err
	}

	rec, err := s.meta.Get(ctx, path)
	if err != nil {
		return err
	}
	ok, err := permission.Check(ctx, s.meta, caller, path, metadata.Read, rec)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.PermissionDenied("read permission required for %s", path)
	}
	if rec == nil {
		return apperror.NotFound("%s does not exist", path)
	}

	if recursively {
		if err := s.removeSubtree(ctx, path); err != nil {
			return err
		}
		if err := s.vol.Remove(ctx, path); err != nil {
			return apperror.Unknown("remove directory %s: %v", path, err)
		}
	} else {
		entries, err := s.vol.ReadDir(ctx, path)
		if err != nil {
			return apperror.Unknown("read directory %s: %v", path, err)
		}
		for _, e := range entries {
			if !storagepath.IsSidecar(e.Name) {
				return apperror.Unknown("directory %s is not empty", path)
			}
		}
		if err := s.vol.Remove(ctx, path); err != nil {
			return apperror.Unknown("remove directory %s: %v", path, err)
		}
	}

	return s.meta.Remove(ctx, path)
}

// removeSubtree recursively removes path's children (content and sidecars)
// before the directory itself, leaving path's own sidecar for the caller
// to remove last.
func (s *Store) removeSubtree(ctx context.Context, path string) error {
	entries, err := s.vol.ReadDir(ctx, path)
	if err != nil {
		return apperror.Unknown("read directory %s: %v", path, err)
	}

	for _, e := range entries {
		if storagepath.IsSidecar(e.Name) {
			continue
		}
		childPath := joinChild(path, e.Name)
		if e.Type == volume.TypeDirectory {
			if err := s.removeSubtree(ctx, childPath); err != nil {
				return err
			}
			if err := s.vol.Remove(ctx, childPath); err != nil {
				return apperror.Unknown("remove directory %s: %v", childPath, err)
			}
		} else {
			if err := s.vol.Remove(ctx, childPath); err != nil {
				return apperror.Unknown("remove %s: %v", childPath, err)
			}
		}
		if err := s.meta.Remove(ctx, childPath); err != nil {
			return err
		}
	}
	return nil
}

func joinChild(parent, name string) string {
	if parent == storagepath.Root {
		return storagepath.Root + name
	}
	return parent + "/" + name
}

// List returns the sorted names of path's immediate children, with a
// trailing "/" appended to directory entries. Sidecar and staging files
// are excluded.
func (s *Store) List(ctx context.Context, caller identity.Principal, path string) ([]string, error) {
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

	entries, err := s.vol.ReadDir(ctx, path)
	if err != nil {
		return nil, apperror.Unknown("read directory %s: %v", path, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if storagepath.IsSidecar(e.Name) {
			continue
		}
		name := e.Name
		if e.Type == volume.TypeDirectory {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
