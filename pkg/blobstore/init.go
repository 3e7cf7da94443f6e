package blobstore

import (
	"context"
	"sort"

	"github.com/toshio/canistorage/pkg/apperror"
	"github.com/toshio/canistorage/pkg/identity"
	"github.com/toshio/canistorage/pkg/metadata"
	"github.com/toshio/canistorage/pkg/storagepath"
)

// Version is the module's own version string, returned verbatim by
// GetVersion (mirroring the original canister's diagnostic query).
const Version = "0.1.0"

// ModuleName is the module's diagnostic name, prefixed onto GetVersion's
// result.
const ModuleName = "canistorage"

// GetVersion returns "<module> <version>".
func (s *Store) GetVersion() string {
	return ModuleName + " " + Version
}

// InitCanistorage creates the root node, granting caller all three
// capabilities there. It may be called exactly once.
func (s *Store) InitCanistorage(ctx context.Context, caller identity.Principal) error {
	if caller.IsAnonymous() {
		return apperror.PermissionDenied("anonymous caller cannot initialize the store")
	}

	existing, err := s.meta.Get(ctx, storagepath.Root)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.AlreadyInitialized("root is already initialized")
	}

	now := s.clock.NowMs()
	return s.meta.Set(ctx, storagepath.Root, &metadata.Record{
		Creator:    caller,
		CreatedAt:  now,
		Updater:    caller,
		UpdatedAt:  now,
		MimeType:   metadata.DirectoryMimeType,
		Manageable: []identity.Principal{caller},
		Readable:   []identity.Principal{caller},
		Writable:   []identity.Principal{caller},
	})
}

// TreeEntry is one node in the recursive dump GetAllInfo returns.
type TreeEntry struct {
	Path     string
	Info     Info
	Children []TreeEntry
}

// GetAllInfo recursively dumps the tree rooted at path, for debugging and
// development only. Directories sort before files at each level, ties
// broken by path.
func (s *Store) GetAllInfo(ctx context.Context, caller identity.Principal, path string) (*TreeEntry, error) {
	info, err := s.GetInfo(ctx, caller, path)
	if err != nil {
		return nil, err
	}
	entry := &TreeEntry{Path: path, Info: *info}
	if info.MimeType != metadata.DirectoryMimeType {
		return entry, nil
	}

	names, err := s.List(ctx, caller, path)
	if err != nil {
		return nil, err
	}
	sort.Slice(names, func(i, j int) bool {
		iDir, jDir := isDirName(names[i]), isDirName(names[j])
		if iDir != jDir {
			return iDir
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		childPath := joinChild(path, trimTrailingSlash(name))
		child, err := s.GetAllInfo(ctx, caller, childPath)
		if err != nil {
			return nil, err
		}
		entry.Children = append(entry.Children, *child)
	}
	return entry, nil
}

func isDirName(name string) bool {
	return len(name) > 0 && name[len(name)-1] == '/'
}

func trimTrailingSlash(name string) string {
	if isDirName(name) {
		return name[:len(name)-1]
	}
	return name
}
