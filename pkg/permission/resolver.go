// Package permission implements the recursive, inherit-from-ancestors
// capability check: a principal holds a capability at a path if that path's
// own metadata grants it directly, or if an ancestor's metadata does.
package permission

import (
	"context"

	"github.com/toshio/canistorage/pkg/identity"
	"github.com/toshio/canistorage/pkg/metadata"
	"github.com/toshio/canistorage/pkg/storagepath"
)

// MetadataGetter is the subset of *metadata.Store that resolution needs.
type MetadataGetter interface {
	Get(ctx context.Context, path string) (*metadata.Record, error)
}

// Check reports whether principal holds cap at path, walking from path
// toward storagepath.Root and stopping at the first grant found. rec, if
// non-nil, is the already-loaded Record for path (avoids a redundant Get).
func Check(ctx context.Context, store MetadataGetter, principal identity.Principal, path string, cap metadata.Capability, rec *metadata.Record) (bool, error) {
	var err error
	if rec == nil {
		rec, err = store.Get(ctx, path)
		if err != nil {
			return false, err
		}
	}
	if rec != nil && rec.Has(cap, principal) {
		return true, nil
	}
	if path == storagepath.Root {
		return false, nil
	}
	return Check(ctx, store, principal, storagepath.ParentOf(path), cap, nil)
}
