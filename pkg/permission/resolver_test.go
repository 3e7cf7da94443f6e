package permission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toshio/canistorage/pkg/identity"
	"github.com/toshio/canistorage/pkg/metadata"
	"github.com/toshio/canistorage/pkg/volume/osvolume"
)

func newTestStore(t *testing.T) *metadata.Store {
	t.Helper()
	vol, err := osvolume.New(t.TempDir())
	require.NoError(t, err)
	return metadata.NewStore(vol)
}

func TestCheckDirectGrant(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Set(ctx, "/docs", &metadata.Record{
		Readable: []identity.Principal{"alice"},
	}))

	ok, err := Check(ctx, store, "alice", "/docs", metadata.Read, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Check(ctx, store, "bob", "/docs", metadata.Read, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckInheritsFromAncestor(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Set(ctx, "/docs", &metadata.Record{
		Writable: []identity.Principal{"alice"},
	}))

	ok, err := Check(ctx, store, "alice", "/docs/reports/q1.pdf", metadata.Write, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckNoGrantAnywhereReturnsFalse(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	ok, err := Check(ctx, store, "alice", "/docs/reports/q1.pdf", metadata.Manage, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckStopsAtRoot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Set(ctx, "/", &metadata.Record{
		Manageable: []identity.Principal{"root-admin"},
	}))

	ok, err := Check(ctx, store, "root-admin", "/a/b/c", metadata.Manage, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Check(ctx, store, "nobody", "/", metadata.Manage, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}
