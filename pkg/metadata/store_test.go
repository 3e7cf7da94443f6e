package metadata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toshio/canistorage/pkg/identity"
	"github.com/toshio/canistorage/pkg/volume/osvolume"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	vol, err := osvolume.New(t.TempDir())
	require.NoError(t, err)
	return NewStore(vol)
}

func TestGetMissingReturnsNil(t *testing.T) {
	s := newTestStore(t)
	rec, err := s.Get(context.Background(), "/a/b")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSetThenGetRoundTrips(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec := &Record{
		Size:       5,
		Creator:    "alice",
		CreatedAt:  1000,
		Updater:    "alice",
		UpdatedAt:  1000,
		MimeType:   "text/plain",
		SHA256:     []byte{1, 2, 3},
		Readable:   []identity.Principal{"alice"},
		Writable:   []identity.Principal{"alice"},
		Manageable: []identity.Principal{"alice"},
	}
	require.NoError(t, s.Set(ctx, "/a/b", rec))

	got, err := s.Get(ctx, "/a/b")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.Size, got.Size)
	assert.Equal(t, rec.Creator, got.Creator)
	assert.Equal(t, rec.MimeType, got.MimeType)
	assert.Equal(t, rec.SHA256, got.SHA256)
	assert.Equal(t, rec.Readable, got.Readable)
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Remove(ctx, "/missing")) // absent sidecar, no error

	require.NoError(t, s.Set(ctx, "/a", &Record{MimeType: "text/plain"}))
	require.NoError(t, s.Remove(ctx, "/a"))

	rec, err := s.Get(ctx, "/a")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
