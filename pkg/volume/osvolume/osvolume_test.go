package osvolume

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toshio/canistorage/pkg/volume"
	"github.com/toshio/canistorage/pkg/volume/volumetest"
)

func newTestVolume(t *testing.T) *Volume {
	t.Helper()
	v, err := New(t.TempDir())
	require.NoError(t, err)
	return v
}

func TestConformance(t *testing.T) {
	volumetest.RunConformanceSuite(t, func(t *testing.T) volume.Volume {
		return newTestVolume(t)
	})
}

func TestCreateWriteOpenRead(t *testing.T) {
	ctx := context.Background()
	v := newTestVolume(t)

	f, err := v.Create(ctx, "/a/b")
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	r, err := v.Open(ctx, "/a/b")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestOpenMissingReturnsNotExist(t *testing.T) {
	ctx := context.Background()
	v := newTestVolume(t)

	_, err := v.Open(ctx, "/missing")
	assert.True(t, os.IsNotExist(err))
}

func TestRenameAndRemove(t *testing.T) {
	ctx := context.Background()
	v := newTestVolume(t)

	f, err := v.Create(ctx, "/src")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, v.Rename(ctx, "/src", "/dst"))
	_, err = v.Stat(ctx, "/dst")
	require.NoError(t, err)

	require.NoError(t, v.Remove(ctx, "/dst"))
	_, err = v.Stat(ctx, "/dst")
	assert.True(t, os.IsNotExist(err))
}

func TestMkdirAndReadDir(t *testing.T) {
	ctx := context.Background()
	v := newTestVolume(t)

	require.NoError(t, v.Mkdir(ctx, "/dir"))
	typ, err := v.Stat(ctx, "/dir")
	require.NoError(t, err)
	assert.Equal(t, volume.TypeDirectory, typ)

	f, err := v.Create(ctx, "/dir/file")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	entries, err := v.ReadDir(ctx, "/dir")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "file", entries[0].Name)
	assert.Equal(t, volume.TypeRegular, entries[0].Type)
}

func TestMkdirOnExistingFileFails(t *testing.T) {
	ctx := context.Background()
	v := newTestVolume(t)

	f, err := v.Create(ctx, "/leaf")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	err = v.Mkdir(ctx, "/leaf")
	assert.Error(t, err)
}
