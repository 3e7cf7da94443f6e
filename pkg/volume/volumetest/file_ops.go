package volumetest

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toshio/canistorage/pkg/volume"
)

func runFileOpsTests(t *testing.T, factory Factory) {
	t.Run("CreateWriteOpenRead", func(t *testing.T) { testCreateWriteOpenRead(t, factory) })
	t.Run("CreateTruncatesExisting", func(t *testing.T) { testCreateTruncatesExisting(t, factory) })
	t.Run("OpenMissingIsNotExist", func(t *testing.T) { testOpenMissingIsNotExist(t, factory) })
	t.Run("StatMissingIsNotExist", func(t *testing.T) { testStatMissingIsNotExist(t, factory) })
	t.Run("StatDistinguishesTypes", func(t *testing.T) { testStatDistinguishesTypes(t, factory) })
	t.Run("Remove", func(t *testing.T) { testRemove(t, factory) })
	t.Run("RemoveMissingIsError", func(t *testing.T) { testRemoveMissingIsError(t, factory) })
	t.Run("Rename", func(t *testing.T) { testRename(t, factory) })
	t.Run("RenameOverwritesExisting", func(t *testing.T) { testRenameOverwritesExisting(t, factory) })
	t.Run("SeekWithinFile", func(t *testing.T) { testSeekWithinFile(t, factory) })
}

func testCreateWriteOpenRead(t *testing.T, factory Factory) {
	ctx := context.Background()
	v := factory(t)

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

func testCreateTruncatesExisting(t *testing.T, factory Factory) {
	ctx := context.Background()
	v := factory(t)

	f, err := v.Create(ctx, "/f")
	require.NoError(t, err)
	_, err = f.Write([]byte("first write, longer"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = v.Create(ctx, "/f")
	require.NoError(t, err)
	_, err = f.Write([]byte("short"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	r, err := v.Open(ctx, "/f")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "short", string(data))
}

func testOpenMissingIsNotExist(t *testing.T, factory Factory) {
	ctx := context.Background()
	v := factory(t)

	_, err := v.Open(ctx, "/missing")
	require.Error(t, err)
	assert.True(t, volume.IsNotExist(err))
}

func testStatMissingIsNotExist(t *testing.T, factory Factory) {
	ctx := context.Background()
	v := factory(t)

	_, err := v.Stat(ctx, "/missing")
	require.Error(t, err)
	assert.True(t, volume.IsNotExist(err))
}

func testStatDistinguishesTypes(t *testing.T, factory Factory) {
	ctx := context.Background()
	v := factory(t)

	require.NoError(t, v.Mkdir(ctx, "/dir"))
	f, err := v.Create(ctx, "/file")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	typ, err := v.Stat(ctx, "/dir")
	require.NoError(t, err)
	assert.Equal(t, volume.TypeDirectory, typ)

	typ, err = v.Stat(ctx, "/file")
	require.NoError(t, err)
	assert.Equal(t, volume.TypeRegular, typ)
}

func testRemove(t *testing.T, factory Factory) {
	ctx := context.Background()
	v := factory(t)

	f, err := v.Create(ctx, "/gone")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, v.Remove(ctx, "/gone"))

	_, err = v.Stat(ctx, "/gone")
	require.Error(t, err)
	assert.True(t, volume.IsNotExist(err))
}

func testRemoveMissingIsError(t *testing.T, factory Factory) {
	ctx := context.Background()
	v := factory(t)

	err := v.Remove(ctx, "/missing")
	require.Error(t, err)
}

func testRename(t *testing.T, factory Factory) {
	ctx := context.Background()
	v := factory(t)

	f, err := v.Create(ctx, "/old")
	require.NoError(t, err)
	_, err = f.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, v.Rename(ctx, "/old", "/new"))

	_, err = v.Stat(ctx, "/old")
	assert.True(t, volume.IsNotExist(err))

	r, err := v.Open(ctx, "/new")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func testRenameOverwritesExisting(t *testing.T, factory Factory) {
	ctx := context.Background()
	v := factory(t)

	src, err := v.Create(ctx, "/src")
	require.NoError(t, err)
	_, err = src.Write([]byte("new"))
	require.NoError(t, err)
	require.NoError(t, src.Close())

	dst, err := v.Create(ctx, "/dst")
	require.NoError(t, err)
	_, err = dst.Write([]byte("stale content here"))
	require.NoError(t, err)
	require.NoError(t, dst.Close())

	require.NoError(t, v.Rename(ctx, "/src", "/dst"))

	r, err := v.Open(ctx, "/dst")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func testSeekWithinFile(t *testing.T, factory Factory) {
	ctx := context.Background()
	v := factory(t)

	f, err := v.Create(ctx, "/seek")
	require.NoError(t, err)
	_, err = f.Write([]byte("0123456789"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	r, err := v.Open(ctx, "/seek")
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Seek(5, io.SeekStart)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "56789", string(data))
}
