package volumetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toshio/canistorage/pkg/volume"
)

func runDirOpsTests(t *testing.T, factory Factory) {
	t.Run("MkdirThenStat", func(t *testing.T) { testMkdirThenStat(t, factory) })
	t.Run("MkdirExistingIsNoop", func(t *testing.T) { testMkdirExistingIsNoop(t, factory) })
	t.Run("MkdirOverFileIsError", func(t *testing.T) { testMkdirOverFileIsError(t, factory) })
	t.Run("ReadDirListsChildren", func(t *testing.T) { testReadDirListsChildren(t, factory) })
	t.Run("ReadDirMissingIsNotExist", func(t *testing.T) { testReadDirMissingIsNotExist(t, factory) })
	t.Run("ReadDirEmpty", func(t *testing.T) { testReadDirEmpty(t, factory) })
}

func testMkdirThenStat(t *testing.T, factory Factory) {
	ctx := context.Background()
	v := factory(t)

	require.NoError(t, v.Mkdir(ctx, "/dir"))

	typ, err := v.Stat(ctx, "/dir")
	require.NoError(t, err)
	assert.Equal(t, volume.TypeDirectory, typ)
}

func testMkdirExistingIsNoop(t *testing.T, factory Factory) {
	ctx := context.Background()
	v := factory(t)

	require.NoError(t, v.Mkdir(ctx, "/dir"))
	require.NoError(t, v.Mkdir(ctx, "/dir"))
}

func testMkdirOverFileIsError(t *testing.T, factory Factory) {
	ctx := context.Background()
	v := factory(t)

	f, err := v.Create(ctx, "/file")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	err = v.Mkdir(ctx, "/file")
	require.Error(t, err)
}

func testReadDirListsChildren(t *testing.T, factory Factory) {
	ctx := context.Background()
	v := factory(t)

	require.NoError(t, v.Mkdir(ctx, "/dir"))
	f, err := v.Create(ctx, "/dir/a")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, v.Mkdir(ctx, "/dir/b"))

	entries, err := v.ReadDir(ctx, "/dir")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := map[string]volume.FileType{}
	for _, e := range entries {
		byName[e.Name] = e.Type
	}
	assert.Equal(t, volume.TypeRegular, byName["a"])
	assert.Equal(t, volume.TypeDirectory, byName["b"])
}

func testReadDirMissingIsNotExist(t *testing.T, factory Factory) {
	ctx := context.Background()
	v := factory(t)

	_, err := v.ReadDir(ctx, "/missing")
	require.Error(t, err)
	assert.True(t, volume.IsNotExist(err))
}

func testReadDirEmpty(t *testing.T, factory Factory) {
	ctx := context.Background()
	v := factory(t)

	require.NoError(t, v.Mkdir(ctx, "/empty"))

	entries, err := v.ReadDir(ctx, "/empty")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
