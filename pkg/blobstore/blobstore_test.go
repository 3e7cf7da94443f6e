package blobstore

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toshio/canistorage/pkg/apperror"
	"github.com/toshio/canistorage/pkg/clock"
	"github.com/toshio/canistorage/pkg/identity"
	"github.com/toshio/canistorage/pkg/volume/osvolume"
)

func newTestStore(t *testing.T) (*Store, identity.Principal) {
	t.Helper()
	vol, err := osvolume.New(t.TempDir())
	require.NoError(t, err)
	s := New(vol, clock.NewVirtual(1_000))

	alice := identity.Principal("alice")
	require.NoError(t, s.InitCanistorage(context.Background(), alice))
	return s, alice
}

func TestInitCanistorageRejectsAnonymousAndDoubleInit(t *testing.T) {
	ctx := context.Background()
	vol, err := osvolume.New(t.TempDir())
	require.NoError(t, err)
	s := New(vol, clock.NewVirtual(0))

	err = s.InitCanistorage(ctx, identity.Anonymous)
	require.Error(t, err)
	assert.Equal(t, apperror.CodePermissionDenied, apperror.CodeOf(err))

	require.NoError(t, s.InitCanistorage(ctx, "alice"))

	err = s.InitCanistorage(ctx, "alice")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeAlreadyInitialized, apperror.CodeOf(err))
}

func TestSaveLoadSmallFile(t *testing.T) {
	ctx := context.Background()
	s, alice := newTestStore(t)

	require.NoError(t, s.Save(ctx, alice, "/a.txt", "text/plain", []byte("Hello"), false))

	dl, err := s.Load(ctx, alice, "/a.txt", 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello"), dl.Chunk)
	assert.Equal(t, uint64(5), dl.DownloadedAt)
	sum := sha256.Sum256([]byte("Hello"))
	assert.Equal(t, sum[:], dl.SHA256)

	info, err := s.GetInfo(ctx, alice, "/a.txt")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), info.Size)
	assert.Equal(t, sum[:], info.SHA256)
}

func TestSaveWithoutOverwriteFails(t *testing.T) {
	ctx := context.Background()
	s, alice := newTestStore(t)

	require.NoError(t, s.Save(ctx, alice, "/a.txt", "text/plain", []byte("Hello"), false))

	err := s.Save(ctx, alice, "/a.txt", "text/plain", []byte("Bye"), false)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeAlreadyExists, apperror.CodeOf(err))
}

func TestSaveRejectsWhenUploadSessionActive(t *testing.T) {
	ctx := context.Background()
	s, alice := newTestStore(t)

	require.NoError(t, s.Uploads.Begin(ctx, alice, "/a.txt", "text/plain", false))

	err := s.Save(ctx, alice, "/a.txt", "text/plain", []byte("clobber"), false)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeAlreadyExists, apperror.CodeOf(err))

	require.NoError(t, s.Uploads.Cancel(ctx, alice, "/a.txt"))
	require.NoError(t, s.Save(ctx, alice, "/a.txt", "text/plain", []byte("ok"), false))
}

func TestPermissionInheritance(t *testing.T) {
	ctx := context.Background()
	s, alice := newTestStore(t)

	require.NoError(t, s.CreateDirectory(ctx, alice, "/d"))
	require.NoError(t, s.CreateDirectory(ctx, alice, "/d/sub"))
	require.NoError(t, s.AddPermission(ctx, alice, "bob", "/d", false, true, false))

	_, err := s.List(ctx, "bob", "/d/sub")
	require.NoError(t, err)

	_, err = s.List(ctx, "carol", "/d/sub")
	require.Error(t, err)
	assert.Equal(t, apperror.CodePermissionDenied, apperror.CodeOf(err))
}

func TestDeleteRequiresPermissionAndReportsNotFound(t *testing.T) {
	ctx := context.Background()
	s, alice := newTestStore(t)

	require.NoError(t, s.Save(ctx, alice, "/a.txt", "text/plain", []byte("x"), false))
	require.NoError(t, s.Delete(ctx, alice, "/a.txt"))

	err := s.Delete(ctx, alice, "/a.txt")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}

func TestDeleteDirectoryUsesReadPermission(t *testing.T) {
	ctx := context.Background()
	s, alice := newTestStore(t)

	require.NoError(t, s.CreateDirectory(ctx, alice, "/d"))
	require.NoError(t, s.AddPermission(ctx, alice, "bob", "/d", false, true, false))

	// bob holds read, not write, yet delete_directory succeeds (matches the
	// original's read-gated deletion).
	require.NoError(t, s.DeleteDirectory(ctx, "bob", "/d", false))
}

func TestDeleteDirectoryRecursive(t *testing.T) {
	ctx := context.Background()
	s, alice := newTestStore(t)

	require.NoError(t, s.CreateDirectory(ctx, alice, "/d"))
	require.NoError(t, s.Save(ctx, alice, "/d/a.txt", "text/plain", []byte("x"), false))
	require.NoError(t, s.CreateDirectory(ctx, alice, "/d/sub"))
	require.NoError(t, s.Save(ctx, alice, "/d/sub/b.txt", "text/plain", []byte("y"), false))

	require.NoError(t, s.DeleteDirectory(ctx, alice, "/d", true))

	_, err := s.GetInfo(ctx, alice, "/d")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}

func TestAddPermissionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, alice := newTestStore(t)
	require.NoError(t, s.Save(ctx, alice, "/a.txt", "text/plain", []byte("x"), false))

	require.NoError(t, s.AddPermission(ctx, alice, "bob", "/a.txt", false, true, false))
	require.NoError(t, s.AddPermission(ctx, alice, "bob", "/a.txt", false, true, false))

	info, err := s.HasPermission(ctx, "bob", "/a.txt")
	require.NoError(t, err)
	assert.True(t, info.Readable)
	assert.False(t, info.Writable)

	require.NoError(t, s.RemovePermission(ctx, alice, "bob", "/a.txt", false, true, false))
	require.NoError(t, s.RemovePermission(ctx, alice, "bob", "/a.txt", false, true, false))

	info, err = s.HasPermission(ctx, "bob", "/a.txt")
	require.NoError(t, err)
	assert.False(t, info.Readable)
}

func TestListExcludesSidecarsAndSortsWithTrailingSlash(t *testing.T) {
	ctx := context.Background()
	s, alice := newTestStore(t)

	require.NoError(t, s.CreateDirectory(ctx, alice, "/d"))
	require.NoError(t, s.Save(ctx, alice, "/d/b.txt", "text/plain", []byte("x"), false))
	require.NoError(t, s.CreateDirectory(ctx, alice, "/d/a"))

	names, err := s.List(ctx, alice, "/d")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/", "b.txt"}, names)
}

func TestChunkedUploadIntegratesWithLoad(t *testing.T) {
	ctx := context.Background()
	s, alice := newTestStore(t)

	require.NoError(t, s.Uploads.Begin(ctx, alice, "/b.bin", "application/octet-stream", false))
	_, err := s.Uploads.SendData(ctx, alice, "/b.bin", 0, []byte("AAABBBBBCCCCC"))
	require.NoError(t, err)

	sum := sha256.Sum256([]byte("AAABBBBBCCCCC"))
	require.NoError(t, s.Uploads.Commit(ctx, alice, "/b.bin", 13, sum[:]))

	dl, err := s.Load(ctx, alice, "/b.bin", 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("AAABBBBBCCCCC"), dl.Chunk)
}

func TestGetVersion(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, "canistorage 0.1.0", s.GetVersion())
}
