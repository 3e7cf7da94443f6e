package upload

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toshio/canistorage/pkg/apperror"
	"github.com/toshio/canistorage/pkg/clock"
	"github.com/toshio/canistorage/pkg/identity"
	"github.com/toshio/canistorage/pkg/metadata"
	"github.com/toshio/canistorage/pkg/volume/osvolume"
)

func newTestManager(t *testing.T) (*Manager, *metadata.Store, *clock.Virtual) {
	t.Helper()
	vol, err := osvolume.New(t.TempDir())
	require.NoError(t, err)
	meta := metadata.NewStore(vol)
	clk := clock.NewVirtual(1_000)

	ctx := context.Background()
	require.NoError(t, meta.Set(ctx, "/", &metadata.Record{
		MimeType:   metadata.DirectoryMimeType,
		Manageable: []identity.Principal{"alice"},
		Readable:   []identity.Principal{"alice"},
		Writable:   []identity.Principal{"alice"},
	}))

	return New(meta, vol, clk), meta, clk
}

func TestBeginSendCommitRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, meta, _ := newTestManager(t)

	require.NoError(t, m.Begin(ctx, "alice", "/b.bin", "application/octet-stream", false))

	// S3 scenario: chunks arrive out of order.
	size, err := m.SendData(ctx, "alice", "/b.bin", 8, []byte("CCCCC"))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), size)

	size, err = m.SendData(ctx, "alice", "/b.bin", 0, []byte("AAA"))
	require.NoError(t, err)
	assert.Equal(t, uint64(8), size)

	size, err = m.SendData(ctx, "alice", "/b.bin", 3, []byte("BBBBB"))
	require.NoError(t, err)
	assert.Equal(t, uint64(13), size)

	want := []byte("AAABBBBBCCCCC")
	sum := sha256.Sum256(want)
	require.NoError(t, m.Commit(ctx, "alice", "/b.bin", 13, sum[:]))

	rec, err := meta.Get(ctx, "/b.bin")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, uint64(13), rec.Size)
	assert.Equal(t, sum[:], rec.SHA256)
}

func TestSendDataOverwriteSameOffsetAdjustsSize(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Begin(ctx, "alice", "/a.bin", "application/octet-stream", false))

	size, err := m.SendData(ctx, "alice", "/a.bin", 0, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), size)

	size, err = m.SendData(ctx, "alice", "/a.bin", 0, []byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), size)
}

func TestCommitHashMismatch(t *testing.T) {
	ctx := context.Background()
	m, meta, _ := newTestManager(t)
	require.NoError(t, m.Begin(ctx, "alice", "/a.txt", "text/plain", false))

	_, err := m.SendData(ctx, "alice", "/a.txt", 0, []byte("hello"))
	require.NoError(t, err)

	err = m.Commit(ctx, "alice", "/a.txt", 5, []byte("not-the-right-digest"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidHash, apperror.CodeOf(err))

	rec, err := meta.Get(ctx, "/a.txt")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestCommitMissingChunkIsInvalidSize(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Begin(ctx, "alice", "/a.txt", "text/plain", false))

	_, err := m.SendData(ctx, "alice", "/a.txt", 0, []byte("he"))
	require.NoError(t, err)

	err = m.Commit(ctx, "alice", "/a.txt", 5, nil)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidSize, apperror.CodeOf(err))
}

func TestSendDataWrongOwner(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Begin(ctx, "alice", "/a.txt", "text/plain", false))

	_, err := m.SendData(ctx, "mallory", "/a.txt", 0, []byte("x"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidSequence, apperror.CodeOf(err))
}

func TestSessionExpiry(t *testing.T) {
	ctx := context.Background()
	m, meta, clk := newTestManager(t)
	require.NoError(t, m.Begin(ctx, "alice", "/a.txt", "text/plain", false))

	clk.Advance(ExpiryMs + 1_000)

	_, err := m.SendData(ctx, "alice", "/a.txt", 0, []byte("x"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodePermissionDenied, apperror.CodeOf(err))

	// A fresh begin by another writer succeeds once the sweep clears the
	// expired entry.
	require.NoError(t, meta.Set(ctx, "/", &metadata.Record{
		MimeType:   metadata.DirectoryMimeType,
		Manageable: []identity.Principal{"alice"},
		Readable:   []identity.Principal{"alice"},
		Writable:   []identity.Principal{"alice", "bob"},
	}))
	require.NoError(t, m.Begin(ctx, "bob", "/a.txt", "text/plain", false))
}

func TestCancelUpload(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Begin(ctx, "alice", "/a.txt", "text/plain", false))

	require.NoError(t, m.Cancel(ctx, "alice", "/a.txt"))

	err := m.Cancel(ctx, "alice", "/a.txt")
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidSequence, apperror.CodeOf(err))
}

func TestSendDataRejectsEmptyChunk(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)
	require.NoError(t, m.Begin(ctx, "alice", "/a.txt", "text/plain", false))

	require.NoError(t, m.Cancel(ctx, "alice", "/a.txt"))
	require.NoError(t, m.Begin(ctx, "alice", "/a.txt", "text/plain", false))

	_, err := m.SendData(ctx, "alice", "/a.txt", 0, []byte("AA"))
	require.NoError(t, err)
	_, err = m.SendData(ctx, "alice", "/a.txt", 3, []byte("CCC"))
	require.NoError(t, err)

	_, err = m.SendData(ctx, "alice", "/a.txt", 2, nil)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidSequence, apperror.CodeOf(err))

	// Commit still succeeds once the gap at offset 2 is filled properly:
	// the empty-chunk rejection must not have corrupted prior state.
	_, err = m.SendData(ctx, "alice", "/a.txt", 2, []byte("B"))
	require.NoError(t, err)
	want := []byte("AABCCC")
	sum := sha256.Sum256(want)
	require.NoError(t, m.Commit(ctx, "alice", "/a.txt", uint64(len(want)), sum[:]))
}

func TestHasActive(t *testing.T) {
	ctx := context.Background()
	m, _, clk := newTestManager(t)

	assert.False(t, m.HasActive("/a.txt"))

	require.NoError(t, m.Begin(ctx, "alice", "/a.txt", "text/plain", false))
	assert.True(t, m.HasActive("/a.txt"))

	clk.Advance(ExpiryMs + 1_000)
	assert.False(t, m.HasActive("/a.txt"))
}

func TestBeginRejectsWhenParentMissing(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	err := m.Begin(ctx, "alice", "/missing/child.txt", "text/plain", false)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}
