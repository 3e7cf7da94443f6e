package blobstore

import (
	"context"
	"crypto/sha256"
	"io"
	"time"

	"github.com/toshio/canistorage/internal/metrics"
	"github.com/toshio/canistorage/pkg/apperror"
	"github.com/toshio/canistorage/pkg/identity"
	"github.com/toshio/canistorage/pkg/metadata"
	"github.com/toshio/canistorage/pkg/permission"
	"github.com/toshio/canistorage/pkg/storagepath"
	"github.com/toshio/canistorage/pkg/volume"
)

// Download is the response to Load: a chunk of a file's content starting
// at the requested offset.
type Download struct {
	Size         uint64
	DownloadedAt uint64
	Chunk        []byte
	SHA256       []byte // set only when DownloadedAt == Size
}

// Save writes data to path in full, replacing any existing content when
// overwrite is true.
func (s *Store) Save(ctx context.Context, caller identity.Principal, path, mimeType string, data []byte, overwrite bool) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveOperation("save", uint32(apperror.CodeOf(err)), time.Since(start))
	}()

	if err := storagepath.Validate(path); err != nil {
		return err
	}
	if mimeType == "" || mimeType == metadata.DirectoryMimeType {
		return apperror.InvalidMimetype("invalid mimetype %q", mimeType)
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

	if s.Uploads.HasActive(path) {
		return apperror.AlreadyExists("upload already in progress for %s", path)
	}
	if rec != nil && !overwrite {
		return apperror.AlreadyExists("%s already exists", path)
	}
	if rec == nil {
		parent := storagepath.ContainingDirectory(path)
		parentRec, err := s.meta.Get(ctx, parent)
		if err != nil {
			return err
		}
		if parentRec == nil || !parentRec.IsDirectory() {
			return apperror.NotFound("parent directory %s does not exist", parent)
		}
	}

	tempPath := storagepath.TempOf(path)
	f, err := s.vol.Create(ctx, tempPath)
	if err != nil {
		return apperror.Unknown("create staging file for %s: %v", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return apperror.Unknown("write staging file for %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		return apperror.Unknown("flush staging file for %s: %v", path, err)
	}
	if err := s.vol.Rename(ctx, tempPath, path); err != nil {
		return apperror.Unknown("rename staging file into place for %s: %v", path, err)
	}

	digest := sha256.Sum256(data)
	now := s.clock.NowMs()
	if rec != nil {
		rec.Size = uint64(len(data))
		rec.Updater = caller
		rec.UpdatedAt = now
		rec.MimeType = mimeType
		rec.SHA256 = digest[:]
		rec.Signature = nil
	} else {
		rec = &metadata.Record{
			Size:      uint64(len(data)),
			Creator:   caller,
			CreatedAt: now,
			Updater:   caller,
			UpdatedAt: now,
			MimeType:  mimeType,
			SHA256:    digest[:],
		}
	}
	if err := s.meta.Set(ctx, path, rec); err != nil {
		return err
	}
	metrics.RecordSavedBytes(len(data))
	return nil
}

// Load reads up to MaxDownloadChunk bytes of path's content starting at
// startAt. Callers reassemble a full file by iterating until the returned
// DownloadedAt equals Size.
func (s *Store) Load(ctx context.Context, caller identity.Principal, path string, startAt uint64) (dl *Download, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveOperation("load", uint32(apperror.CodeOf(err)), time.Since(start))
	}()

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

	f, err := s.vol.Open(ctx, path)
	if err != nil {
		return nil, apperror.Unknown("open %s: %v", path, err)
	}
	defer f.Close()

	if _, err := f.Seek(int64(startAt), io.SeekStart); err != nil {
		return nil, apperror.Unknown("seek %s: %v", path, err)
	}

	buf := make([]byte, MaxDownloadChunk)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, apperror.Unknown("read %s: %v", path, err)
	}

	downloadedAt := startAt + uint64(n)
	dl = &Download{
		Size:         rec.Size,
		DownloadedAt: downloadedAt,
		Chunk:        buf[:n],
	}
	if downloadedAt == rec.Size {
		dl.SHA256 = rec.SHA256
	}
	metrics.RecordLoadedBytes(n)
	return dl, nil
}

// Delete removes path's content and metadata.
func (s *Store) Delete(ctx context.Context, caller identity.Principal, path string) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveOperation("delete", uint32(apperror.CodeOf(err)), time.Since(start))
	}()

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

	if err := s.vol.Remove(ctx, path); err != nil {
		if volume.IsNotExist(err) {
			return apperror.NotFound("%s does not exist", path)
		}
		return apperror.Unknown("remove %s: %v", path, err)
	}
	return s.meta.Remove(ctx, path)
}
