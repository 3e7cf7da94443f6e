// Package upload implements the chunked upload state machine: a per-path
// session owned by a single identity, carrying out-of-order chunk
// reassembly, an application-level idle expiry, and commit/cancel
// transitions into the backing volume and metadata store.
package upload

import (
	"bytes"
	"context"
	"crypto/sha256"
	"sync"

	"github.com/toshio/canistorage/internal/metrics"
	"github.com/toshio/canistorage/pkg/apperror"
	"github.com/toshio/canistorage/pkg/clock"
	"github.com/toshio/canistorage/pkg/identity"
	"github.com/toshio/canistorage/pkg/metadata"
	"github.com/toshio/canistorage/pkg/permission"
	"github.com/toshio/canistorage/pkg/storagepath"
	"github.com/toshio/canistorage/pkg/volume"
)

// ExpiryMs is the idle timeout after which a session is considered
// expired and is dropped lazily at the next session-touching call.
const ExpiryMs = 600_000

// session is the in-memory state of one active chunked upload.
type session struct {
	owner     identity.Principal
	mimeType  string
	size      uint64
	updatedAt uint64
	chunks    map[uint64][]byte
}

func (s *session) expired(nowMs, expiryMs uint64) bool {
	return nowMs-s.updatedAt > expiryMs
}

// Manager owns the process-wide table of active upload sessions, keyed by
// target path. It is the only component in the store holding mutable
// state between calls.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	clock    clock.Clock
	meta     *metadata.Store
	vol      volume.Volume
	expiryMs uint64
}

// New builds a Manager over meta and vol, using clk for expiry bookkeeping
// and the default ExpiryMs idle timeout.
func New(meta *metadata.Store, vol volume.Volume, clk clock.Clock) *Manager {
	return NewWithExpiry(meta, vol, clk, ExpiryMs)
}

// NewWithExpiry builds a Manager whose sessions expire after expiryMs of
// inactivity, overriding the package default (used to apply
// config.UploadConfig.IdleTimeout).
func NewWithExpiry(meta *metadata.Store, vol volume.Volume, clk clock.Clock, expiryMs uint64) *Manager {
	if expiryMs == 0 {
		expiryMs = ExpiryMs
	}
	return &Manager{
		sessions: make(map[string]*session),
		clock:    clk,
		meta:     meta,
		vol:      vol,
		expiryMs: expiryMs,
	}
}

// sweep drops every session whose idle time exceeds the configured expiry.
// Caller must hold m.mu.
func (m *Manager) sweep(nowMs uint64) {
	for path, s := range m.sessions {
		if s.expired(nowMs, m.expiryMs) {
			delete(m.sessions, path)
			metrics.UploadSessionClosed()
			metrics.UploadSessionExpired()
		}
	}
}

// Begin opens a new upload session for path, owned by caller.
func (m *Manager) Begin(ctx context.Context, caller identity.Principal, path, mimeType string, overwrite bool) error {
	if err := storagepath.Validate(path); err != nil {
		return err
	}
	if mimeType == "" || mimeType == metadata.DirectoryMimeType {
		return apperror.InvalidMimetype("invalid mimetype %q", mimeType)
	}

	rec, err := m.meta.Get(ctx, path)
	if err != nil {
		return err
	}
	ok, err := permission.Check(ctx, m.meta, caller, path, metadata.Write, rec)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.PermissionDenied("write permission required for %s", path)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.NowMs()
	m.sweep(now)

	if _, active := m.sessions[path]; active {
		return apperror.AlreadyExists("upload already in progress for %s", path)
	}
	if rec != nil && !overwrite {
		return apperror.AlreadyExists("%s already exists", path)
	}
	if rec == nil {
		parent := storagepath.ContainingDirectory(path)
		parentRec, err := m.meta.Get(ctx, parent)
		if err != nil {
			return err
		}
		if parentRec == nil || !parentRec.IsDirectory() {
			return apperror.NotFound("parent directory %s does not exist", parent)
		}
	}

	m.sessions[path] = &session{
		owner:     caller,
		mimeType:  mimeType,
		updatedAt: now,
		chunks:    make(map[uint64][]byte),
	}
	metrics.UploadSessionOpened()
	return nil
}

// HasActive reports whether path has a live (non-expired) upload session.
// An expired session is swept as a side effect, same as any other
// session-touching call.
func (m *Manager) HasActive(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.NowMs()
	m.sweep(now)

	_, active := m.sessions[path]
	return active
}

// SendData appends a chunk starting at offset start, returning the
// session's new total buffered size.
func (m *Manager) SendData(ctx context.Context, caller identity.Principal, path string, start uint64, data []byte) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(data) == 0 {
		return 0, apperror.InvalidSequence("chunk for %s at offset %d is empty", path, start)
	}

	s, ok := m.sessions[path]
	if !ok {
		return 0, apperror.InvalidSequence("no active upload for %s", path)
	}
	if s.owner != caller {
		return 0, apperror.InvalidSequence("upload for %s is owned by another caller", path)
	}

	now := m.clock.NowMs()
	if s.expired(now, m.expiryMs) {
		delete(m.sessions, path)
		metrics.UploadSessionClosed()
		metrics.UploadSessionExpired()
		return 0, apperror.PermissionDenied("upload session for %s expired", path)
	}

	if old, existed := s.chunks[start]; existed {
		s.size -= uint64(len(old))
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.chunks[start] = buf
	s.size += uint64(len(buf))
	s.updatedAt = now

	return s.size, nil
}

// Commit assembles the buffered chunks in offset order, writes them to
// path via a staged rename, verifies the optional caller-supplied digest,
// and persists the resulting metadata.
func (m *Manager) Commit(ctx context.Context, caller identity.Principal, path string, declaredSize uint64, optionalHash []byte) error {
	m.mu.Lock()
	s, ok := m.sessions[path]
	if !ok {
		m.mu.Unlock()
		return apperror.InvalidSequence("no active upload for %s", path)
	}
	if s.owner != caller {
		m.mu.Unlock()
		return apperror.InvalidSequence("upload for %s is owned by another caller", path)
	}
	now := m.clock.NowMs()
	if s.expired(now, m.expiryMs) {
		delete(m.sessions, path)
		m.mu.Unlock()
		metrics.UploadSessionClosed()
		metrics.UploadSessionExpired()
		return apperror.PermissionDenied("upload session for %s expired", path)
	}
	if s.size != declaredSize {
		m.mu.Unlock()
		return apperror.InvalidSequence("declared size %d does not match buffered size %d", declaredSize, s.size)
	}
	// Copy what Commit needs; release the lock before doing I/O.
	chunks := s.chunks
	mimeType := s.mimeType
	m.mu.Unlock()

	tempPath := storagepath.TempOf(path)
	f, err := m.vol.Create(ctx, tempPath)
	if err != nil {
		return apperror.Unknown("create staging file for %s: %v", path, err)
	}

	hasher := sha256.New()
	var offset uint64
	for offset < declaredSize {
		chunk, present := chunks[offset]
		if !present {
			f.Close()
			return apperror.InvalidSize("missing chunk at offset %d", offset)
		}
		if _, err := f.Write(chunk); err != nil {
			f.Close()
			return apperror.Unknown("write staging file for %s: %v", path, err)
		}
		hasher.Write(chunk)
		offset += uint64(len(chunk))
	}
	if err := f.Close(); err != nil {
		return apperror.Unknown("flush staging file for %s: %v", path, err)
	}

	computed := hasher.Sum(nil)
	if optionalHash != nil && !bytes.Equal(optionalHash, computed) {
		return apperror.InvalidHash("computed digest does not match provided hash")
	}

	if err := m.vol.Rename(ctx, tempPath, path); err != nil {
		return apperror.Unknown("rename staging file into place for %s: %v", path, err)
	}

	existing, err := m.meta.Get(ctx, path)
	if err != nil {
		return err
	}
	rec := buildRecord(existing, caller, now, declaredSize, mimeType, computed)
	if err := m.meta.Set(ctx, path, rec); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.sessions, path)
	m.mu.Unlock()
	metrics.UploadSessionClosed()
	metrics.RecordSavedBytes(int(declaredSize))
	return nil
}

// Cancel discards the session for path if it exists and is owned by caller.
func (m *Manager) Cancel(ctx context.Context, caller identity.Principal, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[path]
	if !ok || s.owner != caller {
		return apperror.InvalidSequence("no active upload for %s owned by caller", path)
	}
	delete(m.sessions, path)
	metrics.UploadSessionClosed()
	return nil
}

func buildRecord(existing *metadata.Record, caller identity.Principal, now, size uint64, mimeType string, digest []byte) *metadata.Record {
	if existing != nil {
		existing.Size = size
		existing.Updater = caller
		existing.UpdatedAt = now
		existing.MimeType = mimeType
		existing.SHA256 = digest
		existing.Signature = nil
		return existing
	}
	return &metadata.Record{
		Size:      size,
		Creator:   caller,
		CreatedAt: now,
		Updater:   caller,
		UpdatedAt: now,
		MimeType:  mimeType,
		SHA256:    digest,
	}
}
