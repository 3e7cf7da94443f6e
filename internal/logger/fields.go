package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log aggregation and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // correlation id for the whole request
	KeySpanID  = "span_id"  // id for a single sub-step within the request

	// ========================================================================
	// Operation
	// ========================================================================
	KeyOperation = "operation" // operation name: save, load, delete, list, ...
	KeyResult    = "result"    // outcome: ok, denied, not_found, ...

	// ========================================================================
	// Storage Path Operations
	// ========================================================================
	KeyPath       = "path"        // full storage path
	KeyParentPath = "parent_path" // parent directory path
	KeyMimeType   = "mime_type"   // MIME type of a node
	KeyIsDir      = "is_dir"      // directory indicator

	// ========================================================================
	// I/O Operations
	// ========================================================================
	KeyOffset       = "offset"        // byte offset for ranged read/write
	KeySize         = "size"          // file/content size in bytes
	KeyBytesRead    = "bytes_read"    // actual bytes read
	KeyBytesWritten = "bytes_written" // actual bytes written
	KeyHash         = "hash"          // sha256 content digest, hex-encoded

	// ========================================================================
	// Caller Identification
	// ========================================================================
	KeyPrincipal = "principal" // caller principal id
	KeyClientIP  = "client_ip" // client IP address

	// ========================================================================
	// Upload Sessions
	// ========================================================================
	KeySessionID    = "session_id"     // upload session identifier
	KeyChunkCount   = "chunk_count"    // number of chunks received in a session
	KeySessionState = "session_state"  // active, committed, cancelled, expired

	// ========================================================================
	// Permissions
	// ========================================================================
	KeyCapability = "capability" // manage, read, write
	KeyGranted    = "granted"    // whether a permission check passed

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // operation duration in milliseconds
	KeyError      = "error"       // error message
	KeyErrorCode  = "error_code"  // numeric error code from the external interface
	KeyRequestID  = "request_id"  // HTTP-level request id

	// ========================================================================
	// Volume Backend
	// ========================================================================
	KeyVolumeKind = "volume_kind" // fs, badger, s3
	KeyBucket     = "bucket"      // cloud bucket name (S3)

	// ========================================================================
	// Directory Listing
	// ========================================================================
	KeyEntries = "entries" // number of directory entries returned
)

// TraceID returns a slog.Attr for the request correlation id
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for a sub-step id
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// Operation returns a slog.Attr for the operation name
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Result returns a slog.Attr for the operation outcome
func Result(result string) slog.Attr {
	return slog.String(KeyResult, result)
}

// Path returns a slog.Attr for a storage path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// ParentPath returns a slog.Attr for a parent directory path
func ParentPath(p string) slog.Attr {
	return slog.String(KeyParentPath, p)
}

// MimeType returns a slog.Attr for a MIME type
func MimeType(mt string) slog.Attr {
	return slog.String(KeyMimeType, mt)
}

// IsDir returns a slog.Attr for the directory indicator
func IsDir(isDir bool) slog.Attr {
	return slog.Bool(KeyIsDir, isDir)
}

// Offset returns a slog.Attr for a byte offset
func Offset(off uint64) slog.Attr {
	return slog.Uint64(KeyOffset, off)
}

// Size returns a slog.Attr for a size in bytes
func Size(s uint64) slog.Attr {
	return slog.Uint64(KeySize, s)
}

// BytesRead returns a slog.Attr for actual bytes read
func BytesRead(n int) slog.Attr {
	return slog.Int(KeyBytesRead, n)
}

// BytesWritten returns a slog.Attr for actual bytes written
func BytesWritten(n int) slog.Attr {
	return slog.Int(KeyBytesWritten, n)
}

// Hash returns a slog.Attr for a hex-encoded content digest
func Hash(h string) slog.Attr {
	return slog.String(KeyHash, h)
}

// Principal returns a slog.Attr for the caller principal id
func Principal(id string) slog.Attr {
	return slog.String(KeyPrincipal, id)
}

// ClientIP returns a slog.Attr for the client IP address
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// SessionID returns a slog.Attr for an upload session identifier
func SessionID(id string) slog.Attr {
	return slog.String(KeySessionID, id)
}

// ChunkCount returns a slog.Attr for the number of chunks received
func ChunkCount(n int) slog.Attr {
	return slog.Int(KeyChunkCount, n)
}

// SessionState returns a slog.Attr for upload session state
func SessionState(state string) slog.Attr {
	return slog.String(KeySessionState, state)
}

// Capability returns a slog.Attr for a permission capability
func Capability(cap string) slog.Attr {
	return slog.String(KeyCapability, cap)
}

// Granted returns a slog.Attr for whether a permission check passed
func Granted(granted bool) slog.Attr {
	return slog.Bool(KeyGranted, granted)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for the numeric error code
func ErrorCode(code uint32) slog.Attr {
	return slog.Uint64(KeyErrorCode, uint64(code))
}

// RequestID returns a slog.Attr for the HTTP-level request id
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// VolumeKind returns a slog.Attr for the volume backend kind
func VolumeKind(kind string) slog.Attr {
	return slog.String(KeyVolumeKind, kind)
}

// Bucket returns a slog.Attr for a cloud bucket name
func Bucket(name string) slog.Attr {
	return slog.String(KeyBucket, name)
}

// Entries returns a slog.Attr for the number of directory entries returned
func Entries(n int) slog.Attr {
	return slog.Int(KeyEntries, n)
}
