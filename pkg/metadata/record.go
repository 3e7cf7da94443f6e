// Package metadata reads and writes the per-node attribute record that
// sits alongside each node's content in the backing volume, encoded with
// a self-describing, field-tagged, schema-evolvable binary format (CBOR).
package metadata

import (
	"github.com/toshio/canistorage/pkg/identity"
)

// DirectoryMimeType is the reserved mimetype that marks a node as a
// directory rather than a file.
const DirectoryMimeType = "canistorage/directory"

// Record is the per-node attribute record stored at a path's sidecar file.
type Record struct {
	Size       uint64             `cbor:"size"`
	Creator    identity.Principal `cbor:"creator"`
	CreatedAt  uint64             `cbor:"created_at"`
	Updater    identity.Principal `cbor:"updater"`
	UpdatedAt  uint64             `cbor:"updated_at"`
	MimeType   string             `cbor:"mime_type"`
	SHA256     []byte             `cbor:"sha256,omitempty"`
	Signature  []byte             `cbor:"signature,omitempty"`
	Manageable []identity.Principal `cbor:"manageable"`
	Readable   []identity.Principal `cbor:"readable"`
	Writable   []identity.Principal `cbor:"writable"`
}

// IsDirectory reports whether the record describes a directory node.
func (r *Record) IsDirectory() bool {
	return r.MimeType == DirectoryMimeType
}

// Capability names the three permission sets a Record carries.
type Capability int

const (
	Manage Capability = iota
	Read
	Write
)

func (c Capability) String() string {
	switch c {
	case Manage:
		return "manage"
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return "unknown"
	}
}

// Grants returns the ACL slice for the given capability.
func (r *Record) Grants(cap Capability) []identity.Principal {
	switch cap {
	case Manage:
		return r.Manageable
	case Read:
		return r.Readable
	case Write:
		return r.Writable
	default:
		return nil
	}
}

// SetGrants replaces the ACL slice for the given capability.
func (r *Record) SetGrants(cap Capability, principals []identity.Principal) {
	switch cap {
	case Manage:
		r.Manageable = principals
	case Read:
		r.Readable = principals
	case Write:
		r.Writable = principals
	}
}

// Has reports whether principal is present in the capability's ACL.
func (r *Record) Has(cap Capability, principal identity.Principal) bool {
	for _, p := range r.Grants(cap) {
		if p == principal {
			return true
		}
	}
	return false
}
