package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/toshio/canistorage/pkg/identity"
)

func TestIsDirectory(t *testing.T) {
	r := &Record{MimeType: DirectoryMimeType}
	assert.True(t, r.IsDirectory())

	r2 := &Record{MimeType: "text/plain"}
	assert.False(t, r2.IsDirectory())
}

func TestGrantsAndHas(t *testing.T) {
	r := &Record{Readable: []identity.Principal{"alice", "bob"}}
	assert.True(t, r.Has(Read, "alice"))
	assert.False(t, r.Has(Read, "carol"))
	assert.False(t, r.Has(Write, "alice"))
}

func TestCapabilityString(t *testing.T) {
	assert.Equal(t, "manage", Manage.String())
	assert.Equal(t, "read", Read.String())
	assert.Equal(t, "write", Write.String())
}
