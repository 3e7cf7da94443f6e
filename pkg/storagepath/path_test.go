package storagepath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/toshio/canistorage/pkg/apperror"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"root", "/", false},
		{"simple", "/a/b", false},
		{"empty", "", true},
		{"no leading slash", "a/b", true},
		{"trailing slash", "/a/b/", true},
		{"dotdot", "/a/../b", true},
		{"backtick", "/a/`b", true},
		{"too long", "/" + strings.Repeat("a", MaxLength), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.path)
			if tc.wantErr {
				assert.Error(t, err)
				assert.Equal(t, apperror.CodeInvalidPath, apperror.CodeOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSidecarOf(t *testing.T) {
	assert.Equal(t, "/`", SidecarOf("/"))
	assert.Equal(t, "/a/`b", SidecarOf("/a/b"))
	assert.Equal(t, "/`a", SidecarOf("/a"))
}

func TestTempOf(t *testing.T) {
	assert.Equal(t, "/``", TempOf("/"))
	assert.Equal(t, "/a/``b", TempOf("/a/b"))
	assert.Equal(t, "/``a", TempOf("/a"))
}

func TestParentOf(t *testing.T) {
	assert.Equal(t, "/a", ParentOf("/a/b"))
	assert.Equal(t, "", ParentOf("/a"))
	assert.Equal(t, Root, ParentOf(""))
}

func TestContainingDirectory(t *testing.T) {
	assert.Equal(t, Root, ContainingDirectory("/a.txt"))
	assert.Equal(t, "/a", ContainingDirectory("/a/b"))
	assert.Equal(t, "/a/b", ContainingDirectory("/a/b/c.txt"))
}

func TestLeaf(t *testing.T) {
	assert.Equal(t, "b", Leaf("/a/b"))
	assert.Equal(t, "", Leaf("/"))
}

func TestIsSidecar(t *testing.T) {
	assert.True(t, IsSidecar("`foo"))
	assert.False(t, IsSidecar("foo"))
}
