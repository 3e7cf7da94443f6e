// Package storagepath implements path validation and the sidecar/staging
// naming scheme used to co-locate metadata and in-progress writes with their
// content in a flat backing volume. A single reserved character, the
// backtick, marks both: one backtick inserted before the leaf name locates
// the metadata record for that path, two backticks locate its staging file.
package storagepath

import (
	"strings"

	"github.com/toshio/canistorage/pkg/apperror"
)

// Root is the path of the tree's root node.
const Root = "/"

const reservedChar = "`"

// MaxLength is the largest path this store will accept.
const MaxLength = 1024

// Validate rejects empty paths, paths over MaxLength bytes, paths that don't
// start at Root, paths (other than Root itself) ending in "/", and paths
// containing ".." or the reserved backtick character.
func Validate(path string) error {
	if len(path) == 0 {
		return apperror.InvalidPath("path is empty")
	}
	if len(path) > MaxLength {
		return apperror.InvalidPath("path exceeds %d bytes", MaxLength)
	}
	if !strings.HasPrefix(path, Root) {
		return apperror.InvalidPath("path must start with %q", Root)
	}
	if len(path) > len(Root) && strings.HasSuffix(path, "/") {
		return apperror.InvalidPath("path must not end with %q", "/")
	}
	if strings.Contains(path, "..") || strings.Contains(path, reservedChar) {
		return apperror.InvalidPath("path contains invalid characters")
	}
	return nil
}

// SidecarOf returns the path of the metadata record for path.
func SidecarOf(path string) string {
	if path == Root {
		return Root + reservedChar
	}
	index := strings.LastIndex(path, "/")
	if index < 0 {
		return reservedChar + path
	}
	return path[:index+1] + reservedChar + path[index+1:]
}

// TempOf returns the path of the staging file used while a write to path is
// in flight, before it is renamed into place.
func TempOf(path string) string {
	if path == Root {
		return Root + reservedChar + reservedChar
	}
	index := strings.LastIndex(path, "/")
	if index < 0 {
		return reservedChar + reservedChar + path
	}
	return path[:index+1] + reservedChar + reservedChar + path[index+1:]
}

// ParentOf returns the parent of path, for walking permission resolution
// towards Root. A top-level path such as "/foo" yields "" rather than "/"
// on the first call, and a further ParentOf("") yields "/": the walk still
// terminates at Root, just with one extra empty-string hop for top-level
// paths.
func ParentOf(path string) string {
	index := strings.LastIndex(path, "/")
	if index < 0 {
		return Root
	}
	return path[:index]
}

// ContainingDirectory returns the directory a path's leaf lives in, for
// structural "does the parent exist" checks (save, create_directory,
// begin_upload). Unlike ParentOf it collapses straight to Root for
// top-level paths such as "/a.txt" instead of the permission walk's
// intermediate empty-string hop.
func ContainingDirectory(path string) string {
	index := strings.LastIndex(path, "/")
	if index <= 0 {
		return Root
	}
	return path[:index]
}

// Leaf returns the final path component (basename) of path.
func Leaf(path string) string {
	index := strings.LastIndex(path, "/")
	if index < 0 {
		return path
	}
	return path[index+1:]
}

// IsSidecar reports whether name (a directory entry basename) is a sidecar
// or staging file and should be hidden from directory listings.
func IsSidecar(name string) bool {
	return strings.HasPrefix(name, reservedChar)
}
