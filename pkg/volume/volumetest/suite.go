// Package volumetest provides a conformance test suite shared by every
// volume.Volume backend, mirroring dittofs's pkg/metadata/storetest:
// one behavioral contract, run against each concrete implementation in
// its own package-level test file.
package volumetest

import (
	"testing"

	"github.com/toshio/canistorage/pkg/volume"
)

// Factory creates a fresh, empty Volume instance for each test. It
// receives *testing.T so implementations needing a filesystem path can
// use t.TempDir, and so t.Cleanup can close any resources held open.
type Factory func(t *testing.T) volume.Volume

// RunConformanceSuite runs the full conformance suite against factory.
// Every backend (osvolume, badgervolume, s3volume) must pass it.
func RunConformanceSuite(t *testing.T, factory Factory) {
	t.Helper()

	t.Run("FileOps", func(t *testing.T) { runFileOpsTests(t, factory) })
	t.Run("DirOps", func(t *testing.T) { runDirOpsTests(t, factory) })
}
