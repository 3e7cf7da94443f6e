package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toshio/canistorage/pkg/volume/osvolume"
)

func TestBuildVolume_FS(t *testing.T) {
	cfg := VolumeConfig{Backend: "fs", FS: FSVolumeConfig{BasePath: t.TempDir()}}

	v, err := BuildVolume(context.Background(), cfg)
	require.NoError(t, err)
	_, ok := v.(*osvolume.Volume)
	assert.True(t, ok)
}

func TestBuildVolume_UnknownBackend(t *testing.T) {
	_, err := BuildVolume(context.Background(), VolumeConfig{Backend: "nope"})
	assert.Error(t, err)
}
