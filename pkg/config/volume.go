package config

import (
	"context"
	"fmt"

	"github.com/toshio/canistorage/pkg/volume"
	"github.com/toshio/canistorage/pkg/volume/badgervolume"
	"github.com/toshio/canistorage/pkg/volume/osvolume"
	"github.com/toshio/canistorage/pkg/volume/s3volume"
)

// BuildVolume constructs the volume.Volume backend named by cfg.Backend.
func BuildVolume(ctx context.Context, cfg VolumeConfig) (volume.Volume, error) {
	switch cfg.Backend {
	case "fs":
		return osvolume.New(cfg.FS.BasePath)
	case "badger":
		return badgervolume.Open(cfg.Badger.DBPath)
	case "s3":
		return s3volume.New(ctx, s3volume.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			ForcePathStyle:  cfg.S3.ForcePathStyle,
			KeyPrefix:       cfg.S3.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown volume backend %q", cfg.Backend)
	}
}
