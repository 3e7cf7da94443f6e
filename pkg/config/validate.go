package config

import "fmt"

// Validate checks that cfg describes a startable configuration, beyond
// what ApplyDefaults already fills in.
func Validate(cfg *Config) error {
	switch cfg.Volume.Backend {
	case "fs":
		if cfg.Volume.FS.BasePath == "" {
			return fmt.Errorf("volume.fs.base_path is required when volume.backend is %q", "fs")
		}
	case "badger":
		if cfg.Volume.Badger.DBPath == "" {
			return fmt.Errorf("volume.badger.db_path is required when volume.backend is %q", "badger")
		}
	case "s3":
		if cfg.Volume.S3.Bucket == "" {
			return fmt.Errorf("volume.s3.bucket is required when volume.backend is %q", "s3")
		}
	default:
		return fmt.Errorf("unknown volume backend %q: must be fs, badger, or s3", cfg.Volume.Backend)
	}

	if cfg.Auth.SigningKey == "" {
		return fmt.Errorf("auth.signing_key is required")
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", cfg.Logging.Level)
	}

	return nil
}
