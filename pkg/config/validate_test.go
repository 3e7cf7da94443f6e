package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Volume.Backend = "fs"
	cfg.Volume.FS.BasePath = "/tmp/canistorage"
	cfg.Auth.SigningKey = "key"
	cfg.Logging.Level = "info"
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidate_RequiresVolumePath(t *testing.T) {
	cfg := validConfig()
	cfg.Volume.FS.BasePath = ""
	assert.Error(t, Validate(cfg))
}

func TestValidate_RequiresSigningKey(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.SigningKey = ""
	assert.Error(t, Validate(cfg))
}

func TestValidate_RejectsUnknownLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, Validate(cfg))
}

func TestValidate_S3RequiresBucket(t *testing.T) {
	cfg := validConfig()
	cfg.Volume.Backend = "s3"
	cfg.Volume.S3.Bucket = ""
	assert.Error(t, Validate(cfg))

	cfg.Volume.S3.Bucket = "my-bucket"
	assert.NoError(t, Validate(cfg))
}
