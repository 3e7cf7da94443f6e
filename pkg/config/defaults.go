package config

import (
	"strings"
	"time"

	"github.com/toshio/canistorage/internal/bytesize"
)

// ApplyDefaults fills in zero-valued fields with sensible defaults, after
// configuration has been loaded from file and environment.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyVolumeDefaults(&cfg.Volume)
	applyMetricsDefaults(&cfg.Metrics)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	cfg.Level = strings.ToLower(cfg.Level)
	if cfg.Format == "" {
		cfg.Format = "text"
	}
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8080"
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.MaxRequestBodySize == 0 {
		cfg.MaxRequestBodySize = 2 * bytesize.MiB
	}
}

func applyVolumeDefaults(cfg *VolumeConfig) {
	if cfg.Backend == "" {
		cfg.Backend = "fs"
	}
	if cfg.Backend == "fs" && cfg.FS.BasePath == "" {
		cfg.FS.BasePath = "/var/lib/canistorage"
	}
	if cfg.Backend == "badger" && cfg.Badger.DBPath == "" {
		cfg.Badger.DBPath = "/var/lib/canistorage-badger"
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Enabled && cfg.ListenAddress == "" {
		cfg.ListenAddress = ":9090"
	}
}

// GetDefaultConfig returns a Config with every default applied, used when
// no configuration file is present.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
