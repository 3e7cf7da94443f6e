// Package config loads canistorage's static configuration: environment
// variables (CANISTORAGE_*), a YAML file, and defaults, in that order of
// precedence. No command-line flag is bound to an individual setting; the
// CLI only chooses which file is read.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/toshio/canistorage/internal/bytesize"
)

// Config is canistorage's complete static configuration.
//
// Configuration sources, highest precedence first:
//  1. Environment variables (CANISTORAGE_*)
//  2. Configuration file (YAML)
//  3. Default values
//
// When no configuration file is found, Load returns the defaults without
// consulting the environment.
type Config struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Server configures the HTTP transport.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Volume selects and configures the backing storage volume.
	Volume VolumeConfig `mapstructure:"volume" yaml:"volume"`

	// Auth configures bearer JWT authentication.
	Auth AuthConfig `mapstructure:"auth" yaml:"auth"`

	// Metrics contains Prometheus metrics server configuration.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Upload controls chunked upload session bookkeeping.
	Upload UploadConfig `mapstructure:"upload" yaml:"upload"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output: debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// Format is the log encoding: text or json.
	Format string `mapstructure:"format" yaml:"format"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	// ListenAddress is the host:port the API listens on.
	ListenAddress string `mapstructure:"listen_address" yaml:"listen_address"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	// MaxRequestBodySize bounds every request body, mirroring the original
	// canister's own message-size ceiling on save/send_data payloads.
	// Accepts human-readable sizes ("2Mi", "512Ki"); 0 disables the cap.
	MaxRequestBodySize bytesize.ByteSize `mapstructure:"max_request_body_size" yaml:"max_request_body_size"`
}

// VolumeConfig selects and configures the backing storage volume.
type VolumeConfig struct {
	// Backend selects the volume implementation: fs, badger, or s3.
	Backend string `mapstructure:"backend" yaml:"backend"`

	// FS configures the osvolume backend.
	FS FSVolumeConfig `mapstructure:"fs" yaml:"fs"`

	// Badger configures the badgervolume backend.
	Badger BadgerVolumeConfig `mapstructure:"badger" yaml:"badger"`

	// S3 configures the s3volume backend.
	S3 S3VolumeConfig `mapstructure:"s3" yaml:"s3"`
}

// FSVolumeConfig configures osvolume.
type FSVolumeConfig struct {
	BasePath string `mapstructure:"base_path" yaml:"base_path"`
}

// BadgerVolumeConfig configures badgervolume.
type BadgerVolumeConfig struct {
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// S3VolumeConfig configures s3volume.
type S3VolumeConfig struct {
	Bucket          string `mapstructure:"bucket" yaml:"bucket"`
	Region          string `mapstructure:"region" yaml:"region"`
	Endpoint        string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id,omitempty"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key,omitempty"`
	ForcePathStyle  bool   `mapstructure:"force_path_style" yaml:"force_path_style"`
	KeyPrefix       string `mapstructure:"key_prefix" yaml:"key_prefix,omitempty"`
}

// AuthConfig configures bearer JWT authentication.
type AuthConfig struct {
	// SigningKey verifies incoming bearer tokens' HS256 signature.
	SigningKey string `mapstructure:"signing_key" yaml:"signing_key"`
}

// MetricsConfig configures the Prometheus metrics HTTP server.
type MetricsConfig struct {
	// Enabled controls whether metrics collection and HTTP server are active.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// ListenAddress is the host:port the metrics server listens on.
	ListenAddress string `mapstructure:"listen_address" yaml:"listen_address"`
}

// UploadConfig controls chunked upload session bookkeeping.
type UploadConfig struct {
	// IdleTimeout overrides upload.ExpiryMs when non-zero.
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout,omitempty"`
}

// Load reads configuration from configPath (or the default search path if
// empty), layering environment variables and defaults on top.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		return GetDefaultConfig(), nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
		mapstructure.TextUnmarshallerHookFunc(),
	))); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("CANISTORAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read config file: %w", err)
	}
	return true, nil
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Type, data any) (any, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "canistorage")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "canistorage")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the default
// location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}
