// Package config provides configuration management for zonebak using Viper.
package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/thoreinstein/zonebak/internal/errors"
)

// AppName is the application name used for config file naming.
const AppName = "zonebak"

// Default values for optional configuration keys.
const (
	// DefaultPrefix is the archive name prefix used when the config file
	// does not set one.
	DefaultPrefix = "zonecfg-backup"

	// DefaultCompressionLevel is the zstd compression level used when the
	// config file does not set one.
	DefaultCompressionLevel = 10
)

// Config represents the top-level configuration structure.
type Config struct {
	// OutDir is the destination and retention directory for archives.
	// Required.
	OutDir string `mapstructure:"outdir" toml:"outdir"`

	// NumberOfBackups is how many archives to retain. Must be >= 1.
	// Required.
	NumberOfBackups int `mapstructure:"number_of_backups" toml:"number_of_backups"`

	// Prefix is the archive file name prefix. Defaults to DefaultPrefix.
	Prefix string `mapstructure:"prefix" toml:"prefix"`

	// CompressionLevel is the zstd level in [1, 21]. Defaults to
	// DefaultCompressionLevel.
	CompressionLevel int `mapstructure:"compression_level" toml:"compression_level"`

	// SkipUnavailableZones makes a failed per-zone query log a warning and
	// omit the zone instead of aborting the run. Off by default: a partial
	// snapshot is only written when explicitly requested.
	SkipUnavailableZones bool `mapstructure:"skip_unavailable_zones" toml:"skip_unavailable_zones"`
}

// DefaultPath returns the config file location used when no path is given
// on the command line.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

// Default returns a Config populated with defaults, suitable as a starter
// config written by "zonebak init".
func Default() *Config {
	return &Config{
		OutDir:           "/var/backups/zones",
		NumberOfBackups:  7,
		Prefix:           DefaultPrefix,
		CompressionLevel: DefaultCompressionLevel,
	}
}

// Load reads the configuration file at path.
// If path is empty, the default location from DefaultPath is used.
// The loaded config is validated; validation failures are returned as a
// single error wrapping ErrInvalidConfig.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetDefault("prefix", DefaultPrefix)
	v.SetDefault("compression_level", DefaultCompressionLevel)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "unmarshaling config file %s", path)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, errors.Mark(
			errors.Newf("config file %s: %s", path, strings.Join(msgs, "; ")),
			errors.ErrInvalidConfig)
	}

	return &cfg, nil
}
