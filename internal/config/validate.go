package config

import (
	"errors"
	"strings"
)

// Validation errors for configuration fields.
var (
	// ErrMissingOutDir indicates the required outdir option is absent.
	ErrMissingOutDir = errors.New("outdir is required")

	// ErrRetentionTooLow indicates number_of_backups is below 1. A value of
	// 0 is rejected rather than read as "keep nothing".
	ErrRetentionTooLow = errors.New("number_of_backups must be >= 1")

	// ErrCompressionLevelRange indicates compression_level lies outside [1, 21].
	ErrCompressionLevelRange = errors.New("compression_level must be between 1 and 21")

	// ErrInvalidPrefix indicates the prefix contains path separators or is
	// otherwise unusable as a file name component.
	ErrInvalidPrefix = errors.New("prefix must not contain path separators")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.OutDir == "" {
		errs = append(errs, ErrMissingOutDir)
	}

	if cfg.NumberOfBackups < 1 {
		errs = append(errs, ErrRetentionTooLow)
	}

	if cfg.CompressionLevel < 1 || cfg.CompressionLevel > 21 {
		errs = append(errs, ErrCompressionLevelRange)
	}

	if strings.ContainsAny(cfg.Prefix, "/\x00") || cfg.Prefix == "" {
		errs = append(errs, ErrInvalidPrefix)
	}

	return errs
}
