// Package config loads and validates the zonebak configuration file.
//
// The configuration is a TOML file, named on the command line or found at
// the default XDG location ($XDG_CONFIG_HOME/zonebak/config.toml):
//
//	outdir = "/var/backups/zones"
//	number_of_backups = 7
//	prefix = "zonecfg-backup"
//	compression_level = 10
//	skip_unavailable_zones = false
//
// outdir and number_of_backups are required. number_of_backups must be at
// least 1; a retention count of 0 is a configuration error, not "keep
// nothing". compression_level is the zstd level and must lie in [1, 21].
//
// Validation failures are reported together and marked with
// [errors.ErrInvalidConfig] so the CLI can map them to a user exit code.
package config
