// Package config loads starpipe settings.
//
// Settings come from, in increasing precedence: built-in defaults, a
// starpipe.yml file, a .env file, STARPIPE_* environment variables and
// command-line flags. Viper merges the sources; keys are nested with dots in
// YAML and with underscores in the environment:
//
//	rewrite:
//	  placeholder: _          # STARPIPE_REWRITE_PLACEHOLDER
//	  temp_prefix: __pipe     # STARPIPE_REWRITE_TEMP_PREFIX
//	source:
//	  marker: pipe            # STARPIPE_SOURCE_MARKER
//	  verify: false           # STARPIPE_SOURCE_VERIFY
//	workers: 4                # STARPIPE_WORKERS
//	logging:
//	  level: info             # STARPIPE_LOGGING_LEVEL
//
// # Usage
//
//	cfg, err := config.Load(config.WithFlags(cmd.Flags()))
package config
