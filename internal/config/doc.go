// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// A project-local wzschema.cue (or wzschema.toml) in the working directory wins over the
// user file in the platform config directory ($XDG_CONFIG_HOME/wzschema/config.cue on
// Linux, ~/Library/Application Support/wzschema on macOS, %APPDATA%\wzschema on Windows).
// An explicit --config path is used exclusively. WZSCHEMA_* environment variables
// override file values.
//
// Both file formats are validated against the embedded CUE schema (config_schema.cue)
// before they reach Viper.
package config
