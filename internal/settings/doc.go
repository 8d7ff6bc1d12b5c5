// SPDX-License-Identifier: MPL-2.0

// Package settings reads JSON Schema associations from a VS Code workspace
// settings file.
//
// Only the "json.schemas" array is consulted. Each entry maps one or more
// fileMatch globs to the schema at url. Other settings are ignored.
package settings
