// SPDX-License-Identifier: MPL-2.0

// Package schemacheck validates workspace JSON documents in-process.
//
// A Checker takes the schema associations of a workspace, compiles each
// schema with github.com/santhosh-tekuri/jsonschema/v6 and validates the files
// selected by the association's first fileMatch glob. Schemas are read from
// the workspace fs.FS; any $ref that does not name a workspace file resolves
// to the shared schema document.
package schemacheck
