// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// Every document is checked the same way regardless of where it came from:
//
//  1. Compile the embedded schema
//  2. Compile (CUE source) or encode (already-decoded Go data) the user input
//     and unify it with the schema definition
//  3. Validate and decode to a Go value
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[map[string]any](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("wzschema.cue"),
//	    cueutil.WithConcrete(false),
//	)
//	if err != nil {
//	    return nil, err  // Error includes the CUE path for debugging
//	}
//
// Data decoded from other formats (TOML) goes through EncodeAndDecode so the
// same schema guards it.
package cueutil
