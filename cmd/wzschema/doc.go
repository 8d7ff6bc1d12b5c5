// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for wzschema.
//
// The root command selects items/<Kind>/<id>.img/img.json documents and hands
// them to an external validator, passing its exit status through. The check
// subcommand validates in-process against the workspace schema associations.
package cmd
