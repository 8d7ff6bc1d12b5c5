// SPDX-License-Identifier: MPL-2.0

// Package invoker runs the external JSON Schema validator.
//
// An Invocation is built once from the configured validator command line, the
// fixed schema file and the selected documents, then handed to a Runner. The
// validator inherits the caller's standard streams; its exit status is
// returned unchanged and never interpreted.
package invoker
