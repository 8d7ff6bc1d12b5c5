// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/shroomkit/wzschema/cmd/wzschema"

func main() {
	cmd.Execute()
}
