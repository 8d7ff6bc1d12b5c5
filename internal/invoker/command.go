// SPDX-License-Identifier: MPL-2.0

package invoker

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"
)

// ErrEmptyCommand is returned when the validator command line has no words.
var ErrEmptyCommand = errors.New("empty validator command")

// ParseCommand splits a validator command line into argv using POSIX shell
// word rules, so "uvx check-jsonschema --no-cache" and quoted paths work.
// Environment references ($HOME) are expanded from the process environment.
func ParseCommand(line string) ([]string, error) {
	fields, err := shell.Fields(line, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("parse validator command %q: %w", line, err)
	}
	if len(fields) == 0 {
		return nil, ErrEmptyCommand
	}
	return fields, nil
}

// quoteArgs renders argv as a single shell-safe line for logs and dry runs.
func quoteArgs(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		q, err := syntax.Quote(arg, syntax.LangPOSIX)
		if err != nil {
			// Only unprintable input fails to quote; show it raw.
			q = arg
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " ")
}
