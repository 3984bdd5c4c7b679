// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

package main

import (
	"errors"
	"fmt"
	"os"

	"dcrproj/internal/cli"
	"dcrproj/internal/dcr/dcrerr"
)

func main() {
	rootCmd := cli.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a returned error to a process exit code: 1 for
// malformed input, a dangling reference, or a non-projectable
// choreography; 2 for an I/O failure; 1 for anything else (e.g. a
// Cobra flag-parsing error).
func exitCode(err error) int {
	var derr *dcrerr.Error
	if errors.As(err, &derr) && derr.Kind == dcrerr.IOError {
		return 2
	}
	return 1
}
