// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

// Package cli wires together the dcrproj root Cobra command and global
// CLI options.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dcrproj/internal/cli/commands"
)

// NewRootCommand constructs the dcrproj root Cobra command.
func NewRootCommand() *cobra.Command {
	version := os.Getenv("DCRPROJ_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "dcrproj",
		Short:         "dcrproj – DCR choreography end-point projection compiler",
		Long:          "dcrproj compiles a DCR choreography into one end-point-projected DCR graph per role, and emits a service skeleton for each.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of dcrproj",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "dcrproj version %s\n", version)
		},
	})

	cmd.AddCommand(commands.NewCompileCommand())

	return cmd
}
