// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRootCommand_HasCompileSubcommand(t *testing.T) {
	root := NewRootCommand()

	found := false
	for _, c := range root.Commands() {
		if c.Use == "compile" {
			found = true
		}
	}
	if !found {
		t.Error("expected a compile subcommand")
	}
}

func TestNewRootCommand_Version(t *testing.T) {
	root := NewRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(buf.String(), "dcrproj version") {
		t.Errorf("unexpected version output: %q", buf.String())
	}
}
