// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dcrproj/internal/dcr"
	"dcrproj/internal/dcr/dcrerr"
	"dcrproj/internal/dcr/describe"
	"dcrproj/internal/dcr/dot"
	"dcrproj/internal/jolie"
	"dcrproj/internal/xmlgraph"
	"dcrproj/pkg/logging"
)

// NewCompileCommand returns the `dcrproj compile` command.
func NewCompileCommand() *cobra.Command {
	var xmlPath string
	var outDir string
	var dotDir string
	var wantDescribe bool
	var concurrent bool

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Project a DCR choreography onto each of its roles",
		Long: `compile reads a DCR choreography from XML, checks that it is
projectable, computes each role's end-point projection, and emits a
service skeleton (an interfaces file and a service file) for every
role.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger := logging.NewLogger(verbose)

			f, err := os.Open(xmlPath)
			if err != nil {
				return dcrerr.IO(fmt.Sprintf("opening %s", xmlPath), err)
			}
			defer f.Close()

			choreography, err := xmlgraph.Parse(f)
			if err != nil {
				return err
			}
			logger.Info("parsed choreography",
				logging.NewField("activities", len(choreography.Activities)),
				logging.NewField("relations", len(choreography.Relations)),
			)

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return dcrerr.IO(fmt.Sprintf("creating output directory %s", outDir), err)
			}
			if dotDir != "" {
				if err := os.MkdirAll(dotDir, 0o755); err != nil {
					return dcrerr.IO(fmt.Sprintf("creating dot directory %s", dotDir), err)
				}
			}

			projections, err := choreography.ProjectAll(cmd.Context(), concurrent)
			if err != nil {
				return err
			}

			for _, p := range projections {
				if err := writeProjection(outDir, dotDir, wantDescribe, p); err != nil {
					return err
				}
				fmt.Fprintf(out, "projected %s -> %s, %s\n", p.Actor,
					jolie.InterfaceFilename(p.Actor), jolie.ServiceFilename(p.Actor))
			}

			if dotDir != "" {
				if err := writeFile(filepath.Join(dotDir, "choreography.dot"), []byte(dot.Render(&choreography.Graph, "choreography"))); err != nil {
					return err
				}
			}
			if wantDescribe {
				data, err := describe.Render(&choreography.Graph)
				if err != nil {
					return dcrerr.IO("rendering choreography description", err)
				}
				if err := writeFile(filepath.Join(outDir, "choreography.yaml"), data); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&xmlPath, "xml", "", "path to the DCR choreography XML document (required)")
	cmd.Flags().StringVar(&outDir, "out", "output", "directory to write generated service skeletons into")
	cmd.Flags().StringVar(&dotDir, "dot", "", "directory to write Graphviz DOT diagnostics into (omit to skip)")
	cmd.Flags().BoolVar(&wantDescribe, "describe", false, "also write a YAML description of each graph")
	cmd.Flags().BoolVar(&concurrent, "concurrent", false, "project roles concurrently")
	_ = cmd.MarkFlagRequired("xml")

	return cmd
}

func writeProjection(outDir, dotDir string, wantDescribe bool, p *dcr.Projection) error {
	if err := writeFile(filepath.Join(outDir, jolie.InterfaceFilename(p.Actor)), []byte(jolie.RenderInterfaces(p))); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outDir, jolie.ServiceFilename(p.Actor)), []byte(jolie.RenderService(p))); err != nil {
		return err
	}
	if dotDir != "" {
		if err := writeFile(filepath.Join(dotDir, p.Actor+".dot"), []byte(dot.Render(&p.Graph, p.Actor))); err != nil {
			return err
		}
	}
	if wantDescribe {
		data, err := describe.Render(&p.Graph)
		if err != nil {
			return dcrerr.IO(fmt.Sprintf("rendering %s description", p.Actor), err)
		}
		if err := writeFile(filepath.Join(outDir, p.Actor+".yaml"), data); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return dcrerr.IO(fmt.Sprintf("writing %s", path), err)
	}
	return nil
}
