// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

// Package dot renders a DCR graph (a choreography or a projection) as
// a Graphviz DOT document, for the --dot diagnostics flag.
package dot

import (
	"fmt"
	"sort"
	"strings"

	"dcrproj/internal/dcr"
)

var relationStyle = map[dcr.RelationKind]struct {
	color string
	arrow string
}{
	dcr.Condition:   {"black", "normal"},
	dcr.Milestone:   {"blue", "diamond"},
	dcr.Response:    {"red", "normal"},
	dcr.CoResponse:  {"darkorange", "normal"},
	dcr.Include:     {"forestgreen", "normal"},
	dcr.Exclude:     {"crimson", "tee"},
}

// Render emits g as a DOT digraph: one node per activity, colored by
// marking (nests as box3d nodes, endpoints and plain activities as
// boxes), a dashed gray edge from each nest to each of its children,
// and one edge per relation colored and arrow-headed by kind. Nests are
// not drawn as DOT cluster subgraphs. Nodes are sorted by activity id,
// nest-to-child edges follow each nest's Children order, and relation
// edges are sorted by start, end and kind, for deterministic output.
func Render(g *dcr.Graph, title string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("digraph %s {\n", quoteID(title)))
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n\n")

	ids := make([]string, 0, len(g.Activities))
	for id := range g.Activities {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	for _, id := range ids {
		a := g.Activities[dcr.ActivityID(id)]
		shape := "box"
		if a.IsNest() {
			shape = "box3d"
		}
		sb.WriteString(fmt.Sprintf("  %q [label=%q shape=%s fillcolor=%q style=filled];\n",
			id, a.String(), shape, markingColor(g, a.ID)))
	}

	sb.WriteString("\n")

	for _, id := range ids {
		a := g.Activities[dcr.ActivityID(id)]
		for _, childID := range a.Children {
			sb.WriteString(fmt.Sprintf("  %q -> %q [style=dashed color=gray arrowhead=none];\n", id, childID))
		}
	}

	rels := append([]*dcr.Relation(nil), g.Relations...)
	sort.Slice(rels, func(i, j int) bool {
		if rels[i].Start != rels[j].Start {
			return rels[i].Start < rels[j].Start
		}
		if rels[i].End != rels[j].End {
			return rels[i].End < rels[j].End
		}
		return rels[i].Kind < rels[j].Kind
	})
	for _, r := range rels {
		style := relationStyle[r.Kind]
		sb.WriteString(fmt.Sprintf("  %q -> %q [color=%q arrowhead=%q label=%q];\n",
			r.Start, r.End, style.color, style.arrow, r.Kind))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func markingColor(g *dcr.Graph, id dcr.ActivityID) string {
	switch {
	case g.Marking.IsExecuted(id) && g.Marking.IsPending(id):
		return "lightyellow"
	case g.Marking.IsIncluded(id):
		return "lightgreen"
	default:
		return "lightgray"
	}
}

func quoteID(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return r
	}, s)
	if s == "" {
		return "graph"
	}
	return s
}
