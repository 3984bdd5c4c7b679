// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

package dot

import (
	"strings"
	"testing"

	"dcrproj/internal/dcr"
)

func TestRender_NodesAndEdges(t *testing.T) {
	g := dcr.NewGraph()
	g.Activities["e1"] = &dcr.Activity{ID: "e1", Name: "A", Kind: dcr.KindInteraction, Roles: map[string]struct{}{}}
	g.Activities["e2"] = &dcr.Activity{ID: "e2", Name: "B", Kind: dcr.KindInteraction, Roles: map[string]struct{}{}}
	g.Relations = []*dcr.Relation{{Start: "e1", End: "e2", Kind: dcr.Include}}
	g.Marking.Included["e1"] = struct{}{}

	out := Render(&g, "choreography")

	if !strings.HasPrefix(out, "digraph choreography {") {
		t.Errorf("unexpected header: %q", out)
	}
	if !strings.Contains(out, `"e1"`) || !strings.Contains(out, `"e2"`) {
		t.Errorf("expected both nodes rendered:\n%s", out)
	}
	if !strings.Contains(out, `"e1" -> "e2"`) {
		t.Errorf("expected the relation edge:\n%s", out)
	}
}

func TestRender_Deterministic(t *testing.T) {
	g := dcr.NewGraph()
	g.Activities["z"] = &dcr.Activity{ID: "z", Name: "Z", Kind: dcr.KindInteraction, Roles: map[string]struct{}{}}
	g.Activities["a"] = &dcr.Activity{ID: "a", Name: "A", Kind: dcr.KindInteraction, Roles: map[string]struct{}{}}

	first := Render(&g, "g")
	second := Render(&g, "g")
	if first != second {
		t.Errorf("Render should be deterministic across calls")
	}
	if strings.Index(first, `"a"`) > strings.Index(first, `"z"`) {
		t.Errorf("expected nodes sorted by id, got:\n%s", first)
	}
}
