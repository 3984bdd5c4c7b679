// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

package dcr

import "testing"

func newEvent(id, name string) *Activity {
	return &Activity{ID: ActivityID(id), Name: name, Kind: KindInteraction, Roles: map[string]struct{}{}}
}

func newNest(id, name string) *Activity {
	return &Activity{ID: ActivityID(id), Name: name, Kind: KindNest, Roles: map[string]struct{}{}}
}

func TestGraph_AncestorsAndDescendants(t *testing.T) {
	g := NewGraph()
	g.Activities["n1"] = newNest("n1", "Outer")
	g.Activities["n2"] = newNest("n2", "Inner")
	g.Activities["e1"] = newEvent("e1", "Leaf")
	g.AddChild("n1", "n2")
	g.AddChild("n2", "e1")

	anc := g.Ancestors("e1")
	if _, ok := anc["n1"]; !ok {
		t.Errorf("Ancestors(e1) missing n1: %v", anc)
	}
	if _, ok := anc["n2"]; !ok {
		t.Errorf("Ancestors(e1) missing n2: %v", anc)
	}

	desc := g.Descendants("n1")
	if _, ok := desc["n2"]; !ok {
		t.Errorf("Descendants(n1) missing n2: %v", desc)
	}
	if _, ok := desc["e1"]; !ok {
		t.Errorf("Descendants(n1) missing e1: %v", desc)
	}

	sub := g.SubEvents("n1")
	if len(sub) != 1 {
		t.Fatalf("SubEvents(n1) = %v, want {e1}", sub)
	}
	if _, ok := sub["e1"]; !ok {
		t.Errorf("SubEvents(n1) missing e1: %v", sub)
	}
}

func TestGraph_FindByLabel(t *testing.T) {
	g := NewGraph()
	g.Activities["e1"] = newEvent("e1", "Place order")
	g.Activities["e2"] = newEvent("e2", "Ship order")

	a, ok := g.FindByLabel("Ship order")
	if !ok || a.ID != "e2" {
		t.Fatalf("FindByLabel(Ship order) = %v, %v", a, ok)
	}

	if _, ok := g.FindByLabel("does not exist"); ok {
		t.Errorf("FindByLabel should not find an absent label")
	}
}

func TestGraph_Collapse_SingleChildNest(t *testing.T) {
	g := NewGraph()
	g.Activities["n1"] = newNest("n1", "Wrapper")
	g.Activities["e1"] = newEvent("e1", "Leaf")
	g.AddChild("n1", "e1")
	g.Relations = append(g.Relations, &Relation{Start: "n1", End: "e1", Kind: Condition})

	g.Collapse()

	if _, ok := g.Activities["n1"]; ok {
		t.Errorf("single-child nest n1 should have been collapsed")
	}
	if _, ok := g.Activities["e1"]; !ok {
		t.Fatalf("e1 should survive collapse")
	}
	if g.Activities["e1"].Parent != "" {
		t.Errorf("e1 should be re-parented to the root, got parent %q", g.Activities["e1"].Parent)
	}
	if g.Relations[0].Start != "e1" {
		t.Errorf("relation endpoint should be rewritten to e1, got %q", g.Relations[0].Start)
	}
}

func TestGraph_Collapse_KeepsMultiChildNestWithRelations(t *testing.T) {
	g := NewGraph()
	g.Activities["n1"] = newNest("n1", "Group")
	g.Activities["e1"] = newEvent("e1", "A")
	g.Activities["e2"] = newEvent("e2", "B")
	g.AddChild("n1", "e1")
	g.AddChild("n1", "e2")
	g.Relations = append(g.Relations, &Relation{Start: "n1", End: "e1", Kind: Condition})

	g.Collapse()

	if _, ok := g.Activities["n1"]; !ok {
		t.Fatalf("multi-child nest with its own relation should survive collapse")
	}
}

func TestGraph_Collapse_RemovesUnconnectedMultiChildNest(t *testing.T) {
	g := NewGraph()
	g.Activities["n1"] = newNest("n1", "Group")
	g.Activities["e1"] = newEvent("e1", "A")
	g.Activities["e2"] = newEvent("e2", "B")
	g.AddChild("n1", "e1")
	g.AddChild("n1", "e2")

	g.Collapse()

	if _, ok := g.Activities["n1"]; ok {
		t.Errorf("unconnected multi-child nest should be removed")
	}
	if g.Activities["e1"].Parent != "" || g.Activities["e2"].Parent != "" {
		t.Errorf("children should be re-parented to the root")
	}
}
