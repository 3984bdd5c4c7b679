// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

package dcr

import "testing"

func TestDependees_TwoHop_IncludeIntoCondition(t *testing.T) {
	g := NewGraph()
	g.Activities["e0"] = newEvent("e0", "Register")
	g.Activities["e1"] = newEvent("e1", "Approve")
	g.Activities["e2"] = newEvent("e2", "Ship")
	g.Relations = []*Relation{
		{Start: "e0", End: "e1", Kind: Include},
		{Start: "e1", End: "e2", Kind: Condition},
	}

	got := g.Dependees("e2")
	for _, want := range []ActivityID{"e2", "e1", "e0"} {
		if _, ok := got[want]; !ok {
			t.Errorf("Dependees(e2) missing %q: %v", want, got)
		}
	}
}

func TestDependees_TwoHop_ResponseIntoMilestone(t *testing.T) {
	g := NewGraph()
	g.Activities["e0"] = newEvent("e0", "Order")
	g.Activities["e1"] = newEvent("e1", "Pay")
	g.Activities["e2"] = newEvent("e2", "Close")
	g.Relations = []*Relation{
		{Start: "e0", End: "e1", Kind: Response},
		{Start: "e1", End: "e2", Kind: Milestone},
	}

	got := g.Dependees("e2")
	for _, want := range []ActivityID{"e2", "e1", "e0"} {
		if _, ok := got[want]; !ok {
			t.Errorf("Dependees(e2) missing %q: %v", want, got)
		}
	}
}

func TestDependees_NotTransitive_BeyondTwoHops(t *testing.T) {
	g := NewGraph()
	g.Activities["e0"] = newEvent("e0", "A")
	g.Activities["e1"] = newEvent("e1", "B")
	g.Activities["e2"] = newEvent("e2", "C")
	g.Activities["e3"] = newEvent("e3", "D")
	g.Relations = []*Relation{
		{Start: "e0", End: "e1", Kind: Include},
		{Start: "e1", End: "e2", Kind: Include},
		{Start: "e2", End: "e3", Kind: Condition},
	}

	got := g.Dependees("e3")
	if _, ok := got["e0"]; ok {
		t.Errorf("Dependees should stop after two hops, but e0 was pulled in: %v", got)
	}
}

func TestDependers_Symmetric(t *testing.T) {
	g := NewGraph()
	g.Activities["e0"] = newEvent("e0", "Register")
	g.Activities["e1"] = newEvent("e1", "Approve")
	g.Activities["e2"] = newEvent("e2", "Ship")
	g.Relations = []*Relation{
		{Start: "e0", End: "e1", Kind: Include},
		{Start: "e1", End: "e2", Kind: Condition},
	}

	got := g.Dependers("e0")
	for _, want := range []ActivityID{"e0", "e1", "e2"} {
		if _, ok := got[want]; !ok {
			t.Errorf("Dependers(e0) missing %q: %v", want, got)
		}
	}
}
