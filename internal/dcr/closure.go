// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

package dcr

// Dependees returns dep←(e): the events that must be observable to an
// actor who observes e. The closure is exactly two hops deep — it is
// not a transitive fixed point — per spec §4.4.
func (g *Graph) Dependees(e ActivityID) map[ActivityID]struct{} {
	ret := newActivitySet(e)

	for _, a := range g.Incoming(e, true) {
		ret = unionSet(ret, g.SubEvents(a.Start))

		if a.Kind == Condition || a.Kind == Milestone {
			for _, prev := range g.Incoming(a.Start, true) {
				if twoHopDependeeRule(prev.Kind, a.Kind) {
					ret = unionSet(ret, g.SubEvents(prev.Start))
				}
			}
		}
	}
	return ret
}

// twoHopDependeeRule implements spec §4.4 step 2's guard-propagation
// rule: a guard (Condition/Milestone) on e also pulls in whatever
// guards *that* guard's source, provided the inner relation is an
// Include/Exclude (for either guard kind) or a Response feeding a
// Milestone.
func twoHopDependeeRule(inner, outer RelationKind) bool {
	if (inner == Include || inner == Exclude) && (outer == Condition || outer == Milestone) {
		return true
	}
	if inner == Response && outer == Milestone {
		return true
	}
	return false
}

// DependeesSet is dep←(S) = union over e in S of Dependees(e).
func (g *Graph) DependeesSet(ids map[ActivityID]struct{}) map[ActivityID]struct{} {
	out := make(map[ActivityID]struct{})
	for id := range ids {
		out = unionSet(out, g.Dependees(id))
	}
	return out
}

// Dependers returns dep→(e): the events an observer of e may affect.
// Symmetric to Dependees; also exactly two hops.
func (g *Graph) Dependers(e ActivityID) map[ActivityID]struct{} {
	ret := newActivitySet(e)

	for _, a := range g.Outgoing(e, true) {
		ret = unionSet(ret, g.SubEvents(a.End))

		if a.Kind == Include || a.Kind == Exclude || a.Kind == Response {
			for _, next := range g.Outgoing(a.End, true) {
				if twoHopDependerRule(a.Kind, next.Kind) {
					ret = unionSet(ret, g.SubEvents(next.End))
				}
			}
		}
	}
	return ret
}

// twoHopDependerRule mirrors twoHopDependeeRule from the other
// direction: an Include/Exclude feeding a Condition/Milestone, or a
// Response feeding a Milestone.
func twoHopDependerRule(outer, inner RelationKind) bool {
	if (outer == Include || outer == Exclude) && (inner == Condition || inner == Milestone) {
		return true
	}
	if outer == Response && inner == Milestone {
		return true
	}
	return false
}

// DependersSet is dep→(S) = union over e in S of Dependers(e). The
// original implementation's get_dependers_l assigns the builtin `set`
// type object instead of a fresh empty set before unioning into it —
// an evident bug. The intended semantics, consistent with
// DependeesSet, is implemented here directly.
func (g *Graph) DependersSet(ids map[ActivityID]struct{}) map[ActivityID]struct{} {
	out := make(map[ActivityID]struct{})
	for id := range ids {
		out = unionSet(out, g.Dependers(id))
	}
	return out
}
