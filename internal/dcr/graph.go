// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

package dcr

import (
	"sort"
	"strings"
)

// Graph is the container of activities, relations, and an initial
// marking (spec §3/§4.3). Activities are stored in an id-keyed arena
// rather than linked by pointer, so that parent/child re-linking
// during collapse or projection is a matter of rewriting a field, not
// chasing cyclic ownership (spec §9, "Cyclic parent references").
type Graph struct {
	Activities map[ActivityID]*Activity
	Relations  []*Relation
	Marking    Marking
}

// NewGraph returns an empty graph.
func NewGraph() Graph {
	return Graph{
		Activities: make(map[ActivityID]*Activity),
		Marking:    NewMarking(),
	}
}

// FindByID returns the activity with the given id, if present.
func (g *Graph) FindByID(id ActivityID) (*Activity, bool) {
	a, ok := g.Activities[id]
	return a, ok
}

// FindByLabel returns the first activity (in id order) whose Name
// matches, if any. Mirrors the original implementation's
// get_event_by_name.
func (g *Graph) FindByLabel(name string) (*Activity, bool) {
	ids := make([]ActivityID, 0, len(g.Activities))
	for id := range g.Activities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if g.Activities[id].Name == name {
			return g.Activities[id], true
		}
	}
	return nil, false
}

// AddChild attaches activity to nest, setting activity.Parent and
// appending to nest.Children. nest must already be a KindNest activity
// present in the graph.
func (g *Graph) AddChild(nestID, childID ActivityID) {
	nest := g.Activities[nestID]
	child := g.Activities[childID]
	child.Parent = nestID
	nest.Children = append(nest.Children, childID)
}

// Ancestors returns the set {a.Parent, a.Parent.Parent, ...}, excluding
// a itself, terminating at the forest root.
func (g *Graph) Ancestors(id ActivityID) map[ActivityID]struct{} {
	out := make(map[ActivityID]struct{})
	cur := g.Activities[id]
	for cur != nil && cur.Parent != "" {
		out[cur.Parent] = struct{}{}
		cur = g.Activities[cur.Parent]
	}
	return out
}

// Descendants returns the transitive closure over Children if a is a
// nest, else the empty set.
func (g *Graph) Descendants(id ActivityID) map[ActivityID]struct{} {
	a := g.Activities[id]
	out := make(map[ActivityID]struct{})
	if a == nil || !a.IsNest() {
		return out
	}
	// Walk a worklist rather than mutating a.Children while iterating
	// it: the original implementation's get_successors mutates the
	// container it walks, which only terminates because Python set
	// iteration happens to observe later insertions; here we compute
	// the same transitive closure explicitly via a queue.
	queue := append([]ActivityID(nil), a.Children...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, seen := out[id]; seen {
			continue
		}
		out[id] = struct{}{}
		if child := g.Activities[id]; child != nil && child.IsNest() {
			queue = append(queue, child.Children...)
		}
	}
	return out
}

// SubEvents returns the set of non-nest leaves reachable via
// Children*; for a non-nest activity it returns {a}.
func (g *Graph) SubEvents(id ActivityID) map[ActivityID]struct{} {
	a := g.Activities[id]
	if a == nil {
		return map[ActivityID]struct{}{}
	}
	if !a.IsNest() {
		return newActivitySet(id)
	}
	out := make(map[ActivityID]struct{})
	for desc := range g.Descendants(id) {
		if child := g.Activities[desc]; child != nil && !child.IsNest() {
			out[desc] = struct{}{}
		}
	}
	return out
}

// subEventsOfSet is SubEvents unioned over a set of ids.
func (g *Graph) subEventsOfSet(ids map[ActivityID]struct{}) map[ActivityID]struct{} {
	out := make(map[ActivityID]struct{})
	for id := range ids {
		for e := range g.SubEvents(id) {
			out[e] = struct{}{}
		}
	}
	return out
}

// Incoming returns the relations whose End is e or, if includeAncestors
// is true, any ancestor of e, restricted to kinds (empty = any kind).
func (g *Graph) Incoming(e ActivityID, includeAncestors bool, kinds ...RelationKind) []*Relation {
	targets := newActivitySet(e)
	if includeAncestors {
		targets = unionSet(targets, g.Ancestors(e))
	}
	return g.filterRelations(targets, kinds, false)
}

// Outgoing is the symmetric query on Start.
func (g *Graph) Outgoing(e ActivityID, includeAncestors bool, kinds ...RelationKind) []*Relation {
	targets := newActivitySet(e)
	if includeAncestors {
		targets = unionSet(targets, g.Ancestors(e))
	}
	return g.filterRelations(targets, kinds, true)
}

func (g *Graph) filterRelations(nodes map[ActivityID]struct{}, kinds []RelationKind, byStart bool) []*Relation {
	var kindSet map[RelationKind]struct{}
	if len(kinds) > 0 {
		kindSet = make(map[RelationKind]struct{}, len(kinds))
		for _, k := range kinds {
			kindSet[k] = struct{}{}
		}
	}

	out := make([]*Relation, 0)
	for _, r := range g.Relations {
		endpoint := r.End
		if byStart {
			endpoint = r.Start
		}
		if _, ok := nodes[endpoint]; !ok {
			continue
		}
		if kindSet != nil {
			if _, ok := kindSet[r.Kind]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		if out[i].End != out[j].End {
			return out[i].End < out[j].End
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// Collapse rewrites the graph once, non-recursively: every nest that
// has exactly one child, or that has no incoming/outgoing relations of
// its own (ignoring ancestor expansion), is removed. Its children are
// re-parented to its parent, its id is dropped from its parent's
// Children, and, when it has exactly one child, every relation endpoint
// pointing at it is rewritten to that child (a nest removed for having
// no relations of its own has none to rewrite). Collapse is safe
// because relation queries include ancestors by default, so dropping
// an unconnected or single-child nest cannot change what any query
// observes (spec §4.3).
func (g *Graph) Collapse() {
	ids := make([]ActivityID, 0, len(g.Activities))
	for id := range g.Activities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	survivors := make(map[ActivityID]*Activity, len(g.Activities))
	for _, id := range ids {
		a := g.Activities[id]
		if !a.IsNest() {
			survivors[id] = a
			continue
		}

		noOwnRelations := len(g.Incoming(id, false)) == 0 && len(g.Outgoing(id, false)) == 0
		if len(a.Children) == 1 || noOwnRelations {
			g.collapseNest(a)
			continue
		}
		survivors[id] = a
	}
	g.Activities = survivors
}

// collapseNest splices a single nest out of the graph: re-parents its
// children and rewrites relations that reference it.
func (g *Graph) collapseNest(nest *Activity) {
	children := append([]ActivityID(nil), nest.Children...)
	sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })

	for _, childID := range children {
		child := g.Activities[childID]
		child.Parent = nest.Parent
		if nest.Parent != "" {
			parent := g.Activities[nest.Parent]
			parent.Children = appendUnique(parent.Children, childID)
		}
	}
	if nest.Parent != "" {
		parent := g.Activities[nest.Parent]
		kept := parent.Children[:0]
		for _, cid := range parent.Children {
			if cid != nest.ID {
				kept = append(kept, cid)
			}
		}
		parent.Children = kept
	}

	// Exactly one child: rewrite relation endpoints unambiguously.
	// No relations: nothing to rewrite, but if there are several
	// children (the "no relations" branch with >1 child) there is
	// nothing for a relation to be rewritten to, which matches spec's
	// "no relations to rewrite" note for that case.
	if len(children) == 1 {
		sole := children[0]
		for _, r := range g.Relations {
			if r.Start == nest.ID {
				r.Start = sole
			}
			if r.End == nest.ID {
				r.End = sole
			}
		}
	}
}

func appendUnique(ids []ActivityID, id ActivityID) []ActivityID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// Interactions returns all non-nest events of the graph, sorted by id.
func (g *Graph) Interactions() []*Activity {
	out := make([]*Activity, 0, len(g.Activities))
	for _, a := range g.Activities {
		if !a.IsNest() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Roots returns the top-level (parent-less) activities, sorted by id.
func (g *Graph) Roots() []*Activity {
	out := make([]*Activity, 0)
	for _, a := range g.Activities {
		if a.Parent == "" {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// String renders a recursive, deterministic pretty-print of the
// forest, mirroring the original implementation's DCRGraph.__str__.
// It is a diagnostic aid, not used by any algorithm in this package.
func (g *Graph) String() string {
	var sb strings.Builder
	for _, root := range g.Roots() {
		sb.WriteString("\n")
		g.writeNode(&sb, root, 0)
	}
	return sb.String()
}

func (g *Graph) writeNode(sb *strings.Builder, node *Activity, indent int) {
	pad := ""
	for i := 0; i < indent; i++ {
		pad += "    "
	}
	sb.WriteString(pad + node.String())
	for _, r := range g.Incoming(node.ID, false) {
		sb.WriteString("\n" + pad + "<-" + r.Kind.String() + "-" + string(r.Start))
	}
	for _, r := range g.Outgoing(node.ID, false) {
		sb.WriteString("\n" + pad + "->" + r.Kind.String() + "-" + string(r.End))
	}
	if node.IsNest() {
		children := append([]ActivityID(nil), node.Children...)
		sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
		for _, cid := range children {
			sb.WriteString("\n")
			g.writeNode(sb, g.Activities[cid], indent+1)
		}
	}
}
