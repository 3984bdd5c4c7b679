// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

package dcr

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"dcrproj/internal/dcr/dcrerr"
)

// Project builds the end-point projection of the choreography for
// actor, following spec §4.6 steps 1-9. It returns a NotProjectable
// error (with the offending (e, d) pairs) if §4.5's check fails.
func (c *Choreography) Project(ctx context.Context, actor string) (*Projection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if violations := c.IsProjectableForActor(actor); len(violations) > 0 {
		return nil, dcrerr.NotProjectableError(actor, toDcrerrViolations(violations))
	}

	// Step 1: delta = events initiated by actor, plus their ancestor nests.
	delta := make(map[ActivityID]struct{})
	for _, e := range c.Interactions() {
		if e.Initiator != actor {
			continue
		}
		delta[e.ID] = struct{}{}
		for anc := range c.Ancestors(e.ID) {
			delta[anc] = struct{}{}
		}
	}

	// Step 2: dependency closure of delta.
	eDelta := c.DependeesSet(delta)

	// Step 3: events actor receives.
	eReceiver := make(map[ActivityID]struct{})
	for _, e := range c.Interactions() {
		if _, ok := e.Receivers[actor]; ok {
			eReceiver[e.ID] = struct{}{}
		}
	}

	// Step 4: projected event universe.
	eProjected := unionSet(unionSet(delta, eDelta), eReceiver)

	// Step 5: projected initial marking.
	executedDelta := intersectSet(c.Marking.Executed, eDelta)
	pendingDelta := intersectSet(c.Marking.Pending, eDelta)

	t := unionSet(delta, c.guardedInto(delta))
	includedDelta := unionSet(intersectSet(c.Marking.Included, t), diffSet(eDelta, t))
	includedProjected := unionSet(includedDelta, diffSet(eReceiver, diffSet(eDelta, includedDelta)))

	// Step 6: select relations.
	kept := c.selectRelations(delta)

	// Step 7: rebuild events.
	proj := &Projection{
		Graph:    NewGraph(),
		Actor:    actor,
		Users:    make(map[string]struct{}),
		Services: make(map[string]struct{}),
	}

	projectedIDs := sortedIDs(eProjected)
	for _, id := range projectedIDs {
		addProjectedEvent(proj, &c.Graph, actor, id)
	}

	for _, id := range projectedIDs {
		e := proj.Activities[id]
		if e.IsNest() {
			continue
		}
		if e.Initiator != "" {
			classifyRole(proj, c, e.Initiator)
		}
		for r := range e.Receivers {
			classifyRole(proj, c, r)
		}
	}

	// Step 8: rebuild relations.
	for _, r := range kept {
		start, okS := proj.Activities[r.Start]
		end, okE := proj.Activities[r.End]
		if !okS || !okE {
			continue
		}
		proj.Relations = append(proj.Relations, &Relation{
			Start:      start.ID,
			End:        end.ID,
			Kind:       r.Kind,
			Expression: r.Expression,
		})
	}
	sort.Slice(proj.Relations, func(i, j int) bool {
		a, b := proj.Relations[i], proj.Relations[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return a.Kind < b.Kind
	})

	// Projected marking, restricted to events that survived into the projection.
	for id := range executedDelta {
		if _, ok := proj.Activities[id]; ok {
			proj.Marking.Executed[id] = struct{}{}
		}
	}
	for id := range pendingDelta {
		if _, ok := proj.Activities[id]; ok {
			proj.Marking.Pending[id] = struct{}{}
		}
	}
	for id := range includedProjected {
		if _, ok := proj.Activities[id]; ok {
			proj.Marking.Included[id] = struct{}{}
		}
	}

	proj.Collapse()

	return proj, nil
}

// guardedInto returns { e : e has an outgoing Condition or Milestone
// relation (ancestors included) into delta }, the "T" set of spec §4.6
// step 5.
func (c *Choreography) guardedInto(delta map[ActivityID]struct{}) map[ActivityID]struct{} {
	out := make(map[ActivityID]struct{})
	for id := range c.Activities {
		for _, r := range c.Outgoing(id, true, Condition, Milestone) {
			if _, ok := delta[r.End]; ok {
				out[id] = struct{}{}
				break
			}
		}
	}
	return out
}

// selectRelations implements spec §4.6 step 6: Condition/Milestone
// relations ending in delta, Response/CoResponse ending in delta or in
// the start of a kept Milestone, Include/Exclude ending in delta or in
// the start of a kept Condition/Milestone.
func (c *Choreography) selectRelations(delta map[ActivityID]struct{}) []*Relation {
	var condToD, milToD, respToD, crespToD, incToD, excToD []*Relation

	for _, r := range c.Relations {
		if _, ok := delta[r.End]; !ok {
			continue
		}
		switch r.Kind {
		case Condition:
			condToD = append(condToD, r)
		case Milestone:
			milToD = append(milToD, r)
		case Response:
			respToD = append(respToD, r)
		case CoResponse:
			crespToD = append(crespToD, r)
		case Include:
			incToD = append(incToD, r)
		case Exclude:
			excToD = append(excToD, r)
		}
	}

	milStarts := startSet(milToD)
	condOrMilStarts := unionSet(startSet(condToD), milStarts)

	var out []*Relation
	out = append(out, condToD...)
	out = append(out, milToD...)
	out = append(out, respToD...)
	out = append(out, crespToD...)
	out = append(out, incToD...)
	out = append(out, excToD...)

	for _, r := range c.Relations {
		switch r.Kind {
		case Response:
			if _, ok := milStarts[r.End]; ok && !containsRelation(respToD, r) {
				out = append(out, r)
			}
		case CoResponse:
			if _, ok := milStarts[r.End]; ok && !containsRelation(crespToD, r) {
				out = append(out, r)
			}
		case Include:
			if _, ok := condOrMilStarts[r.End]; ok && !containsRelation(incToD, r) {
				out = append(out, r)
			}
		case Exclude:
			if _, ok := condOrMilStarts[r.End]; ok && !containsRelation(excToD, r) {
				out = append(out, r)
			}
		}
	}
	return out
}

func startSet(rs []*Relation) map[ActivityID]struct{} {
	out := make(map[ActivityID]struct{}, len(rs))
	for _, r := range rs {
		out[r.Start] = struct{}{}
	}
	return out
}

func containsRelation(rs []*Relation, target *Relation) bool {
	for _, r := range rs {
		if r == target {
			return true
		}
	}
	return false
}

// addProjectedEvent recreates, depth-first via the ancestor chain, the
// projection activity for id if it is not already present in proj,
// and returns it (spec §4.6 step 7).
func addProjectedEvent(proj *Projection, original *Graph, actor string, id ActivityID) *Activity {
	if existing, ok := proj.Activities[id]; ok {
		return existing
	}

	old := original.Activities[id]

	var ne *Activity
	if old.IsNest() {
		ne = &Activity{
			ID:    id,
			Name:  old.Name,
			Kind:  KindNest,
			Roles: copyStrSet(old.Roles),
		}
	} else {
		receivers := map[string]struct{}{actor: {}}
		if old.Initiator == actor {
			receivers = copyStrSet(old.Receivers)
		}
		ne = &Activity{
			ID:        id,
			Name:      old.Name,
			Kind:      KindEndpoint,
			Datatype:  old.Datatype,
			Initiator: old.Initiator,
			Receivers: receivers,
			IsOutput:  old.Initiator == actor,
			Roles:     copyStrSet(old.Roles),
		}
	}

	proj.Activities[id] = ne

	if old.Parent != "" {
		parent := addProjectedEvent(proj, original, actor, old.Parent)
		proj.AddChild(parent.ID, ne.ID)
	}

	return ne
}

func classifyRole(proj *Projection, c *Choreography, role string) {
	if _, ok := c.Users[role]; ok {
		proj.Users[role] = struct{}{}
		return
	}
	proj.Services[role] = struct{}{}
}

func copyStrSet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

// ProjectAll computes one projection per role, optionally concurrently
// (spec §5): the choreography is read-only after parsing, and each
// projection owns its own fresh graph, so roles may be projected in
// parallel. Results are always returned sorted by role name,
// regardless of completion order or concurrency.
func (c *Choreography) ProjectAll(ctx context.Context, concurrent bool) ([]*Projection, error) {
	roles := c.Roles()
	results := make([]*Projection, len(roles))

	if !concurrent {
		for i, role := range roles {
			p, err := c.Project(ctx, role)
			if err != nil {
				return nil, err
			}
			results[i] = p
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, role := range roles {
		i, role := i, role
		g.Go(func() error {
			p, err := c.Project(gctx, role)
			if err != nil {
				return err
			}
			results[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func toDcrerrViolations(vs []Violation) []dcrerr.Violation {
	out := make([]dcrerr.Violation, len(vs))
	for i, v := range vs {
		out[i] = dcrerr.Violation{Event: string(v.Event), Dependent: string(v.Dependent)}
	}
	return out
}
