// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

package dcr

import "sort"

// Violation is an offending (e, d) pair reported by a failed
// projectability check: d is directly influenced by e but is not
// initiated by a participant of e (spec §4.5/§7).
type Violation struct {
	Event     ActivityID
	Dependent ActivityID
}

// IsProjectableForActors determines whether the choreography is
// projectable for the given set of actors and delta (the events for
// which projectability is being checked): for every event e in delta
// initiated by one of actors, every event d in dep→(e) other than e
// itself must be initiated by a participant of e (spec §4.5).
func (c *Choreography) IsProjectableForActors(actors map[string]struct{}, delta []*Activity) []Violation {
	var violations []Violation

	for _, e := range delta {
		if _, ok := actors[e.Initiator]; !ok {
			continue
		}
		participants := unionStrSet(e.Receivers, map[string]struct{}{e.Initiator: {}})

		for d := range c.Dependers(e.ID) {
			if d == e.ID {
				continue
			}
			dep, ok := c.Activities[d]
			if !ok || dep.IsNest() {
				continue
			}
			if _, ok := participants[dep.Initiator]; !ok {
				violations = append(violations, Violation{Event: e.ID, Dependent: d})
			}
		}
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Event != violations[j].Event {
			return violations[i].Event < violations[j].Event
		}
		return violations[i].Dependent < violations[j].Dependent
	})
	return violations
}

// IsProjectableForActor checks projectability for a single actor and
// the events it initiates.
func (c *Choreography) IsProjectableForActor(actor string) []Violation {
	delta := make([]*Activity, 0)
	for _, e := range c.Interactions() {
		if e.Initiator == actor {
			delta = append(delta, e)
		}
	}
	return c.IsProjectableForActors(map[string]struct{}{actor: {}}, delta)
}

// IsProjectable checks projectability for every role in the
// choreography: the whole-graph check is the conjunction over all
// roles (spec §4.5).
func (c *Choreography) IsProjectable() []Violation {
	var all []Violation
	for _, role := range c.Roles() {
		all = append(all, c.IsProjectableForActor(role)...)
	}
	return all
}

// Roles returns the sorted union of Users and Services.
func (c *Choreography) Roles() []string {
	out := make([]string, 0, len(c.Users)+len(c.Services))
	for r := range c.Users {
		out = append(out, r)
	}
	for r := range c.Services {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

func unionStrSet(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}
