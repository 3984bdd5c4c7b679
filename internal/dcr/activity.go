// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

package dcr

import "sort"

// ActivityID is the stable, opaque identifier of an activity. It is
// unique across all activities of a graph.
type ActivityID string

// Kind distinguishes the activity variants described in spec §3. A
// single struct carries the union of fields rather than a type
// hierarchy; Kind selects which fields are meaningful, following the
// "tagged variant over inheritance" guidance for this model.
type Kind uint8

const (
	// KindPlain is a plain activity: an id, a label, and an optional datatype.
	KindPlain Kind = iota
	// KindInteraction is a plain activity with an initiator and receivers.
	KindInteraction
	// KindEndpoint is an interaction activity tagged input/output, used only in projections.
	KindEndpoint
	// KindNest is a nesting activity grouping zero or more children.
	KindNest
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindInteraction:
		return "interaction"
	case KindEndpoint:
		return "endpoint"
	case KindNest:
		return "nest"
	default:
		return "unknown"
	}
}

// Activity is a single event (or nest) of a DCR graph. See spec §3 for
// the full invariant list; Graph is responsible for enforcing them
// across structural edits (add_child, collapse, projection rebuild).
type Activity struct {
	ID   ActivityID
	Name string
	Kind Kind

	// Datatype is set on plain/interaction/endpoint activities. Empty
	// string means "not specified"; the emitter maps that to void.
	Datatype string

	// Initiator/Receivers are set on interaction and endpoint activities.
	Initiator string
	Receivers map[string]struct{}

	// IsOutput is meaningful only for KindEndpoint.
	IsOutput bool

	// Roles is the set of all role names referenced by this activity.
	Roles map[string]struct{}

	// Parent is the id of the containing nest, or "" at the forest root.
	Parent ActivityID

	// Children holds the ids of the activities nested directly under
	// this one. Only meaningful for KindNest. Order is insertion order;
	// callers that need a deterministic order must sort by ActivityID.
	Children []ActivityID
}

// IsNest reports whether a is a nesting activity.
func (a *Activity) IsNest() bool { return a.Kind == KindNest }

// IsInteraction reports whether a carries initiator/receiver information.
func (a *Activity) IsInteraction() bool {
	return a.Kind == KindInteraction || a.Kind == KindEndpoint
}

// ReceiverSet returns the sorted list of receiver role names.
func (a *Activity) ReceiverSet() []string {
	out := make([]string, 0, len(a.Receivers))
	for r := range a.Receivers {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// String renders a debug representation of the activity: a plain
// activity prints its name; an interaction or endpoint activity prints
// "!(Name, initiator->receivers)" for an output-tagged endpoint,
// "?(Name, initiator->receivers)" for an input-tagged endpoint, or
// "Name(initiator->receivers)" for an untagged interaction. This
// mirrors the pretty-printer of the original implementation's
// DCREndpointActivity.str_name, kept here as a diagnostic aid only —
// it carries no algorithmic meaning.
func (a *Activity) String() string {
	if !a.IsInteraction() {
		return a.Name
	}

	receivers := a.ReceiverSet()
	recvStr := ""
	if len(receivers) == 1 {
		recvStr = receivers[0]
	} else if len(receivers) > 1 {
		recvStr = "{" + joinStrings(receivers, ",") + "}"
	}

	arrow := a.Name + ", " + a.Initiator + "->" + recvStr
	if a.Kind != KindEndpoint {
		return a.Name + "(" + a.Initiator + "->" + recvStr + ")"
	}
	if a.IsOutput {
		return "!(" + arrow + ")"
	}
	return "?(" + arrow + ")"
}

func joinStrings(ss []string, sep string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += sep
		}
		out += s
	}
	return out
}

// newActivitySet returns a set built from a variadic list of ids.
func newActivitySet(ids ...ActivityID) map[ActivityID]struct{} {
	out := make(map[ActivityID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

// sortedIDs returns the keys of an id set in lexicographic order. The
// projection rebuild walks its event universe in this order so the
// projected graph is built deterministically; set-shaped queries such as
// Ancestors, SubEvents and Dependees return unordered maps.
func sortedIDs(set map[ActivityID]struct{}) []ActivityID {
	out := make([]ActivityID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func unionSet(a, b map[ActivityID]struct{}) map[ActivityID]struct{} {
	out := make(map[ActivityID]struct{}, len(a)+len(b))
	for id := range a {
		out[id] = struct{}{}
	}
	for id := range b {
		out[id] = struct{}{}
	}
	return out
}

func diffSet(a, b map[ActivityID]struct{}) map[ActivityID]struct{} {
	out := make(map[ActivityID]struct{}, len(a))
	for id := range a {
		if _, ok := b[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func intersectSet(a, b map[ActivityID]struct{}) map[ActivityID]struct{} {
	out := make(map[ActivityID]struct{})
	small, big := a, b
	if len(b) < len(a) {
		small, big = b, a
	}
	for id := range small {
		if _, ok := big[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}
