// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

// Package describe renders a DCR graph as a human-readable YAML
// document, for the --describe diagnostics flag. It replaces the
// original implementation's ad hoc verbatim debug dump with a
// stable, documented schema.
package describe

import (
	"sort"

	"gopkg.in/yaml.v3"

	"dcrproj/internal/dcr"
)

// Doc is the top-level YAML document shape emitted for one graph
// (the choreography, or a single role's projection).
type Doc struct {
	Activities []ActivityDoc `yaml:"activities"`
	Relations  []RelationDoc `yaml:"relations,omitempty"`
	Marking    MarkingDoc    `yaml:"marking"`
}

// ActivityDoc describes one activity in the document.
type ActivityDoc struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name,omitempty"`
	Kind      string   `yaml:"kind"`
	Parent    string   `yaml:"parent,omitempty"`
	Initiator string   `yaml:"initiator,omitempty"`
	Receivers []string `yaml:"receivers,omitempty"`
	Datatype  string   `yaml:"datatype,omitempty"`
	Roles     []string `yaml:"roles,omitempty"`
}

// RelationDoc describes one relation in the document.
type RelationDoc struct {
	Start      string  `yaml:"start"`
	Kind       string  `yaml:"kind"`
	End        string  `yaml:"end"`
	Expression *string `yaml:"expression,omitempty"`
}

// MarkingDoc describes the three marking sets, each sorted by id.
type MarkingDoc struct {
	Included []string `yaml:"included,omitempty"`
	Pending  []string `yaml:"pendingResponses,omitempty"`
	Executed []string `yaml:"executed,omitempty"`
}

// BuildDoc walks g into a Doc. Activities, relations and marking sets
// are all emitted in sorted order so the YAML is byte-stable across
// runs.
func BuildDoc(g *dcr.Graph) *Doc {
	ids := make([]string, 0, len(g.Activities))
	for id := range g.Activities {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	doc := &Doc{}
	for _, id := range ids {
		a := g.Activities[dcr.ActivityID(id)]
		doc.Activities = append(doc.Activities, ActivityDoc{
			ID:        string(a.ID),
			Name:      a.Name,
			Kind:      a.Kind.String(),
			Parent:    string(a.Parent),
			Initiator: a.Initiator,
			Receivers: a.ReceiverSet(),
			Datatype:  a.Datatype,
			Roles:     sortedKeys(a.Roles),
		})
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
		doc.Relations = append(doc.Relations, RelationDoc{
			Start:      string(r.Start),
			Kind:       r.Kind.String(),
			End:        string(r.End),
			Expression: r.Expression,
		})
	}

	doc.Marking = MarkingDoc{
		Included: sortedActivityIDs(g.Marking.Included),
		Pending:  sortedActivityIDs(g.Marking.Pending),
		Executed: sortedActivityIDs(g.Marking.Executed),
	}
	return doc
}

// Render marshals g's Doc to YAML.
func Render(g *dcr.Graph) ([]byte, error) {
	return yaml.Marshal(BuildDoc(g))
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedActivityIDs(set map[dcr.ActivityID]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, string(id))
	}
	sort.Strings(out)
	return out
}
