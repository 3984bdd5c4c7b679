// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

package xmlgraph

import (
	"dcrproj/internal/dcr"
	"dcrproj/internal/dcr/dcrerr"
)

// parseConnections builds the relation set from one or more
// <constraints> groups. Each group's direct children are per-kind
// subtrees (condition|response|include|exclude|milestone|coresponse);
// their leaf elements carry sourceId/targetId and an optional
// expression attribute (spec §6).
func parseConnections(root *node, g *dcr.Choreography) error {
	for _, constraints := range findAll(root, "constraints") {
		for i := range constraints.Nodes {
			kindNode := &constraints.Nodes[i]
			kind, ok := dcr.ParseRelationKind(kindNode.XMLName.Local)
			if !ok {
				return dcrerr.Malformed("unknown relation tag %q", kindNode.XMLName.Local)
			}

			for j := range kindNode.Nodes {
				leaf := &kindNode.Nodes[j]
				sourceID, _ := leaf.attr("sourceId")
				targetID, _ := leaf.attr("targetId")

				if _, ok := g.Activities[dcr.ActivityID(sourceID)]; !ok {
					return dcrerr.Dangling("relation %s references unknown source id %q", kind, sourceID)
				}
				if _, ok := g.Activities[dcr.ActivityID(targetID)]; !ok {
					return dcrerr.Dangling("relation %s references unknown target id %q", kind, targetID)
				}

				rel := &dcr.Relation{
					Start: dcr.ActivityID(sourceID),
					End:   dcr.ActivityID(targetID),
					Kind:  kind,
				}
				if expr, ok := leaf.attr("expression"); ok && expr != "" {
					rel.Expression = &expr
				}
				g.Relations = append(g.Relations, rel)
			}
		}
	}
	return nil
}

// parseInitialMarking reads the three sibling groups included,
// executed, pendingResponses, each listing event ids (spec §6).
func parseInitialMarking(root *node, g *dcr.Choreography) error {
	if err := collectMarkingIDs(root, "included", g, g.Marking.Included); err != nil {
		return err
	}
	if err := collectMarkingIDs(root, "executed", g, g.Marking.Executed); err != nil {
		return err
	}
	if err := collectMarkingIDs(root, "pendingResponses", g, g.Marking.Pending); err != nil {
		return err
	}
	return nil
}

func collectMarkingIDs(root *node, tag string, g *dcr.Choreography, into map[dcr.ActivityID]struct{}) error {
	for _, group := range findAll(root, tag) {
		for i := range group.Nodes {
			id, ok := group.Nodes[i].attr("id")
			if !ok || id == "" {
				continue
			}
			activityID := dcr.ActivityID(id)
			if _, ok := g.Activities[activityID]; !ok {
				return dcrerr.Dangling("%s marking references unknown event id %q", tag, id)
			}
			into[activityID] = struct{}{}
		}
	}
	return nil
}
