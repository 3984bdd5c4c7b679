// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

// Package xmlgraph is the XML ingestion adapter (spec §6): it parses a
// DCR-choreography XML document into a dcr.Choreography. It is a pure
// syntactic adapter, carrying no algorithmic content of its own — see
// spec §1's "out of scope" list.
package xmlgraph

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"

	"dcrproj/internal/dcr"
	"dcrproj/internal/dcr/dcrerr"
)

// node is a generic XML element: attributes, character data, and
// children, captured without committing to a fixed schema. This
// mirrors how the original Python implementation walks an
// xml.etree.ElementTree with `.iter()`/`.find()` rather than a fixed
// struct-per-tag model — the grammar is sparse enough (spec §6) that a
// handful of recursive finders over a generic tree reads more like the
// source material than a large set of single-purpose structs would.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []node     `xml:",any"`
}

func (n *node) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// findAll recursively collects every descendant (and self) element
// whose local name matches tag, mirroring ElementTree's `.iter(tag)`.
func findAll(n *node, tag string) []*node {
	var out []*node
	if n.XMLName.Local == tag {
		out = append(out, n)
	}
	for i := range n.Nodes {
		out = append(out, findAll(&n.Nodes[i], tag)...)
	}
	return out
}

// directChildren returns n's immediate children whose local name
// matches tag, mirroring ElementTree's `.findall(tag)`.
func directChildren(n *node, tag string) []*node {
	var out []*node
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == tag {
			out = append(out, &n.Nodes[i])
		}
	}
	return out
}

// roleGrammar is spec §6's choreography role grammar:
// ^(S|R):((U|S):)?([^+]+)$ — group 1 is sender/receiver, group 3 is
// the optional User/Service classification (default Service), group 4
// is the role name.
var roleGrammar = regexp.MustCompile(`^(S|R):((U|S):)?([^+]+)$`)

// Parse reads a DCR-choreography XML document and builds a
// dcr.Choreography. On any malformed input or dangling reference it
// returns a *dcrerr.Error, or, for a malformed role, an error that
// wraps one with the event id (use errors.As to recover it) (spec §7).
func Parse(r io.Reader) (*dcr.Choreography, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, dcrerr.IO("reading DCR graph XML", err)
	}

	var root node
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, dcrerr.Malformed("parsing XML: %v", err)
	}

	mappings := parseLabelMapping(&root)
	g := dcr.NewChoreography()

	if err := parseActivities(&root, mappings, g); err != nil {
		return nil, err
	}
	if err := parseConnections(&root, g); err != nil {
		return nil, err
	}
	if err := parseInitialMarking(&root, g); err != nil {
		return nil, err
	}

	return g, nil
}

func parseLabelMapping(root *node) map[string]string {
	out := make(map[string]string)
	for _, m := range findAll(root, "labelMapping") {
		eventID, _ := m.attr("eventId")
		labelID, _ := m.attr("labelId")
		out[eventID] = labelID
	}
	return out
}

func parseActivities(root *node, mappings map[string]string, g *dcr.Choreography) error {
	for _, events := range findAll(root, "events") {
		for i := range events.Nodes {
			if _, err := parseEventOrNest(&events.Nodes[i], mappings, g); err != nil {
				return err
			}
		}
	}
	return nil
}

func parseEventOrNest(n *node, mappings map[string]string, g *dcr.Choreography) (dcr.ActivityID, error) {
	if len(directChildren(n, "event")) > 0 {
		return parseNest(n, mappings, g)
	}
	return parseLeafEvent(n, mappings, g)
}

func parseNest(n *node, mappings map[string]string, g *dcr.Choreography) (dcr.ActivityID, error) {
	id, ok := n.attr("id")
	if !ok || id == "" {
		return "", dcrerr.Malformed("event element missing required %q attribute", "id")
	}

	var childIDs []dcr.ActivityID
	for _, child := range directChildren(n, "event") {
		cid, err := parseEventOrNest(child, mappings, g)
		if err != nil {
			return "", err
		}
		childIDs = append(childIDs, cid)
	}

	nestID := dcr.ActivityID(id)
	g.Activities[nestID] = &dcr.Activity{
		ID:    nestID,
		Name:  mappings[id],
		Kind:  dcr.KindNest,
		Roles: map[string]struct{}{},
	}
	for _, cid := range childIDs {
		g.AddChild(nestID, cid)
	}
	return nestID, nil
}

func parseLeafEvent(n *node, mappings map[string]string, g *dcr.Choreography) (dcr.ActivityID, error) {
	id, ok := n.attr("id")
	if !ok || id == "" {
		return "", dcrerr.Malformed("event element missing required %q attribute", "id")
	}

	datatype := ""
	if dts := findAll(n, "dataType"); len(dts) > 0 {
		datatype = dts[0].Content
	}

	initiator, receivers, roles, err := parseRoles(n, g)
	if err != nil {
		return "", fmt.Errorf("event %q: %w", id, err)
	}
	if initiator == "" || len(receivers) == 0 {
		return "", dcrerr.Malformed("event %q must have exactly one S: role and at least one R: role", id)
	}

	activityID := dcr.ActivityID(id)
	g.Activities[activityID] = &dcr.Activity{
		ID:        activityID,
		Name:      mappings[id],
		Kind:      dcr.KindInteraction,
		Datatype:  datatype,
		Initiator: initiator,
		Receivers: receivers,
		Roles:     roles,
	}
	return activityID, nil
}

// parseRoles walks every role element within a leaf event node (safe
// to do recursively: a leaf event, by construction, has no nested
// event children whose own roles could be mistakenly swept in),
// classifying each role as initiator/receiver and as User/Service on
// the choreography as a whole.
func parseRoles(n *node, g *dcr.Choreography) (initiator string, receivers map[string]struct{}, roles map[string]struct{}, err error) {
	receivers = make(map[string]struct{})
	roles = make(map[string]struct{})

	for _, r := range findAll(n, "role") {
		if r.Content == "" {
			continue
		}
		m := roleGrammar.FindStringSubmatch(r.Content)
		if m == nil {
			return "", nil, nil, dcrerr.Malformed("role %q is not well formed", r.Content)
		}

		sr, classification, name := m[1], m[3], m[4]

		if sr == "S" {
			if initiator != "" {
				return "", nil, nil, dcrerr.Malformed("choreography activities must have exactly one initiator")
			}
			initiator = name
		} else {
			receivers[name] = struct{}{}
		}
		roles[name] = struct{}{}

		if classification == "U" {
			g.Users[name] = struct{}{}
		} else {
			g.Services[name] = struct{}{}
		}
	}
	return initiator, receivers, roles, nil
}
