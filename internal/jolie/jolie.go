// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

// Package jolie is the emitter adapter (spec §4.7/§6): given a
// projection, it renders a service skeleton — an interfaces file and a
// service file — in the target service-definition surface syntax. It
// is a pure syntactic adapter, carrying no algorithmic content of its
// own (spec §1's "out of scope" list).
package jolie

import (
	"sort"
	"strings"

	"dcrproj/internal/dcr"
)

// ConvertDatatype maps a DCR datatype tag to the emitted type name
// (spec §6): text->string, float->double, void|bool|int|long|raw|any
// are identity-mapped, empty maps to void, anything else maps to
// CUSTOM.
func ConvertDatatype(datatype string) string {
	switch datatype {
	case "":
		return "void"
	case "text":
		return "string"
	case "float":
		return "double"
	case "void", "bool", "int", "long", "raw", "any":
		return datatype
	default:
		return "CUSTOM"
	}
}

// operationName derives op = lower(label).replace(' ', '_') (spec §6).
func operationName(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "_")
}

func operation(e *dcr.Activity) string {
	return operationName(e.Name) + "(" + ConvertDatatype(e.Datatype) + ")"
}

// InterfaceFilename and ServiceFilename follow the naming scheme of
// spec §6: "<A>Interfaces.iol" and "<A>Service.ol".
func InterfaceFilename(actor string) string { return actor + "Interfaces.iol" }
func ServiceFilename(actor string) string   { return actor + "Service.ol" }

func interfaceName(from, to string) string { return from + to + "Interface" }

// RenderInterfaces builds the <A>Interfaces.iol content for the
// projection: one interface block per counterparty, grouping inputs
// (events where the actor receives) by initiator and outputs (events
// the actor initiates) by each receiver, per spec §4.7.
func RenderInterfaces(p *dcr.Projection) string {
	inbound := make(map[string][]*dcr.Activity)
	outbound := make(map[string][]*dcr.Activity)

	for _, e := range p.Interactions() {
		if e.IsOutput {
			for r := range e.Receivers {
				outbound[r] = append(outbound[r], e)
			}
		} else {
			inbound[e.Initiator] = append(inbound[e.Initiator], e)
		}
	}

	var sb strings.Builder
	sb.WriteString(renderInterfaceGroup(inbound, true, p.Actor))
	sb.WriteString(renderInterfaceGroup(outbound, false, p.Actor))
	return sb.String()
}

func renderInterfaceGroup(groups map[string][]*dcr.Activity, isInbound bool, actor string) string {
	counterparties := make([]string, 0, len(groups))
	for cp := range groups {
		counterparties = append(counterparties, cp)
	}
	sort.Strings(counterparties)

	var sb strings.Builder
	for _, cp := range counterparties {
		events := append([]*dcr.Activity(nil), groups[cp]...)
		sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })

		name := interfaceName(cp, actor)
		if !isInbound {
			name = interfaceName(actor, cp)
		}

		ops := make([]string, 0, len(events))
		for _, e := range events {
			ops = append(ops, operation(e))
		}

		sb.WriteString("interface " + name + " {\n\toneWay:\n\t\t")
		sb.WriteString(strings.Join(ops, ",\n\t\t"))
		sb.WriteString("\n}\n\n")
	}
	return sb.String()
}

// RenderService builds the <A>Service.ol content for the projection:
// one execution mode (single for a User, sequential for a Service),
// one inbound port per distinct input counterparty, one outbound port
// per distinct output counterparty (spec §4.7).
func RenderService(p *dcr.Projection) string {
	inboundFrom := make(map[string]struct{})
	outboundTo := make(map[string]struct{})

	for _, e := range p.Interactions() {
		if e.IsOutput {
			for r := range e.Receivers {
				outboundTo[r] = struct{}{}
			}
		} else {
			inboundFrom[e.Initiator] = struct{}{}
		}
	}

	var sb strings.Builder
	sb.WriteString(`include "` + InterfaceFilename(p.Actor) + `"` + "\n\n")

	mode := "sequential"
	if _, ok := p.Users[p.Actor]; ok {
		mode = "single"
	}
	sb.WriteString("service " + p.Actor + "Service {\n\texecution: { " + mode + " }\n\n")

	for _, from := range sortedStrings(inboundFrom) {
		sb.WriteString(renderPort(true, from, p.Actor))
	}
	for _, to := range sortedStrings(outboundTo) {
		sb.WriteString(renderPort(false, p.Actor, to))
	}

	sb.WriteString("\n\tmain {\n\n\t}\n}\n")
	return sb.String()
}

func renderPort(isInput bool, from, to string) string {
	var sb strings.Builder
	if isInput {
		sb.WriteString("\tinputPort in" + from + "Service {\n")
	} else {
		sb.WriteString("\toutputPort out" + to + "Service {\n")
	}
	sb.WriteString("\t\tprotocol: http { format = \"json\" }\n")
	sb.WriteString("\t\tinterfaces: " + interfaceName(from, to) + "\n")
	sb.WriteString("\t}\n\n")
	return sb.String()
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
