// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

package jolie

import (
	"context"
	"strings"
	"testing"

	"dcrproj/internal/dcr"
)

func TestConvertDatatype(t *testing.T) {
	cases := map[string]string{
		"":      "void",
		"text":  "string",
		"float": "double",
		"bool":  "bool",
		"int":   "int",
		"long":  "long",
		"raw":   "raw",
		"any":   "any",
		"void":  "void",
		"weird": "CUSTOM",
	}
	for in, want := range cases {
		if got := ConvertDatatype(in); got != want {
			t.Errorf("ConvertDatatype(%q) = %q, want %q", in, got, want)
		}
	}
}

func shopProjection(t *testing.T) *dcr.Projection {
	t.Helper()
	c := dcr.NewChoreography()
	c.Users["Customer"] = struct{}{}
	c.Services["Shop"] = struct{}{}
	c.Activities["e1"] = &dcr.Activity{
		ID: "e1", Name: "Place Order", Kind: dcr.KindInteraction,
		Initiator: "Customer", Receivers: map[string]struct{}{"Shop": {}},
		Datatype: "text",
		Roles:    map[string]struct{}{"Customer": {}, "Shop": {}},
	}
	c.Activities["e2"] = &dcr.Activity{
		ID: "e2", Name: "Ship Order", Kind: dcr.KindInteraction,
		Initiator: "Shop", Receivers: map[string]struct{}{"Customer": {}},
		Roles: map[string]struct{}{"Customer": {}, "Shop": {}},
	}
	c.Relations = []*dcr.Relation{{Start: "e1", End: "e2", Kind: dcr.Condition}}

	p, err := c.Project(context.Background(), "Shop")
	if err != nil {
		t.Fatalf("Project(Shop) error: %v", err)
	}
	return p
}

func TestRenderInterfaces_GroupsByCounterparty(t *testing.T) {
	p := shopProjection(t)
	out := RenderInterfaces(p)

	if !strings.Contains(out, "interface CustomerShopInterface") {
		t.Errorf("expected an inbound interface from Customer, got:\n%s", out)
	}
	if !strings.Contains(out, "ship_order(void)") {
		t.Errorf("expected operation ship_order(void), got:\n%s", out)
	}
	if !strings.Contains(out, "place_order(string)") {
		t.Errorf("expected operation place_order(string), got:\n%s", out)
	}
}

func TestRenderService_ExecutionModeAndPorts(t *testing.T) {
	p := shopProjection(t)
	out := RenderService(p)

	if !strings.Contains(out, "execution: { sequential }") {
		t.Errorf("Shop is a Service, expected sequential execution, got:\n%s", out)
	}
	if !strings.Contains(out, "inputPort inCustomerService") {
		t.Errorf("expected an inbound port from Customer, got:\n%s", out)
	}
	if !strings.Contains(out, "outputPort outCustomerService") {
		t.Errorf("expected an outbound port to Customer, got:\n%s", out)
	}
}

func TestFilenames(t *testing.T) {
	if got, want := InterfaceFilename("Shop"), "ShopInterfaces.iol"; got != want {
		t.Errorf("InterfaceFilename(Shop) = %q, want %q", got, want)
	}
	if got, want := ServiceFilename("Shop"), "ShopService.ol"; got != want {
		t.Errorf("ServiceFilename(Shop) = %q, want %q", got, want)
	}
}
