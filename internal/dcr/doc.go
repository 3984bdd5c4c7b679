// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

// Package dcr implements the DCR graph data model, the end-point
// projection algorithm, and the checks that guard it: the projectability
// check and the structural invariants of activities, relations, and
// markings.
package dcr
