// SPDX-License-Identifier: AGPL-3.0-or-later

/*
dcrproj compiles a DCR choreography into per-role end-point projections.

This program is free software licensed under the terms of the GNU AGPL v3 or later.
See https://www.gnu.org/licenses/ for license details.
*/

package dcr

// Marking is the triple (Included, Pending, Executed) that defines the
// state of a DCR graph. It is read-only input to the projection
// compiler; this package never executes relation transitions against
// it (spec §3, "Non-goals: executing or simulating a DCR graph").
type Marking struct {
	Included map[ActivityID]struct{}
	Pending  map[ActivityID]struct{}
	Executed map[ActivityID]struct{}
}

// NewMarking returns an empty marking.
func NewMarking() Marking {
	return Marking{
		Included: make(map[ActivityID]struct{}),
		Pending:  make(map[ActivityID]struct{}),
		Executed: make(map[ActivityID]struct{}),
	}
}

// IsIncluded, IsPending, IsExecuted are small predicates used by the
// dot adapter; the projection compiler and the describe adapter work
// directly with the set fields.
func (m Marking) IsIncluded(id ActivityID) bool { _, ok := m.Included[id]; return ok }
func (m Marking) IsPending(id ActivityID) bool  { _, ok := m.Pending[id]; return ok }
func (m Marking) IsExecuted(id ActivityID) bool { _, ok := m.Executed[id]; return ok }
