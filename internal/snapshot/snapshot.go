// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package snapshot

import (
	"fmt"
	"time"
)

// Origin records who triggered a backup.
type Origin string

// Origins.
const (
	OriginManual    Origin = "manual"
	OriginAutomatic Origin = "automatic"
)

// ParseOrigin validates s as an Origin.
func ParseOrigin(s string) (Origin, error) {
	switch Origin(s) {
	case OriginManual, OriginAutomatic:
		return Origin(s), nil
	default:
		return "", fmt.Errorf("unknown backup origin %q", s)
	}
}

// Record is one entity row. Field semantics belong to the store; the
// subsystem only relies on id, createdAt and updatedAt.
type Record = map[string]any

// Snapshot is a full copy of every tracked kind at one point in time.
type Snapshot struct {
	FormatVersion string
	CreatedAt     time.Time
	Origin        Origin

	// Counts is informational; Recount keeps it equal to len(Entities[k]).
	Counts   map[Kind]int
	Entities map[Kind][]Record
}

// New returns a snapshot holding every tracked kind, with missing kinds
// present as empty sequences.
func New(entities map[Kind][]Record) *Snapshot {
	s := &Snapshot{
		FormatVersion: CurrentVersion,
		Entities:      make(map[Kind][]Record, len(registry)),
	}
	for _, spec := range registry {
		rows := entities[spec.Kind]
		if rows == nil {
			rows = []Record{}
		}
		s.Entities[spec.Kind] = rows
	}
	s.Recount()
	return s
}

// Recount recomputes Counts from Entities.
func (s *Snapshot) Recount() {
	s.Counts = make(map[Kind]int, len(registry))
	for _, spec := range registry {
		s.Counts[spec.Kind] = len(s.Entities[spec.Kind])
	}
}

// Total returns the number of rows across all kinds.
func (s *Snapshot) Total() int {
	total := 0
	for _, n := range s.Counts {
		total += n
	}
	return total
}

// CountsByWireKey returns Counts keyed by document key ("products", ...).
func (s *Snapshot) CountsByWireKey() map[string]int {
	out := make(map[string]int, len(s.Counts))
	for _, spec := range registry {
		out[spec.WireKey] = s.Counts[spec.Kind]
	}
	return out
}
