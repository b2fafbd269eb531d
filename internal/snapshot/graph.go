// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package snapshot

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDependencyCycle is returned when kind declarations contain a cycle.
var ErrDependencyCycle = errors.New("dependency cycle between kinds")

// Graph is the parent/child dependency graph over a set of kinds.
// An edge child -> parent means parent rows must exist before child rows.
type Graph struct {
	insert []Kind
	delete []Kind
}

// NewGraph builds the graph for specs and computes both orders.
// Insert ties are broken by declaration order. Deletion clears kinds by
// depth, leaves first, and within one depth puts DeleteFirst kinds ahead
// of the rest in declaration order. Parents outside specs are ignored;
// they are not managed by this graph.
func NewGraph(specs []KindSpec) (*Graph, error) {
	index := make(map[Kind]int, len(specs))
	for i, s := range specs {
		if _, dup := index[s.Kind]; dup {
			return nil, fmt.Errorf("kind %q declared twice", s.Kind)
		}
		index[s.Kind] = i
	}

	pending := make([]int, len(specs))
	children := make([][]int, len(specs))
	for i, s := range specs {
		for _, p := range s.Parents {
			pi, ok := index[p]
			if !ok {
				continue
			}
			if pi == i {
				return nil, fmt.Errorf("%w: %s references itself", ErrDependencyCycle, s.Kind)
			}
			pending[i]++
			children[pi] = append(children[pi], i)
		}
	}

	placed := make([]bool, len(specs))
	order := make([]Kind, 0, len(specs))
	seq := make([]int, 0, len(specs))
	for len(order) < len(specs) {
		next := -1
		for i := range specs {
			if !placed[i] && pending[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, fmt.Errorf("%w: %v", ErrDependencyCycle, unplaced(specs, placed))
		}
		placed[next] = true
		order = append(order, specs[next].Kind)
		seq = append(seq, next)
		for _, c := range children[next] {
			pending[c]--
		}
	}

	return &Graph{insert: order, delete: deleteOrder(specs, children, seq)}, nil
}

// deleteOrder layers kinds by depth, the longest child chain below each
// kind. A parent is always deeper than its children.
func deleteOrder(specs []KindSpec, children [][]int, seq []int) []Kind {
	depth := make([]int, len(specs))
	for i := len(seq) - 1; i >= 0; i-- {
		n := seq[i]
		for _, c := range children[n] {
			depth[n] = max(depth[n], depth[c]+1)
		}
	}

	idx := make([]int, len(specs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if depth[ia] != depth[ib] {
			return depth[ia] < depth[ib]
		}
		return specs[ia].DeleteFirst && !specs[ib].DeleteFirst
	})

	out := make([]Kind, len(idx))
	for i, n := range idx {
		out[i] = specs[n].Kind
	}
	return out
}

func unplaced(specs []KindSpec, placed []bool) []Kind {
	var out []Kind
	for i, s := range specs {
		if !placed[i] {
			out = append(out, s.Kind)
		}
	}
	return out
}

// InsertOrder returns kinds with every parent before its children.
func (g *Graph) InsertOrder() []Kind {
	out := make([]Kind, len(g.insert))
	copy(out, g.insert)
	return out
}

// DeleteOrder returns kinds with every child before its parents.
func (g *Graph) DeleteOrder() []Kind {
	out := make([]Kind, len(g.delete))
	copy(out, g.delete)
	return out
}

// RestorableSpecs returns the registry entries restore deletes and re-inserts.
func RestorableSpecs() []KindSpec {
	var out []KindSpec
	for _, s := range registry {
		if s.Restorable {
			out = append(out, s)
		}
	}
	return out
}

// RestoreGraph returns the graph over RestorableSpecs.
func RestoreGraph() *Graph {
	g, err := NewGraph(RestorableSpecs())
	if err != nil {
		// The registry is static; a cycle is a programming error.
		panic(err)
	}
	return g
}
