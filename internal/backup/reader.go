// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package backup

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/ledgerline/internal/snapshot"
)

// EntitySource reads every row of one tracked kind.
type EntitySource interface {
	ReadKind(ctx context.Context, kind snapshot.Kind) ([]snapshot.Record, error)
}

// Reader builds snapshots from an EntitySource.
type Reader struct {
	source EntitySource
}

// NewReader creates a Reader over source.
func NewReader(source EntitySource) *Reader {
	return &Reader{source: source}
}

// ReadAll reads all tracked kinds concurrently. The first failure cancels
// the remaining reads and no snapshot is returned. Origin and CreatedAt
// are left for the caller.
func (r *Reader) ReadAll(ctx context.Context) (*snapshot.Snapshot, error) {
	specs := snapshot.Kinds()
	results := make([][]snapshot.Record, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			rows, err := r.source.ReadKind(gctx, spec.Kind)
			if err != nil {
				return &SourceError{Kind: spec.Kind, Err: err}
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entities := make(map[snapshot.Kind][]snapshot.Record, len(specs))
	for i, spec := range specs {
		entities[spec.Kind] = results[i]
	}
	return snapshot.New(entities), nil
}
