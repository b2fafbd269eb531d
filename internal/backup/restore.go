// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/ledgerline/internal/logging"
	"github.com/tomtom215/ledgerline/internal/snapshot"
)

// Tx is one all-or-nothing replace of the tracked tables.
type Tx interface {
	// DeleteAll removes every row of kind and returns how many were removed.
	DeleteAll(ctx context.Context, kind snapshot.Kind) (int64, error)
	// Insert writes rows verbatim, keeping identifiers and timestamps.
	Insert(ctx context.Context, kind snapshot.Kind, rows []snapshot.Record) error
	Commit() error
	// Rollback must be safe to call after Commit.
	Rollback() error
}

// Transactor opens replace transactions.
type Transactor interface {
	BeginReplace(ctx context.Context) (Tx, error)
}

// TransactorFunc adapts a function to Transactor.
type TransactorFunc func(ctx context.Context) (Tx, error)

// BeginReplace calls f.
func (f TransactorFunc) BeginReplace(ctx context.Context) (Tx, error) {
	return f(ctx)
}

// RestoreResult summarizes a committed restore, keyed by document key.
type RestoreResult struct {
	Source        string           `json:"source"`
	FormatVersion string           `json:"formatVersion"`
	Deleted       map[string]int64 `json:"deleted"`
	Restored      map[string]int   `json:"restored"`
	Warnings      []string         `json:"warnings,omitempty"`
	DurationMs    int64            `json:"durationMs"`
}

// Restorer replaces the live store with a snapshot.
type Restorer struct {
	store Transactor
	graph *snapshot.Graph
}

// NewRestorer creates a Restorer ordering work by the restore dependency graph.
func NewRestorer(store Transactor) *Restorer {
	return &Restorer{store: store, graph: snapshot.RestoreGraph()}
}

// Restore deletes every restorable kind children-first, inserts the
// snapshot parents-first and commits. Kinds with no rows are not inserted.
// Any failure rolls the transaction back and wraps ErrRestoreTransactionFailed.
//
// Cancellation of ctx is ignored once the transaction starts.
func (r *Restorer) Restore(ctx context.Context, snap *snapshot.Snapshot) (result *RestoreResult, err error) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	tx, err := r.store.BeginReplace(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %w", ErrRestoreTransactionFailed, err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.Ctx(ctx).Error().Err(rbErr).Msg("Failed to roll back restore transaction")
		}
	}()

	result = &RestoreResult{
		FormatVersion: snap.FormatVersion,
		Deleted:       make(map[string]int64),
		Restored:      make(map[string]int),
	}

	for _, kind := range r.graph.DeleteOrder() {
		n, err := tx.DeleteAll(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("%w: delete %s: %w", ErrRestoreTransactionFailed, kind, err)
		}
		result.Deleted[wireKey(kind)] = n
	}

	for _, kind := range r.graph.InsertOrder() {
		rows := snap.Entities[kind]
		if len(rows) == 0 {
			result.Restored[wireKey(kind)] = 0
			continue
		}
		if err := tx.Insert(ctx, kind, rows); err != nil {
			return nil, fmt.Errorf("%w: insert %s: %w", ErrRestoreTransactionFailed, kind, err)
		}
		result.Restored[wireKey(kind)] = len(rows)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %w", ErrRestoreTransactionFailed, err)
	}

	result.DurationMs = time.Since(start).Milliseconds()
	return result, nil
}

func wireKey(kind snapshot.Kind) string {
	if spec, ok := snapshot.Lookup(kind); ok {
		return spec.WireKey
	}
	return string(kind)
}
