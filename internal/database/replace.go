// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/ledgerline/internal/snapshot"
)

// ReplaceTx is one all-or-nothing bulk replace of tracked tables.
type ReplaceTx struct {
	tx *sql.Tx
}

// BeginReplace starts a transaction for a bulk replace.
func (db *DB) BeginReplace(ctx context.Context) (*ReplaceTx, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &ReplaceTx{tx: tx}, nil
}

// DeleteAll removes every row of kind and returns the number removed.
func (r *ReplaceTx) DeleteAll(ctx context.Context, kind snapshot.Kind) (int64, error) {
	spec, ok := snapshot.Lookup(kind)
	if !ok {
		return 0, fmt.Errorf("unknown kind %q", kind)
	}
	res, err := r.tx.ExecContext(ctx, "DELETE FROM "+quoteIdent(spec.Table))
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", spec.Table, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func insertSQL(spec snapshot.KindSpec) string {
	cols := make([]string, len(spec.Columns))
	params := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		cols[i] = quoteIdent(c.Name)
		params[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(spec.Table), strings.Join(cols, ", "), strings.Join(params, ", "))
}

// Insert writes rows of kind, preserving identifiers and timestamps as given.
// Fields outside the kind's columns are ignored; absent fields take the
// column default.
func (r *ReplaceTx) Insert(ctx context.Context, kind snapshot.Kind, rows []snapshot.Record) error {
	spec, ok := snapshot.Lookup(kind)
	if !ok {
		return fmt.Errorf("unknown kind %q", kind)
	}
	if len(rows) == 0 {
		return nil
	}

	stmt, err := r.tx.PrepareContext(ctx, insertSQL(spec))
	if err != nil {
		return fmt.Errorf("prepare insert %s: %w", spec.Table, err)
	}
	defer closeWithLog(stmt, "prepared statement")

	seen := make(map[string]struct{}, len(rows))
	args := make([]any, len(spec.Columns))
	for i, row := range rows {
		id, err := rowID(row)
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", spec.WireKey, i, err)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%s[%d]: %w: duplicate id %q", spec.WireKey, i, ErrInvalidValue, id)
		}
		seen[id] = struct{}{}

		for j, c := range spec.Columns {
			v, present := row[c.Name]
			if c.Name == snapshot.IDColumn {
				v = id
			}
			bound, err := bindValue(c, v, present)
			if err != nil {
				return fmt.Errorf("%s[%d].%s: %w", spec.WireKey, i, c.Name, err)
			}
			args[j] = bound
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s[%d]: %w", spec.WireKey, i, err)
		}
	}
	return nil
}

func rowID(row snapshot.Record) (string, error) {
	v, ok := row[snapshot.IDColumn]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: missing id", ErrInvalidValue)
	}
	s, err := toText(v)
	if err != nil {
		return "", err
	}
	id := s.(string)
	if id == "" {
		return "", fmt.Errorf("%w: empty id", ErrInvalidValue)
	}
	return id, nil
}

// Commit commits the replace.
func (r *ReplaceTx) Commit() error {
	return r.tx.Commit()
}

// Rollback aborts the replace. Safe to call after Commit.
func (r *ReplaceTx) Rollback() error {
	if err := r.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
