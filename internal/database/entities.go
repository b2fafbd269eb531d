// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/ledgerline/internal/snapshot"
)

func selectSQL(spec snapshot.KindSpec) string {
	exprs := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		exprs[i] = quoteIdent(c.Name)
	}
	order := quoteIdent(snapshot.IDColumn)
	for _, c := range spec.Columns {
		if c.Name == snapshot.CreatedAtColumn {
			order = quoteIdent(c.Name) + " NULLS FIRST, " + order
			break
		}
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", strings.Join(exprs, ", "), quoteIdent(spec.Table), order)
}

// ReadKind returns every row of kind as wire records. Timestamps are
// formatted as ISO-8601 UTC strings and JSON columns are parsed.
func (db *DB) ReadKind(ctx context.Context, kind snapshot.Kind) ([]snapshot.Record, error) {
	spec, ok := snapshot.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}

	rows, err := db.conn.QueryContext(ctx, selectSQL(spec))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", spec.Table, err)
	}
	defer closeWithLog(rows, "rows")

	records := make([]snapshot.Record, 0)
	dest := make([]any, len(spec.Columns))
	ptrs := make([]any, len(spec.Columns))
	for rows.Next() {
		for i := range dest {
			dest[i] = nil
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", spec.Table, err)
		}
		rec := make(snapshot.Record, len(spec.Columns))
		for i, c := range spec.Columns {
			rec[c.Name] = scanValue(c, dest[i])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", spec.Table, err)
	}
	return records, nil
}

// CountKind returns the number of rows of kind.
func (db *DB) CountKind(ctx context.Context, kind snapshot.Kind) (int, error) {
	spec, ok := snapshot.Lookup(kind)
	if !ok {
		return 0, fmt.Errorf("unknown kind %q", kind)
	}
	var n int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(spec.Table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", spec.Table, err)
	}
	return n, nil
}
