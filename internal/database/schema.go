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

// quoteIdent quotes a registry identifier. Registry names are static
// ASCII, so doubling quotes is sufficient.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqlType(t snapshot.ColumnType) string {
	// Extensions are never auto-loaded, so JSON is kept as text and
	// timestamps as UTC TIMESTAMP (TIMESTAMPTZ arithmetic needs ICU).
	switch t {
	case snapshot.TypeInt:
		return "BIGINT"
	case snapshot.TypeFloat:
		return "DOUBLE"
	case snapshot.TypeBool:
		return "BOOLEAN"
	case snapshot.TypeTimestamp:
		return "TIMESTAMP"
	default:
		return "VARCHAR"
	}
}

func createTableSQL(spec snapshot.KindSpec) string {
	cols := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		def := quoteIdent(c.Name) + " " + sqlType(c.Type)
		if c.Name == snapshot.IDColumn {
			def += " NOT NULL"
		}
		cols[i] = def
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", quoteIdent(spec.Table), strings.Join(cols, ",\n\t"))
}

func (db *DB) createTables(ctx context.Context) error {
	for _, spec := range snapshot.Kinds() {
		if _, err := db.conn.ExecContext(ctx, createTableSQL(spec)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", spec.Table, err)
		}
	}
	return nil
}
