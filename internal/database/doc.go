// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

/*
Package database is the DuckDB store behind Ledgerline's tracked entities.

Tables are generated from the snapshot kind registry, so the schema, the
backup reader and the restore writer never drift apart. Column names keep
the camelCase spelling of the wire format (quoted identifiers).

# Constraints

Tables carry no PRIMARY KEY or FOREIGN KEY constraints. DuckDB checks unique
and foreign key constraints eagerly inside a transaction, which rejects the
delete-then-reinsert of the same keys that a restore performs. Identifier
uniqueness is checked in Go before rows are inserted, and parent/child
ordering is the caller's responsibility (see backup.RestoreEngine).

# Usage

	db, err := database.New(&cfg.Database)
	rows, err := db.ReadKind(ctx, snapshot.KindProduct)

	tx, err := db.BeginReplace(ctx)
	defer tx.Rollback()
	tx.DeleteAll(ctx, snapshot.KindSale)
	tx.Insert(ctx, snapshot.KindSale, rows)
	tx.Commit()
*/
package database
