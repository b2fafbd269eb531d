// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package backup

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/tomtom215/ledgerline/internal/config"
	"github.com/tomtom215/ledgerline/internal/database"
	"github.com/tomtom215/ledgerline/internal/snapshot"
)

func setupDuckDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return db
}

// seedStore writes rows with plain SQL so nothing under test shapes them.
func seedStore(t *testing.T, conn *sql.DB) {
	t.Helper()
	stmts := []string{
		`INSERT INTO categories ("id", "name", "description", "createdAt", "updatedAt")
			VALUES ('cat-1', 'Coffee', NULL, '2026-03-01 10:00:00.123456', '2026-03-01 10:00:01.000001')`,
		`INSERT INTO products ("id", "name", "price", "costPrice", "stock", "minStock", "categoryId", "createdAt", "updatedAt")
			VALUES ('prod-1', 'Espresso beans', 12.5, 7.25, 40, 5, 'cat-1', '2026-03-01 10:00:02.654321', '2026-03-02 08:30:00.000999')`,
		`INSERT INTO customers ("id", "name", "email", "createdAt", "updatedAt")
			VALUES ('cust-1', 'Ana', 'ana@example.com', '2026-03-01 10:00:00.123456', '2026-03-01 10:00:00.123457')`,
		`INSERT INTO sales ("id", "customerId", "productId", "quantity", "unitPrice", "total", "paymentMethod", "createdAt", "updatedAt")
			VALUES ('sale-1', 'cust-1', 'prod-1', 2, 12.5, 25.0, 'CASH', '2026-03-03 17:45:12.345678', '2026-03-03 17:45:12.345678')`,
		`INSERT INTO credits ("id", "customerId", "amount", "type", "dueDate", "paid", "createdAt", "updatedAt")
			VALUES ('cr-1', 'cust-1', 40.0, 'DEBT', '2026-04-01 00:00:00.000001', false, '2026-03-04 09:00:00.5', '2026-03-04 09:00:00.500001')`,
		`INSERT INTO profits ("id", "amount", "description", "date", "createdAt", "updatedAt")
			VALUES ('pr-1', 310.75, 'March', '2026-03-31 23:59:59.999999', '2026-04-01 00:00:00.000002', '2026-04-01 00:00:00.000002')`,
		`INSERT INTO activities ("id", "userId", "userName", "action", "entityType", "description", "metadata", "createdAt")
			VALUES ('act-1', 'u-admin', 'Ana Admin', 'BACKUP', 'SYSTEM', 'Manual backup',
				'{"filename":"backup_manual_2026-03-01_10-00-00.json","orderTotal":9007199254740993}', '2026-03-01 10:00:00.987654')`,
	}
	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			t.Fatalf("seed: %v\n%s", err, stmt)
		}
	}
}

// rawRows returns every column of spec's table as DuckDB renders it.
func rawRows(t *testing.T, conn *sql.DB, spec snapshot.KindSpec) [][]sql.NullString {
	t.Helper()
	cols := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		cols[i] = fmt.Sprintf(`CAST("%s" AS VARCHAR)`, c.Name)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY "id"`, strings.Join(cols, ", "), spec.Table)

	rows, err := conn.Query(query)
	if err != nil {
		t.Fatalf("query %s: %v", spec.Table, err)
	}
	defer rows.Close()

	var out [][]sql.NullString
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			t.Fatalf("scan %s: %v", spec.Table, err)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows %s: %v", spec.Table, err)
	}
	return out
}

func TestBackupRestore_RoundTripAgainstDuckDB(t *testing.T) {
	db := setupDuckDB(t)
	ctx := context.Background()
	seedStore(t, db.Conn())

	before := make(map[snapshot.Kind][][]sql.NullString)
	for _, spec := range snapshot.RestorableSpecs() {
		before[spec.Kind] = rawRows(t, db.Conn(), spec)
	}

	snap, err := NewReader(db).ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	snap.CreatedAt = baseTime
	doc, err := snapshot.Encode(snap)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, warnings, err := snapshot.Decode(doc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Decode warnings = %v", warnings)
	}

	restorer := NewRestorer(TransactorFunc(func(ctx context.Context) (Tx, error) {
		tx, err := db.BeginReplace(ctx)
		if err != nil {
			return nil, err
		}
		return tx, nil
	}))
	result, err := restorer.Restore(ctx, decoded)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if result.Restored["activities"] != 1 || result.Deleted["sales"] != 1 {
		t.Errorf("Restore result = %+v", result)
	}

	for _, spec := range snapshot.RestorableSpecs() {
		after := rawRows(t, db.Conn(), spec)
		want := before[spec.Kind]
		if len(after) != len(want) {
			t.Errorf("%s: %d rows after restore, want %d", spec.Table, len(after), len(want))
			continue
		}
		for i := range want {
			for j, col := range spec.Columns {
				if after[i][j] != want[i][j] {
					t.Errorf("%s.%s changed across backup/restore: %q -> %q",
						spec.Table, col.Name, want[i][j].String, after[i][j].String)
				}
			}
		}
	}
}
