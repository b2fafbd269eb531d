// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package query

import (
	"testing"
	"time"
)

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder()
	where, args := wb.Build()
	if where != "1=1" || len(args) != 0 {
		t.Errorf("Build() = %q, %v", where, args)
	}
	if !wb.IsEmpty() {
		t.Error("IsEmpty() = false")
	}
}

func TestWhereBuilder_Combined(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.FixedZone("X", 7200))
	wb := NewWhereBuilder().
		AddTimeRange("createdAt", &since, nil).
		AddIn("action", []string{"BACKUP", "RESTORE"}).
		AddEquals("entityType", "SYSTEM").
		AddEquals("userId", "")

	where, args := wb.BuildWithPrefix()
	want := `WHERE "createdAt" >= ? AND "action" IN (?, ?) AND "entityType" = ?`
	if where != want {
		t.Errorf("where = %q, want %q", where, want)
	}
	if len(args) != 4 {
		t.Fatalf("args = %v", args)
	}
	if ts, ok := args[0].(time.Time); !ok || ts.Location() != time.UTC {
		t.Errorf("time arg should be UTC, got %v", args[0])
	}
	if args[1] != "BACKUP" || args[3] != "SYSTEM" {
		t.Errorf("args = %v", args)
	}
}

func TestWhereBuilder_QuotesColumns(t *testing.T) {
	where, _ := NewWhereBuilder().AddEquals(`we"ird`, "x").Build()
	if where != `"we""ird" = ?` {
		t.Errorf("where = %q", where)
	}
}
