// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/ledgerline/internal/snapshot"
)

func TestFormatFilename(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 999, time.FixedZone("CET", 3600))
	got := FormatFilename(snapshot.OriginAutomatic, ts)
	want := "backup_automatic_2026-03-04_04-06-07.json"
	if got != want {
		t.Errorf("FormatFilename() = %q, want %q", got, want)
	}
}

func TestParseFilename(t *testing.T) {
	parsed, err := ParseFilename("backup_manual_2026-03-04_05-06-07.json")
	if err != nil {
		t.Fatalf("ParseFilename: %v", err)
	}
	if parsed.Origin != snapshot.OriginManual {
		t.Errorf("Origin = %q", parsed.Origin)
	}
	if want := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC); !parsed.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", parsed.CreatedAt, want)
	}

	for _, bad := range []string{
		"",
		"backup_manual_2026-03-04.json",
		"backup_weekly_2026-03-04_05-06-07.json",
		"sub/backup_manual_2026-03-04_05-06-07.json",
		"backup_manual_2026-13-04_05-06-07.json",
		"notes.txt",
	} {
		if _, err := ParseFilename(bad); !errors.Is(err, ErrInvalidName) {
			t.Errorf("ParseFilename(%q) error = %v, want ErrInvalidName", bad, err)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	ts := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	parsed, err := ParseFilename(FormatFilename(snapshot.OriginManual, ts))
	if err != nil {
		t.Fatalf("ParseFilename: %v", err)
	}
	if !parsed.CreatedAt.Equal(ts) || parsed.Origin != snapshot.OriginManual {
		t.Errorf("round trip = %+v", parsed)
	}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	artifacts := []ArtifactMeta{
		{Filename: "a", CreatedAt: base},
		{Filename: "c", CreatedAt: base.Add(2 * time.Hour)},
		{Filename: "b", CreatedAt: base.Add(time.Hour)},
		{Filename: "d", CreatedAt: base},
	}
	SortNewestFirst(artifacts)
	want := []string{"c", "b", "d", "a"}
	for i, name := range want {
		if artifacts[i].Filename != name {
			t.Errorf("position %d = %q, want %q", i, artifacts[i].Filename, name)
		}
	}
}
