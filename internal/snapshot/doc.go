// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

/*
Package snapshot defines the portable backup document and the tracked entity kinds.

# Kinds

Every tracked kind is declared once in the registry (kinds.go) with its wire key,
table, column schema and parent kinds. Restore ordering is derived from those
declarations by a topological sort (graph.go), so adding a kind is a single
registry entry:

	category <- product <- sale -> customer <- credit
	profit, activity, user (no parents)

Inserts run parents first. Deletes run by depth, leaves first, with the
activity log cleared ahead of other leaves. Row timestamps carry
microseconds; the envelope timestamp carries milliseconds.

# Wire Format

A snapshot document is a JSON object:

	{
	  "version":   "1.2",
	  "timestamp": "2026-01-02T03:04:05.000Z",
	  "type":      "automatic",          // omitted for manual backups
	  "stats":     {"products": 12, ...},
	  "data":      {"products": [...], "customers": [...], ...}
	}

Decode rejects documents without "products" or "customers" with ErrInvalidFormat.
Unknown versions are accepted and reported as warnings.
*/
package snapshot
