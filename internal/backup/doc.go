// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

// Package backup snapshots the business dataset, stores snapshots as
// artifacts, prunes old automatic artifacts and restores a snapshot back
// into the live store in one transaction.
//
// # Architecture
//
//	Reader   - reads every tracked kind concurrently into a Snapshot
//	Restorer - atomic delete-then-insert replace in dependency order
//	Prune    - count ceiling for automatic artifacts
//	Manager  - authorization, locking, audit and metrics around the above
//
// # Entry Points
//
// Human-triggered operations take an *auth.Actor and require the
// administrative backup capability:
//
//	result, err := manager.CreateManual(ctx, actor)
//	restored, err := manager.RestoreFrom(ctx, actor, backup.RestoreRequest{Filename: name})
//
// The scheduler path authenticates with the configured shared secret:
//
//	result, err := manager.RunAutomatic(ctx, bearerToken)
//	status, err := manager.Status(ctx, bearerToken)
//
// # Errors
//
// Every returned error wraps one of the sentinels in errors.go, so callers
// classify failures with errors.Is. Audit writes never change the returned
// error; a failed audit is logged and counted.
//
// # Concurrency
//
// Backup, restore and delete hold a single-slot lock. A caller whose
// context ends while waiting gets ErrBusy. A restore that has started runs
// to completion or rolls back regardless of the caller's context.
package backup
