// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

/*
Package storage persists backup artifacts.

Two Backend implementations are provided and one is chosen at startup from
configuration (BACKUP_STORAGE=local|cloud):

  - LocalBackend: a filesystem directory, created on first write
  - CloudBackend: an S3-compatible bucket (MinIO client), created private on
    first use and guarded by a circuit breaker

Both use the same naming convention, so origin and creation time can be
recovered from the artifact name alone:

	backup_{origin}_{YYYY-MM-DD}_{HH-MM-SS}.json

Listings are always sorted newest first.

# Errors

Backends return errors wrapping ErrNotFound, ErrExists, ErrTooLarge or
ErrUnavailable inside a *BackendError naming the backend and operation:

	if errors.Is(err, storage.ErrNotFound) { ... }
*/
package storage
