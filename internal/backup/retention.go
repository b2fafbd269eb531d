// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/ledgerline/internal/logging"
	"github.com/tomtom215/ledgerline/internal/snapshot"
	"github.com/tomtom215/ledgerline/internal/storage"
)

// Prune keeps the newest maxAutomatic automatic artifacts on backend and
// deletes the rest, oldest last. Manual artifacts are never listed.
// Artifacts that disappear concurrently are skipped. Other delete failures
// do not stop the sweep and are returned joined.
func Prune(ctx context.Context, backend storage.Backend, maxAutomatic int) ([]string, error) {
	if maxAutomatic < 0 {
		return nil, fmt.Errorf("retention ceiling must not be negative, got %d", maxAutomatic)
	}

	listed, err := backend.List(ctx, storage.OriginPrefix(snapshot.OriginAutomatic))
	if err != nil {
		return nil, storageError(err)
	}

	automatic := make([]storage.ArtifactMeta, 0, len(listed))
	for _, a := range listed {
		if a.Origin == snapshot.OriginAutomatic {
			automatic = append(automatic, a)
		}
	}
	if len(automatic) <= maxAutomatic {
		return nil, nil
	}
	storage.SortNewestFirst(automatic)

	var deleted []string
	var errs []error
	for _, a := range automatic[maxAutomatic:] {
		if err := backend.Delete(ctx, a.Filename); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			errs = append(errs, err)
			continue
		}
		deleted = append(deleted, a.Filename)
		logging.Debug().Str("filename", a.Filename).Str("backend", backend.Name()).Msg("Pruned automatic backup")
	}

	if len(errs) > 0 {
		return deleted, storageError(errors.Join(errs...))
	}
	return deleted, nil
}

// checkDeletable applies the grace window to an explicit delete. Age is
// taken from the timestamp encoded in the name.
func checkDeletable(filename string, now time.Time, grace time.Duration) error {
	parsed, err := storage.ParseFilename(filename)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if parsed.Origin != snapshot.OriginAutomatic {
		return nil
	}
	if age := now.Sub(parsed.CreatedAt); age < grace {
		return fmt.Errorf("%w: %s is %s old, automatic backups are kept for %s",
			ErrProtectedArtifact, filename, age.Truncate(time.Minute), grace)
	}
	return nil
}
