// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package backup

import (
	"errors"
	"fmt"

	"github.com/tomtom215/ledgerline/internal/snapshot"
	"github.com/tomtom215/ledgerline/internal/storage"
)

// Error taxonomy. Every error returned by Manager wraps exactly one of these.
var (
	ErrUnauthenticated          = errors.New("authentication required")
	ErrForbidden                = errors.New("administrative access required")
	ErrInvalidFormat            = errors.New("invalid backup file format")
	ErrNotFound                 = errors.New("backup not found")
	ErrProtectedArtifact        = errors.New("automatic backup is within its protection period")
	ErrSourceReadFailed         = errors.New("failed to read data from store")
	ErrBackendUnavailable       = errors.New("backup storage unavailable")
	ErrRestoreTransactionFailed = errors.New("restore failed, no changes were applied")
	ErrBusy                     = errors.New("another backup operation is in progress")
)

// SourceError reports which kind could not be read.
type SourceError struct {
	Kind snapshot.Kind
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrSourceReadFailed, e.Kind, e.Err)
}

// Unwrap exposes both the taxonomy sentinel and the cause.
func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceReadFailed, e.Err}
}

// storageError maps a storage failure into the taxonomy, keeping the
// *storage.BackendError in the chain for diagnosis.
func storageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidName):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, storage.ErrExists):
		return fmt.Errorf("%w: %w", ErrBusy, err)
	default:
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
}
