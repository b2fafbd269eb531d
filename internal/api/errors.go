// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/ledgerline/internal/backup"
)

// errorMapping is the HTTP rendering of one backup error class.
type errorMapping struct {
	status  int
	code    string
	message string
}

// backupErrors is checked in order; the first errors.Is match wins.
var backupErrors = []struct {
	err     error
	mapping errorMapping
}{
	{backup.ErrUnauthenticated, errorMapping{http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required"}},
	{backup.ErrForbidden, errorMapping{http.StatusForbidden, "FORBIDDEN", "Administrator access required"}},
	{backup.ErrInvalidFormat, errorMapping{http.StatusBadRequest, "INVALID_FORMAT", "Invalid backup file format"}},
	{backup.ErrNotFound, errorMapping{http.StatusNotFound, "NOT_FOUND", "Backup not found"}},
	{backup.ErrProtectedArtifact, errorMapping{http.StatusConflict, "PROTECTED_ARTIFACT", "Automatic backups cannot be deleted during their protection period"}},
	{backup.ErrBusy, errorMapping{http.StatusConflict, "BUSY", "Another backup operation is in progress"}},
	{backup.ErrSourceReadFailed, errorMapping{http.StatusBadGateway, "SOURCE_READ_FAILED", "Failed to read data for backup"}},
	{backup.ErrBackendUnavailable, errorMapping{http.StatusServiceUnavailable, "BACKEND_UNAVAILABLE", "Backup storage is unavailable"}},
	{backup.ErrRestoreTransactionFailed, errorMapping{http.StatusInternalServerError, "RESTORE_FAILED", "Restore failed, no changes were applied"}},
}

var internalError = errorMapping{http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"}

// mapBackupError classifies err for the HTTP response.
func mapBackupError(err error) errorMapping {
	for _, e := range backupErrors {
		if errors.Is(err, e.err) {
			return e.mapping
		}
	}
	return internalError
}
