// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/tomtom215/ledgerline/internal/backup"
	"github.com/tomtom215/ledgerline/internal/storage"
)

func TestMapBackupError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthenticated", backup.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"forbidden", fmt.Errorf("create: %w", backup.ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{"invalid format", fmt.Errorf("%w: missing data", backup.ErrInvalidFormat), http.StatusBadRequest, "INVALID_FORMAT"},
		{"not found", backup.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"protected", backup.ErrProtectedArtifact, http.StatusConflict, "PROTECTED_ARTIFACT"},
		{"busy", fmt.Errorf("%w: %w", backup.ErrBusy, context.DeadlineExceeded), http.StatusConflict, "BUSY"},
		{"source", &backup.SourceError{Kind: "products", Err: errors.New("db gone")}, http.StatusBadGateway, "SOURCE_READ_FAILED"},
		{"backend", fmt.Errorf("%w: %w", backup.ErrBackendUnavailable, storage.ErrUnavailable), http.StatusServiceUnavailable, "BACKEND_UNAVAILABLE"},
		{"restore", fmt.Errorf("%w: insert", backup.ErrRestoreTransactionFailed), http.StatusInternalServerError, "RESTORE_FAILED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapBackupError(tt.err)
			if got.status != tt.status || got.code != tt.code {
				t.Errorf("mapBackupError(%v) = %d %s, want %d %s", tt.err, got.status, got.code, tt.status, tt.code)
			}
			if got.message == "" {
				t.Error("expected a human-readable message")
			}
		})
	}
}

func TestMapBackupError_MessagesAreDistinct(t *testing.T) {
	seen := make(map[string]string)
	for _, e := range backupErrors {
		if prev, ok := seen[e.mapping.message]; ok {
			t.Errorf("%s and %s share message %q", prev, e.mapping.code, e.mapping.message)
		}
		seen[e.mapping.message] = e.mapping.code
	}
}
