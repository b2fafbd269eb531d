// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/ledgerline/internal/auth"
	"github.com/tomtom215/ledgerline/internal/backup"
	"github.com/tomtom215/ledgerline/internal/logging"
)

// CronBackup handles POST /api/cron/backup, the scheduler trigger.
func (h *Handler) CronBackup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	secret, _ := auth.BearerToken(r)

	result, err := h.backups.RunAutomatic(r.Context(), secret)
	if err != nil {
		h.logCronRejection(r, err)
		respondBackupError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, result, start)
}

// CronStatus handles GET /api/cron/backup, the scheduler status summary.
func (h *Handler) CronStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	secret, _ := auth.BearerToken(r)

	status, err := h.backups.Status(r.Context(), secret)
	if err != nil {
		h.logCronRejection(r, err)
		respondBackupError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, status, start)
}

func (h *Handler) logCronRejection(r *http.Request, err error) {
	if !errors.Is(err, backup.ErrUnauthenticated) {
		return
	}
	logging.Ctx(r.Context()).Warn().
		Str("remote_addr", sanitizeLogValue(r.RemoteAddr)).
		Str("path", r.URL.Path).
		Msg("Rejected scheduler request with invalid secret")
}
