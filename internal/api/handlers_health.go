// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package api

import (
	"context"
	"net/http"
	"time"
)

// healthPingTimeout bounds the store check in Health.
const healthPingTimeout = 2 * time.Second

// HealthStatus is the GET /api/health payload.
type HealthStatus struct {
	Status    string  `json:"status"`
	Version   string  `json:"version,omitempty"`
	Storage   string  `json:"storage"`
	Database  string  `json:"database"`
	UptimeSec float64 `json:"uptime_seconds"`
}

// Health handles GET /api/health. It reports degraded, not down, when the
// store is unreachable so that the process is not restarted for it.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := HealthStatus{
		Status:    "healthy",
		Version:   h.version,
		Storage:   h.backups.BackendName(),
		Database:  "unknown",
		UptimeSec: time.Since(h.startTime).Seconds(),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			status.Status = "degraded"
			status.Database = "unreachable"
		} else {
			status.Database = "connected"
		}
	}

	respondSuccess(w, r, http.StatusOK, status, start)
}
