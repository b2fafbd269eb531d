// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

// Package api exposes the backup subsystem over HTTP using the chi router.
//
// Routes:
//
//	POST   /api/backup?action=create             manual backup (admin)
//	POST   /api/backup?action=restore            restore from {"data": ...} or {"filename": ...} (admin)
//	GET    /api/backup?action=list               list stored backups (admin)
//	GET    /api/backup?action=download&filename= raw backup document (admin)
//	GET    /api/backup?action=history            recent backup audit records (admin)
//	DELETE /api/backup?filename=                 delete, subject to the grace period (admin)
//	POST   /api/cron/backup                      automatic backup, Authorization: Bearer <secret>
//	GET    /api/cron/backup                      status summary, same secret
//	GET    /api/health                           liveness
//	GET    /metrics                              Prometheus metrics
//
// Admin routes identify the caller from a JWT session (cookie or bearer
// header); the backup package decides whether that caller is allowed.
// Every error is mapped to one status code, one stable code string and one
// human-readable message in errors.go.
package api
