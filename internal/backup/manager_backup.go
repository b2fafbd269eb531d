// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/ledgerline/internal/audit"
	"github.com/tomtom215/ledgerline/internal/auth"
	"github.com/tomtom215/ledgerline/internal/authz"
	"github.com/tomtom215/ledgerline/internal/logging"
	"github.com/tomtom215/ledgerline/internal/metrics"
	"github.com/tomtom215/ledgerline/internal/snapshot"
)

// CreateManual writes a manual backup on behalf of an administrator.
func (m *Manager) CreateManual(ctx context.Context, actor *auth.Actor) (*BackupResult, error) {
	origin := snapshot.OriginManual
	if err := m.authorize(actor, authz.ActionCreate); err != nil {
		metrics.RecordRejected(opBackup, string(origin))
		return nil, err
	}

	release, err := m.acquire(ctx)
	if err != nil {
		metrics.RecordRejected(opBackup, string(origin))
		return nil, err
	}
	defer release()

	start := time.Now()
	meta, snap, err := m.create(ctx, origin)
	duration := time.Since(start)
	metrics.RecordBackupOperation(opBackup, string(origin), duration, err)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("origin", string(origin)).Msg("Manual backup failed")
		m.recordAudit(ctx, actor, audit.ActionBackup, "Manual backup failed", failureMetadata(origin, err))
		return nil, err
	}

	counts := snap.CountsByWireKey()
	m.recordAudit(ctx, actor, audit.ActionBackup, fmt.Sprintf("Manual backup created: %s", meta.Filename), map[string]any{
		"origin":   string(origin),
		"filename": meta.Filename,
		"size":     meta.Size,
		"counts":   counts,
	})

	return &BackupResult{Artifact: meta, Counts: counts, DurationMs: duration.Milliseconds()}, nil
}

// RunAutomatic writes an automatic backup for the scheduler and applies
// retention. secret must equal the configured cron secret. A failed prune
// is logged and does not fail the backup.
func (m *Manager) RunAutomatic(ctx context.Context, secret string) (*BackupResult, error) {
	origin := snapshot.OriginAutomatic
	if !auth.SecretMatches(secret, m.cfg.CronSecret) {
		metrics.RecordRejected(opBackup, string(origin))
		return nil, ErrUnauthenticated
	}

	release, err := m.acquire(ctx)
	if err != nil {
		metrics.RecordRejected(opBackup, string(origin))
		return nil, err
	}
	defer release()

	actor := &auth.SchedulerActor
	start := time.Now()
	meta, snap, err := m.create(ctx, origin)
	if err != nil {
		metrics.RecordBackupOperation(opBackup, string(origin), time.Since(start), err)
		logging.Ctx(ctx).Error().Err(err).Str("origin", string(origin)).Msg("Automatic backup failed")
		m.recordAudit(ctx, actor, audit.ActionBackup, "Automatic backup failed", failureMetadata(origin, err))
		return nil, err
	}

	pruned, pruneErr := Prune(ctx, m.backend, m.cfg.MaxAutomatic)
	metrics.RecordRetentionDeleted(len(pruned))
	if pruneErr != nil {
		logging.Ctx(ctx).Warn().Err(pruneErr).Int("pruned", len(pruned)).Msg("Retention cleanup incomplete")
	} else if len(pruned) > 0 {
		logging.Ctx(ctx).Info().Int("pruned", len(pruned)).Int("max_automatic", m.cfg.MaxAutomatic).Msg("Retention cleanup completed")
	}

	duration := time.Since(start)
	metrics.RecordBackupOperation(opBackup, string(origin), duration, nil)

	counts := snap.CountsByWireKey()
	metadata := map[string]any{
		"origin":     string(origin),
		"filename":   meta.Filename,
		"size":       meta.Size,
		"counts":     counts,
		"durationMs": duration.Milliseconds(),
	}
	if len(pruned) > 0 {
		metadata["pruned"] = pruned
	}
	if pruneErr != nil {
		metadata["retentionError"] = pruneErr.Error()
	}
	m.recordAudit(ctx, actor, audit.ActionBackup, fmt.Sprintf("Automatic backup created: %s", meta.Filename), metadata)

	return &BackupResult{
		Artifact:   meta,
		Counts:     counts,
		Pruned:     pruned,
		DurationMs: duration.Milliseconds(),
	}, nil
}
