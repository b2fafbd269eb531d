// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package backup

import (
	"context"
	"time"

	"github.com/tomtom215/ledgerline/internal/auth"
	"github.com/tomtom215/ledgerline/internal/snapshot"
	"github.com/tomtom215/ledgerline/internal/storage"
	"github.com/tomtom215/ledgerline/internal/validation"
)

// Status is the scheduler-facing summary of stored backups and policy.
type Status struct {
	Backend        string                `json:"backend"`
	TotalArtifacts int                   `json:"totalBackups"`
	AutomaticCount int                   `json:"automaticBackups"`
	ManualCount    int                   `json:"manualBackups"`
	Latest         *storage.ArtifactMeta `json:"latestBackup"`
	Schedule       string                `json:"schedule"`
	NextRun        *time.Time            `json:"nextRun,omitempty"`
	Retention      string                `json:"retention"`
	MaxAutomatic   int                   `json:"maxAutomaticBackups"`
	GracePeriod    string                `json:"gracePeriod"`
}

// Status summarizes stored artifacts. secret must equal the cron secret.
func (m *Manager) Status(ctx context.Context, secret string) (*Status, error) {
	if !auth.SecretMatches(secret, m.cfg.CronSecret) {
		return nil, ErrUnauthenticated
	}

	artifacts, err := m.backend.List(ctx, "")
	if err != nil {
		return nil, storageError(err)
	}

	status := &Status{
		Backend:        m.backend.Name(),
		TotalArtifacts: len(artifacts),
		Schedule:       m.cfg.Schedule,
		Retention:      m.cfg.RetentionDescription,
		MaxAutomatic:   m.cfg.MaxAutomatic,
		GracePeriod:    m.cfg.GracePeriod.String(),
	}
	storage.SortNewestFirst(artifacts)
	for _, a := range artifacts {
		switch a.Origin {
		case snapshot.OriginAutomatic:
			status.AutomaticCount++
		case snapshot.OriginManual:
			status.ManualCount++
		}
	}
	if len(artifacts) > 0 {
		latest := artifacts[0]
		status.Latest = &latest
	}
	if schedule, err := validation.CronParser.Parse(m.cfg.Schedule); err == nil {
		next := schedule.Next(m.now()).UTC()
		status.NextRun = &next
	}
	return status, nil
}
