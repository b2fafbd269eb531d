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

	"github.com/tomtom215/ledgerline/internal/audit"
	"github.com/tomtom215/ledgerline/internal/auth"
	"github.com/tomtom215/ledgerline/internal/authz"
	"github.com/tomtom215/ledgerline/internal/logging"
	"github.com/tomtom215/ledgerline/internal/metrics"
	"github.com/tomtom215/ledgerline/internal/storage"
)

// DefaultHistoryLimit bounds History when no limit is given.
const DefaultHistoryLimit = 50

// List returns every stored artifact, newest first.
func (m *Manager) List(ctx context.Context, actor *auth.Actor) ([]storage.ArtifactMeta, error) {
	if err := m.authorize(actor, authz.ActionList); err != nil {
		return nil, err
	}
	artifacts, err := m.backend.List(ctx, "")
	if err != nil {
		return nil, storageError(err)
	}
	if artifacts == nil {
		artifacts = []storage.ArtifactMeta{}
	}
	return artifacts, nil
}

// Download returns the raw bytes of one artifact.
func (m *Manager) Download(ctx context.Context, actor *auth.Actor, filename string) ([]byte, error) {
	if err := m.authorize(actor, authz.ActionDownload); err != nil {
		return nil, err
	}
	if _, err := storage.ParseFilename(filename); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	data, err := m.backend.Read(ctx, filename)
	if err != nil {
		return nil, storageError(err)
	}
	return data, nil
}

// Delete removes one artifact. Automatic artifacts younger than the grace
// period are refused with ErrProtectedArtifact.
func (m *Manager) Delete(ctx context.Context, actor *auth.Actor, filename string) error {
	if err := m.authorize(actor, authz.ActionDelete); err != nil {
		metrics.RecordRejected(opDelete, "")
		return err
	}

	parsed, err := storage.ParseFilename(filename)
	if err != nil {
		metrics.RecordRejected(opDelete, "")
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	origin := string(parsed.Origin)

	if err := checkDeletable(filename, m.now(), m.cfg.GracePeriod); err != nil {
		metrics.RecordRejected(opDelete, origin)
		logging.Ctx(ctx).Info().Str("filename", filename).Msg("Delete refused for protected backup")
		return err
	}

	release, err := m.acquire(ctx)
	if err != nil {
		metrics.RecordRejected(opDelete, origin)
		return err
	}
	defer release()

	start := time.Now()
	err = m.backend.Delete(ctx, filename)
	if err != nil {
		err = storageError(err)
	}
	metrics.RecordBackupOperation(opDelete, origin, time.Since(start), err)

	switch {
	case errors.Is(err, ErrNotFound):
		return err
	case err != nil:
		logging.Ctx(ctx).Error().Err(err).Str("filename", filename).Msg("Backup delete failed")
		m.recordAudit(ctx, actor, audit.ActionDelete, fmt.Sprintf("Failed to delete backup %s", filename), map[string]any{
			"filename": filename,
			"error":    err.Error(),
		})
		return err
	}

	logging.Ctx(ctx).Info().Str("filename", filename).Str("backend", m.backend.Name()).Msg("Backup deleted")
	m.recordAudit(ctx, actor, audit.ActionDelete, fmt.Sprintf("Backup deleted: %s", filename), map[string]any{
		"filename": filename,
		"origin":   origin,
	})
	return nil
}

// History returns recent backup, restore and delete audit records.
// limit <= 0 uses DefaultHistoryLimit.
func (m *Manager) History(ctx context.Context, actor *auth.Actor, limit int) ([]audit.Entry, error) {
	if err := m.authorize(actor, authz.ActionHistory); err != nil {
		return nil, err
	}
	if m.history == nil {
		return []audit.Entry{}, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	entries, err := m.history.Query(ctx, audit.Filter{
		Actions: []audit.Action{audit.ActionBackup, audit.ActionRestore, audit.ActionDelete},
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("query backup history: %w", err)
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	return entries, nil
}
