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
	"github.com/tomtom215/ledgerline/internal/validation"
)

// uploadedSource is the audit source for inline documents.
const uploadedSource = "uploaded"

// RestoreRequest names the document to restore: inline Data or a stored Filename.
type RestoreRequest struct {
	Data     []byte `validate:"required_without=Filename,excluded_with=Filename"`
	Filename string `validate:"omitempty,backupfile"`
}

// AuthorizeRestore reports whether actor may restore, so a caller can
// reject the request before reading an upload.
func (m *Manager) AuthorizeRestore(actor *auth.Actor) error {
	if err := m.authorize(actor, authz.ActionRestore); err != nil {
		metrics.RecordRejected(opRestore, string(snapshot.OriginManual))
		return err
	}
	return nil
}

// RestoreFrom replaces the live store with the given snapshot on behalf of
// an administrator. The document is fully decoded and validated before the
// store is touched.
func (m *Manager) RestoreFrom(ctx context.Context, actor *auth.Actor, req RestoreRequest) (*RestoreResult, error) {
	if err := m.authorize(actor, authz.ActionRestore); err != nil {
		metrics.RecordRejected(opRestore, string(snapshot.OriginManual))
		return nil, err
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		metrics.RecordRejected(opRestore, string(snapshot.OriginManual))
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, verr.Error())
	}

	release, err := m.acquire(ctx)
	if err != nil {
		metrics.RecordRejected(opRestore, string(snapshot.OriginManual))
		return nil, err
	}
	defer release()

	source := uploadedSource
	if req.Filename != "" {
		source = req.Filename
	}
	log := logging.Ctx(ctx).With().Str("source", source).Logger()

	start := time.Now()
	result, err := m.restore(ctx, req)
	metrics.RecordBackupOperation(opRestore, string(snapshot.OriginManual), time.Since(start), err)
	if err != nil {
		log.Error().Err(err).Msg("Restore failed")
		m.recordAudit(ctx, actor, audit.ActionRestore, fmt.Sprintf("Restore from %s failed", source), map[string]any{
			"source": source,
			"error":  err.Error(),
		})
		return nil, err
	}
	result.Source = source

	log.Info().
		Str("format_version", result.FormatVersion).
		Int64("duration_ms", result.DurationMs).
		Int("warnings", len(result.Warnings)).
		Msg("Restore completed")

	metadata := map[string]any{
		"source":        source,
		"formatVersion": result.FormatVersion,
		"counts":        result.Restored,
	}
	if len(result.Warnings) > 0 {
		metadata["warnings"] = result.Warnings
	}
	m.recordAudit(ctx, actor, audit.ActionRestore, fmt.Sprintf("Database restored from %s", source), metadata)
	return result, nil
}

// restore loads, decodes and applies the requested document.
func (m *Manager) restore(ctx context.Context, req RestoreRequest) (*RestoreResult, error) {
	data := req.Data
	if req.Filename != "" {
		var err error
		data, err = m.backend.Read(ctx, req.Filename)
		if err != nil {
			return nil, storageError(err)
		}
	}
	if int64(len(data)) > m.cfg.MaxRestoreSize {
		return nil, fmt.Errorf("%w: document is %d bytes, limit is %d", ErrInvalidFormat, len(data), m.cfg.MaxRestoreSize)
	}

	snap, warnings, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	for _, w := range warnings {
		logging.Ctx(ctx).Warn().Str("warning", w).Msg("Snapshot decoded with warning")
	}

	result, err := m.restorer.Restore(ctx, snap)
	if err != nil {
		return nil, err
	}
	result.Warnings = warnings
	return result, nil
}
