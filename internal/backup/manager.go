// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

/*
manager.go - Backup Orchestrator

This file contains the Manager, the single entry point used by the admin
HTTP handlers and by the external scheduler.

Manager Responsibilities:
  - Authorization: administrative capability for human callers,
    shared secret for the scheduler
  - Mutual exclusion of backup, restore and delete
  - Read -> encode -> write pipeline, followed by retention for
    automatic backups
  - Best-effort audit records and metrics for every outcome

Audit:
Audit writes happen after the operation outcome is known. A failed audit
write is logged and counted in backup_audit_failures_total but never
replaces the error (or success) returned to the caller.
*/

//nolint:staticcheck // File documentation, not package doc
package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/ledgerline/internal/audit"
	"github.com/tomtom215/ledgerline/internal/auth"
	"github.com/tomtom215/ledgerline/internal/logging"
	"github.com/tomtom215/ledgerline/internal/metrics"
	"github.com/tomtom215/ledgerline/internal/snapshot"
	"github.com/tomtom215/ledgerline/internal/storage"
	"github.com/tomtom215/ledgerline/internal/validation"
)

// Metric operation labels.
const (
	opBackup  = "backup"
	opRestore = "restore"
	opDelete  = "delete"
)

// Authorizer decides whether an actor may perform a backup action.
type Authorizer interface {
	Allow(actor *auth.Actor, action string) (bool, error)
}

// Dependencies are the collaborators a Manager composes.
type Dependencies struct {
	Backend    storage.Backend
	Source     EntitySource
	Store      Transactor
	Audit      audit.Sink
	Authorizer Authorizer

	// Now defaults to time.Now.
	Now func() time.Time
}

// Manager orchestrates backup, restore, retention and audit.
type Manager struct {
	cfg      Config
	backend  storage.Backend
	reader   *Reader
	restorer *Restorer
	audit    audit.Sink
	history  audit.Querier
	authz    Authorizer
	now      func() time.Time

	// lock is a single-slot semaphore around mutating operations.
	lock chan struct{}
}

// BackupResult describes a stored backup.
type BackupResult struct {
	Artifact   storage.ArtifactMeta `json:"artifact"`
	Counts     map[string]int       `json:"counts"`
	Pruned     []string             `json:"pruned,omitempty"`
	DurationMs int64                `json:"durationMs"`
}

// NewManager validates cfg and wires the collaborators.
func NewManager(cfg Config, deps Dependencies) (*Manager, error) {
	if verr := validation.ValidateStruct(cfg); verr != nil {
		return nil, fmt.Errorf("invalid backup configuration: %w", verr)
	}
	switch {
	case deps.Backend == nil:
		return nil, errors.New("backup storage backend is required")
	case deps.Source == nil:
		return nil, errors.New("backup entity source is required")
	case deps.Store == nil:
		return nil, errors.New("backup restore store is required")
	case deps.Audit == nil:
		return nil, errors.New("backup audit sink is required")
	case deps.Authorizer == nil:
		return nil, errors.New("backup authorizer is required")
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	m := &Manager{
		cfg:      cfg,
		backend:  deps.Backend,
		reader:   NewReader(deps.Source),
		restorer: NewRestorer(deps.Store),
		audit:    deps.Audit,
		authz:    deps.Authorizer,
		now:      now,
		lock:     make(chan struct{}, 1),
	}
	if q, ok := deps.Audit.(audit.Querier); ok {
		m.history = q
	}
	return m, nil
}

// BackendName returns the configured storage backend name.
func (m *Manager) BackendName() string {
	return m.backend.Name()
}

// acquire waits for the operation lock. The returned func releases it.
func (m *Manager) acquire(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBusy, err)
	}
	select {
	case m.lock <- struct{}{}:
		return func() { <-m.lock }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrBusy, ctx.Err())
	}
}

// authorize checks the administrative capability for action.
func (m *Manager) authorize(actor *auth.Actor, action string) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	allowed, err := m.authz.Allow(actor, action)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	}
	if !allowed {
		return fmt.Errorf("%w: role %q may not %s backups", ErrForbidden, actor.Role, action)
	}
	return nil
}

// create runs read -> encode -> write for origin.
func (m *Manager) create(ctx context.Context, origin snapshot.Origin) (storage.ArtifactMeta, *snapshot.Snapshot, error) {
	snap, err := m.reader.ReadAll(ctx)
	if err != nil {
		return storage.ArtifactMeta{}, nil, err
	}
	snap.Origin = origin
	snap.CreatedAt = m.now().UTC().Truncate(time.Second)

	data, err := snapshot.Encode(snap)
	if err != nil {
		return storage.ArtifactMeta{}, nil, err
	}

	filename := storage.FormatFilename(origin, snap.CreatedAt)
	meta, err := m.backend.Write(ctx, filename, data)
	if err != nil {
		return storage.ArtifactMeta{}, nil, storageError(err)
	}

	metrics.RecordBackupSize(string(origin), meta.Size)
	logging.Ctx(ctx).Info().
		Str("filename", meta.Filename).
		Str("origin", string(origin)).
		Int64("size", meta.Size).
		Int("rows", snap.Total()).
		Str("backend", m.backend.Name()).
		Msg("Backup written")
	return meta, snap, nil
}

// recordAudit appends an activity record without affecting the caller's outcome.
func (m *Manager) recordAudit(ctx context.Context, actor *auth.Actor, action audit.Action, description string, metadata map[string]any) {
	entry := audit.NewEntry(actor.ID, actor.Name, action, description, metadata)
	if err := m.audit.Append(context.WithoutCancel(ctx), entry); err != nil {
		metrics.AuditFailures.Inc()
		logging.Ctx(ctx).Warn().Err(err).
			Str("action", string(action)).
			Str("description", description).
			Msg("Failed to write audit record")
	}
}

func failureMetadata(origin snapshot.Origin, err error) map[string]any {
	return map[string]any{"origin": string(origin), "error": err.Error()}
}
