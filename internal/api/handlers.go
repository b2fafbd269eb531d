// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package api

import (
	"context"
	"time"

	"github.com/tomtom215/ledgerline/internal/audit"
	"github.com/tomtom215/ledgerline/internal/auth"
	"github.com/tomtom215/ledgerline/internal/backup"
	"github.com/tomtom215/ledgerline/internal/storage"
)

// BackupService is the backup orchestrator as seen by the handlers.
type BackupService interface {
	CreateManual(ctx context.Context, actor *auth.Actor) (*backup.BackupResult, error)
	RunAutomatic(ctx context.Context, secret string) (*backup.BackupResult, error)
	AuthorizeRestore(actor *auth.Actor) error
	RestoreFrom(ctx context.Context, actor *auth.Actor, req backup.RestoreRequest) (*backup.RestoreResult, error)
	List(ctx context.Context, actor *auth.Actor) ([]storage.ArtifactMeta, error)
	Download(ctx context.Context, actor *auth.Actor, filename string) ([]byte, error)
	Delete(ctx context.Context, actor *auth.Actor, filename string) error
	History(ctx context.Context, actor *auth.Actor, limit int) ([]audit.Entry, error)
	Status(ctx context.Context, secret string) (*backup.Status, error)
	BackendName() string
}

// Pinger reports store reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the dependencies of every HTTP handler.
type Handler struct {
	backups        BackupService
	db             Pinger
	maxRestoreSize int64
	startTime      time.Time
	version        string
}

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	// MaxRestoreSize bounds the restore request document.
	MaxRestoreSize int64
	Version        string
}

// NewHandler creates the HTTP handler set. db may be nil.
func NewHandler(backups BackupService, db Pinger, cfg HandlerConfig) *Handler {
	maxRestore := cfg.MaxRestoreSize
	if maxRestore <= 0 {
		maxRestore = storage.DefaultMaxObjectSize
	}
	return &Handler{
		backups:        backups,
		db:             db,
		maxRestoreSize: maxRestore,
		startTime:      time.Now(),
		version:        cfg.Version,
	}
}
