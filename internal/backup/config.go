// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package backup

import (
	"time"

	"github.com/tomtom215/ledgerline/internal/config"
	"github.com/tomtom215/ledgerline/internal/storage"
)

// Config holds the policy knobs the Manager needs.
type Config struct {
	// CronSecret authenticates the scheduler path. Empty disables it.
	CronSecret string `validate:"omitempty,min=16"`

	// MaxAutomatic is the retention ceiling for automatic backups.
	MaxAutomatic int `validate:"min=1"`

	// GracePeriod protects young automatic backups from explicit deletion.
	GracePeriod time.Duration `validate:"min=0"`

	// Schedule is the five-field cron expression reported in Status.
	Schedule string `validate:"required,cron"`

	// RetentionDescription is the human-readable retention policy.
	RetentionDescription string

	// MaxRestoreSize caps the size of a document accepted for restore.
	MaxRestoreSize int64 `validate:"gt=0"`
}

// DefaultMaxAutomatic is the retention ceiling used when none is configured.
const DefaultMaxAutomatic = 30

// DefaultGracePeriod is the explicit-delete protection for automatic backups.
const DefaultGracePeriod = 7 * 24 * time.Hour

// ConfigFromApp derives the Manager configuration from the application config.
func ConfigFromApp(cfg *config.BackupConfig) Config {
	maxRestore := cfg.MaxObjectSize
	if maxRestore <= 0 {
		maxRestore = storage.DefaultMaxObjectSize
	}
	return Config{
		CronSecret:           cfg.CronSecret,
		MaxAutomatic:         cfg.MaxAutomatic,
		GracePeriod:          cfg.GracePeriod,
		Schedule:             cfg.Schedule,
		RetentionDescription: cfg.RetentionDescription(),
		MaxRestoreSize:       maxRestore,
	}
}
