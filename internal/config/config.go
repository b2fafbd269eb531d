// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/ledgerline/internal/storage"
)

// Storage backend identifiers.
const (
	StorageLocal = "local"
	StorageCloud = "cloud"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Backup   BackupConfig   `koanf:"backup"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"min=0"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads" validate:"min=0"` // 0 = use NumCPU
}

// SecurityConfig holds authentication and authorization settings.
type SecurityConfig struct {
	JWTSecret string `koanf:"jwt_secret"`

	// AdminRole is the session role mapped to the administrative policy subject.
	AdminRole string `koanf:"admin_role" validate:"required"`

	Casbin CasbinConfig `koanf:"casbin"`
}

// CasbinConfig overrides the embedded RBAC model and policy. Empty paths use the embedded files.
type CasbinConfig struct {
	ModelPath  string `koanf:"model_path"`
	PolicyPath string `koanf:"policy_path"`
}

// BackupConfig holds snapshot storage, retention and scheduling settings.
type BackupConfig struct {
	Storage string `koanf:"storage" validate:"oneof=local cloud"`
	Dir     string `koanf:"dir"`

	Cloud CloudConfig `koanf:"cloud"`

	// MaxObjectSize bounds cloud uploads and restore request bodies.
	MaxObjectSize int64 `koanf:"max_object_size" validate:"gt=0"`

	MaxAutomatic int           `koanf:"max_automatic" validate:"min=1"`
	GracePeriod  time.Duration `koanf:"grace_period" validate:"min=0"`

	// CronSecret authenticates the scheduler route. Empty disables it.
	CronSecret string `koanf:"cron_secret" validate:"omitempty,min=16"`
	Schedule   string `koanf:"schedule" validate:"required,cron"`
}

// CloudConfig holds S3-compatible object storage settings.
type CloudConfig struct {
	Endpoint  string `koanf:"endpoint"`
	Bucket    string `koanf:"bucket"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Region    string `koanf:"region"`
	UseSSL    bool   `koanf:"use_ssl"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"oneof=trace debug info warn error"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// StorageCloudConfig converts the cloud section into the storage backend's settings.
func (b *BackupConfig) StorageCloudConfig() storage.CloudConfig {
	return storage.CloudConfig{
		Endpoint:      b.Cloud.Endpoint,
		Bucket:        b.Cloud.Bucket,
		AccessKey:     b.Cloud.AccessKey,
		SecretKey:     b.Cloud.SecretKey,
		Region:        b.Cloud.Region,
		UseSSL:        b.Cloud.UseSSL,
		MaxObjectSize: b.MaxObjectSize,
	}
}

// RetentionDescription is the human-readable retention policy shown in status summaries.
func (b *BackupConfig) RetentionDescription() string {
	return describeRetention(b.MaxAutomatic, b.GracePeriod)
}

func describeRetention(maxAutomatic int, grace time.Duration) string {
	return fmt.Sprintf("keep last %d automatic backups; automatic backups younger than %s are protected",
		maxAutomatic, humanDuration(grace))
}

func humanDuration(d time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case d >= day && d%day == 0:
		if d == day {
			return "1 day"
		}
		return fmt.Sprintf("%d days", d/day)
	case d == time.Hour:
		return "1 hour"
	case d > time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%d hours", d/time.Hour)
	default:
		return d.String()
	}
}
