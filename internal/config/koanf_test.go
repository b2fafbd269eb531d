// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/ledgerline/internal/storage"
)

const testJWTSecret = "test-jwt-secret-with-at-least-32-characters"

// isolateEnv runs the test from an empty directory with no config file.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
	for env := range envMappings {
		t.Setenv(strings.ToUpper(env), "")
		os.Unsetenv(strings.ToUpper(env))
	}
	t.Setenv("JWT_SECRET", testJWTSecret)
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Database.Path != "/data/ledgerline.duckdb" {
		t.Errorf("Database.Path = %q, want /data/ledgerline.duckdb", cfg.Database.Path)
	}
	if cfg.Backup.Storage != StorageLocal {
		t.Errorf("Backup.Storage = %q, want local", cfg.Backup.Storage)
	}
	if cfg.Backup.MaxAutomatic != 30 {
		t.Errorf("Backup.MaxAutomatic = %d, want 30", cfg.Backup.MaxAutomatic)
	}
	if cfg.Backup.GracePeriod != 168*time.Hour {
		t.Errorf("Backup.GracePeriod = %v, want 168h", cfg.Backup.GracePeriod)
	}
	if cfg.Backup.Schedule != "0 2 * * *" {
		t.Errorf("Backup.Schedule = %q, want 0 2 * * *", cfg.Backup.Schedule)
	}
	if cfg.Backup.MaxObjectSize != storage.DefaultMaxObjectSize {
		t.Errorf("Backup.MaxObjectSize = %d, want %d", cfg.Backup.MaxObjectSize, storage.DefaultMaxObjectSize)
	}
	if cfg.Security.AdminRole != "admin" {
		t.Errorf("Security.AdminRole = %q, want admin", cfg.Security.AdminRole)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}
}

// TestEnvTransformFunc verifies environment variable name mapping
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"DUCKDB_PATH", "database.path"},
		{"HTTP_PORT", "server.port"},
		{"CORS_ORIGINS", "server.cors_origins"},
		{"CRON_SECRET", "backup.cron_secret"},
		{"BACKUP_MAX_AUTOMATIC", "backup.max_automatic"},
		{"BACKUP_S3_BUCKET", "backup.cloud.bucket"},
		{"backup_s3_use_ssl", "backup.cloud.use_ssl"},
		{"CASBIN_POLICY_PATH", "security.casbin.policy_path"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := envTransformFunc(tt.input); result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// TestLoadWithKoanfEnvVars tests loading configuration from environment variables
func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolateEnv(t)
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("BACKUP_MAX_AUTOMATIC", "12")
	t.Setenv("BACKUP_GRACE_PERIOD", "48h")
	t.Setenv("CRON_SECRET", "0123456789abcdef-cron")
	t.Setenv("CORS_ORIGINS", "https://pos.example.com, https://admin.example.com")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Backup.MaxAutomatic != 12 {
		t.Errorf("Backup.MaxAutomatic = %d, want 12", cfg.Backup.MaxAutomatic)
	}
	if cfg.Backup.GracePeriod != 48*time.Hour {
		t.Errorf("Backup.GracePeriod = %v, want 48h", cfg.Backup.GracePeriod)
	}
	if cfg.Backup.CronSecret != "0123456789abcdef-cron" {
		t.Errorf("Backup.CronSecret = %q", cfg.Backup.CronSecret)
	}
	want := []string{"https://pos.example.com", "https://admin.example.com"}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != want[0] || cfg.Server.CORSOrigins[1] != want[1] {
		t.Errorf("Server.CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}

	// Defaults still apply for unset values
	if cfg.Backup.Schedule != "0 2 * * *" {
		t.Errorf("Backup.Schedule = %q, want default", cfg.Backup.Schedule)
	}
}

// TestLoadWithKoanfConfigFile tests loading from YAML with env overriding the file
func TestLoadWithKoanfConfigFile(t *testing.T) {
	isolateEnv(t)

	configContent := `
server:
  port: 8888
backup:
  storage: cloud
  max_automatic: 5
  cloud:
    endpoint: "minio.internal:9000"
    bucket: "pos-backups"
    access_key: "ledgerline"
    secret_key: "file-secret"
logging:
  level: "warn"
`
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("BACKUP_S3_SECRET_KEY", "env-secret")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8888 {
		t.Errorf("Server.Port = %d, want 8888", cfg.Server.Port)
	}
	if cfg.Backup.Storage != StorageCloud || cfg.Backup.MaxAutomatic != 5 {
		t.Errorf("Backup = %+v", cfg.Backup)
	}
	if cfg.Backup.Cloud.SecretKey != "env-secret" {
		t.Errorf("Cloud.SecretKey = %q, want env override", cfg.Backup.Cloud.SecretKey)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}

	sc := cfg.Backup.StorageCloudConfig()
	if sc.Endpoint != "minio.internal:9000" || sc.Bucket != "pos-backups" || !sc.UseSSL {
		t.Errorf("StorageCloudConfig() = %+v", sc)
	}
	if sc.MaxObjectSize != storage.DefaultMaxObjectSize {
		t.Errorf("MaxObjectSize = %d", sc.MaxObjectSize)
	}
}

// TestFindConfigFile verifies config file discovery
func TestFindConfigFile(t *testing.T) {
	isolateEnv(t)

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty string", got)
	}

	if err := os.WriteFile("config.yaml", []byte("logging:\n  level: debug\n"), 0o600); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() = %q, want config.yaml", got)
	}

	t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
	if got := findConfigFile(); got != "config.yaml" {
		t.Errorf("findConfigFile() with missing CONFIG_PATH = %q, want fallback config.yaml", got)
	}
}
