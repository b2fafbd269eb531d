// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

/*
Package config provides centralized configuration management for Ledgerline.

Configuration is layered with Koanf v2:
  - Built-in defaults (defaultConfig)
  - Optional YAML file (config.yaml, config.yml, /etc/ledgerline/config.yaml,
    or the path in CONFIG_PATH)
  - Environment variables (highest priority)

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT
  - CORS_ORIGINS: comma-separated list of allowed origins
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW: scheduler route rate limit

Database:
  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS

Security:
  - JWT_SECRET: session token signing secret (min 32 chars)
  - ADMIN_ROLE: role name granted administrative capability (default: admin)
  - CASBIN_MODEL_PATH, CASBIN_POLICY_PATH: optional overrides of the embedded policy

Backup:
  - BACKUP_STORAGE: local or cloud
  - BACKUP_DIR: local artifact directory (absolute)
  - BACKUP_S3_ENDPOINT, BACKUP_S3_BUCKET, BACKUP_S3_ACCESS_KEY,
    BACKUP_S3_SECRET_KEY, BACKUP_S3_REGION, BACKUP_S3_USE_SSL
  - BACKUP_MAX_OBJECT_SIZE: cloud object and restore body ceiling in bytes
  - BACKUP_MAX_AUTOMATIC: automatic artifacts kept by retention (default: 30)
  - BACKUP_GRACE_PERIOD: automatic artifacts younger than this cannot be deleted (default: 168h)
  - CRON_SECRET: shared secret for the scheduler route
  - BACKUP_SCHEDULE: five-field cron expression (default: 0 2 * * *)

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Thread Safety

Config is immutable after LoadWithKoanf returns.
*/
package config
