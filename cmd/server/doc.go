// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

/*
Package main is the entry point for the Ledgerline backup server.

Ledgerline keeps the catalog, customer, sales, credit, profit and activity
tables of a retail point-of-sale system in DuckDB. This binary serves the
backup subsystem for them: manual and scheduled snapshots, retention,
download, deletion and all-or-nothing restore.

# Application Architecture

	RootSupervisor ("ledgerline")
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment variables)
 2. Logging: zerolog, with supervisor events bridged through slog
 3. Database: DuckDB, tracked tables created on first start
 4. Storage: local directory or S3-compatible bucket (MinIO client)
 5. Authorization: Casbin enforcer with the embedded or configured policy
 6. Backup Manager: reader, codec, retention, restore engine, audit sink
 7. HTTP Server: chi router under the supervisor tree

# Configuration

Common environment variables:

	DUCKDB_PATH=/data/ledgerline.duckdb
	JWT_SECRET=$(openssl rand -base64 32)
	BACKUP_STORAGE=local           # or cloud
	BACKUP_DIR=/data/backups
	BACKUP_S3_ENDPOINT=minio:9000
	BACKUP_S3_BUCKET=ledgerline-backups
	CRON_SECRET=$(openssl rand -hex 24)
	BACKUP_SCHEDULE="0 2 * * *"
	BACKUP_MAX_AUTOMATIC=30
	BACKUP_GRACE_PERIOD=168h

The external scheduler calls POST /api/cron/backup with
"Authorization: Bearer $CRON_SECRET" on BACKUP_SCHEDULE.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server stops accepting
connections and drains in-flight requests before the database is closed.
*/
package main
