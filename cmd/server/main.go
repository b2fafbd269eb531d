// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tomtom215/ledgerline/internal/api"
	"github.com/tomtom215/ledgerline/internal/audit"
	"github.com/tomtom215/ledgerline/internal/auth"
	"github.com/tomtom215/ledgerline/internal/authz"
	"github.com/tomtom215/ledgerline/internal/backup"
	"github.com/tomtom215/ledgerline/internal/config"
	"github.com/tomtom215/ledgerline/internal/database"
	"github.com/tomtom215/ledgerline/internal/logging"
	"github.com/tomtom215/ledgerline/internal/storage"
	"github.com/tomtom215/ledgerline/internal/supervisor"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Ledgerline stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("storage", cfg.Backup.Storage).
		Msg("Starting Ledgerline")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	backend, err := newBackend(&cfg.Backup)
	if err != nil {
		return fmt.Errorf("initialize backup storage: %w", err)
	}

	enforcer, err := authz.NewEnforcer(authz.EnforcerConfig{
		ModelPath:  cfg.Security.Casbin.ModelPath,
		PolicyPath: cfg.Security.Casbin.PolicyPath,
		AdminRole:  cfg.Security.AdminRole,
	})
	if err != nil {
		return fmt.Errorf("initialize authorization: %w", err)
	}

	manager, err := backup.NewManager(backup.ConfigFromApp(&cfg.Backup), backup.Dependencies{
		Backend: backend,
		Source:  db,
		Store: backup.TransactorFunc(func(ctx context.Context) (backup.Tx, error) {
			tx, err := db.BeginReplace(ctx)
			if err != nil {
				return nil, err
			}
			return tx, nil
		}),
		Audit:      audit.NewDuckDBStore(db.Conn()),
		Authorizer: enforcer,
	})
	if err != nil {
		return fmt.Errorf("initialize backup manager: %w", err)
	}
	if cfg.Backup.CronSecret == "" {
		logging.Warn().Msg("CRON_SECRET is empty, the scheduler route rejects every request")
	}
	logging.Info().
		Str("backend", manager.BackendName()).
		Str("schedule", cfg.Backup.Schedule).
		Str("retention", cfg.Backup.RetentionDescription()).
		Msg("Backup manager initialized")

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("initialize session validation: %w", err)
	}

	handler := api.NewHandler(manager, db, api.HandlerConfig{
		MaxRestoreSize: cfg.Backup.MaxObjectSize,
		Version:        version,
	})
	router := api.NewRouter(handler, auth.NewMiddleware(jwtManager),
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(&cfg.Server)))

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddAPIService(supervisor.NewHTTPServerService(server, supervisor.DefaultShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return nil
}

// newBackend selects the artifact store named by cfg.Storage.
func newBackend(cfg *config.BackupConfig) (storage.Backend, error) {
	switch cfg.Storage {
	case config.StorageCloud:
		backend, err := storage.NewCloudBackend(cfg.StorageCloudConfig())
		if err != nil {
			return nil, err
		}
		logging.Info().Str("bucket", cfg.Cloud.Bucket).Str("endpoint", cfg.Cloud.Endpoint).Msg("Using cloud backup storage")
		return backend, nil
	case config.StorageLocal, "":
		backend, err := storage.NewLocalBackend(cfg.Dir)
		if err != nil {
			return nil, err
		}
		logging.Info().Str("dir", cfg.Dir).Msg("Using local backup storage")
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown backup storage %q", cfg.Storage)
	}
}
