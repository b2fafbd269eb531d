// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package authz

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/tomtom215/ledgerline/internal/auth"
	"github.com/tomtom215/ledgerline/internal/logging"
	"github.com/tomtom215/ledgerline/internal/metrics"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// ObjectBackup is the policy object for every backup operation.
const ObjectBackup = "backup"

// Backup policy actions.
const (
	ActionCreate   = "create"
	ActionRestore  = "restore"
	ActionList     = "list"
	ActionDownload = "download"
	ActionDelete   = "delete"
	ActionHistory  = "history"
)

// builtinAdminRole is the policy subject holding every backup action.
const builtinAdminRole = "admin"

// EnforcerConfig holds configuration for the Casbin enforcer.
type EnforcerConfig struct {
	// ModelPath is the path to the Casbin model file. If empty, uses embedded model.
	ModelPath string

	// PolicyPath is the path to the Casbin policy file. If empty, uses embedded policy.
	PolicyPath string

	// AdminRole is mapped onto the built-in admin role.
	AdminRole string
}

// Enforcer wraps the Casbin enforcer.
type Enforcer struct {
	config   EnforcerConfig
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer creates an authorization enforcer.
func NewEnforcer(cfg EnforcerConfig) (*Enforcer, error) {
	var m model.Model
	var err error
	if cfg.ModelPath != "" {
		if !fileExists(cfg.ModelPath) {
			return nil, fmt.Errorf("casbin model %s not found", cfg.ModelPath)
		}
		m, err = model.NewModelFromFile(cfg.ModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg.PolicyPath != "" {
		if !fileExists(cfg.PolicyPath) {
			return nil, fmt.Errorf("casbin policy %s not found", cfg.PolicyPath)
		}
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	e := &Enforcer{config: cfg, enforcer: enforcer}
	if cfg.AdminRole != "" && cfg.AdminRole != builtinAdminRole {
		if _, err := e.AddRoleMapping(cfg.AdminRole, builtinAdminRole); err != nil {
			return nil, fmt.Errorf("failed to map admin role %q: %w", cfg.AdminRole, err)
		}
	}

	logging.Info().
		Int("rules", len(e.GetPolicy())).
		Str("admin_role", cfg.AdminRole).
		Msg("Authorization policy loaded")

	return e, nil
}

// loadEmbeddedPolicy parses and loads the embedded policy CSV.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch rule := parts[1:]; parts[0] {
		case "p":
			if len(rule) < 3 {
				return fmt.Errorf("malformed policy line %q", line)
			}
			if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", rule, err)
			}
		case "g":
			if len(rule) < 2 {
				return fmt.Errorf("malformed grouping line %q", line)
			}
			if _, err := enforcer.AddGroupingPolicy(rule[0], rule[1]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", rule, err)
			}
		default:
			return fmt.Errorf("unknown policy type in %q", line)
		}
	}
	return nil
}

// Enforce checks if subject can perform action on object.
func (e *Enforcer) Enforce(subject, object, action string) (bool, error) {
	allowed, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	return allowed, nil
}

// ErrNoActor is returned by Allow for anonymous callers.
var ErrNoActor = errors.New("no actor")

// Allow reports whether actor's role may perform action on backups.
func (e *Enforcer) Allow(actor *auth.Actor, action string) (bool, error) {
	if actor == nil {
		return false, ErrNoActor
	}
	if actor.Role == "" {
		metrics.RecordAuthzDecision(action, false)
		return false, nil
	}

	allowed, err := e.Enforce(actor.Role, ObjectBackup, action)
	if err != nil {
		return false, err
	}
	metrics.RecordAuthzDecision(action, allowed)
	if !allowed {
		logging.Debug().Str("user_id", actor.ID).Str("role", actor.Role).Str("action", action).Msg("Backup action denied")
	}
	return allowed, nil
}

// AddRoleMapping grants role everything parent holds.
func (e *Enforcer) AddRoleMapping(role, parent string) (bool, error) {
	added, err := e.enforcer.AddGroupingPolicy(role, parent)
	if err != nil {
		return false, fmt.Errorf("failed to add role: %w", err)
	}
	return added, nil
}

// GetPolicy returns all policy rules.
func (e *Enforcer) GetPolicy() [][]string {
	//nolint:errcheck // GetPolicy only fails if enforcer is nil, which is a programming error
	policies, _ := e.enforcer.GetPolicy()
	return policies
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
