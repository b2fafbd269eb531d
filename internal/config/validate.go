// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tomtom215/ledgerline/internal/validation"
)

// minJWTSecretLength matches HS256 key size guidance.
const minJWTSecretLength = 32

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateBackup()
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	return nil
}

func (c *Config) validateBackup() error {
	b := &c.Backup
	switch b.Storage {
	case StorageLocal:
		if b.Dir == "" {
			return errors.New("BACKUP_DIR is required when BACKUP_STORAGE=local")
		}
		if !filepath.IsAbs(b.Dir) {
			return fmt.Errorf("BACKUP_DIR must be an absolute path, got %q", b.Dir)
		}
	case StorageCloud:
		missing := make([]string, 0, 4)
		if b.Cloud.Endpoint == "" {
			missing = append(missing, "BACKUP_S3_ENDPOINT")
		}
		if b.Cloud.Bucket == "" {
			missing = append(missing, "BACKUP_S3_BUCKET")
		}
		if b.Cloud.AccessKey == "" {
			missing = append(missing, "BACKUP_S3_ACCESS_KEY")
		}
		if b.Cloud.SecretKey == "" {
			missing = append(missing, "BACKUP_S3_SECRET_KEY")
		}
		if len(missing) > 0 {
			return fmt.Errorf("BACKUP_STORAGE=cloud requires %v", missing)
		}
	}
	return nil
}
