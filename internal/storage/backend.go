// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/ledgerline/internal/snapshot"
)

// Sentinel errors.
var (
	ErrNotFound    = errors.New("artifact not found")
	ErrExists      = errors.New("artifact already exists")
	ErrTooLarge    = errors.New("artifact exceeds maximum object size")
	ErrInvalidName = errors.New("invalid artifact name")
	ErrUnavailable = errors.New("storage backend unavailable")
)

// ArtifactMeta describes one stored snapshot.
type ArtifactMeta struct {
	Filename  string          `json:"filename"`
	Size      int64           `json:"size"`
	CreatedAt time.Time       `json:"createdAt"`
	Origin    snapshot.Origin `json:"origin"`
}

// Backend stores immutable, named snapshot artifacts.
type Backend interface {
	// Name identifies the backend in logs and errors ("local", "cloud").
	Name() string

	// List returns artifacts whose name starts with prefix, newest first.
	// Names that do not follow the naming convention are skipped.
	List(ctx context.Context, prefix string) ([]ArtifactMeta, error)

	// Write stores data under filename. Existing artifacts are never replaced.
	Write(ctx context.Context, filename string, data []byte) (ArtifactMeta, error)

	// Read returns the artifact bytes or ErrNotFound.
	Read(ctx context.Context, filename string) ([]byte, error)

	// Delete removes the artifact or returns ErrNotFound.
	Delete(ctx context.Context, filename string) error
}

// BackendError carries which backend and operation failed.
type BackendError struct {
	Backend  string
	Op       string
	Filename string
	Err      error
}

func (e *BackendError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("%s backend %s: %v", e.Backend, e.Op, e.Err)
	}
	return fmt.Sprintf("%s backend %s %s: %v", e.Backend, e.Op, e.Filename, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

func opError(backend, op, filename string, err error) error {
	return &BackendError{Backend: backend, Op: op, Filename: filename, Err: err}
}

// unavailable marks an I/O failure as ErrUnavailable while keeping the cause.
func unavailable(backend, op, filename string, cause error) error {
	return opError(backend, op, filename, fmt.Errorf("%w: %w", ErrUnavailable, cause))
}
