// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tomtom215/ledgerline/internal/logging"
)

const localName = "local"

// LocalBackend stores artifacts as files in one directory.
type LocalBackend struct {
	dir string
}

// NewLocalBackend returns a backend rooted at dir. The directory is not
// touched until the first write.
func NewLocalBackend(dir string) (*LocalBackend, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("local backend directory must not be empty")
	}
	return &LocalBackend{dir: filepath.Clean(dir)}, nil
}

// Name implements Backend.
func (b *LocalBackend) Name() string { return localName }

// Dir returns the backing directory.
func (b *LocalBackend) Dir() string { return b.dir }

// List implements Backend. A missing directory lists as empty.
func (b *LocalBackend) List(ctx context.Context, prefix string) ([]ArtifactMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(b.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []ArtifactMeta{}, nil
	}
	if err != nil {
		return nil, unavailable(localName, "list", "", err)
	}

	artifacts := make([]ArtifactMeta, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		if meta, ok := metaFromName(entry.Name(), info.Size()); ok {
			artifacts = append(artifacts, meta)
		}
	}
	SortNewestFirst(artifacts)
	return artifacts, nil
}

// Write implements Backend. The file is created exclusively; a partial
// file is removed if the write fails.
func (b *LocalBackend) Write(ctx context.Context, filename string, data []byte) (ArtifactMeta, error) {
	parsed, err := ParseFilename(filename)
	if err != nil {
		return ArtifactMeta{}, opError(localName, "write", filename, err)
	}
	if err := ctx.Err(); err != nil {
		return ArtifactMeta{}, err
	}

	if err := os.MkdirAll(b.dir, 0o750); err != nil {
		return ArtifactMeta{}, unavailable(localName, "write", filename, fmt.Errorf("create backup directory: %w", err))
	}

	path := filepath.Join(b.dir, filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640) //nolint:gosec // name validated by ParseFilename
	if errors.Is(err, fs.ErrExist) {
		return ArtifactMeta{}, opError(localName, "write", filename, ErrExists)
	}
	if err != nil {
		return ArtifactMeta{}, unavailable(localName, "write", filename, err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		b.removePartial(path)
		return ArtifactMeta{}, unavailable(localName, "write", filename, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		b.removePartial(path)
		return ArtifactMeta{}, unavailable(localName, "write", filename, err)
	}
	if err := f.Close(); err != nil {
		b.removePartial(path)
		return ArtifactMeta{}, unavailable(localName, "write", filename, err)
	}

	return ArtifactMeta{
		Filename:  filename,
		Size:      int64(len(data)),
		CreatedAt: parsed.CreatedAt,
		Origin:    parsed.Origin,
	}, nil
}

func (b *LocalBackend) removePartial(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Err(err).Str("path", path).Msg("Failed to remove partial backup file")
	}
}

// Read implements Backend.
func (b *LocalBackend) Read(ctx context.Context, filename string) ([]byte, error) {
	if _, err := ParseFilename(filename); err != nil {
		return nil, opError(localName, "read", filename, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(b.dir, filename)) //nolint:gosec // name validated by ParseFilename
	if errors.Is(err, fs.ErrNotExist) {
		return nil, opError(localName, "read", filename, ErrNotFound)
	}
	if err != nil {
		return nil, unavailable(localName, "read", filename, err)
	}
	return data, nil
}

// Delete implements Backend.
func (b *LocalBackend) Delete(ctx context.Context, filename string) error {
	if _, err := ParseFilename(filename); err != nil {
		return opError(localName, "delete", filename, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(b.dir, filename))
	if errors.Is(err, fs.ErrNotExist) {
		return opError(localName, "delete", filename, ErrNotFound)
	}
	if err != nil {
		return unavailable(localName, "delete", filename, err)
	}
	return nil
}
