// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package storage

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/tomtom215/ledgerline/internal/snapshot"
)

const (
	filenamePrefix     = "backup_"
	filenameExt        = ".json"
	filenameTimeLayout = "2006-01-02_15-04-05"
)

var filenamePattern = regexp.MustCompile(`^backup_(manual|automatic)_(\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2})\.json$`)

// ParsedName is the information encoded in an artifact filename.
type ParsedName struct {
	Origin    snapshot.Origin
	CreatedAt time.Time
}

// FormatFilename returns the artifact name for a backup taken at t (UTC, second resolution).
func FormatFilename(origin snapshot.Origin, t time.Time) string {
	return filenamePrefix + string(origin) + "_" + t.UTC().Format(filenameTimeLayout) + filenameExt
}

// OriginPrefix returns the name prefix shared by all artifacts of origin.
func OriginPrefix(origin snapshot.Origin) string {
	return filenamePrefix + string(origin) + "_"
}

// ParseFilename extracts origin and creation time from name.
// Anything that is not a bare convention-following name is rejected,
// including path separators.
func ParseFilename(name string) (ParsedName, error) {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return ParsedName{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	ts, err := time.ParseInLocation(filenameTimeLayout, m[2], time.UTC)
	if err != nil {
		return ParsedName{}, fmt.Errorf("%w: %q: %v", ErrInvalidName, name, err)
	}
	return ParsedName{Origin: snapshot.Origin(m[1]), CreatedAt: ts}, nil
}

// metaFromName builds metadata for a listed artifact. ok is false for
// names outside the convention.
func metaFromName(name string, size int64) (ArtifactMeta, bool) {
	parsed, err := ParseFilename(name)
	if err != nil {
		return ArtifactMeta{}, false
	}
	return ArtifactMeta{
		Filename:  name,
		Size:      size,
		CreatedAt: parsed.CreatedAt,
		Origin:    parsed.Origin,
	}, true
}

// SortNewestFirst orders artifacts by creation time descending, then by
// name descending so equal timestamps have a stable order.
func SortNewestFirst(artifacts []ArtifactMeta) {
	sort.SliceStable(artifacts, func(i, j int) bool {
		a, b := artifacts[i], artifacts[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.Filename > b.Filename
	})
}
