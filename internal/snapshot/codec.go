// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/goccy/go-json"
)

// CurrentVersion is written into every new snapshot.
const CurrentVersion = "1.2"

// KnownVersions lists the document versions this build has seen produced.
var KnownVersions = []string{"1.0", "1.1", CurrentVersion}

// TimestampLayout is the ISO-8601 form used for the envelope timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// RowTimestampLayout is the ISO-8601 form used for row timestamps. It keeps
// the microsecond precision of the store's TIMESTAMP columns.
const RowTimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// ErrInvalidFormat is returned when a document fails minimum viability checks.
var ErrInvalidFormat = errors.New("invalid backup file format")

// requiredWireKeys must be present in data for a document to be restorable.
var requiredWireKeys = []string{"products", "customers"}

type envelope struct {
	Version   string                     `json:"version"`
	Timestamp string                     `json:"timestamp"`
	Type      string                     `json:"type,omitempty"`
	Stats     map[string]int             `json:"stats"`
	Data      map[string]json.RawMessage `json:"data"`
}

type encodedEnvelope struct {
	Version   string              `json:"version"`
	Timestamp string              `json:"timestamp"`
	Type      string              `json:"type,omitempty"`
	Stats     map[string]int      `json:"stats"`
	Data      map[string][]Record `json:"data"`
}

// Encode serializes s. Counts are recomputed first so the stats block
// always matches the data arrays.
func Encode(s *Snapshot) ([]byte, error) {
	if s == nil {
		return nil, errors.New("encode nil snapshot")
	}
	s.Recount()

	version := s.FormatVersion
	if version == "" {
		version = CurrentVersion
	}

	env := encodedEnvelope{
		Version:   version,
		Timestamp: s.CreatedAt.UTC().Format(TimestampLayout),
		Stats:     s.CountsByWireKey(),
		Data:      make(map[string][]Record, len(registry)),
	}
	if s.Origin == OriginAutomatic {
		env.Type = string(OriginAutomatic)
	}
	for _, spec := range registry {
		rows := s.Entities[spec.Kind]
		if rows == nil {
			rows = []Record{}
		}
		env.Data[spec.WireKey] = rows
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses and validates a snapshot document. The returned warnings
// describe tolerated irregularities such as an unknown version.
func Decode(data []byte) (*Snapshot, []string, error) {
	var env envelope
	if err := unmarshalNumbers(data, &env); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if env.Data == nil {
		return nil, nil, fmt.Errorf("%w: missing data object", ErrInvalidFormat)
	}
	for _, key := range requiredWireKeys {
		if _, ok := env.Data[key]; !ok {
			return nil, nil, fmt.Errorf("%w: missing data.%s", ErrInvalidFormat, key)
		}
	}

	var warnings []string
	s := &Snapshot{
		FormatVersion: env.Version,
		Origin:        OriginManual,
		Entities:      make(map[Kind][]Record, len(registry)),
	}

	switch {
	case env.Version == "":
		warnings = append(warnings, "document has no version")
	case !slices.Contains(KnownVersions, env.Version):
		warnings = append(warnings, fmt.Sprintf("unrecognized version %q accepted", env.Version))
	}

	switch env.Type {
	case "", string(OriginManual):
	case string(OriginAutomatic):
		s.Origin = OriginAutomatic
	default:
		warnings = append(warnings, fmt.Sprintf("unknown type %q treated as manual", env.Type))
	}

	if env.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339Nano, env.Timestamp)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("unparseable timestamp %q", env.Timestamp))
		} else {
			s.CreatedAt = ts.UTC()
		}
	}

	for _, spec := range registry {
		raw, ok := env.Data[spec.WireKey]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("data.%s missing, treated as empty", spec.WireKey))
			s.Entities[spec.Kind] = []Record{}
			continue
		}
		var rows []Record
		if err := unmarshalNumbers(raw, &rows); err != nil {
			return nil, nil, fmt.Errorf("%w: data.%s must be an array of objects", ErrInvalidFormat, spec.WireKey)
		}
		if rows == nil {
			rows = []Record{}
		}
		for i, row := range rows {
			if row == nil {
				return nil, nil, fmt.Errorf("%w: data.%s[%d] is null", ErrInvalidFormat, spec.WireKey, i)
			}
		}
		s.Entities[spec.Kind] = rows
	}

	unknown := make([]string, 0)
	for key := range env.Data {
		if _, ok := byWireKey[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		warnings = append(warnings, fmt.Sprintf("unknown data key %q ignored", key))
	}

	s.Recount()
	for _, spec := range registry {
		n, ok := env.Stats[spec.WireKey]
		if ok && s.Counts[spec.Kind] != n {
			warnings = append(warnings, fmt.Sprintf("stats.%s is %d but data has %d rows", spec.WireKey, n, s.Counts[spec.Kind]))
		}
	}

	return s, warnings, nil
}

// unmarshalNumbers decodes with json.Number so numeric fields survive a
// round trip without float rounding.
func unmarshalNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
