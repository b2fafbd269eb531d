// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ledgerline/internal/database/query"
	"github.com/tomtom215/ledgerline/internal/logging"
	"github.com/tomtom215/ledgerline/internal/snapshot"
)

const defaultQueryLimit = 100

// DuckDBStore appends entries to the shared activities table.
type DuckDBStore struct {
	db    *sql.DB
	table string
}

// NewDuckDBStore creates a store over db. The activities table must exist.
func NewDuckDBStore(db *sql.DB) *DuckDBStore {
	spec, _ := snapshot.Lookup(snapshot.KindActivity)
	return &DuckDBStore{db: db, table: `"` + spec.Table + `"`}
}

// Append persists entry.
func (s *DuckDBStore) Append(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		return errors.New("audit entry id is required")
	}

	var metadata *string
	if entry.Metadata != nil {
		b, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode audit metadata: %w", err)
		}
		m := string(b)
		metadata = &m
	}

	q := `INSERT INTO ` + s.table + ` ("id", "userId", "userName", "action", "entityType", "entityId", "description", "metadata", "createdAt")
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		entry.ID, entry.UserID, entry.UserName, string(entry.Action), entry.EntityType,
		nullString(entry.EntityID), entry.Description, metadata, entry.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save audit entry: %w", err)
	}
	return nil
}

// Query returns matching entries, newest first. Limit defaults to 100.
func (s *DuckDBStore) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	wb := query.NewWhereBuilder()
	actions := make([]string, len(filter.Actions))
	for i, a := range filter.Actions {
		actions[i] = string(a)
	}
	wb.AddIn("action", actions)
	wb.AddEquals("userId", filter.UserID)
	wb.AddTimeRange("createdAt", filter.Since, filter.Until)
	where, args := wb.BuildWithPrefix()

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	q := fmt.Sprintf(`SELECT "id", "userId", "userName", "action", "entityType", "entityId", "description", "metadata", "createdAt"
		FROM %s %s ORDER BY "createdAt" DESC NULLS LAST, "id" DESC LIMIT %d`, s.table, where, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Failed to close audit rows")
		}
	}()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var userID, userName, action, entityType, entityID, desc, metadata sql.NullString
		var createdAt sql.NullTime
		if err := rows.Scan(&e.ID, &userID, &userName, &action, &entityType, &entityID, &desc, &metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.UserID, e.UserName, e.EntityType, e.EntityID, e.Description = userID.String, userName.String, entityType.String, entityID.String, desc.String
		e.Action = Action(action.String)
		if createdAt.Valid {
			e.CreatedAt = createdAt.Time.UTC()
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &e.Metadata); err != nil {
				logging.Warn().Err(err).Str("id", e.ID).Msg("Ignoring unparseable audit metadata")
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}
	return entries, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
