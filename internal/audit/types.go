// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action is the activity verb.
type Action string

// Backup subsystem actions.
const (
	ActionBackup  Action = "BACKUP"
	ActionRestore Action = "RESTORE"
	ActionDelete  Action = "DELETE"
)

// EntityTypeSystem marks activity that targets the whole dataset rather than one row.
const EntityTypeSystem = "SYSTEM"

// Entry is one activity log record.
type Entry struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	UserName    string         `json:"userName"`
	Action      Action         `json:"action"`
	EntityType  string         `json:"entityType"`
	EntityID    string         `json:"entityId,omitempty"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// NewEntry returns a SYSTEM entry with a fresh id and timestamp.
func NewEntry(userID, userName string, action Action, description string, metadata map[string]any) Entry {
	return Entry{
		ID:          uuid.New().String(),
		UserID:      userID,
		UserName:    userName,
		Action:      action,
		EntityType:  EntityTypeSystem,
		Description: description,
		Metadata:    metadata,
		CreatedAt:   time.Now().UTC(),
	}
}

// Filter selects entries for Query. Zero fields match everything.
type Filter struct {
	Actions []Action
	UserID  string
	Since   *time.Time
	Until   *time.Time
	Limit   int
}

// Sink appends activity records.
type Sink interface {
	Append(ctx context.Context, entry Entry) error
}

// Querier reads activity records, newest first.
type Querier interface {
	Query(ctx context.Context, filter Filter) ([]Entry, error)
}

func (f *Filter) matches(e *Entry) bool {
	if len(f.Actions) > 0 {
		found := false
		for _, a := range f.Actions {
			if e.Action == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.Since != nil && e.CreatedAt.Before(*f.Since) {
		return false
	}
	if f.Until != nil && e.CreatedAt.After(*f.Until) {
		return false
	}
	return true
}
