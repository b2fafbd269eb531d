// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package audit

import (
	"context"
	"errors"
	"sync"
)

// MemoryStore implements Sink and Querier in memory.
// Suitable for development and testing. Data is lost on restart.
type MemoryStore struct {
	entries []Entry
	mu      sync.RWMutex
	maxLen  int

	// Err, when set, is returned by Append instead of storing the entry.
	Err error
}

// NewMemoryStore creates a store keeping at most maxLen entries.
func NewMemoryStore(maxLen int) *MemoryStore {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &MemoryStore{
		entries: make([]Entry, 0, 64),
		maxLen:  maxLen,
	}
}

// Append stores entry, dropping the oldest 10% when full.
func (s *MemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	if entry.ID == "" {
		return errors.New("audit entry id is required")
	}
	if len(s.entries) >= s.maxLen {
		drop := s.maxLen / 10
		if drop == 0 {
			drop = 1
		}
		s.entries = s.entries[drop:]
	}
	s.entries = append(s.entries, entry)
	return nil
}

// Query returns matching entries, newest first.
func (s *MemoryStore) Query(_ context.Context, filter Filter) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Entry, 0)
	for i := len(s.entries) - 1; i >= 0; i-- {
		if !filter.matches(&s.entries[i]) {
			continue
		}
		results = append(results, s.entries[i])
		if filter.Limit > 0 && len(results) >= filter.Limit {
			break
		}
	}
	return results, nil
}

// Entries returns a copy of every stored entry in append order.
func (s *MemoryStore) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
