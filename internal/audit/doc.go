// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

// Package audit records backup, restore and delete actions in the shared
// activity log. DuckDBStore appends to the activities table the rest of the
// application reads; MemoryStore backs tests and store-less deployments.
package audit
