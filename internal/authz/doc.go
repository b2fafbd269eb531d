// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

// Package authz answers whether an actor holds the administrative backup
// capability, using a Casbin RBAC model.
//
// The model and policy are embedded; EnforcerConfig paths override them.
// The configured admin role is granted the embedded "admin" role at startup,
// so deployments can keep their own role names without editing the policy.
package authz
