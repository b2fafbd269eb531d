// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

/*
Package auth identifies callers of the backup API.

Two credential types are accepted:
  - Session tokens (HS256 JWT) issued by the main application, carried in the
    Authorization header or the "token" cookie. A valid token attaches an
    Actor to the request context.
  - The scheduler shared secret, carried as "Authorization: Bearer <secret>"
    on the cron route and compared in constant time.

Session issuance and password handling live in the main application; this
package only validates.
*/
package auth
