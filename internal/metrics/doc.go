// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

/*
Package metrics provides Prometheus collectors for Ledgerline.

Collectors are registered on the default registry via promauto and exposed
at /metrics by the api package:

	curl http://localhost:8420/metrics

# Available Metrics

Backup subsystem:
  - backup_operations_total{operation,origin,outcome}
  - backup_duration_seconds{operation}
  - backup_size_bytes{origin}
  - backup_retention_deleted_total
  - backup_audit_failures_total

Cloud storage circuit breaker:
  - backup_cloud_circuit_state{name} (0=closed, 1=half-open, 2=open)
  - circuit_breaker_requests_total{name,result}
  - circuit_breaker_transitions_total{name,from,to}

HTTP API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
*/
package metrics
