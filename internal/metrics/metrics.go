// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

var (
	// Backup Metrics
	BackupOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_operations_total",
			Help: "Total number of backup subsystem operations",
		},
		[]string{"operation", "origin", "outcome"}, // operation: backup, restore, delete
	)

	BackupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backup_duration_seconds",
			Help:    "Duration of backup subsystem operations in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"operation"},
	)

	BackupSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "backup_size_bytes",
			Help: "Size of the most recent backup artifact in bytes",
		},
		[]string{"origin"},
	)

	RetentionDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backup_retention_deleted_total",
			Help: "Total number of automatic backups removed by retention",
		},
	)

	AuditFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backup_audit_failures_total",
			Help: "Total number of audit records that could not be written",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "backup_cloud_circuit_state",
			Help: "Cloud storage circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Authorization Metrics
	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Total number of backup authorization decisions",
		},
		[]string{"action", "result"}, // allowed, denied
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordBackupOperation records one backup, restore or delete.
// A nil err counts as success.
func RecordBackupOperation(operation, origin string, duration time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	BackupOperations.WithLabelValues(operation, origin, outcome).Inc()
	BackupDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRejected records an operation refused before any work was done.
func RecordRejected(operation, origin string) {
	BackupOperations.WithLabelValues(operation, origin, OutcomeRejected).Inc()
}

// RecordBackupSize records the size of a freshly written artifact.
func RecordBackupSize(origin string, size int64) {
	BackupSize.WithLabelValues(origin).Set(float64(size))
}

// RecordRetentionDeleted adds n pruned artifacts.
func RecordRetentionDeleted(n int) {
	RetentionDeleted.Add(float64(n))
}

// RecordAuthzDecision records an allow or deny for action.
func RecordAuthzDecision(action string, allowed bool) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	AuthzDecisions.WithLabelValues(action, result).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
