// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	operationKey contextKey = "operation_id"
)

// GenerateRequestID returns a new request ID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID returns ctx carrying the HTTP request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithOperationID tags ctx with a short ID shared by every log line of
// one backup, restore or delete run.
func ContextWithOperationID(ctx context.Context) context.Context {
	return context.WithValue(ctx, operationKey, uuid.New().String()[:8])
}

// OperationIDFromContext returns the operation ID or "".
func OperationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(operationKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns the global logger enriched with request_id and operation_id
// when ctx carries them.
//
//	logging.Ctx(ctx).Info().Str("filename", name).Msg("Backup stored")
func Ctx(ctx context.Context) *zerolog.Logger {
	logCtx := Logger().With()
	if id := RequestIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("request_id", id)
	}
	if id := OperationIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("operation_id", id)
	}
	l := logCtx.Logger()
	return &l
}
