// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package auth

import "context"

type contextKey string

// ActorContextKey is the context key for the authenticated Actor.
const ActorContextKey contextKey = "actor"

// Actor is the authenticated caller of an administrative operation.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// SchedulerActor identifies the machine path in audit records.
var SchedulerActor = Actor{ID: "system", Name: "Scheduler", Role: "system"}

// ContextWithActor returns a copy of ctx carrying actor.
func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, ActorContextKey, actor)
}

// ActorFromContext returns the request's actor, or nil if the request has no valid session.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(ActorContextKey).(*Actor)
	return actor
}
