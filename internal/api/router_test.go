// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/ledgerline/internal/auth"
	"github.com/tomtom215/ledgerline/internal/config"
	"github.com/tomtom215/ledgerline/internal/middleware"
)

func newTestRouter(t *testing.T, svc *fakeService, chiCfg *ChiMiddlewareConfig) (http.Handler, *auth.JWTManager) {
	t.Helper()
	jwtManager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: "router-test-secret-0123456789abcdef"})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	var chiMw *ChiMiddleware
	if chiCfg != nil {
		chiMw = NewChiMiddleware(chiCfg)
	}
	router := NewRouter(newTestHandler(svc), auth.NewMiddleware(jwtManager), chiMw)
	return router.SetupChi(), jwtManager
}

func TestRouter_SessionActor(t *testing.T) {
	svc := &fakeService{}
	handler, jwtManager := newTestRouter(t, svc, nil)

	token, err := jwtManager.GenerateToken("u-7", "bob", "ADMIN")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/backup?action=list", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}
	if svc.actor == nil || svc.actor.ID != "u-7" || svc.actor.Role != "ADMIN" {
		t.Errorf("actor = %+v, want u-7/ADMIN", svc.actor)
	}

	svc.actor = nil
	req = httptest.NewRequest(http.MethodGet, "/api/backup?action=list", nil)
	req.AddCookie(&http.Cookie{Name: auth.TokenCookieName, Value: token})
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if svc.actor == nil || svc.actor.Name != "bob" {
		t.Errorf("cookie session actor = %+v, want bob", svc.actor)
	}
}

func TestRouter_NoSessionPassesNilActor(t *testing.T) {
	svc := &fakeService{actor: adminActor}
	handler, _ := newTestRouter(t, svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/backup?action=create", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if svc.actor != nil {
		t.Errorf("actor = %+v, want nil for an invalid token", svc.actor)
	}
}

func TestRouter_Routes(t *testing.T) {
	handler, _ := newTestRouter(t, &fakeService{}, nil)

	tests := []struct {
		method string
		target string
		secret string
		status int
	}{
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodPost, "/api/cron/backup", testCronSecret, http.StatusOK},
		{http.MethodGet, "/api/cron/backup", testCronSecret, http.StatusOK},
		{http.MethodPost, "/api/cron/backup", "", http.StatusUnauthorized},
		{http.MethodDelete, "/api/backup", "", http.StatusBadRequest},
		{http.MethodPut, "/api/backup", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/nothing", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.secret != "" {
				req.Header.Set("Authorization", "Bearer "+tt.secret)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
		})
	}
}

func TestRouter_GlobalHeaders(t *testing.T) {
	handler, _ := newTestRouter(t, &fakeService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "client-supplied-id")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get(middleware.RequestIDHeader); got != "client-supplied-id" {
		t.Errorf("X-Request-ID = %q, want echoed client id", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if resp := decodeResponse(t, w); resp.Metadata.RequestID != "client-supplied-id" {
		t.Errorf("metadata request id = %q", resp.Metadata.RequestID)
	}
}

func TestRouter_CronRateLimit(t *testing.T) {
	cfg := DefaultChiMiddlewareConfig()
	cfg.CronRateLimitRequests = 2
	cfg.CronRateLimitWindow = time.Minute
	handler, _ := newTestRouter(t, &fakeService{}, cfg)

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/cron/backup", nil)
		req.Header.Set("Authorization", "Bearer "+testCronSecret)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		last = w.Code
		if i < 2 && w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, w.Code)
		}
		if i == 2 {
			assertErrorCode(t, w, http.StatusTooManyRequests, "RATE_LIMITED")
		}
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}
}
