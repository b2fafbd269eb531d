// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ledgerline/internal/auth"
	"github.com/tomtom215/ledgerline/internal/backup"
	"github.com/tomtom215/ledgerline/internal/logging"
)

// Backup actions selected by the "action" query parameter.
const (
	actionCreate   = "create"
	actionRestore  = "restore"
	actionList     = "list"
	actionDownload = "download"
	actionHistory  = "history"
)

// restoreEnvelopeSlack covers the request wrapper around the document.
// The body limit doubles the document limit for a document sent as an
// escaped JSON string; the unwrapped document is checked separately.
const restoreEnvelopeSlack = 64 * 1024

// restoreBody is the POST ?action=restore request body. Data holds the
// backup document either as a JSON object or as a JSON string containing it.
type restoreBody struct {
	Data     json.RawMessage `json:"data"`
	Filename string          `json:"filename"`
}

// BackupPost handles POST /api/backup?action=create|restore.
func (h *Handler) BackupPost(w http.ResponseWriter, r *http.Request) {
	switch action := r.URL.Query().Get("action"); action {
	case actionCreate:
		h.backupCreate(w, r)
	case actionRestore:
		h.backupRestore(w, r)
	default:
		respondError(w, r, http.StatusBadRequest, "INVALID_ACTION",
			fmt.Sprintf("Unknown action %q", sanitizeLogValue(action)), nil)
	}
}

// BackupGet handles GET /api/backup?action=list|download|history.
func (h *Handler) BackupGet(w http.ResponseWriter, r *http.Request) {
	switch action := r.URL.Query().Get("action"); action {
	case actionList, "":
		h.backupList(w, r)
	case actionDownload:
		h.backupDownload(w, r)
	case actionHistory:
		h.backupHistory(w, r)
	default:
		respondError(w, r, http.StatusBadRequest, "INVALID_ACTION",
			fmt.Sprintf("Unknown action %q", sanitizeLogValue(action)), nil)
	}
}

// BackupDelete handles DELETE /api/backup?filename=.
func (h *Handler) BackupDelete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		respondError(w, r, http.StatusBadRequest, "MISSING_FILENAME", "filename is required", nil)
		return
	}

	if err := h.backups.Delete(r.Context(), auth.ActorFromContext(r.Context()), filename); err != nil {
		respondBackupError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, map[string]string{"deleted": filename}, start)
}

func (h *Handler) backupCreate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result, err := h.backups.CreateManual(r.Context(), auth.ActorFromContext(r.Context()))
	if err != nil {
		respondBackupError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusCreated, result, start)
}

func (h *Handler) backupRestore(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	actor := auth.ActorFromContext(r.Context())
	if err := h.backups.AuthorizeRestore(actor); err != nil {
		respondBackupError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 2*h.maxRestoreSize+restoreEnvelopeSlack)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE",
				fmt.Sprintf("Restore request exceeds %d bytes", tooLarge.Limit), nil)
			return
		}
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Failed to read request body", err)
		return
	}

	var body restoreBody
	if err := json.Unmarshal(raw, &body); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Restore body is not JSON")
		respondError(w, r, http.StatusBadRequest, "INVALID_FORMAT", "Invalid backup file format", nil)
		return
	}

	data, err := restoreDocument(body.Data)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_FORMAT", "Invalid backup file format", nil)
		return
	}
	if int64(len(data)) > h.maxRestoreSize {
		respondError(w, r, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE",
			fmt.Sprintf("Backup document exceeds %d bytes", h.maxRestoreSize), nil)
		return
	}

	req := backup.RestoreRequest{Data: data, Filename: body.Filename}
	result, err := h.backups.RestoreFrom(r.Context(), actor, req)
	if err != nil {
		respondBackupError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, result, start)
}

// restoreDocument unwraps the "data" member: absent or null yields nil, a
// JSON string yields its contents, anything else is the document itself.
func restoreDocument(raw json.RawMessage) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '"' {
		return trimmed, nil
	}
	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	return []byte(text), nil
}

func (h *Handler) backupList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	artifacts, err := h.backups.List(r.Context(), auth.ActorFromContext(r.Context()))
	if err != nil {
		respondBackupError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, artifacts, start)
}

func (h *Handler) backupDownload(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		respondError(w, r, http.StatusBadRequest, "MISSING_FILENAME", "filename is required", nil)
		return
	}

	data, err := h.backups.Download(r.Context(), auth.ActorFromContext(r.Context()), filename)
	if err != nil {
		respondBackupError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("filename", filename).Msg("Failed to write backup download")
	}
}

func (h *Handler) backupHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			respondError(w, r, http.StatusBadRequest, "INVALID_LIMIT", "limit must be between 1 and 1000", nil)
			return
		}
		limit = n
	}

	entries, err := h.backups.History(r.Context(), auth.ActorFromContext(r.Context()), limit)
	if err != nil {
		respondBackupError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, entries, start)
}
