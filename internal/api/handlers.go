// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mealpick/internal/auth"
	"github.com/tomtom215/mealpick/internal/logging"
	"github.com/tomtom215/mealpick/internal/models"
	"github.com/tomtom215/mealpick/internal/store"
)

// maxRequestBodySize bounds the suggestion request body.
const maxRequestBodySize = 64 * 1024

// readinessTimeout bounds each readiness check.
const readinessTimeout = 2 * time.Second

// Suggester runs the suggestion pipeline for one caller.
type Suggester interface {
	Precheck(userID string) error
	Handle(ctx context.Context, userID string, raw map[string]interface{}) ([]models.Suggestion, error)
}

// HistoryReader lists a caller's stored suggestions.
type HistoryReader interface {
	ListHistory(ctx context.Context, userID string, limit int) ([]models.HistoryRecord, error)
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Handler serves the HTTP endpoints.
type Handler struct {
	suggester Suggester
	history   HistoryReader
	checks    map[string]ReadinessCheck
	startTime time.Time
}

// NewHandler creates a handler. checks are run by the readiness endpoint,
// keyed by the name reported in its body.
func NewHandler(suggester Suggester, history HistoryReader, checks map[string]ReadinessCheck) *Handler {
	return &Handler{
		suggester: suggester,
		history:   history,
		checks:    checks,
		startTime: time.Now(),
	}
}

// suggestRequest is the body of POST /api/v1/suggestions. Preferences stay
// untyped so that validation can report every missing or non-numeric field.
type suggestRequest struct {
	Preferences map[string]interface{} `json:"preferences"`
}

// Suggest handles POST /api/v1/suggestions.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := auth.UserIDFromContext(r.Context())

	// Identity and credential are reported before anything about the body.
	if err := h.suggester.Precheck(userID); err != nil {
		respondSuggestError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidArgument, bodyErrorMessage(err), nil)
		return
	}

	suggestions, err := h.suggester.Handle(r.Context(), userID, req.Preferences)
	if err != nil {
		respondSuggestError(w, r, err)
		return
	}

	respondSuccess(w, r, start, models.SuggestResponse{Suggestions: suggestions})
}

func bodyErrorMessage(err error) string {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)
	}
	return "request body must be a JSON object with a preferences object: " + sanitizeMessage(err.Error())
}

// History handles GET /api/v1/history?limit=N.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthenticated, auth.MessageFor(auth.ErrNoCredentials), nil)
		return
	}

	limit := store.DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, r, http.StatusBadRequest, ErrCodeInvalidArgument,
				fmt.Sprintf("limit must be a positive integer, got %q", raw), nil)
			return
		}
		limit = store.ClampLimit(n)
	}

	records, err := h.history.ListHistory(r.Context(), userID, limit)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to list history")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "failed to read history", nil)
		return
	}
	if records == nil {
		records = []models.HistoryRecord{}
	}

	respondSuccess(w, r, start, models.HistoryResponse{Records: records, Count: len(records)})
}

// HealthLive handles GET /health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, time.Time{}, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /health/ready. It returns 503 when any check fails.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatus{Status: "ready", Checks: make(map[string]string, len(h.checks))}

	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		err := check(ctx)
		cancel()
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Str("check", name).Msg("Readiness check failed")
			status.Status = "not_ready"
			status.Checks[name] = "unavailable"
			continue
		}
		status.Checks[name] = "ok"
	}

	code := http.StatusOK
	envelope := statusSuccess
	if status.Status != "ready" {
		code = http.StatusServiceUnavailable
		envelope = statusError
	}

	respondJSON(w, code, &models.APIResponse{
		Status:   envelope,
		Data:     status,
		Metadata: metadata(r, time.Time{}),
	})
}

// NotFound handles unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "route not found", nil)
}

// MethodNotAllowed handles routes matched with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed", nil)
}
