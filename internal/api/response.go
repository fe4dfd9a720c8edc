// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mealpick/internal/auth"
	"github.com/tomtom215/mealpick/internal/logging"
	"github.com/tomtom215/mealpick/internal/models"
	"github.com/tomtom215/mealpick/internal/suggest"
)

// Error codes for API responses. The first four mirror the RPC status
// names of the suggestion call.
const (
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeFailedPrecondition = "FAILED_PRECONDITION"
	ErrCodeInvalidArgument    = "INVALID_ARGUMENT"
	ErrCodeInternal           = "INTERNAL"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// respondJSON writes response with the given status.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess writes a 200 envelope around data.
func respondSuccess(w http.ResponseWriter, r *http.Request, start time.Time, data interface{}) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   statusSuccess,
		Data:     data,
		Metadata: metadata(r, start),
	})
}

// respondError writes an error envelope. details may be nil.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status:   statusError,
		Metadata: metadata(r, time.Time{}),
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func metadata(r *http.Request, start time.Time) models.Metadata {
	m := models.Metadata{
		Timestamp: time.Now().UTC(),
		RequestID: logging.RequestIDFromContext(r.Context()),
	}
	if !start.IsZero() {
		m.QueryTimeMS = time.Since(start).Milliseconds()
	}
	return m
}

// respondSuggestError maps a suggestion failure to its status and code.
func respondSuggestError(w http.ResponseWriter, r *http.Request, err error) {
	var se *suggest.Error
	if !errors.As(err, &se) {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Unclassified suggestion error")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, sanitizeMessage(err.Error()), nil)
		return
	}

	switch se.Kind {
	case suggest.KindUnauthenticated:
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthenticated, se.Message, nil)
	case suggest.KindFailedPrecondition:
		respondError(w, r, http.StatusBadRequest, ErrCodeFailedPrecondition, se.Message, nil)
	case suggest.KindInvalidArgument:
		if se.Validation != nil {
			apiErr := se.Validation.ToAPIError()
			respondError(w, r, http.StatusBadRequest, ErrCodeInvalidArgument, apiErr.Message, apiErr.Details)
			return
		}
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidArgument, se.Message, nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Suggestion request failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, sanitizeMessage(se.Message), nil)
	}
}

// RespondAuthError writes the envelope for a request rejected by the
// authentication middleware.
func RespondAuthError(w http.ResponseWriter, r *http.Request, err error) {
	status := auth.StatusFor(err)
	code := ErrCodeUnauthenticated
	if status == http.StatusServiceUnavailable {
		code = ErrCodeServiceUnavailable
	} else {
		w.Header().Set("WWW-Authenticate", `Bearer realm="mealpick"`)
	}
	respondError(w, r, status, code, auth.MessageFor(err), nil)
}

// sanitizeMessage strips control characters from messages that carry
// upstream text.
func sanitizeMessage(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, s)
}
