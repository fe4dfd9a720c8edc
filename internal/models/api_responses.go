// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package models

import "time"

// APIResponse is the envelope used by every HTTP endpoint.
//
// Status is "success" (see Data) or "error" (see Error).
//
//	{
//	  "status": "success",
//	  "data": {"suggestions": [...]},
//	  "metadata": {"timestamp": "2026-10-19T12:00:00Z", "request_id": "..."}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the machine-readable error body.
//
//	{
//	  "code": "INVALID_ARGUMENT",
//	  "message": "Validation failed: 2 field(s) invalid",
//	  "details": {"fields": [{"field": "budget_level", ...}]}
//	}
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SuggestResponse is the payload of a successful suggestion call.
type SuggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// HistoryResponse is the payload of the history listing endpoint.
type HistoryResponse struct {
	Records []HistoryRecord `json:"records"`
	Count   int             `json:"count"`
}

// HealthStatus is returned by the readiness endpoint.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
