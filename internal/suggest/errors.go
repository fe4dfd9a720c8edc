// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package suggest

import (
	"errors"
	"fmt"

	"github.com/tomtom215/mealpick/internal/validation"
)

// Kind classifies a failed suggestion request.
type Kind int

const (
	// KindInternal covers upstream fetch and processing failures.
	KindInternal Kind = iota
	// KindUnauthenticated means no caller identity was established.
	KindUnauthenticated
	// KindFailedPrecondition means the server is missing its places credential.
	KindFailedPrecondition
	// KindInvalidArgument means the preferences payload was rejected.
	KindInvalidArgument
)

// String returns the RPC status name of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindFailedPrecondition:
		return "failed-precondition"
	case KindInvalidArgument:
		return "invalid-argument"
	default:
		return "internal"
	}
}

var (
	// ErrNoCaller is wrapped by unauthenticated errors.
	ErrNoCaller = errors.New("caller identity is required")

	// ErrMissingCredential is wrapped by failed-precondition errors.
	ErrMissingCredential = errors.New("places API credential is not configured")
)

// Error is the only error type Service.Handle returns.
type Error struct {
	Kind    Kind
	Message string
	Err     error

	// Validation is set for KindInvalidArgument.
	Validation *validation.RequestValidationError
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message != e.Err.Error() {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

func unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: ErrNoCaller.Error(), Err: ErrNoCaller}
}

func failedPrecondition() *Error {
	return &Error{Kind: KindFailedPrecondition, Message: ErrMissingCredential.Error(), Err: ErrMissingCredential}
}

func invalidArgument(verr *validation.RequestValidationError) *Error {
	return &Error{Kind: KindInvalidArgument, Message: verr.Error(), Err: verr, Validation: verr}
}

// internal keeps the upstream message so callers can see what failed.
func internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}
