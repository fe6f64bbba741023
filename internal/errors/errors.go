// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure the client can observe falls into one of four kinds:
//
//   - validation: rejected locally before any network call (missing fields)
//   - transport:  the server answered with a non-2xx status
//   - business:   2xx answer whose operation flag was false (e.g. wrong password)
//   - unknown:    anything else (malformed JSON, network failure)
//
// Callers branch on the kind with KindOf or IsKind; Message is always safe to
// show to the user.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Validation indicates input rejected before any request was sent.
	Validation Kind = "validation"
	// Transport indicates a non-2xx response.
	Transport Kind = "transport"
	// Business indicates a 2xx response carrying an operation-level failure.
	Business Kind = "business"
	// Unknown covers malformed responses and network failures.
	Unknown Kind = "unknown"
)

// E wraps an error with kind and human-friendly message.
// Status is set only for Transport errors.
type E struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *E) Error() string {
	if e.Kind == Transport && e.Status != 0 {
		return fmt.Sprintf("%s: %d %s", e.Kind, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// NewTransport builds a Transport error for the given status. When statusText
// is empty the canonical text for the code is used.
func NewTransport(status int, statusText string) *E {
	if statusText == "" {
		statusText = http.StatusText(status)
	}
	return &E{Kind: Transport, Message: statusText, Status: status}
}

// KindOf returns the kind of the first *E in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// StatusOf returns the HTTP status of a Transport error, or 0.
func StatusOf(err error) int {
	var e *E
	if stderrors.As(err, &e) {
		return e.Status
	}
	return 0
}

// MessageOf returns the user-facing message of err. Errors outside the
// taxonomy yield their Error() text.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *E
	if stderrors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
