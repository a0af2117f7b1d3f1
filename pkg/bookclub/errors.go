// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bookclub

import (
	"bytes"
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Error Types
// -----------------------------------------------------------------------------

// ErrorKind categorizes client failures for programmatic handling.
type ErrorKind int

const (
	// ErrorInvalidInput indicates a local validation failure (empty search
	// term, unknown search type, blank review text). These errors are
	// raised before any network call is made.
	ErrorInvalidInput ErrorKind = iota

	// ErrorUnauthorized indicates the server rejected the credentials or
	// bearer token.
	ErrorUnauthorized

	// ErrorNotFound indicates the requested book does not exist or its
	// payload was too malformed to use.
	ErrorNotFound

	// ErrorConnectionFailed indicates the review service is not reachable.
	ErrorConnectionFailed

	// ErrorInvalidResponse indicates the server returned data the client
	// could not interpret.
	ErrorInvalidResponse
)

// String returns the error kind as a string for logging.
func (k ErrorKind) String() string {
	switch k {
	case ErrorInvalidInput:
		return "INVALID_INPUT"
	case ErrorUnauthorized:
		return "UNAUTHORIZED"
	case ErrorNotFound:
		return "NOT_FOUND"
	case ErrorConnectionFailed:
		return "CONNECTION_FAILED"
	case ErrorInvalidResponse:
		return "INVALID_RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// APIError provides structured error information for client operations.
//
// # Description
//
// Every failure surfaced by this package is an *APIError. Message is the
// user-facing description (shown verbatim in the UI), Detail carries
// technical context for logs, and Remediation suggests a next step.
//
// # Example
//
//	var apiErr *bookclub.APIError
//	if errors.As(err, &apiErr) && apiErr.Kind == bookclub.ErrorUnauthorized {
//	    fmt.Println("please log in again")
//	}
type APIError struct {
	// Kind categorizes the error for programmatic handling.
	Kind ErrorKind

	// Message is a human-readable error description.
	Message string

	// Detail provides technical information for debugging.
	Detail string

	// Remediation suggests how to fix the issue.
	Remediation string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap enables errors.Is and errors.As through the chain.
func (e *APIError) Unwrap() error {
	return e.Wrapped
}

// FullError returns a detailed message including remediation.
func (e *APIError) FullError() string {
	var buf bytes.Buffer
	buf.WriteString(e.Message)
	if e.Detail != "" {
		buf.WriteString("\n\nDetails: ")
		buf.WriteString(e.Detail)
	}
	if e.Remediation != "" {
		buf.WriteString("\n\nTo fix:\n")
		buf.WriteString(e.Remediation)
	}
	return buf.String()
}

// KindOf extracts the ErrorKind from an error chain.
//
// Returns the kind and true when err (or anything it wraps) is an
// *APIError; otherwise returns zero and false.
func KindOf(err error) (ErrorKind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

// invalidInput builds the local validation error used by the search
// dispatcher and the review composer. Never reaches the network.
func invalidInput(message string) *APIError {
	return &APIError{
		Kind:    ErrorInvalidInput,
		Message: message,
	}
}

// connectionFailed wraps a transport-level failure.
func connectionFailed(baseURL string, err error) *APIError {
	return &APIError{
		Kind:        ErrorConnectionFailed,
		Message:     "Cannot reach the book review service",
		Detail:      err.Error(),
		Remediation: fmt.Sprintf("Check your network and that %s is correct", baseURL),
		Wrapped:     err,
	}
}
