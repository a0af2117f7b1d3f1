// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bookclub

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{ErrorInvalidInput, "INVALID_INPUT"},
		{ErrorUnauthorized, "UNAUTHORIZED"},
		{ErrorNotFound, "NOT_FOUND"},
		{ErrorConnectionFailed, "CONNECTION_FAILED"},
		{ErrorInvalidResponse, "INVALID_RESPONSE"},
		{ErrorKind(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("ErrorKind.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{
		Kind:    ErrorNotFound,
		Message: "Book 42 not found",
		Detail:  "404 page not found",
	}
	if got := err.Error(); got != "Book 42 not found" {
		t.Errorf("Error() = %q, want %q", got, "Book 42 not found")
	}
}

func TestAPIError_FullError(t *testing.T) {
	err := &APIError{
		Kind:        ErrorConnectionFailed,
		Message:     "Cannot reach the book review service",
		Detail:      "dial tcp: connection refused",
		Remediation: "Check your network",
	}

	full := err.FullError()
	if !strings.Contains(full, "Cannot reach the book review service") {
		t.Error("FullError should contain Message")
	}
	if !strings.Contains(full, "connection refused") {
		t.Error("FullError should contain Detail")
	}
	if !strings.Contains(full, "Check your network") {
		t.Error("FullError should contain Remediation")
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("underlying")
	err := connectionFailed("http://localhost:1", inner)

	if !errors.Is(err, inner) {
		t.Error("errors.Is should see through APIError")
	}
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(invalidInput("Please enter a search term"))
	if !ok || kind != ErrorInvalidInput {
		t.Errorf("KindOf() = %v, %v; want ErrorInvalidInput, true", kind, ok)
	}

	wrapped := fmt.Errorf("context: %w", invalidInput("nope"))
	kind, ok = KindOf(wrapped)
	if !ok || kind != ErrorInvalidInput {
		t.Errorf("KindOf(wrapped) = %v, %v; want ErrorInvalidInput, true", kind, ok)
	}

	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf(plain error) should report false")
	}
}
