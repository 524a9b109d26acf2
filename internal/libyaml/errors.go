// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Error types for the reading and scanning stages.
// Provides structured error reporting with line/column information.

package libyaml

import (
	"fmt"
	"strings"
)

// MarkedYAMLError represents a YAML error with position information.
type MarkedYAMLError struct {
	// optional context
	ContextMark    Mark
	ContextMessage string

	Mark    Mark
	Message string
}

// Error returns the error message with position information.
func (e MarkedYAMLError) Error() string {
	var builder strings.Builder
	builder.WriteString("yaml: ")
	if len(e.ContextMessage) > 0 {
		fmt.Fprintf(&builder, "%s at %s: ", e.ContextMessage, e.ContextMark)
	}
	if len(e.ContextMessage) == 0 || e.ContextMark != e.Mark {
		fmt.Fprintf(&builder, "%s: ", e.Mark)
	}
	builder.WriteString(e.Message)
	return builder.String()
}

// ScannerError represents an error that occurred during scanning. It is the
// single error kind the scanner ever returns: the scanner never recovers
// from a malformed stream, so every syntax failure surfaces as one of
// these, carrying the message and the Mark that located it.
type ScannerError MarkedYAMLError

// Error returns the error message.
func (e ScannerError) Error() string {
	return MarkedYAMLError(e).Error()
}

// ReaderError represents an error that occurred while reading or decoding
// the input stream below the token level (bad UTF-8/UTF-16, I/O failure).
type ReaderError struct {
	Offset int
	Value  int
	Err    error
}

// Error returns the error message with offset information.
func (e ReaderError) Error() string {
	return fmt.Sprintf("yaml: offset %d: %s", e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e ReaderError) Unwrap() error {
	return e.Err
}
