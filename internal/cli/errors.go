// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for quizbot CLI commands.
//
// Every handler returns errors; the dispatcher prints them once and maps
// them to an exit code here.
package cli

import (
	"context"
	"errors"

	"github.com/jeranaias/quizbot-tui/internal/api"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitAuthError indicates authentication failure
	ExitAuthError = 4
	// ExitNetworkError indicates network or connectivity error
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// usageError marks invalid invocation, distinct from runtime failures.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

// NewUsageError creates an error that maps to ExitUsageError.
func NewUsageError(msg string) error {
	return &usageError{msg: msg}
}

// GetExitCode maps an error to its exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *usageError
	switch {
	case errors.As(err, &usage):
		return ExitUsageError
	case errors.Is(err, api.ErrUnauthenticated), errors.Is(err, api.ErrAuthFailed):
		return ExitAuthError
	case errors.Is(err, api.ErrNotFound):
		return ExitNotFoundError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.Is(err, api.ErrRateLimited):
		return ExitNetworkError
	default:
		return ExitGeneralError
	}
}
