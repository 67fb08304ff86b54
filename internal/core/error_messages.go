package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Codes are grouped by category:
//
// # Dataset Errors (DATA001-DATA099)
//
//	DATA001 - Missing column: The dataset lacks a required column
//	          Action: Check the dataset header against the expected columns
//	          Patterns: "missing required column"
//
//	DATA002 - Invalid CSV: The dataset file could not be parsed
//	          Action: Ensure the file is comma-separated UTF-8 text
//	          Patterns: "invalid csv"
//
//	DATA003 - Dataset source: The dataset could not be read
//	          Action: Check DATASET_SOURCE, DATASET_PATH and DATABASE_URL
//	          Patterns: "dataset source", "open dataset"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found: The dashboard session expired
//	         Action: Reload the page to start a new session
//	         Patterns: "session not found"
//
// # Event Errors (EVT001-EVT099)
//
//	EVT001 - Invalid event: The dashboard could not apply an input
//	         Action: Reload the page and try again
//	         Patterns: "invalid event"
//
// # View Errors (VIEW001-VIEW099)
//
//	VIEW001 - Unknown view: The requested chart does not exist
//	          Action: Check the view name
//	          Patterns: "unknown view"
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Export failed: The table could not be exported
//	         Action: Try again or choose the other export format
//	         Patterns: "export failed"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check application logs for the
// original technical error.
//
// Patterns are matched case-insensitively using strings.Contains. The first
// matching pattern wins, so more specific patterns come first.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgDataSource = UserMessage{
		Message: "The dataset could not be read",
		Action:  "Check DATASET_SOURCE, DATASET_PATH and DATABASE_URL",
		Code:    "DATA003",
	}
)

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Dataset Errors (DATA001-DATA003)
	// =========================================================================
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "The dataset is missing a required column",
			Action:  "Check the dataset header against the expected columns",
			Code:    "DATA001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "The dataset file is not a valid CSV",
			Action:  "Ensure the file is comma-separated UTF-8 text",
			Code:    "DATA002",
		},
	},
	{pattern: "dataset source", msg: msgDataSource},
	{pattern: "open dataset", msg: msgDataSource},

	// =========================================================================
	// Dashboard Errors (SES001, EVT001, VIEW001, EXP001)
	// =========================================================================
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Your dashboard session has expired",
			Action:  "Reload the page to start a new session",
			Code:    "SES001",
		},
	},
	{
		pattern: "invalid event",
		msg: UserMessage{
			Message: "The dashboard could not apply that input",
			Action:  "Reload the page and try again",
			Code:    "EVT001",
		},
	},
	{
		pattern: "unknown view",
		msg: UserMessage{
			Message: "The requested chart does not exist",
			Action:  "Check the view name",
			Code:    "VIEW001",
		},
	},
	{
		pattern: "export failed",
		msg: UserMessage{
			Message: "The table could not be exported",
			Action:  "Try again or choose the other export format",
			Code:    "EXP001",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, a generic fallback message with code ERR000 is
// returned.
//
// Example:
//
//	err := fmt.Errorf("dispatch: %w", ErrInvalidEvent)
//	msg := MapError(err)
//	// msg.Code == "EVT001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
