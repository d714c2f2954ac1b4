package core

// # Error Codes Reference
//
// User-facing errors carry a code that users can quote to support staff.
// Codes are grouped by category:
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A record with this ID already exists
//	DB002 - Unique constraint: This value must be unique but already exists
//	DB003 - Foreign key: Referenced record does not exist
//	DB004 - Connection refused: Unable to connect to database
//	DB005 - Connection reset: Database connection was interrupted
//	DB006 - Timeout: Operation timed out
//	DB007 - Deadlock: Database was busy with conflicting operations
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid setting: A setting value is not allowed
//	VAL002 - Required field: A required field is empty
//	VAL003 - Invalid role: The role is not recognised
//
// # Genealogy Errors (GEN001-GEN099)
//
//	GEN001 - Tree not found
//	GEN002 - Individual not found (also for individuals hidden by privacy)
//	GEN003 - Family not found
//	GEN004 - Census not found
//	GEN005 - Block not found
//
// # User Errors (USR001-USR099)
//
//	USR001 - User exists: User name or email already in use
//	USR002 - User not found
//	USR003 - Invalid credentials
//	USR004 - Not verified: The account is awaiting verification
//	USR005 - Password too short
//	USR006 - Invalid email
//	USR007 - Session expired
//	USR008 - Permission denied
//
// # Place Errors (PLC001-PLC099)
//
//	PLC001 - Place not found
//	PLC002 - Invalid coordinates
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	REQ002 - Request timeout
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Support staff should check the application
// logs for the original error.
//
// # Matching
//
// Sentinel errors are matched first with errors.Is. Other errors, typically
// from the database driver, are matched case-insensitively on their text;
// the first matching pattern wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

// sentinelMessages maps the package's sentinel errors to user messages.
var sentinelMessages = []sentinelMessage{
	{ErrInvalidSetting, UserMessage{"A setting value is not allowed", "Check the value and try again", "VAL001"}},
	{ErrRequiredField, UserMessage{"A required field is empty", "Fill in every required field", "VAL002"}},
	{ErrInvalidRole, UserMessage{"The role is not recognised", "Choose a role from the list", "VAL003"}},

	{ErrTreeNotFound, UserMessage{"The family tree does not exist", "Check the tree name in the address", "GEN001"}},
	{ErrIndividualNotFound, UserMessage{"The individual does not exist or is private", "Check the reference or sign in", "GEN002"}},
	{ErrFamilyNotFound, UserMessage{"The family does not exist", "Check the family reference", "GEN003"}},
	{ErrCensusNotFound, UserMessage{"The census does not exist", "Choose a census from the list", "GEN004"}},
	{ErrBlockNotFound, UserMessage{"The block does not exist", "Reload the page", "GEN005"}},

	{ErrUserExists, UserMessage{"This user name or email address is already in use", "Choose a different user name or email", "USR001"}},
	{ErrUserNotFound, UserMessage{"The user does not exist", "Reload the user list", "USR002"}},
	{ErrInvalidCredentials, UserMessage{"The user name or password is incorrect", "Check your details and try again", "USR003"}},
	{ErrUserNotVerified, UserMessage{"This account has not been verified", "Follow the verification link or wait for approval", "USR004"}},
	{ErrPasswordTooShort, UserMessage{"The password is too short", fmt.Sprintf("Use at least %d characters", MinPasswordLength), "USR005"}},
	{ErrInvalidEmail, UserMessage{"The email address is not valid", "Enter an address such as name@example.com", "USR006"}},
	{ErrSessionNotFound, UserMessage{"Your session has expired", "Please sign in again", "USR007"}},
	{ErrForbidden, UserMessage{"You do not have permission to do this", "Sign in with an account that has access", "USR008"}},

	{ErrPlaceNotFound, UserMessage{"The place does not exist", "Reload the place list", "PLC001"}},
	{ErrInvalidCoordinates, UserMessage{"The coordinates are out of range", "Latitude must be within ±90 and longitude within ±180", "PLC002"}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains, so partial matches work.
// The first matching pattern wins, so more specific patterns come first.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Database Errors (DB001-DB007)
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Reload the page and check for an existing record",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Choose a different value",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Choose a different value",
			Code:    "DB002",
		},
	},
	{
		pattern: "foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Reload the page; the record may have been deleted",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ002)
	// Checked before the generic timeout pattern.
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again later",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
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

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
// Sentinel errors are matched first, then known text patterns. If nothing
// matches, a generic fallback message with code ERR000 is returned.
//
// Example:
//
//	err := fmt.Errorf("census %q: %w", key, ErrCensusNotFound)
//	msg := MapError(err)
//	// msg.Code == "GEN004"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
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

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
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

// NewUserError creates a UserError by mapping a technical error to a
// user-friendly message. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
