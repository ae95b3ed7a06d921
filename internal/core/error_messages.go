package core

// error_messages.go maps errors to user-facing messages with codes that
// support staff can look up.
//
// # Domain errors (matched with errors.Is / errors.As)
//
//	ORD001 - Illegal status transition ("Cannot ship order in DONE status")
//	ORD002 - Order not found
//	ORD003 - Order was changed by someone else
//	ORD004 - Order number already taken
//	INV001 - Insufficient stock
//	INV002 - Product not found
//	SKU001 - SKU already taken
//	VAL001 - Input failed validation (see the error list)
//	FX001  - Exchange rate must be positive
//	ARG001 - Other invalid argument
//	AUTH001 - Caller lacks the required role
//
// # Infrastructure errors (matched by message pattern, case-insensitive)
//
//	DB001-DB005 - duplicate key, connection refused/reset, timeout, deadlock
//	REQ001-REQ002 - request cancelled / timed out
//	RATE001 - rate limited
//
// # Default (ERR000)
//
// Anything else. Check the application log for the original error.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// errorPattern defines a substring to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are tried in order after the domain checks in MapError.
// More specific patterns come first.
var errorPatterns = []errorPattern{
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this key already exists",
			Action:  "Refresh and try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB003",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
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
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB004",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-facing message. Domain errors are
// recognised by identity; anything else falls back to the pattern table and
// finally to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var te *TransitionError
	var ie *InvalidInputError
	switch {
	case errors.As(err, &te):
		return UserMessage{Message: te.Error(), Action: "Refresh the order to see its current status", Code: "ORD001"}
	case errors.Is(err, ErrOrderNotFound):
		return UserMessage{Message: "Order not found", Action: "Check the order number", Code: "ORD002"}
	case errors.Is(err, ErrConcurrentUpdate):
		return UserMessage{Message: "This record was changed by someone else", Action: "Reload and try again", Code: "ORD003"}
	case errors.Is(err, ErrDuplicateOrder):
		return UserMessage{Message: "Could not allocate an order number", Action: "Please try again", Code: "ORD004"}
	case errors.Is(err, ErrInsufficientStock):
		return UserMessage{Message: "Not enough stock on hand", Action: "Lower the quantity or restock first", Code: "INV001"}
	case errors.Is(err, ErrDuplicateSKU):
		return UserMessage{Message: "Could not allocate a unique SKU", Action: "Please try again", Code: "SKU001"}
	case errors.Is(err, ErrProductNotFound):
		return UserMessage{Message: "Product not found", Action: "Check the SKU", Code: "INV002"}
	case errors.As(err, &ie):
		return UserMessage{Message: strings.Join(ie.Result.Errors, "; "), Action: "Correct the highlighted fields", Code: "VAL001"}
	case errors.Is(err, ErrInvalidRate):
		return UserMessage{Message: "Exchange rate must be greater than 0", Action: "Enter a positive rate", Code: "FX001"}
	case errors.Is(err, ErrInvalidArgument):
		return UserMessage{Message: strings.TrimPrefix(err.Error(), ErrInvalidArgument.Error()+": "), Action: "Check the submitted values", Code: "ARG001"}
	case errors.Is(err, ErrForbidden):
		return UserMessage{Message: "You do not have permission for this action", Action: "Ask an administrator", Code: "AUTH001"}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
