package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "transition error keeps its wording",
			err:         &TransitionError{Action: "ship", From: StatusDone},
			wantCode:    "ORD001",
			wantMessage: "Cannot ship order in DONE status",
		},
		{
			name:        "wrapped transition error",
			err:         fmt.Errorf("ship order ORD-250101-001: %w", &TransitionError{Action: "refund", From: StatusPaid}),
			wantCode:    "ORD001",
			wantMessage: "Cannot refund order in PAID status",
		},
		{
			name:        "order not found",
			err:         fmt.Errorf("get: %w", ErrOrderNotFound),
			wantCode:    "ORD002",
			wantMessage: "Order not found",
		},
		{
			name:        "concurrent update",
			err:         ErrConcurrentUpdate,
			wantCode:    "ORD003",
			wantMessage: "This record was changed by someone else",
		},
		{
			name:        "insufficient stock wins over invalid argument",
			err:         insufficientStock(3, -5),
			wantCode:    "INV001",
			wantMessage: "Not enough stock on hand",
		},
		{
			name:        "invalid rate",
			err:         ErrInvalidRate,
			wantCode:    "FX001",
			wantMessage: "Exchange rate must be greater than 0",
		},
		{
			name:        "validation errors are joined",
			err:         &InvalidInputError{Result: ValidationResult{Errors: []string{MsgCustomerNameRequired, MsgInvalidPCCC}}},
			wantCode:    "VAL001",
			wantMessage: "Customer name is required; Invalid PCCC format",
		},
		{
			name:        "plain invalid argument drops the prefix",
			err:         invalidArg("unsupported currency %q", "EUR"),
			wantCode:    "ARG001",
			wantMessage: `unsupported currency "EUR"`,
		},
		{
			name:        "forbidden",
			err:         ErrForbidden,
			wantCode:    "AUTH001",
			wantMessage: "You do not have permission for this action",
		},
		{
			name:        "connection refused maps correctly",
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    "DB002",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "context deadline",
			err:         fmt.Errorf("query: %w", context.DeadlineExceeded),
			wantCode:    "REQ002",
			wantMessage: "Request timed out",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("DUPLICATE KEY value violates"),
			wantCode:    "DB001",
			wantMessage: "A record with this key already exists",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrOrderNotFound)
	want := "Order not found (Code: ORD002). Check the order number"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrForbidden, true},
		{errors.New("connection reset by peer"), true},
		{errors.New("boom"), false},
	}
	for _, tt := range tests {
		if got := IsUserFacing(tt.err); got != tt.want {
			t.Errorf("IsUserFacing(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
