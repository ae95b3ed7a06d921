package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain core. Callers match with errors.Is.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidRate       = fmt.Errorf("%w: exchange rate must be positive", ErrInvalidArgument)
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrInvalidArgument)
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrConcurrentUpdate  = errors.New("concurrent update detected")
	ErrDuplicateOrder    = errors.New("duplicate order number")
	ErrDuplicateSKU      = errors.New("duplicate sku")
	ErrForbidden         = errors.New("forbidden")
)

// TransitionError is returned when a lifecycle operation is called from a
// status that does not allow it. Error() names the current status.
type TransitionError struct {
	Action string
	From   OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("Cannot %s order in %s status", e.Action, e.From)
}

// Is lets errors.Is(err, ErrIllegalTransition) match any TransitionError.
func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// InvalidInputError carries the full validation result when a constructor
// rejects its input.
type InvalidInputError struct {
	Result ValidationResult
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Result.Errors)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidArgument }

// invalidArg wraps ErrInvalidArgument with a precondition description.
func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
