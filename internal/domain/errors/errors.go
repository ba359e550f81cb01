package errors

import (
	"errors"
	"fmt"
)

var (
	// Transaction errors
	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")
	ErrMissingRequiredField     = errors.New("missing required field")
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrInvalidOperation         = errors.New("invalid operation")

	// Backend errors
	ErrBackendCallFailed    = errors.New("backend call failed")
	ErrUnclassifiedResponse = errors.New("unclassified backend response")

	// Order errors
	ErrOrderNotFound = errors.New("order not found")

	// Configuration errors
	ErrMethodSettingsNotFound = errors.New("payment method settings not found")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidInput     = errors.New("invalid input")
)

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Kind returns a short machine-readable label for err. Swallowed failures are
// logged with this label so operators can tell the failure class apart without
// parsing message text.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedPaymentMethod):
		return "unsupported_payment_method"
	case errors.Is(err, ErrMissingRequiredField):
		return "missing_required_field"
	case errors.Is(err, ErrTransactionNotFound):
		return "transaction_not_found"
	case errors.Is(err, ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, ErrBackendCallFailed):
		return "backend_call_failed"
	case errors.Is(err, ErrUnclassifiedResponse):
		return "unclassified_response"
	case errors.Is(err, ErrOrderNotFound):
		return "order_not_found"
	case errors.Is(err, ErrMethodSettingsNotFound):
		return "method_settings_not_found"
	default:
		return "internal"
	}
}
