package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Code so callers can compare against the sentinel values below.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}

	return e.Code == t.Code
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation            = "VALIDATION_ERROR"
	ErrCodeBadRequest            = "BAD_REQUEST"
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeInternal              = "INTERNAL_ERROR"
	ErrCodeDatabaseError         = "DATABASE_ERROR"
	ErrCodeProductNotFound       = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidCartState      = "INVALID_CART_STATE"
	ErrCodeOrderSubmissionFailed = "ORDER_SUBMISSION_FAILED"
	ErrCodeEmptyCartCheckout     = "EMPTY_CART_CHECKOUT"
	ErrCodeInvalidTransition     = "INVALID_TRANSITION"
	ErrCodeSubmissionInFlight    = "SUBMISSION_IN_FLIGHT"
	ErrCodeCartUnavailable       = "CART_UNAVAILABLE"
)

// Sentinels for errors.Is comparisons.
var (
	ErrProductNotFound       = NewAppError(ErrCodeProductNotFound, "", http.StatusNotFound)
	ErrInvalidCartState      = NewAppError(ErrCodeInvalidCartState, "", http.StatusInternalServerError)
	ErrOrderSubmissionFailed = NewAppError(ErrCodeOrderSubmissionFailed, "", http.StatusBadGateway)
	ErrEmptyCartCheckout     = NewAppError(ErrCodeEmptyCartCheckout, "", http.StatusBadRequest)
	ErrInvalidTransition     = NewAppError(ErrCodeInvalidTransition, "", http.StatusConflict)
	ErrSubmissionInFlight    = NewAppError(ErrCodeSubmissionInFlight, "", http.StatusConflict)
	ErrCartUnavailable       = NewAppError(ErrCodeCartUnavailable, "", http.StatusServiceUnavailable)
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func DatabaseError(message string) *AppError {
	return NewAppError(ErrCodeDatabaseError, message, http.StatusInternalServerError)
}

func ProductNotFoundError(code string) *AppError {
	return NewAppError(ErrCodeProductNotFound, fmt.Sprintf("No product matches code '%s'", code), http.StatusNotFound)
}

func InvalidCartStateError(message string) *AppError {
	return NewAppError(ErrCodeInvalidCartState, message, http.StatusInternalServerError)
}

func OrderSubmissionFailedError(message string) *AppError {
	return NewAppError(ErrCodeOrderSubmissionFailed, message, http.StatusBadGateway)
}

func EmptyCartCheckoutError() *AppError {
	return NewAppError(ErrCodeEmptyCartCheckout, "Cannot checkout an empty cart", http.StatusBadRequest)
}

func InvalidTransitionError(from, action string) *AppError {
	return NewAppError(ErrCodeInvalidTransition, fmt.Sprintf("Cannot %s while checkout is %s", action, from), http.StatusConflict)
}

func SubmissionInFlightError() *AppError {
	return NewAppError(ErrCodeSubmissionInFlight, "An order submission is already in progress", http.StatusConflict)
}

func CartUnavailableError() *AppError {
	return NewAppError(ErrCodeCartUnavailable, "Cart storage is unavailable, try again", http.StatusServiceUnavailable)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// field validation error.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}
