package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/user-service/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
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

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewBadRequest(message string) error {
	return NewDomainError("BAD_REQUEST", message, http.StatusBadRequest, nil)
}

func NewTooManyRequests(retryAfterSeconds int) error {
	return NewDomainError("RATE_LIMITED", "too many requests", http.StatusTooManyRequests,
		map[string]any{"retry_after_seconds": retryAfterSeconds})
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts errors raised by the user service to a DomainError.
// Validation, duplicate and gateway failures all answer 500 with the original
// message; the user routes have never distinguished 400 from 500.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return &DomainError{
			Code:       "VALIDATION_FAILED",
			Message:    validationErr.Error(),
			HTTPStatus: http.StatusInternalServerError,
			Details:    map[string]any{"field": validationErr.Field},
			Err:        err,
		}
	}

	var dupErr *domain.DuplicateError
	if errors.As(err, &dupErr) {
		return &DomainError{
			Code:       "DUPLICATE",
			Message:    dupErr.Error(),
			HTTPStatus: http.StatusInternalServerError,
			Details:    map[string]any{"email": dupErr.Email},
			Err:        err,
		}
	}

	var gwErr *domain.GatewayError
	if errors.As(err, &gwErr) {
		return &DomainError{
			Code:       "GATEWAY_ERROR",
			Message:    gwErr.Error(),
			HTTPStatus: http.StatusInternalServerError,
			Err:        err,
		}
	}

	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    err.Error(),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
