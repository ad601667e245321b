package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrInvalidRequest ErrorType = "INVALID_REQUEST"
	ErrInvalidData    ErrorType = "INVALID_SNAPSHOT"
	ErrNotFound       ErrorType = "NOT_FOUND"
	ErrConflict       ErrorType = "CONFLICT"
	ErrReadOnly       ErrorType = "READ_ONLY"
	ErrRateLimited    ErrorType = "RATE_LIMITED"
	ErrSignature      ErrorType = "SIGNATURE_INVALID"
	ErrInternal       ErrorType = "INTERNAL_ERROR"
	ErrUnavailable    ErrorType = "UNAVAILABLE"
)

// AppError is the standard error struct for the application
type AppError struct {
	Type       ErrorType   `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
	HTTPStatus int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errType ErrorType, msg string, cause error) *AppError {
	return &AppError{
		Type:       errType,
		Message:    msg,
		Cause:      cause,
		HTTPStatus: mapTypeToStatus(errType),
		Suggestion: mapTypeToSuggestion(errType),
	}
}

func NewInvalidRequest(msg string) *AppError {
	return New(ErrInvalidRequest, msg, nil)
}

func NewNotFound(msg string) *AppError {
	return New(ErrNotFound, msg, nil)
}

// WithDetails attaches a machine-readable payload, e.g. field violations.
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(ErrInternal, err.Error(), err)
}

func mapTypeToStatus(t ErrorType) int {
	switch t {
	case ErrInvalidRequest, ErrSignature:
		return http.StatusBadRequest
	case ErrInvalidData:
		return http.StatusUnprocessableEntity
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	case ErrReadOnly:
		return http.StatusForbidden
	case ErrRateLimited:
		return http.StatusTooManyRequests
	case ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func mapTypeToSuggestion(t ErrorType) string {
	switch t {
	case ErrInvalidData:
		return "Percentages must be within 0-100, counts non-negative and max leverage positive."
	case ErrRateLimited:
		return "Slow down and retry after a second."
	case ErrReadOnly:
		return "The portal is in read-only mode; retry later."
	case ErrSignature:
		return "Check the attestation fields and signer address."
	default:
		return ""
	}
}
