package errors

import (
	"fmt"
	"net/http"
)

// AppError is the standard shape for errors surfaced over HTTP.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"` // not serialized, drives the response status
	Err        error  `json:"-"` // original cause, for logs only
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the original cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail returns a COPY of the error with extra detail, so the base
// variables are never mutated.
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause returns a COPY of the error carrying the original cause.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// FromError converts any error into an *AppError, defaulting to a generic
// internal error that keeps the original as cause.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// =================================================================================
// PREDEFINED ERRORS
// =================================================================================

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "The request is missing required input.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "The request body is not valid JSON.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrInvalidState covers a state token that is missing, malformed, or
	// failing its integrity check. One message for all three on purpose:
	// the response must not reveal which verification step failed.
	ErrInvalidState = &AppError{
		Code:       "INVALID_STATE",
		Message:    "Invalid state.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrTokenExchangeFailed = &AppError{
		Code:       "TOKEN_EXCHANGE_FAILED",
		Message:    "The provider rejected the authorization code.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrClientNotFound = &AppError{
		Code:       "CLIENT_NOT_FOUND",
		Message:    "Client not found for this phone number.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "The HTTP method is not allowed for this resource.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}

	ErrSinkUnconfigured = &AppError{
		Code:       "SINK_UNCONFIGURED",
		Message:    "Downstream webhook is not configured.",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrSinkUnreachable = &AppError{
		Code:       "SINK_UNREACHABLE",
		Message:    "Failed to reach the downstream webhook.",
		HTTPStatus: http.StatusBadGateway,
	}

	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "An internal error occurred.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
