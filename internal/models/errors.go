package models

import (
	"errors"
	"net/http"
)

type ErrorKind string

const (
	KindValidation        ErrorKind = "validation_error"
	KindNotFound          ErrorKind = "not_found"
	KindGeneration        ErrorKind = "generation_error"
	KindEvaluation        ErrorKind = "evaluation_error"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindRateLimited       ErrorKind = "rate_limited"
	KindNotCreated        ErrorKind = "not_created"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindForbidden         ErrorKind = "forbidden"
	KindUnavailable       ErrorKind = "service_unavailable"
	KindInternal          ErrorKind = "internal_error"
)

var kindStatus = map[ErrorKind]int{
	KindValidation:        http.StatusBadRequest,
	KindNotFound:          http.StatusNotFound,
	KindGeneration:        http.StatusBadRequest,
	KindEvaluation:        http.StatusBadRequest,
	KindMalformedResponse: http.StatusBadRequest,
	KindRateLimited:       http.StatusTooManyRequests,
	KindNotCreated:        http.StatusInternalServerError,
	KindUnauthorized:      http.StatusUnauthorized,
	KindForbidden:         http.StatusForbidden,
	KindUnavailable:       http.StatusServiceUnavailable,
	KindInternal:          http.StatusInternalServerError,
}

// AppError is a classified failure that handlers turn into the error envelope
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) StatusCode() int {
	if status, ok := kindStatus[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func NewAppError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func ValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// Classify maps any error to an AppError, unknown errors become internal
func Classify(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var errResp *ErrorResponse
	if errors.As(err, &errResp) {
		return &AppError{Kind: KindValidation, Message: errResp.Message, Err: err}
	}
	return &AppError{Kind: KindInternal, Message: "Internal Server Error", Err: err}
}
