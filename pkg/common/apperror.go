package common

import (
	"errors"
	"net/http"
	"strings"
)

// ErrorCode classifies failures into the single taxonomy every handler reports from.
// Transport and application failures are normalized into the same shape by the
// upstream client, so call sites never branch on how a failure was signaled.
type ErrorCode string

const (
	CodeTransport          ErrorCode = "transport_error"
	CodeApplication        ErrorCode = "application_error"
	CodeProviderCapability ErrorCode = "provider_capability"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeValidation         ErrorCode = "validation_error"
	CodeNotFound           ErrorCode = "not_found"
	CodeConflict           ErrorCode = "conflict"
)

// AppError is the application error carried from services to handlers
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Status  int       `json:"-"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped cause
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError with an explicit code and HTTP status
func NewAppError(code ErrorCode, status int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Status: status, Err: err}
}

// NewTransportError wraps a network-level failure (timeout, connectivity,
// unstructured non-2xx)
func NewTransportError(message string, err error) *AppError {
	return NewAppError(CodeTransport, http.StatusBadGateway, message, err)
}

// NewApplicationError wraps a structured failure reported by the upstream API,
// regardless of whether it arrived as a non-2xx status or a 2xx success:false body
func NewApplicationError(message string, err error) *AppError {
	appErr := NewAppError(CodeApplication, http.StatusUnprocessableEntity, message, err)
	if IsProviderCapabilityGap(message) {
		appErr.Code = CodeProviderCapability
	}
	return appErr
}

// NewValidationError reports a locally rejected request
func NewValidationError(message string, err error) *AppError {
	return NewAppError(CodeValidation, http.StatusBadRequest, message, err)
}

// NewNotFoundError reports a missing resource
func NewNotFoundError(message string) *AppError {
	return NewAppError(CodeNotFound, http.StatusNotFound, message, nil)
}

// NewConflictError reports a state conflict (e.g. action no longer allowed)
func NewConflictError(message string) *AppError {
	return NewAppError(CodeConflict, http.StatusConflict, message, nil)
}

// ErrUnauthorized signals an upstream 401. It is handled globally: the session is
// destroyed and the SPA receives a forced-logout response.
var ErrUnauthorized = NewAppError(CodeUnauthorized, http.StatusUnauthorized, "sessão expirada", nil)

// providerCapabilityMarkers are the substrings that identify a provider capability
// gap ("known limitation, not a bug"). Simple substring classification, not a
// taxonomy.
var providerCapabilityMarkers = []string{
	"not implemented",
	"não implementado",
	"não suportado",
}

// IsProviderCapabilityGap reports whether an error message indicates the payment
// provider does not support the requested operation
func IsProviderCapabilityGap(message string) bool {
	lower := strings.ToLower(message)
	for _, marker := range providerCapabilityMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// AsAppError extracts an AppError from an error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
