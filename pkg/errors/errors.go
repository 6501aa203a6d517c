package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed console error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors covering the console failure taxonomy.
var (
	// ErrInvalidCredentials: the backend rejected the login payload.
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "usuario o contraseña incorrectos")
	// ErrSessionExpired: an authenticated backend call answered 401/403.
	// Handlers react by clearing the session and redirecting to login.
	ErrSessionExpired = New("SESSION_EXPIRED", http.StatusUnauthorized, "la sesión ha expirado")
	// ErrBackendUnavailable: the backend could not be reached at all.
	ErrBackendUnavailable = New("BACKEND_UNAVAILABLE", http.StatusBadGateway, "no se pudo contactar al servidor")
	// ErrBackendFailed: the backend answered with a non-auth failure.
	ErrBackendFailed = New("BACKEND_FAILED", http.StatusBadGateway, "el servidor respondió con un error")
	// ErrImportRejected: the spreadsheet upload was refused locally or by the backend.
	ErrImportRejected = New("IMPORT_REJECTED", http.StatusUnprocessableEntity, "no se pudo importar el archivo")
	ErrNotFound       = New("NOT_FOUND", http.StatusNotFound, "recurso no encontrado")
	ErrValidation     = New("VALIDATION_ERROR", http.StatusBadRequest, "datos inválidos")
	ErrInternal       = New("INTERNAL_ERROR", http.StatusInternalServerError, "error interno")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// IsCode reports whether err carries the given console error code.
func IsCode(err error, code string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
