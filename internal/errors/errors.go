package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies a qrcraft failure.
type ErrorCode string

const (
	ErrEncodeFailure    ErrorCode = "ENCODE_FAILURE"    // 422
	ErrExportFailure    ErrorCode = "EXPORT_FAILURE"    // 500
	ErrClipboardFailure ErrorCode = "CLIPBOARD_FAILURE" // 500, logged only
	ErrInvalidPlatform  ErrorCode = "INVALID_PLATFORM"  // 400
	ErrInvalidInput     ErrorCode = "INVALID_INPUT"     // 400
)

// QRError is a structured error carrying a code, an HTTP status for the web
// surface, and the underlying cause.
type QRError struct {
	Code    ErrorCode
	Status  int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *QRError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *QRError) Unwrap() error {
	return e.Err
}

// NewEncodeFailure wraps an encoder error.
func NewEncodeFailure(err error) *QRError {
	return &QRError{
		Code:    ErrEncodeFailure,
		Status:  422,
		Message: "failed to generate QR code",
		Err:     err,
	}
}

// NewExportFailure wraps a rasterize or save error.
func NewExportFailure(err error) *QRError {
	return &QRError{
		Code:    ErrExportFailure,
		Status:  500,
		Message: "failed to export QR code",
		Err:     err,
	}
}

// NewClipboardFailure wraps a clipboard write error.
func NewClipboardFailure(err error) *QRError {
	return &QRError{
		Code:    ErrClipboardFailure,
		Status:  500,
		Message: "failed to write clipboard",
		Err:     err,
	}
}

// NewInvalidPlatform reports a share target outside the supported set.
func NewInvalidPlatform(platform string) *QRError {
	return &QRError{
		Code:    ErrInvalidPlatform,
		Status:  400,
		Message: fmt.Sprintf("unknown share platform %q", platform),
	}
}

// NewInvalidInput creates a 400 error for bad request parameters.
func NewInvalidInput(msg string) *QRError {
	return &QRError{
		Code:    ErrInvalidInput,
		Status:  400,
		Message: msg,
	}
}

// Is reports whether err, or any error it wraps, is a QRError with the given code.
func Is(err error, code ErrorCode) bool {
	var qErr *QRError
	if stderrors.As(err, &qErr) {
		return qErr.Code == code
	}
	return false
}

// StatusOf returns the HTTP status for err, 500 when err is not a QRError.
func StatusOf(err error) int {
	var qErr *QRError
	if stderrors.As(err, &qErr) && qErr.Status != 0 {
		return qErr.Status
	}
	return 500
}
