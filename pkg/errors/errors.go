package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"net/http"
)

const (
	CodeNotFound             = "NOT_FOUND"
	CodeValidation           = "VALIDATION_ERROR"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeConflict             = "CONFLICT"
	CodeIllegalTransition    = "ILLEGAL_TRANSITION"
	CodeInternal             = "INTERNAL_ERROR"
	CodeBadRequest           = "BAD_REQUEST"
	CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	CodeTimeout              = "TIMEOUT"
	CodeUnavailable          = "SERVICE_UNAVAILABLE"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeTooManyRequests      = "TOO_MANY_REQUESTS"
)

var statusByCode = map[string]int{
	CodeNotFound:             http.StatusNotFound,
	CodeValidation:           http.StatusUnprocessableEntity,
	CodeUnauthorized:         http.StatusUnauthorized,
	CodeForbidden:            http.StatusForbidden,
	CodeConflict:             http.StatusConflict,
	CodeIllegalTransition:    http.StatusConflict,
	CodeInternal:             http.StatusInternalServerError,
	CodeBadRequest:           http.StatusBadRequest,
	CodeUnsupportedMediaType: http.StatusUnsupportedMediaType,
	CodeTimeout:              http.StatusGatewayTimeout,
	CodeUnavailable:          http.StatusServiceUnavailable,
	CodeInvalidInput:         http.StatusBadRequest,
	CodeTooManyRequests:      http.StatusTooManyRequests,
}

// AppError is the error type every layer above the repositories returns.
// Its Code is stable API surface; Message is for humans.
type AppError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError with the same code, so callers can write
// errors.Is(err, apperrors.Conflict("")).
func (e *AppError) Is(target error) bool {
	var other *AppError
	return stderrors.As(target, &other) && other.Code == e.Code
}

// StatusCode maps the code to an HTTP status; unknown codes are 500.
func (e *AppError) StatusCode() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WithDetails merges details into the error, overwriting existing keys.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if len(details) == 0 {
		return e
	}
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	maps.Copy(e.Details, details)
	return e
}

func (e *AppError) WithDetail(key string, value any) *AppError {
	return e.WithDetails(map[string]any{key: value})
}

func newError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code, message string) *AppError {
	appErr := newError(code, message)
	appErr.Err = err
	return appErr
}

func NotFound(resource string) *AppError {
	return newError(CodeNotFound, resource+" not found")
}

func NotFoundWithID(resource, id string) *AppError {
	return NotFound(resource).WithDetails(map[string]any{"resource": resource, "id": id})
}

func Validation(message string, details map[string]any) *AppError {
	return newError(CodeValidation, message).WithDetails(details)
}

func InvalidInput(message string) *AppError {
	return newError(CodeInvalidInput, message)
}

func Unauthorized(message string) *AppError {
	return newError(CodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return newError(CodeForbidden, message)
}

func Conflict(message string) *AppError {
	return newError(CodeConflict, message)
}

func IllegalTransition(from, to string) *AppError {
	return newError(CodeIllegalTransition, fmt.Sprintf("cannot change booking status from %s to %s", from, to)).
		WithDetails(map[string]any{"from": from, "to": to})
}

func UnsupportedMediaType(message string) *AppError {
	return newError(CodeUnsupportedMediaType, message)
}

func Internal(message string, err error) *AppError {
	return Wrap(err, CodeInternal, message)
}

func Timeout(message string) *AppError {
	return newError(CodeTimeout, message)
}

func Unavailable(service string) *AppError {
	return newError(CodeUnavailable, service+" is temporarily unavailable")
}

func TooManyRequests(message string) *AppError {
	return newError(CodeTooManyRequests, message)
}

func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError returns the AppError in err's chain, or wraps err as an internal error.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

func HasCode(err error, code string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}
