package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status code that produced this error, if any.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// Configuration reports a missing or malformed configuration value.
func Configuration(field, reason string) *AppError {
	return New(ErrCodeConfiguration, fmt.Sprintf("%s %s", field, reason), 0).
		WithDetail("field", field)
}

// UnknownAuthorizer reports an authorizer identifier that was never registered.
func UnknownAuthorizer(name string) *AppError {
	return New(ErrCodeUnknownAuthorizer, fmt.Sprintf("authorizer %q is not registered", name), 0).
		WithDetail("authorizer", name)
}

// AuthorizationFailure reports a response the authorizer classified as a
// credential rejection. Whether the session was invalidated is up to the
// caller.
func AuthorizationFailure(status int) *AppError {
	return New(ErrCodeAuthorizationFailure, fmt.Sprintf("request rejected with HTTP %d", status), status).
		WithDetail("status", status)
}

// InvalidCredential reports a credential the authorizer refused to send.
func InvalidCredential(authorizer string, cause error) *AppError {
	return New(ErrCodeInvalidCredential, "credential rejected by authorizer", http.StatusUnauthorized).
		WithDetail("authorizer", authorizer).
		WithCause(cause)
}

// Transport wraps a network-level failure.
func Transport(cause error) *AppError {
	return New(ErrCodeTransport, "request could not be completed", 0).WithCause(cause)
}

// Timeout wraps a transport failure caused by a deadline.
func Timeout(cause error) *AppError {
	return New(ErrCodeTimeout, "request timed out", http.StatusGatewayTimeout).WithCause(cause)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	return configurationCodes[CodeOf(err)]
}

// IsAuthorizationFailure reports whether err is an authorization failure.
func IsAuthorizationFailure(err error) bool {
	return authorizationCodes[CodeOf(err)]
}

// networkError is implemented by transport errors that know whether they
// come from the network rather than from an HTTP status.
type networkError interface {
	IsNetwork() bool
}

// IsTransport reports whether err is a transport error: a TRANSPORT_ERROR or
// TIMEOUT AppError, or any error in the chain whose IsNetwork reports true,
// such as the transport's own error type.
func IsTransport(err error) bool {
	code := CodeOf(err)
	if code == ErrCodeTransport || code == ErrCodeTimeout {
		return true
	}
	var ne networkError
	return stderrors.As(err, &ne) && ne.IsNetwork()
}
