package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Startup errors
const (
	// ErrCodeConfiguration indicates a missing or malformed configuration value.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeUnknownAuthorizer indicates an authorizer identifier with no registration.
	ErrCodeUnknownAuthorizer ErrorCode = "UNKNOWN_AUTHORIZER"
)

// Authorization errors
const (
	// ErrCodeAuthorizationFailure indicates the API rejected the request's credential.
	ErrCodeAuthorizationFailure ErrorCode = "AUTHORIZATION_FAILURE"
	// ErrCodeInvalidCredential indicates the authorizer declared the credential unusable
	// before the request was sent.
	ErrCodeInvalidCredential ErrorCode = "INVALID_CREDENTIAL"
)

// Transport errors
const (
	// ErrCodeTransport indicates a network-level failure.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
	// ErrCodeTimeout indicates the exchange timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTransport: true,
	ErrCodeTimeout:   true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// authorizationCodes groups the codes reported as an authorization failure.
var authorizationCodes = map[ErrorCode]bool{
	ErrCodeAuthorizationFailure: true,
	ErrCodeInvalidCredential:    true,
}

// configurationCodes groups the codes reported as a configuration error.
var configurationCodes = map[ErrorCode]bool{
	ErrCodeConfiguration:     true,
	ErrCodeUnknownAuthorizer: true,
}
