// Package errors provides the structured error type shared by the adapter,
// its authorizers and the configuration loader.
//
// Every failure the adapter surfaces falls into one of three kinds:
//
//   - CONFIGURATION_ERROR: missing or malformed host/namespace/authorizer.
//     Fatal at startup.
//   - AUTHORIZATION_FAILURE: the remote API (or the authorizer) rejected the
//     credential. The session is invalidated if it was still authenticated.
//   - TRANSPORT_ERROR: network or timeout failures reported by the transport.
//     The adapter returns the transport's error unchanged; IsTransport
//     recognizes it through its IsNetwork method.
//
// Use the predicates (IsConfiguration, IsAuthorizationFailure, IsTransport)
// rather than comparing messages.
package errors
