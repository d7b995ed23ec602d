// Package session holds the authenticated state of the current user and
// notifies interested parties when it is invalidated.
//
// It plays the part of the host authentication system the adapter reports
// to: the adapter reads Data() to authorize requests and calls Invalidate
// when a response says the credential is no longer accepted. Invalidate is
// idempotent, so several in-flight requests failing at once produce a
// single teardown.
package session
