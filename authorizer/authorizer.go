package authorizer

import (
	"context"
	"errors"

	"github.com/kbukum/apiadapter/session"
)

// ErrCredentialInvalid is returned (wrapped) by Authorize when the session
// credential must not be sent and the session should be torn down.
var ErrCredentialInvalid = errors.New("authorizer: credential invalid")

// HeaderAuthorization is the header carrying the credential.
const HeaderAuthorization = "Authorization"

// Authorizer supplies credential headers and recognizes authorization
// failures.
type Authorizer interface {
	// Authorize returns the headers to add to a request for the given session
	// data. An empty result means there is nothing to add.
	Authorize(ctx context.Context, data session.Data) (map[string]string, error)

	// IsAuthorizationFailure reports whether a response status means the
	// credential was rejected.
	IsAuthorizationFailure(statusCode int) bool
}

// Func adapts a function to the Authorizer interface, with failures decided
// by the embedded Policy.
type Func struct {
	Policy
	Fn func(ctx context.Context, data session.Data) (map[string]string, error)
}

// Authorize implements Authorizer.
func (f Func) Authorize(ctx context.Context, data session.Data) (map[string]string, error) {
	if f.Fn == nil {
		return nil, nil
	}
	return f.Fn(ctx, data)
}

// Static returns an Authorizer that always supplies the same headers,
// regardless of session state. Useful for API keys.
func Static(policy Policy, headers map[string]string) Func {
	return Func{
		Policy: policy,
		Fn: func(context.Context, session.Data) (map[string]string, error) {
			out := make(map[string]string, len(headers))
			for k, v := range headers {
				out[k] = v
			}
			return out, nil
		},
	}
}
