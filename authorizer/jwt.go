package authorizer

import (
	"context"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/apiadapter/session"
)

// JWTAuthorizer is a BearerAuthorizer for JSON Web Tokens that refuses to
// send tokens whose exp claim has passed. The signature is not checked;
// that is the API's job.
type JWTAuthorizer struct {
	BearerAuthorizer
	// Leeway is added to exp before the token is considered expired.
	Leeway time.Duration

	now    func() time.Time
	parser *gojwt.Parser
}

// JWTOption configures a JWTAuthorizer.
type JWTOption func(*JWTAuthorizer)

// WithLeeway sets the clock skew tolerance for exp.
func WithLeeway(d time.Duration) JWTOption {
	return func(a *JWTAuthorizer) { a.Leeway = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) JWTOption {
	return func(a *JWTAuthorizer) { a.now = now }
}

// WithTokenKey changes the session key holding the token.
func WithTokenKey(key string) JWTOption {
	return func(a *JWTAuthorizer) { a.TokenKey = key }
}

// JWT creates a JWTAuthorizer.
func JWT(policy Policy, opts ...JWTOption) *JWTAuthorizer {
	a := &JWTAuthorizer{
		BearerAuthorizer: BearerAuthorizer{Policy: policy, TokenKey: DefaultTokenKey},
		now:              time.Now,
		parser:           gojwt.NewParser(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authorize implements Authorizer.
func (a *JWTAuthorizer) Authorize(ctx context.Context, data session.Data) (map[string]string, error) {
	token, ok := data.String(a.tokenKey())
	if !ok {
		return map[string]string{}, nil
	}

	claims := gojwt.MapClaims{}
	if _, _, err := a.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: malformed token: %v", ErrCredentialInvalid, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: bad exp claim: %v", ErrCredentialInvalid, err)
	}
	if exp != nil && a.now().After(exp.Add(a.Leeway)) {
		return nil, fmt.Errorf("%w: token expired at %s", ErrCredentialInvalid, exp.UTC().Format(time.RFC3339))
	}

	return a.BearerAuthorizer.Authorize(ctx, data)
}
