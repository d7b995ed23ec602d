package authorizer

import (
	"context"

	"github.com/kbukum/apiadapter/session"
)

// DefaultTokenKey is the session data key holding an OAuth2 access token.
const DefaultTokenKey = "access_token"

// BearerAuthorizer sends the session's access token as a Bearer credential.
type BearerAuthorizer struct {
	Policy
	// TokenKey is the session data key holding the token.
	TokenKey string
}

// Bearer creates a BearerAuthorizer reading DefaultTokenKey.
func Bearer(policy Policy) *BearerAuthorizer {
	return &BearerAuthorizer{Policy: policy, TokenKey: DefaultTokenKey}
}

// Authorize implements Authorizer. Sessions without a token get no headers.
func (b *BearerAuthorizer) Authorize(_ context.Context, data session.Data) (map[string]string, error) {
	token, ok := data.String(b.tokenKey())
	if !ok {
		return map[string]string{}, nil
	}
	return map[string]string{HeaderAuthorization: "Bearer " + token}, nil
}

func (b *BearerAuthorizer) tokenKey() string {
	if b.TokenKey == "" {
		return DefaultTokenKey
	}
	return b.TokenKey
}
