package authorizer

import (
	"context"
	"fmt"

	"github.com/kbukum/apiadapter/session"
)

// DeviseAuthorizer sends Rails Devise token credentials.
type DeviseAuthorizer struct {
	Policy
	TokenKey          string
	IdentificationKey string
}

// Devise creates a DeviseAuthorizer reading the "token" and "email" keys.
func Devise(policy Policy) *DeviseAuthorizer {
	return &DeviseAuthorizer{Policy: policy, TokenKey: "token", IdentificationKey: "email"}
}

// Authorize implements Authorizer. Both token and identification must be
// present, otherwise no header is added.
func (d *DeviseAuthorizer) Authorize(_ context.Context, data session.Data) (map[string]string, error) {
	token, ok := data.String(d.TokenKey)
	if !ok {
		return map[string]string{}, nil
	}
	ident, ok := data.String(d.IdentificationKey)
	if !ok {
		return map[string]string{}, nil
	}
	value := fmt.Sprintf(`Token %s="%s", %s="%s"`, d.TokenKey, token, d.IdentificationKey, ident)
	return map[string]string{HeaderAuthorization: value}, nil
}
