// Package authorizer provides the credential capability the resource
// adapter consults for every request.
//
// An Authorizer turns the current session data into request headers and
// decides which response statuses mean the credential was rejected. The
// status decision is a Policy: 401 only by default, 401 and 403 with
// StrictPolicy.
//
// Authorizers are registered by identifier in a Registry and resolved once
// when the adapter is built:
//
//	reg := authorizer.NewDefaultRegistry(authorizer.DefaultPolicy())
//	a, err := reg.Resolve(authorizer.NameApplication)
//
// Built-in authorizers:
//   - Bearer: "Authorization: Bearer <access_token>"
//   - JWT: Bearer plus a local expiry check of the token's exp claim
//   - Devise: `Authorization: Token token="...", email="..."`
package authorizer
