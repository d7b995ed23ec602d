package authorizer

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kbukum/apiadapter/errors"
)

// Well-known authorizer identifiers.
const (
	NameApplication = "authorizer:application"
	NameOAuth2      = "authorizer:oauth2"
	NameJWT         = "authorizer:jwt"
	NameDevise      = "authorizer:devise"
)

// Registry is a thread-safe registry of named Authorizer instances.
//
// Usage:
//
//	reg := authorizer.NewRegistry()
//	reg.Register(authorizer.NameApplication, authorizer.Bearer(authorizer.DefaultPolicy()))
//	a, err := reg.Resolve(authorizer.NameApplication)
type Registry struct {
	mu          sync.RWMutex
	authorizers map[string]Authorizer
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		authorizers: make(map[string]Authorizer),
	}
}

// DefaultOptions tunes the authorizers created by NewDefaultRegistry.
type DefaultOptions struct {
	// JWTLeeway is the exp tolerance of the JWT authorizer.
	JWTLeeway time.Duration
}

// NewDefaultRegistry registers the built-in authorizers under their
// well-known names, all sharing the given policy. The application
// authorizer is a Bearer authorizer.
func NewDefaultRegistry(policy Policy, opts ...DefaultOptions) *Registry {
	var o DefaultOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	r := NewRegistry()
	r.Register(NameApplication, Bearer(policy))
	r.Register(NameOAuth2, Bearer(policy))
	r.Register(NameJWT, JWT(policy, WithLeeway(o.JWTLeeway)))
	r.Register(NameDevise, Devise(policy))
	return r
}

// Register adds or replaces a named Authorizer.
func (r *Registry) Register(name string, a Authorizer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authorizers[name] = a
}

// Get returns the Authorizer registered under the given name.
func (r *Registry) Get(name string) (Authorizer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.authorizers[name]
	return a, ok
}

// MustGet returns the Authorizer registered under the given name.
// Panics if the name is not registered.
func (r *Registry) MustGet(name string) Authorizer {
	a, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("authorizer: %q not registered", name))
	}
	return a
}

// Resolve returns the Authorizer registered under name, or an
// UNKNOWN_AUTHORIZER configuration error listing the registered names.
func (r *Registry) Resolve(name string) (Authorizer, error) {
	if name == "" {
		return nil, errors.Configuration("authorizer", "is required")
	}
	a, ok := r.Get(name)
	if !ok {
		return nil, errors.UnknownAuthorizer(name).WithDetail("registered", r.Names())
	}
	return a, nil
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.authorizers))
	for name := range r.authorizers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
