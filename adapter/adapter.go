package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/apiadapter/authorizer"
	apperrors "github.com/kbukum/apiadapter/errors"
	"github.com/kbukum/apiadapter/httpclient"
	"github.com/kbukum/apiadapter/logger"
	"github.com/kbukum/apiadapter/observability"
	"github.com/kbukum/apiadapter/session"
)

// Session is the host authentication system the adapter reads credentials
// from and notifies on authorization failures.
type Session interface {
	Data() session.Data
	IsAuthenticated() bool
	Invalidate(ctx context.Context) bool
}

// Transport performs the network exchange for a built request.
type Transport interface {
	Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error)
}

var (
	_ Session   = (*session.Session)(nil)
	_ Transport = (*httpclient.Client)(nil)
)

// ResourceAdapter builds resource URLs, authorizes requests and reacts to
// authorization failures. It holds no mutable state and is safe for
// concurrent use.
type ResourceAdapter struct {
	cfg        Config
	authorizer authorizer.Authorizer
	session    Session
	transport  Transport

	log        *logger.Logger
	metrics    *observability.Metrics
	tracer     trace.Tracer
	requestIDs bool
}

// Option configures a ResourceAdapter.
type Option func(*ResourceAdapter)

// WithLogger sets the logger, used as given apart from an authorizer
// field. Defaults to a no-op logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *ResourceAdapter) { a.log = l }
}

// WithMetrics records request, failure and invalidation metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *ResourceAdapter) { a.metrics = m }
}

// WithTracer sets the tracer. Defaults to the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(a *ResourceAdapter) { a.tracer = t }
}

// WithRequestIDs controls whether requests get an X-Request-Id header.
// Enabled by default.
func WithRequestIDs(enabled bool) Option {
	return func(a *ResourceAdapter) { a.requestIDs = enabled }
}

// New validates cfg and resolves its authorizer from reg. Every problem is
// reported as a configuration error before any request is made.
func New(cfg Config, reg *authorizer.Registry, sess Session, transport Transport, opts ...Option) (*ResourceAdapter, error) {
	cfg = cfg.clone()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch {
	case reg == nil:
		return nil, apperrors.Configuration("authorizer", "registry is required")
	case sess == nil:
		return nil, apperrors.Configuration("session", "is required")
	case transport == nil:
		return nil, apperrors.Configuration("transport", "is required")
	}

	authz, err := reg.Resolve(cfg.Authorizer)
	if err != nil {
		return nil, err
	}

	a := &ResourceAdapter{
		cfg:        cfg,
		authorizer: authz,
		session:    sess,
		transport:  transport,
		log:        logger.Nop(),
		requestIDs: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.Nop()
	}
	a.log = a.log.WithFields(logger.Fields(logger.FieldAuthorizer, cfg.Authorizer))
	return a, nil
}

// Config returns a copy of the adapter configuration.
func (a *ResourceAdapter) Config() Config {
	return a.cfg.clone()
}

// BuildURL returns "{host}/{namespace}/{resourceType}" with "/{id}" appended
// when a non-empty id is given. The type and id are path-escaped; the
// namespace is used as configured.
func (a *ResourceAdapter) BuildURL(resourceType string, id ...string) (string, error) {
	switch {
	case a.cfg.Host == "":
		return "", apperrors.Configuration("host", "is required")
	case a.cfg.Namespace == "":
		return "", apperrors.Configuration("namespace", "is required")
	case resourceType == "":
		return "", apperrors.Configuration("resource_type", "is required")
	case len(id) > 1:
		return "", apperrors.Configuration("id", "accepts a single value")
	case isDotSegment(resourceType):
		return "", apperrors.Configuration("resource_type", "must not be a dot segment")
	case len(id) == 1 && isDotSegment(id[0]):
		return "", apperrors.Configuration("id", "must not be a dot segment")
	}

	var b strings.Builder
	b.WriteString(a.cfg.Host)
	b.WriteByte('/')
	b.WriteString(a.cfg.Namespace)
	b.WriteByte('/')
	b.WriteString(url.PathEscape(resourceType))
	if len(id) == 1 && id[0] != "" {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(id[0]))
	}
	return b.String(), nil
}

// AuthorizeRequest adds the authorizer's headers for the current session
// to req, replacing headers of the same name. If the authorizer declares
// the credential invalid the session is invalidated once and an
// authorization failure is returned.
func (a *ResourceAdapter) AuthorizeRequest(ctx context.Context, req *httpclient.Request) error {
	headers, err := a.authorizer.Authorize(ctx, a.session.Data())
	if err != nil {
		if errors.Is(err, authorizer.ErrCredentialInvalid) {
			a.log.Warn("credential rejected by authorizer", logger.Fields(logger.FieldError, err.Error()))
			a.metrics.RecordAuthorizationFailure(ctx, 0)
			a.invalidate(ctx)
			return apperrors.InvalidCredential(a.cfg.Authorizer, err)
		}
		return fmt.Errorf("authorize request: %w", err)
	}

	for name, value := range headers {
		setHeader(req, name, value)
	}
	return nil
}

// HandleResponse notifies the session when status is an authorization
// failure. The session is invalidated only if it is still authenticated;
// the failure is returned either way. Other statuses return nil.
func (a *ResourceAdapter) HandleResponse(ctx context.Context, status int) error {
	if err := a.handleResponse(ctx, status); err != nil {
		return err
	}
	return nil
}

func (a *ResourceAdapter) handleResponse(ctx context.Context, status int) *apperrors.AppError {
	if !a.authorizer.IsAuthorizationFailure(status) {
		return nil
	}
	a.log.Warn("authorization failure", logger.Fields(logger.FieldStatus, status))
	a.metrics.RecordAuthorizationFailure(ctx, status)
	if a.session.IsAuthenticated() {
		a.invalidate(ctx)
	}
	return apperrors.AuthorizationFailure(status)
}

func (a *ResourceAdapter) invalidate(ctx context.Context) {
	if a.session.Invalidate(ctx) {
		a.metrics.RecordInvalidation(ctx)
		a.log.Info("session invalidation requested")
	}
}

// isDotSegment reports whether s would be resolved away as "." or ".."
// once the URL path is normalized. PathEscape leaves dots untouched.
func isDotSegment(s string) bool {
	return s == "." || s == ".."
}

// setHeader sets name on req, dropping any existing header that differs
// only in case.
func setHeader(req *httpclient.Request, name, value string) {
	for existing := range req.Headers {
		if existing != name && strings.EqualFold(existing, name) {
			delete(req.Headers, existing)
		}
	}
	req.SetHeader(name, value)
}
