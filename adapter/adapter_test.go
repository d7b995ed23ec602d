package adapter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/kbukum/apiadapter/authorizer"
	apperrors "github.com/kbukum/apiadapter/errors"
	"github.com/kbukum/apiadapter/httpclient"
	"github.com/kbukum/apiadapter/session"
)

type nopTransport struct{}

func (nopTransport) Do(context.Context, httpclient.Request) (*httpclient.Response, error) {
	return &httpclient.Response{StatusCode: 200}, nil
}

func authenticated(data session.Data) *session.Session {
	s := session.New(nil)
	s.Authenticate(data)
	return s
}

func newTestAdapter(t *testing.T, cfg Config, authz authorizer.Authorizer, sess Session) *ResourceAdapter {
	t.Helper()
	reg := authorizer.NewRegistry()
	reg.Register(authorizer.NameApplication, authz)
	a, err := New(cfg, reg, sess, nopTransport{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func defaultConfig() Config {
	return Config{Host: "https://api.example.com", Namespace: "v1"}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		typ       string
		id        []string
		want      string
	}{
		{"collection", "v1", "widgets", nil, "https://api.example.com/v1/widgets"},
		{"record", "v1", "widgets", []string{"42"}, "https://api.example.com/v1/widgets/42"},
		{"users", "v1", "users", []string{"7"}, "https://api.example.com/v1/users/7"},
		{"empty id", "v1", "users", []string{""}, "https://api.example.com/v1/users"},
		{"nested namespace", "api/v1", "users", nil, "https://api.example.com/api/v1/users"},
		{"escaped type", "v1", "blog posts", nil, "https://api.example.com/v1/blog%20posts"},
		{"escaped id", "v1", "files", []string{"a/b"}, "https://api.example.com/v1/files/a%2Fb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Namespace = tt.namespace
			a := newTestAdapter(t, cfg, authorizer.Bearer(authorizer.DefaultPolicy()), session.New(nil))

			got, err := a.BuildURL(tt.typ, tt.id...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildURL_Invalid(t *testing.T) {
	a := newTestAdapter(t, defaultConfig(), authorizer.Bearer(authorizer.DefaultPolicy()), session.New(nil))

	if _, err := a.BuildURL(""); !apperrors.IsConfiguration(err) {
		t.Errorf("empty type: expected configuration error, got %v", err)
	}
	if _, err := a.BuildURL("users", "1", "2"); !apperrors.IsConfiguration(err) {
		t.Errorf("two ids: expected configuration error, got %v", err)
	}
	for _, seg := range []string{".", ".."} {
		if _, err := a.BuildURL(seg); !apperrors.IsConfiguration(err) {
			t.Errorf("type %q: expected configuration error, got %v", seg, err)
		}
		if _, err := a.BuildURL("users", seg); !apperrors.IsConfiguration(err) {
			t.Errorf("id %q: expected configuration error, got %v", seg, err)
		}
	}
	if got, err := a.BuildURL("users", "..."); err != nil || got != "https://api.example.com/v1/users/..." {
		t.Errorf("three dots are a plain id, got %q, %v", got, err)
	}

	zero := &ResourceAdapter{}
	if _, err := zero.BuildURL("users"); !apperrors.IsConfiguration(err) {
		t.Errorf("empty host: expected configuration error, got %v", err)
	}
	zero.cfg.Host = "https://api.example.com"
	if _, err := zero.BuildURL("users"); !apperrors.IsConfiguration(err) {
		t.Errorf("empty namespace: expected configuration error, got %v", err)
	}
}

func TestNew_ConfigurationErrors(t *testing.T) {
	reg := authorizer.NewDefaultRegistry(authorizer.DefaultPolicy())
	sess := session.New(nil)

	tests := []struct {
		name      string
		cfg       Config
		reg       *authorizer.Registry
		sess      Session
		transport Transport
		field     string
	}{
		{"empty host", Config{Namespace: "v1"}, reg, sess, nopTransport{}, "host"},
		{"empty namespace", Config{Host: "https://api.example.com"}, reg, sess, nopTransport{}, "namespace"},
		{"host with trailing slash", Config{Host: "https://api.example.com/", Namespace: "v1"}, reg, sess, nopTransport{}, "host"},
		{"host with path", Config{Host: "https://api.example.com/api", Namespace: "v1"}, reg, sess, nopTransport{}, "host"},
		{"namespace with leading slash", Config{Host: "https://api.example.com", Namespace: "/v1"}, reg, sess, nopTransport{}, "namespace"},
		{"namespace with trailing slash", Config{Host: "https://api.example.com", Namespace: "v1/"}, reg, sess, nopTransport{}, "namespace"},
		{"nil registry", defaultConfig(), nil, sess, nopTransport{}, "authorizer"},
		{"nil session", defaultConfig(), reg, nil, nopTransport{}, "session"},
		{"nil transport", defaultConfig(), reg, sess, nil, "transport"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, tt.reg, tt.sess, tt.transport)
			if !apperrors.IsConfiguration(err) {
				t.Fatalf("expected configuration error, got %v", err)
			}
			appErr, _ := apperrors.AsAppError(err)
			if appErr.Details["field"] != tt.field {
				t.Errorf("field = %v, want %s", appErr.Details["field"], tt.field)
			}
		})
	}
}

func TestNew_UnknownAuthorizer(t *testing.T) {
	cfg := defaultConfig()
	cfg.Authorizer = "authorizer:missing"
	_, err := New(cfg, authorizer.NewDefaultRegistry(authorizer.DefaultPolicy()), session.New(nil), nopTransport{})
	if !apperrors.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if apperrors.CodeOf(err) != apperrors.ErrCodeUnknownAuthorizer {
		t.Errorf("code = %s", apperrors.CodeOf(err))
	}
}

func TestNew_DefaultAuthorizer(t *testing.T) {
	a, err := New(defaultConfig(), authorizer.NewDefaultRegistry(authorizer.DefaultPolicy()), session.New(nil), nopTransport{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := a.Config().Authorizer; got != "authorizer:application" {
		t.Errorf("authorizer = %q", got)
	}
}

func TestNew_ConfigIsCopied(t *testing.T) {
	cfg := defaultConfig()
	cfg.Headers = map[string]string{"X-Tenant": "a"}
	a := newTestAdapter(t, cfg, authorizer.Bearer(authorizer.DefaultPolicy()), session.New(nil))

	cfg.Headers["X-Tenant"] = "b"
	a.Config().Headers["X-Tenant"] = "c"
	if got := a.Config().Headers["X-Tenant"]; got != "a" {
		t.Errorf("X-Tenant = %q, want a", got)
	}
}

func TestAuthorizeRequest_AuthorizerHeadersWin(t *testing.T) {
	authz := authorizer.Static(authorizer.DefaultPolicy(), map[string]string{"Authorization": "Bearer abc"})
	a := newTestAdapter(t, defaultConfig(), authz, authenticated(session.Data{"access_token": "abc"}))

	req := &httpclient.Request{Headers: map[string]string{
		"authorization": "Basic xyz",
		"X-Other":       "kept",
	}}
	if err := a.AuthorizeRequest(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := req.Headers["Authorization"]; got != "Bearer abc" {
		t.Errorf("Authorization = %q, want Bearer abc", got)
	}
	if _, ok := req.Headers["authorization"]; ok {
		t.Error("differently cased header should be replaced")
	}
	if req.Headers["X-Other"] != "kept" {
		t.Error("unrelated header dropped")
	}
}

func TestAuthorizeRequest_BearerFromSession(t *testing.T) {
	sess := authenticated(session.Data{"access_token": "abc"})
	a := newTestAdapter(t, defaultConfig(), authorizer.Bearer(authorizer.DefaultPolicy()), sess)

	req := &httpclient.Request{}
	if err := a.AuthorizeRequest(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := req.Headers["Authorization"]; got != "Bearer abc" {
		t.Errorf("Authorization = %q", got)
	}

	sess.Invalidate(context.Background())
	req = &httpclient.Request{}
	if err := a.AuthorizeRequest(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.Headers) != 0 {
		t.Errorf("unauthenticated session added headers: %v", req.Headers)
	}
}

func TestAuthorizeRequest_InvalidCredential(t *testing.T) {
	sess := authenticated(session.Data{"access_token": "abc"})
	var notified int
	sess.OnInvalidated(func(context.Context) { notified++ })

	authz := authorizer.Func{
		Policy: authorizer.DefaultPolicy(),
		Fn: func(context.Context, session.Data) (map[string]string, error) {
			return nil, fmt.Errorf("%w: expired", authorizer.ErrCredentialInvalid)
		},
	}
	a := newTestAdapter(t, defaultConfig(), authz, sess)

	for range 3 {
		req := &httpclient.Request{}
		err := a.AuthorizeRequest(context.Background(), req)
		if !apperrors.IsAuthorizationFailure(err) {
			t.Fatalf("expected authorization failure, got %v", err)
		}
		if !errors.Is(err, authorizer.ErrCredentialInvalid) {
			t.Error("expected cause to be preserved")
		}
		if len(req.Headers) != 0 {
			t.Errorf("request modified: %v", req.Headers)
		}
	}
	if notified != 1 {
		t.Errorf("notified %d times, want 1", notified)
	}
}

func TestAuthorizeRequest_OtherError(t *testing.T) {
	sess := authenticated(session.Data{"access_token": "abc"})
	boom := errors.New("keychain locked")
	authz := authorizer.Func{
		Policy: authorizer.DefaultPolicy(),
		Fn: func(context.Context, session.Data) (map[string]string, error) {
			return nil, boom
		},
	}
	a := newTestAdapter(t, defaultConfig(), authz, sess)

	err := a.AuthorizeRequest(context.Background(), &httpclient.Request{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if apperrors.IsAuthorizationFailure(err) {
		t.Error("unexpected authorization failure")
	}
	if !sess.IsAuthenticated() {
		t.Error("session must not be invalidated")
	}
}

func TestHandleResponse(t *testing.T) {
	tests := []struct {
		name        string
		policy      authorizer.Policy
		status      int
		wantFailure bool
	}{
		{"ok", authorizer.DefaultPolicy(), 200, false},
		{"no content", authorizer.DefaultPolicy(), 204, false},
		{"unauthorized", authorizer.DefaultPolicy(), 401, true},
		{"forbidden default policy", authorizer.DefaultPolicy(), 403, false},
		{"forbidden strict policy", authorizer.StrictPolicy(), 403, true},
		{"not found", authorizer.StrictPolicy(), 404, false},
		{"server error", authorizer.DefaultPolicy(), 500, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := authenticated(session.Data{"access_token": "abc"})
			a := newTestAdapter(t, defaultConfig(), authorizer.Bearer(tt.policy), sess)

			err := a.HandleResponse(context.Background(), tt.status)
			if tt.wantFailure {
				if !apperrors.IsAuthorizationFailure(err) {
					t.Fatalf("expected authorization failure, got %v", err)
				}
				appErr, _ := apperrors.AsAppError(err)
				if appErr.Details["status"] != tt.status {
					t.Errorf("status detail = %v", appErr.Details["status"])
				}
				if sess.Invalidations() != 1 {
					t.Errorf("invalidations = %d, want 1", sess.Invalidations())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sess.Invalidations() != 0 || !sess.IsAuthenticated() {
				t.Error("session must not be invalidated")
			}
		})
	}
}

func TestHandleResponse_AlreadyInvalidated(t *testing.T) {
	sess := session.New(nil)
	var notified int
	sess.OnInvalidated(func(context.Context) { notified++ })
	a := newTestAdapter(t, defaultConfig(), authorizer.Bearer(authorizer.DefaultPolicy()), sess)

	for range 2 {
		if err := a.HandleResponse(context.Background(), 401); !apperrors.IsAuthorizationFailure(err) {
			t.Fatalf("expected authorization failure, got %v", err)
		}
	}
	if notified != 0 {
		t.Errorf("notified %d times, want 0", notified)
	}
}

func TestHandleResponse_ConcurrentFailures(t *testing.T) {
	sess := authenticated(session.Data{"access_token": "abc"})
	var mu sync.Mutex
	var notified int
	sess.OnInvalidated(func(context.Context) {
		mu.Lock()
		notified++
		mu.Unlock()
	})
	a := newTestAdapter(t, defaultConfig(), authorizer.Bearer(authorizer.DefaultPolicy()), sess)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = a.HandleResponse(context.Background(), 401)
		}()
	}
	wg.Wait()

	if notified != 1 {
		t.Errorf("notified %d times, want 1", notified)
	}
	if sess.Invalidations() != 1 {
		t.Errorf("invalidations = %d, want 1", sess.Invalidations())
	}
}
