package authorizer

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/apiadapter/session"
)

func TestBearer(t *testing.T) {
	a := Bearer(DefaultPolicy())

	headers, err := a.Authorize(context.Background(), session.Data{"access_token": "abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := headers[HeaderAuthorization]; got != "Bearer abc" {
		t.Errorf("got %q, want %q", got, "Bearer abc")
	}
}

func TestBearer_NoToken(t *testing.T) {
	a := Bearer(DefaultPolicy())
	for _, data := range []session.Data{nil, {}, {"access_token": ""}, {"access_token": 42}} {
		headers, err := a.Authorize(context.Background(), data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(headers) != 0 {
			t.Errorf("expected no headers for %v, got %v", data, headers)
		}
	}
}

func TestBearer_CustomKey(t *testing.T) {
	a := &BearerAuthorizer{Policy: DefaultPolicy(), TokenKey: "id_token"}
	headers, _ := a.Authorize(context.Background(), session.Data{"id_token": "xyz"})
	if headers[HeaderAuthorization] != "Bearer xyz" {
		t.Errorf("unexpected headers: %v", headers)
	}
}

func TestDevise(t *testing.T) {
	a := Devise(DefaultPolicy())
	headers, err := a.Authorize(context.Background(), session.Data{"token": "t0k", "email": "ann@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `Token token="t0k", email="ann@example.com"`
	if got := headers[HeaderAuthorization]; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	headers, _ = a.Authorize(context.Background(), session.Data{"token": "t0k"})
	if len(headers) != 0 {
		t.Errorf("expected no headers without email, got %v", headers)
	}
}

func TestStatic(t *testing.T) {
	a := Static(DefaultPolicy(), map[string]string{"X-API-Key": "k"})
	headers, _ := a.Authorize(context.Background(), nil)
	if headers["X-API-Key"] != "k" {
		t.Errorf("unexpected headers: %v", headers)
	}
	headers["X-API-Key"] = "changed"
	again, _ := a.Authorize(context.Background(), nil)
	if again["X-API-Key"] != "k" {
		t.Error("static headers should not be shared between calls")
	}
}

func TestFunc_NilFn(t *testing.T) {
	headers, err := Func{Policy: DefaultPolicy()}.Authorize(context.Background(), nil)
	if err != nil || headers != nil {
		t.Errorf("expected nil, nil; got %v, %v", headers, err)
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Subject:   "user-7",
		ExpiresAt: gojwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestJWT_ValidToken(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a := JWT(DefaultPolicy(), WithClock(func() time.Time { return now }))
	token := signedToken(t, now.Add(time.Hour))

	headers, err := a.Authorize(context.Background(), session.Data{"access_token": token})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if headers[HeaderAuthorization] != "Bearer "+token {
		t.Errorf("unexpected headers: %v", headers)
	}
}

func TestJWT_ExpiredToken(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a := JWT(DefaultPolicy(), WithClock(func() time.Time { return now }))
	token := signedToken(t, now.Add(-time.Minute))

	_, err := a.Authorize(context.Background(), session.Data{"access_token": token})
	if !stderrors.Is(err, ErrCredentialInvalid) {
		t.Fatalf("expected ErrCredentialInvalid, got %v", err)
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("expected expiry in message, got %q", err.Error())
	}
}

func TestJWT_Leeway(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a := JWT(DefaultPolicy(),
		WithClock(func() time.Time { return now }),
		WithLeeway(2*time.Minute),
	)
	token := signedToken(t, now.Add(-time.Minute))
	if _, err := a.Authorize(context.Background(), session.Data{"access_token": token}); err != nil {
		t.Fatalf("token within leeway should pass, got %v", err)
	}
}

func TestJWT_MalformedToken(t *testing.T) {
	a := JWT(DefaultPolicy())
	_, err := a.Authorize(context.Background(), session.Data{"access_token": "not-a-jwt"})
	if !stderrors.Is(err, ErrCredentialInvalid) {
		t.Fatalf("expected ErrCredentialInvalid, got %v", err)
	}
}

func TestJWT_NoTokenAndPolicy(t *testing.T) {
	a := JWT(StrictPolicy(), WithTokenKey("jwt"))
	headers, err := a.Authorize(context.Background(), session.Data{"access_token": "ignored"})
	if err != nil || len(headers) != 0 {
		t.Errorf("expected no headers, got %v, %v", headers, err)
	}
	if !a.IsAuthorizationFailure(http.StatusForbidden) {
		t.Error("strict policy should flag 403")
	}
}
