package httpclient

import (
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/kbukum/apiadapter/errors"
)

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		status    int
		wantNil   bool
		code      ErrorCode
		retryable bool
	}{
		{200, true, 0, false},
		{304, true, 0, false},
		{400, false, ErrCodeClient, false},
		{401, false, ErrCodeAuth, false},
		{403, false, ErrCodeAuth, false},
		{404, false, ErrCodeNotFound, false},
		{422, false, ErrCodeClient, false},
		{429, false, ErrCodeRateLimit, true},
		{500, false, ErrCodeServer, true},
		{503, false, ErrCodeServer, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			e := ClassifyStatusCode(tt.status, nil)
			if tt.wantNil {
				if e != nil {
					t.Fatalf("expected nil, got %v", e)
				}
				return
			}
			if e.Code != tt.code {
				t.Errorf("code = %s, want %s", e.Code, tt.code)
			}
			if e.Retryable != tt.retryable {
				t.Errorf("retryable = %v, want %v", e.Retryable, tt.retryable)
			}
			if e.StatusCode != tt.status {
				t.Errorf("status = %d", e.StatusCode)
			}
		})
	}
}

func TestError_Wrapped(t *testing.T) {
	err := fmt.Errorf("find users: %w", ClassifyStatusCode(404, []byte("gone")))
	if !IsNotFound(err) {
		t.Error("expected IsNotFound through wrapping")
	}
	if IsAuth(err) || IsRetryable(err) || IsNetwork(err) {
		t.Error("unexpected classification")
	}
	if StatusOf(err) != 404 {
		t.Errorf("StatusOf = %d", StatusOf(err))
	}
	if StatusOf(errors.New("plain")) != 0 {
		t.Error("plain errors carry no status")
	}
}

func TestError_AppError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	conn := newNetworkError(ErrCodeConnection, cause)
	app := conn.AppError()
	if app == nil || app.Code != apperrors.ErrCodeTransport {
		t.Fatalf("connection AppError = %v", app)
	}
	if !errors.Is(app, cause) {
		t.Error("expected cause chain to be preserved")
	}

	timeout := newNetworkError(ErrCodeTimeout, cause)
	if app := timeout.AppError(); app == nil || app.Code != apperrors.ErrCodeTimeout {
		t.Errorf("timeout AppError = %v", app)
	}

	if ClassifyStatusCode(500, nil).AppError() != nil {
		t.Error("status errors have no AppError form")
	}
}

func TestErrorCode_String(t *testing.T) {
	if ErrCodeRateLimit.String() != "rate_limit" {
		t.Errorf("got %s", ErrCodeRateLimit)
	}
	if ErrorCode(99).String() != "unknown" {
		t.Errorf("got %s", ErrorCode(99))
	}
}
