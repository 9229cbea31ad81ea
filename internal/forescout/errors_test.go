package forescout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{ErrAuthenticationRejected, "Authentication Rejected"},
		{ErrTransportFailure, "Transport Failure"},
		{ErrRateLimited, "Rate Limited"},
		{ErrMalformedDocument, "Malformed Document"},
		{ErrMissingRequiredField, "Missing Required Field"},
		{ErrUpdateRejected, "Update Rejected"},
		{ErrorKind(99), "ErrorKind(99)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestError_Message(t *testing.T) {
	err := NewMalformedError("invalid JSON", errors.New("unexpected EOF"))
	want := "Malformed Document: invalid JSON (caused by: unexpected EOF)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	err = NewMissingFieldError(NodeField)
	want = `Missing Required Field: missing "node" field`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestPredicates_ThroughWrapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"auth", NewAuthError(403, "forbidden"), IsAuthError},
		{"transport", NewTransportError("dial", context.DeadlineExceeded), IsTransportError},
		{"http", NewHTTPError(500, []byte("oops"), "GET failed"), IsTransportError},
		{"malformed", NewMalformedError("bad", nil), IsMalformedError},
		{"missing", NewMissingFieldError("node"), IsMissingFieldError},
		{"rejected", NewUpdateRejectedError(500, []byte(" conflict ")), IsUpdateRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !tt.check(wrapped) {
				t.Errorf("predicate should see through wrapping: %v", wrapped)
			}
			if IsAuthError(wrapped) && tt.name != "auth" {
				t.Errorf("IsAuthError matched %s", tt.name)
			}
		})
	}

	if IsTransportError(errors.New("plain")) {
		t.Error("plain errors are not transport failures")
	}
}

func TestNewUpdateRejectedError_KeepsBody(t *testing.T) {
	err := NewUpdateRejectedError(409, []byte("  {\"error\":\"conflict\"}\n"))
	if err.StatusCode != 409 {
		t.Errorf("StatusCode = %d, want 409", err.StatusCode)
	}
	if err.Body != `{"error":"conflict"}` {
		t.Errorf("Body = %q", err.Body)
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"auth", NewAuthError(401, "no"), "credentials"},
		{"unauthorized call", NewHTTPError(401, nil, "GET"), "Log in again"},
		{"server error", NewHTTPError(503, nil, "GET"), "HTTP 503"},
		{"network", NewTransportError("dial", nil), "FS_URL"},
		{"malformed", NewMalformedError("bad", nil), "syntax"},
		{"missing", NewMissingFieldError(NodeField), `"node"`},
		{"rejected", NewUpdateRejectedError(500, nil), "rejected"},
		{"foreign", errors.New("x"), "unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hint := Hint(tt.err); !strings.Contains(hint, tt.contains) {
				t.Errorf("Hint() = %q, want it to contain %q", hint, tt.contains)
			}
		})
	}
}
