package forescout

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorKind represents the category of error that occurred
type ErrorKind int

const (
	// ErrAuthenticationRejected indicates the appliance refused the login (non-2xx)
	ErrAuthenticationRejected ErrorKind = iota
	// ErrTransportFailure indicates a network or HTTP failure other than rate limiting or auth
	ErrTransportFailure
	// ErrRateLimited indicates a 429 response; absorbed by the Executor
	ErrRateLimited
	// ErrMalformedDocument indicates the content is not valid structured JSON
	ErrMalformedDocument
	// ErrMissingRequiredField indicates the top-level "node" key is absent
	ErrMissingRequiredField
	// ErrUpdateRejected indicates a non-2xx answer to a configuration write
	ErrUpdateRejected
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrAuthenticationRejected:
		return "Authentication Rejected"
	case ErrTransportFailure:
		return "Transport Failure"
	case ErrRateLimited:
		return "Rate Limited"
	case ErrMalformedDocument:
		return "Malformed Document"
	case ErrMissingRequiredField:
		return "Missing Required Field"
	case ErrUpdateRejected:
		return "Update Rejected"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Error represents an error that occurred while talking to the appliance
// or while handling one of its configuration documents.
type Error struct {
	Kind       ErrorKind // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Body       string    // Raw server response body (if applicable)
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport-level error, describing the
// network cause when one can be recognised.
func NewTransportError(message string, err error) *Error {
	if err != nil {
		if cause := describeNetworkError(err); cause != "" {
			message = message + ": " + cause
		}
	}
	return &Error{
		Kind:    ErrTransportFailure,
		Message: message,
		Err:     err,
	}
}

// NewHTTPError creates a transport error for an unexpected HTTP status
func NewHTTPError(statusCode int, body []byte, message string) *Error {
	return &Error{
		Kind:       ErrTransportFailure,
		Message:    message,
		StatusCode: statusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// NewAuthError creates an authentication error
func NewAuthError(statusCode int, message string) *Error {
	return &Error{
		Kind:       ErrAuthenticationRejected,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewMalformedError creates a document parsing error
func NewMalformedError(message string, err error) *Error {
	return &Error{
		Kind:    ErrMalformedDocument,
		Message: message,
		Err:     err,
	}
}

// NewMissingFieldError creates an error for an absent required field
func NewMissingFieldError(field string) *Error {
	return &Error{
		Kind:    ErrMissingRequiredField,
		Message: fmt.Sprintf("missing %q field", field),
	}
}

// NewUpdateRejectedError creates an error carrying the server's answer to a rejected write
func NewUpdateRejectedError(statusCode int, body []byte) *Error {
	return &Error{
		Kind:       ErrUpdateRejected,
		Message:    fmt.Sprintf("update failed with status %d", statusCode),
		StatusCode: statusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

func kindOf(err error) (ErrorKind, bool) {
	var fsErr *Error
	if errors.As(err, &fsErr) {
		return fsErr.Kind, true
	}
	return 0, false
}

// IsAuthError checks if an error is an authentication rejection
func IsAuthError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == ErrAuthenticationRejected
}

// IsTransportError checks if an error is a transport failure
func IsTransportError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == ErrTransportFailure
}

// IsMalformedError checks if an error is a malformed document error
func IsMalformedError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == ErrMalformedDocument
}

// IsMissingFieldError checks if an error is a missing required field error
func IsMissingFieldError(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == ErrMissingRequiredField
}

// IsUpdateRejected checks if an error is a rejected configuration write
func IsUpdateRejected(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == ErrUpdateRejected
}

// describeNetworkError names the common network failure causes
func describeNetworkError(err error) string {
	if os.IsTimeout(err) {
		return "request timed out"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return "connection refused"
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return "host unreachable"
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return "network unreachable"
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil && urlErr.Err != err {
		return describeNetworkError(urlErr.Err)
	}

	return ""
}

// Hint returns operator-facing troubleshooting advice for an error
func Hint(err error) string {
	var fsErr *Error
	if !errors.As(err, &fsErr) {
		return "An unexpected error occurred. Check the message above and try again."
	}

	switch fsErr.Kind {
	case ErrAuthenticationRejected:
		return strings.Join([]string{
			"The appliance rejected the credentials.",
			"Troubleshooting:",
			"  • Check the username and password in config.yaml",
			"  • Admin API and Web API use different accounts",
			"  • Verify the account is allowed to use the API",
		}, "\n")

	case ErrTransportFailure:
		if fsErr.StatusCode == 401 || fsErr.StatusCode == 403 {
			return "The session is not authorized for this call. Log in again and retry."
		}
		if fsErr.StatusCode >= 500 {
			return fmt.Sprintf("The appliance returned an error (HTTP %d). Try again later.", fsErr.StatusCode)
		}
		return strings.Join([]string{
			"Could not talk to the appliance.",
			"Troubleshooting:",
			"  • Check FS_URL in config.yaml",
			"  • Verify the appliance is reachable from this machine",
			"  • Set FS_VERIFY_TLS to false for self-signed certificates",
		}, "\n")

	case ErrMalformedDocument:
		return "The JSON content could not be parsed. Fix the syntax and try again."

	case ErrMissingRequiredField:
		return "The document must contain a top-level \"node\" field, as exported by a backup."

	case ErrUpdateRejected:
		return "The appliance rejected the new configuration. The server response above explains why; the backup file is unchanged."

	default:
		return "An error occurred. Please check the error message for details."
	}
}
