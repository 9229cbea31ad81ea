package forescout

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/opabravo/forescout-tools/internal/logging"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// UserAgent is sent with every request
	UserAgent = "Forescout TOOLS"

	maxResponseBody = 64 << 20
)

// HTTPClient is the subset of *http.Client used by sessions
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Credentials identify the operator against one API
type Credentials struct {
	BaseURL  string
	Username string
	Password string
}

// SnapshotWriter persists a fetched document and returns the written path
type SnapshotWriter interface {
	Write(doc Document) (string, error)
}

// Response is the raw outcome of a configuration write
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the appliance accepted the call (2xx)
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Text returns the response body as trimmed text
func (r *Response) Text() string {
	return strings.TrimSpace(string(r.Body))
}

// Session is one authenticated conversation with an API. The variant and
// credentials never change; the bearer token is set once by Login and
// attached to every later request.
type Session struct {
	variant    Variant
	creds      Credentials
	baseURL    string
	httpClient HTTPClient
	executor   *Executor

	token string
}

// Option configures a Session
type Option func(*Session)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c HTTPClient) Option {
	return func(s *Session) { s.httpClient = c }
}

// WithExecutor replaces the default rate-limit executor
func WithExecutor(e *Executor) Option {
	return func(s *Session) { s.executor = e }
}

// NewSession creates an unauthenticated session for a variant
func NewSession(variant Variant, creds Credentials, opts ...Option) *Session {
	s := &Session{
		variant: variant,
		creds:   creds,
		baseURL: strings.TrimRight(creds.BaseURL, "/") + variant.BasePath,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.httpClient == nil {
		s.httpClient = NewHTTPClient(false)
	}
	if s.executor == nil {
		s.executor = NewExecutor(0)
	}
	return s
}

// NewHTTPClient returns an HTTP client with the default timeout.
// Appliances usually present self-signed certificates, so verification
// is opt-in.
func NewHTTPClient(verifyTLS bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !verifyTLS} //nolint:gosec
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}
}

// Variant returns the API variant of this session
func (s *Session) Variant() Variant {
	return s.variant
}

// BaseURL returns the API root including the variant's base path
func (s *Session) BaseURL() string {
	return s.baseURL
}

// Authenticated reports whether Login succeeded on this session
func (s *Session) Authenticated() bool {
	return s.token != ""
}

// Login submits the credentials to the variant's token endpoint.
// It returns false without an error when the appliance answers with a
// non-2xx status; the error is only set for transport failures.
func (s *Session) Login(ctx context.Context) (bool, error) {
	loginURL := s.baseURL + s.variant.LoginPath
	form := s.variant.LoginForm(s.creds)

	resp, err := s.executor.Do(ctx, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, NewTransportError("failed to create login request", err)
		}
		s.setCommonHeaders(req)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return s.send(req)
	})
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := readBody(resp)
	if err != nil {
		return false, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logging.Warn("Login rejected",
			zap.String("variant", s.variant.Name),
			zap.Int("status", resp.StatusCode),
		)
		return false, nil
	}

	token, err := s.variant.ExtractToken(body)
	if err != nil || token == "" {
		logging.Warn("Login response carried no token",
			zap.String("variant", s.variant.Name),
			zap.Error(err),
		)
		return false, nil
	}

	s.token = token
	logging.Info("Logged in", zap.String("variant", s.variant.Name), zap.String("url", s.baseURL))
	return true, nil
}

// FetchConfiguration reads the variant's configuration resource
func (s *Session) FetchConfiguration(ctx context.Context) (Document, error) {
	if !s.Authenticated() {
		return nil, NewTransportError("session is not authenticated (log in first)", nil)
	}

	resourceURL := s.baseURL + s.variant.ResourcePath
	resp, err := s.executor.Do(ctx, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, resourceURL, nil)
		if err != nil {
			return nil, NewTransportError("failed to create GET request", err)
		}
		s.authorize(req)
		return s.send(req)
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	logging.Debug("Fetched configuration",
		zap.String("variant", s.variant.Name),
		zap.Int("status", resp.StatusCode),
		zap.Int("length", len(body)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewHTTPError(resp.StatusCode, body,
			fmt.Sprintf("GET %s returned status %d", s.variant.ResourcePath, resp.StatusCode))
	}

	doc, err := ParseDocument(body)
	if err != nil {
		return nil, fmt.Errorf("invalid %s response: %w", s.variant.ResourcePath, err)
	}
	return doc, nil
}

// UpdateConfiguration replaces the variant's configuration resource with
// payload. Every HTTP outcome is returned as a Response so the caller can
// show the server's answer; only transport failures are errors.
func (s *Session) UpdateConfiguration(ctx context.Context, payload any) (*Response, error) {
	if !s.Authenticated() {
		return nil, NewTransportError("session is not authenticated (log in first)", nil)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, NewMalformedError("failed to encode update payload", err)
	}

	resourceURL := s.baseURL + s.variant.ResourcePath
	resp, err := s.executor.Do(ctx, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, resourceURL, bytes.NewReader(data))
		if err != nil {
			return nil, NewTransportError("failed to create PUT request", err)
		}
		s.authorize(req)
		return s.send(req)
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	logging.Debug("Update answered",
		zap.String("variant", s.variant.Name),
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", body),
		zap.Any("headers", resp.Header),
	)

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// Backup fetches the configuration and writes it as a snapshot
func (s *Session) Backup(ctx context.Context, store SnapshotWriter) (string, Document, error) {
	doc, err := s.FetchConfiguration(ctx)
	if err != nil {
		return "", nil, err
	}
	path, err := store.Write(doc)
	if err != nil {
		return "", nil, fmt.Errorf("failed to write backup: %w", err)
	}
	return path, doc, nil
}

func (s *Session) setCommonHeaders(req *http.Request) {
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Content-Type", "application/json")
}

func (s *Session) authorize(req *http.Request) {
	s.setCommonHeaders(req)
	req.Header.Set("Authorization", s.variant.AuthHeader(s.token))
}

func (s *Session) send(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		logging.LogRequest(s.variant.Name, req.Method, req.URL.String(), 0, time.Since(start))
		return nil, NewTransportError(fmt.Sprintf("%s %s failed", req.Method, req.URL.Path), err)
	}
	logging.LogRequest(s.variant.Name, req.Method, req.URL.String(), resp.StatusCode, time.Since(start))
	return resp, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, NewTransportError("failed to read response body", err)
	}
	return body, nil
}

// formValues is a helper for variants building login forms
func formValues(pairs ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return v
}
