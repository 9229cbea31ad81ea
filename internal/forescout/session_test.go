package forescout

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

const mockSegments = `{"node": {"name": "Segments", "children": [{"id": 1, "name": "Servers", "ranges": ["10.0.0.0/24"]}]}}`

// fakeAppliance serves both APIs with fixed credentials
type fakeAppliance struct {
	adminToken string
	webToken   string

	segmentsStatus int
	segmentsBody   string
	updateStatus   int
	updateBody     string

	lastUpdate []byte
	authSeen   []string
	requests   int32
}

func newFakeAppliance() *fakeAppliance {
	return &fakeAppliance{
		adminToken:     "admin-token",
		webToken:       "web-token",
		segmentsStatus: http.StatusOK,
		segmentsBody:   mockSegments,
		updateStatus:   http.StatusOK,
		updateBody:     `{}`,
	}
}

func (f *fakeAppliance) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&f.requests, 1)

	switch {
	case r.URL.Path == "/fsum/oauth2.0/token" && r.Method == http.MethodPost:
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Form.Get("username") != "admin" || r.Form.Get("password") != "pw" ||
			r.Form.Get("grant_type") != "password" || r.Form.Get("client_id") != AdminClientID {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"` + f.adminToken + `","token_type":"bearer"}`))

	case r.URL.Path == "/api/login" && r.Method == http.MethodPost:
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Form.Get("username") != "web" || r.Form.Get("password") != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(f.webToken))

	case r.URL.Path == "/adminapi/segments":
		f.authSeen = append(f.authSeen, r.Header.Get("Authorization"))
		if r.Header.Get("Authorization") != "Bearer "+f.adminToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Method == http.MethodPut {
			f.lastUpdate, _ = io.ReadAll(r.Body)
			w.WriteHeader(f.updateStatus)
			w.Write([]byte(f.updateBody))
			return
		}
		w.WriteHeader(f.segmentsStatus)
		w.Write([]byte(f.segmentsBody))

	case r.URL.Path == "/api/hosts":
		f.authSeen = append(f.authSeen, r.Header.Get("Authorization"))
		if r.Header.Get("Authorization") != f.webToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"hosts": [{"ip": "10.0.0.7", "mac": "aa:bb:cc:dd:ee:ff"}]}`))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// memoryStore is a SnapshotWriter keeping documents in memory
type memoryStore struct {
	docs []Document
}

func (m *memoryStore) Write(doc Document) (string, error) {
	m.docs = append(m.docs, doc)
	return filepath.Join("backups", "segments_test.json"), nil
}

func TestAdminLogin_Success(t *testing.T) {
	fake := newFakeAppliance()
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewAdminClient(Credentials{BaseURL: server.URL + "/", Username: "admin", Password: "pw"})
	ok, err := client.Login(context.Background())
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !ok {
		t.Fatal("Login() = false, want true")
	}
	if !client.Authenticated() {
		t.Error("Authenticated() = false after successful login")
	}
}

func TestAdminLogin_Rejected(t *testing.T) {
	fake := newFakeAppliance()
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewAdminClient(Credentials{BaseURL: server.URL, Username: "admin", Password: "wrong"})
	ok, err := client.Login(context.Background())
	if err != nil {
		t.Fatalf("Login() error = %v, want nil for a rejected login", err)
	}
	if ok {
		t.Error("Login() = true, want false")
	}
	if client.Authenticated() {
		t.Error("Authenticated() = true after rejected login")
	}
}

func TestLogin_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewAdminClient(Credentials{BaseURL: url, Username: "admin", Password: "pw"})
	ok, err := client.Login(context.Background())
	if ok {
		t.Error("Login() = true against a closed server")
	}
	if !IsTransportError(err) {
		t.Errorf("Login() error should be transport failure, got %T: %v", err, err)
	}
}

func TestLogin_RateLimitedThenAccepted(t *testing.T) {
	fake := newFakeAppliance()
	var limited int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&limited, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"errors": ["Wait 1 seconds"]}`))
			return
		}
		fake.ServeHTTP(w, r)
	}))
	defer server.Close()

	rs := &recordingSleep{}
	client := NewAdminClient(
		Credentials{BaseURL: server.URL, Username: "admin", Password: "pw"},
		WithExecutor(newTestExecutor(rs)),
	)
	ok, err := client.Login(context.Background())
	if err != nil || !ok {
		t.Fatalf("Login() = %v, %v; want true, nil", ok, err)
	}
	if len(rs.waits) != 1 {
		t.Errorf("waits = %v, want one", rs.waits)
	}
}

func TestFetchSegments_SendsBearer(t *testing.T) {
	fake := newFakeAppliance()
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewAdminClient(Credentials{BaseURL: server.URL, Username: "admin", Password: "pw"})
	if ok, err := client.Login(context.Background()); err != nil || !ok {
		t.Fatalf("Login() = %v, %v", ok, err)
	}

	doc, err := client.FetchSegments(context.Background())
	if err != nil {
		t.Fatalf("FetchSegments() error = %v", err)
	}
	node, err := doc.Node()
	if err != nil {
		t.Fatalf("Node() error = %v", err)
	}
	if name := node.(map[string]any)["name"]; name != "Segments" {
		t.Errorf("node name = %v, want Segments", name)
	}
	if len(fake.authSeen) != 1 || fake.authSeen[0] != "Bearer admin-token" {
		t.Errorf("Authorization headers = %v, want [Bearer admin-token]", fake.authSeen)
	}
}

func TestFetch_NotAuthenticated(t *testing.T) {
	fake := newFakeAppliance()
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewAdminClient(Credentials{BaseURL: server.URL})
	_, err := client.FetchSegments(context.Background())
	if !IsTransportError(err) {
		t.Errorf("FetchSegments() error should be transport failure, got %v", err)
	}
	if atomic.LoadInt32(&fake.requests) != 0 {
		t.Error("no request should be sent without a session")
	}
}

func TestFetchSegments_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"server error", http.StatusInternalServerError, `oops`, IsTransportError},
		{"empty body", http.StatusOK, ``, IsMalformedError},
		{"invalid json", http.StatusOK, `{"node":`, IsMalformedError},
		{"missing node", http.StatusOK, `{"segments": []}`, IsMissingFieldError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeAppliance()
			fake.segmentsStatus = tt.status
			fake.segmentsBody = tt.body
			server := httptest.NewServer(fake)
			defer server.Close()

			client := NewAdminClient(Credentials{BaseURL: server.URL, Username: "admin", Password: "pw"})
			if ok, err := client.Login(context.Background()); err != nil || !ok {
				t.Fatalf("Login() = %v, %v", ok, err)
			}

			_, err := client.FetchSegments(context.Background())
			if err == nil {
				t.Fatal("FetchSegments() should fail")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error kind: %v", err)
			}
		})
	}
}

func TestUpdateSegments(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantOK     bool
		wantStatus int
	}{
		{"accepted", http.StatusOK, `{}`, true, http.StatusOK},
		{"conflict", http.StatusInternalServerError, `{"error":"conflict"}`, false, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeAppliance()
			fake.updateStatus = tt.status
			fake.updateBody = tt.body
			server := httptest.NewServer(fake)
			defer server.Close()

			client := NewAdminClient(Credentials{BaseURL: server.URL, Username: "admin", Password: "pw"})
			if ok, err := client.Login(context.Background()); err != nil || !ok {
				t.Fatalf("Login() = %v, %v", ok, err)
			}

			node := map[string]any{"name": "Segments", "children": []any{}}
			resp, err := client.UpdateSegments(context.Background(), node)
			if err != nil {
				t.Fatalf("UpdateSegments() error = %v", err)
			}
			if resp.OK() != tt.wantOK || resp.StatusCode != tt.wantStatus {
				t.Errorf("response = %d (ok=%v), want %d (ok=%v)", resp.StatusCode, resp.OK(), tt.wantStatus, tt.wantOK)
			}
			if resp.Text() != tt.body {
				t.Errorf("Text() = %q, want %q", resp.Text(), tt.body)
			}

			var sent map[string]any
			if err := json.Unmarshal(fake.lastUpdate, &sent); err != nil {
				t.Fatalf("server received invalid JSON: %v", err)
			}
			if sent["name"] != "Segments" {
				t.Errorf("PUT body = %s, want the node value", fake.lastUpdate)
			}
		})
	}
}

func TestBackupSegments(t *testing.T) {
	fake := newFakeAppliance()
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewAdminClient(Credentials{BaseURL: server.URL, Username: "admin", Password: "pw"})
	if ok, err := client.Login(context.Background()); err != nil || !ok {
		t.Fatalf("Login() = %v, %v", ok, err)
	}

	store := &memoryStore{}
	path, doc, err := client.BackupSegments(context.Background(), store)
	if err != nil {
		t.Fatalf("BackupSegments() error = %v", err)
	}
	if path == "" || len(store.docs) != 1 {
		t.Errorf("path = %q, stored = %d; want a path and one document", path, len(store.docs))
	}
	if !doc.HasNode() {
		t.Error("backed up document lost its node")
	}
}

func TestWebClient_RawTokenHeader(t *testing.T) {
	fake := newFakeAppliance()
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewWebClient(Credentials{BaseURL: server.URL, Username: "web", Password: "pw"})
	if !strings.HasSuffix(client.BaseURL(), "/api") {
		t.Errorf("BaseURL() = %s, want /api suffix", client.BaseURL())
	}

	if ok, err := client.Login(context.Background()); err != nil || !ok {
		t.Fatalf("Login() = %v, %v", ok, err)
	}

	store := &memoryStore{}
	if _, err := client.BackupHosts(context.Background(), store); err != nil {
		t.Fatalf("BackupHosts() error = %v", err)
	}
	if len(fake.authSeen) != 1 || fake.authSeen[0] != "web-token" {
		t.Errorf("Authorization headers = %v, want [web-token] without scheme", fake.authSeen)
	}
	if _, ok := store.docs[0]["hosts"]; !ok {
		t.Error("hosts document not stored")
	}
}

func TestWebLogin_Rejected(t *testing.T) {
	fake := newFakeAppliance()
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewWebClient(Credentials{BaseURL: server.URL, Username: "web", Password: "nope"})
	ok, err := client.Login(context.Background())
	if err != nil || ok {
		t.Errorf("Login() = %v, %v; want false, nil", ok, err)
	}
}
