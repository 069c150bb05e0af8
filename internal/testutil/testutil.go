package testutil

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shotscraper/internal/state"
)

// MockHTTPServer serves canned responses keyed by request path.
type MockHTTPServer struct {
	*httptest.Server
	Responses map[string]MockResponse
}

// MockResponse represents a canned HTTP response
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// NewMockHTTPServer creates a new mock HTTP server. Unknown paths get a 404.
func NewMockHTTPServer() *MockHTTPServer {
	ms := &MockHTTPServer{
		Responses: make(map[string]MockResponse),
	}

	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, ok := ms.Responses[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = fmt.Fprintf(w, "404: Not Found")
			return
		}
		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.WriteString(w, resp.Body)
	}))

	return ms
}

// AddResponse adds a canned response for a specific path
func (ms *MockHTTPServer) AddResponse(path string, response MockResponse) {
	ms.Responses[path] = response
}

// AddScript serves body as a 200 text/plain response, the way
// raw.githubusercontent.com serves JavaScript files.
func (ms *MockHTTPServer) AddScript(path, body string) {
	ms.Responses[path] = MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "text/plain; charset=utf-8",
		},
	}
}

// TestDB creates an in-memory history database for testing
func TestDB(t *testing.T) *state.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	// every pooled connection would otherwise get its own empty database
	sqlDB.SetMaxOpenConns(1)

	db := &state.DB{SQL: sqlDB}
	if err := db.InitSchema(); err != nil {
		t.Fatalf("failed to initialize test schema: %v", err)
	}

	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return db
}

// TempFile creates a file with content in a fresh temp dir and returns its path.
func TempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	return path
}

// MockRoundTripper implements http.RoundTripper for testing
type MockRoundTripper struct {
	Responses map[string]*http.Response
	Requests  []*http.Request
}

// RoundTrip implements http.RoundTripper
func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)

	resp, ok := m.Responses[req.URL.String()]
	if !ok {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("404: Not Found")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	}
	resp.Request = req
	return resp, nil
}

// NewMockRoundTripper creates a new mock round tripper
func NewMockRoundTripper() *MockRoundTripper {
	return &MockRoundTripper{
		Responses: make(map[string]*http.Response),
		Requests:  make([]*http.Request, 0),
	}
}

// AddStringResponse adds a simple string response
func (m *MockRoundTripper) AddStringResponse(url string, statusCode int, body string) {
	m.Responses[url] = &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// AssertRequestMade checks if a request was made to a specific URL
func (m *MockRoundTripper) AssertRequestMade(t *testing.T, url string) {
	t.Helper()

	for _, req := range m.Requests {
		if req.URL.String() == url {
			return
		}
	}

	t.Errorf("expected request to %s, but none was made", url)
}
