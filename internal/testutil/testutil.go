// Package testutil provides HTTP testing helpers for the finplan API.
package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	json "github.com/goccy/go-json"
)

// TestServer wraps httptest.Server with convenience methods
type TestServer struct {
	Server  *httptest.Server
	BaseURL string
	t       *testing.T
}

// ProjectRoot returns the directory holding go.mod
func ProjectRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("could not get caller info")
	}

	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// SetTestEnv points the FINPLAN_* variables at a fresh temporary data
// directory with an in-memory cache. Values are restored when the test ends.
func SetTestEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("FINPLAN_CONFIG", "")
	t.Setenv("FINPLAN_DATA_DIR", dir)
	t.Setenv("FINPLAN_REDIS_ADDR", "")
	t.Setenv("FINPLAN_DEBUG", "true")
	t.Setenv("FINPLAN_LISTEN_ADDR", ":0")
	return dir
}

// NewTestServer starts a test server for the given router and closes it
// when the test ends
func NewTestServer(t *testing.T, router http.Handler) *TestServer {
	t.Helper()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{
		Server:  server,
		BaseURL: server.URL,
		t:       t,
	}
}

// GET performs a GET request to the given path
func (ts *TestServer) GET(path string) *http.Response {
	ts.t.Helper()

	resp, err := http.Get(ts.BaseURL + path)
	if err != nil {
		ts.t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

// GETWithQuery performs a GET request with encoded query parameters
func (ts *TestServer) GETWithQuery(path string, query map[string]string) *http.Response {
	ts.t.Helper()

	values := url.Values{}
	for k, v := range query {
		values.Set(k, v)
	}
	target := ts.BaseURL + path
	if len(values) > 0 {
		target += "?" + values.Encode()
	}

	resp, err := http.Get(target)
	if err != nil {
		ts.t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

// POST performs a POST request to the given path
func (ts *TestServer) POST(path string, contentType string, body io.Reader) *http.Response {
	ts.t.Helper()

	resp, err := http.Post(ts.BaseURL+path, contentType, body)
	if err != nil {
		ts.t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

// POSTJSON encodes v and posts it as application/json
func (ts *TestServer) POSTJSON(path string, v any) *http.Response {
	ts.t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		ts.t.Fatalf("encode body for %s: %v", path, err)
	}
	return ts.POST(path, "application/json", bytes.NewReader(data))
}

// PUTJSON encodes v and sends it with a PUT request
func (ts *TestServer) PUTJSON(path string, v any) *http.Response {
	ts.t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		ts.t.Fatalf("encode body for %s: %v", path, err)
	}
	req, err := http.NewRequest(http.MethodPut, ts.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		ts.t.Fatalf("PUT %s: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		ts.t.Fatalf("PUT %s failed: %v", path, err)
	}
	return resp
}

// DELETE performs a DELETE request to the given path
func (ts *TestServer) DELETE(path string) *http.Response {
	ts.t.Helper()

	req, err := http.NewRequest(http.MethodDelete, ts.BaseURL+path, nil)
	if err != nil {
		ts.t.Fatalf("DELETE %s: %v", path, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		ts.t.Fatalf("DELETE %s failed: %v", path, err)
	}
	return resp
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// ReadBody reads and returns the response body as a string
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return string(body)
}

// DecodeJSON reads the response body into v
func DecodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}
