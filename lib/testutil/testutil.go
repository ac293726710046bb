package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// RecordedRequest is what a FakeDevice saw of an incoming request.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Username string
	Password string
	HasAuth  bool
}

// FakeDevice is an http server standing in for the device's cgi surface.
type FakeDevice struct {
	server   *httptest.Server
	mutex    sync.Mutex
	requests []RecordedRequest
}

// NewFakeDevice starts a server that records every request and passes it to
// handler. The server is closed when the test ends.
func NewFakeDevice(t testing.TB, handler http.HandlerFunc) *FakeDevice {
	d := &FakeDevice{}
	d.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		d.mutex.Lock()
		d.requests = append(d.requests, RecordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Username: username,
			Password: password,
			HasAuth:  ok,
		})
		d.mutex.Unlock()
		handler(w, r)
	}))
	t.Cleanup(d.server.Close)
	return d
}

// Host returns the host:port of the server.
func (d *FakeDevice) Host() string {
	return strings.TrimPrefix(d.server.URL, "http://")
}

func (d *FakeDevice) Requests() []RecordedRequest {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	out := make([]RecordedRequest, len(d.requests))
	copy(out, d.requests)
	return out
}

// Respond returns a handler that always answers with status and body.
func Respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("content-type", "text/html")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

// ClosedHost returns the address of a server that is no longer listening.
func ClosedHost(t testing.TB) string {
	server := httptest.NewServer(http.NotFoundHandler())
	host := strings.TrimPrefix(server.URL, "http://")
	server.Close()
	return host
}
