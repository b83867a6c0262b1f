// Package testkit provides test doubles for outgoing HTTP calls.
//
// MockTransport replaces http.DefaultClient.Transport so tests can script
// photo-search and image-download responses without a network:
//
//	mt := testkit.NewMockTransport()
//	mt.Stub("https://api.pexels.com/v1/search", 200, searchJSON)
//	http.DefaultClient.Transport = mt
//	defer http.ResetTransport()
package testkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// stub is one scripted response matched by URL prefix.
type stub struct {
	urlPrefix string
	status    int
	body      []byte
	err       error
	calls     int
}

// MockTransport implements http.RoundTripper with scripted responses.
type MockTransport struct {
	mu    sync.Mutex
	stubs []*stub
}

// NewMockTransport returns an empty transport. Unmatched requests get a 404.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Stub registers a response for requests whose URL starts with urlPrefix.
// Stubs are matched in registration order; first match wins.
func (mt *MockTransport) Stub(urlPrefix string, status int, body []byte) *MockTransport {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.stubs = append(mt.stubs, &stub{urlPrefix: urlPrefix, status: status, body: body})
	return mt
}

// StubError registers a transport-level error (simulates an unreachable
// network) for matching requests.
func (mt *MockTransport) StubError(urlPrefix string, err error) *MockTransport {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.stubs = append(mt.stubs, &stub{urlPrefix: urlPrefix, err: err})
	return mt
}

// RoundTrip matches the request against the scripted stubs.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for _, s := range mt.stubs {
		if !strings.HasPrefix(req.URL.String(), s.urlPrefix) {
			continue
		}
		s.calls++
		if s.err != nil {
			return nil, s.err
		}

		status := s.status
		if status == 0 {
			status = http.StatusOK
		}
		header := make(http.Header)
		header.Set("Content-Type", "application/json")
		return &http.Response{
			StatusCode: status,
			Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
			Header:     header,
			Body:       io.NopCloser(bytes.NewReader(s.body)),
			Request:    req,
		}, nil
	}

	return &http.Response{
		StatusCode: http.StatusNotFound,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(`{"error":"no stub configured"}`)),
		Request:    req,
	}, nil
}

// Calls reports how many requests matched the stub registered for urlPrefix.
func (mt *MockTransport) Calls(urlPrefix string) int {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	for _, s := range mt.stubs {
		if s.urlPrefix == urlPrefix {
			return s.calls
		}
	}
	return 0
}
