package connector

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPRequest describes a single outbound call.
type HTTPRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    io.Reader
	Timeout time.Duration
}

// HTTPResponse is a fully read response.
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Request    *HTTPRequest
}

// OK reports a 2xx status.
func (r *HTTPResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HTTPClientConfig tunes the transport and retry loop. RetryMaxAttempts is
// the number of extra attempts after the first; zero disables retries.
type HTTPClientConfig struct {
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	DialTimeout         time.Duration
	KeepAlive           time.Duration
	RetryMaxAttempts    int
	RetryBackoff        time.Duration
}

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: http status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Retryable reports whether the server side failed.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500
}
