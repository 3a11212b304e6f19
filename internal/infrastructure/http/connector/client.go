package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const maxErrorBody = 512

// HTTPClient is the shared client for the ShipStation and Magestack APIs.
type HTTPClient struct {
	client *http.Client
	config HTTPClientConfig
}

func NewHTTPClient(config HTTPClientConfig) *HTTPClient {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.DialTimeout == 0 {
		config.DialTimeout = 5 * time.Second
	}
	if config.KeepAlive == 0 {
		config.KeepAlive = 30 * time.Second
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}
	if config.RetryMaxAttempts < 0 {
		config.RetryMaxAttempts = 0
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = time.Second
	}

	return &HTTPClient{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   config.DialTimeout,
					KeepAlive: config.KeepAlive,
				}).DialContext,
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
			},
		},
	}
}

// Do executes req, retrying network errors and 5xx responses with a linear
// backoff. A 4xx response is returned immediately as a *StatusError.
func (c *HTTPClient) Do(ctx context.Context, req *HTTPRequest) (*HTTPResponse, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		body = b
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.RetryMaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * c.config.RetryBackoff
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.doRequest(ctx, req, body)
		if err == nil && resp.OK() {
			return resp, nil
		}
		if err == nil {
			err = &StatusError{
				Method:     req.Method,
				URL:        req.URL,
				StatusCode: resp.StatusCode,
				Body:       truncate(resp.Body, maxErrorBody),
			}
		}
		lastErr = err

		var se *StatusError
		if errors.As(err, &se) && !se.Retryable() {
			return resp, err
		}
		if ctx.Err() != nil {
			return nil, err
		}
	}

	if c.config.RetryMaxAttempts == 0 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", c.config.RetryMaxAttempts+1, lastErr)
}

func (c *HTTPClient) doRequest(ctx context.Context, req *HTTPRequest, body []byte) (*HTTPResponse, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &HTTPResponse{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       bodyBytes,
		Request:    req,
	}, nil
}

func (c *HTTPClient) Get(ctx context.Context, url string, headers map[string]string) (*HTTPResponse, error) {
	return c.Do(ctx, &HTTPRequest{
		Method:  http.MethodGet,
		URL:     url,
		Headers: headers,
	})
}

func (c *HTTPClient) Post(ctx context.Context, url string, headers map[string]string, body io.Reader) (*HTTPResponse, error) {
	return c.Do(ctx, &HTTPRequest{
		Method:  http.MethodPost,
		URL:     url,
		Headers: headers,
		Body:    body,
	})
}

// GetJSON performs a GET and decodes the body into out.
func (c *HTTPClient) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	resp, err := c.Get(ctx, url, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// PostJSON encodes in as the request body and, when out is non-nil, decodes
// the response into it.
func (c *HTTPClient) PostJSON(ctx context.Context, url string, headers map[string]string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	h := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		h[k] = v
	}
	h["Content-Type"] = "application/json"

	resp, err := c.Post(ctx, url, h, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
