// Package client talks to the forecast and catalog services. Calls are made
// once; a failed call is reported to the caller and never retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

const defaultTimeout = 10 * time.Second

// UpstreamError is returned when a service answers with a non-2xx status.
type UpstreamError struct {
	Service string
	Status  int
	Body    string
}

// DecodeError is returned when a 2xx body is not the expected JSON shape.
type DecodeError struct {
	Service string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Service, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s service returned status %d", e.Service, e.Status)
	}
	return fmt.Sprintf("%s service returned status %d: %s", e.Service, e.Status, e.Body)
}

type httpClient struct {
	baseURL string
	service string
	http    *http.Client
}

func newHTTPClient(service, baseURL string, timeout time.Duration) httpClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout
	return httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		service: service,
		http:    hc,
	}
}

func (c httpClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", c.service, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s service unreachable: %w", c.service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &UpstreamError{Service: c.service, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Service: c.service, Err: err}
	}
	return nil
}
