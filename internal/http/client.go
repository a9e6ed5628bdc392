package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Defaults used by NewClient when the options leave them empty.
const (
	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "snapstash"
)

// ErrStatus is wrapped by StatusError.
var ErrStatus = errors.New("unexpected HTTP status")

// StatusError reports a response whose status is not 200 OK.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

func (e *StatusError) Unwrap() error {
	return ErrStatus
}

// Doer is the subset of *http.Client the Client needs. Tests can replace it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client wraps HTTP GETs of media files.
//
// Client provides:
//   - A configured User-Agent header
//   - Timeout handling
//   - Whole-body downloads into memory
//
// No authentication headers are sent and failed requests are not retried.
//
// Example usage:
//
//	client := NewClient(30*time.Second, "")
//
//	data, err := client.Get(ctx, "https://cdn.example.com/media.jpg")
//	var serr *StatusError
//	if errors.As(err, &serr) && serr.Code == http.StatusNotFound {
//	    // link expired
//	}
type Client struct {
	doer      Doer
	userAgent string
}

// NewClient creates a client with the given timeout and User-Agent.
//
// A zero timeout means DefaultTimeout; an empty userAgent means
// DefaultUserAgent.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return NewClientWithDoer(&http.Client{Timeout: timeout}, userAgent)
}

// NewClientWithDoer creates a client that sends requests through doer.
func NewClientWithDoer(doer Doer, userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		doer:      doer,
		userAgent: userAgent,
	}
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request cannot be built or sent (including ctx cancellation)
//   - The response status is not 200 OK (a *StatusError)
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	return io.ReadAll(resp.Body)
}
