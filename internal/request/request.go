// Package request issues single HTTP round trips with a fixed timeout and an
// explicit redirect policy. It never retries and never inspects status codes.
package request

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

	"github.com/kevinmichaelchen/googl-hunt/internal/logging"
)

// DefaultTimeout bounds every call, including reading the body.
const DefaultTimeout = 3 * time.Second

var (
	ErrTimeout     = errors.New("request timed out")
	ErrNilResponse = errors.New("response is nil")
	ErrRequest     = errors.New("request failed")
)

// Method selects the kind of call Do performs.
type Method int

const (
	MethodGet Method = iota
	MethodPost
)

func (m Method) String() string {
	switch m {
	case MethodGet:
		return http.MethodGet
	case MethodPost:
		return http.MethodPost
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Request describes one call. It is passed by value, so nothing a caller does
// after Do returns can leak into the next call.
type Request struct {
	Method  Method
	URL     string
	Headers map[string]string
	// Body is JSON-encoded for POST and ignored for GET.
	Body            any
	FollowRedirects bool
}

// Response is the raw result of a call. Nothing is validated.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) Text() string {
	return string(r.Body)
}

// Location returns the Location header, reporting whether it was present.
// An empty value counts as absent.
func (r *Response) Location() (string, bool) {
	vals := r.Header.Values("Location")
	if len(vals) == 0 || vals[0] == "" {
		return "", false
	}
	return vals[0], true
}

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

type Client struct {
	follow   Doer
	noFollow Doer
}

func NewClient() *Client {
	return newClient(DefaultTimeout, nil)
}

// NewClientWithTransport sends every call through rt. A nil rt means
// http.DefaultTransport.
func NewClientWithTransport(rt http.RoundTripper) *Client {
	return newClient(DefaultTimeout, rt)
}

func newClient(timeout time.Duration, rt http.RoundTripper) *Client {
	return &Client{
		follow: &http.Client{Timeout: timeout, Transport: rt},
		noFollow: &http.Client{
			Timeout:   timeout,
			Transport: rt,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	logger := logging.FromContext(ctx)

	var body io.Reader
	if r.Method == MethodPost {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method.String(), r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	doer := c.noFollow
	if r.FollowRedirects {
		doer = c.follow
	}

	logger.Debug("sending request", "method", r.Method, "url", r.URL, "follow_redirects", r.FollowRedirects)
	resp, err := doer.Do(req)
	if err != nil {
		if isTimeout(err) {
			logger.Error("timed out", "url", r.URL)
			return nil, fmt.Errorf("%w: %s: %v", ErrTimeout, r.URL, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrRequest, r.URL, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilResponse, r.URL)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			logger.Error("timed out", "url", r.URL)
			return nil, fmt.Errorf("%w: reading %s: %v", ErrTimeout, r.URL, err)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrRequest, r.URL, err)
	}

	logger.Debug("received response", "url", r.URL, "status", resp.StatusCode, "bytes", len(respBody))
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
