package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// Failure classes for a single provider call.
var (
	ErrTimeout       = errors.New("provider timed out")
	ErrTransport     = errors.New("provider transport failed")
	ErrHTTPStatus    = errors.New("provider returned non-success status")
	ErrMalformedBody = errors.New("provider returned malformed json")
)

// Error is the failure of one provider call. Err wraps one of the failure
// classes above.
type Error struct {
	Provider   Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

const maxBodyBytes = 1 << 20

// DefaultUserAgent identifies the checker to the status APIs.
const DefaultUserAgent = "PSMC-Server-Checker/1.0"

// Client performs provider lookups over HTTP.
type Client struct {
	http      *http.Client
	userAgent string
	defaults  Defaults
}

// NewClient returns a Client. httpClient may be nil to use a client with no
// overall timeout; per-call deadlines come from each Adapter.
func NewClient(httpClient *http.Client, userAgent string, d Defaults) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{http: httpClient, userAgent: userAgent, defaults: d}
}

// Fetch queries one provider for t and normalizes the response. The call is
// bounded by a.Timeout independently of any other call sharing ctx.
func (c *Client) Fetch(ctx context.Context, a Adapter, t Target) (Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL(t), nil)
	if err != nil {
		return Snapshot{}, &Error{Provider: a.Kind, Err: fmt.Errorf("%w: build request: %v", ErrTransport, err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Snapshot{}, c.classify(ctx, a, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return Snapshot{}, &Error{
			Provider:   a.Kind,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: HTTP %d", ErrHTTPStatus, resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Snapshot{}, c.classify(ctx, a, err)
	}
	if !gjson.ValidBytes(body) {
		return Snapshot{}, &Error{Provider: a.Kind, Err: fmt.Errorf("%w: %d bytes", ErrMalformedBody, len(body))}
	}

	return a.Normalize(body, c.defaults), nil
}

func (c *Client) classify(ctx context.Context, a Adapter, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &Error{Provider: a.Kind, Err: fmt.Errorf("%w after %v", ErrTimeout, a.Timeout)}
	}
	return &Error{Provider: a.Kind, Err: fmt.Errorf("%w: %v", ErrTransport, err)}
}
