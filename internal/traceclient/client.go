// Package traceclient queries the remote traceroute service.
//
// The client performs exactly one HTTP request per call. It never retries:
// a failed trace is surfaced to the caller, who may resubmit.
package traceclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"visual_traceroute/tracemap/internal/hop"
)

const (
	DefaultTimeout   = 90 * time.Second
	DefaultUserAgent = "tracemap"

	maxBodyBytes = 8 << 20
)

// Options configure a Client. Only Endpoint is required.
type Options struct {
	Endpoint   string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client

	// RateInterval and RateBurst pace outgoing requests. A zero interval
	// disables pacing.
	RateInterval time.Duration
	RateBurst    int
}

type Client struct {
	endpoint  *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
}

func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.Endpoint)
	if raw == "" {
		return nil, errors.New("traceroute endpoint is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid traceroute endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid traceroute endpoint scheme %q", u.Scheme)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = DefaultUserAgent
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateInterval > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Every(opts.RateInterval), burst)
	}

	return &Client{
		endpoint:  u,
		http:      hc,
		userAgent: ua,
		limiter:   limiter,
	}, nil
}

// Trace asks the service for the path to target and classifies the body.
//
// A nil error means the service answered with a 2xx status; the payload
// shape is then described by the returned hop.Response. Any other outcome
// is a transport failure, reported as an error. Non-2xx answers are
// *StatusError.
func (c *Client) Trace(ctx context.Context, target string) (hop.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for request slot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.traceURL(target), nil)
	if err != nil {
		return nil, fmt.Errorf("build traceroute request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("traceroute request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read traceroute response: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, maxBodyBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := hop.ErrorMessage(body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Message: msg}
	}

	return hop.Classify(body), nil
}

func (c *Client) traceURL(target string) string {
	u := c.endpoint.JoinPath("traceroute")
	u.RawQuery = url.Values{"target": []string{target}}.Encode()
	return u.String()
}
