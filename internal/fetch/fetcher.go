package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ErrorKind classifies terminal fetch failures. All of them are
// source-local: callers treat a failed fetch as "zero listings from this
// source", never as a reason to abort the run.
type ErrorKind int

const (
	Unavailable ErrorKind = iota
	Timeout
	RateLimited
)

func (k ErrorKind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case RateLimited:
		return "rate_limited"
	default:
		return "unavailable"
	}
}

type Error struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the fetch error kind, or (Unavailable, false) if err is
// not a fetch error.
func KindOf(err error) (ErrorKind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return Unavailable, false
}

type Options struct {
	// Delay is the minimum gap between any two outbound requests,
	// regardless of which adapter issues them. Upstream boards share
	// origins, so the throttle is process-wide.
	Delay      time.Duration
	Timeout    time.Duration
	MaxRetries int
	UserAgent  string
}

func (o *Options) fill() {
	if o.Delay <= 0 {
		o.Delay = 2 * time.Second
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.UserAgent == "" {
		o.UserAgent = "JobScout/1.0 (+local)"
	}
}

// Client is the shared rate-limited HTTP client. Every adapter gets the
// same handle; the limiter serializes the wait-then-send step so the
// configured delay holds across all workers.
type Client struct {
	hc      *http.Client
	limiter *rate.Limiter
	opts    Options
}

func New(opts Options) *Client {
	opts.fill()
	return &Client{
		hc:      &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Every(opts.Delay), 1),
		opts:    opts,
	}
}

// Get fetches url with the process-wide throttle and retry-with-backoff
// on 429/5xx and transport errors. On repeated failure it returns a
// *Error rather than a raw transport error.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	var lastErr error
	lastKind := Unavailable

	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			// exponential backoff: delay, 2*delay, 4*delay, ...
			backoff := c.opts.Delay << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, &Error{Kind: Timeout, URL: url, Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Kind: Timeout, URL: url, Err: err}
		}

		body, kind, retry, err := c.do(ctx, url, headers)
		if err == nil {
			return body, nil
		}
		lastErr, lastKind = err, kind
		if !retry {
			break
		}
	}

	return nil, &Error{Kind: lastKind, URL: url, Err: lastErr}
}

func (c *Client) do(ctx context.Context, url string, headers map[string]string) (body []byte, kind ErrorKind, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, Unavailable, false, err
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, Timeout, true, err
		}
		return nil, Unavailable, true, err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, RateLimited, true, fmt.Errorf("status %d", res.StatusCode)
	case res.StatusCode >= 500:
		return nil, Unavailable, true, fmt.Errorf("status %d", res.StatusCode)
	case res.StatusCode >= 400:
		// 4xx other than 429 will not get better on a retry
		return nil, Unavailable, false, fmt.Errorf("status %d", res.StatusCode)
	}

	body, err = io.ReadAll(res.Body)
	if err != nil {
		return nil, Unavailable, true, err
	}
	return body, Unavailable, false, nil
}

func isTimeout(err error) bool {
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
