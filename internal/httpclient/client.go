// Package httpclient provides a rate-limited HTTP client for external APIs.
package httpclient

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/Riyan-420/CryptoSentinel-V2/errors"
)

// RateLimitedClient wraps http.Client with a token-bucket rate limiter.
// Public market APIs throttle unauthenticated callers aggressively, so every
// request waits for limiter admission before going out.
type RateLimitedClient struct {
	*http.Client
	limiter *rate.Limiter
}

// New creates a client with the given timeout and request budget per minute.
func New(timeout time.Duration, requestsPerMinute float64) *RateLimitedClient {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 10
	}
	return &RateLimitedClient{
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerMinute/60.0), 1),
	}
}

// Do waits for rate-limiter admission, then performs the request.
func (c *RateLimitedClient) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, errors.Wrap(err, "rate limiter wait")
	}
	return c.Client.Do(req)
}

// Get performs a rate-limited GET with the given context.
func (c *RateLimitedClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	return c.Do(req)
}
