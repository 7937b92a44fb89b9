// internal/common/http/client.go
package http

import (
	"context"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Client wraps the stdlib client with the outbound etiquette the scraping
// stage needs: a hard timeout, a rotating user-agent pool, and a per-host
// rate limiter so bursts against one site stay polite.
type Client struct {
	httpClient *http.Client
	userAgents []string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	hostRate rate.Limit
	burst    int
}

type Option func(*Client)

// WithUserAgents sets the pool the client rotates through. An empty pool
// leaves the Go default user agent in place.
func WithUserAgents(agents []string) Option {
	return func(c *Client) {
		c.userAgents = agents
	}
}

// WithHostRateLimit bounds requests per second against any single host.
func WithHostRateLimit(perSec float64, burst int) Option {
	return func(c *Client) {
		c.hostRate = rate.Limit(perSec)
		c.burst = burst
	}
}

func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiters: make(map[string]*rate.Limiter),
		hostRate: rate.Inf,
		burst:    1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}

// Get issues a GET against rawURL with a rotated user agent, waiting on the
// host's rate limiter first. The context bounds both the wait and the request.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if ua := c.randomUserAgent(); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	if err := c.limiterFor(req.URL).Wait(ctx); err != nil {
		return nil, err
	}

	return c.httpClient.Do(req)
}

func (c *Client) randomUserAgent() string {
	if len(c.userAgents) == 0 {
		return ""
	}
	return c.userAgents[rand.Intn(len(c.userAgents))]
}

func (c *Client) limiterFor(u *url.URL) *rate.Limiter {
	host := u.Hostname()

	c.mu.Lock()
	defer c.mu.Unlock()

	if limiter, exists := c.limiters[host]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(c.hostRate, c.burst)
	c.limiters[host] = limiter
	return limiter
}
