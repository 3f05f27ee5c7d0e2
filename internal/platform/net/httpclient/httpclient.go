// Package httpclient builds outbound HTTP clients that retry connection errors
// and 5xx responses, logging intermediate failures through zerolog
package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"adwarden/internal/platform/logger"
)

// leveled adapts zerolog to retryablehttp.LeveledLogger
type leveled struct{ l *logger.Logger }

// Error is logged at warn since the request will usually be retried
func (z leveled) Error(msg string, kv ...any) { z.l.Warn().Fields(fields(kv)).Msg(msg) }
func (z leveled) Warn(msg string, kv ...any)  { z.l.Warn().Fields(fields(kv)).Msg(msg) }
func (z leveled) Info(msg string, kv ...any)  { z.l.Debug().Fields(fields(kv)).Msg(msg) }
func (z leveled) Debug(msg string, kv ...any) { z.l.Debug().Fields(fields(kv)).Msg(msg) }

func fields(kv []any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return m
}

// Option tweaks the underlying retry client
type Option func(*retryablehttp.Client)

// WithMaxRetries sets the retry count
func WithMaxRetries(n int) Option {
	return func(c *retryablehttp.Client) { c.RetryMax = n }
}

// WithWait sets the backoff bounds
func WithWait(lo, hi time.Duration) Option {
	return func(c *retryablehttp.Client) {
		c.RetryWaitMin = lo
		c.RetryWaitMax = hi
	}
}

// WithLogger routes retry logs to l
func WithLogger(l *logger.Logger) Option {
	return func(c *retryablehttp.Client) { c.Logger = retryablehttp.LeveledLogger(leveled{l: l}) }
}

// WithTransport swaps the transport, mostly for tests
func WithTransport(rt http.RoundTripper) Option {
	return func(c *retryablehttp.Client) { c.HTTPClient.Transport = rt }
}

// New returns a standard *http.Client backed by retryablehttp. Defaults: 3
// retries, 500ms..5s backoff, 30s overall timeout, 429 left to the caller
func New(timeout time.Duration, opts ...Option) *http.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Transport = cleanhttp.DefaultPooledTransport()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = retryablehttp.LeveledLogger(leveled{l: logger.Named("httpclient")})
	rc.CheckRetry = retryPolicy

	for _, o := range opts {
		o(rc)
	}

	c := rc.StandardClient()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c.Timeout = timeout
	return c
}

// retryPolicy is the library default minus 429, which callers handle themselves
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil && resp.StatusCode == http.StatusTooManyRequests {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}
