// Package llm talks to OpenAI compatible chat completion endpoints to
// classify text and read images, rotating API keys and retrying transient
// failures with status-aware backoff
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/time/rate"

	"adwarden/internal/platform/logger"
)

const maxBody = 1 << 20

// rotation says when the key cursor moves during a retry chain
type rotation int

const (
	// before every attempt
	rotateEachAttempt rotation = iota
	// after a success, or after a retryable failure when more than one key exists
	rotateOnOutcome
)

// completer runs one chat completion with retries against a single endpoint
type completer struct {
	kind     string
	http     *http.Client
	endpoint string
	keys     *KeyPool
	timeout  time.Duration
	retries  int
	delay    time.Duration
	rotate   rotation
	limiter  *rate.Limiter
	log      *logger.Logger

	// injectable for tests
	sleep  func(context.Context, time.Duration) error
	jitter func() float64
}

func newCompleter(kind, endpoint string, keys []string, timeout time.Duration, retries int, delay time.Duration, rot rotation, log *logger.Logger) *completer {
	return &completer{
		kind:     kind,
		http:     cleanhttp.DefaultPooledClient(),
		endpoint: Endpoint(endpoint),
		keys:     NewKeyPool(keys),
		timeout:  timeout,
		retries:  retries,
		delay:    delay,
		rotate:   rot,
		log:      log,
		sleep:    sleepCtx,
		jitter:   rand.Float64,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// complete returns the raw reply content of the first choice
func (c *completer) complete(ctx context.Context, body chatRequest) (string, error) {
	var last error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		var (
			key string
			idx int
			err error
		)
		if c.rotate == rotateEachAttempt {
			key, idx, err = c.keys.Next()
		} else {
			key, idx, err = c.keys.Current()
		}
		if err != nil {
			return "", err
		}

		reply, err := c.once(ctx, key, body)
		if err == nil {
			if c.rotate == rotateOnOutcome {
				c.keys.Advance()
			}
			return reply, nil
		}
		last = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !retryable(err) {
			c.log.Warn().Err(err).Str("kind", c.kind).Int("attempt", attempt).Msg("model call failed, not retryable")
			break
		}
		if c.rotate == rotateOnOutcome && c.keys.Len() > 1 {
			c.keys.Advance()
		}
		if attempt == c.retries {
			break
		}

		back := c.backoff(attempt, err)
		c.log.Warn().Err(err).
			Str("kind", c.kind).
			Int("attempt", attempt).
			Int("key_index", idx).
			Dur("retry_in", back).
			Str("error_kind", errorKind(err)).
			Msg("model call failed, retrying")
		if err := c.sleep(ctx, back); err != nil {
			return "", err
		}
	}
	return "", &FailedError{Kind: errorKind(last), Last: last}
}

// backoff picks the wait before the next attempt from the failure kind:
// 503 doubles up to 30s, 429 doubles up to 60s, timeouts wait at most 2s,
// other server errors grow by 1.5x up to 15s, anything else waits the base.
// Up to 30% jitter is added on top
func (c *completer) backoff(attempt int, err error) time.Duration {
	base := float64(c.delay)
	s := statusOf(err)
	var d float64
	switch {
	case s == http.StatusServiceUnavailable:
		d = math.Min(base*math.Pow(2, float64(attempt)), float64(30*time.Second))
	case s == http.StatusTooManyRequests:
		d = math.Min(base*math.Pow(2, float64(attempt)), float64(60*time.Second))
	case isTimeout(err):
		d = math.Min(base, float64(2*time.Second))
	case s >= 500:
		d = math.Min(base*math.Pow(1.5, float64(attempt)), float64(15*time.Second))
	default:
		d = base
	}
	d += c.jitter() * 0.3 * d
	return time.Duration(d).Truncate(time.Millisecond)
}

// once is a single attempt bounded by its own timeout
func (c *completer) once(ctx context.Context, key string, body chatRequest) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	actx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	buf, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(actx, http.MethodPost, c.endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	modelLatency.WithLabelValues(c.kind).Observe(time.Since(start).Seconds())
	if err != nil {
		modelRequests.WithLabelValues(c.kind, "transport").Inc()
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		modelRequests.WithLabelValues(c.kind, "status").Inc()
		return "", &StatusError{Status: resp.StatusCode, Body: string(tail)}
	}

	var out chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&out); err != nil {
		modelRequests.WithLabelValues(c.kind, "malformed").Inc()
		c.log.Debug().Err(err).Str("kind", c.kind).Msg("model response did not decode")
		return "", ErrMalformedResponse
	}
	if len(out.Choices) == 0 {
		modelRequests.WithLabelValues(c.kind, "malformed").Inc()
		return "", ErrMalformedResponse
	}
	modelRequests.WithLabelValues(c.kind, "ok").Inc()
	return out.Choices[0].Message.Content, nil
}
