// Package onebot fetches forwarded message bundles from a OneBot v11 HTTP API
package onebot

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"adwarden/internal/core/forward"
	"adwarden/internal/platform/config"
	perr "adwarden/internal/platform/errors"
	"adwarden/internal/platform/logger"
	"adwarden/internal/platform/net/httpclient"
)

const (
	defaultTimeout = 10 * time.Second
	maxBody        = 8 << 20
)

// Options configures the Client
type Options struct {
	// BaseURL of the OneBot HTTP API, e.g. http://127.0.0.1:3000
	BaseURL     string
	AccessToken string
	Timeout     time.Duration
	Log         *logger.Logger
}

// FromConfig reads ADWARDEN_ONEBOT_* variables
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("ADWARDEN_ONEBOT_")
	return Options{
		BaseURL:     c.MayString("URL", ""),
		AccessToken: c.MayString("TOKEN", ""),
		Timeout:     c.MayDuration("TIMEOUT", defaultTimeout),
	}
}

// Client implements forward.Fetcher over get_forward_msg
type Client struct {
	base  string
	token string
	http  *http.Client
	log   *logger.Logger
}

var _ forward.Fetcher = (*Client)(nil)

// New returns nil when no base URL is configured so callers can treat the
// fetcher as absent
func New(o Options) *Client {
	base := strings.TrimSuffix(strings.TrimSpace(o.BaseURL), "/")
	if base == "" {
		return nil
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Log == nil {
		o.Log = logger.Named("onebot")
	}
	return &Client{
		base:  base,
		token: o.AccessToken,
		http:  httpclient.New(o.Timeout, httpclient.WithLogger(o.Log)),
		log:   o.Log,
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Retcode int             `json:"retcode"`
	Message string          `json:"message"`
	Wording string          `json:"wording"`
	Data    json.RawMessage `json:"data"`
}

// FetchBundle calls get_forward_msg. A null or missing data field yields an
// empty bundle
func (c *Client) FetchBundle(ctx context.Context, id string) ([]forward.Message, error) {
	// implementations disagree on the parameter name
	payload, _ := json.Marshal(map[string]string{"message_id": id, "id": id})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/get_forward_msg", bytes.NewReader(payload))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "onebot new request failed")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "onebot get_forward_msg failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, perr.Upstreamf("onebot get_forward_msg status %d body %s", resp.StatusCode, string(tail))
	}

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&env); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "onebot envelope decode failed")
	}
	if env.Retcode != 0 || (env.Status != "" && env.Status != "ok") {
		return nil, perr.Upstreamf("onebot get_forward_msg retcode %d: %s %s", env.Retcode, env.Message, env.Wording)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}

	msgs, err := forward.DecodeBundle(env.Data)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "onebot bundle decode failed")
	}
	c.log.Debug().Str("forward_id", id).Int("messages", len(msgs)).Msg("forward bundle fetched")
	return msgs, nil
}
