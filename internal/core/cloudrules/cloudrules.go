// Package cloudrules keeps the keyword pre-filter list: local keywords plus a
// list fetched periodically from a remote file
package cloudrules

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"adwarden/internal/platform/config"
	perr "adwarden/internal/platform/errors"
	"adwarden/internal/platform/logger"
	"adwarden/internal/platform/net/httpclient"
)

// Defaults
const (
	DefaultURL            = "https://gitee.com/ibaizhan/ziyuankuXbai/raw/master/Advertising_keywords.json"
	DefaultUpdateInterval = 24 * time.Hour
	fetchTimeout          = 30 * time.Second
	maxBody               = 4 << 20
)

// DefaultLocalKeywords seed the pre-filter
var DefaultLocalKeywords = []string{"加", "伽", "免费", "赚", "群", "裙"}

// Options configures a Manager
type Options struct {
	LocalKeywords  []string
	CloudEnabled   bool
	URL            string
	UpdateInterval time.Duration
	HTTP           *http.Client
	Log            *logger.Logger
}

// FromConfig reads options using the ADWARDEN_CLOUD_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("ADWARDEN_CLOUD_")
	return Options{
		LocalKeywords:  c.MayCSV("LOCAL_KEYWORDS", DefaultLocalKeywords),
		CloudEnabled:   c.MayBool("ENABLED", false),
		URL:            c.MayString("URL", DefaultURL),
		UpdateInterval: time.Duration(c.MayIntIn("UPDATE_HOURS", 24, 1, 168)) * time.Hour,
	}
}

// Stats describes the current keyword set
type Stats struct {
	LocalCount     int       `json:"localCount"`
	CloudCount     int       `json:"cloudCount"`
	TotalCount     int       `json:"totalCount"`
	LastUpdateTime time.Time `json:"lastUpdateTime"`
}

type snapshot struct {
	keywords []string
	fetched  time.Time
}

// Manager owns the cloud keyword cache. Readers never block on a refresh
type Manager struct {
	opt   Options
	cloud atomic.Pointer[snapshot]

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Manager
func New(opt Options) *Manager {
	if opt.LocalKeywords == nil {
		opt.LocalKeywords = DefaultLocalKeywords
	}
	if opt.URL == "" {
		opt.URL = DefaultURL
	}
	if opt.UpdateInterval <= 0 {
		opt.UpdateInterval = DefaultUpdateInterval
	}
	if opt.Log == nil {
		opt.Log = logger.Named("cloudrules")
	}
	if opt.HTTP == nil {
		opt.HTTP = httpclient.New(fetchTimeout, httpclient.WithLogger(opt.Log))
	}
	m := &Manager{opt: opt}
	m.cloud.Store(&snapshot{})
	return m
}

// CloudKeywords returns a copy of the cached remote list
func (m *Manager) CloudKeywords() []string {
	return append([]string(nil), m.cloud.Load().keywords...)
}

// AllKeywords returns local then cloud keywords, deduplicated, first wins.
// Cloud keywords are included only when the cloud list is enabled
func (m *Manager) AllKeywords() []string {
	var cloud []string
	if m.opt.CloudEnabled {
		cloud = m.cloud.Load().keywords
	}
	seen := make(map[string]struct{}, len(m.opt.LocalKeywords)+len(cloud))
	out := make([]string, 0, len(m.opt.LocalKeywords)+len(cloud))
	for _, list := range [][]string{m.opt.LocalKeywords, cloud} {
		for _, k := range list {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

// Stats reports counts and the last successful fetch
func (m *Manager) Stats() Stats {
	snap := m.cloud.Load()
	return Stats{
		LocalCount:     len(m.opt.LocalKeywords),
		CloudCount:     len(snap.keywords),
		TotalCount:     len(m.AllKeywords()),
		LastUpdateTime: snap.fetched,
	}
}

// Matches reports whether text contains any active keyword
func (m *Manager) Matches(text string) bool {
	return ContainsKeyword(text, m.AllKeywords())
}

// Refresh fetches the remote list once. On success with at least one keyword
// the cache is swapped; otherwise it is left untouched and an error returned
func (m *Manager) Refresh(ctx context.Context) error {
	if !m.opt.CloudEnabled {
		return perr.Newf(perr.ErrorCodeUnavailable, "cloud keyword list is disabled")
	}
	src := RawURL(m.opt.URL)

	kws, err := m.fetch(ctx, src)
	if err != nil {
		m.opt.Log.Warn().Err(err).Str("url", src).Msg("cloud keyword refresh failed")
		return err
	}
	if len(kws) == 0 {
		m.opt.Log.Warn().Str("url", src).Msg("cloud keyword refresh returned no keywords")
		return perr.Newf(perr.ErrorCodeUpstream, "no keywords in %s", src)
	}

	m.cloud.Store(&snapshot{keywords: kws, fetched: time.Now()})
	m.opt.Log.Info().Int("count", len(kws)).Str("url", src).Msg("cloud keywords updated")
	return nil
}

func (m *Manager) fetch(ctx context.Context, src string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "build cloud keyword request")
	}
	resp, err := m.opt.HTTP.Do(req)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "fetch cloud keywords")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, perr.Newf(perr.ErrorCodeUpstream, "cloud keywords: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "read cloud keywords")
	}
	return Parse(body), nil
}

// Start refreshes immediately, then every UpdateInterval until Stop. A no-op
// when the cloud list is disabled or already running
func (m *Manager) Start(ctx context.Context) {
	if !m.opt.CloudEnabled {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		_ = m.Refresh(ctx)

		tick := time.NewTicker(m.opt.UpdateInterval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				_ = m.Refresh(ctx)
			}
		}
	}()
	m.opt.Log.Info().Dur("interval", m.opt.UpdateInterval).Msg("cloud keyword updates started")
}

// Stop halts periodic refresh
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
		m.wg.Wait()
	}
}

// RawURL rewrites git hosting "blob" page links to their raw file form
func RawURL(u string) string {
	if !strings.Contains(u, "/blob/") {
		return u
	}
	switch {
	case strings.Contains(u, "gitee.com"):
		return strings.Replace(u, "/blob/", "/raw/", 1)
	case strings.Contains(u, "github.com"):
		u = strings.Replace(u, "github.com", "raw.githubusercontent.com", 1)
		return strings.Replace(u, "/blob/", "/", 1)
	case strings.Contains(u, "gitlab.com"):
		return strings.Replace(u, "/blob/", "/raw/", 1)
	}
	return u
}

// Parse accepts a JSON array, an object with "keywords" or "data" arrays, or
// newline separated text. Non-string entries are ignored
func Parse(body []byte) []string {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		var out []string
		for _, line := range strings.Split(string(body), "\n") {
			if s := strings.TrimSpace(line); s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	var list []any
	switch t := v.(type) {
	case []any:
		list = t
	case map[string]any:
		if kw, ok := t["keywords"].([]any); ok {
			list = kw
		} else if d, ok := t["data"].([]any); ok {
			list = d
		}
	}
	out := make([]string, 0, len(list))
	for _, it := range list {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
