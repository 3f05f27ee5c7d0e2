package cloudrules

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"adwarden/internal/platform/net/httpclient"
	"adwarden/internal/platform/testkit"
)

func TestRawURL(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"https://gitee.com/a/b/blob/master/k.json", "https://gitee.com/a/b/raw/master/k.json"},
		{"https://github.com/a/b/blob/main/k.json", "https://raw.githubusercontent.com/a/b/main/k.json"},
		{"https://gitlab.com/a/b/-/blob/main/k.txt", "https://gitlab.com/a/b/-/raw/main/k.txt"},
		{"https://gitee.com/a/b/raw/master/k.json", "https://gitee.com/a/b/raw/master/k.json"},
		{"https://example.com/blob/k.json", "https://example.com/blob/k.json"},
	}
	for _, c := range cases {
		if got := RawURL(c.in); got != c.want {
			t.Fatalf("RawURL(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want []string
	}{
		{"array", `["vx", 3, "代理"]`, []string{"vx", "代理"}},
		{"keywords", `{"keywords":["a","b"]}`, []string{"a", "b"}},
		{"data", `{"data":["c"]}`, []string{"c"}},
		{"other object", `{"items":["x"]}`, []string{}},
		{"text", "兼职\n\n  日结 \r\n", []string{"兼职", "日结"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Parse([]byte(c.body)); !slices.Equal(got, c.want) {
				t.Fatalf("Parse=%q want %q", got, c.want)
			}
		})
	}
}

func newManager(url string, local ...string) *Manager {
	return New(Options{
		LocalKeywords: local,
		CloudEnabled:  true,
		URL:           url,
		HTTP:          httpclient.New(2*time.Second, httpclient.WithMaxRetries(0)),
	})
}

func TestRefresh_SwapsOnlyOnSuccess(t *testing.T) {
	t.Parallel()

	var mode atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		switch mode.Load() {
		case 0:
			_, _ = w.Write([]byte(`["兼职","加"]`))
		case 1:
			_, _ = w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	m := newManager(srv.URL, "加", "群")
	ctx := context.Background()

	if err := m.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := m.AllKeywords(); !slices.Equal(got, []string{"加", "群", "兼职"}) {
		t.Fatalf("all keywords %q", got)
	}
	first := m.Stats()
	if first.CloudCount != 2 || first.TotalCount != 3 || first.LastUpdateTime.IsZero() {
		t.Fatalf("stats %+v", first)
	}

	mode.Store(1)
	if err := m.Refresh(ctx); err == nil {
		t.Fatalf("empty list should report an error")
	}
	mode.Store(2)
	if err := m.Refresh(ctx); err == nil {
		t.Fatalf("404 should report an error")
	}
	if got := m.CloudKeywords(); !slices.Equal(got, []string{"兼职", "加"}) {
		t.Fatalf("cache must survive failed refreshes, got %q", got)
	}
	if m.Stats().LastUpdateTime != first.LastUpdateTime {
		t.Fatalf("failed refresh must not bump the update time")
	}
}

func TestDisabledCloudUsesLocalOnly(t *testing.T) {
	t.Parallel()

	m := New(Options{LocalKeywords: []string{"免费"}})
	if err := m.Refresh(context.Background()); err == nil {
		t.Fatalf("refresh on disabled manager should fail")
	}
	m.Start(context.Background())
	m.Stop()
	if got := m.AllKeywords(); !slices.Equal(got, []string{"免费"}) {
		t.Fatalf("keywords %q", got)
	}
	if !m.Matches("限时免费领取") || m.Matches("hello") {
		t.Fatalf("local keyword matching broken")
	}
}

func TestStart_FetchesImmediately(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("刷单\n"))
	}))
	defer srv.Close()

	m := newManager(srv.URL)
	m.Start(context.Background())
	m.Start(context.Background())
	defer m.Stop()

	testkit.Eventually(t, 2*time.Second, func() bool { return len(m.CloudKeywords()) == 1 }, "initial fetch")
	if hits.Load() != 1 {
		t.Fatalf("expected a single initial fetch, got %d", hits.Load())
	}
}

func TestContainsKeyword(t *testing.T) {
	t.Parallel()

	kws := []string{"加群", "VX", "  "}
	cases := []struct {
		text string
		want bool
	}{
		{"快来加群领福利", true},
		{"加 . 群 123456", true},
		{"私聊ｖｘ", true},
		{"今天天气不错", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ContainsKeyword(c.text, kws); got != c.want {
			t.Fatalf("ContainsKeyword(%q)=%v want %v", c.text, got, c.want)
		}
	}
	if ContainsKeyword("加群", nil) {
		t.Fatalf("no keywords never matches")
	}
}
