package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adwarden/internal/platform/config"
	phttp "adwarden/internal/platform/net/http"
)

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func TestRouter_GroupsRoutesAndMiddleware(t *testing.T) {
	t.Parallel()
	srv := phttp.NewServer(config.New().Prefix("ROUTER_TEST_"))
	r := srv.Router()

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Seen", "1")
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/api", func(api phttp.Router) {
		api.Get("/queue", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "q") })
		api.Group(func(g phttp.Router) {
			g.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusUnauthorized) })
			})
			g.Post("/queue/reset", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
		})
		api.Delete("/safe/{id}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	})
	r.Handle("/raw", http.NotFoundHandler())

	h := srv.Handler()
	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/queue", http.StatusOK},
		{http.MethodPost, "/api/queue/reset", http.StatusUnauthorized},
		{http.MethodDelete, "/api/safe/9", http.StatusNoContent},
		{http.MethodPost, "/api/queue", http.StatusMethodNotAllowed},
		{http.MethodGet, "/raw", http.StatusNotFound},
	}
	for _, tc := range cases {
		rr := serve(h, tc.method, tc.path)
		if rr.Code != tc.status {
			t.Fatalf("%s %s: %d want %d", tc.method, tc.path, rr.Code, tc.status)
		}
		if rr.Header().Get("X-Seen") != "1" {
			t.Fatalf("%s %s: root middleware skipped", tc.method, tc.path)
		}
	}
}

func TestServer_RunStopsWithContext(t *testing.T) {
	t.Setenv("API_PORT", "127.0.0.1:0")
	srv := phttp.NewServer(config.New())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestServer_RunReportsListenError(t *testing.T) {
	t.Setenv("API_PORT", "127.0.0.1:abc")
	if err := phttp.NewServer(config.New()).Run(context.Background()); err == nil {
		t.Fatalf("expected listen error")
	}
}

func TestMountProfiler(t *testing.T) {
	t.Parallel()
	for _, enabled := range []bool{true, false} {
		srv := phttp.NewServer(config.New().Prefix("PPROF_TEST_"))
		phttp.MountProfiler(srv.Router(), "/debug", enabled)

		want := http.StatusNotFound
		if enabled {
			want = http.StatusOK
		}
		if rr := serve(srv.Handler(), http.MethodGet, "/debug/pprof/cmdline"); rr.Code != want {
			t.Fatalf("enabled=%v: %d want %d", enabled, rr.Code, want)
		}
	}
}
