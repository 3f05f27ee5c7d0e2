package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	pnet "adwarden/internal/platform/net"
	"adwarden/internal/platform/net/middleware"
)

func stacked(o middleware.StackOptions, h http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Stack(o)...)
	r.Get("/x", h)
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("kaboom") })
	return r
}

func TestStack(t *testing.T) {
	t.Parallel()
	h := stacked(middleware.StackOptions{}, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, strings.Repeat("ad ", 2048))
	})

	cases := []struct {
		name   string
		path   string
		header map[string]string
		check  func(t *testing.T, rr *httptest.ResponseRecorder)
	}{
		{"heartbeat", "/health", nil, func(t *testing.T, rr *httptest.ResponseRecorder) {
			if rr.Code != http.StatusOK {
				t.Fatalf("code %d", rr.Code)
			}
		}},
		{"trailing slash", "/x/", nil, func(t *testing.T, rr *httptest.ResponseRecorder) {
			if rr.Code != http.StatusOK {
				t.Fatalf("code %d", rr.Code)
			}
		}},
		{"no cache", "/x", nil, func(t *testing.T, rr *httptest.ResponseRecorder) {
			if rr.Header().Get("Cache-Control") == "" {
				t.Fatal("cache headers missing")
			}
		}},
		{"compressed", "/x", map[string]string{"Accept-Encoding": "gzip"}, func(t *testing.T, rr *httptest.ResponseRecorder) {
			if rr.Header().Get("Content-Encoding") != "gzip" {
				t.Fatalf("encoding %q", rr.Header().Get("Content-Encoding"))
			}
		}},
		{"cors preflight", "/x", map[string]string{
			"Origin":                         "https://panel.example",
			"Access-Control-Request-Method":  "POST",
			"Access-Control-Request-Headers": "Authorization",
		}, func(t *testing.T, rr *httptest.ResponseRecorder) {
			if !strings.Contains(rr.Header().Get("Access-Control-Allow-Headers"), "Authorization") {
				t.Fatalf("allow headers %q", rr.Header().Get("Access-Control-Allow-Headers"))
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			method := http.MethodGet
			if tc.name == "cors preflight" {
				method = http.MethodOptions
			}
			req := httptest.NewRequest(method, tc.path, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			tc.check(t, rr)
		})
	}
}

func TestRecoverJSON(t *testing.T) {
	t.Parallel()
	h := stacked(middleware.StackOptions{}, func(http.ResponseWriter, *http.Request) {})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("code %d", rr.Code)
	}
	var env pnet.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error != "panic recovered" || env.RequestID == "" || rr.Header().Get("X-Request-ID") != env.RequestID {
		t.Fatalf("env %+v header %q", env, rr.Header().Get("X-Request-ID"))
	}
}

func TestRecoverJSON_AbortHandlerPropagates(t *testing.T) {
	t.Parallel()
	h := middleware.RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	defer func() {
		if recover() != http.ErrAbortHandler {
			t.Fatal("expected ErrAbortHandler to be re-raised")
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}
