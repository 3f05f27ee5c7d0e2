package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	perrs "adwarden/internal/platform/errors"
	phttp "adwarden/internal/platform/net/http"
)

type pingIn struct {
	Text string `json:"text" validate:"required"`
}

func newAPI(t *testing.T, admin string) *chi.Mux {
	t.Helper()
	m := chi.NewRouter()
	MountAPIV1(phttp.AdaptChi(m), nil, func(api Router) {
		Get(api, "/ping", func(*http.Request) (any, error) { return map[string]string{"pong": "1"}, nil })
		Get(api, "/missing", func(*http.Request) (any, error) { return nil, perrs.NotFoundf("no such user") })
		Post(api, "/made", func(*http.Request) (any, error) { return phttp.Response{Status: http.StatusCreated, Body: "x"}, nil })
		PostJSON(api, "/echo", func(_ *http.Request, in pingIn) (any, error) { return in, nil })
		Protected(api, AdminToken(admin), func(r Router) {
			Delete(r, "/things/{id}", func(r *http.Request) (any, error) { return chi.URLParam(r, "id"), nil })
		})
	})
	return m
}

func hit(m http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, req)
	return rr
}

func TestRoutes_Envelope(t *testing.T) {
	t.Parallel()
	m := newAPI(t, "")

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"get ok", http.MethodGet, "/api/v1/ping", "", http.StatusOK},
		{"typed error", http.MethodGet, "/api/v1/missing", "", http.StatusNotFound},
		{"response passthrough", http.MethodPost, "/api/v1/made", "", http.StatusCreated},
		{"json body", http.MethodPost, "/api/v1/echo", `{"text":"hi"}`, http.StatusOK},
		{"json validation", http.MethodPost, "/api/v1/echo", `{}`, http.StatusBadRequest},
		{"outside prefix", http.MethodGet, "/ping", "", http.StatusNotFound},
		{"open admin", http.MethodDelete, "/api/v1/things/7", "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rr := hit(m, tc.method, tc.path, tc.body, "")
			if rr.Code != tc.status {
				t.Fatalf("status %d want %d body=%s", rr.Code, tc.status, rr.Body.String())
			}
		})
	}
}

func TestRoutes_EchoData(t *testing.T) {
	t.Parallel()
	rr := hit(newAPI(t, ""), http.MethodPost, "/api/v1/echo", `{"text":"hi"}`, "")

	var env struct {
		Data pingIn `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil || env.Data.Text != "hi" {
		t.Fatalf("bad envelope %s (%v)", rr.Body.String(), err)
	}
}

func TestProtected_GatesOnlyItsGroup(t *testing.T) {
	t.Parallel()
	m := newAPI(t, "s3cret")

	if rr := hit(m, http.MethodGet, "/api/v1/ping", "", ""); rr.Code != http.StatusOK {
		t.Fatalf("public route gated: %d", rr.Code)
	}
	if rr := hit(m, http.MethodDelete, "/api/v1/things/7", "", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	rr := hit(m, http.MethodDelete, "/api/v1/things/7", "", "s3cret")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"data":"7"`) {
		t.Fatalf("admin call: %d %s", rr.Code, rr.Body.String())
	}
}

func TestCall_UntypedErrorIs500(t *testing.T) {
	t.Parallel()
	rr := httptest.NewRecorder()
	call(func(*http.Request) (any, error) { return nil, errors.New("boom") })(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}
