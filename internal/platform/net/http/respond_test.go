package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "adwarden/internal/platform/errors"
	pnet "adwarden/internal/platform/net"
	phttp "adwarden/internal/platform/net/http"
)

type verdictDTO struct {
	UserID string `json:"userId" validate:"required"`
	IsAd   bool   `json:"isAd"`
}

func run(h http.HandlerFunc, body string) (*httptest.ResponseRecorder, phttp.Envelope) {
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	req = req.WithContext(pnet.WithRequest(req.Context(), "rid-1"))
	rr := httptest.NewRecorder()
	h(rr, req)

	var env phttp.Envelope
	if rr.Body.Len() > 0 {
		_ = json.Unmarshal(rr.Body.Bytes(), &env)
	}
	return rr, env
}

func TestHandle_Envelope(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		resp   phttp.Response
		status int
		code   perr.ErrorCode
		errMsg string
	}{
		{"ok", phttp.OK(map[string]bool{"isAd": true}), http.StatusOK, 0, ""},
		{"zero status", phttp.Response{Body: 1}, http.StatusOK, 0, ""},
		{"not found", phttp.Error(perr.NotFoundf("no stats for user")), http.StatusNotFound, perr.ErrorCodeNotFound, "no stats for user"},
		{"too many", phttp.Error(perr.TooManyf("queue full")), http.StatusTooManyRequests, perr.ErrorCodeTooManyRequests, "queue full"},
		{"plain error", phttp.Error(errors.New("boom")), http.StatusInternalServerError, perr.ErrorCodeUnknown, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rr, env := run(phttp.Handle(func(*http.Request) phttp.Response { return tc.resp }), "")
			if rr.Code != tc.status || env.StatusCode != tc.status {
				t.Fatalf("status %d/%d want %d", rr.Code, env.StatusCode, tc.status)
			}
			if env.RequestID != "rid-1" || env.Status != http.StatusText(tc.status) {
				t.Fatalf("envelope meta: %+v", env)
			}
			if env.Code != tc.code {
				t.Fatalf("code %v want %v", env.Code, tc.code)
			}
			if tc.errMsg != "" && env.Error != tc.errMsg {
				t.Fatalf("error %q want %q", env.Error, tc.errMsg)
			}
		})
	}
}

func TestHandle_NoContentAndHeaders(t *testing.T) {
	t.Parallel()
	rr, _ := run(phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Response{Status: http.StatusNoContent, Header: http.Header{"X-Queue": {"3"}}}
	}), "")
	if rr.Code != http.StatusNoContent || rr.Body.Len() != 0 {
		t.Fatalf("expected bare 204, got %d %q", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Queue") != "3" {
		t.Fatalf("header lost")
	}
}

func TestJSONHandler(t *testing.T) {
	t.Parallel()
	called := 0
	h := phttp.JSONHandler(func(_ *http.Request, in verdictDTO) (any, error) {
		called++
		if in.UserID == "boom" {
			return nil, perr.Upstreamf("provider down")
		}
		return in, nil
	})

	cases := []struct {
		body   string
		status int
	}{
		{`{"userId":"10001","isAd":true}`, http.StatusOK},
		{`{`, http.StatusBadRequest},
		{`{"isAd":true}`, http.StatusBadRequest},
		{`{"userId":"boom"}`, perr.HTTPStatusCode(perr.ErrorCodeUpstream)},
	}
	for _, tc := range cases {
		if rr, _ := run(h, tc.body); rr.Code != tc.status {
			t.Fatalf("%s: %d want %d body=%s", tc.body, rr.Code, tc.status, rr.Body.String())
		}
	}
	if called != 2 {
		t.Fatalf("handler should run only for bodies that bind, ran %d", called)
	}
}

func TestJSON_ContentType(t *testing.T) {
	t.Parallel()
	rr := httptest.NewRecorder()
	phttp.JSON(rr, http.StatusAccepted, map[string]int{"queued": 1})
	if rr.Code != http.StatusAccepted || !strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("bad write: %d %v", rr.Code, rr.Header())
	}
}
