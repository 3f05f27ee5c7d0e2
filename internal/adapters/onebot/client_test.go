package onebot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "adwarden/internal/platform/errors"
)

func serve(t *testing.T, body string, check func(*http.Request, map[string]string)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var params map[string]string
		_ = json.NewDecoder(r.Body).Decode(&params)
		if check != nil {
			check(r, params)
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL + "/", AccessToken: "secret"})
}

func TestNew_NoURL(t *testing.T) {
	t.Parallel()

	if c := New(Options{BaseURL: "  "}); c != nil {
		t.Fatalf("expected nil client without base url")
	}
}

func TestFetchBundle_Messages(t *testing.T) {
	t.Parallel()

	body := `{"status":"ok","retcode":0,"data":{"messages":[
		{"message":[{"type":"text","data":{"text":"加群"}}]},
		{"raw_message":"hi"}
	]}}`
	c := serve(t, body, func(r *http.Request, p map[string]string) {
		if r.URL.Path != "/get_forward_msg" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing token")
		}
		if p["message_id"] != "f1" || p["id"] != "f1" {
			t.Errorf("params=%v", p)
		}
	})

	msgs, err := c.FetchBundle(context.Background(), "f1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(msgs) != 2 || len(msgs[0].Segments) != 1 || msgs[1].RawText == nil || *msgs[1].RawText != "hi" {
		t.Fatalf("msgs=%+v", msgs)
	}
}

func TestFetchBundle_NullData(t *testing.T) {
	t.Parallel()

	c := serve(t, `{"status":"ok","retcode":0,"data":null}`, nil)
	msgs, err := c.FetchBundle(context.Background(), "f1")
	if err != nil || len(msgs) != 0 {
		t.Fatalf("msgs=%v err=%v", msgs, err)
	}
}

func TestFetchBundle_Retcode(t *testing.T) {
	t.Parallel()

	c := serve(t, `{"status":"failed","retcode":1200,"message":"not found"}`, nil)
	_, err := c.FetchBundle(context.Background(), "f1")
	if !perr.IsCode(err, perr.ErrorCodeUpstream) {
		t.Fatalf("want upstream error, got %v", err)
	}
}
