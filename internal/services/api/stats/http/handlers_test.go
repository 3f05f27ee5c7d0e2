package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"adwarden/internal/modkit/httpkit"
	phttp "adwarden/internal/platform/net/http"
	statsdom "adwarden/internal/services/msgstats/domain"
)

type fakeStats struct {
	rows        map[string]statsdom.UserStats // key user|guild
	cleanupDays int
}

func (f *fakeStats) UserStats(_ context.Context, userID, guildID string) (*statsdom.UserStats, error) {
	s, ok := f.rows[userID+"|"+guildID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeStats) GuildStats(_ context.Context, guildID string) ([]statsdom.UserStats, error) {
	var out []statsdom.UserStats
	for _, s := range f.rows {
		if s.GuildID == guildID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStats) UserAllStats(_ context.Context, userID string) ([]statsdom.UserStats, error) {
	var out []statsdom.UserStats
	for _, s := range f.rows {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStats) Overview(context.Context) (statsdom.Overview, error) {
	return statsdom.Overview{TotalUsers: int64(len(f.rows)), TotalAdMessages: 1}, nil
}

func (f *fakeStats) CleanupOldData(_ context.Context, days int) (int64, error) {
	f.cleanupDays = days
	return 2, nil
}

type fakeSafe struct{ users map[string]bool } // key guild|user

func (f *fakeSafe) IsSafe(_ context.Context, g, u string) (bool, error) { return f.users[g+"|"+u], nil }

func (f *fakeSafe) SafeList(_ context.Context, g string) ([]statsdom.SafeEntry, error) {
	var out []statsdom.SafeEntry
	for k := range f.users {
		if gu := strings.SplitN(k, "|", 2); gu[0] == g {
			out = append(out, statsdom.SafeEntry{GuildID: g, UserID: gu[1]})
		}
	}
	return out, nil
}

func (f *fakeSafe) AddSafe(_ context.Context, g, u string) (bool, error) {
	if f.users[g+"|"+u] {
		return false, nil
	}
	f.users[g+"|"+u] = true
	return true, nil
}

func (f *fakeSafe) RemoveSafe(_ context.Context, g, u string) (bool, error) {
	if !f.users[g+"|"+u] {
		return false, nil
	}
	delete(f.users, g+"|"+u)
	return true, nil
}

func serve(t *testing.T, h stdhttp.Handler, method, path, body, token string) (int, json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s: %v body=%s", method, path, err, rr.Body.String())
	}
	return rr.Code, env.Data
}

func newStatsMux(s *fakeStats) *chi.Mux {
	m := chi.NewRouter()
	Register(phttp.AdaptChi(m), s, httpkit.AdminToken("s3cret"))
	return m
}

func TestStats_ReadRoutes(t *testing.T) {
	t.Parallel()
	s := &fakeStats{rows: map[string]statsdom.UserStats{
		"u1|g1": {UserID: "u1", GuildID: "g1", AdCount: 1, NormalCount: 4},
		"u1|g2": {UserID: "u1", GuildID: "g2", NormalCount: 9},
		"u2|g1": {UserID: "u2", GuildID: "g1", NormalCount: 2},
	}}
	m := newStatsMux(s)

	code, raw := serve(t, m, stdhttp.MethodGet, "/overview", "", "")
	var o statsdom.Overview
	if code != stdhttp.StatusOK || json.Unmarshal(raw, &o) != nil || o.TotalUsers != 3 {
		t.Fatalf("overview: %d %s", code, raw)
	}

	var list []statsdom.UserStats
	code, raw = serve(t, m, stdhttp.MethodGet, "/guilds/g1", "", "")
	if code != stdhttp.StatusOK || json.Unmarshal(raw, &list) != nil || len(list) != 2 {
		t.Fatalf("guild: %d %s", code, raw)
	}

	code, raw = serve(t, m, stdhttp.MethodGet, "/users/u1", "", "")
	if code != stdhttp.StatusOK || json.Unmarshal(raw, &list) != nil || len(list) != 2 {
		t.Fatalf("user across guilds: %d %s", code, raw)
	}

	var one statsdom.UserStats
	code, raw = serve(t, m, stdhttp.MethodGet, "/guilds/g1/users/u1", "", "")
	if code != stdhttp.StatusOK || json.Unmarshal(raw, &one) != nil || one.NormalCount != 4 {
		t.Fatalf("user in guild: %d %s", code, raw)
	}
}

func TestStats_UnknownUserIsNotFound(t *testing.T) {
	t.Parallel()
	m := newStatsMux(&fakeStats{})

	if code, _ := serve(t, m, stdhttp.MethodGet, "/guilds/g1/users/nobody", "", ""); code != stdhttp.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestStats_CleanupNeedsAdmin(t *testing.T) {
	t.Parallel()
	s := &fakeStats{}
	m := newStatsMux(s)

	if code, _ := serve(t, m, stdhttp.MethodPost, "/cleanup", `{"days":30}`, ""); code != stdhttp.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	code, raw := serve(t, m, stdhttp.MethodPost, "/cleanup", `{"days":30}`, "s3cret")
	if code != stdhttp.StatusOK || s.cleanupDays != 30 || !strings.Contains(string(raw), `"removed":2`) {
		t.Fatalf("cleanup: %d %s days=%d", code, raw, s.cleanupDays)
	}
	if code, _ := serve(t, m, stdhttp.MethodPost, "/cleanup", `{"days":0}`, "s3cret"); code != stdhttp.StatusOK {
		t.Fatalf("zero days should use the default retention, got %d", code)
	}
	if code, _ := serve(t, m, stdhttp.MethodPost, "/cleanup", `{"days":5000}`, "s3cret"); code != stdhttp.StatusBadRequest {
		t.Fatalf("expected 400 for out of range days, got %d", code)
	}
}

func TestSafeList_AddListRemove(t *testing.T) {
	t.Parallel()
	safe := &fakeSafe{users: map[string]bool{}}
	m := chi.NewRouter()
	RegisterSafeList(phttp.AdaptChi(m), safe, nil)

	var out struct {
		Changed bool `json:"changed"`
	}
	code, raw := serve(t, m, stdhttp.MethodPost, "/g1", `{"userId":"u1"}`, "")
	if code != stdhttp.StatusOK || json.Unmarshal(raw, &out) != nil || !out.Changed {
		t.Fatalf("add: %d %s", code, raw)
	}
	code, raw = serve(t, m, stdhttp.MethodPost, "/g1", `{"userId":"u1"}`, "")
	if code != stdhttp.StatusOK || json.Unmarshal(raw, &out) != nil || out.Changed {
		t.Fatalf("re-add should not change: %d %s", code, raw)
	}

	var entries []statsdom.SafeEntry
	code, raw = serve(t, m, stdhttp.MethodGet, "/g1", "", "")
	if code != stdhttp.StatusOK || json.Unmarshal(raw, &entries) != nil || len(entries) != 1 || entries[0].UserID != "u1" {
		t.Fatalf("list: %d %s", code, raw)
	}

	code, raw = serve(t, m, stdhttp.MethodDelete, "/g1/u1", "", "")
	if code != stdhttp.StatusOK || json.Unmarshal(raw, &out) != nil || !out.Changed {
		t.Fatalf("remove: %d %s", code, raw)
	}
	if code, _ := serve(t, m, stdhttp.MethodPost, "/g1", `{"userId":"two words"}`, ""); code != stdhttp.StatusBadRequest {
		t.Fatalf("expected 400 for malformed user id, got %d", code)
	}
}
