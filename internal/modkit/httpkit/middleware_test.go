package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func wrap(h http.Handler) http.Handler {
	stack := CommonStack()
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}
	return h
}

func TestCommonStack_Health(t *testing.T) {
	t.Parallel()
	rr := httptest.NewRecorder()
	wrap(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("health: %d", rr.Code)
	}
}

func TestCommonStack_Headers(t *testing.T) {
	t.Parallel()
	h := wrap(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/queue", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status %d", rr.Code)
	}
	if rr.Header().Get("Cache-Control") == "" {
		t.Fatalf("no-cache headers missing: %v", rr.Header())
	}
}

func TestCommonStack_PanicBecomes500(t *testing.T) {
	t.Parallel()
	rr := httptest.NewRecorder()
	wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}
