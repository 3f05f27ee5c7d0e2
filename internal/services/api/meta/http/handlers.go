// Package http serves liveness, readiness and build info
package http

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"adwarden/internal/core/version"
	"adwarden/internal/modkit/httpkit"
	phttp "adwarden/internal/platform/net/http"
)

// Check is one backend readiness probe. A nil Ping means the backend is
// disabled
type Check struct {
	Name string
	Ping func(context.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Checks      []Check
	// ReadyTimeout bounds all pings together, 2s when zero
	ReadyTimeout time.Duration
}

type handlers struct {
	Deps
	now func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	h := &handlers{Deps: d, now: time.Now}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok" example:"true"`
	Service string `json:"service" example:"adwarden-api"`
	Started string `json:"started" example:"2026-01-01T08:00:00Z"`
	Now     string `json:"now" example:"2026-01-01T08:05:00Z"`
}

// ReadyCheck is the outcome of one probe: ok, fail or skipped
type ReadyCheck struct {
	Name   string `json:"name" example:"pg"`
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse is ok unless a probe failed
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// ServiceResponse is the service name and how long it has been up
type ServiceResponse struct {
	Name    string `json:"name" example:"adwarden-api"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime" example:"300"`
}

func (h *handlers) stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.ServiceName, Started: h.stamp(h.StartedAt), Now: h.stamp(h.now())}, nil
}

// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.ReadyTimeout)
	defer cancel()

	out := ReadyResponse{Status: "ok", Checks: make([]ReadyCheck, len(h.Checks))}
	var g errgroup.Group
	for i, c := range h.Checks {
		out.Checks[i] = ReadyCheck{Name: c.Name, Status: "skipped"}
		if c.Ping == nil {
			continue
		}
		g.Go(func() error {
			if err := c.Ping(ctx); err != nil {
				out.Checks[i].Status, out.Checks[i].Error = "fail", err.Error()
				return nil
			}
			out.Checks[i].Status = "ok"
			return nil
		})
	}
	_ = g.Wait()

	out.Now = h.stamp(h.now())
	for _, c := range out.Checks {
		if c.Status == "fail" {
			out.Status = "fail"
			return phttp.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
		}
	}
	return out, nil
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h *handlers) version(*http.Request) (any, error) {
	return version.Info(h.ServiceName), nil
}

// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h *handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.ServiceName,
		Started: h.stamp(h.StartedAt),
		Uptime:  int64(h.now().Sub(h.StartedAt) / time.Second),
	}, nil
}
