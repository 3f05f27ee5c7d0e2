// Package http provides http transport for message stats and the safe list
package http

import (
	stdhttp "net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"adwarden/internal/modkit/httpkit"
	perr "adwarden/internal/platform/errors"
	"adwarden/internal/platform/net/middleware"
	"adwarden/internal/services/api/stats/domain"
)

// Register mounts stats endpoints on the given router
func Register(r httpkit.Router, s domain.StatsPort, admin middleware.AuthPort) {
	h := &handlers{stats: s}

	// totals across every guild
	httpkit.Get(r, "/overview", h.overview)

	// per guild and per user counters
	httpkit.Get(r, "/guilds/{guild}", h.guild)
	httpkit.Get(r, "/guilds/{guild}/users/{user}", h.user)
	httpkit.Get(r, "/users/{user}", h.userAll)

	httpkit.Protected(r, admin, func(pr httpkit.Router) {
		httpkit.PostJSON[domain.CleanupInput](pr, "/cleanup", h.cleanup)
	})
}

// RegisterSafeList mounts safe list endpoints on the given router
func RegisterSafeList(r httpkit.Router, s domain.SafeListPort, admin middleware.AuthPort) {
	h := &handlers{safe: s}

	httpkit.Get(r, "/{guild}", h.safeList)
	httpkit.Protected(r, admin, func(pr httpkit.Router) {
		httpkit.PostJSON[domain.SafeAddInput](pr, "/{guild}", h.safeAdd)
		httpkit.Delete(pr, "/{guild}/{user}", h.safeRemove)
	})
}

type handlers struct {
	stats domain.StatsPort
	safe  domain.SafeListPort
}

func param(r *stdhttp.Request, name string) (string, error) {
	v := strings.TrimSpace(chi.URLParam(r, name))
	if v == "" {
		return "", perr.WithField(perr.InvalidArgf("%s is required", name), name)
	}
	return v, nil
}

// swagger:route GET /stats/overview Stats statsOverview
// @Summary Totals across every counter row
// @Tags Stats
// @Produce json
// @Success 200 {object} statsdom.Overview "ok"
// @Router /stats/overview [get]
func (h *handlers) overview(r *stdhttp.Request) (any, error) {
	return h.stats.Overview(r.Context())
}

// swagger:route GET /stats/guilds/{guild} Stats statsGuild
// @Summary Counters of every user in a guild
// @Tags Stats
// @Produce json
// @Param guild path string true "Guild id"
// @Success 200 {array} statsdom.UserStats "ok"
// @Router /stats/guilds/{guild} [get]
func (h *handlers) guild(r *stdhttp.Request) (any, error) {
	g, err := param(r, "guild")
	if err != nil {
		return nil, err
	}
	return h.stats.GuildStats(r.Context(), g)
}

// swagger:route GET /stats/guilds/{guild}/users/{user} Stats statsUser
// @Summary Counters of one user in one guild
// @Tags Stats
// @Produce json
// @Param guild path string true "Guild id"
// @Param user path string true "User id"
// @Success 200 {object} statsdom.UserStats "ok"
// @Failure 404 {object} errors.Wire "not found"
// @Router /stats/guilds/{guild}/users/{user} [get]
func (h *handlers) user(r *stdhttp.Request) (any, error) {
	g, err := param(r, "guild")
	if err != nil {
		return nil, err
	}
	u, err := param(r, "user")
	if err != nil {
		return nil, err
	}
	st, err := h.stats.UserStats(r.Context(), u, g)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, perr.NotFoundf("no stats for user %s in guild %s", u, g)
	}
	return st, nil
}

// swagger:route GET /stats/users/{user} Stats statsUserAll
// @Summary Counters of one user across guilds
// @Tags Stats
// @Produce json
// @Param user path string true "User id"
// @Success 200 {array} statsdom.UserStats "ok"
// @Router /stats/users/{user} [get]
func (h *handlers) userAll(r *stdhttp.Request) (any, error) {
	u, err := param(r, "user")
	if err != nil {
		return nil, err
	}
	return h.stats.UserAllStats(r.Context(), u)
}

// swagger:route POST /stats/cleanup Stats statsCleanup
// @Summary Remove counters older than the given days
// @Tags Stats
// @Accept json
// @Produce json
// @Param payload body domain.CleanupInput true "Retention"
// @Success 200 {object} domain.CleanupOutput "ok"
// @Router /stats/cleanup [post]
func (h *handlers) cleanup(r *stdhttp.Request, in domain.CleanupInput) (any, error) {
	n, err := h.stats.CleanupOldData(r.Context(), in.Days)
	if err != nil {
		return nil, err
	}
	return domain.CleanupOutput{Removed: n}, nil
}

// swagger:route GET /safelist/{guild} SafeList safeListGet
// @Summary Users exempt from detection in a guild
// @Tags SafeList
// @Produce json
// @Param guild path string true "Guild id"
// @Success 200 {array} statsdom.SafeEntry "ok"
// @Router /safelist/{guild} [get]
func (h *handlers) safeList(r *stdhttp.Request) (any, error) {
	g, err := param(r, "guild")
	if err != nil {
		return nil, err
	}
	return h.safe.SafeList(r.Context(), g)
}

// swagger:route POST /safelist/{guild} SafeList safeListAdd
// @Summary Exempt a user in a guild
// @Tags SafeList
// @Accept json
// @Produce json
// @Param guild path string true "Guild id"
// @Param payload body domain.SafeAddInput true "User"
// @Success 200 {object} domain.SafeChangeOutput "ok"
// @Router /safelist/{guild} [post]
func (h *handlers) safeAdd(r *stdhttp.Request, in domain.SafeAddInput) (any, error) {
	g, err := param(r, "guild")
	if err != nil {
		return nil, err
	}
	changed, err := h.safe.AddSafe(r.Context(), g, in.UserID)
	if err != nil {
		return nil, err
	}
	return domain.SafeChangeOutput{GuildID: g, UserID: in.UserID, Changed: changed}, nil
}

// swagger:route DELETE /safelist/{guild}/{user} SafeList safeListRemove
// @Summary Remove a user from the safe list
// @Tags SafeList
// @Produce json
// @Param guild path string true "Guild id"
// @Param user path string true "User id"
// @Success 200 {object} domain.SafeChangeOutput "ok"
// @Router /safelist/{guild}/{user} [delete]
func (h *handlers) safeRemove(r *stdhttp.Request) (any, error) {
	g, err := param(r, "guild")
	if err != nil {
		return nil, err
	}
	u, err := param(r, "user")
	if err != nil {
		return nil, err
	}
	changed, err := h.safe.RemoveSafe(r.Context(), g, u)
	if err != nil {
		return nil, err
	}
	return domain.SafeChangeOutput{GuildID: g, UserID: u, Changed: changed}, nil
}
