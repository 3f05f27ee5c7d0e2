// Package http provides http transport for the verdict log
package http

import (
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"adwarden/internal/modkit/httpkit"
	perr "adwarden/internal/platform/errors"
	"adwarden/internal/services/verdicts/domain"
)

// Register mounts verdict endpoints on the given router
func Register(r httpkit.Router, q domain.QueryPort) {
	h := &handlers{q: q}
	httpkit.Get(r, "/{guild}", h.recent)
}

type handlers struct{ q domain.QueryPort }

// swagger:route GET /verdicts/{guild} Verdicts verdictsRecent
// @Summary Most recent verdicts of a guild
// @Tags Verdicts
// @Produce json
// @Param guild path string true "Guild id"
// @Param limit query int false "Max rows (default 50, max 500)"
// @Success 200 {array} domain.Event "ok"
// @Router /verdicts/{guild} [get]
func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, perr.WithField(perr.InvalidArgf("limit must be an integer"), "limit")
		}
		limit = n
	}
	return h.q.Recent(r.Context(), chi.URLParam(r, "guild"), limit)
}
