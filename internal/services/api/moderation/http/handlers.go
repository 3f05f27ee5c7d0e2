// Package http provides http transport for moderation
package http

import (
	stdhttp "net/http"

	"adwarden/internal/modkit/httpkit"
	"adwarden/internal/services/api/moderation/domain"
	moddom "adwarden/internal/services/moderation/domain"
)

// Register mounts moderation endpoints on the given router
func Register(r httpkit.Router, d domain.Deps) {
	h := &handlers{d: d}

	// full pipeline
	httpkit.PostJSON[moddom.Message](r, "/inspect", h.inspect)

	// single stage tools
	httpkit.PostJSON[domain.ClassifyInput](r, "/classify", h.classify)
	httpkit.PostJSON[domain.ScanInput](r, "/links/scan", h.scanLinks)

	httpkit.Get(r, "/queue", h.queue)
	httpkit.Get(r, "/offenses", h.offenses)
	httpkit.Get(r, "/keywords", h.keywords)

	// state changes need the admin token when one is configured
	httpkit.Protected(r, d.Admin, func(pr httpkit.Router) {
		httpkit.Post(pr, "/queue/reset", h.resetQueue)
		httpkit.Post(pr, "/offenses/reset", h.resetOffenses)
		httpkit.Post(pr, "/keywords/refresh", h.refreshKeywords)
	})
}

type handlers struct{ d domain.Deps }

// swagger:route POST /moderation/inspect Moderation moderationInspect
// @Summary Run the moderation pipeline on one message
// @Tags Moderation
// @Accept json
// @Produce json
// @Param payload body moddom.Message true "Message"
// @Success 200 {object} moddom.Verdict "ok"
// @Router /moderation/inspect [post]
func (h *handlers) inspect(r *stdhttp.Request, in moddom.Message) (any, error) {
	return h.d.Inspector.Inspect(r.Context(), in)
}

// swagger:route POST /moderation/classify Moderation moderationClassify
// @Summary Classify raw text with the model
// @Tags Moderation
// @Accept json
// @Produce json
// @Param payload body domain.ClassifyInput true "Text"
// @Success 200 {object} domain.ClassifyOutput "ok"
// @Router /moderation/classify [post]
func (h *handlers) classify(r *stdhttp.Request, in domain.ClassifyInput) (any, error) {
	if in.QZone {
		isAd, err := h.d.Classifier.ClassifyQZone(r.Context(), in.Text)
		if err != nil {
			return nil, err
		}
		return domain.ClassifyOutput{IsAd: isAd, Sensitivity: 10}, nil
	}

	s := in.Sensitivity
	if s == 0 {
		s = h.d.Sensitivity
	}
	isAd, err := h.d.Classifier.Classify(r.Context(), in.Text, s)
	if err != nil {
		return nil, err
	}
	return domain.ClassifyOutput{IsAd: isAd, Sensitivity: s}, nil
}

// swagger:route POST /moderation/links/scan Moderation moderationScanLinks
// @Summary Scan text for suspicious links
// @Tags Moderation
// @Accept json
// @Produce json
// @Param payload body domain.ScanInput true "Text"
// @Success 200 {object} linkscan.Result "ok"
// @Router /moderation/links/scan [post]
func (h *handlers) scanLinks(_ *stdhttp.Request, in domain.ScanInput) (any, error) {
	return h.d.Links.Scan(in.Text), nil
}

// swagger:route GET /moderation/queue Moderation moderationQueue
// @Summary Classification queue status and counters
// @Tags Moderation
// @Produce json
// @Success 200 {object} domain.QueueOutput "ok"
// @Router /moderation/queue [get]
func (h *handlers) queue(_ *stdhttp.Request) (any, error) {
	return domain.QueueOutput{
		Enabled: h.d.Queue.Enabled(),
		Status:  h.d.Queue.Status(),
		Stats:   h.d.Queue.Stats(),
	}, nil
}

// swagger:route POST /moderation/queue/reset Moderation moderationQueueReset
// @Summary Reset queue counters
// @Tags Moderation
// @Produce json
// @Success 200 {object} domain.ResetOutput "ok"
// @Router /moderation/queue/reset [post]
func (h *handlers) resetQueue(_ *stdhttp.Request) (any, error) {
	h.d.Queue.ResetStats()
	return domain.ResetOutput{OK: true}, nil
}

// swagger:route GET /moderation/offenses Moderation moderationOffenses
// @Summary Repeat offense settings and record counts
// @Tags Moderation
// @Produce json
// @Success 200 {object} domain.OffensesOutput "ok"
// @Router /moderation/offenses [get]
func (h *handlers) offenses(r *stdhttp.Request) (any, error) {
	st, err := h.d.Offenses.Stats(r.Context())
	if err != nil {
		return nil, err
	}
	o := h.d.Offenses.Options()
	return domain.OffensesOutput{
		Enabled:       o.Enabled,
		Threshold:     o.Threshold,
		WindowMinutes: int(o.Window.Minutes()),
		Stats:         st,
	}, nil
}

// swagger:route POST /moderation/offenses/reset Moderation moderationOffensesReset
// @Summary Drop every offense record
// @Tags Moderation
// @Produce json
// @Success 200 {object} domain.ResetOutput "ok"
// @Router /moderation/offenses/reset [post]
func (h *handlers) resetOffenses(r *stdhttp.Request) (any, error) {
	if err := h.d.Offenses.Reset(r.Context()); err != nil {
		return nil, err
	}
	return domain.ResetOutput{OK: true}, nil
}

// swagger:route GET /moderation/keywords Moderation moderationKeywords
// @Summary Effective pre-filter keywords
// @Tags Moderation
// @Produce json
// @Success 200 {object} domain.KeywordsOutput "ok"
// @Router /moderation/keywords [get]
func (h *handlers) keywords(_ *stdhttp.Request) (any, error) {
	return domain.KeywordsOutput{Stats: h.d.Keywords.Stats(), Keywords: h.d.Keywords.AllKeywords()}, nil
}

// swagger:route POST /moderation/keywords/refresh Moderation moderationKeywordsRefresh
// @Summary Fetch the cloud keyword list now
// @Tags Moderation
// @Produce json
// @Success 200 {object} domain.KeywordsOutput "ok"
// @Router /moderation/keywords/refresh [post]
func (h *handlers) refreshKeywords(r *stdhttp.Request) (any, error) {
	if err := h.d.Keywords.Refresh(r.Context()); err != nil {
		return nil, err
	}
	return h.keywords(r)
}
