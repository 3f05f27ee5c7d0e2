// Package service runs the moderation pipeline: gatekeeping, forward expansion,
// link and QR rules, image recognition and model classification, and turns the
// outcome into a Decision for the chat adapter
package service

import (
	"context"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"adwarden/internal/adapters/llm"
	"adwarden/internal/core/forward"
	"adwarden/internal/core/linkscan"
	"adwarden/internal/core/markup"
	"adwarden/internal/core/offense"
	"adwarden/internal/core/share"
	"adwarden/internal/platform/logger"
	"adwarden/internal/services/moderation/domain"
	statsdom "adwarden/internal/services/msgstats/domain"
	verdictdom "adwarden/internal/services/verdicts/domain"
)

// Classifier judges raw text and QZone shares
type Classifier interface {
	Classify(ctx context.Context, text string, sensitivity int) (bool, error)
	ClassifyQZone(ctx context.Context, content string) (bool, error)
}

// Queue admits classification work, usually an *admission.Dispatcher
type Queue interface {
	Submit(ctx context.Context, text string) (bool, error)
}

// Recognizer reads images, usually an *llm.Vision
type Recognizer interface {
	Enabled() bool
	Options() llm.VisionOptions
	RecognizeAll(ctx context.Context, urls []string) ([]*llm.VisionResult, error)
}

// Expander flattens forward bundles, usually a *forward.Resolver
type Expander interface {
	Resolve(ctx context.Context, content string, depth int) forward.Result
}

// Offenses counts repeat offenders, usually an *offense.Tracker
type Offenses interface {
	Enabled() bool
	Options() offense.Options
	AddOffense(ctx context.Context, userID, guildID, note string) (int, error)
	Escalates(count int) bool
	WarningText(userID string, count int) string
}

// Keywords gates model calls, usually a *cloudrules.Manager
type Keywords interface {
	Matches(text string) bool
}

// Links scans text for suspicious URLs, usually a *linkscan.Scanner
type Links interface {
	Scan(text string) linkscan.Result
}

// Deps are the collaborators of the pipeline. Classifier and Queue are
// required; the rest may be nil
type Deps struct {
	Classifier Classifier
	Queue      Queue
	Vision     Recognizer
	Forwards   Expander
	Offenses   Offenses
	Keywords   Keywords
	Links      Links
	Stats      statsdom.RecorderPort
	Verdicts   verdictdom.WriterPort
	Log        logger.Logger
}

// Svc implements domain.InspectorPort
type Svc struct {
	opt Options
	d   Deps
	log logger.Logger
	now func() time.Time
}

// New constructs the pipeline
func New(opt Options, d Deps) *Svc {
	if d.Classifier == nil {
		panic("moderation.Service requires a non nil Classifier")
	}
	if d.Queue == nil {
		panic("moderation.Service requires a non nil Queue")
	}
	if opt.LocalWhitelist == nil {
		opt.LocalWhitelist = map[string][]string{}
	}
	return &Svc{opt: opt, d: d, log: d.Log, now: time.Now}
}

// Options returns the effective settings
func (s *Svc) Options() Options { return s.opt }

// Inspect runs the pipeline over one message. Only context errors are
// returned; model and storage failures are logged and listed in the verdict
func (s *Svc) Inspect(ctx context.Context, m domain.Message) (*domain.Verdict, error) {
	start := s.now()
	v := &domain.Verdict{MessageID: m.MessageID, GuildID: m.Group(), UserID: m.UserID}

	if reason := s.gate(ctx, m); reason != "" {
		v.Skipped = reason
		observe(v, s.now().Sub(start))
		return v, nil
	}

	if err := s.inspect(ctx, m, v); err != nil {
		return nil, err
	}
	if s.opt.AutoRecall && (v.Decision.Warn || len(v.Decision.Notify) > 0) {
		v.Decision.AutoRecallAfter = s.opt.AutoRecallDelay
	}
	v.Elapsed = s.now().Sub(start)
	observe(v, v.Elapsed)
	s.appendEvent(ctx, v)

	if v.Flagged() {
		s.log.Info().
			Str("guild", v.GuildID).
			Str("user", v.UserID).
			Str("trigger", string(v.Trigger)).
			Str("content", preview(v.Content, 100)).
			Bool("repeat", v.Decision.Repeat).
			Msg("advertisement detected")
	}
	return v, nil
}

// gate returns a skip reason for messages that are never inspected
func (s *Svc) gate(ctx context.Context, m domain.Message) string {
	group := m.Group()
	switch {
	case m.Direct:
		return domain.SkipDirect
	case group == "":
		return domain.SkipNoGuild
	case len(s.opt.MonitoredGroups) > 0 && !slices.Contains(s.opt.MonitoredGroups, group):
		return domain.SkipUnmonitored
	case slices.Contains(s.opt.GlobalWhitelist, m.UserID), slices.Contains(s.opt.LocalWhitelist[group], m.UserID):
		return domain.SkipWhitelisted
	}

	if s.d.Stats != nil {
		exempt, err := s.d.Stats.Exempt(ctx, group, m.UserID)
		if err != nil {
			s.log.Warn().Err(err).Str("guild", group).Str("user", m.UserID).Msg("safe list lookup failed")
		}
		if exempt {
			if err := s.d.Stats.TouchLastActive(ctx, m.UserID, group); err != nil {
				s.log.Warn().Err(err).Str("guild", group).Str("user", m.UserID).Msg("touch last active failed")
			}
			return domain.SkipSafeList
		}
	}

	switch {
	case slices.Contains(s.opt.Admins, m.UserID):
		return domain.SkipAdmin
	case strings.TrimSpace(m.Content) == "":
		return domain.SkipEmpty
	}
	return ""
}

func (s *Svc) inspect(ctx context.Context, m domain.Message, v *domain.Verdict) error {
	content := m.Content
	v.Type = markup.Classify(content)

	if share.IsQZoneShare(content) {
		return s.inspectQZone(ctx, m, v)
	}
	if v.Type == markup.KindImage && s.visionOn() {
		return s.inspectImages(ctx, m, v)
	}

	items := []string{content}
	var bundle []string
	if v.Type == markup.KindForward && s.d.Forwards != nil {
		res := s.d.Forwards.Resolve(ctx, content, 0)
		if err := ctx.Err(); err != nil {
			return err
		}
		v.DepthExceeded = res.DepthExceeded
		if len(res.Items) > 0 {
			items, bundle = res.Items, res.Items
		}
		if res.Nested > 0 {
			v.NestedForward = true
			s.applyNested(m, v)
		}
	}

	valid := s.filterLength(items)
	if len(valid) == 0 {
		v.Skipped = domain.SkipTooShort
		return nil
	}
	v.Items = len(valid)

	for _, it := range valid {
		if s.flagLinks(ctx, m, v, it) {
			return nil
		}
	}

	valid = s.filterKeywords(valid)
	if len(valid) == 0 {
		v.Skipped = domain.SkipNoKeyword
		return nil
	}

	if s.visionOn() {
		var urls []string
		switch v.Type {
		case markup.KindForward:
			for _, it := range bundle {
				urls = append(urls, llm.ExtractImageURLs(it, false)...)
			}
		case markup.KindMixed:
			urls = llm.ExtractImageURLs(content, s.d.Vision.Options().SkipEmoji)
		}
		if len(urls) > 0 {
			results, err := s.d.Vision.RecognizeAll(ctx, urls)
			if err != nil {
				return err
			}
			texts := s.screenImages(ctx, m, v, results)
			if v.Flagged() {
				return nil
			}
			valid = append(valid, texts...)
		}
	}

	isAd, text, err := s.classifyAll(ctx, v, valid)
	if err != nil {
		return err
	}
	s.record(ctx, m, isAd)
	if isAd {
		s.flagAd(ctx, m, v, domain.TriggerAI, text)
	}
	return nil
}

func (s *Svc) inspectQZone(ctx context.Context, m domain.Message, v *domain.Verdict) error {
	v.Items = 1
	isAd, err := s.d.Classifier.ClassifyQZone(ctx, m.Content)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn().Err(err).Str("guild", v.GuildID).Str("user", v.UserID).Msg("qzone share classification failed")
		v.Errors = append(v.Errors, err.Error())
		return nil
	}
	if isAd {
		s.flagAd(ctx, m, v, domain.TriggerQZone, m.Content)
	}
	return nil
}

func (s *Svc) inspectImages(ctx context.Context, m domain.Message, v *domain.Verdict) error {
	urls := llm.ExtractImageURLs(m.Content, s.d.Vision.Options().SkipEmoji)
	if len(urls) == 0 {
		v.Skipped = domain.SkipSticker
		return nil
	}
	results, err := s.d.Vision.RecognizeAll(ctx, urls)
	if err != nil {
		return err
	}
	v.Items = len(results)

	texts := s.screenImages(ctx, m, v, results)
	if v.Flagged() || len(texts) == 0 {
		return nil
	}
	isAd, text, err := s.classifyAll(ctx, v, texts)
	if err != nil {
		return err
	}
	if isAd {
		s.flagAd(ctx, m, v, domain.TriggerAI, text)
	}
	return nil
}

// screenImages applies the QR and link rules image by image and returns the
// recognised texts that pass the length and keyword filters
func (s *Svc) screenImages(ctx context.Context, m domain.Message, v *domain.Verdict, results []*llm.VisionResult) []string {
	var out []string
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.HasQRCode {
			s.flagQR(ctx, m, v, r.QRContent)
			return nil
		}
		if r.RecognizedText == nil {
			continue
		}
		text := strings.TrimSpace(*r.RecognizedText)
		if text == "" {
			continue
		}
		if s.flagLinks(ctx, m, v, text) {
			return nil
		}
		if len(s.filterLength([]string{text})) == 0 || len(s.filterKeywords([]string{text})) == 0 {
			continue
		}
		out = append(out, text)
	}
	return out
}

// classifyAll submits items in order and stops at the first ad. Queue and
// model failures skip the item
func (s *Svc) classifyAll(ctx context.Context, v *domain.Verdict, items []string) (bool, string, error) {
	for _, it := range items {
		isAd, err := s.d.Queue.Submit(ctx, it)
		if err != nil {
			if ctx.Err() != nil {
				return false, "", ctx.Err()
			}
			s.log.Warn().Err(err).Str("guild", v.GuildID).Str("user", v.UserID).Msg("classification skipped")
			v.Errors = append(v.Errors, err.Error())
			continue
		}
		if isAd {
			return true, it, nil
		}
	}
	return false, "", nil
}

func (s *Svc) filterLength(items []string) []string {
	if !s.opt.LengthFilter {
		return items
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if utf8.RuneCountInString(strings.TrimSpace(it)) >= s.opt.MinLength {
			out = append(out, it)
		}
	}
	return out
}

func (s *Svc) filterKeywords(items []string) []string {
	if !s.opt.KeywordTrigger || s.d.Keywords == nil {
		return items
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s.d.Keywords.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

func (s *Svc) visionOn() bool { return s.d.Vision != nil && s.d.Vision.Enabled() }

func (s *Svc) record(ctx context.Context, m domain.Message, isAd bool) {
	if s.d.Stats == nil {
		return
	}
	if err := s.d.Stats.RecordMessage(ctx, m.UserID, m.Group(), isAd); err != nil {
		s.log.Warn().Err(err).Str("guild", m.Group()).Str("user", m.UserID).Msg("record message stats failed")
	}
}

func (s *Svc) appendEvent(ctx context.Context, v *domain.Verdict) {
	if s.d.Verdicts == nil {
		return
	}
	e := verdictdom.Event{
		GuildID:       v.GuildID,
		UserID:        v.UserID,
		Kind:          eventKind(v),
		IsAd:          v.IsAd,
		Reason:        eventReason(v),
		Items:         v.Items,
		DepthExceeded: v.DepthExceeded,
		ElapsedMs:     v.Elapsed.Milliseconds(),
	}
	if err := s.d.Verdicts.Append(ctx, e); err != nil {
		s.log.Warn().Err(err).Str("guild", v.GuildID).Msg("append verdict failed")
	}
}

func eventKind(v *domain.Verdict) verdictdom.Kind {
	switch v.Trigger {
	case domain.TriggerQZone:
		return verdictdom.KindQZone
	case domain.TriggerLink:
		return verdictdom.KindLink
	case domain.TriggerQRCode:
		return verdictdom.KindQRCode
	}
	return verdictdom.Kind(v.Type)
}

func eventReason(v *domain.Verdict) string {
	switch v.Trigger {
	case domain.TriggerLink:
		return strings.Join(v.Reasons, "; ")
	case domain.TriggerQRCode:
		return preview(v.QRContent, 200)
	case domain.TriggerNone:
		return v.Skipped
	}
	return preview(v.Content, 200)
}

func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
