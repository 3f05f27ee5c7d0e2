package service

import (
	"context"
	"slices"

	"adwarden/internal/services/moderation/domain"
)

const (
	noteLink      = "可疑链接检测"
	noteQRPrefix  = "二维码检测: "
	noteQRUnknown = "无法解析内容"
)

func (s *Svc) flagAd(ctx context.Context, m domain.Message, v *domain.Verdict, t domain.Trigger, text string) {
	v.IsAd, v.Trigger, v.Content = true, t, text
	s.decide(ctx, m, v, s.opt.Rules, text, false)
}

// flagLinks marks v when text carries suspicious links
func (s *Svc) flagLinks(ctx context.Context, m domain.Message, v *domain.Verdict, text string) bool {
	if !s.opt.LinkDetection || s.d.Links == nil {
		return false
	}
	r := s.d.Links.Scan(text)
	if !r.Suspicious() {
		return false
	}
	v.IsAd, v.Trigger, v.Content = true, domain.TriggerLink, text
	v.Links, v.Reasons = r.URLs, r.Reasons
	s.decide(ctx, m, v, s.opt.LinkAction, noteLink, true)
	return true
}

func (s *Svc) flagQR(ctx context.Context, m domain.Message, v *domain.Verdict, qr string) {
	v.IsAd, v.Trigger, v.QRContent = true, domain.TriggerQRCode, qr
	note := qr
	if note == "" {
		note = noteQRUnknown
	}
	s.decide(ctx, m, v, s.opt.QRAction, noteQRPrefix+note, true)
}

// decide records the offense and merges the rule action into v.Decision. A
// repeat offense replaces the warning and mute of the action with the
// escalation; recall always follows the action
func (s *Svc) decide(ctx context.Context, m domain.Message, v *domain.Verdict, act Action, note string, quoteRepeat bool) {
	d := &v.Decision
	count, repeat := s.offend(ctx, m, note)
	d.OffenseCount = count

	if repeat {
		o := s.d.Offenses.Options()
		d.Repeat = true
		if o.WarningTemplate != "" {
			d.Warn = true
			d.WarningText = s.d.Offenses.WarningText(m.UserID, count)
			if quoteRepeat {
				d.ReplyTo = m.MessageID
			}
		}
		d.Mute, d.MuteFor = true, o.MuteFor
		d.Kick = d.Kick || o.Kick
	}

	d.Recall = d.Recall || act.Recall

	if !repeat {
		if act.Warn && act.Warning != "" {
			d.Warn, d.WarningText, d.ReplyTo = true, act.Warning, m.MessageID
		}
		if act.Mute && act.MuteFor > 0 {
			d.Mute, d.MuteFor = true, act.MuteFor
		}
		d.Kick = d.Kick || act.Kick
	}
}

func (s *Svc) offend(ctx context.Context, m domain.Message, note string) (int, bool) {
	if s.d.Offenses == nil || !s.d.Offenses.Enabled() {
		return 0, false
	}
	n, err := s.d.Offenses.AddOffense(ctx, m.UserID, m.Group(), note)
	if err != nil {
		s.log.Warn().Err(err).Str("guild", m.Group()).Str("user", m.UserID).Msg("record offense failed")
		return 0, false
	}
	return n, s.d.Offenses.Escalates(n)
}

// applyNested adds the nested forward notice and recall to v.Decision
func (s *Svc) applyNested(m domain.Message, v *domain.Verdict) {
	p := s.opt.Nested
	if !p.Enabled {
		return
	}
	if p.Notify && p.Message != "" {
		v.Decision.Notify = append(v.Decision.Notify, p.Message)
	}
	switch p.RecallType {
	case RecallGlobal:
		v.Decision.Recall = true
	case RecallBlacklist:
		v.Decision.Recall = v.Decision.Recall || slices.Contains(p.Blacklist, m.UserID)
	}
	s.log.Info().
		Str("guild", m.Group()).
		Str("user", m.UserID).
		Str("recall_type", p.RecallType).
		Bool("recall", v.Decision.Recall).
		Msg("nested forward detected")
}
