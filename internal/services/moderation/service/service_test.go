package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"adwarden/internal/adapters/llm"
	"adwarden/internal/core/forward"
	"adwarden/internal/core/linkscan"
	"adwarden/internal/core/markup"
	"adwarden/internal/core/offense"
	"adwarden/internal/services/moderation/domain"
	verdictdom "adwarden/internal/services/verdicts/domain"
)

type fakeClassifier struct {
	qzone    bool
	qzoneErr error
	qzoneN   int
}

func (f *fakeClassifier) Classify(context.Context, string, int) (bool, error) {
	return false, errors.New("use the queue")
}

func (f *fakeClassifier) ClassifyQZone(context.Context, string) (bool, error) {
	f.qzoneN++
	return f.qzone, f.qzoneErr
}

// fakeQueue flags texts listed in ads and fails those in errs
type fakeQueue struct {
	ads  map[string]bool
	errs map[string]error
	seen []string
}

func (f *fakeQueue) Submit(ctx context.Context, text string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	f.seen = append(f.seen, text)
	if err := f.errs[text]; err != nil {
		return false, err
	}
	return f.ads[text], nil
}

type fakeVision struct {
	results []*llm.VisionResult
	urls    []string
}

func (f *fakeVision) Enabled() bool              { return true }
func (f *fakeVision) Options() llm.VisionOptions { return llm.VisionOptions{Enabled: true} }

func (f *fakeVision) RecognizeAll(_ context.Context, urls []string) ([]*llm.VisionResult, error) {
	f.urls = append(f.urls, urls...)
	return f.results, nil
}

type fakeExpander struct{ res forward.Result }

func (f fakeExpander) Resolve(context.Context, string, int) forward.Result { return f.res }

type fakeKeywords struct{ words []string }

func (f fakeKeywords) Matches(text string) bool {
	return slices.ContainsFunc(f.words, func(w string) bool { return strings.Contains(text, w) })
}

type fakeStats struct {
	exempt   bool
	recorded []bool
	touched  int
}

func (f *fakeStats) RecordMessage(_ context.Context, _, _ string, isAd bool) error {
	f.recorded = append(f.recorded, isAd)
	return nil
}

func (f *fakeStats) TouchLastActive(context.Context, string, string) error {
	f.touched++
	return nil
}

func (f *fakeStats) Exempt(context.Context, string, string) (bool, error) { return f.exempt, nil }

type fakeVerdicts struct{ events []verdictdom.Event }

func (f *fakeVerdicts) Append(_ context.Context, e verdictdom.Event) error {
	f.events = append(f.events, e)
	return nil
}

type rig struct {
	cls      *fakeClassifier
	queue    *fakeQueue
	stats    *fakeStats
	verdicts *fakeVerdicts
}

func newRig(t *testing.T, opt Options, mutate func(*Deps)) (*Svc, *rig) {
	t.Helper()
	r := &rig{
		cls:      &fakeClassifier{},
		queue:    &fakeQueue{ads: map[string]bool{}, errs: map[string]error{}},
		stats:    &fakeStats{},
		verdicts: &fakeVerdicts{},
	}
	d := Deps{
		Classifier: r.cls,
		Queue:      r.queue,
		Links:      linkscan.New(linkscan.DefaultOptions()),
		Stats:      r.stats,
		Verdicts:   r.verdicts,
		Log:        zerolog.Nop(),
	}
	if mutate != nil {
		mutate(&d)
	}
	return New(opt, d), r
}

func msg(content string) domain.Message {
	return domain.Message{MessageID: "m1", GuildID: "g1", UserID: "u1", Content: content}
}

func TestNew_PanicsOnNil(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic without classifier")
		}
	}()
	New(DefaultOptions(), Deps{Queue: &fakeQueue{}})
}

func TestInspect_GateReasons(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		opt    func(*Options)
		exempt bool
		m      domain.Message
		want   string
	}{
		{"direct", nil, false, domain.Message{UserID: "u1", GuildID: "g1", Content: "x", Direct: true}, domain.SkipDirect},
		{"no guild", nil, false, domain.Message{UserID: "u1", Content: "x"}, domain.SkipNoGuild},
		{"unmonitored", func(o *Options) { o.MonitoredGroups = []string{"g2"} }, false, msg("hello there"), domain.SkipUnmonitored},
		{"global whitelist", func(o *Options) { o.GlobalWhitelist = []string{"u1"} }, false, msg("hello there"), domain.SkipWhitelisted},
		{"local whitelist", func(o *Options) { o.LocalWhitelist = map[string][]string{"g1": {"u1"}} }, false, msg("hello there"), domain.SkipWhitelisted},
		{"safe list", nil, true, msg("hello there"), domain.SkipSafeList},
		{"admin", func(o *Options) { o.Admins = []string{"u1"} }, false, msg("hello there"), domain.SkipAdmin},
		{"empty", nil, false, msg("   "), domain.SkipEmpty},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			opt := DefaultOptions()
			if tc.opt != nil {
				tc.opt(&opt)
			}
			s, r := newRig(t, opt, nil)
			r.stats.exempt = tc.exempt

			v, err := s.Inspect(context.Background(), tc.m)
			if err != nil {
				t.Fatalf("Inspect: %v", err)
			}
			if v.Skipped != tc.want {
				t.Fatalf("skipped=%q want %q", v.Skipped, tc.want)
			}
			if len(r.verdicts.events) != 0 || len(r.queue.seen) != 0 {
				t.Fatalf("gated message reached the pipeline: events=%d submits=%d", len(r.verdicts.events), len(r.queue.seen))
			}
			if tc.exempt && r.stats.touched != 1 {
				t.Fatalf("safe list hit should touch last active, got %d", r.stats.touched)
			}
		})
	}
}

func TestInspect_ChannelStandsInForGuild(t *testing.T) {
	t.Parallel()

	s, _ := newRig(t, DefaultOptions(), nil)
	v, err := s.Inspect(context.Background(), domain.Message{UserID: "u1", ChannelID: "c1", Content: "普通的聊天内容"})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if v.Skipped != "" || v.GuildID != "c1" {
		t.Fatalf("channel fallback failed: %+v", v)
	}
}

func TestInspect_TextAd(t *testing.T) {
	t.Parallel()

	s, r := newRig(t, DefaultOptions(), nil)
	text := "加群免费领取资料"
	r.queue.ads[text] = true

	v, err := s.Inspect(context.Background(), msg(text))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !v.IsAd || v.Trigger != domain.TriggerAI || v.Content != text || v.Type != markup.KindText {
		t.Fatalf("unexpected verdict %+v", v)
	}
	d := v.Decision
	if d.Recall || !d.Warn || d.WarningText != DefaultAdWarning || d.ReplyTo != "m1" || d.Mute {
		t.Fatalf("unexpected decision %+v", d)
	}
	if !slices.Equal(r.stats.recorded, []bool{true}) {
		t.Fatalf("stats recorded %v", r.stats.recorded)
	}
	if len(r.verdicts.events) != 1 {
		t.Fatalf("events=%d", len(r.verdicts.events))
	}
	e := r.verdicts.events[0]
	if !e.IsAd || e.Kind != verdictdom.KindText || e.Reason != text || e.UserID != "u1" || e.GuildID != "g1" {
		t.Fatalf("unexpected event %+v", e)
	}
}

func TestInspect_NormalTextRecordsStats(t *testing.T) {
	t.Parallel()

	s, r := newRig(t, DefaultOptions(), nil)
	v, err := s.Inspect(context.Background(), msg("今天晚上吃什么"))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if v.Flagged() || !v.Decision.Empty() {
		t.Fatalf("normal text flagged: %+v", v)
	}
	if !slices.Equal(r.stats.recorded, []bool{false}) {
		t.Fatalf("stats recorded %v", r.stats.recorded)
	}
}

func TestInspect_TooShortAndKeywordGate(t *testing.T) {
	t.Parallel()

	s, r := newRig(t, DefaultOptions(), nil)
	v, _ := s.Inspect(context.Background(), msg("ok"))
	if v.Skipped != domain.SkipTooShort {
		t.Fatalf("skipped=%q want too_short", v.Skipped)
	}
	if len(r.verdicts.events) != 1 || r.verdicts.events[0].Reason != domain.SkipTooShort {
		t.Fatalf("too short message should still be logged: %+v", r.verdicts.events)
	}

	opt := DefaultOptions()
	opt.KeywordTrigger = true
	s, r = newRig(t, opt, func(d *Deps) { d.Keywords = fakeKeywords{words: []string{"加"}} })
	v, _ = s.Inspect(context.Background(), msg("今天天气不错啊"))
	if v.Skipped != domain.SkipNoKeyword || len(r.queue.seen) != 0 {
		t.Fatalf("keyword gate: skipped=%q submits=%d", v.Skipped, len(r.queue.seen))
	}
	v, _ = s.Inspect(context.Background(), msg("加我好友送资料"))
	if v.Skipped != "" || len(r.queue.seen) != 1 {
		t.Fatalf("keyword hit should classify: skipped=%q submits=%d", v.Skipped, len(r.queue.seen))
	}
}

func TestInspect_SuspiciousLink(t *testing.T) {
	t.Parallel()

	s, r := newRig(t, DefaultOptions(), nil)
	v, err := s.Inspect(context.Background(), msg("快来看看 https://abc12345.xyz/"))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if v.Trigger != domain.TriggerLink || len(v.Links) != 1 || len(v.Reasons) != 1 {
		t.Fatalf("unexpected verdict %+v", v)
	}
	if !v.Decision.Recall || !v.Decision.Warn || v.Decision.WarningText != DefaultLinkWarning || v.Decision.Mute {
		t.Fatalf("unexpected decision %+v", v.Decision)
	}
	if len(r.queue.seen) != 0 || len(r.stats.recorded) != 0 {
		t.Fatalf("link hit should short circuit: submits=%d stats=%v", len(r.queue.seen), r.stats.recorded)
	}
	if r.verdicts.events[0].Kind != verdictdom.KindLink {
		t.Fatalf("event kind %q", r.verdicts.events[0].Kind)
	}

	opt := DefaultOptions()
	opt.LinkDetection = false
	s, _ = newRig(t, opt, nil)
	v, _ = s.Inspect(context.Background(), msg("快来看看 https://abc12345.xyz/"))
	if v.Flagged() {
		t.Fatalf("link detection disabled but flagged: %+v", v)
	}
}

func TestInspect_QZone(t *testing.T) {
	t.Parallel()

	s, r := newRig(t, DefaultOptions(), nil)
	r.cls.qzone = true
	v, err := s.Inspect(context.Background(), msg("快来看我的空间相册"))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if v.Trigger != domain.TriggerQZone || v.Items != 1 || r.cls.qzoneN != 1 {
		t.Fatalf("unexpected verdict %+v calls=%d", v, r.cls.qzoneN)
	}
	if len(r.queue.seen) != 0 || len(r.stats.recorded) != 0 {
		t.Fatalf("qzone path should not use the queue or stats")
	}

	s, r = newRig(t, DefaultOptions(), nil)
	r.cls.qzoneErr = errors.New("model down")
	v, err = s.Inspect(context.Background(), msg("快来看我的空间相册"))
	if err != nil {
		t.Fatalf("model errors must not surface: %v", err)
	}
	if v.Flagged() || len(v.Errors) != 1 {
		t.Fatalf("qzone failure: %+v", v)
	}
}

func TestInspect_ImageQRCode(t *testing.T) {
	t.Parallel()

	vis := &fakeVision{results: []*llm.VisionResult{{URL: "https://img.example.com/a.png", HasQRCode: true, QRContent: "https://u.wechat.com/x"}}}
	s, r := newRig(t, DefaultOptions(), func(d *Deps) { d.Vision = vis })

	v, err := s.Inspect(context.Background(), msg(markup.ImageTag("https://img.example.com/a.png")))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if v.Type != markup.KindImage || v.Trigger != domain.TriggerQRCode || v.QRContent != "https://u.wechat.com/x" {
		t.Fatalf("unexpected verdict %+v", v)
	}
	if !v.Decision.Recall || v.Decision.WarningText != DefaultQRWarning {
		t.Fatalf("unexpected decision %+v", v.Decision)
	}
	if len(vis.urls) != 1 || len(r.queue.seen) != 0 {
		t.Fatalf("vision urls=%v submits=%d", vis.urls, len(r.queue.seen))
	}
	if r.verdicts.events[0].Kind != verdictdom.KindQRCode {
		t.Fatalf("event kind %q", r.verdicts.events[0].Kind)
	}
}

func TestInspect_ImageTextClassified(t *testing.T) {
	t.Parallel()

	text := "加微信领红包啦"
	vis := &fakeVision{results: []*llm.VisionResult{{URL: "https://img.example.com/a.png", RecognizedText: &text}}}
	s, r := newRig(t, DefaultOptions(), func(d *Deps) { d.Vision = vis })
	r.queue.ads[text] = true

	v, err := s.Inspect(context.Background(), msg(markup.ImageTag("https://img.example.com/a.png")))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if v.Trigger != domain.TriggerAI || v.Content != text || v.Items != 1 {
		t.Fatalf("unexpected verdict %+v", v)
	}
	if len(r.stats.recorded) != 0 {
		t.Fatalf("image only messages are not counted, got %v", r.stats.recorded)
	}
}

func TestInspect_NestedForward(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		recall     string
		blacklist  []string
		wantRecall bool
	}{
		{"notify only", RecallNone, nil, false},
		{"global", RecallGlobal, nil, true},
		{"blacklisted", RecallBlacklist, []string{"u1"}, true},
		{"not blacklisted", RecallBlacklist, []string{"u9"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			opt := DefaultOptions()
			opt.Nested.RecallType = tc.recall
			opt.Nested.Blacklist = tc.blacklist
			opt.AutoRecall = true
			exp := fakeExpander{res: forward.Result{Items: []string{"第一条普通消息", "第二条普通消息"}, Nested: 1}}
			s, r := newRig(t, opt, func(d *Deps) { d.Forwards = exp })

			v, err := s.Inspect(context.Background(), msg(markup.ForwardTag("123")))
			if err != nil {
				t.Fatalf("Inspect: %v", err)
			}
			if !v.NestedForward || v.Type != markup.KindForward || v.Items != 2 {
				t.Fatalf("unexpected verdict %+v", v)
			}
			if v.Decision.Recall != tc.wantRecall {
				t.Fatalf("recall=%v want %v", v.Decision.Recall, tc.wantRecall)
			}
			if !slices.Equal(v.Decision.Notify, []string{DefaultNestedNotice}) {
				t.Fatalf("notify=%v", v.Decision.Notify)
			}
			if v.Decision.AutoRecallAfter != 30*time.Second {
				t.Fatalf("auto recall=%v", v.Decision.AutoRecallAfter)
			}
			if len(r.queue.seen) != 2 {
				t.Fatalf("each bundle item should be classified, got %v", r.queue.seen)
			}
		})
	}
}

func TestInspect_QueueErrorsSkipped(t *testing.T) {
	t.Parallel()

	exp := fakeExpander{res: forward.Result{Items: []string{"第一条消息内容", "加群领取福利"}}}
	s, r := newRig(t, DefaultOptions(), func(d *Deps) { d.Forwards = exp })
	r.queue.errs["第一条消息内容"] = errors.New("queue full")
	r.queue.ads["加群领取福利"] = true

	v, err := s.Inspect(context.Background(), msg(markup.ForwardTag("1")))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if v.Trigger != domain.TriggerAI || v.Content != "加群领取福利" || len(v.Errors) != 1 {
		t.Fatalf("unexpected verdict %+v", v)
	}
}

func TestInspect_ContextCanceled(t *testing.T) {
	t.Parallel()

	s, r := newRig(t, DefaultOptions(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Inspect(ctx, msg("普通的聊天内容")); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v want context.Canceled", err)
	}
	if len(r.verdicts.events) != 0 {
		t.Fatalf("canceled inspection should not be logged")
	}
}

func TestInspect_RepeatOffenseEscalates(t *testing.T) {
	t.Parallel()

	tracker := offense.New(offense.NewMemStore(), offense.Options{
		Enabled:         true,
		Window:          time.Hour,
		Threshold:       2,
		MuteFor:         time.Hour,
		WarningTemplate: "{userId} hit {count}",
		PruneEvery:      time.Hour,
	})
	s, r := newRig(t, DefaultOptions(), func(d *Deps) { d.Offenses = tracker })
	text := "加群免费领取资料"
	r.queue.ads[text] = true

	first, _ := s.Inspect(context.Background(), msg(text))
	if first.Decision.Repeat || first.Decision.OffenseCount != 1 || first.Decision.Mute {
		t.Fatalf("first offense: %+v", first.Decision)
	}

	second, _ := s.Inspect(context.Background(), msg(text))
	d := second.Decision
	if !d.Repeat || d.OffenseCount != 2 || !d.Mute || d.MuteFor != time.Hour {
		t.Fatalf("second offense should escalate: %+v", d)
	}
	if d.WarningText != "u1 hit 2" || d.ReplyTo != "" {
		t.Fatalf("repeat warning=%q reply=%q", d.WarningText, d.ReplyTo)
	}

	link, _ := s.Inspect(context.Background(), msg("快来看看 https://abc12345.xyz/"))
	if !link.Decision.Repeat || link.Decision.ReplyTo != "m1" || !link.Decision.Recall {
		t.Fatalf("repeat link offense should quote and recall: %+v", link.Decision)
	}
}
