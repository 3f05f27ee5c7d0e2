package prompt

import (
	"strings"
	"testing"
)

func TestTierOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		sens int
		want Tier
	}{
		{1, TierLenient},
		{3, TierLenient},
		{4, TierMedium},
		{6, TierMedium},
		{7, TierStrict},
		{9, TierStrict},
		{10, TierMaximal},
	}
	for _, tc := range cases {
		if got := TierOf(tc.sens); got != tc.want {
			t.Fatalf("TierOf(%d)=%s want %s", tc.sens, got, tc.want)
		}
	}
}

func TestTemperature(t *testing.T) {
	t.Parallel()

	cases := []struct {
		sens int
		want float64
	}{
		{1, 0.3},
		{5, 0.22},
		{10, 0.12},
		{20, 0.1},
	}
	for _, tc := range cases {
		if got := Temperature(tc.sens); got != tc.want {
			t.Fatalf("Temperature(%d)=%v want %v", tc.sens, got, tc.want)
		}
	}
	if MaxTokens(true) != 10 || MaxTokens(false) != 50 {
		t.Fatalf("unexpected max tokens")
	}
}

func TestSystem_Order(t *testing.T) {
	t.Parallel()

	s := Builder{}.System(10, true)
	iCore := strings.Index(s, "广告监测机器人")
	iQZone := strings.Index(s, "当前检测的是QQ空间分享消息")
	iRules := strings.Index(s, "重要判定原则")
	iTier := strings.Index(s, "极严格模式")
	iOut := strings.Index(s, "请严格按照要求只回答")
	if !strings.HasPrefix(s, corePrompt) {
		t.Fatalf("core prompt should lead, got %q", s[:min(len(s), 60)])
	}
	if !(iCore < iQZone && iQZone < iRules && iRules < iTier && iTier < iOut) {
		t.Fatalf("sections out of order: %d %d %d %d %d", iCore, iQZone, iRules, iTier, iOut)
	}
	if !strings.HasSuffix(s, "请严格按照要求只回答\"是\"或\"否\"。") {
		t.Fatalf("unexpected output instruction: %q", s[len(s)-60:])
	}
}

func TestSystem_CustomReplacesDefaultRules(t *testing.T) {
	t.Parallel()

	s := Builder{CustomPrompt: "  只看是否卖课  ", TokenOptimization: true}.System(2, false)
	if strings.Contains(s, "重要判定原则") {
		t.Fatalf("default rules should be skipped with a custom prompt")
	}
	if !strings.Contains(s, "\n\n只看是否卖课\n\n检测标准：宽松模式") {
		t.Fatalf("custom prompt not placed before tier standard: %q", s)
	}
	if strings.Contains(s, "QQ空间分享消息") {
		t.Fatalf("qzone paragraph should be absent")
	}
	if !strings.Contains(s, "不要包含任何解释") {
		t.Fatalf("token optimised instruction missing")
	}
}

func TestUser(t *testing.T) {
	t.Parallel()

	full := Builder{}.User("加V领福利", 7)
	if !strings.Contains(full, "消息内容：\"加V领福利\"") {
		t.Fatalf("content not quoted: %q", full)
	}
	if !strings.Contains(full, "• 严格检查") || strings.Contains(full, "• 极严格检查") {
		t.Fatalf("wrong tier bullets")
	}
	if !strings.HasSuffix(full, "当前检测敏感度：7/10") {
		t.Fatalf("missing sensitivity suffix")
	}

	short := Builder{TokenOptimization: true}.User("hi", 2)
	if strings.Contains(short, "分析要点") {
		t.Fatalf("token optimised prompt should skip analysis points")
	}
	if !strings.Contains(short, "• 仅检测") {
		t.Fatalf("lenient bullets missing")
	}
}

func TestParseAnswer(t *testing.T) {
	t.Parallel()

	cases := []struct {
		reply string
		sens  int
		want  bool
	}{
		{"是", 1, true},
		{" YES ", 1, true},
		{"1", 1, true},
		{"True", 1, true},
		{"否", 10, false},
		{"no", 10, false},
		{"0", 10, false},
		{"false", 10, false},
		{"maybe", 7, false},
		{"maybe", 8, true},
		{"", 10, true},
	}
	for _, tc := range cases {
		if got := ParseAnswer(tc.reply, tc.sens); got != tc.want {
			t.Fatalf("ParseAnswer(%q,%d)=%v want %v", tc.reply, tc.sens, got, tc.want)
		}
	}
}

func TestHasQRCode(t *testing.T) {
	t.Parallel()

	yes := []string{"是，右下角有一个二维码", "Yes", "图片中心有QR码", "请扫码添加"}
	for _, r := range yes {
		if !HasQRCode(r) {
			t.Fatalf("expected QR for %q", r)
		}
	}
	if HasQRCode("否") {
		t.Fatalf("否 should not be QR")
	}
}
