package linkscan

import (
	"reflect"
	"testing"
)

func TestScan_ObjectStorageVsWhitelisted(t *testing.T) {
	t.Parallel()

	s := New(DefaultOptions())
	res := s.Scan("看这个 https://cdn.example-oss.aliyuncs.com/x 还有 https://github.com/y")

	want := Result{
		URLs:    []string{"https://cdn.example-oss.aliyuncs.com/x"},
		Reasons: []string{ReasonObjectStorage},
	}
	if !reflect.DeepEqual(res, want) {
		t.Fatalf("Scan = %+v, want %+v", res, want)
	}
}

func TestScan_Rules(t *testing.T) {
	t.Parallel()

	s := New(DefaultOptions())
	cases := []struct {
		name   string
		in     string
		reason string // "" means not suspicious
	}{
		{"whitelist subdomain", "https://api.github.com/repos", ""},
		{"builtin whitelist", "https://forum.koishi.js.org/t/1", ""},
		{"qq image host", "https://gchat.qpic.qq.com.cn/abc", ""},
		{"tencent cos", "https://bucket-1250000000.cos.ap-shanghai.myqcloud.com/a.png", ReasonObjectStorage},
		{"huawei obs", "https://b.obs.cn-north-4.myhuaweicloud.com/x", ReasonObjectStorage},
		{"keyword in path", "https://example.com/download/app.apk", "包含可疑关键词: download"},
		{"keyword in host", "https://files.example.org/a", "包含可疑关键词: file"},
		{"random label", "https://abc12345.xyz/", ReasonUnknownDomain},
		{"digits run", "https://a.shop1234.com/", ReasonUnknownDomain},
		{"letters then digits", "https://ab999.top/", ReasonUnknownDomain},
		{"long label", "https://thisisaverylongdomainname.cn/", ReasonUnknownDomain},
		{"plain unknown", "https://shop.net/", ""},
		{"bad escape skipped", "http://%zz.com/", ""},
		{"no links", "just chatting, no links here", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := s.Scan(c.in)
			if c.reason == "" {
				if res.Suspicious() {
					t.Fatalf("Scan(%q) flagged %+v", c.in, res)
				}
				return
			}
			if len(res.Reasons) != 1 || res.Reasons[0] != c.reason {
				t.Fatalf("Scan(%q) = %+v, want reason %q", c.in, res, c.reason)
			}
		})
	}
}

func TestScan_NoDedup(t *testing.T) {
	t.Parallel()

	s := New(DefaultOptions())
	res := s.Scan("https://abc12345.xyz/ and again https://abc12345.xyz/")
	if len(res.URLs) != 2 || len(res.Reasons) != 2 {
		t.Fatalf("repeated link should be reported twice, got %+v", res)
	}
}

func TestScan_RulesCanBeDisabled(t *testing.T) {
	t.Parallel()

	s := New(Options{})
	res := s.Scan("https://cdn.example-oss.aliyuncs.com/x https://abc12345.xyz/")
	if res.Suspicious() {
		t.Fatalf("all rules off but got %+v", res)
	}

	s = New(Options{SuspiciousKeywords: []string{"  OSS ", ""}})
	res = s.Scan("https://cdn.example-oss.aliyuncs.com/x")
	if len(res.Reasons) != 1 || res.Reasons[0] != "包含可疑关键词: oss" {
		t.Fatalf("keyword should be normalized, got %+v", res)
	}
}

func TestMainLabelAndRandomness(t *testing.T) {
	t.Parallel()

	if got := mainLabel("a.b.example.com"); got != "example" {
		t.Fatalf("mainLabel = %q", got)
	}
	if got := mainLabel("localhost"); got != "" {
		t.Fatalf("mainLabel single = %q", got)
	}
	if randomLooking("shop") {
		t.Fatalf("shop is not random")
	}
	if !randomLooking("x-abcdef1") {
		t.Fatalf("hyphen suffix should be random")
	}
}
