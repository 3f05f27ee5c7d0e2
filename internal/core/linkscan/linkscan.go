// Package linkscan flags suspicious http(s) links in free text using host and path heuristics
package linkscan

import (
	"net/url"
	"regexp"
	"strings"
)

// Reasons reported for a suspicious link
const (
	ReasonObjectStorage = "OSS对象存储链接"
	ReasonUnknownDomain = "不知名域名"
	reasonKeywordPrefix = "包含可疑关键词: "
)

// Options configures which rules run and the editable lists they consult
type Options struct {
	DetectObjectStorage bool
	DetectUnknown       bool
	Whitelist           []string // exact host or any subdomain of it
	SuspiciousKeywords  []string // substring match on host or path
}

// Result carries suspicious URLs and one reason per URL in discovery order
type Result struct {
	URLs    []string `json:"urls"`
	Reasons []string `json:"reasons"`
}

// Suspicious reports whether anything was flagged
func (r Result) Suspicious() bool { return len(r.URLs) > 0 }

// Scanner is stateless after construction and safe for concurrent use
type Scanner struct {
	opts      Options
	whitelist []string
	keywords  []string
}

var (
	urlRe = regexp.MustCompile(`(?i)https?://[^\s<>"'{}|\\^` + "`" + `\[\]]+`)

	// QQ image hosts go to vision instead
	qqImageHostRe = regexp.MustCompile(`(?i)\.qq\.com\.cn$`)

	builtinWhitelist = []string{"koishi.js.org"}

	objectStorageRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)[.-]oss[\w-]*\.aliyuncs\.com`),   // aliyun oss
		regexp.MustCompile(`(?i)\.cos\.[\w-]+\.myqcloud\.com`),  // tencent cos
		regexp.MustCompile(`(?i)\.qiniudn\.com`),                // qiniu
		regexp.MustCompile(`(?i)\.qbox\.me`),                    // qiniu
		regexp.MustCompile(`(?i)\.clouddn\.com`),                // qiniu
		regexp.MustCompile(`(?i)\.ufileos\.com`),                // ucloud
		regexp.MustCompile(`(?i)\.bcebos\.com`),                 // baidu bos
		regexp.MustCompile(`(?i)\.obs\.[\w-]+\.myhuaweicloud\.com`),
		regexp.MustCompile(`(?i)\.ks3-[\w-]+\.ksyun\.com`),
	}

	knownBrandRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\.(qq|tencent|weixin|wechat)\.com$`),
		regexp.MustCompile(`(?i)\.(baidu|baidubce)\.com$`),
		regexp.MustCompile(`(?i)\.(taobao|tmall|alibaba|aliyun|alipay)\.com$`),
		regexp.MustCompile(`(?i)\.(jd|360buy)\.com$`),
		regexp.MustCompile(`(?i)\.(github|gitlab|gitee)\.com$`),
		regexp.MustCompile(`(?i)\.(bilibili|acfun)\.com$`),
		regexp.MustCompile(`(?i)\.(zhihu|douban|jianshu)\.com$`),
		regexp.MustCompile(`(?i)\.(weibo|sina)\.com$`),
		regexp.MustCompile(`(?i)\.(douyin|toutiao|bytedance)\.com$`),
		regexp.MustCompile(`(?i)\.(xiaohongshu|xhs)\.com$`),
		regexp.MustCompile(`(?i)\.(kuaishou|kwai)\.com$`),
		regexp.MustCompile(`(?i)\.(163|126|yeah)\.net$`),
		regexp.MustCompile(`(?i)\.(sohu|sogou|soso)\.com$`),
		regexp.MustCompile(`(?i)\.(youku|tudou|iqiyi|le)\.com$`),
		regexp.MustCompile(`(?i)\.(microsoft|office|outlook|live)\.com$`),
		regexp.MustCompile(`(?i)\.(google|youtube|gmail)\.com$`),
		regexp.MustCompile(`(?i)\.(apple|icloud)\.com$`),
		regexp.MustCompile(`(?i)\.(amazon|aws)\.com$`),
		regexp.MustCompile(`(?i)\.(facebook|instagram|twitter)\.com$`),
	}

	randomLabelRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^[a-z0-9]{8,}$`),
		regexp.MustCompile(`[0-9]{4,}`),
		regexp.MustCompile(`(?i)^[a-z]{1,3}[0-9]{3,}`),
		regexp.MustCompile(`(?i)-[a-z0-9]{6,}`),
		regexp.MustCompile(`(?i)[a-z]{15,}`),
	}
)

// New builds a Scanner; list entries are lower-cased and blanks dropped
func New(opts Options) *Scanner {
	return &Scanner{
		opts:      opts,
		whitelist: lowerAll(opts.Whitelist),
		keywords:  lowerAll(opts.SuspiciousKeywords),
	}
}

// Scan extracts every http(s) link in text and classifies each one.
// Repeated links are reported once per occurrence
func (s *Scanner) Scan(text string) Result {
	var res Result
	for _, raw := range urlRe.FindAllString(text, -1) {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		host := strings.ToLower(u.Hostname())
		if host == "" {
			continue
		}
		if qqImageHostRe.MatchString(host) || s.whitelisted(host) {
			continue
		}
		if reason, ok := s.classify(host, strings.ToLower(u.Path)); ok {
			res.URLs = append(res.URLs, raw)
			res.Reasons = append(res.Reasons, reason)
		}
	}
	return res
}

// classify applies the rules in priority order, first match wins
func (s *Scanner) classify(host, path string) (string, bool) {
	if s.opts.DetectObjectStorage {
		for _, re := range objectStorageRes {
			if re.MatchString(host) {
				return ReasonObjectStorage, true
			}
		}
	}

	for _, kw := range s.keywords {
		if strings.Contains(host, kw) || strings.Contains(path, kw) {
			return reasonKeywordPrefix + kw, true
		}
	}

	if s.opts.DetectUnknown && !knownBrand(host) && randomLooking(mainLabel(host)) {
		return ReasonUnknownDomain, true
	}
	return "", false
}

func (s *Scanner) whitelisted(host string) bool {
	return matchesDomain(host, builtinWhitelist) || matchesDomain(host, s.whitelist)
}

func matchesDomain(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func knownBrand(host string) bool {
	for _, re := range knownBrandRes {
		if re.MatchString(host) {
			return true
		}
	}
	return false
}

// mainLabel is the label left of the TLD, "" for single label hosts
func mainLabel(host string) string {
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

func randomLooking(label string) bool {
	if len(label) > 20 {
		return true
	}
	for _, re := range randomLabelRes {
		if re.MatchString(label) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
