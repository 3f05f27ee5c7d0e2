// Package markup recognises the inline tags chat adapters put in message content:
// image tags, forward references in XML and CQ dialects, and CQ image codes
package markup

import (
	"regexp"
	"slices"
	"strings"
)

// Kind classifies a top-level message by the markup it carries
type Kind string

const (
	KindText    Kind = "text"
	KindImage   Kind = "image"
	KindForward Kind = "forward"
	KindMixed   Kind = "mixed"
)

var (
	imgTagRe    = regexp.MustCompile(`(?i)<img\s+src="([^"]+)"[^>]*/?>`)
	anyImgRe    = regexp.MustCompile(`(?i)<img[^>]*/?>`)
	emojiRe     = regexp.MustCompile(`sub-type="1"`)
	xmlForward  = regexp.MustCompile(`(?i)<forward\s+id="([^"]+)"\s*/?>`)
	cqForward   = regexp.MustCompile(`(?i)\[CQ:forward,id=([^,\]]+)(?:,content=[^\]]*)?\]`)
	validID     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	cqImageRe   = regexp.MustCompile(`(?i)\[CQ:image,([^\]]+)\]`)
	cqNextParam = regexp.MustCompile(`,\w+=`)
)

// IsForwardReference reports whether content references a forward bundle with a
// well formed id. Only the first tag of each dialect is consulted
func IsForwardReference(content string) bool {
	if content == "" {
		return false
	}
	if m := xmlForward.FindStringSubmatch(content); m != nil && validID.MatchString(m[1]) {
		return true
	}
	if m := cqForward.FindStringSubmatch(content); m != nil && validID.MatchString(m[1]) {
		return true
	}
	return false
}

// ExtractForwardIDs returns every valid id of either dialect in textual order
func ExtractForwardIDs(content string) []string {
	type hit struct {
		at int
		id string
	}
	var hits []hit
	for _, re := range []*regexp.Regexp{xmlForward, cqForward} {
		for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
			if id := content[m[2]:m[3]]; validID.MatchString(id) {
				hits = append(hits, hit{at: m[0], id: id})
			}
		}
	}
	slices.SortFunc(hits, func(a, b hit) int { return a.at - b.at })

	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.id)
	}
	return ids
}

// RemoveForwardTags removes both forward dialects and trims the rest
func RemoveForwardTags(content string) string {
	content = xmlForward.ReplaceAllString(content, "")
	content = cqForward.ReplaceAllString(content, "")
	return strings.TrimSpace(content)
}

// ForwardTag renders a forward reference in the XML dialect
func ForwardTag(id string) string { return `<forward id="` + id + `"/>` }

// ImageTag renders an inline image reference
func ImageTag(url string) string { return `<img src="` + url + `"/>` }

// FixImageURL undoes the escaping adapters apply to image URLs
func FixImageURL(u string) string {
	u = strings.ReplaceAll(u, "&amp;", "&")
	return strings.ReplaceAll(u, ";", "&")
}

// HasImage reports whether content carries at least one image tag with a src
func HasImage(content string) bool { return imgTagRe.MatchString(content) }

// IsEmoji reports whether content carries a sticker style image
func IsEmoji(content string) bool { return emojiRe.MatchString(content) }

// StripImages removes image tags and trims
func StripImages(content string) string {
	return strings.TrimSpace(anyImgRe.ReplaceAllString(content, ""))
}

// ImageURLs returns the fixed src of every image tag in order
func ImageURLs(content string) []string {
	ms := imgTagRe.FindAllStringSubmatch(content, -1)
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, FixImageURL(m[1]))
	}
	return out
}

// ImageRef is one image tag: its fixed src and whether it carries the
// sticker sub-type
type ImageRef struct {
	URL   string
	Emoji bool
}

// Images returns every image tag in order
func Images(content string) []ImageRef {
	ms := imgTagRe.FindAllStringSubmatch(content, -1)
	out := make([]ImageRef, 0, len(ms))
	for _, m := range ms {
		out = append(out, ImageRef{URL: FixImageURL(m[1]), Emoji: emojiRe.MatchString(m[0])})
	}
	return out
}

// Classify labels content as forward, image, mixed or text
func Classify(content string) Kind {
	switch {
	case IsForwardReference(content):
		return KindForward
	case HasImage(content):
		if StripImages(content) != "" {
			return KindMixed
		}
		return KindImage
	default:
		return KindText
	}
}

// ConvertCQImages rewrites [CQ:image,...] codes into image tags. The url parameter
// wins over file; codes without either are left untouched
func ConvertCQImages(content string) string {
	if content == "" {
		return content
	}
	return cqImageRe.ReplaceAllStringFunc(content, func(code string) string {
		params := cqImageRe.FindStringSubmatch(code)[1]
		src := cqParam(params, "url=")
		if src == "" {
			src = cqParam(params, "file=")
		}
		if src == "" {
			return code
		}
		return `<img src="` + FixImageURL(src) + `" alt="转发图片" />`
	})
}

// cqParam reads key from a CQ parameter list; values run until the next ",key="
// so URLs with commas survive
func cqParam(params, key string) string {
	i := strings.Index(params, key)
	if i < 0 {
		return ""
	}
	rest := params[i+len(key):]
	if loc := cqNextParam.FindStringIndex(rest); loc != nil {
		rest = rest[:loc[0]]
	}
	return rest
}
