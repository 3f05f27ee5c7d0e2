// Package share recognises QQ space / album share cards and pulls their
// human-readable text out for classification
package share

import (
	"encoding/json"
	"strings"
)

var cardMarkers = []string{
	`"app":"com.tencent.miniapp.lua"`,
	`"bizsrc":"qzone.albumshare"`,
	`"view":"miniapp"`,
}

var spaceMarkers = []string{"空间相册", "QQ空间相册", "qzone.qq.com", "mobile.qzone.qq.com"}

// IsQZoneShare reports whether content is a space/album share
func IsQZoneShare(content string) bool {
	card := true
	for _, m := range cardMarkers {
		if !strings.Contains(content, m) {
			card = false
			break
		}
	}
	if card {
		return true
	}
	for _, m := range spaceMarkers {
		if strings.Contains(content, m) {
			return true
		}
	}
	return strings.Contains(content, "[分享]") &&
		(strings.Contains(content, "空间") || strings.Contains(content, "相册"))
}

type card struct {
	Meta struct {
		Miniapp *struct {
			Title  string `json:"title"`
			Source string `json:"source"`
			Tag    string `json:"tag"`
		} `json:"miniapp"`
	} `json:"meta"`
	Desc   string `json:"desc"`
	Prompt string `json:"prompt"`
	Text   string `json:"text"`
}

// ExtractQZone returns the card's title, source, tag, desc, prompt and text joined
// by spaces. The first JSON object embedded in content is decoded; when none
// parses or nothing useful is found the content is returned unchanged
func ExtractQZone(content string) string {
	start := strings.IndexByte(content, '{')
	if start < 0 {
		return content
	}
	var c card
	if err := json.NewDecoder(strings.NewReader(content[start:])).Decode(&c); err != nil {
		return content
	}

	var sb strings.Builder
	if m := c.Meta.Miniapp; m != nil {
		for _, s := range []string{m.Title, m.Source, m.Tag} {
			sb.WriteString(s)
			sb.WriteByte(' ')
		}
	}
	for _, s := range []string{c.Desc, c.Prompt, c.Text} {
		sb.WriteString(s)
		sb.WriteByte(' ')
	}
	out := sb.String()
	if strings.TrimSpace(out) == "" {
		return content
	}
	return out
}
