// Package prompt composes the chat-completion prompts used to classify
// messages and interprets the model's yes/no answers
package prompt

import (
	"math"
	"strconv"
	"strings"
)

// Tier is the strictness band derived from a 1..10 sensitivity
type Tier int

const (
	TierLenient Tier = iota
	TierMedium
	TierStrict
	TierMaximal
)

// QZoneSensitivity is used for space/album share messages
const QZoneSensitivity = 10

// TierOf maps sensitivity to a tier: <=3 lenient, 4-6 medium, 7-9 strict, 10 maximal
func TierOf(sensitivity int) Tier {
	switch {
	case sensitivity <= 3:
		return TierLenient
	case sensitivity <= 6:
		return TierMedium
	case sensitivity <= 9:
		return TierStrict
	default:
		return TierMaximal
	}
}

func (t Tier) String() string {
	switch t {
	case TierLenient:
		return "lenient"
	case TierMedium:
		return "medium"
	case TierStrict:
		return "strict"
	default:
		return "maximal"
	}
}

// Temperature lowers with sensitivity, floored at 0.1
func Temperature(sensitivity int) float64 {
	t := math.Max(0.1, 0.3-float64(sensitivity-1)*0.02)
	return math.Round(t*1000) / 1000
}

// MaxTokens for a classification reply
func MaxTokens(tokenOptimization bool) int {
	if tokenOptimization {
		return 10
	}
	return 50
}

// Builder renders system and user prompts
type Builder struct {
	// CustomPrompt replaces the default rules paragraph when non-blank
	CustomPrompt      string
	TokenOptimization bool
}

// System composes core prompt, optional QZone paragraph, custom or default
// rules, the tier standard and the output instruction, in that order
func (b Builder) System(sensitivity int, qzone bool) string {
	var sb strings.Builder
	sb.WriteString(corePrompt)
	if qzone {
		sb.WriteString("\n\n")
		sb.WriteString(qzonePrompt)
	}
	if custom := strings.TrimSpace(b.CustomPrompt); custom != "" {
		sb.WriteString("\n\n")
		sb.WriteString(custom)
	} else {
		sb.WriteString(defaultRulesPrompt)
	}
	sb.WriteString("\n\n")
	sb.WriteString(tierStandard[TierOf(sensitivity)])
	if b.TokenOptimization {
		sb.WriteString("\n\n请严格按照要求只回答\"是\"或\"否\"，不要包含任何解释、分析或其他内容。")
	} else {
		sb.WriteString("\n\n请严格按照要求只回答\"是\"或\"否\"。")
	}
	return sb.String()
}

// User composes the analysis header, tier bullets and the content section
func (b Builder) User(content string, sensitivity int) string {
	var sb strings.Builder
	sb.WriteString(userHeader)
	sb.WriteString(tierBullets[TierOf(sensitivity)])
	sb.WriteString("\n\n消息内容：\"")
	sb.WriteString(content)
	sb.WriteString("\"\n\n")
	if b.TokenOptimization {
		sb.WriteString("请判断这条消息是否为广告。只回答 \"是\" 或 \"否\"。")
		return sb.String()
	}
	sb.WriteString(analysisPoints)
	sb.WriteString("\n\n请只回答 \"是\" 或 \"否\"，不要包含其他内容。当前检测敏感度：")
	sb.WriteString(strconv.Itoa(sensitivity))
	sb.WriteString("/10")
	return sb.String()
}

// ParseAnswer reads the model reply. Unrecognised replies count as an ad only
// at sensitivity 8 and above
func ParseAnswer(reply string, sensitivity int) bool {
	switch strings.ToLower(strings.TrimSpace(reply)) {
	case "是", "yes", "1", "true":
		return true
	case "否", "no", "0", "false":
		return false
	default:
		return sensitivity >= 8
	}
}

// HasQRCode interprets the QR sub-query reply
func HasQRCode(reply string) bool {
	r := strings.ToLower(strings.TrimSpace(reply))
	for _, marker := range []string{"是", "yes", "二维码", "qr", "扫码"} {
		if strings.Contains(r, marker) {
			return true
		}
	}
	return false
}
