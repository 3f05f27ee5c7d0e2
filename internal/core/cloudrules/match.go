package cloudrules

import (
	"strings"

	"adwarden/internal/core/normalize"
)

// ContainsKeyword reports whether text contains any keyword, case-insensitively
// after normalization. A keyword also matches when punctuation or spacing was
// inserted between its characters
func ContainsKeyword(text string, keywords []string) bool {
	if text == "" || len(keywords) == 0 {
		return false
	}
	norm := normalize.Text(text)
	compact := normalize.Compact(text)
	for _, k := range keywords {
		nk := normalize.Text(k)
		if nk == "" {
			continue
		}
		if strings.Contains(norm, nk) {
			return true
		}
		if ck := normalize.Compact(k); ck != "" && strings.Contains(compact, ck) {
			return true
		}
	}
	return false
}
