package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize drops NUL, ASCII controls other than \t \n \r, DEL, C1 controls and
// invalid UTF-8 bytes. Clean input is returned unchanged
func Sanitize(s string) string {
	if clean(s) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unwanted(r) {
			return -1
		}
		return r
	}, strings.ToValidUTF8(s, ""))
}

func unwanted(r rune) bool {
	switch {
	case r == '\n' || r == '\r' || r == '\t':
		return false
	case r < 0x20 || r == 0x7F:
		return true
	case r >= 0x80 && r <= 0x9F:
		return true
	}
	return false
}

func clean(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if unwanted(r) {
			return false
		}
	}
	return true
}
