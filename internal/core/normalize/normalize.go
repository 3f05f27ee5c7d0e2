// Package normalize folds chat text into a canonical form for keyword matching
// and cache keys
// Pipeline order
// 1 Sanitize control characters and invalid UTF-8
// 2 Unicode NFKC normalization
// 3 Case folding
// 4 Remove combining marks and format characters (zero widths, BOM)
// 5 Width fold fullwidth to ASCII
// 6 Collapse whitespace runs to single spaces and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// transform chains are stateful, so each call borrows one
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// Text returns the canonical form of s. Digits are kept as is since contact
// numbers are the signal in most spam
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(ns), " ")
}

// Compact is Text with everything but letters, digits and underscore removed,
// so "加 . 群" and "加群" compare equal
func Compact(s string) string {
	return stripNonWord(Text(s))
}

func stripNonWord(s string) string {
	if s == "" {
		return s
	}
	b := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b = append(b, r)
		}
	}
	return string(b)
}
