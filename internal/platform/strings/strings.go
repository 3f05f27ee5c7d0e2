// Package strings holds the small string helpers used during wiring
package strings

import std "strings"

// IfEmpty returns def when in has no elements
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString panics with name when s is blank
func MustString(s, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a mount path to one leading slash and no trailing
// one. A blank or root-only path panics
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), "/")
	if s == "/" {
		panic("mount prefix is required")
	}
	return s
}
