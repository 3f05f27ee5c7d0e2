// Package config reads settings from prefixed environment variables. Bad
// values log a warning and fall back to the default, so a typo never stops
// the process; only MustString and MayEnum are fatal
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"adwarden/internal/platform/logger"
)

// Conf is a view over the variables sharing a prefix, e.g. cfg.Prefix("ADWARDEN_LLM_")
type Conf struct{ prefix string }

// New is the unprefixed root view
func New() Conf { return Conf{} }

// Prefix narrows c by p
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) lookup(k string) string { return strings.TrimSpace(os.Getenv(c.key(k))) }

// may parses key with parse, returning def when unset or unparsable
func may[T any](c Conf, key string, def T, kind string, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Str("key", c.key(key)).Str("value", s).Interface("default", def).
			Msgf("invalid %s; using default", kind)
		return def
	}
	return v
}

// MustString panics when key is unset
func (c Conf) MustString(key string) string {
	v := c.lookup(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	return v
}

func (c Conf) MayString(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

func (c Conf) MayInt(key string, def int) int { return may(c, key, def, "int", strconv.Atoi) }

func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, "bool", strconv.ParseBool) }

func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, "duration", time.ParseDuration)
}

func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, def, "float", func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayIntIn is MayInt clamped into [lo, hi]
func (c Conf) MayIntIn(key string, def, lo, hi int) int {
	v := c.MayInt(key, def)
	if clamped := min(max(v, lo), hi); clamped != v {
		logger.Get().Warn().Str("key", c.key(key)).Int("value", v).Int("clamped", clamped).Msg("int out of range; clamping")
		return clamped
	}
	return v
}

// MayCSV splits a comma separated list, dropping blanks. def when nothing is left
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value, matched case insensitively against allowed, or
// def when unset. Anything else panics
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
